package ipc_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"bingwall/internal/bing"
	"bingwall/internal/config"
	"bingwall/internal/daemon"
	"bingwall/internal/events"
	"bingwall/internal/fetch"
	"bingwall/internal/ipc"
	"bingwall/internal/logging"
	"bingwall/internal/state"
	"bingwall/internal/testsupport"
	"bingwall/internal/timer"
	"bingwall/internal/timerstate"
)

type rpcSource struct {
	mu  sync.Mutex
	img bing.Image
}

func (s *rpcSource) FetchImage(ctx context.Context, market string) (*bing.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := s.img
	return &img, nil
}

func (s *rpcSource) Download(ctx context.Context, img *bing.Image, dir, market string) (string, bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, err
	}
	path := filepath.Join(dir, bing.Filename(market, img.Date))
	if err := os.WriteFile(path, []byte("image-bytes"), 0o644); err != nil {
		return "", false, err
	}
	return path, true, nil
}

type rpcApplier struct{}

func (rpcApplier) Apply(ctx context.Context, imagePath string) error { return nil }

func TestIPCServerClient(t *testing.T) {
	cfg, cfgPath := testsupport.NewConfig(t)
	root := testsupport.BaseDir(cfg)
	dir := cfg.WallpaperDir

	logger := logging.NewNop()
	store := timerstate.NewStore(config.TimerStatePathFor(cfgPath), logger)
	tm, err := timer.New(store, logger)
	if err != nil {
		t.Fatalf("timer.New: %v", err)
	}
	st := state.New(cfg, cfgPath, tm)

	source := &rpcSource{img: bing.Image{
		URL:   "https://www.bing.com/th/id/OHR.Test.jpg",
		Title: "Test Image",
		Date:  "20260214",
	}}
	hub := events.NewHub(64)

	orch, err := fetch.New(st, source, rpcApplier{}, hub, logger)
	if err != nil {
		t.Fatalf("fetch.New: %v", err)
	}

	socket := filepath.Join(root, "bingwall.sock")
	d, err := daemon.New(st, store, orch, rpcApplier{}, hub, nil, logger,
		daemon.Paths{Socket: socket, Lock: filepath.Join(root, "bingwall.lock")}, "test")
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := d.Start(ctx); err != nil {
		t.Fatalf("daemon.Start: %v", err)
	}
	t.Cleanup(d.Stop)

	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	market, err := client.GetMarket()
	if err != nil {
		t.Fatalf("GetMarket failed: %v", err)
	}
	if market != "en-US" {
		t.Fatalf("expected initial market en-US, got %s", market)
	}

	if err := client.SetMarket("de-DE"); err != nil {
		t.Fatalf("SetMarket failed: %v", err)
	}
	if market, err = client.GetMarket(); err != nil || market != "de-DE" {
		t.Fatalf("expected market de-DE after SetMarket, got %s (err %v)", market, err)
	}
	if err := client.SetMarket("not a market"); err == nil {
		t.Fatal("expected SetMarket to reject a malformed code")
	}

	wallDir, err := client.GetWallpaperDir()
	if err != nil {
		t.Fatalf("GetWallpaperDir failed: %v", err)
	}
	if wallDir != dir {
		t.Fatalf("expected wallpaper dir %s, got %s", dir, wallDir)
	}

	enabled, err := client.GetTimerEnabled()
	if err != nil {
		t.Fatalf("GetTimerEnabled failed: %v", err)
	}
	if enabled {
		t.Fatal("expected timer to start disabled")
	}
	if err := client.SetTimerEnabled(true); err != nil {
		t.Fatalf("SetTimerEnabled failed: %v", err)
	}
	if enabled, err = client.GetTimerEnabled(); err != nil || !enabled {
		t.Fatalf("expected timer enabled after SetTimerEnabled, got %v (err %v)", enabled, err)
	}
	nextRun, err := client.GetTimerNextRun()
	if err != nil {
		t.Fatalf("GetTimerNextRun failed: %v", err)
	}
	if nextRun == "" {
		t.Fatal("expected a next run time for an enabled timer")
	}

	fetchResp, err := client.Fetch(true)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetchResp.Entry.Filename != "bing-de-DE-2026-02-14.jpg" {
		t.Fatalf("unexpected fetched filename: %s", fetchResp.Entry.Filename)
	}
	if !fetchResp.Downloaded || !fetchResp.Applied {
		t.Fatalf("expected downloaded and applied, got %#v", fetchResp)
	}
	if fetchResp.Title != "Test Image" {
		t.Fatalf("unexpected fetch title: %s", fetchResp.Title)
	}

	current, err := client.GetCurrentWallpaperPath()
	if err != nil {
		t.Fatalf("GetCurrentWallpaperPath failed: %v", err)
	}
	if current != fetchResp.Entry.Path {
		t.Fatalf("expected current wallpaper %s, got %s", fetchResp.Entry.Path, current)
	}

	histResp, err := client.GetHistory()
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}
	if len(histResp.Entries) != 1 || histResp.Entries[0].Filename != fetchResp.Entry.Filename {
		t.Fatalf("unexpected history: %#v", histResp.Entries)
	}

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if status.PID != os.Getpid() {
		t.Fatalf("expected status PID %d, got %d", os.Getpid(), status.PID)
	}
	if status.Version != "test" || status.Market != "de-DE" || !status.TimerEnabled {
		t.Fatalf("unexpected status snapshot: %#v", status)
	}
	if status.SocketPath != socket {
		t.Fatalf("expected socket path %s, got %s", socket, status.SocketPath)
	}

	marketsResp, err := client.GetMarkets()
	if err != nil {
		t.Fatalf("GetMarkets failed: %v", err)
	}
	if len(marketsResp.Markets) != 21 {
		t.Fatalf("expected 21 markets, got %d", len(marketsResp.Markets))
	}
	foundUS := false
	for _, m := range marketsResp.Markets {
		if m.Code == "en-US" && m.Name == "United States" {
			foundUS = true
		}
	}
	if !foundUS {
		t.Fatal("expected en-US in the market table")
	}

	cfgJSON, err := client.GetConfig()
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if !strings.Contains(cfgJSON, `"market": "de-DE"`) {
		t.Fatalf("expected config JSON to carry the new market, got %s", cfgJSON)
	}

	evResp, err := client.Events(ipc.EventsRequest{Since: 0})
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(evResp.Events) == 0 || evResp.Next == 0 {
		t.Fatalf("expected buffered events with a cursor, got %#v", evResp)
	}
	sawChange := false
	for _, evt := range evResp.Events {
		if evt.Type == events.TypeWallpaperChanged && evt.Path == fetchResp.Entry.Path {
			sawChange = true
		}
	}
	if !sawChange {
		t.Fatal("expected a wallpaper_changed event for the fetched image")
	}

	drained, err := client.Events(ipc.EventsRequest{Since: evResp.Next, WaitMillis: 50})
	if err != nil {
		t.Fatalf("Events long-poll failed: %v", err)
	}
	if len(drained.Events) != 0 || drained.Next != evResp.Next {
		t.Fatalf("expected a drained long-poll to keep the cursor, got %#v", drained)
	}

	if err := client.DeleteWallpaper(fetchResp.Entry.Path); err != nil {
		t.Fatalf("DeleteWallpaper failed: %v", err)
	}
	if histResp, err = client.GetHistory(); err != nil || len(histResp.Entries) != 0 {
		t.Fatalf("expected empty history after delete, got %#v (err %v)", histResp, err)
	}
	if current, err = client.GetCurrentWallpaperPath(); err != nil || current != "" {
		t.Fatalf("expected cleared current wallpaper, got %s (err %v)", current, err)
	}

	if err := os.WriteFile(fetchResp.Entry.Path, []byte("image-bytes"), 0o644); err != nil {
		t.Fatalf("recreate wallpaper: %v", err)
	}
	if err := client.Apply(fetchResp.Entry.Path); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if current, err = client.GetCurrentWallpaperPath(); err != nil || current != fetchResp.Entry.Path {
		t.Fatalf("expected reapplied wallpaper %s, got %s (err %v)", fetchResp.Entry.Path, current, err)
	}
	if err := client.Apply(filepath.Join(root, "missing.jpg")); err == nil {
		t.Fatal("expected Apply to reject a missing file")
	}

	shutResp, err := client.Shutdown()
	if err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !shutResp.Stopping {
		t.Fatal("expected Shutdown to report stopping")
	}
	select {
	case <-d.ShutdownRequested():
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown request never reached the daemon")
	}
}

func TestDialFailsWithoutServer(t *testing.T) {
	if _, err := ipc.Dial(filepath.Join(t.TempDir(), "missing.sock")); err == nil {
		t.Fatal("expected Dial to fail without a listening server")
	}
}

package main

import (
	"bytes"
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

type cliSource struct {
	mu  sync.Mutex
	img bing.Image
}

func (s *cliSource) FetchImage(ctx context.Context, market string) (*bing.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img := s.img
	return &img, nil
}

func (s *cliSource) Download(ctx context.Context, img *bing.Image, dir, market string) (string, bool, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, err
	}
	path := filepath.Join(dir, bing.Filename(market, img.Date))
	if err := os.WriteFile(path, []byte("image-bytes"), 0o644); err != nil {
		return "", false, err
	}
	return path, true, nil
}

type cliApplier struct{}

func (cliApplier) Apply(ctx context.Context, imagePath string) error { return nil }

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	socketPath string
	daemon     *daemon.Daemon
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg, cfgPath := testsupport.NewConfig(t)
	root := testsupport.BaseDir(cfg)

	logger := logging.NewNop()
	store := timerstate.NewStore(config.TimerStatePathFor(cfgPath), logger)
	tm, err := timer.New(store, logger)
	if err != nil {
		t.Fatalf("timer.New: %v", err)
	}
	st := state.New(cfg, cfgPath, tm)

	source := &cliSource{img: bing.Image{
		URL:   "https://www.bing.com/th/id/OHR.Test.jpg",
		Title: "Test Image",
		Date:  "20260214",
	}}
	hub := events.NewHub(64)

	orch, err := fetch.New(st, source, cliApplier{}, hub, logger)
	if err != nil {
		t.Fatalf("fetch.New: %v", err)
	}

	socket := filepath.Join(root, "cli.sock")
	d, err := daemon.New(st, store, orch, cliApplier{}, hub, nil, logger,
		daemon.Paths{Socket: socket, Lock: filepath.Join(root, "cli.lock")}, "test")
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
			t.Skipf("skipping CLI test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: cfgPath,
		socketPath: socket,
		daemon:     d,
	}
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

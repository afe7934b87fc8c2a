package wallpaper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"bingwall/internal/logging"
)

type fakeRunner struct {
	mu     sync.Mutex
	runs   [][]string
	starts [][]string
	runErr map[string]error
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, append([]string{name}, args...))
	if err, ok := f.runErr[name]; ok {
		return nil, err
	}
	return nil, nil
}

func (f *fakeRunner) Start(name string, args ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts = append(f.starts, append([]string{name}, args...))
	return nil
}

func newTestApplier(t *testing.T, runner CommandRunner) *CosmicApplier {
	t.Helper()
	return &CosmicApplier{
		runner:      runner,
		logger:      logging.NewNop(),
		configDir:   t.TempDir(),
		restartWait: time.Millisecond,
		verifyWait:  time.Millisecond,
	}
}

func TestApplyWritesConfigAndRestartsCosmicBg(t *testing.T) {
	runner := &fakeRunner{}
	applier := newTestApplier(t, runner)

	if err := applier.Apply(context.Background(), "/walls/bing-en-US-2026-02-14.jpg"); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	configPath := filepath.Join(applier.configDir, "cosmic", "com.system76.CosmicBackground", "v1", "all")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("read background config: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, `source: Path("/walls/bing-en-US-2026-02-14.jpg")`) {
		t.Fatalf("config missing image source:\n%s", content)
	}
	if !strings.Contains(content, `output: "all"`) {
		t.Fatalf("config missing output:\n%s", content)
	}

	if len(runner.runs) != 2 {
		t.Fatalf("expected pkill and pgrep, got %v", runner.runs)
	}
	if runner.runs[0][0] != "pkill" || runner.runs[1][0] != "pgrep" {
		t.Fatalf("unexpected command order: %v", runner.runs)
	}
	if len(runner.starts) != 1 || runner.starts[0][0] != "cosmic-bg" {
		t.Fatalf("expected cosmic-bg respawn, got %v", runner.starts)
	}
}

func TestApplyFailsWhenCosmicBgDoesNotComeBack(t *testing.T) {
	runner := &fakeRunner{runErr: map[string]error{"pgrep": errors.New("exit 1")}}
	applier := newTestApplier(t, runner)

	err := applier.Apply(context.Background(), "/walls/x.jpg")
	if err == nil || !strings.Contains(err.Error(), "cosmic-bg failed to start") {
		t.Fatalf("expected restart failure, got %v", err)
	}
}

func TestApplyHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	applier := newTestApplier(t, &fakeRunner{})
	if err := applier.Apply(ctx, "/walls/x.jpg"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

package notify

import (
	"context"
	"errors"
	"slices"
	"testing"

	"bingwall/internal/logging"
)

type fakeStarter struct {
	calls [][]string
	err   error
}

func (f *fakeStarter) Start(name string, args ...string) error {
	f.calls = append(f.calls, append([]string{name}, args...))
	return f.err
}

func newTestService(starter Starter) *desktopService {
	return &desktopService{starter: starter, logger: logging.NewNop()}
}

func TestNotifyWallpaperAppliedIncludesTitle(t *testing.T) {
	starter := &fakeStarter{}
	svc := newTestService(starter)

	if err := svc.NotifyWallpaperApplied(context.Background(), "Aurora over Norway"); err != nil {
		t.Fatalf("NotifyWallpaperApplied returned error: %v", err)
	}
	want := []string{"notify-send", "-i", "preferences-desktop-wallpaper", "Bing Wallpaper", "Applied: Aurora over Norway"}
	if len(starter.calls) != 1 || !slices.Equal(starter.calls[0], want) {
		t.Fatalf("calls = %v, want %v", starter.calls, want)
	}
}

func TestNotifyWallpaperAppliedFallbackBody(t *testing.T) {
	starter := &fakeStarter{}
	svc := newTestService(starter)

	if err := svc.NotifyWallpaperApplied(context.Background(), "  "); err != nil {
		t.Fatal(err)
	}
	if got := starter.calls[0][len(starter.calls[0])-1]; got != "Today's wallpaper has been applied!" {
		t.Fatalf("unexpected body: %q", got)
	}
}

func TestNotifyFetchFailedIsCritical(t *testing.T) {
	starter := &fakeStarter{}
	svc := newTestService(starter)

	if err := svc.NotifyFetchFailed(context.Background(), "download", errors.New("connection reset")); err != nil {
		t.Fatal(err)
	}
	want := []string{"notify-send", "-u", "critical", "-i", "dialog-error", "Bing Wallpaper", "Failed to download: connection reset"}
	if !slices.Equal(starter.calls[0], want) {
		t.Fatalf("calls = %v, want %v", starter.calls, want)
	}
}

func TestNotifySurfacesStarterError(t *testing.T) {
	starter := &fakeStarter{err: errors.New("spawn failed")}
	svc := newTestService(starter)

	if err := svc.NotifyWallpaperApplied(context.Background(), "x"); err == nil {
		t.Fatal("expected starter error to surface")
	}
}

func TestNewServiceNilRunnerIsNoop(t *testing.T) {
	svc := NewService(nil, logging.NewNop())
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
	if err := svc.NotifyWallpaperApplied(context.Background(), "x"); err != nil {
		t.Fatalf("noop notify returned error: %v", err)
	}
}

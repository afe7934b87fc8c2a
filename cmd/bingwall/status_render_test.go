package main

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"bingwall/internal/deps"
	"bingwall/internal/events"
	"bingwall/internal/ipc"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusError, "Not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Daemon:", "[ERROR] Not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Daemon", statusOK, "Running", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "cosmic-bg", Available: false, Detail: `binary "cosmic-bg" not found`},
		{Name: "pkill", Available: true, Command: "pkill"},
		{Name: "notify-send", Available: false, Optional: true, Detail: `binary "notify-send" not found`},
	}
	lines := dependencyLines(statuses, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[ERROR]") || !strings.Contains(lines[0], "cosmic-bg") {
		t.Fatalf("expected error line for cosmic-bg, got %q", lines[0])
	}
	if !strings.Contains(lines[1], "[OK] Ready (command: pkill)") {
		t.Fatalf("expected ready line for pkill, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN]") {
		t.Fatalf("expected warn line for optional dependency, got %q", lines[2])
	}
	if !strings.Contains(lines[3], "Missing dependencies") || !strings.Contains(lines[3], "cosmic-bg") {
		t.Fatalf("expected missing summary naming cosmic-bg, got %q", lines[3])
	}
	if strings.Contains(lines[3], "notify-send") {
		t.Fatalf("optional dependency should not count as missing, got %q", lines[3])
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestFormatEvent(t *testing.T) {
	ts := time.Date(2026, 2, 14, 9, 30, 0, 0, time.Local)

	ev := ipc.Event{Type: events.TypeWallpaperChanged, Timestamp: ts, Path: "/walls/a.jpg", Title: "Aurora"}
	if got := formatEvent(ev); !strings.Contains(got, "wallpaper changed: Aurora (/walls/a.jpg)") {
		t.Fatalf("unexpected wallpaper event format: %q", got)
	}

	ev = ipc.Event{Type: events.TypeTimerStateChanged, Timestamp: ts, Enabled: true}
	if got := formatEvent(ev); !strings.Contains(got, "daily updates enabled") {
		t.Fatalf("unexpected timer event format: %q", got)
	}

	ev = ipc.Event{Type: events.TypeFetchProgress, Timestamp: ts, Phase: "downloading", Message: "Downloading image..."}
	if got := formatEvent(ev); !strings.Contains(got, "fetch downloading: Downloading image...") {
		t.Fatalf("unexpected progress event format: %q", got)
	}
}

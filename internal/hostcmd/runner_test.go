package hostcmd_test

import (
	"context"
	"slices"
	"strings"
	"testing"

	"bingwall/internal/hostcmd"
)

func TestCommandRunsDirectlyOutsideFlatpak(t *testing.T) {
	cmd := hostcmd.New(false).Command(context.Background(), "pkill", "-x", "cosmic-bg")
	want := []string{"pkill", "-x", "cosmic-bg"}
	if !slices.Equal(cmd.Args, want) {
		t.Fatalf("args = %v, want %v", cmd.Args, want)
	}
}

func TestCommandRoutesThroughFlatpakSpawn(t *testing.T) {
	cmd := hostcmd.New(true).Command(context.Background(), "pkill", "-x", "cosmic-bg")
	want := []string{"flatpak-spawn", "--host", "pkill", "-x", "cosmic-bg"}
	if !slices.Equal(cmd.Args, want) {
		t.Fatalf("args = %v, want %v", cmd.Args, want)
	}
}

func TestRunCapturesOutput(t *testing.T) {
	out, err := hostcmd.New(false).Run(context.Background(), "sh", "-c", "printf ok")
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if strings.TrimSpace(string(out)) != "ok" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRunSurfacesExitStatus(t *testing.T) {
	if _, err := hostcmd.New(false).Run(context.Background(), "sh", "-c", "exit 3"); err == nil {
		t.Fatal("expected error for non-zero exit")
	}
}

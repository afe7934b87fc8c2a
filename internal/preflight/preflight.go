package preflight

import (
	"bingwall/internal/config"
	"bingwall/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the given config.
func RunAll(cfg *config.Config, flatpak bool) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckWallpaperDir("Wallpaper directory", cfg.WallpaperDir),
		CheckDiskSpace("Disk space", cfg.WallpaperDir, MinFreeBytes),
	}
	for _, status := range deps.CheckBinaries(SystemRequirements(flatpak)) {
		detail := status.Detail
		if status.Available {
			detail = status.Command
		} else if status.Optional {
			detail += " (optional)"
		}
		results = append(results, Result{Name: status.Name, Passed: status.Available, Detail: detail})
	}
	return results
}

// SystemRequirements lists the host binaries the apply step needs. Inside
// a Flatpak sandbox host binaries cannot be probed, so only the spawn
// portal is worth checking there.
func SystemRequirements(flatpak bool) []deps.Requirement {
	if flatpak {
		return []deps.Requirement{
			{Name: "flatpak-spawn", Command: "flatpak-spawn", Description: "Routes host commands out of the sandbox"},
		}
	}
	return []deps.Requirement{
		{Name: "cosmic-bg", Command: "cosmic-bg", Description: "Renders the COSMIC desktop background"},
		{Name: "pkill", Command: "pkill", Description: "Required to restart cosmic-bg"},
		{Name: "pgrep", Command: "pgrep", Description: "Required to verify cosmic-bg restarts"},
		{Name: "notify-send", Command: "notify-send", Description: "Desktop notifications", Optional: true},
	}
}

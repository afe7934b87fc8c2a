package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary the wallpaper pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Defaults lists the host binaries the wallpaper pipeline shells out to.
func Defaults() []Requirement {
	return []Requirement{
		{Name: "cosmic-bg", Command: "cosmic-bg", Description: "COSMIC background service"},
		{Name: "pkill", Command: "pkill", Description: "stops cosmic-bg before a config reload"},
		{Name: "pgrep", Command: "pgrep", Description: "verifies cosmic-bg restarted"},
		{Name: "notify-send", Command: "notify-send", Description: "desktop notifications", Optional: true},
		{Name: "flatpak-spawn", Command: "flatpak-spawn", Description: "host command escape hatch inside flatpak", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

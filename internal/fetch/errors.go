package fetch

import (
	"errors"
	"fmt"
)

// Sentinel markers tag pipeline failures with the phase they happened in.
var (
	ErrFetch    = errors.New("fetch failed")
	ErrDownload = errors.New("download failed")
	ErrApply    = errors.New("apply failed")
)

// Progress phases published to the event hub.
const (
	PhaseStarting    = "starting"
	PhaseDownloading = "downloading"
	PhaseApplying    = "applying"
	PhaseComplete    = "complete"
	PhaseError       = "error"
)

// Phase reports which pipeline phase err came from, or "" for errors that
// did not originate here.
func Phase(err error) string {
	switch {
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrDownload):
		return "download"
	case errors.Is(err, ErrApply):
		return "apply"
	default:
		return ""
	}
}

func wrap(marker error, operation string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", marker, operation)
	}
	return fmt.Errorf("%w: %s: %w", marker, operation, err)
}

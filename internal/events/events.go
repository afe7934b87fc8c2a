package events

import "time"

// Type identifies the kind of change an Event describes.
type Type string

const (
	TypeWallpaperChanged  Type = "wallpaper_changed"
	TypeTimerStateChanged Type = "timer_state_changed"
	TypeFetchProgress     Type = "fetch_progress"
)

// Event is one entry in the notification stream. Sequence and Timestamp
// are assigned by the hub on publish.
type Event struct {
	Sequence      uint64    `json:"seq"`
	Timestamp     time.Time `json:"ts"`
	Type          Type      `json:"type"`
	Path          string    `json:"path,omitempty"`
	Title         string    `json:"title,omitempty"`
	Enabled       bool      `json:"enabled"`
	Phase         string    `json:"phase,omitempty"`
	Message       string    `json:"message,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// WallpaperChanged announces a newly applied wallpaper.
func WallpaperChanged(path, title string) Event {
	return Event{Type: TypeWallpaperChanged, Path: path, Title: title}
}

// TimerStateChanged announces an enable or disable of the daily timer.
func TimerStateChanged(enabled bool) Event {
	return Event{Type: TypeTimerStateChanged, Enabled: enabled}
}

// FetchProgress announces one phase of a running fetch.
func FetchProgress(phase, message, correlationID string) Event {
	return Event{Type: TypeFetchProgress, Phase: phase, Message: message, CorrelationID: correlationID}
}

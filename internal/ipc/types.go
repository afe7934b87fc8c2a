package ipc

import "bingwall/internal/events"

// FetchRequest runs the fetch pipeline, optionally applying the result.
type FetchRequest struct {
	Apply bool `json:"apply"`
}

// HistoryEntry mirrors a downloaded wallpaper for IPC callers.
type HistoryEntry struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Date     string `json:"date"`
}

// FetchResponse reports the outcome of a fetch pipeline run.
type FetchResponse struct {
	Entry      HistoryEntry `json:"entry"`
	Title      string       `json:"title"`
	Downloaded bool         `json:"downloaded"`
	Applied    bool         `json:"applied"`
}

// ApplyRequest sets an already-downloaded file as the wallpaper.
type ApplyRequest struct {
	Path string `json:"path"`
}

// ApplyResponse acknowledges an apply.
type ApplyResponse struct{}

// GetConfigRequest fetches the live configuration.
type GetConfigRequest struct{}

// GetConfigResponse carries the configuration as an indented JSON document.
type GetConfigResponse struct {
	JSON string `json:"json"`
}

// GetMarketRequest fetches the configured market code.
type GetMarketRequest struct{}

// GetMarketResponse carries the configured market code.
type GetMarketResponse struct {
	Market string `json:"market"`
}

// SetMarketRequest validates and persists a market code.
type SetMarketRequest struct {
	Market string `json:"market"`
}

// SetMarketResponse acknowledges a market change.
type SetMarketResponse struct{}

// GetWallpaperDirRequest fetches the download directory.
type GetWallpaperDirRequest struct{}

// GetWallpaperDirResponse carries the download directory.
type GetWallpaperDirResponse struct {
	Dir string `json:"dir"`
}

// GetTimerEnabledRequest fetches the scheduling flag.
type GetTimerEnabledRequest struct{}

// GetTimerEnabledResponse carries the scheduling flag.
type GetTimerEnabledResponse struct {
	Enabled bool `json:"enabled"`
}

// SetTimerEnabledRequest persists the scheduling flag.
type SetTimerEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// SetTimerEnabledResponse acknowledges a scheduling change.
type SetTimerEnabledResponse struct{}

// GetTimerNextRunRequest fetches the next scheduled run.
type GetTimerNextRunRequest struct{}

// GetTimerNextRunResponse carries the next scheduled run, empty when the
// timer is disabled.
type GetTimerNextRunResponse struct {
	NextRun string `json:"next_run"`
}

// GetCurrentWallpaperPathRequest fetches the wallpaper on screen.
type GetCurrentWallpaperPathRequest struct{}

// GetCurrentWallpaperPathResponse carries the current wallpaper path,
// empty when nothing has been applied yet.
type GetCurrentWallpaperPathResponse struct {
	Path string `json:"path"`
}

// GetHistoryRequest lists downloaded wallpapers.
type GetHistoryRequest struct{}

// GetHistoryResponse carries downloaded wallpapers, newest first.
type GetHistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
}

// DeleteWallpaperRequest removes a downloaded wallpaper.
type DeleteWallpaperRequest struct {
	Path string `json:"path"`
}

// DeleteWallpaperResponse acknowledges a deletion.
type DeleteWallpaperResponse struct{}

// MarketInfo describes one entry of the built-in market table.
type MarketInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// GetMarketsRequest lists the built-in market table.
type GetMarketsRequest struct{}

// GetMarketsResponse carries the market table, ordered by country name.
type GetMarketsResponse struct {
	Markets []MarketInfo `json:"markets"`
}

// StatusRequest fetches a daemon snapshot.
type StatusRequest struct{}

// StatusResponse is a point-in-time snapshot of the daemon.
type StatusResponse struct {
	Running      bool   `json:"running"`
	PID          int    `json:"pid"`
	Version      string `json:"version"`
	Market       string `json:"market"`
	WallpaperDir string `json:"wallpaper_dir"`
	TimerEnabled bool   `json:"timer_enabled"`
	TimerNextRun string `json:"timer_next_run"`
	CurrentPath  string `json:"current_path"`
	SocketPath   string `json:"socket_path"`
	LockPath     string `json:"lock_path"`
}

// Event mirrors the daemon's change notification for IPC callers.
type Event = events.Event

// EventsRequest drains buffered events after a cursor. WaitMillis > 0
// long-polls until an event arrives or the wait elapses.
type EventsRequest struct {
	Since      uint64 `json:"since"`
	Limit      int    `json:"limit"`
	WaitMillis int    `json:"wait_millis"`
}

// EventsResponse carries drained events and the cursor to resume from.
type EventsResponse struct {
	Events []Event `json:"events"`
	Next   uint64  `json:"next"`
}

// ShutdownRequest asks the daemon process to exit.
type ShutdownRequest struct{}

// ShutdownResponse acknowledges a shutdown request.
type ShutdownResponse struct {
	Stopping bool `json:"stopping"`
}

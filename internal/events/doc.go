// Package events is the daemon's in-memory change feed. Wallpaper
// changes, timer flips and fetch progress are published into a bounded
// ring buffer that IPC clients drain with long-poll fetches and in-process
// consumers observe through sinks.
package events

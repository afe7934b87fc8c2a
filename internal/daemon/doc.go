// Package daemon coordinates the long-running bingwall process and system
// integration points.
//
// It wires shared state, the fetch orchestrator, the wallpaper applier, the
// scheduling timer, and the event hub into a single lifecycle with
// flock-based locking to prevent multiple instances. The daemon consumes
// timer fires, runs the optional startup fetch, watches the config and
// timer-state files for external edits, and bridges wallpaper changes to
// desktop notifications.
//
// Keep coordination logic here: fetching, applying, and scheduling live in
// their respective packages while the daemon focuses on startup, shutdown,
// and wiring.
package daemon

// Package fetch runs the wallpaper pipeline: reload config, fetch
// metadata, download, prune old files, apply, record. Failures carry the
// phase they happened in so callers and notifications can say what broke,
// and every run is tagged with a correlation id that threads through logs
// and progress events.
package fetch

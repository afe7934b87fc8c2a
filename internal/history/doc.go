// Package history derives the wallpaper download history from the
// wallpaper directory itself. Nothing is stored: every listing is a fresh
// scan, so files added or removed behind the daemon's back are always
// reflected.
package history

// Package config loads, normalizes, and validates bingwall configuration
// data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads the JSON config document, and resolves the XDG config and
// data directories the daemon and CLI share. The Config type centralizes
// every knob: Bing market, wallpaper directory, retention, startup fetch, and
// log output.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config

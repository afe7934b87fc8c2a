// Package state holds the daemon's shared mutable state: the live
// configuration, the current wallpaper and the timer handle. Accessors
// hand out copies so no caller ever works on data another goroutine may
// swap underneath it.
package state

// Package notify raises desktop notifications through notify-send. When
// the binary is unavailable a noop implementation stands in, so callers
// never branch on notification capability.
package notify

// Package timerstate persists the scheduled-fetch state shared by the
// daemon and the CLI fallback path.
//
// The document is a small JSON file (enabled flag plus last-fetch
// timestamp) rewritten in full on every mutation, so it stays hand-editable
// and any process can read a consistent snapshot. Loads are tolerant: a
// missing or corrupt file yields the default state instead of an error.
package timerstate

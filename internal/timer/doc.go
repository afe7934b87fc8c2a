// Package timer schedules the daily wallpaper fetch.
//
// A Timer runs one background goroutine that sleeps toward the next 08:00
// local run in bounded slices, applies a random jitter before firing, and
// delivers fire events into a single-slot channel the daemon drains. At
// startup it owes a catch-up fire when the last recorded fetch predates
// today, delayed by a boot-settle period so login races the network less.
//
// The enabled flag lives in an atomic mirror of the persisted timer state;
// flipping it never blocks the scheduling loop, and a disable is honored
// within one sleep slice.
package timer

// Package schedule computes the daily fetch schedule: the next 08:00 local
// run and whether a catch-up fetch is owed after a missed day.
package schedule

import "time"

// The daily fetch fires at 08:00 local time.
const (
	Hour   = 8
	Minute = 0
)

// RunAt returns the scheduled instant on the same calendar day as t.
func RunAt(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), Hour, Minute, 0, 0, t.Location())
}

// NextRun returns the next scheduled run strictly after now: today's 08:00
// when that is still ahead, otherwise tomorrow's.
func NextRun(now time.Time) time.Time {
	todayRun := RunAt(now)
	if now.Before(todayRun) {
		return todayRun
	}
	return todayRun.AddDate(0, 0, 1)
}

// NeedsCatchup reports whether a fetch was missed and should run now. A zero
// lastFetch means no fetch has ever completed.
//
// Before 08:00 local the answer is always false (the regular schedule will
// cover today). From 08:00 onward a catch-up is owed unless a fetch already
// completed on today's calendar date.
func NeedsCatchup(lastFetch time.Time, now time.Time) bool {
	if now.Before(RunAt(now)) {
		return false
	}
	if lastFetch.IsZero() {
		return true
	}
	ly, lm, ld := lastFetch.In(now.Location()).Date()
	ty, tm, td := now.Date()
	last := time.Date(ly, lm, ld, 0, 0, 0, 0, time.UTC)
	today := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return last.Before(today)
}

package calsync

import "time"

// DefaultInterval is the minimum time between two calendar syncs.
const DefaultInterval = 60 * time.Second

// Throttle gates sync attempts.
type Throttle struct {
	Interval time.Duration
}

// ShouldSync reports whether a sync may start at now given the last
// successful one. A zero last time always syncs.
func (t Throttle) ShouldSync(last, now time.Time) bool {
	if last.IsZero() {
		return true
	}
	interval := t.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return now.Sub(last) > interval
}

// Window returns the fetch range around now: start of day one month back to
// end of day two months ahead, in now's location.
func Window(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m-1, d, 0, 0, 0, 0, now.Location())
	end := time.Date(y, m+2, d, 23, 59, 59, int(time.Second-time.Nanosecond), now.Location())
	return start, end
}

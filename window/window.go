// Package window computes the day and month labels used to bound the
// per-author "recent" counters.
package window

import "time"

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// Clock returns the current time. Injectable for tests.
type Clock func() time.Time

// Tracker derives day and month keys in a fixed location.
type Tracker struct {
	loc *time.Location
	now Clock
}

// New creates a tracker using the wall clock.
func New(loc *time.Location) *Tracker {
	return NewWithClock(loc, time.Now)
}

// NewWithClock creates a tracker with an explicit clock.
func NewWithClock(loc *time.Location, clock Clock) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{loc: loc, now: clock}
}

// Keys returns the current day and month keys from a single clock reading,
// so a day change that crosses a month boundary is always consistent. The
// month key is a prefix of the day key.
func (t *Tracker) Keys() (day, month string) {
	now := t.now().In(t.loc)
	return now.Format(dayLayout), now.Format(monthLayout)
}

// Rolled reports whether the stored window label no longer matches the
// current one.
func Rolled(stored, current string) bool {
	return stored != current
}

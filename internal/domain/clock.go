package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// clock is a package-level time source so tests can freeze time via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for export filenames and chart
// windows. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// location is where formatted timestamps are displayed.
var location = time.UTC

// SetLocation sets the display time zone. Pass nil to reset to UTC.
func SetLocation(loc *time.Location) {
	if loc == nil {
		location = time.UTC
		return
	}
	location = loc
}

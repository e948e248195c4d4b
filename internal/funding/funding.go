// Package funding computes display-oriented values derived from a
// project's funding state. Everything here is a pure function of its
// inputs; derived values are recomputed on every read and never stored.
package funding

import (
	"math"
	"time"
)

// PercentFunded returns raised/goal as an integer percentage clamped to
// [0,100]. A non-positive goal yields 0 instead of a division error.
func PercentFunded(raised, goal float64) int {
	if goal <= 0 {
		return 0
	}
	pct := int(math.Round(raised / goal * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// DaysLeft returns the whole days remaining until endDate, floored at
// zero once the deadline has passed. Partial days round up.
func DaysLeft(endDate, now time.Time) int {
	remaining := endDate.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}

// Package clock is the single time source for durations and timestamps.
package clock

import "time"

// NowFunc is swapped by tests; use Freeze rather than assigning it directly.
var NowFunc = time.Now

func Now() time.Time { return NowFunc() }

func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }

// Freeze pins Now to at and returns the function restoring the real clock.
func Freeze(at time.Time) (restore func()) {
	previous := NowFunc
	NowFunc = func() time.Time { return at }
	return func() { NowFunc = previous }
}

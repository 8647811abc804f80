package clock

import "time"

// Timer represents a pending callback that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock provides the time operations the engine depends on.
// Tests substitute a manual clock to drive expiry deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock is the default Clock backed by the time package.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

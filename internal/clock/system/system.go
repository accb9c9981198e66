// Package system provides the wall clock used to time runs.
package system

import "time"

// Clock reads the local wall clock.
type Clock struct{}

// New creates a Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time. The monotonic reading is kept so that
// durations between two calls are immune to wall clock steps.
func (Clock) Now() time.Time {
	return time.Now()
}

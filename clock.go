package main

import "time"

// Clock supplies the time used to drive the scheduler.
type Clock interface {
	Now() time.Time
}

// systemClock reads the wall clock; time.Now carries a monotonic reading, so
// elapsed-time arithmetic in the scheduler is unaffected by clock changes.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

package calendar

import "time"

// Clock abstracts the wall clock so scheduling decisions that depend on "now"
// stay deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real system time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}

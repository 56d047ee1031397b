package clock

import "time"

// Clock abstracts time so scheduling decisions stay deterministic in tests.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

func (SystemClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

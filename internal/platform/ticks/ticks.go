// Package ticks converts between time.Duration and the server's position
// unit. One tick is 100 nanoseconds, so one second is 10,000,000 ticks.
package ticks

import "time"

const perSecond = 10_000_000

func ToDuration(t int64) time.Duration {
	return time.Duration(t) * 100 * time.Nanosecond
}

func FromDuration(d time.Duration) int64 {
	return int64(d / (100 * time.Nanosecond))
}

func FromSeconds(secs float64) int64 {
	return int64(secs * perSecond)
}

func Seconds(t int64) float64 {
	return float64(t) / perSecond
}

package domain

import "time"

// Entry is one finished playback session.
type Entry struct {
	ID        int64
	ItemID    string
	Title     string
	StartedAt time.Time
	EndedAt   time.Time
	Position  time.Duration
	Runtime   time.Duration
	Completed bool
}

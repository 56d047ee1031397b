package domain

import "time"

// Media is the playing item as the sync scheduler needs it.
type Media struct {
	ID      string
	Title   string
	Runtime time.Duration
}

// Stream is a resolved playback target.
type Stream struct {
	URL           string
	PlaySessionID string
	MediaSourceID string
	StartOffset   time.Duration
}

// Report is one progress update to the server.
type Report struct {
	ItemID        string
	Position      time.Duration
	Paused        bool
	PlaySessionID string
	MediaSourceID string
}

// PlayerEvent is one message from the supervised player. The terminal event
// is the last before the channel closes.
type PlayerEvent struct {
	Position time.Duration
	Paused   bool
	Terminal bool
	Err      error
}

// Record is one finished session as written to history.
type Record struct {
	ItemID    string
	Title     string
	StartedAt time.Time
	EndedAt   time.Time
	Position  time.Duration
	Runtime   time.Duration
	Completed bool
}

// Completed reports whether a final position counts as watched.
func Completed(position, runtime time.Duration, threshold float64) bool {
	if runtime <= 0 {
		return false
	}
	return float64(position) >= threshold*float64(runtime)
}

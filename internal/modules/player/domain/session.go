package domain

import "time"

// LaunchSpec describes one player invocation: the stream to open, where to
// start, and the HTTP headers the player must send upstream.
type LaunchSpec struct {
	URL         string
	Title       string
	StartOffset time.Duration
	Headers     map[string]string
}

// Status is one IPC sample of the running player.
type Status struct {
	Position time.Duration
	Paused   bool
}

// Event is one message on a session's channel. Ticks carry a status sample;
// the terminal event is always the last one before the channel closes.
type Event struct {
	Status   Status
	Terminal bool
	// Err is set on a terminal event when the player died abnormally.
	Err error
}

// Session is one supervised player process. Events delivers samples in
// production order and closes after exactly one terminal event.
type Session struct {
	ID     string
	Socket string
	Events <-chan Event
}

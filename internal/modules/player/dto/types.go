package dto

type LaunchInput struct {
	URL             string
	Title           string
	StartOffsetSecs float64
	Headers         map[string]string
}

// EventOutput mirrors the session channel across the module boundary. The
// terminal event is the last one delivered before the channel closes.
type EventOutput struct {
	PositionSecs float64
	Paused       bool
	Terminal     bool
	Err          error
}

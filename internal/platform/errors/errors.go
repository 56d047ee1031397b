package apperrors

import "errors"

// Boundary adapters classify every transport or process failure into one of
// these kinds; services and the UI only ever match with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNetwork           = errors.New("network error")
	ErrAuth              = errors.New("authentication rejected")
	ErrNotFound          = errors.New("not found")
	ErrPlayerUnavailable = errors.New("player unavailable")
	ErrTimeout           = errors.New("timed out")
	ErrAtRoot            = errors.New("already at root")
	ErrNoActiveSession   = errors.New("no active playback session")
)

package domain

import "time"

// Identity is the result of the authenticate contract: an opaque token plus
// the user it belongs to. How it is obtained (password, SSO) is the host's
// concern.
type Identity struct {
	Token    string
	UserID   string
	Username string
}

// StreamTarget is a fully resolved, directly playable stream. The session
// identifiers ride along so progress reports can be correlated server-side.
type StreamTarget struct {
	URL           string
	PlaySessionID string
	MediaSourceID string
	StartOffset   time.Duration
}

// ProgressReport is one position/state update for an active session.
type ProgressReport struct {
	ItemID        string
	Position      time.Duration
	Paused        bool
	PlaySessionID string
	MediaSourceID string
}

package out

import (
	"context"
	"time"

	"jellyterm/internal/modules/player/domain"
)

// Process is a spawned player process. Done is closed once the process has
// exited; after that Err reports the exit error (nil for a clean exit).
type Process interface {
	Done() <-chan struct{}
	Err() error
	Kill() error
}

// Launcher spawns the player binary with a control socket. A missing binary
// reports ErrPlayerUnavailable.
type Launcher interface {
	Start(ctx context.Context, socket string, spec domain.LaunchSpec) (Process, error)
}

// Conn is an open control connection to a running player.
type Conn interface {
	Status(ctx context.Context) (domain.Status, error)
	Seek(ctx context.Context, position time.Duration) error
	Quit(ctx context.Context) error
	Close() error
}

// Remote dials the player's control socket. Dial fails until the player has
// created the socket, so callers poll it for readiness.
type Remote interface {
	Dial(ctx context.Context, socket string) (Conn, error)
}

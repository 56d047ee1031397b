package in

import (
	"context"

	"jellyterm/internal/modules/player/dto"
)

// Session is a supervised player process as seen from other modules.
type Session interface {
	ID() string
	Events() <-chan dto.EventOutput
	Seek(ctx context.Context, positionSecs float64) error
	// Stop quits the player, escalating to a kill after the stop timeout.
	// The terminal event still arrives on Events.
	Stop(ctx context.Context) error
}

type Usecase interface {
	Launch(ctx context.Context, input dto.LaunchInput) (Session, error)
}

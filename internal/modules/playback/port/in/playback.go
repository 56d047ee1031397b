package in

import (
	"context"

	"jellyterm/internal/modules/playback/dto"
)

type Usecase interface {
	// Play starts a session for the item, replacing any active one.
	Play(ctx context.Context, input dto.PlayInput) error
	// Stop tears down the active session and waits out its final report.
	Stop(ctx context.Context) error
	Status() dto.StatusOutput
}

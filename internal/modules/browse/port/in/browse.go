package in

import (
	"context"

	"jellyterm/internal/modules/browse/dto"
)

type Usecase interface {
	// Start loads the Home node; it must be called before any other operation.
	Start(ctx context.Context) (dto.NodeOutput, error)
	Snapshot() dto.NodeOutput
	MoveSelection(delta int) dto.NodeOutput
	Open(ctx context.Context) (dto.OpenOutput, error)
	Back() (dto.NodeOutput, error)
	Refresh(ctx context.Context) (dto.NodeOutput, error)
	Search(ctx context.Context, query string) (dto.NodeOutput, error)
	ToggleWatched(ctx context.Context) (dto.NodeOutput, error)
	// RefreshAfterPlayback re-fetches the lists a finished session staled.
	RefreshAfterPlayback(ctx context.Context) (dto.NodeOutput, error)
}

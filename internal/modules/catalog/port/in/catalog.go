package in

import (
	"context"

	"jellyterm/internal/modules/catalog/dto"
)

type Usecase interface {
	Login(ctx context.Context, input dto.LoginInput) (dto.IdentityOutput, error)
	Libraries(ctx context.Context) ([]dto.ItemOutput, error)
	Children(ctx context.Context, parentID string) ([]dto.ItemOutput, error)
	ContinueWatching(ctx context.Context) ([]dto.ItemOutput, error)
	NextUp(ctx context.Context) ([]dto.ItemOutput, error)
	Search(ctx context.Context, input dto.SearchInput) ([]dto.ItemOutput, error)
	Item(ctx context.Context, itemID string) (dto.ItemOutput, error)
	Markers(ctx context.Context, itemID string) ([]dto.MarkerOutput, error)
	SetWatched(ctx context.Context, input dto.SetWatchedInput) error
	Stream(ctx context.Context, itemID string) (dto.StreamOutput, error)
	ReportStarted(ctx context.Context, input dto.ProgressInput) error
	ReportProgress(ctx context.Context, input dto.ProgressInput) error
	ReportStopped(ctx context.Context, input dto.ProgressInput) error
}

package in

import (
	"context"

	"jellyterm/internal/modules/history/dto"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) error
	Recent(ctx context.Context, limit int) ([]dto.EntryOutput, error)
	Clear(ctx context.Context) error
}

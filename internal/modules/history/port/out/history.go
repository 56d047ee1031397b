package out

import (
	"context"

	"jellyterm/internal/modules/history/domain"
)

type Store interface {
	Append(ctx context.Context, entry domain.Entry) error
	Recent(ctx context.Context, limit int) ([]domain.Entry, error)
	Clear(ctx context.Context) error
	Close() error
}

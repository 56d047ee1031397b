package service

import (
	"context"
	"fmt"
	"strings"

	"jellyterm/internal/modules/history/domain"
	historyout "jellyterm/internal/modules/history/port/out"
	apperrors "jellyterm/internal/platform/errors"
)

const defaultRecentLimit = 50

type HistoryService struct {
	store historyout.Store
}

func NewHistoryService(store historyout.Store) *HistoryService {
	return &HistoryService{store: store}
}

func (s *HistoryService) Record(ctx context.Context, entry domain.Entry) error {
	if strings.TrimSpace(entry.ItemID) == "" {
		return fmt.Errorf("%w: item id is required", apperrors.ErrInvalidInput)
	}
	return s.store.Append(ctx, entry)
}

func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.store.Recent(ctx, limit)
}

func (s *HistoryService) Clear(ctx context.Context) error {
	return s.store.Clear(ctx)
}

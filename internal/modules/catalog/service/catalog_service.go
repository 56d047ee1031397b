package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jellyterm/internal/modules/catalog/domain"
	catalogout "jellyterm/internal/modules/catalog/port/out"
	apperrors "jellyterm/internal/platform/errors"
)

type CatalogService struct {
	server catalogout.Server
}

func NewCatalogService(server catalogout.Server) *CatalogService {
	return &CatalogService{server: server}
}

func (s *CatalogService) Authenticate(ctx context.Context, username, password string) (domain.Identity, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return domain.Identity{}, fmt.Errorf("%w: username and password are required", apperrors.ErrInvalidInput)
	}
	return s.server.Authenticate(ctx, username, password)
}

func (s *CatalogService) Libraries(ctx context.Context) ([]domain.Item, error) {
	return s.server.Libraries(ctx)
}

func (s *CatalogService) Children(ctx context.Context, parentID string) ([]domain.Item, error) {
	if strings.TrimSpace(parentID) == "" {
		return nil, fmt.Errorf("%w: parent id is required", apperrors.ErrInvalidInput)
	}
	return s.server.Children(ctx, parentID)
}

func (s *CatalogService) ContinueWatching(ctx context.Context) ([]domain.Item, error) {
	return s.server.Resume(ctx)
}

func (s *CatalogService) NextUp(ctx context.Context) ([]domain.Item, error) {
	return s.server.NextUp(ctx)
}

func (s *CatalogService) Search(ctx context.Context, query string, kinds []domain.ItemKind) ([]domain.Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", apperrors.ErrInvalidInput)
	}
	return s.server.Search(ctx, query, kinds)
}

func (s *CatalogService) Item(ctx context.Context, itemID string) (domain.Item, error) {
	if strings.TrimSpace(itemID) == "" {
		return domain.Item{}, fmt.Errorf("%w: item id is required", apperrors.ErrInvalidInput)
	}
	return s.server.Item(ctx, itemID)
}

// Markers resolves the skip windows for an item: the server's segment data
// when present, otherwise chapter titles reinterpreted into the same
// vocabulary. The bool reports whether the fallback was used.
func (s *CatalogService) Markers(ctx context.Context, item domain.Item) ([]domain.Marker, bool, error) {
	markers, err := s.server.Segments(ctx, item.ID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, err
	}
	if len(markers) > 0 {
		return markers, false, nil
	}
	chapters, err := s.server.Chapters(ctx, item.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return domain.MarkersFromChapters(chapters, item.RunTime), true, nil
}

// ResolveStream produces a playable target starting at the item's stored
// resume position. Items fetched from list endpoints sometimes omit user
// state, so a missing position is re-fetched before resolving.
func (s *CatalogService) ResolveStream(ctx context.Context, item domain.Item) (domain.StreamTarget, error) {
	if !item.Kind.Playable() {
		return domain.StreamTarget{}, fmt.Errorf("%w: %s is not playable", apperrors.ErrInvalidInput, item.Kind)
	}
	offset := item.Position
	if offset == 0 {
		refreshed, err := s.server.Item(ctx, item.ID)
		if err == nil {
			offset = refreshed.Position
		}
	}
	return s.server.ResolveStream(ctx, item.ID, offset)
}

func (s *CatalogService) ReportStarted(ctx context.Context, report domain.ProgressReport) error {
	return s.server.ReportStarted(ctx, report)
}

func (s *CatalogService) ReportProgress(ctx context.Context, report domain.ProgressReport) error {
	return s.server.ReportProgress(ctx, report)
}

func (s *CatalogService) ReportStopped(ctx context.Context, report domain.ProgressReport) error {
	return s.server.ReportStopped(ctx, report)
}

func (s *CatalogService) SetWatched(ctx context.Context, itemID string, watched bool) error {
	if strings.TrimSpace(itemID) == "" {
		return fmt.Errorf("%w: item id is required", apperrors.ErrInvalidInput)
	}
	return s.server.SetWatched(ctx, itemID, watched)
}

// FinishedAfter mirrors the watched inference the UI renders: position past
// the threshold fraction of runtime.
func FinishedAfter(position, runtime time.Duration, threshold float64) bool {
	if runtime <= 0 {
		return false
	}
	return float64(position) >= threshold*float64(runtime)
}

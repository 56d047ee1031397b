package out

import (
	"context"

	"jellyterm/internal/modules/browse/domain"
)

// SearchGroup selects which result group a catalog query targets.
type SearchGroup int

const (
	GroupFeatures SearchGroup = iota // movies and shows
	GroupEpisodes
)

// Catalog is the narrow catalog surface navigation needs.
type Catalog interface {
	Libraries(ctx context.Context) ([]domain.Entry, error)
	Children(ctx context.Context, parentID string) ([]domain.Entry, error)
	ContinueWatching(ctx context.Context) ([]domain.Entry, error)
	NextUp(ctx context.Context) ([]domain.Entry, error)
	Search(ctx context.Context, query string, group SearchGroup) ([]domain.Entry, error)
	SetWatched(ctx context.Context, itemID string, watched bool) error
}

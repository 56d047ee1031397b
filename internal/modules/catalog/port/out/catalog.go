package out

import (
	"context"
	"time"

	"jellyterm/internal/modules/catalog/domain"
)

// Server is the remote catalog boundary. Implementations convert every
// transport problem into the platform error taxonomy before returning.
type Server interface {
	Authenticate(ctx context.Context, username, password string) (domain.Identity, error)

	Libraries(ctx context.Context) ([]domain.Item, error)
	Children(ctx context.Context, parentID string) ([]domain.Item, error)
	Resume(ctx context.Context) ([]domain.Item, error)
	NextUp(ctx context.Context) ([]domain.Item, error)
	Search(ctx context.Context, query string, kinds []domain.ItemKind) ([]domain.Item, error)
	Item(ctx context.Context, itemID string) (domain.Item, error)

	Segments(ctx context.Context, itemID string) ([]domain.Marker, error)
	Chapters(ctx context.Context, itemID string) ([]domain.Chapter, error)

	ResolveStream(ctx context.Context, itemID string, startOffset time.Duration) (domain.StreamTarget, error)
	ReportStarted(ctx context.Context, report domain.ProgressReport) error
	ReportProgress(ctx context.Context, report domain.ProgressReport) error
	ReportStopped(ctx context.Context, report domain.ProgressReport) error
	SetWatched(ctx context.Context, itemID string, watched bool) error
}

package out

import (
	"context"
	"time"

	"jellyterm/internal/modules/playback/domain"
)

// Catalog is the server surface the sync scheduler drives.
type Catalog interface {
	Media(ctx context.Context, itemID string) (domain.Media, error)
	Stream(ctx context.Context, itemID string) (domain.Stream, error)
	Segments(ctx context.Context, itemID string) ([]domain.Segment, error)
	ReportStarted(ctx context.Context, report domain.Report) error
	ReportProgress(ctx context.Context, report domain.Report) error
	ReportStopped(ctx context.Context, report domain.Report) error
	SetWatched(ctx context.Context, itemID string, watched bool) error
}

// SessionHandle is one running player session. Events closes after exactly
// one terminal event.
type SessionHandle interface {
	Events() <-chan domain.PlayerEvent
	Seek(ctx context.Context, position time.Duration) error
	Stop(ctx context.Context) error
}

type Player interface {
	Launch(ctx context.Context, stream domain.Stream, title string) (SessionHandle, error)
}

type History interface {
	Record(ctx context.Context, record domain.Record) error
}

// BrowseRefresher lets a finished session refresh the lists it staled.
type BrowseRefresher interface {
	RefreshAfterPlayback(ctx context.Context) error
}

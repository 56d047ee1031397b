package out

import (
	"context"
	"time"

	catalogdto "jellyterm/internal/modules/catalog/dto"
	catalogin "jellyterm/internal/modules/catalog/port/in"
	"jellyterm/internal/modules/playback/domain"
)

// CatalogAdapter gives the sync scheduler its server surface through the
// catalog module's inbound port.
type CatalogAdapter struct {
	catalog catalogin.Usecase
}

func NewCatalogAdapter(catalog catalogin.Usecase) *CatalogAdapter {
	return &CatalogAdapter{catalog: catalog}
}

func (a *CatalogAdapter) Media(ctx context.Context, itemID string) (domain.Media, error) {
	item, err := a.catalog.Item(ctx, itemID)
	if err != nil {
		return domain.Media{}, err
	}
	return domain.Media{
		ID:      item.ID,
		Title:   item.Label,
		Runtime: secs(item.RuntimeSecs),
	}, nil
}

func (a *CatalogAdapter) Stream(ctx context.Context, itemID string) (domain.Stream, error) {
	stream, err := a.catalog.Stream(ctx, itemID)
	if err != nil {
		return domain.Stream{}, err
	}
	return domain.Stream{
		URL:           stream.URL,
		PlaySessionID: stream.PlaySessionID,
		MediaSourceID: stream.MediaSourceID,
		StartOffset:   secs(stream.StartOffsetSecs),
	}, nil
}

func (a *CatalogAdapter) Segments(ctx context.Context, itemID string) ([]domain.Segment, error) {
	markers, err := a.catalog.Markers(ctx, itemID)
	if err != nil {
		return nil, err
	}
	segments := make([]domain.Segment, 0, len(markers))
	for _, marker := range markers {
		kind, err := domain.ParseSegmentKind(marker.Kind)
		if err != nil {
			continue
		}
		segments = append(segments, domain.Segment{
			Kind:  kind,
			Start: secs(marker.StartSecs),
			End:   secs(marker.EndSecs),
		})
	}
	return segments, nil
}

func (a *CatalogAdapter) ReportStarted(ctx context.Context, report domain.Report) error {
	return a.catalog.ReportStarted(ctx, mapReport(report))
}

func (a *CatalogAdapter) ReportProgress(ctx context.Context, report domain.Report) error {
	return a.catalog.ReportProgress(ctx, mapReport(report))
}

func (a *CatalogAdapter) ReportStopped(ctx context.Context, report domain.Report) error {
	return a.catalog.ReportStopped(ctx, mapReport(report))
}

func (a *CatalogAdapter) SetWatched(ctx context.Context, itemID string, watched bool) error {
	return a.catalog.SetWatched(ctx, catalogdto.SetWatchedInput{ItemID: itemID, Watched: watched})
}

func mapReport(report domain.Report) catalogdto.ProgressInput {
	return catalogdto.ProgressInput{
		ItemID:        report.ItemID,
		PositionSecs:  report.Position.Seconds(),
		Paused:        report.Paused,
		PlaySessionID: report.PlaySessionID,
		MediaSourceID: report.MediaSourceID,
	}
}

func secs(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

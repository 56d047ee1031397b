package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jellyterm/internal/modules/catalog/domain"
	"jellyterm/internal/modules/catalog/service"
	apperrors "jellyterm/internal/platform/errors"
)

type fakeServer struct {
	items    map[string]domain.Item
	segments map[string][]domain.Marker
	chapters map[string][]domain.Chapter

	segmentsErr error
	chaptersErr error

	resolved []time.Duration
}

func (f *fakeServer) Authenticate(_ context.Context, username, _ string) (domain.Identity, error) {
	return domain.Identity{Token: "tok", UserID: "uid", Username: username}, nil
}

func (f *fakeServer) Libraries(context.Context) ([]domain.Item, error) { return nil, nil }

func (f *fakeServer) Children(context.Context, string) ([]domain.Item, error) { return nil, nil }

func (f *fakeServer) Resume(context.Context) ([]domain.Item, error) { return nil, nil }

func (f *fakeServer) NextUp(context.Context) ([]domain.Item, error) { return nil, nil }

func (f *fakeServer) Search(context.Context, string, []domain.ItemKind) ([]domain.Item, error) {
	return nil, nil
}

func (f *fakeServer) Item(_ context.Context, itemID string) (domain.Item, error) {
	item, ok := f.items[itemID]
	if !ok {
		return domain.Item{}, apperrors.ErrNotFound
	}
	return item, nil
}

func (f *fakeServer) Segments(_ context.Context, itemID string) ([]domain.Marker, error) {
	if f.segmentsErr != nil {
		return nil, f.segmentsErr
	}
	return f.segments[itemID], nil
}

func (f *fakeServer) Chapters(_ context.Context, itemID string) ([]domain.Chapter, error) {
	if f.chaptersErr != nil {
		return nil, f.chaptersErr
	}
	return f.chapters[itemID], nil
}

func (f *fakeServer) ResolveStream(_ context.Context, itemID string, startOffset time.Duration) (domain.StreamTarget, error) {
	f.resolved = append(f.resolved, startOffset)
	return domain.StreamTarget{URL: "http://srv/" + itemID, StartOffset: startOffset}, nil
}

func (f *fakeServer) ReportStarted(context.Context, domain.ProgressReport) error  { return nil }
func (f *fakeServer) ReportProgress(context.Context, domain.ProgressReport) error { return nil }
func (f *fakeServer) ReportStopped(context.Context, domain.ProgressReport) error  { return nil }

func (f *fakeServer) SetWatched(context.Context, string, bool) error { return nil }

func episode(id string, position time.Duration) domain.Item {
	return domain.Item{ID: id, Kind: domain.KindEpisode, Title: id, Position: position, RunTime: 24 * time.Minute}
}

func TestMarkersPreferServerSegments(t *testing.T) {
	t.Parallel()

	item := episode("ep", 0)
	server := &fakeServer{
		items: map[string]domain.Item{"ep": item},
		segments: map[string][]domain.Marker{
			"ep": {{Kind: domain.MarkerIntro, Start: 0, End: 30 * time.Second}},
		},
		chapters: map[string][]domain.Chapter{
			"ep": {{Title: "OP", Start: 0}},
		},
	}
	svc := service.NewCatalogService(server)

	markers, fromChapters, err := svc.Markers(context.Background(), item)
	if err != nil {
		t.Fatalf("Markers: %v", err)
	}
	if fromChapters {
		t.Fatal("segment data present, fallback must not engage")
	}
	if len(markers) != 1 || markers[0].Kind != domain.MarkerIntro {
		t.Fatalf("markers = %+v", markers)
	}
}

func TestMarkersFallBackToChapters(t *testing.T) {
	t.Parallel()

	item := episode("ep", 0)
	server := &fakeServer{
		items: map[string]domain.Item{"ep": item},
		chapters: map[string][]domain.Chapter{
			"ep": {
				{Title: "OP", Start: 0},
				{Title: "Part A", Start: 90 * time.Second},
			},
		},
	}
	svc := service.NewCatalogService(server)

	markers, fromChapters, err := svc.Markers(context.Background(), item)
	if err != nil {
		t.Fatalf("Markers: %v", err)
	}
	if !fromChapters {
		t.Fatal("expected the chapter fallback")
	}
	if len(markers) != 1 || markers[0].End != 90*time.Second {
		t.Fatalf("markers = %+v", markers)
	}
}

func TestMarkersSegmentsEndpointMissingIsTolerated(t *testing.T) {
	t.Parallel()

	item := episode("ep", 0)
	server := &fakeServer{
		items:       map[string]domain.Item{"ep": item},
		segmentsErr: apperrors.ErrNotFound,
		chaptersErr: apperrors.ErrNotFound,
	}
	svc := service.NewCatalogService(server)

	markers, fromChapters, err := svc.Markers(context.Background(), item)
	if err != nil {
		t.Fatalf("Markers: %v", err)
	}
	if fromChapters || markers != nil {
		t.Fatalf("markers = %+v, fromChapters = %v; want nothing", markers, fromChapters)
	}
}

func TestMarkersNetworkErrorPropagates(t *testing.T) {
	t.Parallel()

	item := episode("ep", 0)
	server := &fakeServer{items: map[string]domain.Item{"ep": item}, segmentsErr: apperrors.ErrNetwork}
	svc := service.NewCatalogService(server)

	if _, _, err := svc.Markers(context.Background(), item); !errors.Is(err, apperrors.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
}

func TestResolveStreamRefetchesMissingPosition(t *testing.T) {
	t.Parallel()

	server := &fakeServer{items: map[string]domain.Item{"ep": episode("ep", 7 * time.Minute)}}
	svc := service.NewCatalogService(server)

	// A list row without user state: the stored position is re-fetched.
	listRow := episode("ep", 0)
	target, err := svc.ResolveStream(context.Background(), listRow)
	if err != nil {
		t.Fatalf("ResolveStream: %v", err)
	}
	if target.StartOffset != 7*time.Minute {
		t.Fatalf("start offset = %v, want the stored position", target.StartOffset)
	}

	if _, err := svc.ResolveStream(context.Background(), domain.Item{ID: "s", Kind: domain.KindSeason}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for a container", err)
	}
}

func TestAuthenticateValidatesInput(t *testing.T) {
	t.Parallel()

	svc := service.NewCatalogService(&fakeServer{})
	if _, err := svc.Authenticate(context.Background(), " ", "pw"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	identity, err := svc.Authenticate(context.Background(), "alex", "pw")
	if err != nil || identity.Token != "tok" {
		t.Fatalf("identity = %+v, err = %v", identity, err)
	}
}

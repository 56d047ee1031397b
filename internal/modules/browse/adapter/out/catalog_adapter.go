package out

import (
	"context"
	"time"

	"jellyterm/internal/modules/browse/domain"
	browseout "jellyterm/internal/modules/browse/port/out"
	catalogdto "jellyterm/internal/modules/catalog/dto"
	catalogin "jellyterm/internal/modules/catalog/port/in"
)

// CatalogAdapter bridges navigation to the catalog module through its inbound
// port, keeping the two domains decoupled.
type CatalogAdapter struct {
	catalog catalogin.Usecase
}

func NewCatalogAdapter(catalog catalogin.Usecase) *CatalogAdapter {
	return &CatalogAdapter{catalog: catalog}
}

func (a *CatalogAdapter) Libraries(ctx context.Context) ([]domain.Entry, error) {
	items, err := a.catalog.Libraries(ctx)
	if err != nil {
		return nil, err
	}
	return mapEntries(items), nil
}

func (a *CatalogAdapter) Children(ctx context.Context, parentID string) ([]domain.Entry, error) {
	items, err := a.catalog.Children(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return mapEntries(items), nil
}

func (a *CatalogAdapter) ContinueWatching(ctx context.Context) ([]domain.Entry, error) {
	items, err := a.catalog.ContinueWatching(ctx)
	if err != nil {
		return nil, err
	}
	return mapEntries(items), nil
}

func (a *CatalogAdapter) NextUp(ctx context.Context) ([]domain.Entry, error) {
	items, err := a.catalog.NextUp(ctx)
	if err != nil {
		return nil, err
	}
	return mapEntries(items), nil
}

func (a *CatalogAdapter) Search(ctx context.Context, query string, group browseout.SearchGroup) ([]domain.Entry, error) {
	kinds := []string{"movie", "show"}
	if group == browseout.GroupEpisodes {
		kinds = []string{"episode"}
	}
	items, err := a.catalog.Search(ctx, catalogdto.SearchInput{Query: query, Kinds: kinds})
	if err != nil {
		return nil, err
	}
	return mapEntries(items), nil
}

func (a *CatalogAdapter) SetWatched(ctx context.Context, itemID string, watched bool) error {
	return a.catalog.SetWatched(ctx, catalogdto.SetWatchedInput{ItemID: itemID, Watched: watched})
}

func mapEntries(items []catalogdto.ItemOutput) []domain.Entry {
	entries := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		kind, err := domain.ParseEntryKind(item.Kind)
		if err != nil {
			continue
		}
		entries = append(entries, domain.Entry{
			ID:       item.ID,
			Kind:     kind,
			Title:    item.Title,
			Label:    item.Label,
			Position: time.Duration(item.PositionSecs * float64(time.Second)),
			Runtime:  time.Duration(item.RuntimeSecs * float64(time.Second)),
			Watched:  item.Watched,
			Finished: item.Finished,
		})
	}
	return entries
}

package out

import (
	"context"

	browsein "jellyterm/internal/modules/browse/port/in"
)

type BrowseAdapter struct {
	browse browsein.Usecase
}

func NewBrowseAdapter(browse browsein.Usecase) *BrowseAdapter {
	return &BrowseAdapter{browse: browse}
}

func (a *BrowseAdapter) RefreshAfterPlayback(ctx context.Context) error {
	_, err := a.browse.RefreshAfterPlayback(ctx)
	return err
}

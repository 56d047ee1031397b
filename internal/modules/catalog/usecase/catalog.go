package usecase

import (
	"context"
	"fmt"
	"time"

	"jellyterm/internal/modules/catalog/domain"
	"jellyterm/internal/modules/catalog/dto"
	catalogin "jellyterm/internal/modules/catalog/port/in"
	"jellyterm/internal/modules/catalog/service"
	apperrors "jellyterm/internal/platform/errors"
)

type Interactor struct {
	svc       *service.CatalogService
	threshold float64
}

func NewInteractor(svc *service.CatalogService, completionThreshold float64) catalogin.Usecase {
	return &Interactor{svc: svc, threshold: completionThreshold}
}

func (i *Interactor) Login(ctx context.Context, input dto.LoginInput) (dto.IdentityOutput, error) {
	identity, err := i.svc.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		return dto.IdentityOutput{}, err
	}
	return dto.IdentityOutput{Token: identity.Token, UserID: identity.UserID, Username: identity.Username}, nil
}

func (i *Interactor) Libraries(ctx context.Context) ([]dto.ItemOutput, error) {
	items, err := i.svc.Libraries(ctx)
	if err != nil {
		return nil, err
	}
	return i.mapItems(items), nil
}

func (i *Interactor) Children(ctx context.Context, parentID string) ([]dto.ItemOutput, error) {
	items, err := i.svc.Children(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return i.mapItems(items), nil
}

func (i *Interactor) ContinueWatching(ctx context.Context) ([]dto.ItemOutput, error) {
	items, err := i.svc.ContinueWatching(ctx)
	if err != nil {
		return nil, err
	}
	return i.mapItems(items), nil
}

func (i *Interactor) NextUp(ctx context.Context) ([]dto.ItemOutput, error) {
	items, err := i.svc.NextUp(ctx)
	if err != nil {
		return nil, err
	}
	return i.mapItems(items), nil
}

func (i *Interactor) Search(ctx context.Context, input dto.SearchInput) ([]dto.ItemOutput, error) {
	kinds := make([]domain.ItemKind, 0, len(input.Kinds))
	for _, raw := range input.Kinds {
		kind := domain.ItemKind(raw)
		if err := kind.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
		}
		kinds = append(kinds, kind)
	}
	items, err := i.svc.Search(ctx, input.Query, kinds)
	if err != nil {
		return nil, err
	}
	return i.mapItems(items), nil
}

func (i *Interactor) Item(ctx context.Context, itemID string) (dto.ItemOutput, error) {
	item, err := i.svc.Item(ctx, itemID)
	if err != nil {
		return dto.ItemOutput{}, err
	}
	return i.mapItem(item), nil
}

func (i *Interactor) Markers(ctx context.Context, itemID string) ([]dto.MarkerOutput, error) {
	item, err := i.svc.Item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	markers, fromChapters, err := i.svc.Markers(ctx, item)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MarkerOutput, 0, len(markers))
	for _, m := range markers {
		out = append(out, dto.MarkerOutput{
			Kind:         string(m.Kind),
			StartSecs:    m.Start.Seconds(),
			EndSecs:      m.End.Seconds(),
			FromChapters: fromChapters,
		})
	}
	return out, nil
}

func (i *Interactor) SetWatched(ctx context.Context, input dto.SetWatchedInput) error {
	return i.svc.SetWatched(ctx, input.ItemID, input.Watched)
}

func (i *Interactor) Stream(ctx context.Context, itemID string) (dto.StreamOutput, error) {
	item, err := i.svc.Item(ctx, itemID)
	if err != nil {
		return dto.StreamOutput{}, err
	}
	target, err := i.svc.ResolveStream(ctx, item)
	if err != nil {
		return dto.StreamOutput{}, err
	}
	return dto.StreamOutput{
		URL:             target.URL,
		PlaySessionID:   target.PlaySessionID,
		MediaSourceID:   target.MediaSourceID,
		StartOffsetSecs: target.StartOffset.Seconds(),
	}, nil
}

func (i *Interactor) ReportStarted(ctx context.Context, input dto.ProgressInput) error {
	return i.svc.ReportStarted(ctx, mapReport(input))
}

func (i *Interactor) ReportProgress(ctx context.Context, input dto.ProgressInput) error {
	return i.svc.ReportProgress(ctx, mapReport(input))
}

func (i *Interactor) ReportStopped(ctx context.Context, input dto.ProgressInput) error {
	return i.svc.ReportStopped(ctx, mapReport(input))
}

func mapReport(input dto.ProgressInput) domain.ProgressReport {
	return domain.ProgressReport{
		ItemID:        input.ItemID,
		Position:      time.Duration(input.PositionSecs * float64(time.Second)),
		Paused:        input.Paused,
		PlaySessionID: input.PlaySessionID,
		MediaSourceID: input.MediaSourceID,
	}
}

func (i *Interactor) mapItems(items []domain.Item) []dto.ItemOutput {
	out := make([]dto.ItemOutput, 0, len(items))
	for _, item := range items {
		out = append(out, i.mapItem(item))
	}
	return out
}

func (i *Interactor) mapItem(item domain.Item) dto.ItemOutput {
	return dto.ItemOutput{
		ID:           item.ID,
		Kind:         string(item.Kind),
		Title:        item.Title,
		Label:        item.Label(),
		ParentID:     item.ParentID,
		SeriesName:   item.SeriesName,
		PositionSecs: item.Position.Seconds(),
		RuntimeSecs:  item.RunTime.Seconds(),
		Watched:      item.Watched,
		Finished:     item.Finished(i.threshold),
	}
}

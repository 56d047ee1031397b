package usecase

import (
	"context"

	"jellyterm/internal/modules/browse/domain"
	"jellyterm/internal/modules/browse/dto"
	"jellyterm/internal/modules/browse/service"
)

// Interactor exposes the navigator behind the inbound port, translating
// domain nodes into transport-neutral DTOs.
type Interactor struct {
	nav *service.NavigatorService
}

func NewInteractor(nav *service.NavigatorService) *Interactor {
	return &Interactor{nav: nav}
}

func (i *Interactor) Start(ctx context.Context) (dto.NodeOutput, error) {
	node, err := i.nav.Start(ctx)
	if err != nil {
		return dto.NodeOutput{}, err
	}
	return i.mapNode(node), nil
}

func (i *Interactor) Snapshot() dto.NodeOutput {
	node, depth := i.nav.Snapshot()
	out := mapNode(node)
	out.Depth = depth
	return out
}

func (i *Interactor) MoveSelection(delta int) dto.NodeOutput {
	return i.mapNode(i.nav.MoveSelection(delta))
}

func (i *Interactor) Open(ctx context.Context) (dto.OpenOutput, error) {
	play, node, err := i.nav.Open(ctx)
	if err != nil {
		return dto.OpenOutput{}, err
	}
	if play != nil {
		return dto.OpenOutput{
			Play: &dto.PlayRequestOutput{
				ItemID:     play.Entry.ID,
				Title:      play.Entry.Label,
				ResumeSecs: play.Entry.Position.Seconds(),
			},
			Node: i.Snapshot(),
		}, nil
	}
	return dto.OpenOutput{Node: i.mapNode(node)}, nil
}

func (i *Interactor) Back() (dto.NodeOutput, error) {
	node, err := i.nav.Back()
	if node == nil {
		return dto.NodeOutput{}, err
	}
	return i.mapNode(node), err
}

func (i *Interactor) Refresh(ctx context.Context) (dto.NodeOutput, error) {
	node, err := i.nav.Refresh(ctx)
	if err != nil {
		return dto.NodeOutput{}, err
	}
	return i.mapNode(node), nil
}

func (i *Interactor) Search(ctx context.Context, query string) (dto.NodeOutput, error) {
	node, err := i.nav.Search(ctx, query)
	if err != nil {
		return dto.NodeOutput{}, err
	}
	return i.mapNode(node), nil
}

func (i *Interactor) ToggleWatched(ctx context.Context) (dto.NodeOutput, error) {
	node, err := i.nav.ToggleWatched(ctx)
	if err != nil {
		return dto.NodeOutput{}, err
	}
	return i.mapNode(node), nil
}

func (i *Interactor) RefreshAfterPlayback(ctx context.Context) (dto.NodeOutput, error) {
	node, err := i.nav.RefreshAfterPlayback(ctx)
	if err != nil {
		return dto.NodeOutput{}, err
	}
	return i.mapNode(node), nil
}

func (i *Interactor) mapNode(node *domain.Node) dto.NodeOutput {
	out := mapNode(node)
	out.Depth = i.nav.Depth()
	return out
}

func mapNode(node *domain.Node) dto.NodeOutput {
	entries := make([]dto.EntryOutput, len(node.Entries))
	for idx, entry := range node.Entries {
		entries[idx] = dto.EntryOutput{
			ID:       entry.ID,
			Kind:     string(entry.Kind),
			Title:    entry.Title,
			Label:    entry.Label,
			Watched:  entry.Watched,
			Finished: entry.Finished,
		}
	}
	sections := make([]dto.SectionOutput, len(node.Sections))
	for idx, section := range node.Sections {
		sections[idx] = dto.SectionOutput{Title: section.Title, Start: section.Start}
	}
	return dto.NodeOutput{
		Kind:     string(node.Kind),
		Title:    node.Title,
		Entries:  entries,
		Sections: sections,
		Selected: node.Selected,
	}
}

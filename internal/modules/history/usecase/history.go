package usecase

import (
	"context"
	"time"

	"jellyterm/internal/modules/history/domain"
	"jellyterm/internal/modules/history/dto"
	"jellyterm/internal/modules/history/service"
)

type Interactor struct {
	svc *service.HistoryService
}

func NewInteractor(svc *service.HistoryService) *Interactor {
	return &Interactor{svc: svc}
}

func (i *Interactor) Record(ctx context.Context, input dto.RecordInput) error {
	return i.svc.Record(ctx, domain.Entry{
		ItemID:    input.ItemID,
		Title:     input.Title,
		StartedAt: input.StartedAt,
		EndedAt:   input.EndedAt,
		Position:  time.Duration(input.PositionSecs * float64(time.Second)),
		Runtime:   time.Duration(input.RuntimeSecs * float64(time.Second)),
		Completed: input.Completed,
	})
}

func (i *Interactor) Recent(ctx context.Context, limit int) ([]dto.EntryOutput, error) {
	entries, err := i.svc.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.EntryOutput{
			ItemID:       entry.ItemID,
			Title:        entry.Title,
			StartedAt:    entry.StartedAt,
			EndedAt:      entry.EndedAt,
			PositionSecs: entry.Position.Seconds(),
			RuntimeSecs:  entry.Runtime.Seconds(),
			Completed:    entry.Completed,
		})
	}
	return out, nil
}

func (i *Interactor) Clear(ctx context.Context) error {
	return i.svc.Clear(ctx)
}

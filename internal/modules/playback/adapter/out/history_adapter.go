package out

import (
	"context"

	historydto "jellyterm/internal/modules/history/dto"
	historyin "jellyterm/internal/modules/history/port/in"
	"jellyterm/internal/modules/playback/domain"
)

type HistoryAdapter struct {
	history historyin.Usecase
}

func NewHistoryAdapter(history historyin.Usecase) *HistoryAdapter {
	return &HistoryAdapter{history: history}
}

func (a *HistoryAdapter) Record(ctx context.Context, record domain.Record) error {
	return a.history.Record(ctx, historydto.RecordInput{
		ItemID:       record.ItemID,
		Title:        record.Title,
		StartedAt:    record.StartedAt,
		EndedAt:      record.EndedAt,
		PositionSecs: record.Position.Seconds(),
		RuntimeSecs:  record.Runtime.Seconds(),
		Completed:    record.Completed,
	})
}

package in

import (
	"context"

	"jellyterm/internal/modules/playback/dto"
	playbackin "jellyterm/internal/modules/playback/port/in"
)

type TUIHandler struct {
	usecase playbackin.Usecase
}

func NewTUIHandler(usecase playbackin.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Play(ctx context.Context, itemID string) error {
	return h.usecase.Play(ctx, dto.PlayInput{ItemID: itemID})
}

func (h TUIHandler) Stop(ctx context.Context) error {
	return h.usecase.Stop(ctx)
}

func (h TUIHandler) Status() dto.StatusOutput {
	return h.usecase.Status()
}

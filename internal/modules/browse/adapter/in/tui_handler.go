package in

import (
	"context"

	"jellyterm/internal/modules/browse/dto"
	browsein "jellyterm/internal/modules/browse/port/in"
)

// TUIHandler is the terminal UI's entry into navigation. It stays thin so
// the view layer never touches the module internals directly.
type TUIHandler struct {
	usecase browsein.Usecase
}

func NewTUIHandler(usecase browsein.Usecase) TUIHandler {
	return TUIHandler{usecase: usecase}
}

func (h TUIHandler) Start(ctx context.Context) (dto.NodeOutput, error) {
	return h.usecase.Start(ctx)
}

func (h TUIHandler) Snapshot() dto.NodeOutput {
	return h.usecase.Snapshot()
}

func (h TUIHandler) MoveSelection(delta int) dto.NodeOutput {
	return h.usecase.MoveSelection(delta)
}

func (h TUIHandler) Open(ctx context.Context) (dto.OpenOutput, error) {
	return h.usecase.Open(ctx)
}

func (h TUIHandler) Back() (dto.NodeOutput, error) {
	return h.usecase.Back()
}

func (h TUIHandler) Refresh(ctx context.Context) (dto.NodeOutput, error) {
	return h.usecase.Refresh(ctx)
}

func (h TUIHandler) Search(ctx context.Context, query string) (dto.NodeOutput, error) {
	return h.usecase.Search(ctx, query)
}

func (h TUIHandler) ToggleWatched(ctx context.Context) (dto.NodeOutput, error) {
	return h.usecase.ToggleWatched(ctx)
}

func (h TUIHandler) RefreshAfterPlayback(ctx context.Context) (dto.NodeOutput, error) {
	return h.usecase.RefreshAfterPlayback(ctx)
}

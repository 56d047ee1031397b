package in

import (
	"context"

	"jellyterm/internal/modules/history/dto"
	historyin "jellyterm/internal/modules/history/port/in"
)

type CLIHandler struct {
	usecase historyin.Usecase
}

func NewCLIHandler(usecase historyin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Recent(ctx context.Context, limit int) ([]dto.EntryOutput, error) {
	return h.usecase.Recent(ctx, limit)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.Clear(ctx)
}

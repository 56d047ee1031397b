package in

import (
	"context"

	"jellyterm/internal/modules/catalog/dto"
	catalogin "jellyterm/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Login(ctx context.Context, username, password string) (dto.IdentityOutput, error) {
	return h.usecase.Login(ctx, dto.LoginInput{Username: username, Password: password})
}

func (h CLIHandler) Libraries(ctx context.Context) ([]dto.ItemOutput, error) {
	return h.usecase.Libraries(ctx)
}

func (h CLIHandler) Children(ctx context.Context, parentID string) ([]dto.ItemOutput, error) {
	return h.usecase.Children(ctx, parentID)
}

func (h CLIHandler) ContinueWatching(ctx context.Context) ([]dto.ItemOutput, error) {
	return h.usecase.ContinueWatching(ctx)
}

func (h CLIHandler) NextUp(ctx context.Context) ([]dto.ItemOutput, error) {
	return h.usecase.NextUp(ctx)
}

func (h CLIHandler) Search(ctx context.Context, query string, kinds []string) ([]dto.ItemOutput, error) {
	return h.usecase.Search(ctx, dto.SearchInput{Query: query, Kinds: kinds})
}

func (h CLIHandler) Markers(ctx context.Context, itemID string) ([]dto.MarkerOutput, error) {
	return h.usecase.Markers(ctx, itemID)
}

func (h CLIHandler) SetWatched(ctx context.Context, itemID string, watched bool) error {
	return h.usecase.SetWatched(ctx, dto.SetWatchedInput{ItemID: itemID, Watched: watched})
}

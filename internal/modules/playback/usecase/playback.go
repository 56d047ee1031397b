package usecase

import (
	"context"
	"fmt"
	"strings"

	"jellyterm/internal/modules/playback/dto"
	"jellyterm/internal/modules/playback/service"
	apperrors "jellyterm/internal/platform/errors"
)

type Interactor struct {
	controller *service.Controller
}

func NewInteractor(controller *service.Controller) *Interactor {
	return &Interactor{controller: controller}
}

func (i *Interactor) Play(ctx context.Context, input dto.PlayInput) error {
	if strings.TrimSpace(input.ItemID) == "" {
		return fmt.Errorf("%w: item id is required", apperrors.ErrInvalidInput)
	}
	return i.controller.Play(ctx, input.ItemID)
}

func (i *Interactor) Stop(ctx context.Context) error {
	return i.controller.Stop(ctx)
}

func (i *Interactor) Status() dto.StatusOutput {
	status := i.controller.Status()
	return dto.StatusOutput{
		Active:       status.Active,
		ItemID:       status.ItemID,
		Title:        status.Title,
		PositionSecs: status.Position.Seconds(),
		RuntimeSecs:  status.Runtime.Seconds(),
		Paused:       status.Paused,
	}
}

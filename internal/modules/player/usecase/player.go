package usecase

import (
	"context"
	"time"

	"jellyterm/internal/modules/player/domain"
	"jellyterm/internal/modules/player/dto"
	playerin "jellyterm/internal/modules/player/port/in"
	"jellyterm/internal/modules/player/service"
)

type Interactor struct {
	supervisor *service.SupervisorService
}

func NewInteractor(supervisor *service.SupervisorService) *Interactor {
	return &Interactor{supervisor: supervisor}
}

func (i *Interactor) Launch(ctx context.Context, input dto.LaunchInput) (playerin.Session, error) {
	handle, err := i.supervisor.Launch(ctx, domain.LaunchSpec{
		URL:         input.URL,
		Title:       input.Title,
		StartOffset: time.Duration(input.StartOffsetSecs * float64(time.Second)),
		Headers:     input.Headers,
	})
	if err != nil {
		return nil, err
	}

	events := make(chan dto.EventOutput)
	go func() {
		defer close(events)
		for event := range handle.Session().Events {
			events <- dto.EventOutput{
				PositionSecs: event.Status.Position.Seconds(),
				Paused:       event.Status.Paused,
				Terminal:     event.Terminal,
				Err:          event.Err,
			}
		}
	}()
	return &session{supervisor: i.supervisor, handle: handle, events: events}, nil
}

type session struct {
	supervisor *service.SupervisorService
	handle     *service.Handle
	events     chan dto.EventOutput
}

func (s *session) ID() string { return s.handle.Session().ID }

func (s *session) Events() <-chan dto.EventOutput { return s.events }

func (s *session) Seek(ctx context.Context, positionSecs float64) error {
	return s.handle.Seek(ctx, time.Duration(positionSecs*float64(time.Second)))
}

func (s *session) Stop(ctx context.Context) error {
	return s.supervisor.Stop(ctx, s.handle)
}

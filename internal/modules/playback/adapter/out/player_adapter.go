package out

import (
	"context"
	"time"

	playerdto "jellyterm/internal/modules/player/dto"
	playerin "jellyterm/internal/modules/player/port/in"
	"jellyterm/internal/modules/playback/domain"
	playbackout "jellyterm/internal/modules/playback/port/out"
)

// PlayerAdapter launches sessions through the player module, attaching the
// auth headers the stream host expects.
type PlayerAdapter struct {
	player  playerin.Usecase
	headers map[string]string
}

func NewPlayerAdapter(player playerin.Usecase, headers map[string]string) *PlayerAdapter {
	return &PlayerAdapter{player: player, headers: headers}
}

func (a *PlayerAdapter) Launch(ctx context.Context, stream domain.Stream, title string) (playbackout.SessionHandle, error) {
	session, err := a.player.Launch(ctx, playerdto.LaunchInput{
		URL:             stream.URL,
		Title:           title,
		StartOffsetSecs: stream.StartOffset.Seconds(),
		Headers:         a.headers,
	})
	if err != nil {
		return nil, err
	}

	events := make(chan domain.PlayerEvent)
	go func() {
		defer close(events)
		for event := range session.Events() {
			events <- domain.PlayerEvent{
				Position: time.Duration(event.PositionSecs * float64(time.Second)),
				Paused:   event.Paused,
				Terminal: event.Terminal,
				Err:      event.Err,
			}
		}
	}()
	return &sessionHandle{session: session, events: events}, nil
}

type sessionHandle struct {
	session playerin.Session
	events  chan domain.PlayerEvent
}

func (h *sessionHandle) Events() <-chan domain.PlayerEvent { return h.events }

func (h *sessionHandle) Seek(ctx context.Context, position time.Duration) error {
	return h.session.Seek(ctx, position.Seconds())
}

func (h *sessionHandle) Stop(ctx context.Context) error {
	return h.session.Stop(ctx)
}

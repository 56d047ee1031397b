package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"jellyterm/internal/modules/player/domain"
	playerout "jellyterm/internal/modules/player/port/out"
	apperrors "jellyterm/internal/platform/errors"
	"jellyterm/internal/platform/clock"
	"jellyterm/internal/platform/id"
)

const dialRetryInterval = 100 * time.Millisecond

// Timeouts bounds the supervisor's blocking phases.
type Timeouts struct {
	SampleInterval time.Duration
	IPCReady       time.Duration
	Stop           time.Duration
}

// SupervisorService launches the external player and watches it: one process
// per handle, one sampling goroutine, one terminal event.
type SupervisorService struct {
	launcher playerout.Launcher
	remote   playerout.Remote
	ids      id.Generator
	clock    clock.Clock
	timeouts Timeouts
}

func NewSupervisorService(launcher playerout.Launcher, remote playerout.Remote, ids id.Generator, clk clock.Clock, timeouts Timeouts) *SupervisorService {
	return &SupervisorService{launcher: launcher, remote: remote, ids: ids, clock: clk, timeouts: timeouts}
}

// Handle controls one running session. Seek and Stop are safe to call from
// the controller while the sampling loop runs.
type Handle struct {
	session *domain.Session
	process playerout.Process
	conn    playerout.Conn

	mu       sync.Mutex
	stopOnce sync.Once
}

func (h *Handle) Session() *domain.Session { return h.session }

func (h *Handle) Seek(ctx context.Context, position time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn.Seek(ctx, position)
}

// Launch spawns the player for the given spec and waits for its control
// socket to become dialable. Death or silence before readiness fails the
// launch with the process reaped.
func (s *SupervisorService) Launch(ctx context.Context, spec domain.LaunchSpec) (*Handle, error) {
	socket := filepath.Join(os.TempDir(), "jellyterm-"+s.ids.New()+".sock")
	process, err := s.launcher.Start(ctx, socket, spec)
	if err != nil {
		return nil, err
	}

	conn, err := s.awaitReady(ctx, socket, process)
	if err != nil {
		_ = process.Kill()
		<-process.Done()
		return nil, err
	}

	events := make(chan domain.Event)
	handle := &Handle{
		session: &domain.Session{ID: s.ids.New(), Socket: socket, Events: events},
		process: process,
		conn:    conn,
	}
	go s.sample(handle, events)
	return handle, nil
}

func (s *SupervisorService) awaitReady(ctx context.Context, socket string, process playerout.Process) (playerout.Conn, error) {
	deadline := s.clock.Now().Add(s.timeouts.IPCReady)
	for {
		select {
		case <-process.Done():
			err := process.Err()
			if err == nil {
				err = fmt.Errorf("player exited before accepting control connections")
			}
			return nil, fmt.Errorf("%w: %v", apperrors.ErrPlayerUnavailable, err)
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", apperrors.ErrTimeout, ctx.Err())
		default:
		}
		if conn, err := s.remote.Dial(ctx, socket); err == nil {
			return conn, nil
		}
		if s.clock.Now().After(deadline) {
			return nil, fmt.Errorf("%w: player control socket not ready after %s", apperrors.ErrTimeout, s.timeouts.IPCReady)
		}
		time.Sleep(dialRetryInterval)
	}
}

// sample polls the player at the configured interval and forwards status
// ticks until the process exits, then emits the terminal event and closes
// the channel.
func (s *SupervisorService) sample(handle *Handle, events chan<- domain.Event) {
	defer close(events)
	defer handle.conn.Close()

	ticker := time.NewTicker(s.timeouts.SampleInterval)
	defer ticker.Stop()
	for {
		select {
		case <-handle.process.Done():
			events <- domain.Event{Terminal: true, Err: handle.process.Err()}
			return
		case <-ticker.C:
			handle.mu.Lock()
			status, err := handle.conn.Status(context.Background())
			handle.mu.Unlock()
			if err != nil {
				// Likely mid-shutdown; the exit case delivers the terminal.
				continue
			}
			select {
			case events <- domain.Event{Status: status}:
			case <-handle.process.Done():
				events <- domain.Event{Terminal: true, Err: handle.process.Err()}
				return
			}
		}
	}
}

// Stop asks the player to quit, waits out the stop timeout, then kills. The
// terminal event still arrives on the session channel.
func (s *SupervisorService) Stop(ctx context.Context, handle *Handle) error {
	var stopErr error
	handle.stopOnce.Do(func() {
		handle.mu.Lock()
		quitErr := handle.conn.Quit(ctx)
		handle.mu.Unlock()
		if quitErr != nil {
			_ = handle.process.Kill()
			<-handle.process.Done()
			return
		}

		timer := time.NewTimer(s.timeouts.Stop)
		defer timer.Stop()
		select {
		case <-handle.process.Done():
		case <-timer.C:
			_ = handle.process.Kill()
			<-handle.process.Done()
			stopErr = fmt.Errorf("%w: player did not quit within %s", apperrors.ErrTimeout, s.timeouts.Stop)
		case <-ctx.Done():
			_ = handle.process.Kill()
			<-handle.process.Done()
			stopErr = ctx.Err()
		}
	})
	return stopErr
}

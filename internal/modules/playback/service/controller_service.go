package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"jellyterm/internal/modules/playback/domain"
	playbackout "jellyterm/internal/modules/playback/port/out"
	"jellyterm/internal/platform/clock"
	apperrors "jellyterm/internal/platform/errors"
)

const sideEffectTimeout = 10 * time.Second

// Config tunes one controller instance.
type Config struct {
	EnabledKinds        []domain.SegmentKind
	CompletionThreshold float64
	ReportInterval      time.Duration
	StopTimeout         time.Duration
	// ReportBackoff holds the waits between report retries; attempts are
	// bounded by its length plus the initial try.
	ReportBackoff []time.Duration
}

// Controller owns the active playback session. One control goroutine per
// session consumes the player's events and applies all state; everything else
// reads mutex-guarded snapshots.
type Controller struct {
	catalog playbackout.Catalog
	player  playbackout.Player
	history playbackout.History
	browse  playbackout.BrowseRefresher
	clock   clock.Clock
	cfg     Config
	notify  func(string)

	mu      sync.Mutex
	seq     uint64
	current *activeSession
}

func NewController(catalog playbackout.Catalog, player playbackout.Player, history playbackout.History, browse playbackout.BrowseRefresher, clk clock.Clock, cfg Config, notify func(string)) *Controller {
	if notify == nil {
		notify = func(string) {}
	}
	if cfg.ReportBackoff == nil {
		cfg.ReportBackoff = []time.Duration{time.Second, 3 * time.Second}
	}
	return &Controller{
		catalog: catalog,
		player:  player,
		history: history,
		browse:  browse,
		clock:   clk,
		cfg:     cfg,
		notify:  notify,
	}
}

type activeSession struct {
	seq       uint64
	media     domain.Media
	stream    domain.Stream
	handle    playbackout.SessionHandle
	engine    *domain.SkipEngine
	startedAt time.Time
	done      chan struct{}

	mu       sync.Mutex
	position time.Duration
	paused   bool
}

func (a *activeSession) status() (time.Duration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.position, a.paused
}

func (a *activeSession) setStatus(position time.Duration, paused bool) {
	a.mu.Lock()
	a.position = position
	a.paused = paused
	a.mu.Unlock()
}

func (a *activeSession) report(position time.Duration, paused bool) domain.Report {
	return domain.Report{
		ItemID:        a.media.ID,
		Position:      position,
		Paused:        paused,
		PlaySessionID: a.stream.PlaySessionID,
		MediaSourceID: a.stream.MediaSourceID,
	}
}

// Status is the controller's UI-facing snapshot.
type Status struct {
	Active   bool
	ItemID   string
	Title    string
	Position time.Duration
	Runtime  time.Duration
	Paused   bool
}

func (c *Controller) Status() Status {
	c.mu.Lock()
	a := c.current
	c.mu.Unlock()
	if a == nil {
		return Status{}
	}
	position, paused := a.status()
	return Status{
		Active:   true,
		ItemID:   a.media.ID,
		Title:    a.media.Title,
		Position: position,
		Runtime:  a.media.Runtime,
		Paused:   paused,
	}
}

// Play resolves the item and starts a supervised session, tearing down any
// current one first. Missing segment data is not fatal; skipping is simply
// disabled for the session.
func (c *Controller) Play(ctx context.Context, itemID string) error {
	c.teardownCurrent(ctx)

	media, err := c.catalog.Media(ctx, itemID)
	if err != nil {
		return err
	}
	stream, err := c.catalog.Stream(ctx, itemID)
	if err != nil {
		return err
	}
	var engine *domain.SkipEngine
	if len(c.cfg.EnabledKinds) > 0 {
		segments, err := c.catalog.Segments(ctx, itemID)
		if err != nil {
			segments = nil
		}
		engine = domain.NewSkipEngine(segments, c.cfg.EnabledKinds)
	} else {
		engine = domain.NewSkipEngine(nil, nil)
	}

	handle, err := c.player.Launch(ctx, stream, media.Title)
	if err != nil {
		return err
	}

	a := &activeSession{
		media:     media,
		stream:    stream,
		handle:    handle,
		engine:    engine,
		startedAt: c.clock.Now(),
		done:      make(chan struct{}),
		position:  stream.StartOffset,
	}
	c.mu.Lock()
	c.seq++
	a.seq = c.seq
	c.current = a
	c.mu.Unlock()

	if err := c.withRetry(func(ctx context.Context) error {
		return c.catalog.ReportStarted(ctx, a.report(stream.StartOffset, false))
	}); err != nil {
		c.notify("progress reporting is failing; playback continues")
	}

	go c.run(a)
	return nil
}

// Stop tears down the active session and waits out its final report.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	a := c.current
	c.mu.Unlock()
	if a == nil {
		return apperrors.ErrNoActiveSession
	}
	c.teardownCurrent(ctx)
	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) teardownCurrent(ctx context.Context) {
	c.mu.Lock()
	a := c.current
	c.mu.Unlock()
	if a == nil {
		return
	}
	stopCtx, cancel := context.WithTimeout(ctx, c.cfg.StopTimeout)
	_ = a.handle.Stop(stopCtx)
	cancel()
	// The old session's final report runs on its own goroutine; it may race
	// a new start briefly but cannot starve it.
	select {
	case <-a.done:
	case <-time.After(c.cfg.StopTimeout):
	}
}

// run is the session's control goroutine: it alone applies event state.
func (c *Controller) run(a *activeSession) {
	defer close(a.done)

	lastReport := c.clock.Now()
	reportNext := false
	reportFailures := 0
	var final domain.PlayerEvent
	sawTerminal := false

	for event := range a.handle.Events() {
		if event.Terminal {
			final = event
			sawTerminal = true
			continue
		}
		// A superseded session keeps draining so its supervisor can wind
		// down, but its ticks no longer touch anything.
		if !c.isCurrent(a.seq) {
			continue
		}

		_, wasPaused := a.status()
		pauseFlip := event.Paused != wasPaused

		if !event.Paused {
			if target, ok := a.engine.Decide(event.Position); ok {
				if err := c.seek(a, target); err == nil {
					a.setStatus(target, false)
					reportNext = true
					continue
				}
			}
		}

		a.setStatus(event.Position, event.Paused)
		if pauseFlip || reportNext || c.clock.Since(lastReport) >= c.cfg.ReportInterval {
			if err := c.withRetry(func(ctx context.Context) error {
				return c.catalog.ReportProgress(ctx, a.report(event.Position, event.Paused))
			}); err != nil {
				// An invalid token will not heal mid-session; tear the
				// player down and let the host re-authenticate. The
				// terminal event then drives the usual finish path.
				if errors.Is(err, apperrors.ErrAuth) {
					c.notify("authentication rejected; stopping playback")
					stopCtx, cancel := context.WithTimeout(context.Background(), c.cfg.StopTimeout)
					_ = a.handle.Stop(stopCtx)
					cancel()
					continue
				}
				reportFailures++
				if reportFailures == 1 {
					c.notify("progress reporting is failing; playback continues")
				}
			} else {
				reportFailures = 0
			}
			lastReport = c.clock.Now()
			reportNext = false
		}
	}

	c.finish(a, final, sawTerminal)
}

// finish sends the session's single final report, infers watched state,
// records history, and asks browse to refresh. It runs for every session,
// even one that never produced a tick.
func (c *Controller) finish(a *activeSession, final domain.PlayerEvent, sawTerminal bool) {
	position, _ := a.status()

	if err := c.withRetry(func(ctx context.Context) error {
		return c.catalog.ReportStopped(ctx, a.report(position, true))
	}); err != nil {
		c.notify("could not report final playback position")
	}

	completed := domain.Completed(position, a.media.Runtime, c.cfg.CompletionThreshold)
	if completed {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		if err := c.catalog.SetWatched(ctx, a.media.ID, true); err != nil {
			c.notify("could not mark item watched")
		}
		cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	record := domain.Record{
		ItemID:    a.media.ID,
		Title:     a.media.Title,
		StartedAt: a.startedAt,
		EndedAt:   c.clock.Now(),
		Position:  position,
		Runtime:   a.media.Runtime,
		Completed: completed,
	}
	if err := c.history.Record(ctx, record); err != nil {
		c.notify("could not record playback history")
	}
	cancel()

	if sawTerminal && final.Err != nil {
		c.notify(fmt.Sprintf("player exited: %v", final.Err))
	}

	c.clearIfCurrent(a)

	ctx, cancel = context.WithTimeout(context.Background(), sideEffectTimeout)
	_ = c.browse.RefreshAfterPlayback(ctx)
	cancel()
}

func (c *Controller) seek(a *activeSession, target time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
	defer cancel()
	return a.handle.Seek(ctx, target)
}

func (c *Controller) isCurrent(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current != nil && c.current.seq == seq
}

func (c *Controller) clearIfCurrent(a *activeSession) {
	c.mu.Lock()
	if c.current == a {
		c.current = nil
	}
	c.mu.Unlock()
}

// withRetry attempts a report, retrying transient failures on the backoff
// schedule. Non-transient failures abort immediately.
func (c *Controller) withRetry(send func(context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		err = send(ctx)
		cancel()
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperrors.ErrNetwork) && !errors.Is(err, apperrors.ErrTimeout) {
			return err
		}
		if attempt >= len(c.cfg.ReportBackoff) {
			return err
		}
		time.Sleep(c.cfg.ReportBackoff[attempt])
	}
}

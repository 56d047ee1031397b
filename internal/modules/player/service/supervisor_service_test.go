package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"jellyterm/internal/modules/player/domain"
	playerout "jellyterm/internal/modules/player/port/out"
	"jellyterm/internal/modules/player/service"
	"jellyterm/internal/platform/clock"
	apperrors "jellyterm/internal/platform/errors"
)

type fakeProcess struct {
	done    chan struct{}
	exitErr error
	once    sync.Once
	killed  bool
	mu      sync.Mutex
}

func newFakeProcess() *fakeProcess {
	return &fakeProcess{done: make(chan struct{})}
}

func (p *fakeProcess) exit(err error) {
	p.once.Do(func() {
		p.exitErr = err
		close(p.done)
	})
}

func (p *fakeProcess) Done() <-chan struct{} { return p.done }
func (p *fakeProcess) Err() error            { return p.exitErr }

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	p.exit(errors.New("killed"))
	return nil
}

func (p *fakeProcess) wasKilled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

type fakeLauncher struct {
	process *fakeProcess
	err     error
}

func (l *fakeLauncher) Start(context.Context, string, domain.LaunchSpec) (playerout.Process, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.process, nil
}

type fakeConn struct {
	mu       sync.Mutex
	status   domain.Status
	seeks    []time.Duration
	quit     func()
	quitErr  error
	statErr  error
	closed   bool
	quitDone bool
}

func (c *fakeConn) Status(context.Context) (domain.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statErr != nil {
		return domain.Status{}, c.statErr
	}
	return c.status, nil
}

func (c *fakeConn) Seek(_ context.Context, position time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seeks = append(c.seeks, position)
	c.status.Position = position
	return nil
}

func (c *fakeConn) Quit(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quitDone = true
	if c.quitErr != nil {
		return c.quitErr
	}
	if c.quit != nil {
		c.quit()
	}
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

type fakeRemote struct {
	mu       sync.Mutex
	conn     *fakeConn
	failures int
}

func (r *fakeRemote) Dial(context.Context, string) (playerout.Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failures > 0 {
		r.failures--
		return nil, errors.New("socket not ready")
	}
	return r.conn, nil
}

type fakeIDs struct{ n int }

func (f *fakeIDs) New() string {
	f.n++
	return "id-" + string(rune('0'+f.n))
}

func newSupervisor(launcher *fakeLauncher, remote *fakeRemote) *service.SupervisorService {
	return service.NewSupervisorService(launcher, remote, &fakeIDs{}, clock.SystemClock{}, service.Timeouts{
		SampleInterval: 5 * time.Millisecond,
		IPCReady:       500 * time.Millisecond,
		Stop:           50 * time.Millisecond,
	})
}

func TestLaunchWaitsForSocketReadiness(t *testing.T) {
	t.Parallel()

	process := newFakeProcess()
	conn := &fakeConn{status: domain.Status{Position: 7 * time.Second}}
	remote := &fakeRemote{conn: conn, failures: 2}
	svc := newSupervisor(&fakeLauncher{process: process}, remote)

	handle, err := svc.Launch(context.Background(), domain.LaunchSpec{URL: "http://example/stream"})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	event, ok := <-handle.Session().Events
	if !ok || event.Terminal {
		t.Fatalf("first event = %+v, want a tick", event)
	}
	if event.Status.Position != 7*time.Second {
		t.Fatalf("position = %v, want 7s", event.Status.Position)
	}

	process.exit(nil)
	for event := range handle.Session().Events {
		if event.Terminal {
			if event.Err != nil {
				t.Fatalf("terminal err = %v, want nil", event.Err)
			}
			return
		}
	}
	t.Fatal("channel closed without a terminal event")
}

func TestLaunchFailsWhenProcessDiesBeforeReady(t *testing.T) {
	t.Parallel()

	process := newFakeProcess()
	process.exit(errors.New("bad stream"))
	remote := &fakeRemote{conn: &fakeConn{}, failures: 1 << 30}
	svc := newSupervisor(&fakeLauncher{process: process}, remote)

	_, err := svc.Launch(context.Background(), domain.LaunchSpec{URL: "http://example/stream"})
	if !errors.Is(err, apperrors.ErrPlayerUnavailable) {
		t.Fatalf("err = %v, want ErrPlayerUnavailable", err)
	}
}

func TestLaunchTimesOutWhenSocketNeverReady(t *testing.T) {
	t.Parallel()

	process := newFakeProcess()
	remote := &fakeRemote{conn: &fakeConn{}, failures: 1 << 30}
	launcher := &fakeLauncher{process: process}
	svc := service.NewSupervisorService(launcher, remote, &fakeIDs{}, clock.SystemClock{}, service.Timeouts{
		SampleInterval: 5 * time.Millisecond,
		IPCReady:       30 * time.Millisecond,
		Stop:           50 * time.Millisecond,
	})

	_, err := svc.Launch(context.Background(), domain.LaunchSpec{URL: "http://example/stream"})
	if !errors.Is(err, apperrors.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if !process.wasKilled() {
		t.Fatal("expected the unready process to be reaped")
	}
}

func TestTerminalEventIsLastAndChannelCloses(t *testing.T) {
	t.Parallel()

	process := newFakeProcess()
	conn := &fakeConn{}
	svc := newSupervisor(&fakeLauncher{process: process}, &fakeRemote{conn: conn})

	handle, err := svc.Launch(context.Background(), domain.LaunchSpec{URL: "u"})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		process.exit(nil)
	}()

	terminals := 0
	var last domain.Event
	for event := range handle.Session().Events {
		last = event
		if event.Terminal {
			terminals++
		}
	}
	if terminals != 1 {
		t.Fatalf("terminal events = %d, want exactly 1", terminals)
	}
	if !last.Terminal {
		t.Fatal("terminal event was not the channel's last")
	}
}

func TestStopQuitsThenWaits(t *testing.T) {
	t.Parallel()

	process := newFakeProcess()
	conn := &fakeConn{}
	conn.quit = func() { process.exit(nil) }
	svc := newSupervisor(&fakeLauncher{process: process}, &fakeRemote{conn: conn})

	handle, err := svc.Launch(context.Background(), domain.LaunchSpec{URL: "u"})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	go func() {
		for range handle.Session().Events {
		}
	}()

	if err := svc.Stop(context.Background(), handle); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if process.wasKilled() {
		t.Fatal("clean quit must not escalate to kill")
	}
}

func TestStopKillsAfterTimeout(t *testing.T) {
	t.Parallel()

	process := newFakeProcess()
	conn := &fakeConn{} // quit accepted but the process never exits
	svc := newSupervisor(&fakeLauncher{process: process}, &fakeRemote{conn: conn})

	handle, err := svc.Launch(context.Background(), domain.LaunchSpec{URL: "u"})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	go func() {
		for range handle.Session().Events {
		}
	}()

	if err := svc.Stop(context.Background(), handle); !errors.Is(err, apperrors.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if !process.wasKilled() {
		t.Fatal("expected kill after stop timeout")
	}
}

package out

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"jellyterm/internal/modules/player/domain"
	playerout "jellyterm/internal/modules/player/port/out"
	apperrors "jellyterm/internal/platform/errors"
)

const defaultIPCDeadline = 2 * time.Second

// MPVRemote speaks mpv's JSON IPC protocol over the unix control socket.
type MPVRemote struct{}

func NewMPVRemote() *MPVRemote { return &MPVRemote{} }

func (r *MPVRemote) Dial(_ context.Context, socket string) (playerout.Conn, error) {
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil, fmt.Errorf("dial player socket: %w", err)
	}
	return &ipcConn{conn: conn, reader: bufio.NewReader(conn)}, nil
}

type ipcConn struct {
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID int
}

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

// ipcResponse covers command replies; asynchronous events carry an "event"
// field instead of a request id and are skipped.
type ipcResponse struct {
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	RequestID int             `json:"request_id"`
	Event     string          `json:"event"`
}

func (c *ipcConn) Status(ctx context.Context) (domain.Status, error) {
	position, err := c.getFloat(ctx, "time-pos")
	if err != nil {
		return domain.Status{}, err
	}
	paused, err := c.getBool(ctx, "pause")
	if err != nil {
		return domain.Status{}, err
	}
	return domain.Status{
		Position: time.Duration(position * float64(time.Second)),
		Paused:   paused,
	}, nil
}

func (c *ipcConn) Seek(ctx context.Context, position time.Duration) error {
	_, err := c.roundTrip(ctx, []any{"seek", position.Seconds(), "absolute+exact"})
	return err
}

func (c *ipcConn) Quit(ctx context.Context) error {
	_, err := c.roundTrip(ctx, []any{"quit"})
	return err
}

func (c *ipcConn) Close() error { return c.conn.Close() }

func (c *ipcConn) getFloat(ctx context.Context, property string) (float64, error) {
	data, err := c.roundTrip(ctx, []any{"get_property", property})
	if err != nil {
		return 0, err
	}
	// Properties read before the file loads come back null.
	if len(data) == 0 || string(data) == "null" {
		return 0, nil
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return 0, fmt.Errorf("decode %s: %w", property, err)
	}
	return value, nil
}

func (c *ipcConn) getBool(ctx context.Context, property string) (bool, error) {
	data, err := c.roundTrip(ctx, []any{"get_property", property})
	if err != nil {
		return false, err
	}
	if len(data) == 0 || string(data) == "null" {
		return false, nil
	}
	var value bool
	if err := json.Unmarshal(data, &value); err != nil {
		return false, fmt.Errorf("decode %s: %w", property, err)
	}
	return value, nil
}

func (c *ipcConn) roundTrip(ctx context.Context, command []any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	requestID := c.nextID
	payload, err := json.Marshal(ipcRequest{Command: command, RequestID: requestID})
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(defaultIPCDeadline)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, classifyIPC(err)
	}

	if _, err := c.conn.Write(append(payload, '\n')); err != nil {
		return nil, classifyIPC(err)
	}
	for {
		line, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, classifyIPC(err)
		}
		var resp ipcResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.Event != "" || resp.RequestID != requestID {
			continue
		}
		if resp.Error != "success" {
			return nil, fmt.Errorf("player command failed: %s", resp.Error)
		}
		return resp.Data, nil
	}
}

func classifyIPC(err error) error {
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return fmt.Errorf("%w: player control: %v", apperrors.ErrTimeout, err)
	}
	return fmt.Errorf("player control: %w", err)
}

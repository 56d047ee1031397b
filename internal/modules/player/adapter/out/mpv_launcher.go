package out

import (
	"context"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"jellyterm/internal/modules/player/domain"
	playerout "jellyterm/internal/modules/player/port/out"
	apperrors "jellyterm/internal/platform/errors"
)

// MPVLauncher spawns mpv with a JSON IPC control socket. The command can be
// overridden from config; otherwise mpv is resolved on PATH.
type MPVLauncher struct {
	command   string
	extraArgs []string
}

func NewMPVLauncher(command string, extraArgs []string) *MPVLauncher {
	if command == "" {
		command = "mpv"
	}
	return &MPVLauncher{command: command, extraArgs: extraArgs}
}

func (l *MPVLauncher) Start(_ context.Context, socket string, spec domain.LaunchSpec) (playerout.Process, error) {
	binary, err := exec.LookPath(l.command)
	if err != nil {
		return nil, fmt.Errorf("%w: %q not found on PATH", apperrors.ErrPlayerUnavailable, l.command)
	}

	// Not CommandContext: the supervisor owns the lifecycle, not the launch
	// call's context.
	cmd := exec.Command(binary, l.buildArgs(socket, spec)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start %s: %v", apperrors.ErrPlayerUnavailable, l.command, err)
	}

	process := &osProcess{cmd: cmd, done: make(chan struct{})}
	go func() {
		process.err = cmd.Wait()
		close(process.done)
	}()
	return process, nil
}

// buildArgs keeps the URL last so mpv never mistakes it for an option value.
func (l *MPVLauncher) buildArgs(socket string, spec domain.LaunchSpec) []string {
	args := []string{
		"--input-ipc-server=" + socket,
		"--terminal=no",
	}
	if spec.Title != "" {
		args = append(args, "--force-media-title="+spec.Title)
	}
	if spec.StartOffset > 0 {
		args = append(args, fmt.Sprintf("--start=%.3f", spec.StartOffset.Seconds()), "--hr-seek=yes")
	}
	if len(spec.Headers) > 0 {
		args = append(args, "--http-header-fields="+headerFields(spec.Headers))
	}
	args = append(args, l.extraArgs...)
	args = append(args, spec.URL)
	return args
}

func headerFields(headers map[string]string) string {
	keys := make([]string, 0, len(headers))
	for key := range headers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fields := make([]string, 0, len(keys))
	for _, key := range keys {
		fields = append(fields, key+": "+headers[key])
	}
	return strings.Join(fields, ",")
}

type osProcess struct {
	cmd  *exec.Cmd
	done chan struct{}
	err  error
}

func (p *osProcess) Done() <-chan struct{} { return p.done }

// Err is valid once Done is closed.
func (p *osProcess) Err() error { return p.err }

func (p *osProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

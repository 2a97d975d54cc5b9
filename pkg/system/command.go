package system

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"syscall"
	"time"
)

// StopGrace is how long a cancelled command may take to exit after SIGTERM
// before it is killed.
const StopGrace = 30 * time.Second

// Command describes one external program invocation.
type Command struct {
	Name   string
	Args   []string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// String renders the command line for logging.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Exec runs external programs through os/exec.
type Exec struct {
	// Grace overrides [StopGrace] when non-zero.
	Grace time.Duration
}

func (e *Exec) stopGrace() time.Duration {
	if e.Grace > 0 {
		return e.Grace
	}

	return StopGrace
}

// LookPath wraps around [exec.LookPath].
func (*Exec) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run starts the command and waits for it to finish. A non-zero exit
// status is returned as an error wrapping [*exec.ExitError].
//
// Cancelling ctx sends SIGTERM so the program can run its cleanup; it is
// killed only if it is still running after [StopGrace].
func (e *Exec) Run(ctx context.Context, c Command) error {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = e.stopGrace()
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("(system-exec) %s: %w", c.Name, err)
	}

	return nil
}

// Output runs the command and returns its standard output.
func (*Exec) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return out, fmt.Errorf("(system-exec) %s: %w", name, err)
	}

	return out, nil
}

// ExitCode extracts the process exit status from an error returned by
// [Exec.Run]. It is 0 for a nil error and -1 when the process never
// produced a status (not found, killed before start, ...).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	return -1
}

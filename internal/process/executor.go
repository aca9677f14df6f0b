// Package process runs external commands on behalf of the check
// orchestrator. It is the only package that touches the OS process table.
//
// Two modes exist because their contracts differ materially:
//
//   - Capture: output is buffered, execution is bounded by a timeout, and
//     the child is killed (process group first) when the timeout fires.
//   - Stream: stdio is inherited from the parent so a human can watch live
//     output; execution is unbounded and stops on child exit or an
//     externally delivered interrupt, which is forwarded to the child.
package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/handycomputer/voice-input-launcher/internal/check"
)

// DefaultCheckTimeout bounds capturing-mode executions that don't specify
// their own timeout. Matches the dashboard's per-check bound.
const DefaultCheckTimeout = 300 * time.Second

// killGracePeriod is how long a streaming child gets between SIGTERM and
// SIGKILL during shutdown.
const killGracePeriod = 5 * time.Second

// ErrEmptyCommand is returned when a definition has no executable.
var ErrEmptyCommand = errors.New("command must not be empty")

// Executor spawns child processes for check definitions.
// The zero value is usable.
type Executor struct {
	// waitDelay bounds how long an exited or killed child's inherited
	// pipes can keep a run blocked. Zero selects killGracePeriod.
	waitDelay time.Duration
}

// NewExecutor returns a ready Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Capture runs def's command in def.Dir, buffering stdout and stderr, and
// returns exactly one CommandResult. timeout <= 0 selects
// DefaultCheckTimeout. The result classifies the outcome: Success,
// Failure(code), TimedOut (partial output retained), or SpawnError (no
// process ever ran). Errors are returned as data in the result, never
// raised.
func (e *Executor) Capture(ctx context.Context, def check.Definition, timeout time.Duration) check.CommandResult {
	if len(def.Command) == 0 {
		return check.CommandResult{
			CheckName: def.Name,
			Status:    check.SpawnError(ErrEmptyCommand),
		}
	}
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, def.Command[0], def.Command[1:]...)
	cmd.Dir = def.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Own process group so a timeout kill takes grandchildren with it
	// (bun and cargo both fork workers).
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return killGroup(cmd, syscall.SIGKILL)
	}
	// A grandchild that re-pgids itself and inherits the output pipes
	// would otherwise keep Run blocked after the check itself exited.
	cmd.WaitDelay = e.waitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = killGracePeriod
	}

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	res := check.CommandResult{
		CheckName: def.Name,
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		Duration:  duration,
	}

	switch {
	case err == nil:
		res.Status = check.Success()
	case ctx.Err() == context.DeadlineExceeded:
		res.Status = check.TimedOut()
	case errors.Is(err, exec.ErrWaitDelay):
		// The check exited zero; only an orphan holding the pipes kept
		// Wait blocked. A nonzero exit surfaces as an ExitError below.
		res.Status = check.Success()
	case cmd.ProcessState == nil:
		// Run failed before a process existed (missing binary,
		// permission, bad directory).
		res.Status = check.SpawnError(err)
	default:
		res.Status = check.Failure(exitCode(err))
	}
	return res
}

// Stream runs def's command in def.Dir with stdio attached to the parent's
// standard streams. It blocks until the child exits or ctx is cancelled;
// cancellation sends SIGTERM to the child's process group, escalating to
// SIGKILL after a grace period, and Stream returns promptly either way.
func (e *Executor) Stream(ctx context.Context, def check.Definition) check.CommandResult {
	if len(def.Command) == 0 {
		return check.CommandResult{
			CheckName: def.Name,
			Status:    check.SpawnError(ErrEmptyCommand),
		}
	}

	cmd := exec.CommandContext(ctx, def.Command[0], def.Command[1:]...)
	cmd.Dir = def.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return killGroup(cmd, syscall.SIGTERM)
	}
	cmd.WaitDelay = killGracePeriod

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	res := check.CommandResult{
		CheckName: def.Name,
		Duration:  duration,
	}

	switch {
	case err == nil:
		res.Status = check.Success()
	case cmd.ProcessState == nil:
		res.Status = check.SpawnError(err)
	default:
		res.Status = check.Failure(exitCode(err))
	}
	return res
}

// killGroup signals cmd's process group, falling back to the process
// itself when the group is gone.
func killGroup(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err == nil {
		return syscall.Kill(-pgid, sig)
	}
	return cmd.Process.Signal(sig)
}

// exitCode extracts the exit code from a Wait error. Signal exits map to
// 128 + signal number.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
		return exitErr.ExitCode()
	}
	return 1
}

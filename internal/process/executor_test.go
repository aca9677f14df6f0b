package process

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/handycomputer/voice-input-launcher/internal/check"
)

// shellDef returns a definition that runs script under sh in dir.
func shellDef(t *testing.T, name, script, dir string) check.Definition {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available, skipping")
	}
	return check.Definition{
		Name:    name,
		Command: []string{"sh", "-c", script},
		Dir:     dir,
	}
}

func TestCapture_Success(t *testing.T) {
	e := NewExecutor()
	def := shellDef(t, "ok", "echo hello; echo oops >&2", t.TempDir())

	res := e.Capture(context.Background(), def, time.Minute)

	if res.Status.Kind != check.StatusSuccess {
		t.Fatalf("expected success, got %s", res.Status)
	}
	if res.CheckName != "ok" {
		t.Errorf("CheckName = %q, want %q", res.CheckName, "ok")
	}
	if !strings.Contains(res.Stdout, "hello") {
		t.Errorf("stdout not captured: %q", res.Stdout)
	}
	if !strings.Contains(res.Stderr, "oops") {
		t.Errorf("stderr not captured: %q", res.Stderr)
	}
	if res.Duration <= 0 {
		t.Error("duration should be positive")
	}
}

func TestCapture_OrphanHoldingPipesDoesNotBlock(t *testing.T) {
	// The background sleep inherits stdout and outlives the check. Wait
	// must give up on the pipes after waitDelay instead of blocking
	// until the orphan exits, and the check's own exit status wins.
	e := &Executor{waitDelay: 200 * time.Millisecond}
	def := shellDef(t, "orphan", "echo before; sleep 30 & exit 0", t.TempDir())

	start := time.Now()
	res := e.Capture(context.Background(), def, time.Minute)
	elapsed := time.Since(start)

	if elapsed > 10*time.Second {
		t.Fatalf("Capture blocked on orphan pipes for %s", elapsed)
	}
	if res.Status.Kind != check.StatusSuccess {
		t.Fatalf("expected success, got %s", res.Status)
	}
	if !strings.Contains(res.Stdout, "before") {
		t.Errorf("stdout lost: %q", res.Stdout)
	}
}

func TestCapture_OrphanHoldingPipesKeepsFailureCode(t *testing.T) {
	e := &Executor{waitDelay: 200 * time.Millisecond}
	def := shellDef(t, "orphan-fail", "sleep 30 & exit 4", t.TempDir())

	res := e.Capture(context.Background(), def, time.Minute)

	if res.Status.Kind != check.StatusFailure {
		t.Fatalf("expected failure, got %s", res.Status)
	}
	if res.Status.Code != 4 {
		t.Errorf("exit code = %d, want 4", res.Status.Code)
	}
}

func TestCapture_Failure(t *testing.T) {
	e := NewExecutor()
	def := shellDef(t, "fail", "exit 3", t.TempDir())

	res := e.Capture(context.Background(), def, time.Minute)

	if res.Status.Kind != check.StatusFailure {
		t.Fatalf("expected failure, got %s", res.Status)
	}
	if res.Status.Code != 3 {
		t.Errorf("exit code = %d, want 3", res.Status.Code)
	}
}

func TestCapture_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	e := NewExecutor()
	def := shellDef(t, "pwd", "pwd", dir)

	res := e.Capture(context.Background(), def, time.Minute)

	if res.Status.Kind != check.StatusSuccess {
		t.Fatalf("expected success, got %s", res.Status)
	}
	if !strings.Contains(res.Stdout, dir) {
		t.Errorf("command did not run in %q: stdout %q", dir, res.Stdout)
	}
}

func TestCapture_Timeout(t *testing.T) {
	e := NewExecutor()
	def := shellDef(t, "slow", "echo partial; sleep 30", t.TempDir())

	start := time.Now()
	res := e.Capture(context.Background(), def, 300*time.Millisecond)
	elapsed := time.Since(start)

	if res.Status.Kind != check.StatusTimedOut {
		t.Fatalf("expected timed_out, got %s", res.Status)
	}
	if elapsed > 5*time.Second {
		t.Errorf("timeout took too long: %s", elapsed)
	}
	if !strings.Contains(res.Stdout, "partial") {
		t.Errorf("partial output not retained: %q", res.Stdout)
	}
}

func TestCapture_SpawnError(t *testing.T) {
	e := NewExecutor()
	def := check.Definition{
		Name:    "missing",
		Command: []string{"/nonexistent/definitely-not-a-binary"},
		Dir:     t.TempDir(),
	}

	res := e.Capture(context.Background(), def, time.Minute)

	if res.Status.Kind != check.StatusSpawnError {
		t.Fatalf("expected spawn_error, got %s", res.Status)
	}
	if res.Status.Cause == nil {
		t.Error("spawn error should carry a cause")
	}
}

func TestCapture_EmptyCommand(t *testing.T) {
	e := NewExecutor()
	res := e.Capture(context.Background(), check.Definition{Name: "empty"}, time.Minute)

	if res.Status.Kind != check.StatusSpawnError {
		t.Fatalf("expected spawn_error, got %s", res.Status)
	}
}

func TestCapture_DefaultTimeout(t *testing.T) {
	// timeout <= 0 must select the default bound, not run unbounded or
	// fail immediately.
	e := NewExecutor()
	def := shellDef(t, "quick", "true", t.TempDir())

	res := e.Capture(context.Background(), def, 0)

	if res.Status.Kind != check.StatusSuccess {
		t.Fatalf("expected success, got %s", res.Status)
	}
}

func TestStream_ExitAndInterrupt(t *testing.T) {
	e := NewExecutor()

	t.Run("clean_exit", func(t *testing.T) {
		def := shellDef(t, "stream-ok", "true", t.TempDir())
		res := e.Stream(context.Background(), def)
		if res.Status.Kind != check.StatusSuccess {
			t.Fatalf("expected success, got %s", res.Status)
		}
	})

	t.Run("nonzero_exit", func(t *testing.T) {
		def := shellDef(t, "stream-fail", "exit 7", t.TempDir())
		res := e.Stream(context.Background(), def)
		if res.Status.Kind != check.StatusFailure {
			t.Fatalf("expected failure, got %s", res.Status)
		}
		if res.Status.Code != 7 {
			t.Errorf("exit code = %d, want 7", res.Status.Code)
		}
	})

	t.Run("cancellation_returns_promptly", func(t *testing.T) {
		def := shellDef(t, "stream-slow", "sleep 60", t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan check.CommandResult, 1)
		go func() { done <- e.Stream(ctx, def) }()

		time.Sleep(200 * time.Millisecond)
		cancel()

		select {
		case res := <-done:
			// SIGTERM exit maps to 128+15.
			if res.Status.Kind != check.StatusFailure {
				t.Fatalf("expected failure after interrupt, got %s", res.Status)
			}
		case <-time.After(10 * time.Second):
			t.Fatal("Stream did not return after cancellation")
		}
	})

	t.Run("spawn_error", func(t *testing.T) {
		def := check.Definition{
			Name:    "stream-missing",
			Command: []string{"/nonexistent/definitely-not-a-binary"},
			Dir:     t.TempDir(),
		}
		res := e.Stream(context.Background(), def)
		if res.Status.Kind != check.StatusSpawnError {
			t.Fatalf("expected spawn_error, got %s", res.Status)
		}
	})
}

func TestExitCode_SignalConvention(t *testing.T) {
	e := NewExecutor()
	def := shellDef(t, "self-kill", "kill -TERM $$", t.TempDir())

	res := e.Capture(context.Background(), def, time.Minute)

	if res.Status.Kind != check.StatusFailure {
		t.Fatalf("expected failure, got %s", res.Status)
	}
	if res.Status.Code != 128+15 {
		t.Errorf("signal exit code = %d, want %d", res.Status.Code, 128+15)
	}
}

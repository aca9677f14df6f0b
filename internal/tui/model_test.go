package tui

import (
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handycomputer/voice-input-launcher/internal/check"
	"github.com/handycomputer/voice-input-launcher/internal/orchestrator"
	"github.com/handycomputer/voice-input-launcher/internal/process"
	"github.com/handycomputer/voice-input-launcher/internal/stats"
)

func testModel(t *testing.T, defs ...check.Definition) Model {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	orch := orchestrator.New(orchestrator.Config{
		Registry: check.NewRegistryWith(defs...),
		Executor: process.NewExecutor(),
		Logger:   logger,
	})
	return NewModel(orch, stats.NewDurations(), defs)
}

func shellDef(t *testing.T, name, script string) check.Definition {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	return check.Definition{
		Name:    name,
		Label:   name,
		Command: []string{"sh", "-c", script},
	}
}

func updateModel(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out, cmd
}

func keyMsg(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_CursorNavigation(t *testing.T) {
	m := testModel(t,
		check.Definition{Name: "one", Label: "One", Command: []string{"true"}},
		check.Definition{Name: "two", Label: "Two", Command: []string{"true"}},
	)

	if m.cursor != 0 {
		t.Fatalf("initial cursor = %d, want 0", m.cursor)
	}

	m, _ = updateModel(t, m, keyMsg("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor after j = %d, want 1", m.cursor)
	}

	// Does not run off the end.
	m, _ = updateModel(t, m, keyMsg("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor after second j = %d, want 1", m.cursor)
	}

	m, _ = updateModel(t, m, keyMsg("k"))
	if m.cursor != 0 {
		t.Fatalf("cursor after k = %d, want 0", m.cursor)
	}
}

func TestModel_QuitKeys(t *testing.T) {
	for _, key := range []string{"q", "esc"} {
		t.Run(key, func(t *testing.T) {
			m := testModel(t)
			var msg tea.KeyMsg
			if key == "esc" {
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			} else {
				msg = keyMsg(key)
			}
			m, cmd := updateModel(t, m, msg)
			if cmd == nil {
				t.Fatal("quit key returned nil command")
			}
			if !m.quitting {
				t.Fatal("quitting flag not set")
			}
			if m.View() != "" {
				t.Fatal("View after quit should be empty")
			}
		})
	}
}

func TestModel_ResultUpdatesListAndStatus(t *testing.T) {
	def := check.Definition{Name: "type-check", Label: "Type Check", Command: []string{"true"}}
	m := testModel(t, def)

	m, _ = updateModel(t, m, CheckStartedMsg{Name: "type-check"})
	if !m.running["type-check"] {
		t.Fatal("check not marked running after CheckStartedMsg")
	}

	res := check.CommandResult{
		CheckName: "type-check",
		Status:    check.Success(),
		Stdout:    "ok\n",
		Duration:  2 * time.Second,
	}
	m, _ = updateModel(t, m, CheckResultMsg{Result: res})

	if m.running["type-check"] {
		t.Fatal("check still marked running after result")
	}
	if got, ok := m.results["type-check"]; !ok || !got.Status.Success() {
		t.Fatalf("result not recorded: %+v", got)
	}
	if !strings.Contains(m.status, "passed") {
		t.Fatalf("status = %q, want mention of passed", m.status)
	}

	view := m.View()
	if !strings.Contains(view, "Type Check") {
		t.Fatalf("view missing check label:\n%s", view)
	}
	if !strings.Contains(view, "ok") {
		t.Fatalf("view missing captured output:\n%s", view)
	}
}

func TestModel_RejectionSetsStatus(t *testing.T) {
	m := testModel(t)
	m, _ = updateModel(t, m, checkRejectedMsg{Name: "rust-tests", Err: orchestrator.ErrCheckInFlight})
	if !strings.Contains(m.status, "already running") {
		t.Fatalf("status = %q, want already-running notice", m.status)
	}
}

func TestModel_SetDoneReportsAggregate(t *testing.T) {
	t.Run("all passed", func(t *testing.T) {
		m := testModel(t)
		s := check.NewSession(1)
		s.Add(check.CommandResult{CheckName: "a", Status: check.Success()})
		m, _ = updateModel(t, m, setDoneMsg{session: s})
		if m.status != "all checks passed" {
			t.Fatalf("status = %q", m.status)
		}
		if m.batch != nil {
			t.Fatal("batch not cleared")
		}
	})

	t.Run("one failed", func(t *testing.T) {
		m := testModel(t)
		s := check.NewSession(2)
		s.Add(check.CommandResult{CheckName: "a", Status: check.Success()})
		s.Add(check.CommandResult{CheckName: "b", Status: check.Failure(1)})
		m, _ = updateModel(t, m, setDoneMsg{session: s})
		if m.status != "some checks failed" {
			t.Fatalf("status = %q", m.status)
		}
	})
}

func TestModel_EnterRunsSelectedCheck(t *testing.T) {
	def := shellDef(t, "quick", "echo done")
	m := testModel(t, def)

	m, cmd := updateModel(t, m, keyMsg("enter"))
	if cmd == nil {
		t.Fatal("enter returned no command")
	}
	if !m.running["quick"] {
		t.Fatal("check not marked running")
	}

	msg := cmd()
	res, ok := msg.(CheckResultMsg)
	if !ok {
		t.Fatalf("command produced %T, want CheckResultMsg", msg)
	}
	if !res.Result.Status.Success() {
		t.Fatalf("check failed: %+v", res.Result)
	}

	m, _ = updateModel(t, m, res)
	if m.running["quick"] {
		t.Fatal("check still running after result")
	}
}

func TestModel_EnterWhileRunningIsRefused(t *testing.T) {
	def := check.Definition{Name: "slow", Label: "Slow", Command: []string{"true"}}
	m := testModel(t, def)
	m.running["slow"] = true

	m, cmd := updateModel(t, m, keyMsg("enter"))
	if cmd != nil {
		t.Fatal("enter on a running check should not dispatch")
	}
	if !strings.Contains(m.status, "already running") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestView_EmptyCatalog(t *testing.T) {
	m := testModel(t)
	view := m.View()
	if !strings.Contains(view, "no checks registered") {
		t.Fatalf("view missing empty notice:\n%s", view)
	}
}

func TestView_StatusGlyphs(t *testing.T) {
	defs := []check.Definition{
		{Name: "pass", Label: "Pass", Command: []string{"true"}},
		{Name: "fail", Label: "Fail", Command: []string{"false"}},
	}
	m := testModel(t, defs...)
	m.results["pass"] = check.CommandResult{CheckName: "pass", Status: check.Success(), Duration: time.Second}
	m.results["fail"] = check.CommandResult{CheckName: "fail", Status: check.Failure(2), Duration: time.Second}

	view := m.View()
	if !strings.Contains(view, "✓") {
		t.Fatalf("view missing pass glyph:\n%s", view)
	}
	if !strings.Contains(view, "✗") {
		t.Fatalf("view missing fail glyph:\n%s", view)
	}
	if !strings.Contains(view, "exit 2") {
		t.Fatalf("view missing exit code:\n%s", view)
	}
}

// Package tui implements the interactive test dashboard.
//
// The model owns a cursor over the check catalog and dispatches runs
// through the orchestrator. Results arrive as messages, one per
// completed check, so the list and output pane update live while
// commands execute in the background.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handycomputer/voice-input-launcher/internal/check"
	"github.com/handycomputer/voice-input-launcher/internal/orchestrator"
	"github.com/handycomputer/voice-input-launcher/internal/stats"
)

// CheckStartedMsg marks a check as running in the list.
type CheckStartedMsg struct {
	Name string
}

// CheckResultMsg carries a finished check's result back to the model.
type CheckResultMsg struct {
	Result check.CommandResult
}

// checkRejectedMsg reports that a run request was refused, typically
// because the check is already executing.
type checkRejectedMsg struct {
	Name string
	Err  error
}

// setDoneMsg fires when a run-all batch has fully settled.
type setDoneMsg struct {
	session *check.Session
}

// TickMsg drives the elapsed-time display while checks run.
type TickMsg time.Time

const tickInterval = 250 * time.Millisecond

// Model is the bubbletea model for the dashboard.
type Model struct {
	orch      *orchestrator.Orchestrator
	durations *stats.Durations
	defs      []check.Definition

	cursor  int
	results map[string]check.CommandResult
	running map[string]bool
	started map[string]time.Time

	// batch holds the session of an in-progress run-all, nil otherwise.
	batch *check.Session

	status   string
	width    int
	height   int
	quitting bool
}

// NewModel builds a dashboard over the given check catalog.
func NewModel(orch *orchestrator.Orchestrator, durations *stats.Durations, defs []check.Definition) Model {
	return Model{
		orch:      orch,
		durations: durations,
		defs:      defs,
		results:   make(map[string]check.CommandResult),
		running:   make(map[string]bool),
		started:   make(map[string]time.Time),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// runOneCmd starts a single check and blocks its command goroutine
// until the result is available.
func (m Model) runOneCmd(def check.Definition) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		h, err := orch.RunOne(context.Background(), def)
		if err != nil {
			return checkRejectedMsg{Name: def.Name, Err: err}
		}
		return CheckResultMsg{Result: h.Wait()}
	}
}

// runAllCmds dispatches the whole catalog concurrently. Each handle
// gets its own waiter command so results stream in as they land, and
// one more waits for the aggregate session.
func (m *Model) runAllCmds() []tea.Cmd {
	run := m.orch.RunConcurrentSet(context.Background(), m.defs)
	m.batch = run.Session()

	// Checks that were already in flight are rejected up front and
	// recorded straight into the session.
	for _, res := range run.Session().Results() {
		m.results[res.CheckName] = res
	}

	cmds := make([]tea.Cmd, 0, len(run.Handles())+1)
	for _, h := range run.Handles() {
		h := h
		cmds = append(cmds, func() tea.Msg {
			return CheckResultMsg{Result: h.Wait()}
		})
	}
	cmds = append(cmds, func() tea.Msg {
		return setDoneMsg{session: run.Wait()}
	})
	return cmds
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if m.quitting {
			return m, nil
		}
		return m, tickCmd()

	case CheckStartedMsg:
		m.running[msg.Name] = true
		m.started[msg.Name] = time.Now()
		return m, nil

	case CheckResultMsg:
		res := msg.Result
		delete(m.running, res.CheckName)
		m.results[res.CheckName] = res
		if m.batch == nil {
			if res.Status.Success() {
				m.status = res.CheckName + " passed"
			} else {
				m.status = res.CheckName + " " + res.Status.Kind.String()
			}
		}
		return m, nil

	case checkRejectedMsg:
		m.status = msg.Name + " is already running"
		return m, nil

	case setDoneMsg:
		m.batch = nil
		if msg.session.AllPassed() {
			m.status = "all checks passed"
		} else {
			m.status = "some checks failed"
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.defs)-1 {
			m.cursor++
		}
		return m, nil

	case "enter", " ":
		if len(m.defs) == 0 {
			return m, nil
		}
		def := m.defs[m.cursor]
		if m.running[def.Name] {
			m.status = def.Name + " is already running"
			return m, nil
		}
		m.running[def.Name] = true
		m.started[def.Name] = time.Now()
		m.status = "running " + def.Name
		return m, m.runOneCmd(def)

	case "a":
		if m.batch != nil {
			m.status = "a batch is already running"
			return m, nil
		}
		now := time.Now()
		for _, def := range m.defs {
			if !m.running[def.Name] {
				m.running[def.Name] = true
				m.started[def.Name] = now
			}
		}
		m.status = "running all checks"
		return m, tea.Batch(m.runAllCmds()...)

	case "c":
		if len(m.defs) == 0 {
			return m, nil
		}
		delete(m.results, m.defs[m.cursor].Name)
		m.status = "cleared " + m.defs[m.cursor].Name
		return m, nil
	}

	return m, nil
}

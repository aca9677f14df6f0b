package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/handycomputer/voice-input-launcher/internal/check"
)

const (
	minWidth   = 40
	outputTail = 12
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width < minWidth {
		width = minWidth
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Voice Input · Test Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(listStyle.Width(width - 4).Render(m.renderList()))
	b.WriteString("\n")
	b.WriteString(outputStyle.Width(width - 4).Render(m.renderOutput()))
	b.WriteString("\n")
	b.WriteString(statusBarStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter run · a run all · c clear · j/k move · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderList() string {
	if len(m.defs) == 0 {
		return dimStyle.Render("no checks registered")
	}

	rows := make([]string, 0, len(m.defs))
	for i, def := range m.defs {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		rows = append(rows, cursor+m.renderRow(def))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderRow(def check.Definition) string {
	glyph, note := m.checkState(def.Name)
	label := textStyle.Render(fmt.Sprintf("%-22s", def.Label))
	if note != "" {
		return fmt.Sprintf("%s %s %s", glyph, label, dimStyle.Render(note))
	}
	return fmt.Sprintf("%s %s", glyph, label)
}

// checkState returns the status glyph and a short annotation (elapsed
// time while running, duration and history once finished).
func (m Model) checkState(name string) (string, string) {
	if m.running[name] {
		elapsed := time.Since(m.started[name]).Round(time.Second)
		return runningStyle.Render("●"), fmt.Sprintf("running %s", elapsed)
	}

	res, ok := m.results[name]
	if !ok {
		return dimStyle.Render("·"), ""
	}

	note := res.Duration.Round(100 * time.Millisecond).String()
	if snap, ok := m.durations.Get(name); ok && snap.Count > 1 {
		note = fmt.Sprintf("%s  p50 %.1fs over %d runs", note, snap.P50.Seconds(), snap.Count)
	}

	switch res.Status.Kind {
	case check.StatusSuccess:
		return passStyle.Render("✓"), note
	case check.StatusTimedOut:
		return warnStyle.Render("!"), note + "  timed out"
	case check.StatusSpawnError:
		return failStyle.Render("✗"), "failed to start"
	default:
		return failStyle.Render("✗"), fmt.Sprintf("%s  exit %d", note, res.Status.Code)
	}
}

// renderOutput shows the tail of the selected check's captured output.
func (m Model) renderOutput() string {
	if len(m.defs) == 0 {
		return ""
	}
	name := m.defs[m.cursor].Name
	res, ok := m.results[name]
	if !ok {
		return dimStyle.Render("no output yet for " + name)
	}

	combined := strings.TrimRight(res.Stdout, "\n")
	if res.Stderr != "" {
		if combined != "" {
			combined += "\n"
		}
		combined += strings.TrimRight(res.Stderr, "\n")
	}
	if combined == "" {
		return dimStyle.Render("(no output)")
	}

	lines := strings.Split(combined, "\n")
	if len(lines) > outputTail {
		lines = lines[len(lines)-outputTail:]
	}
	if res.Status.Success() {
		return textStyle.Render(strings.Join(lines, "\n"))
	}
	return failStyle.Render(strings.Join(lines, "\n"))
}

// Package report renders batch-mode output: prerequisite findings,
// per-check pass/fail lines, and the session summary. The dashboard has
// its own renderer; this one is for plain terminal runs.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/handycomputer/voice-input-launcher/internal/check"
	"github.com/handycomputer/voice-input-launcher/internal/preflight"
)

// Reporter writes colored status lines to a terminal.
type Reporter struct {
	w io.Writer

	green  *color.Color
	yellow *color.Color
	red    *color.Color
	cyan   *color.Color
	bold   *color.Color
}

// New creates a Reporter writing to stdout.
func New() *Reporter {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter creates a Reporter writing to w. Tests pass a buffer.
func NewWithWriter(w io.Writer) *Reporter {
	return &Reporter{
		w:      w,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed),
		cyan:   color.New(color.FgCyan),
		bold:   color.New(color.Bold),
	}
}

// OK prints a green [OK] line.
func (r *Reporter) OK(format string, args ...any) {
	fmt.Fprintf(r.w, "  %s %s\n", r.green.Sprint("[OK]"), fmt.Sprintf(format, args...))
}

// Warn prints a yellow [!!] line.
func (r *Reporter) Warn(format string, args ...any) {
	fmt.Fprintf(r.w, "  %s %s\n", r.yellow.Sprint("[!!]"), fmt.Sprintf(format, args...))
}

// Err prints a red [ERR] line.
func (r *Reporter) Err(format string, args ...any) {
	fmt.Fprintf(r.w, "  %s %s\n", r.red.Sprint("[ERR]"), fmt.Sprintf(format, args...))
}

// Info prints a cyan [>>] line.
func (r *Reporter) Info(format string, args ...any) {
	fmt.Fprintf(r.w, "  %s %s\n", r.cyan.Sprint("[>>]"), fmt.Sprintf(format, args...))
}

// Header prints a bold section header.
func (r *Reporter) Header(title string) {
	rule := strings.Repeat("-", 60)
	fmt.Fprintf(r.w, "\n%s\n", r.cyan.Sprint(rule))
	fmt.Fprintf(r.w, "  %s\n", r.bold.Sprint(title))
	fmt.Fprintf(r.w, "%s\n", r.cyan.Sprint(rule))
}

// Preflight renders prerequisite findings with fix suggestions for
// anything required and missing.
func (r *Reporter) Preflight(result *preflight.Result) {
	r.Header("Checking Prerequisites")
	for _, p := range result.Probes {
		fmt.Fprintln(r.w, p.String())
		if !p.Present && !p.Optional {
			fmt.Fprintf(r.w, "    Fix: %s\n", preflight.SuggestFix(p.Name))
		}
	}
}

// CheckResult renders one check's terminal outcome. Captured output is
// shown only for non-passing checks; a passing check's output is noise.
func (r *Reporter) CheckResult(label string, res check.CommandResult) {
	switch res.Status.Kind {
	case check.StatusSuccess:
		r.OK("%s passed (%s)", label, res.Duration.Round(timePrecision(res)))
		return
	case check.StatusTimedOut:
		r.Warn("%s timed out after %s", label, res.Duration.Round(timePrecision(res)))
	case check.StatusSpawnError:
		r.Err("%s could not start: %v", label, res.Status.Cause)
	default:
		r.Err("%s failed (exit %d)", label, res.Status.Code)
	}

	if out := strings.TrimSpace(res.Stdout); out != "" {
		fmt.Fprintln(r.w, indent(out))
	}
	if out := strings.TrimSpace(res.Stderr); out != "" {
		fmt.Fprintln(r.w, indent(out))
	}
}

// Summary renders the per-check lines and the aggregate verdict for a
// completed session. labels maps check names to display labels.
func (r *Reporter) Summary(session *check.Session, labels map[string]string) {
	r.Header("Test Summary")

	for _, res := range session.Results() {
		label := labels[res.CheckName]
		if label == "" {
			label = res.CheckName
		}
		if res.Status.Success() {
			r.OK("%s", label)
		} else {
			r.Err("%s - %s", label, res.Status.String())
		}
	}

	fmt.Fprintln(r.w)
	if session.AllPassed() {
		fmt.Fprintf(r.w, "  %s\n", r.green.Add(color.Bold).Sprint("All checks passed!"))
	} else {
		fmt.Fprintf(r.w, "  %s\n", r.yellow.Add(color.Bold).Sprint("Some checks had issues."))
	}
}

// indent prefixes every line of s for nested display under a status line.
func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = "      " + line
	}
	return strings.Join(lines, "\n")
}

// timePrecision picks a rounding unit so short runs don't print as 0s.
func timePrecision(res check.CommandResult) time.Duration {
	if res.Duration < time.Second {
		return time.Millisecond
	}
	return 100 * time.Millisecond
}

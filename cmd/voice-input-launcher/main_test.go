package main

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/handycomputer/voice-input-launcher/internal/assets"
	"github.com/handycomputer/voice-input-launcher/internal/check"
	"github.com/handycomputer/voice-input-launcher/internal/config"
	"github.com/handycomputer/voice-input-launcher/internal/logging"
	"github.com/handycomputer/voice-input-launcher/internal/metrics"
	"github.com/handycomputer/voice-input-launcher/internal/orchestrator"
	"github.com/handycomputer/voice-input-launcher/internal/process"
	"github.com/handycomputer/voice-input-launcher/internal/report"
	"github.com/handycomputer/voice-input-launcher/internal/stats"
	"github.com/handycomputer/voice-input-launcher/internal/tui"
)

// testApp wires an app like newApp does, but with a private metrics
// registry and a captured reporter.
func testApp(t *testing.T, cfg *config.Config) (*app, *bytes.Buffer) {
	t.Helper()
	logger := logging.NewLoggerWithWriter(io.Discard, "text", "error")
	collector := metrics.NewCollectorWithRegistry(
		metrics.CollectorConfig{Version: "test"}, prometheus.NewRegistry())
	registry := check.NewRegistry(cfg.ProjectRoot, cfg.SrcTauriDir)
	durations := stats.NewDurations()

	var buf bytes.Buffer
	return &app{
		cfg:       cfg,
		logger:    logger,
		reporter:  report.NewWithWriter(&buf),
		registry:  registry,
		durations: durations,
		collector: collector,
		fetcher:   assets.NewFetcher(assets.Config{Logger: logger, Collector: collector}),
		orch: orchestrator.New(orchestrator.Config{
			Registry:     registry,
			Executor:     process.NewExecutor(),
			Logger:       logger,
			CheckTimeout: cfg.CheckTimeout,
			Collector:    collector,
			Durations:    durations,
		}),
	}, &buf
}

func TestRunMode_PrerequisitesGateBatchModes(t *testing.T) {
	for _, mode := range []config.Mode{config.ModeTest, config.ModeTestRust} {
		t.Run(mode.String(), func(t *testing.T) {
			// An empty PATH means every required tool probe fails.
			t.Setenv("PATH", t.TempDir())

			cfg := config.DefaultConfig(t.TempDir())
			cfg.Mode = mode
			a, buf := testApp(t, cfg)

			if got := a.runMode(context.Background()); got != 1 {
				t.Fatalf("exit code = %d, want 1 on missing tools", got)
			}
			out := buf.String()
			if !strings.Contains(out, "Missing required tools") {
				t.Errorf("missing abort message in:\n%s", out)
			}
			if strings.Contains(out, "Running checks") {
				t.Error("checks ran despite failed prerequisite scan")
			}
		})
	}
}

func TestRunMode_SkipChecksBypassesScanner(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	cfg := config.DefaultConfig(t.TempDir())
	cfg.Mode = config.ModeTest
	cfg.SkipChecks = true
	a, buf := testApp(t, cfg)

	// The checks themselves still fail to spawn without tools; the
	// point is that the scanner no longer stops the mode up front.
	a.runMode(context.Background())

	out := buf.String()
	if !strings.Contains(out, "Skipping prerequisite checks") {
		t.Errorf("skip notice missing in:\n%s", out)
	}
	if strings.Contains(out, "Missing required tools") {
		t.Errorf("scanner aborted despite --skip-checks:\n%s", out)
	}
	if !strings.Contains(out, "Running checks") {
		t.Errorf("batch run never started:\n%s", out)
	}
}

func TestDashboardOrchestrator_ForwardsStartEvents(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	cfg := config.DefaultConfig(t.TempDir())
	a, _ := testApp(t, cfg)

	var mu sync.Mutex
	var started []string
	orch := a.dashboardOrchestrator(func(msg tea.Msg) {
		m, ok := msg.(tui.CheckStartedMsg)
		if !ok {
			t.Errorf("unexpected message type %T", msg)
			return
		}
		mu.Lock()
		started = append(started, m.Name)
		mu.Unlock()
	})

	def := check.Definition{
		Name:    "quick",
		Label:   "Quick",
		Command: []string{"sh", "-c", "true"},
		Dir:     t.TempDir(),
	}
	h, err := orch.RunOne(context.Background(), def)
	if err != nil {
		t.Fatalf("RunOne: %v", err)
	}
	h.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(started) != 1 || started[0] != "quick" {
		t.Fatalf("start events = %v, want [quick]", started)
	}
}

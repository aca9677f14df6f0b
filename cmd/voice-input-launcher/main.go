// Package main provides the voice-input-launcher CLI entry point.
//
// voice-input-launcher builds and runs the Voice Input Tauri app for
// development, runs its check suite in batch mode, and hosts an
// interactive terminal dashboard for repeated check runs.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/handycomputer/voice-input-launcher/internal/assets"
	"github.com/handycomputer/voice-input-launcher/internal/check"
	"github.com/handycomputer/voice-input-launcher/internal/config"
	"github.com/handycomputer/voice-input-launcher/internal/logging"
	"github.com/handycomputer/voice-input-launcher/internal/metrics"
	"github.com/handycomputer/voice-input-launcher/internal/orchestrator"
	"github.com/handycomputer/voice-input-launcher/internal/preflight"
	"github.com/handycomputer/voice-input-launcher/internal/process"
	"github.com/handycomputer/voice-input-launcher/internal/report"
	"github.com/handycomputer/voice-input-launcher/internal/stats"
	"github.com/handycomputer/voice-input-launcher/internal/tui"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/voice-input-launcher
var version = "dev"

// metricsShutdownTimeout bounds the metrics server drain on exit.
const metricsShutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// Handle version flag early (before flag parsing)
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "-version" || arg == "--version" || arg == "version" {
			fmt.Printf("voice-input-launcher %s\n", version)
			return 0
		}
	}

	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	// When the dashboard is active, logs would corrupt the TUI frame.
	var logger *slog.Logger
	if cfg.Mode == config.ModeDashboard {
		logger = logging.NewLoggerWithWriter(io.Discard, "json", "info")
	} else {
		logger = logging.NewLogger(cfg.LogFormat, "info", cfg.Verbose)
	}
	logging.SetDefault(logger)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger.Info("starting",
		"version", version,
		"mode", cfg.Mode.String(),
		"project_root", cfg.ProjectRoot,
		"skip_checks", cfg.SkipChecks,
		"metrics_addr", cfg.MetricsAddr,
	)

	// Streaming launches run until interrupted.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := newApp(cfg, logger)
	defer app.shutdown()
	return app.runMode(ctx)
}

// runMode dispatches one invocation. Every mode passes the prerequisite
// scanner first (subject to --skip-checks); a missing required tool
// stops the run before anything is spawned.
func (a *app) runMode(ctx context.Context) int {
	switch a.cfg.Mode {
	case config.ModeTest:
		if !a.scan() {
			return 1
		}
		return a.runTests(ctx, a.registry.All())
	case config.ModeTestRust:
		if !a.scan() {
			return 1
		}
		return a.runTestsByName(ctx, check.RustTests)
	case config.ModeFrontend:
		return a.launchFrontend(ctx)
	case config.ModeDashboard:
		return a.runDashboard(ctx)
	default:
		return a.launchApp(ctx)
	}
}

// app wires the launcher's components for one invocation.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	reporter  *report.Reporter
	registry  *check.Registry
	orch      *orchestrator.Orchestrator
	fetcher   *assets.Fetcher
	durations *stats.Durations
	collector *metrics.Collector
	srv       *metrics.Server
}

func newApp(cfg *config.Config, logger *slog.Logger) *app {
	collector := metrics.NewCollector(metrics.CollectorConfig{Version: version})
	durations := stats.NewDurations()
	registry := check.NewRegistry(cfg.ProjectRoot, cfg.SrcTauriDir)

	a := &app{
		cfg:       cfg,
		logger:    logger,
		reporter:  report.New(),
		registry:  registry,
		durations: durations,
		collector: collector,
		fetcher: assets.NewFetcher(assets.Config{
			Logger:    logger,
			Collector: collector,
		}),
		orch: orchestrator.New(orchestrator.Config{
			Registry:     registry,
			Executor:     process.NewExecutor(),
			Logger:       logger,
			CheckTimeout: cfg.CheckTimeout,
			Collector:    collector,
			Durations:    durations,
		}),
	}

	if cfg.MetricsAddr != "" {
		a.srv = metrics.NewServer(cfg.MetricsAddr, logger)
		if err := a.srv.Start(); err != nil {
			logger.Error("metrics_server_failed", "error", err)
			a.srv = nil
		}
	}
	return a
}

func (a *app) shutdown() {
	if a.srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	if err := a.srv.Shutdown(ctx); err != nil {
		a.logger.Warn("metrics_shutdown_failed", "error", err)
	}
}

// labels maps check names to display labels for summaries.
func (a *app) labels() map[string]string {
	labels := make(map[string]string, a.registry.Len())
	for _, def := range a.registry.All() {
		labels[def.Name] = def.Label
	}
	return labels
}

// runTests executes defs sequentially and reports each result. Exit
// code 0 means every check passed.
func (a *app) runTests(ctx context.Context, defs []check.Definition) int {
	a.reporter.Header("Running checks")

	session := a.orch.RunAll(ctx, defs)
	labels := a.labels()
	for _, res := range session.Results() {
		label := labels[res.CheckName]
		if label == "" {
			label = res.CheckName
		}
		a.reporter.CheckResult(label, res)
	}
	a.reporter.Summary(session, labels)

	if session.AllPassed() {
		return 0
	}
	return 1
}

func (a *app) runTestsByName(ctx context.Context, name string) int {
	def, err := a.registry.Lookup(name)
	if err != nil {
		a.reporter.Err("%v", err)
		return 1
	}
	return a.runTests(ctx, []check.Definition{def})
}

// scan runs the prerequisite scanner, honoring --skip-checks. False
// means a required tool is missing and the mode must not proceed.
func (a *app) scan() bool {
	if a.cfg.SkipChecks {
		a.reporter.Warn("Skipping prerequisite checks (--skip-checks)")
		return true
	}
	result := preflight.RunAll(a.cfg.AssetPath)
	a.reporter.Preflight(result)
	if !result.Passed {
		a.reporter.Err("Missing required tools; aborting")
		return false
	}
	return true
}

// preflight is the launch-path gate: the scanner plus the model asset.
func (a *app) preflight(ctx context.Context) bool {
	if !a.scan() {
		return false
	}

	if err := a.fetcher.EnsurePresent(ctx, a.cfg.AssetPath, a.cfg.AssetURL); err != nil {
		a.reporter.Err("VAD model download failed: %v", err)
		a.reporter.Warn("Continuing without the model; voice detection will not work")
	}
	return true
}

// installDeps runs bun install in the project root before any launch.
func (a *app) installDeps(ctx context.Context) bool {
	a.reporter.Info("Installing dependencies...")
	res := a.orch.Launch(ctx, check.Definition{
		Name:    "bun-install",
		Label:   "Install dependencies",
		Command: []string{"bun", "install"},
		Dir:     a.cfg.ProjectRoot,
	})
	if !res.Status.Success() {
		a.reporter.Err("bun install failed (%s)", res.Status.Kind)
		return false
	}
	return true
}

// launchApp is the default mode: preflight, deps, model asset, then
// the full Tauri dev app streaming to this terminal.
func (a *app) launchApp(ctx context.Context) int {
	printBanner(a.cfg)

	if !a.preflight(ctx) {
		return 1
	}
	if !a.installDeps(ctx) {
		return 1
	}

	a.reporter.Info("Launching Tauri dev app (Ctrl+C to stop)...")
	res := a.orch.Launch(ctx, check.Definition{
		Name:    "tauri-dev",
		Label:   "Tauri dev app",
		Command: []string{"bun", "run", "tauri", "dev"},
		Dir:     a.cfg.ProjectRoot,
	})

	// Interrupt is a normal way to stop a dev server.
	if ctx.Err() != nil {
		a.reporter.Info("Stopped.")
		return 0
	}
	if !res.Status.Success() {
		a.reporter.Err("Tauri dev app exited with %s", res.Status.Kind)
		return 1
	}
	return 0
}

// launchFrontend runs only the Vite dev server.
func (a *app) launchFrontend(ctx context.Context) int {
	printBanner(a.cfg)

	if !a.scan() {
		return 1
	}
	if !a.installDeps(ctx) {
		return 1
	}

	a.reporter.Info("Launching frontend at %s (Ctrl+C to stop)...", a.cfg.ViteURL)
	res := a.orch.Launch(ctx, check.Definition{
		Name:    "vite-dev",
		Label:   "Vite dev server",
		Command: []string{"bun", "run", "dev"},
		Dir:     a.cfg.ProjectRoot,
	})

	if ctx.Err() != nil {
		a.reporter.Info("Stopped.")
		return 0
	}
	if !res.Status.Success() {
		a.reporter.Err("Vite dev server exited with %s", res.Status.Kind)
		return 1
	}
	return 0
}

// dashboardOrchestrator builds an orchestrator whose start events are
// forwarded to the TUI through send. Results travel back through the
// model's own handle waiters, so only the start hook is wired here.
func (a *app) dashboardOrchestrator(send func(msg tea.Msg)) *orchestrator.Orchestrator {
	return orchestrator.New(orchestrator.Config{
		Registry:     a.registry,
		Executor:     process.NewExecutor(),
		Logger:       a.logger,
		CheckTimeout: a.cfg.CheckTimeout,
		Collector:    a.collector,
		Durations:    a.durations,
		Callbacks: orchestrator.Callbacks{
			OnCheckStart: func(name string) {
				send(tui.CheckStartedMsg{Name: name})
			},
		},
	})
}

// runDashboard starts the interactive TUI after deps and the model
// asset are in place.
func (a *app) runDashboard(ctx context.Context) int {
	// Reporter output before the TUI takes the terminal is fine.
	if !a.preflight(ctx) {
		return 1
	}
	if !a.installDeps(ctx) {
		return 1
	}

	// The program doesn't exist until after the model (and so the
	// orchestrator) does, hence the indirection for start events.
	var prog atomic.Pointer[tea.Program]
	orch := a.dashboardOrchestrator(func(msg tea.Msg) {
		if p := prog.Load(); p != nil {
			p.Send(msg)
		}
	})

	model := tui.NewModel(orch, a.durations, a.registry.All())
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	prog.Store(p)
	if _, err := p.Run(); err != nil {
		a.reporter.Err("dashboard error: %v", err)
		return 1
	}
	return 0
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════╗")
	fmt.Println("║              Voice Input dev launcher                 ║")
	fmt.Println("╚═══════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Project:   %s\n", cfg.ProjectRoot)
	fmt.Printf("  Frontend:  %s\n", cfg.ViteURL)
	if cfg.MetricsAddr != "" {
		fmt.Printf("  Metrics:   http://%s/metrics\n", cfg.MetricsAddr)
	}
	fmt.Println()
}

package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses command-line flags on top of file/default values and
// returns a Config. Returns an error on conflicting mode flags.
func ParseFlags() (*Config, error) {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

// parseFlags is the testable core of ParseFlags.
func parseFlags(fs *flag.FlagSet, args []string) (*Config, error) {
	root, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining project root: %w", err)
	}
	// -root has to be known before defaults are derived and the config
	// file is searched, so it gets a pre-scan ahead of flag parsing.
	if override := rootOverride(args); override != "" {
		root = override
	}

	cfg := DefaultConfig(root)
	if err := LoadFile(cfg); err != nil {
		return nil, err
	}

	var frontend, test, testRust, dashboard bool

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `voice-input-launcher - Voice Input launcher & test dashboard

Usage:
  voice-input-launcher [flags]

Modes (default: launch the full Tauri dev app):
  --frontend      Launch frontend only (Vite dev server)
  --test          Run all checks; exit 0 iff all passed
  --test-rust     Run Rust tests only; same exit contract
  --dashboard     Launch the interactive terminal dashboard

Gates:
  --skip-checks   Skip prerequisite checks

Project:
  -root           Project root directory (default: working directory)
  -check-timeout  Per-check timeout in capturing mode

Observability:
  -metrics        Prometheus metrics address (empty = disabled)
  -v              Verbose logging
  -log-format     Log format: "json" or "text"

Examples:
  voice-input-launcher               Launch full Tauri app
  voice-input-launcher --test        Run all checks
  voice-input-launcher --dashboard   Launch the dashboard

`)
	}

	// Modes
	fs.BoolVar(&frontend, "frontend", false, "Launch frontend only (Vite dev server)")
	fs.BoolVar(&test, "test", false, "Run all checks")
	fs.BoolVar(&testRust, "test-rust", false, "Run Rust tests only")
	fs.BoolVar(&dashboard, "dashboard", false, "Launch the terminal dashboard")

	// Gates
	fs.BoolVar(&cfg.SkipChecks, "skip-checks", cfg.SkipChecks, "Skip prerequisite checks")

	// Project
	fs.StringVar(&cfg.ProjectRoot, "root", cfg.ProjectRoot, "Project root directory")
	fs.DurationVar(&cfg.CheckTimeout, "check-timeout", cfg.CheckTimeout, "Per-check timeout")

	// Observability
	fs.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Prometheus metrics address (empty = disabled)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, `Log format: "json" or "text"`)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.Mode, err = selectMode(frontend, test, testRust, dashboard)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// rootOverride scans args for a -root / --root value without consuming
// anything; the flag set still parses it properly afterwards.
func rootOverride(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return ""
		}
		name, value, hasEq := strings.Cut(args[i], "=")
		if name != "-root" && name != "--root" {
			continue
		}
		if hasEq {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// selectMode maps the mode flags onto a single Mode. More than one mode
// flag is an error rather than a silent priority order.
func selectMode(frontend, test, testRust, dashboard bool) (Mode, error) {
	var mode Mode
	count := 0
	for _, m := range []struct {
		set  bool
		mode Mode
	}{
		{frontend, ModeFrontend},
		{test, ModeTest},
		{testRust, ModeTestRust},
		{dashboard, ModeDashboard},
	} {
		if m.set {
			mode = m.mode
			count++
		}
	}

	switch count {
	case 0:
		return ModeLaunch, nil
	case 1:
		return mode, nil
	default:
		return ModeLaunch, errors.New("at most one of --frontend, --test, --test-rust, --dashboard may be given")
	}
}

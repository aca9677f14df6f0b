// Package config provides configuration management for the launcher.
//
// Precedence is defaults < config file < flags. The config file is
// optional; see LoadFile.
package config

import (
	"path/filepath"
	"time"
)

// Mode selects what the launcher does for one invocation.
type Mode int

const (
	// ModeLaunch builds and runs the full Tauri dev app (default).
	ModeLaunch Mode = iota

	// ModeFrontend runs only the Vite dev server.
	ModeFrontend

	// ModeTest runs the full check catalog in batch mode.
	ModeTest

	// ModeTestRust runs only the rust-tests check in batch mode.
	ModeTestRust

	// ModeDashboard starts the interactive terminal dashboard.
	ModeDashboard
)

// String returns the mode's flag-ish name.
func (m Mode) String() string {
	switch m {
	case ModeLaunch:
		return "launch"
	case ModeFrontend:
		return "frontend"
	case ModeTest:
		return "test"
	case ModeTestRust:
		return "test-rust"
	case ModeDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}

// Config holds all configuration options for the launcher.
type Config struct {
	// Mode selection
	Mode Mode `json:"mode"`

	// Project layout
	ProjectRoot string `json:"project_root"`
	SrcTauriDir string `json:"src_tauri_dir"`

	// Asset
	AssetURL  string `json:"asset_url"`
	AssetPath string `json:"asset_path"`

	// Check execution
	CheckTimeout time.Duration `json:"check_timeout"`

	// Frontend
	ViteURL string `json:"vite_url"`

	// Gates
	SkipChecks bool `json:"skip_checks"`

	// Observability
	MetricsAddr string `json:"metrics_addr"` // empty = disabled
	Verbose     bool   `json:"verbose"`
	LogFormat   string `json:"log_format"` // json, text
}

// DefaultConfig returns a Config with sensible defaults, rooted at root.
func DefaultConfig(root string) *Config {
	return &Config{
		Mode:         ModeLaunch,
		ProjectRoot:  root,
		SrcTauriDir:  filepath.Join(root, "src-tauri"),
		AssetURL:     "https://blob.handy.computer/silero_vad_v4.onnx",
		AssetPath:    filepath.Join(root, "src-tauri", "resources", "models", "silero_vad_v4.onnx"),
		CheckTimeout: 300 * time.Second,
		ViteURL:      "http://localhost:1420",
		SkipChecks:   false,
		MetricsAddr:  "",
		Verbose:      false,
		LogFormat:    "text",
	}
}

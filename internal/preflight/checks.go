// Package preflight probes the development environment before anything
// else runs: required toolchains, the optional runtime, and the on-disk
// VAD model asset. It only reports findings; callers decide whether a
// missing prerequisite aborts the run.
package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// versionProbeTimeout bounds each `tool --version` invocation.
const versionProbeTimeout = 10 * time.Second

// Probe is the result of checking one prerequisite.
type Probe struct {
	Name     string // Tool or resource name
	Present  bool   // Whether it was found
	Optional bool   // Missing + optional = warning, not failure
	Version  string // First line of `--version` output, if any
	Message  string // Additional context (path, size, install hint)
}

// String returns a human-readable summary line for the probe.
func (p Probe) String() string {
	status := "✓"
	if !p.Present {
		if p.Optional {
			status = "⚠"
		} else {
			status = "✗"
		}
	}

	if p.Version != "" {
		return fmt.Sprintf("  %s %s: %s", status, p.Name, p.Version)
	}
	return fmt.Sprintf("  %s %s: %s", status, p.Name, p.Message)
}

// Result holds all preflight findings. Passed is false iff any required
// probe found its target missing.
type Result struct {
	Probes []Probe
	Passed bool
}

// RunAll probes every prerequisite: rustc, cargo, and bun are required,
// node is optional, and the asset at assetPath is reported as a warning
// when absent (it can still be downloaded).
func RunAll(assetPath string) *Result {
	result := &Result{
		Probes: make([]Probe, 0, 5),
		Passed: true,
	}

	for _, tool := range []struct {
		name     string
		optional bool
		hint     string
	}{
		{"rustc", false, "install from https://rustup.rs/"},
		{"cargo", false, "install from https://rustup.rs/"},
		{"bun", false, "install from https://bun.sh/"},
		{"node", true, "optional, used by some tooling"},
	} {
		p := probeTool(tool.name, tool.optional, tool.hint)
		result.Probes = append(result.Probes, p)
		if !p.Present && !p.Optional {
			result.Passed = false
		}
	}

	result.Probes = append(result.Probes, probeAsset(assetPath))
	return result
}

// probeTool looks up name on PATH and captures its version line.
func probeTool(name string, optional bool, hint string) Probe {
	path, err := exec.LookPath(name)
	if err != nil {
		return Probe{
			Name:     name,
			Present:  false,
			Optional: optional,
			Message:  fmt.Sprintf("not found (%s)", hint),
		}
	}

	return Probe{
		Name:     name,
		Present:  true,
		Optional: optional,
		Version:  probeVersion(path),
		Message:  fmt.Sprintf("found at %s", path),
	}
}

// probeVersion runs `path --version` and returns the first output line.
// A tool that is present but won't report a version is still present.
func probeVersion(path string) string {
	ctx, cancel := context.WithTimeout(context.Background(), versionProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return "unknown version"
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	if line == "" {
		return "unknown version"
	}
	return line
}

// probeAsset reports whether the VAD model exists on disk. Absence is a
// warning, not a failure: the fetcher can download it.
func probeAsset(path string) Probe {
	info, err := os.Stat(path)
	if err != nil {
		return Probe{
			Name:     "vad_model",
			Present:  false,
			Optional: true,
			Message:  fmt.Sprintf("not found at %s (will attempt download)", path),
		}
	}

	return Probe{
		Name:    "vad_model",
		Present: true,
		Message: fmt.Sprintf("%s (%.1f MB)", path, float64(info.Size())/(1024*1024)),
	}
}

// SuggestFix returns an install suggestion for a failed probe.
func SuggestFix(name string) string {
	switch name {
	case "rustc", "cargo":
		return "install the Rust toolchain: https://rustup.rs/"
	case "bun":
		return "install Bun: https://bun.sh/"
	case "node":
		return "install Node.js: https://nodejs.org/"
	default:
		return "see documentation"
	}
}

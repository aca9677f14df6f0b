// Package check defines the check catalog and the data model for check
// execution results.
//
// A check is a named external command with a fixed working directory
// (for example "rust-tests" = `cargo test --lib` in the src-tauri
// directory). Checks are defined once at startup and never mutated.
package check

import (
	"fmt"
	"time"
)

// Definition is a named, reusable command + working-directory pair.
// Definitions are immutable and shared process-wide.
type Definition struct {
	// Name uniquely identifies the check (e.g. "rust-tests").
	Name string

	// Label is the human-readable name shown in reports and the dashboard.
	Label string

	// Command is the executable followed by its arguments. Never empty.
	Command []string

	// Dir is the working directory the command runs in. The registry
	// encodes this explicitly for every entry; it is never inferred
	// from the command text.
	Dir string
}

// StatusKind classifies the outcome of one command execution.
type StatusKind int

const (
	// StatusSuccess means the process ran and exited zero.
	StatusSuccess StatusKind = iota

	// StatusFailure means the process ran and exited nonzero.
	StatusFailure

	// StatusTimedOut means the process was killed after exceeding its
	// allotted duration.
	StatusTimedOut

	// StatusSpawnError means the process could not be started at all
	// (missing binary, permission); no process ever ran.
	StatusSpawnError
)

// String returns the lowercase name of the status kind.
func (k StatusKind) String() string {
	switch k {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusTimedOut:
		return "timed_out"
	case StatusSpawnError:
		return "spawn_error"
	default:
		return "unknown"
	}
}

// ExitStatus is the classified outcome of one execution. Exactly one
// variant applies: Success implies a zero exit code and no timeout.
type ExitStatus struct {
	Kind StatusKind

	// Code is the process exit code. Meaningful for StatusFailure
	// (nonzero) and StatusSuccess (always 0).
	Code int

	// Cause is set only for StatusSpawnError.
	Cause error
}

// Success reports whether the execution completed cleanly with exit code 0.
func (s ExitStatus) Success() bool {
	return s.Kind == StatusSuccess
}

// String returns a short human-readable form, e.g. "failure (exit 2)".
func (s ExitStatus) String() string {
	switch s.Kind {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return fmt.Sprintf("failure (exit %d)", s.Code)
	case StatusTimedOut:
		return "timed out"
	case StatusSpawnError:
		return fmt.Sprintf("spawn error: %v", s.Cause)
	default:
		return "unknown"
	}
}

// Success returns the ExitStatus for a clean zero exit.
func Success() ExitStatus {
	return ExitStatus{Kind: StatusSuccess}
}

// Failure returns the ExitStatus for a nonzero exit with the given code.
func Failure(code int) ExitStatus {
	return ExitStatus{Kind: StatusFailure, Code: code}
}

// TimedOut returns the ExitStatus for a timeout kill.
func TimedOut() ExitStatus {
	return ExitStatus{Kind: StatusTimedOut}
}

// SpawnError returns the ExitStatus for a failed process start.
func SpawnError(cause error) ExitStatus {
	return ExitStatus{Kind: StatusSpawnError, Cause: cause}
}

// CommandResult is the outcome of one executed command. It is produced
// exactly once per execution and immutable afterward.
type CommandResult struct {
	CheckName string
	Status    ExitStatus

	// Stdout and Stderr hold output captured up to completion or, on
	// timeout, up to termination. Empty in streaming mode.
	Stdout string
	Stderr string

	Duration time.Duration
}

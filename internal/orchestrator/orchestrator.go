// Package orchestrator schedules check executions and aggregates their
// results into sessions.
//
// Batch mode runs checks strictly one after another in the order given.
// Interactive mode runs checks individually or as a concurrent set, one
// worker per in-flight check, and enforces at most one active execution
// per check name so the interactive surface cannot double-start a check.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/handycomputer/voice-input-launcher/internal/check"
	"github.com/handycomputer/voice-input-launcher/internal/metrics"
	"github.com/handycomputer/voice-input-launcher/internal/process"
	"github.com/handycomputer/voice-input-launcher/internal/stats"
)

// ErrCheckInFlight is returned when a check is started while a previous
// execution of the same check is still running.
var ErrCheckInFlight = errors.New("check already running")

// Callbacks contains optional callback functions for check lifecycle
// events. Callbacks run on the worker that executed the check.
type Callbacks struct {
	// OnCheckStart is called just before a check's process is spawned.
	OnCheckStart func(name string)

	// OnCheckResult is called with the terminal result of a check.
	OnCheckResult func(res check.CommandResult)
}

// Config holds construction options for an Orchestrator.
type Config struct {
	Registry *check.Registry
	Executor *process.Executor
	Logger   *slog.Logger

	// CheckTimeout bounds each capturing execution. Zero selects the
	// executor's default.
	CheckTimeout time.Duration

	// Collector, when set, records run counts and durations.
	Collector *metrics.Collector

	// Durations, when set, tracks per-check duration percentiles.
	Durations *stats.Durations

	Callbacks Callbacks
}

// Orchestrator runs checks through the Command Executor and collects
// their results. The registry it reads is immutable; the only mutable
// state is the in-flight set guarding per-check concurrency.
type Orchestrator struct {
	registry  *check.Registry
	executor  *process.Executor
	logger    *slog.Logger
	timeout   time.Duration
	collector *metrics.Collector
	durations *stats.Durations
	callbacks Callbacks

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// New creates an Orchestrator from cfg. Registry and Executor are
// required; a nil Logger falls back to slog.Default().
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		registry:  cfg.Registry,
		executor:  cfg.Executor,
		logger:    logger,
		timeout:   cfg.CheckTimeout,
		collector: cfg.Collector,
		durations: cfg.Durations,
		callbacks: cfg.Callbacks,
		inFlight:  make(map[string]struct{}),
	}
}

// Registry returns the check catalog this orchestrator runs from.
func (o *Orchestrator) Registry() *check.Registry {
	return o.registry
}

// RunAll executes defs strictly one after another, in the order given,
// and returns the completed session. A failing check never aborts its
// siblings. An empty defs slice yields an immediately complete,
// vacuously passing session.
func (o *Orchestrator) RunAll(ctx context.Context, defs []check.Definition) *check.Session {
	session := check.NewSession(len(defs))

	for _, def := range defs {
		if err := o.acquire(def.Name); err != nil {
			session.Add(check.CommandResult{
				CheckName: def.Name,
				Status:    check.SpawnError(err),
			})
			continue
		}
		res := o.runOnce(ctx, def)
		o.release(def.Name)
		session.Add(res)
	}

	o.logger.Info("batch_complete",
		"checks", len(defs),
		"all_passed", session.AllPassed(),
	)
	return session
}

// RunByName looks up name in the registry and runs it in batch mode as a
// single-check session. Returns the registry's unknown-check error
// without spawning anything if the name is absent.
func (o *Orchestrator) RunByName(ctx context.Context, name string) (*check.Session, error) {
	def, err := o.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	return o.RunAll(ctx, []check.Definition{def}), nil
}

// RunOne starts def on a worker and immediately returns a handle that
// delivers the single CommandResult when the check completes. Returns
// ErrCheckInFlight if the same check is already running.
func (o *Orchestrator) RunOne(ctx context.Context, def check.Definition) (*Handle, error) {
	if err := o.acquire(def.Name); err != nil {
		return nil, err
	}

	h := newHandle(def.Name)
	go func() {
		defer o.release(def.Name)
		h.finish(o.runOnce(ctx, def))
	}()
	return h, nil
}

// RunConcurrentSet schedules every def to run concurrently and returns a
// SetRun aggregating the individually arriving results. Checks are
// independent: one failing or timing out never cancels the others. The
// aggregate session is complete only once all scheduled checks have
// reported, regardless of completion order.
func (o *Orchestrator) RunConcurrentSet(ctx context.Context, defs []check.Definition) *SetRun {
	run := newSetRun(len(defs))

	for _, def := range defs {
		def := def
		if err := o.acquire(def.Name); err != nil {
			run.deliver(check.CommandResult{
				CheckName: def.Name,
				Status:    check.SpawnError(err),
			})
			continue
		}
		h := newHandle(def.Name)
		run.track(h)
		go func() {
			defer o.release(def.Name)
			res := o.runOnce(ctx, def)
			h.finish(res)
			run.deliver(res)
		}()
	}

	return run
}

// Launch runs def in streaming mode, blocking until the child exits or
// ctx is cancelled. Used for the unbounded dev-server commands.
func (o *Orchestrator) Launch(ctx context.Context, def check.Definition) check.CommandResult {
	o.logger.Info("launch_starting", "name", def.Name, "dir", def.Dir)
	if o.collector != nil {
		o.collector.RecordLaunch(def.Name)
	}

	res := o.executor.Stream(ctx, def)

	o.logger.Info("launch_exited",
		"name", def.Name,
		"status", res.Status.String(),
		"duration", res.Duration.String(),
	)
	return res
}

// runOnce executes one check in capturing mode and notifies observers.
func (o *Orchestrator) runOnce(ctx context.Context, def check.Definition) check.CommandResult {
	if o.callbacks.OnCheckStart != nil {
		o.callbacks.OnCheckStart(def.Name)
	}
	if o.collector != nil {
		o.collector.CheckStarted()
	}
	o.logger.Info("check_starting", "name", def.Name, "dir", def.Dir)

	res := o.executor.Capture(ctx, def, o.timeout)

	o.logger.Info("check_finished",
		"name", def.Name,
		"status", res.Status.String(),
		"duration", res.Duration.String(),
	)

	if o.collector != nil {
		o.collector.RecordCheck(def.Name, res.Status, res.Duration)
	}
	if o.durations != nil {
		o.durations.Record(def.Name, res.Duration)
	}
	if o.callbacks.OnCheckResult != nil {
		o.callbacks.OnCheckResult(res)
	}
	return res
}

// acquire claims the per-check execution slot.
func (o *Orchestrator) acquire(name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, active := o.inFlight[name]; active {
		return fmt.Errorf("%w: %s", ErrCheckInFlight, name)
	}
	o.inFlight[name] = struct{}{}
	return nil
}

func (o *Orchestrator) release(name string) {
	o.mu.Lock()
	delete(o.inFlight, name)
	o.mu.Unlock()
}

// Active reports whether name currently has an in-flight execution.
func (o *Orchestrator) Active(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, active := o.inFlight[name]
	return active
}

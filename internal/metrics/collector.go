// Package metrics provides Prometheus metrics for the launcher.
//
// Check executions, asset fetches, and launch lifecycles are counted
// here; the dashboard and launch modes expose them over HTTP via Server.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/handycomputer/voice-input-launcher/internal/check"
)

// CollectorConfig holds construction options for a Collector.
type CollectorConfig struct {
	// Version is exported as a label on the info gauge.
	Version string
}

// Collector records launcher metrics. Safe for concurrent use.
type Collector struct {
	info           *prometheus.GaugeVec
	checksRun      *prometheus.CounterVec
	checkDuration  *prometheus.HistogramVec
	checksInFlight prometheus.Gauge
	assetFetches   *prometheus.CounterVec
	launches       *prometheus.CounterVec

	mu        sync.Mutex
	runs      int64
	failures  int64
	startTime time.Time
}

// NewCollector creates a Collector registered on the default registry.
func NewCollector(cfg CollectorConfig) *Collector {
	return NewCollectorWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewCollectorWithRegistry creates a Collector on a custom registry.
// Tests use this to avoid duplicate-registration panics.
func NewCollectorWithRegistry(cfg CollectorConfig, registry prometheus.Registerer) *Collector {
	c := &Collector{
		info: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "launcher_info",
				Help: "Information about the launcher (value always 1)",
			},
			[]string{"version"},
		),
		checksRun: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_checks_run_total",
				Help: "Check executions by name and outcome",
			},
			[]string{"name", "status"},
		),
		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "launcher_check_duration_seconds",
				Help:    "Check execution duration in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
			},
			[]string{"name"},
		),
		checksInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "launcher_checks_in_flight",
				Help: "Checks currently executing",
			},
		),
		assetFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_asset_fetches_total",
				Help: "Asset fetch attempts by transport and result",
			},
			[]string{"transport", "result"},
		),
		launches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launcher_launches_total",
				Help: "Streaming launch commands by name",
			},
			[]string{"name"},
		),
		startTime: time.Now(),
	}

	registry.MustRegister(
		c.info,
		c.checksRun,
		c.checkDuration,
		c.checksInFlight,
		c.assetFetches,
		c.launches,
	)

	c.info.WithLabelValues(cfg.Version).Set(1)
	return c
}

// CheckStarted marks one check as in flight.
func (c *Collector) CheckStarted() {
	c.checksInFlight.Inc()
}

// RecordCheck records the terminal outcome of one check execution and
// balances the in-flight gauge.
func (c *Collector) RecordCheck(name string, status check.ExitStatus, duration time.Duration) {
	c.checksInFlight.Dec()
	c.checksRun.WithLabelValues(name, status.Kind.String()).Inc()
	c.checkDuration.WithLabelValues(name).Observe(duration.Seconds())

	c.mu.Lock()
	c.runs++
	if !status.Success() {
		c.failures++
	}
	c.mu.Unlock()
}

// RecordAssetFetch records one fetch attempt for a transport ("curl" or
// "http") with result "ok" or "error".
func (c *Collector) RecordAssetFetch(transport, result string) {
	c.assetFetches.WithLabelValues(transport, result).Inc()
}

// RecordLaunch records one streaming launch by name.
func (c *Collector) RecordLaunch(name string) {
	c.launches.WithLabelValues(name).Inc()
}

// Runs returns the total check executions recorded.
func (c *Collector) Runs() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

// Failures returns the total non-success executions recorded.
func (c *Collector) Failures() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures
}

// Uptime returns time since the collector was created.
func (c *Collector) Uptime() time.Duration {
	return time.Since(c.startTime)
}

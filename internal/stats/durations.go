// Package stats tracks check duration distributions across repeated runs.
//
// The dashboard keeps the process alive for many executions of the same
// check, so percentiles over those runs are worth showing. Durations are
// fed into one T-Digest per check (~100 centroids each).
package stats

import (
	"sync"
	"time"

	"github.com/influxdata/tdigest"
)

// Snapshot summarizes the recorded durations for one check.
type Snapshot struct {
	Name  string
	Count int64
	Last  time.Duration
	P50   time.Duration
	P95   time.Duration
}

// Durations aggregates per-check execution durations. Safe for
// concurrent use.
type Durations struct {
	mu      sync.Mutex
	digests map[string]*tdigest.TDigest
	counts  map[string]int64
	last    map[string]time.Duration
}

// NewDurations creates an empty tracker.
func NewDurations() *Durations {
	return &Durations{
		digests: make(map[string]*tdigest.TDigest),
		counts:  make(map[string]int64),
		last:    make(map[string]time.Duration),
	}
}

// Record adds one execution duration for name.
func (d *Durations) Record(name string, duration time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	td, ok := d.digests[name]
	if !ok {
		td = tdigest.NewWithCompression(100)
		d.digests[name] = td
	}
	td.Add(float64(duration.Nanoseconds()), 1)
	d.counts[name]++
	d.last[name] = duration
}

// Get returns the snapshot for name and whether any run was recorded.
func (d *Durations) Get(name string) (Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	td, ok := d.digests[name]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Name:  name,
		Count: d.counts[name],
		Last:  d.last[name],
		P50:   time.Duration(td.Quantile(0.50)),
		P95:   time.Duration(td.Quantile(0.95)),
	}, true
}

// Count returns the number of recorded runs for name.
func (d *Durations) Count(name string) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[name]
}

package assets

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// BackoffConfig shapes the delay between HTTP retry attempts.
type BackoffConfig struct {
	Initial    time.Duration // first delay (default: 500ms)
	Max        time.Duration // delay cap (default: 8s)
	Multiplier float64       // growth per attempt (default: 2.0)
	JitterPct  float64       // jitter as a fraction of the delay (default: 0.4 = ±20%)
}

// DefaultBackoffConfig returns delays suited to a blob-store download.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		Initial:    500 * time.Millisecond,
		Max:        8 * time.Second,
		Multiplier: 2.0,
		JitterPct:  0.4,
	}
}

// backoff computes jittered exponential delays between download retries.
type backoff struct {
	config   BackoffConfig
	attempts int
	rng      *rand.Rand
}

func newBackoff(cfg BackoffConfig) *backoff {
	return &backoff{
		config: cfg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// next returns the delay before the following attempt and advances the
// attempt counter.
func (b *backoff) next() time.Duration {
	delay := float64(b.config.Initial) * math.Pow(b.config.Multiplier, float64(b.attempts))
	if delay > float64(b.config.Max) {
		delay = float64(b.config.Max)
	}

	if b.config.JitterPct > 0 {
		jitterRange := delay * b.config.JitterPct
		delay += jitterRange*b.rng.Float64() - jitterRange/2
	}
	if delay < 0 {
		delay = 0
	}

	b.attempts++
	return time.Duration(delay)
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

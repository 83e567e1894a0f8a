package app

import (
	"context"
	"math/rand"
	"time"
)

// Default backoff configuration values for source polling.
const (
	DefaultPollInitial = 10 * time.Millisecond
	DefaultPollMax     = 250 * time.Millisecond
)

// backoff implements exponential backoff with jitter. The pumps use it to
// space out retries while a source reports no data or transient errors.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

// newBackoff creates a new backoff with the given initial and max durations.
func newBackoff(initial, max time.Duration) *backoff {
	if initial <= 0 {
		initial = DefaultPollInitial
	}
	if max < initial {
		max = initial
	}
	return &backoff{
		initial: initial,
		max:     max,
		current: initial,
	}
}

// Wait sleeps for the current backoff duration, then doubles it.
// Returns ctx.Err() if the context ends first.
func (b *backoff) Wait(ctx context.Context) error {
	// jitter ±20%
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	t := time.NewTimer(time.Duration(float64(b.current) + jitter))
	defer t.Stop()

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Reset resets the backoff to the initial duration.
func (b *backoff) Reset() {
	b.current = b.initial
}

// Current returns the current backoff duration.
func (b *backoff) Current() time.Duration {
	return b.current
}

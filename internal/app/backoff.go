package app

import (
	"context"
	"math/rand"
	"time"
)

// Default backoff configuration values.
const (
	DefaultBackoffInitial = 500 * time.Millisecond
	DefaultBackoffMax     = 10 * time.Second
)

// backoff implements exponential backoff with jitter between failed pushes.
type backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{
		initial: initial,
		max:     max,
		current: initial,
	}
}

// Sleep waits for the current backoff duration (±20% jitter) or until the
// context is canceled, then doubles the duration up to max.
func (b *backoff) Sleep(ctx context.Context) {
	jitter := float64(b.current) * 0.2 * (rand.Float64()*2 - 1)
	wait := time.Duration(float64(b.current) + jitter)

	select {
	case <-ctx.Done():
	case <-time.After(wait):
	}

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
}

// Reset restores the initial duration after a successful push.
func (b *backoff) Reset() {
	b.current = b.initial
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Pacer is a request pacing policy. Wait blocks until the next request may
// be sent and returns how long it waited.
type Pacer interface {
	Wait(ctx context.Context) (time.Duration, error)
}

// NoDelay never waits.
type NoDelay struct{}

// Wait returns immediately.
func (NoDelay) Wait(ctx context.Context) (time.Duration, error) {
	return 0, ctx.Err()
}

// Interval spaces requests at least a fixed duration apart.
type Interval struct {
	limiter *rate.Limiter
}

// NewInterval returns a pacer allowing one request per every. A non-positive
// every disables pacing.
func NewInterval(every time.Duration) *Interval {
	limit := rate.Inf
	if every > 0 {
		limit = rate.Every(every)
	}
	return &Interval{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the limiter grants the next request.
func (p *Interval) Wait(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := p.limiter.Wait(ctx); err != nil {
		return time.Since(start), err
	}
	return time.Since(start), nil
}

// RandomDelay sleeps for a duration drawn uniformly from [Min, Max] before
// every request.
type RandomDelay struct {
	Min, Max time.Duration

	// Rand returns a value in [0, 1). Defaults to math/rand.Float64.
	Rand func() float64

	// Sleep waits for d or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRandomDelay returns a RandomDelay over [min, max]. Bounds given in the
// wrong order are swapped.
func NewRandomDelay(min, max time.Duration) *RandomDelay {
	if max < min {
		min, max = max, min
	}
	return &RandomDelay{Min: min, Max: max}
}

// Next draws the next delay without sleeping.
func (p *RandomDelay) Next() time.Duration {
	if p.Max <= p.Min {
		return p.Min
	}
	f := rand.Float64
	if p.Rand != nil {
		f = p.Rand
	}
	return p.Min + time.Duration(f()*float64(p.Max-p.Min))
}

// Wait sleeps for the next drawn delay.
func (p *RandomDelay) Wait(ctx context.Context) (time.Duration, error) {
	d := p.Next()
	if d <= 0 {
		return 0, ctx.Err()
	}
	sleep := sleepContext
	if p.Sleep != nil {
		sleep = p.Sleep
	}
	return d, sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

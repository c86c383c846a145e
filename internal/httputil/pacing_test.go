// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomDelay_DrawsWithinBounds(t *testing.T) {
	tests := []struct {
		name string
		r    float64
		want time.Duration
	}{
		{"lower bound", 0, 5 * time.Second},
		{"midpoint", 0.5, 7500 * time.Millisecond},
		{"near upper bound", 0.999, 5*time.Second + time.Duration(0.999*float64(5*time.Second))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var slept time.Duration
			p := NewRandomDelay(5*time.Second, 10*time.Second)
			p.Rand = func() float64 { return tt.r }
			p.Sleep = func(_ context.Context, d time.Duration) error {
				slept = d
				return nil
			}

			got, err := p.Wait(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, slept)
		})
	}
}

func TestRandomDelay_DefaultRandStaysInRange(t *testing.T) {
	p := NewRandomDelay(5*time.Second, 10*time.Second)
	for i := 0; i < 1000; i++ {
		d := p.Next()
		assert.GreaterOrEqual(t, d, 5*time.Second)
		assert.LessOrEqual(t, d, 10*time.Second)
	}
}

func TestRandomDelay_SwappedBounds(t *testing.T) {
	p := NewRandomDelay(10*time.Second, 5*time.Second)
	assert.Equal(t, 5*time.Second, p.Min)
	assert.Equal(t, 10*time.Second, p.Max)
}

func TestRandomDelay_ContextCancelled(t *testing.T) {
	p := NewRandomDelay(time.Hour, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRandomDelay_ZeroIsImmediate(t *testing.T) {
	p := NewRandomDelay(0, 0)
	d, err := p.Wait(context.Background())
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestInterval_SpacesRequests(t *testing.T) {
	p := NewInterval(30 * time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := p.Wait(context.Background())
		require.NoError(t, err)
	}
	// The first request is free; the next two wait one interval each.
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestInterval_DisabledDoesNotWait(t *testing.T) {
	p := NewInterval(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		_, err := p.Wait(context.Background())
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), time.Second)
}

func TestNoDelay(t *testing.T) {
	d, err := NoDelay{}.Wait(context.Background())
	require.NoError(t, err)
	assert.Zero(t, d)
}

package fetcher

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPacer_SpacesRequestStarts(t *testing.T) {
	const delay = 60 * time.Millisecond
	pacer := NewPacer(delay)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, pacer.Wait(ctx))
	assert.Less(t, time.Since(start), delay/2, "the first request does not wait")

	// Time spent on the previous request counts towards the delay.
	time.Sleep(delay / 2)
	require.NoError(t, pacer.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), delay-10*time.Millisecond)
}

func TestNewPacer_NonPositiveDelayNeverWaits(t *testing.T) {
	pacer := NewPacer(0)
	start := time.Now()
	for i := 0; i < 50; i++ {
		require.NoError(t, pacer.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestNewPacer_HonoursCancellation(t *testing.T) {
	pacer := NewPacer(time.Hour)
	require.NoError(t, pacer.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, pacer.Wait(ctx))
}

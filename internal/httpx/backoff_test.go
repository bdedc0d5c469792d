package httpx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoffGrowthAndCap(t *testing.T) {
	b := NewBackoff(100*time.Millisecond, time.Second, 0)

	require.Equal(t, 100*time.Millisecond, b.ForAttempt(0))
	require.Equal(t, 200*time.Millisecond, b.ForAttempt(1))
	require.Equal(t, 400*time.Millisecond, b.ForAttempt(2))
	require.Equal(t, 800*time.Millisecond, b.ForAttempt(3))
	require.Equal(t, time.Second, b.ForAttempt(4))
	require.Equal(t, time.Second, b.ForAttempt(60))
}

func TestBackoffJitterBounds(t *testing.T) {
	b := NewBackoff(time.Second, 10*time.Second, 0.5)
	for i := 0; i < 100; i++ {
		d := b.ForAttempt(0)
		require.GreaterOrEqual(t, d, 500*time.Millisecond)
		require.LessOrEqual(t, d, 1500*time.Millisecond)
	}
}

func TestBackoffDefaults(t *testing.T) {
	b := NewBackoff(0, 0, -1)
	require.Equal(t, 50*time.Millisecond, b.BaseDelay)
	require.Equal(t, time.Second, b.MaxDelay)
	require.Zero(t, b.Jitter)
}

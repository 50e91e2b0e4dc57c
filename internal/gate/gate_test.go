package gate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandom_Deterministic(t *testing.T) {
	ctx := context.Background()
	g := &Random{Rate: 0.1, Source: func() float64 { return 0.05 }}
	require.False(t, g.Available(ctx))

	g.Source = func() float64 { return 0.1 }
	require.True(t, g.Available(ctx))

	g.Source = func() float64 { return 0.99 }
	require.True(t, g.Available(ctx))
}

func TestRandom_ZeroRateAlwaysAvailable(t *testing.T) {
	g := NewRandom(0)
	for i := 0; i < 100; i++ {
		require.True(t, g.Available(context.Background()))
	}
}

func TestRandom_FullRateNeverAvailable(t *testing.T) {
	g := NewRandom(1)
	for i := 0; i < 100; i++ {
		require.False(t, g.Available(context.Background()))
	}
}

func TestFixed(t *testing.T) {
	require.True(t, Always.Available(context.Background()))
	require.False(t, Never.Available(context.Background()))
}

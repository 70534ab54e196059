package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Replicate(t *testing.T) {
	// Every day: Good, demand 80 → profit 1190 at X=70.
	e := newEngine(t, NewSequenceSource(0.10, 0.50))

	summary, err := e.Replicate(70, 30, 4)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Iterations)
	assert.Equal(t, []int{35700, 35700, 35700, 35700}, summary.TotalProfits)
	assert.Equal(t, 35700.0, summary.AvgTotalProfit)
	assert.Equal(t, 1190.0, summary.AvgDailyProfit)
	assert.Equal(t, 35700, summary.MinTotalProfit)
	assert.Equal(t, 35700, summary.MaxTotalProfit)
}

func TestEngine_Replicate_Spread(t *testing.T) {
	e := newEngine(t, NewSource(5, 5))

	summary, err := e.Replicate(70, 30, 50)
	require.NoError(t, err)

	require.Len(t, summary.TotalProfits, 50)
	assert.LessOrEqual(t, float64(summary.MinTotalProfit), summary.AvgTotalProfit)
	assert.GreaterOrEqual(t, float64(summary.MaxTotalProfit), summary.AvgTotalProfit)
	assert.InDelta(t, summary.AvgTotalProfit/30, summary.AvgDailyProfit, 1e-9)
}

func TestEngine_Replicate_InvalidArguments(t *testing.T) {
	e := newEngine(t, NewSource(1, 1))

	_, err := e.Replicate(70, 30, 0)
	assert.ErrorIs(t, err, ErrInvalidIterations)

	_, err = e.Replicate(70, 0, 3)
	assert.ErrorIs(t, err, ErrInvalidDays)
}

package plotting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBoxStats(t *testing.T) {
	bs, ok := ComputeBoxStats([]float64{7, 1, 3, 5, 2, 6, 4, 8})
	require.True(t, ok)

	assert.Equal(t, 4.5, bs.Median)
	assert.Equal(t, 2.5, bs.Q1)
	assert.Equal(t, 6.5, bs.Q3)
	assert.Equal(t, 1.0, bs.LowerWhisker)
	assert.Equal(t, 8.0, bs.UpperWhisker)
	assert.Empty(t, bs.Outliers)
}

func TestComputeBoxStats_Outliers(t *testing.T) {
	bs, ok := ComputeBoxStats([]float64{1, 2, 3, 4, 5, 6, 7, 8, 100, math.NaN()})
	require.True(t, ok)

	assert.Equal(t, []float64{100}, bs.Outliers)
	assert.Equal(t, 8.0, bs.UpperWhisker)

	lo, hi := bs.Extent()
	assert.Equal(t, 1.0, lo)
	assert.Equal(t, 100.0, hi)
}

func TestComputeBoxStats_Small(t *testing.T) {
	bs, ok := ComputeBoxStats([]float64{3})
	require.True(t, ok)
	assert.Equal(t, BoxStats{Q1: 3, Median: 3, Q3: 3, LowerWhisker: 3, UpperWhisker: 3}, bs)

	_, ok = ComputeBoxStats(nil)
	assert.False(t, ok)
	_, ok = ComputeBoxStats([]float64{math.NaN()})
	assert.False(t, ok)
}

func TestNiceTicks(t *testing.T) {
	ticks := niceTicks(0.3, 9.7, 6)
	require.NotEmpty(t, ticks)
	assert.LessOrEqual(t, ticks[0].Value, 0.3)
	assert.GreaterOrEqual(t, ticks[len(ticks)-1].Value, 9.7)

	// a flat series still gets a usable range
	flat := niceTicks(5, 5, 6)
	require.GreaterOrEqual(t, len(flat), 2)
	assert.Less(t, flat[0].Value, flat[len(flat)-1].Value)

	nan := niceTicks(math.NaN(), 1, 6)
	assert.Len(t, nan, 2)
}

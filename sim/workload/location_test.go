package workload

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matching-sim/matching-sim/sim"
)

func TestNormalLocation_MomentsMatch(t *testing.T) {
	// GIVEN a bivariate normal centred at (5, -2) with variances 4 and 1
	sampler, err := NewLocationSampler([]LocationSpec{
		{Type: "normal", Mean: []float64{5, -2}, Cov: [][]float64{{4, 0}, {0, 1}}},
	}, newSource(42))
	require.NoError(t, err)

	// WHEN 20000 locations are drawn
	xs := make([]float64, 20000)
	ys := make([]float64, 20000)
	for i := range xs {
		loc := sampler.Sample()
		xs[i], ys[i] = loc.X, loc.Y
	}

	// THEN sample means and variances are close to the parameters
	mx, vx := meanAndVariance(xs)
	my, vy := meanAndVariance(ys)
	assert.InDelta(t, 5, mx, 0.07)
	assert.InDelta(t, -2, my, 0.05)
	assert.InDelta(t, 4, vx, 0.2)
	assert.InDelta(t, 1, vy, 0.05)
}

func TestUniformLocation_StaysInBounds(t *testing.T) {
	sampler, err := NewLocationSampler([]LocationSpec{
		{Type: "uniform", Bounds: [][]float64{{-1, 1}, {10, 20}}},
	}, newSource(1))
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		loc := sampler.Sample()
		require.True(t, loc.X >= -1 && loc.X <= 1, "x = %v", loc.X)
		require.True(t, loc.Y >= 10 && loc.Y <= 20, "y = %v", loc.Y)
	}
}

func TestPointLocation_IsConstant(t *testing.T) {
	sampler, err := NewLocationSampler([]LocationSpec{{Type: "point", Mean: []float64{3, 4}}}, newSource(1))
	require.NoError(t, err)
	assert.Equal(t, sim.Location{X: 3, Y: 4}, sampler.Sample())
	assert.Equal(t, sim.Location{X: 3, Y: 4}, sampler.Sample())
}

func TestMixtureLocation_FollowsWeights(t *testing.T) {
	// GIVEN a 1:3 mixture of two points
	sampler, err := NewLocationSampler([]LocationSpec{
		{Type: "point", Weight: 1, Mean: []float64{0, 0}},
		{Type: "point", Weight: 3, Mean: []float64{1, 1}},
	}, newSource(5))
	require.NoError(t, err)

	// WHEN 20000 locations are drawn
	second := 0
	n := 20000
	for i := 0; i < n; i++ {
		if sampler.Sample().X == 1 {
			second++
		}
	}

	// THEN about three quarters come from the heavier component
	frac := float64(second) / float64(n)
	if math.Abs(frac-0.75) > 0.02 {
		t.Errorf("heavier component share = %.3f, want ≈ 0.75", frac)
	}
}

func TestNewLocationSampler_Errors(t *testing.T) {
	_, err := NewLocationSampler(nil, newSource(1))
	assert.Error(t, err)

	_, err = NewLocationSampler([]LocationSpec{
		{Type: "normal", Mean: []float64{0, 0}, Cov: [][]float64{{1, 2}, {2, 1}}},
	}, newSource(1))
	assert.Error(t, err, "indefinite covariance must be rejected")
}

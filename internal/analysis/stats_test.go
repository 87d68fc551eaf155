package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 2.0, mean([]float64{1, 2, 3}))
	assert.Equal(t, 5.0, mean([]float64{5}))
	assert.True(t, math.IsNaN(mean(nil)))
}

func TestStddev(t *testing.T) {
	// Sample standard deviation of 2,4,4,4,5,5,7,9 is ~2.138.
	assert.InDelta(t, 2.138, stddev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.001)
	assert.True(t, math.IsNaN(stddev([]float64{5})))
	assert.Zero(t, stddev([]float64{3, 3, 3}))
}

func TestQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 1.0, quantile(values, 0))
	assert.Equal(t, 3.0, quantile(values, 0.5))
	assert.Equal(t, 5.0, quantile(values, 1))
	assert.Equal(t, 2.0, quantile(values, 0.25))

	// Interpolation between points.
	assert.InDelta(t, 1.5, quantile([]float64{1, 2}, 0.5), 1e-9)

	// Input slice stays untouched.
	shuffled := []float64{5, 1, 3}
	quantile(shuffled, 0.5)
	assert.Equal(t, []float64{5, 1, 3}, shuffled)
}

func TestSkewness(t *testing.T) {
	assert.True(t, math.IsNaN(skewness([]float64{1, 2})))
	assert.Zero(t, skewness([]float64{4, 4, 4}))

	// A long right tail is positively skewed.
	assert.Greater(t, skewness([]float64{1, 2, 2, 3, 100}), 0.0)
	// Mirrored data flips the sign.
	assert.Less(t, skewness([]float64{-1, -2, -2, -3, -100}), 0.0)
}

func TestKurtosis(t *testing.T) {
	assert.True(t, math.IsNaN(kurtosis([]float64{1, 2, 3})))
	assert.Zero(t, kurtosis([]float64{4, 4, 4, 4}))

	// Heavy tails raise excess kurtosis above a flat spread.
	heavy := kurtosis([]float64{1, 5, 5, 5, 5, 5, 5, 9, -50, 60})
	flat := kurtosis([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	assert.Greater(t, heavy, flat)
}

func TestPearson(t *testing.T) {
	x := []float64{1, 2, 3, 4}

	assert.InDelta(t, 1, pearson(x, []float64{10, 20, 30, 40}), 1e-9)
	assert.InDelta(t, -1, pearson(x, []float64{8, 6, 4, 2}), 1e-9)
	assert.True(t, math.IsNaN(pearson(x, []float64{5, 5, 5, 5})))
	assert.True(t, math.IsNaN(pearson([]float64{1}, []float64{2})))
	assert.True(t, math.IsNaN(pearson(x, []float64{1, 2})))
}

func TestRegressionSlope(t *testing.T) {
	assert.InDelta(t, 2, regressionSlope([]float64{1, 3, 5, 7}), 1e-9)
	assert.InDelta(t, -1, regressionSlope([]float64{3, 2, 1}), 1e-9)
	assert.Zero(t, regressionSlope([]float64{4, 4, 4}))
	assert.True(t, math.IsNaN(regressionSlope([]float64{1})))
}

func TestRounding(t *testing.T) {
	assert.Equal(t, 3.14, round2(3.14159))
	assert.Equal(t, 3.142, round3(3.14159))
	assert.Equal(t, -2.5, round2(-2.499))
}

package analysis

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean of values.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev returns the sample standard deviation (n-1 denominator).
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// quantile returns the linearly interpolated q-quantile of values.
// The input slice is not modified.
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return quantileSorted(sorted, q)
}

func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// skewness returns the adjusted Fisher-Pearson sample skewness.
// At least three values are required.
func skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return math.NaN()
	}
	m := mean(values)
	s := stddev(values)
	if s == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := (v - m) / s
		sum += d * d * d
	}
	return n / ((n - 1) * (n - 2)) * sum
}

// kurtosis returns the sample excess kurtosis with the standard bias
// adjustment. At least four values are required.
func kurtosis(values []float64) float64 {
	n := float64(len(values))
	if n < 4 {
		return math.NaN()
	}
	m := mean(values)
	s := stddev(values)
	if s == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := (v - m) / s
		sum += d * d * d * d
	}
	adj := n * (n + 1) / ((n - 1) * (n - 2) * (n - 3))
	return adj*sum - 3*(n-1)*(n-1)/((n-2)*(n-3))
}

// pearson returns the Pearson correlation coefficient of two equal-length
// series. NaN when either series has zero variance or fewer than two
// points.
func pearson(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN()
	}
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return math.NaN()
	}
	return sxy / math.Sqrt(sxx*syy)
}

// regressionSlope returns the least-squares slope of values against their
// indices 0..n-1.
func regressionSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return math.NaN()
	}
	mx := (n - 1) / 2
	my := mean(values)
	var sxy, sxx float64
	for i, v := range values {
		dx := float64(i) - mx
		sxy += dx * (v - my)
		sxx += dx * dx
	}
	if sxx == 0 {
		return 0
	}
	return sxy / sxx
}

// round2 rounds to two decimal places, the fixed precision used for
// shares and reported statistics.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round3 rounds to three decimal places, used for correlation
// coefficients.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

package analysis

import (
	"fmt"
	"math"
	"sort"

	"shoppulse/internal/config"
)

// HistogramBucket is one equal-width price bucket.
type HistogramBucket struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// OutlierReport describes prices flagged by the configured outlier rule.
type OutlierReport struct {
	Rule       string    `json:"rule"`
	Multiplier float64   `json:"multiplier"`
	LowerBound float64   `json:"lower_bound"`
	UpperBound float64   `json:"upper_bound"`
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"`
	Values     []float64 `json:"values,omitempty"`
}

// DistributionAnalysis is the result of the price distribution analysis.
type DistributionAnalysis struct {
	Histogram []HistogramBucket  `json:"histogram"`
	Skewness  *float64           `json:"skewness,omitempty"`
	Kurtosis  *float64           `json:"kurtosis,omitempty"`
	Outliers  *OutlierReport     `json:"outliers,omitempty"`
	Segments  map[string]int     `json:"segments"`

	InsufficientData []string `json:"insufficient_data,omitempty"`
}

// PriceDistribution analyzes the shape of the price distribution:
// histogram buckets, skewness and kurtosis, outliers under the configured
// rule and percentile-based price segments. Statistics the dataset is too
// small for are reported as insufficient data, never as an error.
func (a *Analyzer) PriceDistribution() *DistributionAnalysis {
	sorted := make([]float64, len(a.prices))
	copy(sorted, a.prices)
	sort.Float64s(sorted)

	out := &DistributionAnalysis{
		Histogram: histogram(sorted, a.cfg.HistogramBuckets),
		Segments:  a.segments(sorted),
	}

	if sk := skewness(a.prices); !math.IsNaN(sk) {
		v := round3(sk)
		out.Skewness = &v
	} else {
		out.InsufficientData = append(out.InsufficientData, "skewness")
	}
	if ku := kurtosis(a.prices); !math.IsNaN(ku) {
		v := round3(ku)
		out.Kurtosis = &v
	} else {
		out.InsufficientData = append(out.InsufficientData, "kurtosis")
	}

	if outliers := a.detectOutliers(sorted); outliers != nil {
		out.Outliers = outliers
	} else {
		out.InsufficientData = append(out.InsufficientData, "outliers")
	}

	return out
}

// histogram builds equal-width buckets over the sorted price range. A
// degenerate range (all prices equal) collapses to a single bucket.
func histogram(sorted []float64, buckets int) []HistogramBucket {
	if len(sorted) == 0 || buckets < 1 {
		return nil
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []HistogramBucket{{Low: lo, High: hi, Count: len(sorted)}}
	}

	width := (hi - lo) / float64(buckets)
	out := make([]HistogramBucket, buckets)
	for i := range out {
		out[i].Low = lo + float64(i)*width
		out[i].High = lo + float64(i+1)*width
	}
	out[buckets-1].High = hi

	for _, p := range sorted {
		idx := int((p - lo) / width)
		if idx >= buckets {
			idx = buckets - 1
		}
		out[idx].Count++
	}
	return out
}

// detectOutliers applies the configured rule. Both rules need enough data
// to be meaningful: quartiles or a standard deviation, so fewer than four
// (IQR) or two (z-score) points yield no report.
func (a *Analyzer) detectOutliers(sorted []float64) *OutlierReport {
	switch a.cfg.OutlierRule {
	case config.OutlierRuleZScore:
		if len(sorted) < 2 {
			return nil
		}
		m := mean(sorted)
		sd := stddev(sorted)
		if sd == 0 {
			sd = math.SmallestNonzeroFloat64
		}
		lower := m - a.cfg.OutlierMultiplier*sd
		upper := m + a.cfg.OutlierMultiplier*sd
		return a.collectOutliers(sorted, lower, upper, config.OutlierRuleZScore)
	default: // iqr
		if len(sorted) < 4 {
			return nil
		}
		q1 := quantileSorted(sorted, 0.25)
		q3 := quantileSorted(sorted, 0.75)
		iqr := q3 - q1
		lower := q1 - a.cfg.OutlierMultiplier*iqr
		upper := q3 + a.cfg.OutlierMultiplier*iqr
		return a.collectOutliers(sorted, lower, upper, config.OutlierRuleIQR)
	}
}

func (a *Analyzer) collectOutliers(sorted []float64, lower, upper float64, rule string) *OutlierReport {
	var values []float64
	for _, p := range sorted {
		if p < lower || p > upper {
			values = append(values, p)
		}
	}
	return &OutlierReport{
		Rule:       rule,
		Multiplier: a.cfg.OutlierMultiplier,
		LowerBound: round2(lower),
		UpperBound: round2(upper),
		Count:      len(values),
		Percentage: round2(float64(len(values)) / float64(len(sorted)) * 100),
		Values:     values,
	}
}

// segments buckets prices by the configured percentile cutpoints. The
// default two cutpoints produce the budget / mid_range / premium split;
// other cutpoint counts get positional segment names.
func (a *Analyzer) segments(sorted []float64) map[string]int {
	cuts := a.cfg.SegmentCutpoints
	bounds := make([]float64, len(cuts))
	for i, q := range cuts {
		bounds[i] = quantileSorted(sorted, q)
	}

	names := segmentNames(len(cuts) + 1)
	out := make(map[string]int, len(names))
	for _, name := range names {
		out[name] = 0
	}

	for _, p := range sorted {
		idx := 0
		for idx < len(bounds) && p > bounds[idx] {
			idx++
		}
		out[names[idx]]++
	}
	return out
}

func segmentNames(n int) []string {
	if n == 3 {
		return []string{"budget", "mid_range", "premium"}
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("segment_%d", i+1)
	}
	return names
}

package analysis

import (
	"math"
	"sort"
)

// Trend directions reported by the time-series analysis.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// TimeBucket aggregates the records falling into one time bucket.
type TimeBucket struct {
	Key       string   `json:"key"`
	Count     int      `json:"count"`
	MeanPrice *float64 `json:"mean_price,omitempty"`
	Peak      bool     `json:"peak,omitempty"`
}

// PriceTrend summarizes how daily mean prices move over the dataset's
// span.
type PriceTrend struct {
	Direction  string  `json:"direction"`
	Slope      float64 `json:"slope"`      // per-day change of the daily mean
	Volatility float64 `json:"volatility"` // std of daily means
}

// TimeSeriesAnalysis is the result of the time-series analysis.
type TimeSeriesAnalysis struct {
	Daily    []*TimeBucket `json:"daily"`
	Hourly   []*TimeBucket `json:"hourly"`
	Weekday  []*TimeBucket `json:"weekday"`
	Trend    *PriceTrend   `json:"trend,omitempty"`

	InsufficientData []string `json:"insufficient_data,omitempty"`
}

// TimeSeries buckets records by date, hour of day and weekday derived
// from created_at, reporting counts and mean prices per bucket and
// flagging the peak-activity buckets. Records without a parsed timestamp
// are excluded (validation guarantees there are none in a cleaned
// dataset, but the analyzer does not rely on it).
func (a *Analyzer) TimeSeries() *TimeSeriesAnalysis {
	daily := make(map[string][]float64)
	dailyCount := make(map[string]int)
	hourly := make(map[string][]float64)
	hourlyCount := make(map[string]int)
	weekday := make(map[string][]float64)
	weekdayCount := make(map[string]int)

	timestamped := 0
	for i := range a.records {
		rec := &a.records[i]
		if rec.CreatedAt.IsZero() {
			continue
		}
		timestamped++

		day := rec.CreatedAt.Format("2006-01-02")
		hour := rec.CreatedAt.Format("15")
		wd := rec.CreatedAt.Weekday().String()

		dailyCount[day]++
		hourlyCount[hour]++
		weekdayCount[wd]++

		if !math.IsNaN(rec.Price) {
			daily[day] = append(daily[day], rec.Price)
			hourly[hour] = append(hourly[hour], rec.Price)
			weekday[wd] = append(weekday[wd], rec.Price)
		}
	}

	out := &TimeSeriesAnalysis{}
	if timestamped == 0 {
		out.InsufficientData = append(out.InsufficientData, "buckets")
		return out
	}

	out.Daily = buckets(dailyCount, daily)
	out.Hourly = buckets(hourlyCount, hourly)
	out.Weekday = buckets(weekdayCount, weekday)

	if trend := priceTrend(out.Daily, daily, a.cfg.TrendSlopeEpsilon); trend != nil {
		out.Trend = trend
	} else {
		out.InsufficientData = append(out.InsufficientData, "trend")
	}

	return out
}

// buckets materializes sorted buckets with peak flags. Every bucket with
// the maximum count is flagged, so ties produce multiple peaks.
func buckets(counts map[string]int, prices map[string][]float64) []*TimeBucket {
	keys := make([]string, 0, len(counts))
	maxCount := 0
	for key, count := range counts {
		keys = append(keys, key)
		if count > maxCount {
			maxCount = count
		}
	}
	sort.Strings(keys)

	out := make([]*TimeBucket, 0, len(keys))
	for _, key := range keys {
		b := &TimeBucket{
			Key:   key,
			Count: counts[key],
			Peak:  counts[key] == maxCount,
		}
		if p := prices[key]; len(p) > 0 {
			m := round2(mean(p))
			b.MeanPrice = &m
		}
		out = append(out, b)
	}
	return out
}

// priceTrend fits a least-squares line through the daily mean prices.
// The direction is stable when the slope, relative to the overall mean
// level, stays below the configured epsilon. Fewer than two priced days
// yield no trend.
func priceTrend(daily []*TimeBucket, prices map[string][]float64, epsilon float64) *PriceTrend {
	var means []float64
	for _, b := range daily {
		if p := prices[b.Key]; len(p) > 0 {
			means = append(means, mean(p))
		}
	}
	if len(means) < 2 {
		return nil
	}

	slope := regressionSlope(means)
	level := mean(means)

	direction := TrendStable
	if level > 0 && math.Abs(slope)/level > epsilon {
		if slope > 0 {
			direction = TrendIncreasing
		} else {
			direction = TrendDecreasing
		}
	}

	trend := &PriceTrend{
		Direction: direction,
		Slope:     round3(slope),
	}
	if sd := stddev(means); !math.IsNaN(sd) {
		trend.Volatility = round2(sd)
	}
	return trend
}

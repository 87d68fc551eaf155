package analysis

import (
	"math"
	"sort"
	"time"

	"shoppulse/pkg/contracts/domain"
)

// PriceStats holds descriptive statistics over a set of prices. Fields
// requiring at least two observations are nil when the set is smaller,
// with the gap named in InsufficientData.
type PriceStats struct {
	Count  int      `json:"count"`
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	Std    *float64 `json:"std,omitempty"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
	Q25    float64  `json:"q25"`
	Q75    float64  `json:"q75"`
	IQR    float64  `json:"iqr"`

	InsufficientData []string `json:"insufficient_data,omitempty"`
}

// TextFieldStats summarizes one free-text column.
type TextFieldStats struct {
	AvgLength   float64 `json:"avg_length"`
	MinLength   int     `json:"min_length"`
	MaxLength   int     `json:"max_length"`
	UniqueCount int     `json:"unique_count"`
	EmptyCount  int     `json:"empty_count"`
}

// DateRange describes the temporal extent of the dataset.
type DateRange struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	SpanDays int       `json:"span_days"`
}

// DescriptiveStats is the result of the descriptive analysis.
type DescriptiveStats struct {
	TotalRecords int            `json:"total_records"`
	DateRange    *DateRange     `json:"date_range,omitempty"`
	Categories   map[string]int `json:"categories"`
	Sources      map[string]int `json:"sources"`
	Brands       map[string]int `json:"brands"`

	Price           *PriceStats            `json:"price"`
	PriceByCategory map[string]*PriceStats `json:"price_by_category"`
	TextFields      map[string]*TextFieldStats `json:"text_fields"`
}

// Descriptive computes counts, the date range, price statistics overall
// and per category, and text-field statistics.
func (a *Analyzer) Descriptive() *DescriptiveStats {
	out := &DescriptiveStats{
		TotalRecords: len(a.records),
		Categories:   make(map[string]int),
		Sources:      make(map[string]int),
		Brands:       make(map[string]int),
	}

	byCategory := make(map[string][]float64)
	for i := range a.records {
		rec := &a.records[i]
		out.Categories[rec.Category]++
		out.Sources[rec.Source]++
		if rec.Brand != "" {
			out.Brands[rec.Brand]++
		}
		if !math.IsNaN(rec.Price) {
			byCategory[rec.Category] = append(byCategory[rec.Category], rec.Price)
		}
	}

	out.DateRange = a.dateRange()
	out.Price = priceStats(a.prices)

	out.PriceByCategory = make(map[string]*PriceStats, len(byCategory))
	for cat, prices := range byCategory {
		out.PriceByCategory[cat] = priceStats(prices)
	}

	out.TextFields = map[string]*TextFieldStats{
		"name":        a.textStats(func(r *domain.Record) string { return r.Name }),
		"brand":       a.textStats(func(r *domain.Record) string { return r.Brand }),
		"description": a.textStats(func(r *domain.Record) string { return r.Description }),
	}

	return out
}

func (a *Analyzer) dateRange() *DateRange {
	var start, end time.Time
	for i := range a.records {
		t := a.records[i].CreatedAt
		if t.IsZero() {
			continue
		}
		if start.IsZero() || t.Before(start) {
			start = t
		}
		if end.IsZero() || t.After(end) {
			end = t
		}
	}
	if start.IsZero() {
		return nil
	}
	return &DateRange{
		Start:    start,
		End:      end,
		SpanDays: int(end.Sub(start).Hours() / 24),
	}
}

// priceStats computes the descriptive block for one price series. A
// series below two points reports std as insufficient data instead of a
// meaningless value.
func priceStats(prices []float64) *PriceStats {
	if len(prices) == 0 {
		return &PriceStats{InsufficientData: []string{"mean", "median", "std", "quartiles"}}
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	q25 := quantileSorted(sorted, 0.25)
	q75 := quantileSorted(sorted, 0.75)

	out := &PriceStats{
		Count:  len(prices),
		Mean:   round2(mean(prices)),
		Median: round2(quantileSorted(sorted, 0.5)),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q25:    round2(q25),
		Q75:    round2(q75),
		IQR:    round2(q75 - q25),
	}

	if len(prices) >= 2 {
		sd := round2(stddev(prices))
		out.Std = &sd
	} else {
		out.InsufficientData = append(out.InsufficientData, "std")
	}

	return out
}

func (a *Analyzer) textStats(get func(*domain.Record) string) *TextFieldStats {
	out := &TextFieldStats{MinLength: math.MaxInt32}
	unique := make(map[string]struct{})
	total := 0
	for i := range a.records {
		s := get(&a.records[i])
		n := len(s)
		total += n
		if n < out.MinLength {
			out.MinLength = n
		}
		if n > out.MaxLength {
			out.MaxLength = n
		}
		if s == "" {
			out.EmptyCount++
		} else {
			unique[s] = struct{}{}
		}
	}
	out.UniqueCount = len(unique)
	out.AvgLength = round2(float64(total) / float64(len(a.records)))
	return out
}

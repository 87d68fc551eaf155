package analysis

import (
	"math"
	"sort"

	"shoppulse/pkg/contracts/domain"
)

// CorrelationPair is the coefficient between two numeric fields.
type CorrelationPair struct {
	FieldA      string  `json:"field_a"`
	FieldB      string  `json:"field_b"`
	Coefficient float64 `json:"coefficient"`
	SampleSize  int     `json:"sample_size"`
}

// CorrelationAnalysis is the result of the correlation analysis.
type CorrelationAnalysis struct {
	Fields []string           `json:"fields"`
	Pairs  []*CorrelationPair `json:"pairs"`
	Strong []*CorrelationPair `json:"strong,omitempty"`

	InsufficientData []string `json:"insufficient_data,omitempty"`
}

// Correlation computes pairwise Pearson coefficients among the numeric
// fields: price and every extracted feature that appears in the dataset.
// Pairs with fewer than two overlapping non-missing values are omitted
// rather than reported as NaN.
func (a *Analyzer) Correlation() *CorrelationAnalysis {
	fields := a.numericFields()
	out := &CorrelationAnalysis{Fields: fields}
	if len(fields) < 2 {
		out.InsufficientData = append(out.InsufficientData, "pairs")
		return out
	}

	for i := 0; i < len(fields); i++ {
		for j := i + 1; j < len(fields); j++ {
			x, y := a.overlap(fields[i], fields[j])
			if len(x) < 2 {
				continue
			}
			r := pearson(x, y)
			if math.IsNaN(r) {
				continue
			}
			pair := &CorrelationPair{
				FieldA:      fields[i],
				FieldB:      fields[j],
				Coefficient: round3(r),
				SampleSize:  len(x),
			}
			out.Pairs = append(out.Pairs, pair)
			if math.Abs(pair.Coefficient) >= a.cfg.StrongCorrelation {
				out.Strong = append(out.Strong, pair)
			}
		}
	}

	if len(out.Pairs) == 0 {
		out.InsufficientData = append(out.InsufficientData, "pairs")
	}
	return out
}

// numericFields returns "price" plus the sorted union of feature keys
// observed in the dataset.
func (a *Analyzer) numericFields() []string {
	features := make(map[string]struct{})
	for i := range a.records {
		for key := range a.records[i].Features {
			features[key] = struct{}{}
		}
	}
	fields := make([]string, 0, len(features)+1)
	fields = append(fields, "price")
	for key := range features {
		fields = append(fields, key)
	}
	sort.Strings(fields[1:])
	return fields
}

// overlap collects the paired values of two fields over records where
// both are present.
func (a *Analyzer) overlap(fieldA, fieldB string) (x, y []float64) {
	for i := range a.records {
		va, oka := numericValue(&a.records[i], fieldA)
		vb, okb := numericValue(&a.records[i], fieldB)
		if oka && okb {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}

func numericValue(rec *domain.Record, field string) (float64, bool) {
	if field == "price" {
		if math.IsNaN(rec.Price) {
			return 0, false
		}
		return rec.Price, true
	}
	v, ok := rec.Features[field]
	return v, ok
}

package analysis

import (
	"fmt"
	"strings"
)

// Insight is one natural-language statement generated from a threshold
// rule over computed statistics.
type Insight struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// insightRule evaluates one predicate over a finished summary and, when
// it fires, renders its message. Rules are evaluated in table order and
// are pure functions of the statistics, so insight generation is fully
// reproducible.
type insightRule struct {
	name  string
	apply func(r *SummaryReport, dominanceShare float64) (string, bool)
}

var insightRules = []insightRule{
	{
		name: "brand_dominance",
		apply: func(r *SummaryReport, dominance float64) (string, bool) {
			if r.Brand == nil || len(r.Brand.Brands) == 0 {
				return "", false
			}
			top := r.Brand.Brands[0]
			if top.MarketShare < dominance {
				return "", false
			}
			return fmt.Sprintf("%s dominates with %.1f%% of branded records", top.Brand, top.MarketShare), true
		},
	},
	{
		name: "category_concentration",
		apply: func(r *SummaryReport, dominance float64) (string, bool) {
			if r.Category == nil || len(r.Category.Categories) == 0 {
				return "", false
			}
			top := r.Category.Categories[0]
			if top.Share < dominance {
				return "", false
			}
			return fmt.Sprintf("category %s accounts for %.1f%% of the dataset", top.Category, top.Share), true
		},
	},
	{
		name: "price_outliers",
		apply: func(r *SummaryReport, _ float64) (string, bool) {
			if r.PriceDistribution == nil || r.PriceDistribution.Outliers == nil {
				return "", false
			}
			o := r.PriceDistribution.Outliers
			if o.Percentage <= 5 {
				return "", false
			}
			return fmt.Sprintf("%.1f%% of prices fall outside the %s fences [%.2f, %.2f]",
				o.Percentage, o.Rule, o.LowerBound, o.UpperBound), true
		},
	},
	{
		name: "price_trend",
		apply: func(r *SummaryReport, _ float64) (string, bool) {
			if r.TimeSeries == nil || r.TimeSeries.Trend == nil || r.TimeSeries.Trend.Direction == TrendStable {
				return "", false
			}
			return fmt.Sprintf("daily mean prices are %s (%.3f per day)",
				r.TimeSeries.Trend.Direction, r.TimeSeries.Trend.Slope), true
		},
	},
	{
		name: "peak_activity",
		apply: func(r *SummaryReport, _ float64) (string, bool) {
			if r.TimeSeries == nil || len(r.TimeSeries.Weekday) == 0 {
				return "", false
			}
			var peaks []string
			for _, b := range r.TimeSeries.Weekday {
				if b.Peak {
					peaks = append(peaks, b.Key)
				}
			}
			if len(peaks) == 0 {
				return "", false
			}
			return fmt.Sprintf("scraping activity peaks on %s", strings.Join(peaks, ", ")), true
		},
	},
	{
		name: "premium_brands",
		apply: func(r *SummaryReport, _ float64) (string, bool) {
			if r.Brand == nil || len(r.Brand.PremiumBrands) == 0 {
				return "", false
			}
			return fmt.Sprintf("premium positioning: %s priced above 1.5x the overall median",
				strings.Join(r.Brand.PremiumBrands, ", ")), true
		},
	},
}

// generateInsights evaluates the rule table once over the summary.
func generateInsights(r *SummaryReport, dominanceShare float64) []Insight {
	var out []Insight
	for _, rule := range insightRules {
		if msg, ok := rule.apply(r, dominanceShare); ok {
			out = append(out, Insight{Rule: rule.name, Message: msg})
		}
	}
	return out
}

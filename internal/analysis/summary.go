package analysis

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// SummaryReport composes every analysis plus the generated insights.
// It is a plain serializable structure with no references back into the
// dataset, which is what the export and report layers consume.
type SummaryReport struct {
	ID           string    `json:"id"`
	GeneratedAt  time.Time `json:"generated_at"`
	TotalRecords int       `json:"total_records"`

	Descriptive       *DescriptiveStats     `json:"descriptive"`
	PriceDistribution *DistributionAnalysis `json:"price_distribution"`
	Brand             *BrandAnalysis        `json:"brand"`
	Category          *CategoryAnalysis     `json:"category"`
	Correlation       *CorrelationAnalysis  `json:"correlation"`
	TimeSeries        *TimeSeriesAnalysis   `json:"time_series"`

	Insights []Insight `json:"insights"`
}

// Summary runs every analysis and the insight rules. Sub-analyses are
// independent: one reporting insufficient data does not stop the others.
func (a *Analyzer) Summary() *SummaryReport {
	report := &SummaryReport{
		ID:           uuid.NewString(),
		GeneratedAt:  time.Now().UTC(),
		TotalRecords: len(a.records),

		Descriptive:       a.Descriptive(),
		PriceDistribution: a.PriceDistribution(),
		Brand:             a.Brand(),
		Category:          a.Category(),
		Correlation:       a.Correlation(),
		TimeSeries:        a.TimeSeries(),
	}
	report.Insights = generateInsights(report, a.cfg.DominanceShare)

	a.logger.Info("summary report generated",
		slog.String("report_id", report.ID),
		slog.Int("records", report.TotalRecords),
		slog.Int("insights", len(report.Insights)))

	return report
}

// Analysis returns one sub-analysis by its public name.
func (r *SummaryReport) Analysis(name string) (interface{}, bool) {
	switch name {
	case NameDescriptive:
		return r.Descriptive, r.Descriptive != nil
	case NamePriceDistribution:
		return r.PriceDistribution, r.PriceDistribution != nil
	case NameBrand:
		return r.Brand, r.Brand != nil
	case NameCategory:
		return r.Category, r.Category != nil
	case NameCorrelation:
		return r.Correlation, r.Correlation != nil
	case NameTimeSeries:
		return r.TimeSeries, r.TimeSeries != nil
	default:
		return nil, false
	}
}

// Names lists the analyses available in a summary report.
func Names() []string {
	return []string{
		NameDescriptive,
		NamePriceDistribution,
		NameBrand,
		NameCategory,
		NameCorrelation,
		NameTimeSeries,
	}
}

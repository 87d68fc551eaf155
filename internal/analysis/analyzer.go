package analysis

import (
	"log/slog"
	"math"

	"shoppulse/internal/config"
	"shoppulse/internal/errors"
	"shoppulse/pkg/contracts/domain"
)

// Analysis names exposed by the analyzer. These are the keys of the
// summary report and the names accepted by the report API.
const (
	NameDescriptive       = "descriptive"
	NamePriceDistribution = "price_distribution"
	NameBrand             = "brand"
	NameCategory          = "category"
	NameCorrelation       = "correlation"
	NameTimeSeries        = "time_series"
)

// InsufficientData is the marker reported for metrics that cannot be
// computed from the available data.
const InsufficientData = "insufficient_data"

// Analyzer computes statistics over a cleaned, deduplicated dataset.
// Every analysis method is a pure function of the held dataset; the
// analyzer keeps no other state and is safe to call from a single
// goroutine without reentrancy hazards.
type Analyzer struct {
	records []domain.Record
	prices  []float64 // numeric prices only, dataset order
	cfg     config.AnalysisConfig
	logger  *slog.Logger
}

// New constructs an analyzer over the dataset. Construction fails fast on
// an empty dataset or one without a single numeric price, so that setup
// errors surface before first use.
func New(records []domain.Record, cfg config.AnalysisConfig, logger *slog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(records) == 0 {
		return nil, errors.NewEmptyDatasetError("analyzer requires a non-empty dataset")
	}

	prices := make([]float64, 0, len(records))
	for i := range records {
		if !math.IsNaN(records[i].Price) {
			prices = append(prices, records[i].Price)
		}
	}
	if len(prices) == 0 {
		return nil, errors.NewEmptyDatasetError("analyzer requires at least one record with a numeric price")
	}

	return &Analyzer{
		records: records,
		prices:  prices,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Len returns the number of records under analysis.
func (a *Analyzer) Len() int {
	return len(a.records)
}

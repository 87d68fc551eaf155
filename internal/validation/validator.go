package validation

import (
	"log/slog"
	"math"
	"strings"

	"shoppulse/internal/config"
	"shoppulse/internal/errors"
	"shoppulse/pkg/contracts/domain"
)

// Validator checks raw records against structural and domain rules,
// partitioning valid from invalid. It never mutates a rejected record
// and never fails on a bad record; failures accumulate in the report.
type Validator struct {
	cfg        config.PipelineConfig
	categories map[string]string // lowercase -> canonical casing
	logger     *slog.Logger
}

// NewValidator creates a validator for the given pipeline configuration.
// It fails fast on unusable configuration before any record is processed.
func NewValidator(cfg config.PipelineConfig, logger *slog.Logger) (*Validator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PriceMax <= 0 {
		return nil, errors.NewConfigurationError("price_max must be positive")
	}
	if len(cfg.AllowedCategories) == 0 {
		return nil, errors.NewConfigurationError("allowed_categories must not be empty")
	}

	categories := make(map[string]string, len(cfg.AllowedCategories))
	for _, c := range cfg.AllowedCategories {
		categories[strings.ToLower(strings.TrimSpace(c))] = c
	}

	return &Validator{
		cfg:        cfg,
		categories: categories,
		logger:     logger,
	}, nil
}

// Validate applies the rules to each record, short-circuiting on the first
// failure per record. It returns the surviving records (with category
// normalized to canonical casing) and a report covering the whole batch.
// An empty valid set is a legal outcome, not an error.
func (v *Validator) Validate(records []domain.Record) ([]domain.Record, *domain.ValidationReport) {
	report := &domain.ValidationReport{
		TotalRecords: len(records),
		ReasonCounts: make(map[domain.RejectionReason]int),
	}

	valid := make([]domain.Record, 0, len(records))
	for i := range records {
		rec := records[i]
		if reason, ok := v.check(&rec); !ok {
			report.ReasonCounts[reason]++
			report.Rejections = append(report.Rejections, domain.Rejection{
				Index:  i,
				Source: rec.Source,
				Name:   rec.Name,
				Reason: reason,
			})
			continue
		}
		valid = append(valid, rec)
	}

	report.ValidRecords = len(valid)
	report.InvalidRecords = report.TotalRecords - report.ValidRecords

	v.logger.Info("validation complete",
		slog.Int("total", report.TotalRecords),
		slog.Int("valid", report.ValidRecords),
		slog.Int("invalid", report.InvalidRecords))

	return valid, report
}

// check applies the rules in order and returns the first failure.
// On acceptance it normalizes the record's category to canonical casing.
func (v *Validator) check(rec *domain.Record) (domain.RejectionReason, bool) {
	// Rule 1: required field presence.
	if strings.TrimSpace(rec.Source) == "" {
		return domain.ReasonMissingSource, false
	}
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return domain.ReasonMissingName, false
	}
	if len(name) < v.cfg.NameMinLength {
		return domain.ReasonNameTooShort, false
	}
	if strings.TrimSpace(rec.Category) == "" {
		return domain.ReasonMissingCategory, false
	}
	if rec.CreatedAt.IsZero() && rec.CreatedAtRaw == "" {
		return domain.ReasonMissingCreatedAt, false
	}

	// Rule 2: price bounds. A non-numeric price is distinct from an
	// out-of-bounds one.
	if math.IsNaN(rec.Price) {
		return domain.ReasonPriceNotNumeric, false
	}
	if rec.Price < 0 || rec.Price > v.cfg.PriceMax {
		return domain.ReasonPriceOutOfBounds, false
	}

	// Rule 3: category membership, case-insensitive.
	canonical, ok := v.categories[strings.ToLower(strings.TrimSpace(rec.Category))]
	if !ok {
		return domain.ReasonInvalidCategory, false
	}

	// Rule 4: timestamp parseability. Defaulting to "now" would silently
	// corrupt the time-series analysis, so unparseable rejects.
	if rec.CreatedAt.IsZero() {
		return domain.ReasonInvalidCreatedAt, false
	}

	rec.Category = canonical
	return "", true
}

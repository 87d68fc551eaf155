package domain

import (
	"time"
)

// RejectionReason identifies why the validator dropped a record.
type RejectionReason string

const (
	ReasonMissingSource     RejectionReason = "missing_source"
	ReasonMissingName       RejectionReason = "missing_name"
	ReasonNameTooShort      RejectionReason = "name_too_short"
	ReasonMissingCategory   RejectionReason = "missing_category"
	ReasonInvalidCategory   RejectionReason = "invalid_category"
	ReasonPriceNotNumeric   RejectionReason = "price_not_numeric"
	ReasonPriceOutOfBounds  RejectionReason = "price_out_of_bounds"
	ReasonMissingCreatedAt  RejectionReason = "missing_created_at"
	ReasonInvalidCreatedAt  RejectionReason = "invalid_created_at"
)

// Rejection preserves a dropped record's identity for diagnostics.
type Rejection struct {
	Index  int             `json:"index"`
	Source string          `json:"source,omitempty"`
	Name   string          `json:"name,omitempty"`
	Reason RejectionReason `json:"reason"`
}

// ValidationReport summarizes one validation pass over a raw batch.
// It is immutable after the validator returns it, and deterministic:
// the same input always produces the same report.
type ValidationReport struct {
	TotalRecords   int                     `json:"total_records"`
	ValidRecords   int                     `json:"valid_records"`
	InvalidRecords int                     `json:"invalid_records"`
	ReasonCounts   map[RejectionReason]int `json:"reason_counts"`
	Rejections     []Rejection             `json:"rejections,omitempty"`
}

// ValidationRate returns the fraction of records that survived validation.
func (r *ValidationReport) ValidationRate() float64 {
	if r.TotalRecords == 0 {
		return 0
	}
	return float64(r.ValidRecords) / float64(r.TotalRecords)
}

// ProcessingReport describes one full pipeline run over an input batch.
type ProcessingReport struct {
	ID              string            `json:"id"`
	InputFiles      []string          `json:"input_files,omitempty"`
	StartedAt       time.Time         `json:"started_at"`
	FinishedAt      time.Time         `json:"finished_at"`
	RawRecords      int               `json:"raw_records"`
	ValidRecords    int               `json:"valid_records"`
	CleanedRecords  int               `json:"cleaned_records"`
	UniqueRecords   int               `json:"unique_records"`
	DuplicatesDropped int             `json:"duplicates_dropped"`
	MeanQualityScore  float64         `json:"mean_quality_score"`
	Validation      *ValidationReport `json:"validation,omitempty"`
	ExportedFiles   map[string]string `json:"exported_files,omitempty"`
}

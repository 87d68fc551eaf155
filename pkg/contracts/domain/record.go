package domain

import (
	"time"
)

// Feature keys produced by the cleaner. Absent keys mean "not found";
// the cleaner never writes placeholder zeros.
const (
	FeatureStorageGB    = "storage_gb"
	FeatureRAMGB        = "ram_gb"
	FeatureScreenInches = "screen_inches"
)

// RawRecord is one scraped observation exactly as it arrives from the
// scraping layer: a loose field-name-to-value mapping decoded from JSON.
// Field values may be of any JSON type; the parser coerces them.
type RawRecord map[string]interface{}

// Record represents a single product observation after parsing.
// It is created at the ingestion boundary, filtered by the validator and
// enriched in place by the cleaner. No other component mutates it.
type Record struct {
	Source      string    `json:"source" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Price       float64   `json:"price"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category" validate:"required"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	// PriceRaw carries the original price text when the upstream source
	// supplied a non-numeric price. Empty once Price parsed cleanly.
	PriceRaw string `json:"price_raw,omitempty"`

	// CreatedAtRaw carries the original timestamp text when it could not
	// be parsed. A zero CreatedAt with empty CreatedAtRaw means the field
	// was absent; with non-empty CreatedAtRaw it means unparseable.
	CreatedAtRaw string `json:"created_at_raw,omitempty"`

	// PriceConfidence is 1 after cleaning when the price parsed to a
	// number, 0 when it could not be recovered from PriceRaw.
	PriceConfidence float64 `json:"price_confidence,omitempty"`

	// QualityScore is the 0-100 heuristic confidence metric assigned by
	// the cleaner. Scored distinguishes "not yet scored" from a true 0;
	// a record is never re-scored once Scored is set.
	QualityScore float64 `json:"quality_score"`
	Scored       bool    `json:"scored"`

	// Features holds attributes extracted from name/description text,
	// e.g. storage_gb or ram_gb, all normalized to base units.
	Features map[string]float64 `json:"extracted_features,omitempty"`
}

// HasFeature reports whether the named feature was extracted.
func (r *Record) HasFeature(key string) bool {
	_, ok := r.Features[key]
	return ok
}

// SetFeature records an extracted feature value, allocating the map lazily.
func (r *Record) SetFeature(key string, value float64) {
	if r.Features == nil {
		r.Features = make(map[string]float64)
	}
	r.Features[key] = value
}

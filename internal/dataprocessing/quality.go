package dataprocessing

import (
	"shoppulse/internal/config"
	"shoppulse/pkg/contracts/domain"
)

// scoreRecord computes the 0-100 quality score for one record. Scoring is
// purely deductive: each configured signal that fires subtracts its
// penalty from a perfect 100, flooring at 0. The weights come from the
// configuration table, never from inline constants.
func (c *Cleaner) scoreRecord(rec *domain.Record, priceExtreme bool) float64 {
	score := 100.0

	if rec.Brand == "" {
		score -= c.penalty(config.SignalMissingBrand)
	}
	if rec.Description == "" {
		score -= c.penalty(config.SignalMissingDescription)
	}
	if len(rec.Features) == 0 {
		score -= c.penalty(config.SignalNoFeatures)
	}
	if len(rec.Name) < c.cfg.ShortNameLength {
		score -= c.penalty(config.SignalShortName)
	}
	if priceExtreme {
		score -= c.penalty(config.SignalPriceExtreme)
	}

	if score < 0 {
		score = 0
	}
	return score
}

func (c *Cleaner) penalty(signal string) float64 {
	return c.cfg.QualityPenalties[signal]
}

// MeanQualityScore returns the average score of the scored records in the
// batch, or 0 for an empty or unscored batch.
func MeanQualityScore(records []domain.Record) float64 {
	sum := 0.0
	n := 0
	for i := range records {
		if records[i].Scored {
			sum += records[i].QualityScore
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

package dataprocessing

import (
	"fmt"
	"math"
	"strings"

	"shoppulse/pkg/contracts/domain"
)

// IdentityKey derives the content-based deduplication identity of a
// record: lower-cased whitespace-collapsed name, source, price rounded to
// the configured precision and category. Two records with the same key
// describe the same observation.
func IdentityKey(rec *domain.Record, pricePrecision int) string {
	name := strings.ToLower(normalizeString(rec.Name))
	source := strings.ToLower(strings.TrimSpace(rec.Source))
	category := strings.ToLower(strings.TrimSpace(rec.Category))

	price := "nan"
	if !math.IsNaN(rec.Price) {
		price = fmt.Sprintf("%.*f", pricePrecision, rec.Price)
	}

	return name + "|" + source + "|" + price + "|" + category
}

// Deduplicate keeps the first record per identity key, preserving input
// order. Given the same input order the output is deterministic.
func Deduplicate(records []domain.Record, pricePrecision int) []domain.Record {
	seen := make(map[string]struct{}, len(records))
	unique := make([]domain.Record, 0, len(records))

	for i := range records {
		key := IdentityKey(&records[i], pricePrecision)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, records[i])
	}

	return unique
}

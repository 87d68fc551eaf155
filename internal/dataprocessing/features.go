package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"

	"shoppulse/pkg/contracts/domain"
)

var (
	// capacityPattern matches storage or memory sizes like "128GB",
	// "1 TB" or "512 gb".
	capacityPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(GB|TB)\b`)

	// ramAfterPattern matches "16GB RAM"; ramBeforePattern matches
	// "RAM 16GB". RE2 has no lookaround, so RAM-adjacent capacity
	// matches are excluded from storage by position instead.
	ramAfterPattern  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*GB\s*(?:of\s*)?RAM\b`)
	ramBeforePattern = regexp.MustCompile(`(?i)\bRAM\s*:?\s*(\d+(?:\.\d+)?)\s*GB`)

	// screenPattern matches screen diagonals like 15.6" or 55 inch.
	screenPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:"|''|inch(?:es)?\b)`)
)

// extractFeatures derives structured attributes from the name and
// description. Attributes that do not match are simply absent from the
// feature map; there are no placeholder zeros.
func (c *Cleaner) extractFeatures(rec *domain.Record) {
	text := rec.Name
	if rec.Description != "" {
		text = text + " " + rec.Description
	}

	if ram, ramSpan, ok := extractRAM(text); ok {
		rec.SetFeature(domain.FeatureRAMGB, ram)
		if storage, ok := extractStorage(text, ramSpan); ok {
			rec.SetFeature(domain.FeatureStorageGB, storage)
		}
	} else if storage, ok := extractStorage(text, nil); ok {
		rec.SetFeature(domain.FeatureStorageGB, storage)
	}

	if m := screenPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 && v < 200 {
			rec.SetFeature(domain.FeatureScreenInches, v)
		}
	}
}

// extractRAM returns the memory size in GB and the index span of the
// match within text.
func extractRAM(text string) (float64, []int, bool) {
	if loc := ramAfterPattern.FindStringSubmatchIndex(text); loc != nil {
		if v, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64); err == nil {
			return v, loc[0:2], true
		}
	}
	if loc := ramBeforePattern.FindStringSubmatchIndex(text); loc != nil {
		if v, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64); err == nil {
			return v, loc[0:2], true
		}
	}
	return 0, nil, false
}

// extractStorage returns the first capacity match that does not overlap
// the RAM match, normalized to GB.
func extractStorage(text string, ramSpan []int) (float64, bool) {
	for _, loc := range capacityPattern.FindAllStringSubmatchIndex(text, -1) {
		if ramSpan != nil && loc[0] < ramSpan[1] && loc[1] > ramSpan[0] {
			continue
		}
		v, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil {
			continue
		}
		if strings.EqualFold(text[loc[4]:loc[5]], "TB") {
			v *= 1024
		}
		return v, true
	}
	return 0, false
}

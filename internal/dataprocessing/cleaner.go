package dataprocessing

import (
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"shoppulse/internal/config"
	"shoppulse/pkg/contracts/domain"
)

// brandAlias is one entry of the flattened, ordered alias table.
type brandAlias struct {
	token string // lowercase token searched for in the product name
	brand string // canonical brand it implies
}

// Cleaner normalizes text and numeric fields, extracts structured
// attributes from free text and assigns a per-record quality score.
// It enriches records in place and never drops one.
type Cleaner struct {
	cfg     config.PipelineConfig
	aliases []brandAlias      // longest token first
	brands  map[string]string // lowercase brand/token -> canonical brand
	titler  cases.Caser
	logger  *slog.Logger
}

// NewCleaner creates a cleaner from the pipeline configuration. The alias
// table is flattened and ordered longest-token-first so that "thinkpad"
// wins over "hp" when both happen to match.
func NewCleaner(cfg config.PipelineConfig, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}

	var aliases []brandAlias
	brands := make(map[string]string)
	for brand, tokens := range cfg.BrandAliases {
		brands[strings.ToLower(brand)] = brand
		for _, tok := range tokens {
			tok = strings.ToLower(strings.TrimSpace(tok))
			if tok == "" {
				continue
			}
			aliases = append(aliases, brandAlias{token: tok, brand: brand})
			brands[tok] = brand
		}
	}
	sort.SliceStable(aliases, func(i, j int) bool {
		if len(aliases[i].token) != len(aliases[j].token) {
			return len(aliases[i].token) > len(aliases[j].token)
		}
		return aliases[i].token < aliases[j].token
	})

	return &Cleaner{
		cfg:     cfg,
		aliases: aliases,
		brands:  brands,
		titler:  cases.Title(language.English),
		logger:  logger,
	}
}

// Clean enriches each record in place: text normalization, brand
// extraction, price recovery, feature extraction and quality scoring.
// The operation is idempotent; records already scored keep their score.
func (c *Cleaner) Clean(records []domain.Record) []domain.Record {
	lowBound, highBound, haveBounds := extremePriceBounds(records, c.cfg.ExtremePricePercentile)

	scored := 0
	for i := range records {
		rec := &records[i]

		c.normalizeText(rec)
		c.extractBrand(rec)
		c.cleanPrice(rec)
		c.extractFeatures(rec)

		if !rec.Scored {
			extreme := haveBounds && (rec.Price <= lowBound || rec.Price >= highBound)
			rec.QualityScore = c.scoreRecord(rec, extreme)
			rec.Scored = true
			scored++
		}
	}

	c.logger.Info("cleaning complete",
		slog.Int("records", len(records)),
		slog.Int("scored", scored))

	return records
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeText trims and collapses whitespace in the text fields and
// replaces non-breaking and zero-width characters scraped sites like to
// embed in product names.
func (c *Cleaner) normalizeText(rec *domain.Record) {
	rec.Name = normalizeString(rec.Name)
	rec.Description = normalizeString(rec.Description)
	rec.Brand = strings.TrimSpace(rec.Brand)
	rec.Source = strings.TrimSpace(rec.Source)
}

func normalizeString(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\u00A0', '\u202F', '\u2009': // non-breaking / narrow spaces
			return ' '
		case '\u200B', '\u200C', '\u200D', '\uFEFF': // zero-width
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// extractBrand fills an empty brand by scanning the product name against
// the alias table, and canonicalizes the casing of an existing brand.
// A name with no match leaves the brand empty; that is a quality
// deduction, not a rejection.
func (c *Cleaner) extractBrand(rec *domain.Record) {
	if rec.Brand != "" {
		if canonical, ok := c.brands[strings.ToLower(rec.Brand)]; ok {
			rec.Brand = canonical
		} else {
			rec.Brand = c.titler.String(strings.ToLower(rec.Brand))
		}
		return
	}

	name := strings.ToLower(rec.Name)
	for _, alias := range c.aliases {
		if containsToken(name, alias.token) {
			rec.Brand = alias.brand
			return
		}
	}
}

// containsToken matches a token at word boundaries within s.
func containsToken(s, token string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], token)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(token)
		beforeOK := start == 0 || !isWordRune(rune(s[start-1]))
		afterOK := end == len(s) || !isWordRune(rune(s[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = end
	}
}

func isWordRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// cleanPrice recovers a numeric price from preserved raw text when the
// parser could not. An unrecoverable price marks the record with zero
// price confidence instead of failing.
func (c *Cleaner) cleanPrice(rec *domain.Record) {
	if !math.IsNaN(rec.Price) {
		rec.PriceConfidence = 1
		return
	}
	if rec.PriceRaw != "" {
		if price, ok := CleanPriceText(rec.PriceRaw); ok {
			rec.Price = price
			rec.PriceConfidence = 1
			return
		}
	}
	rec.PriceConfidence = 0
}

var priceStrip = regexp.MustCompile(`[^\d.,\-]`)

// CleanPriceText strips currency symbols and thousands separators from a
// raw price string and parses the remainder.
func CleanPriceText(text string) (float64, bool) {
	cleaned := priceStrip.ReplaceAllString(text, "")
	if cleaned == "" {
		return 0, false
	}

	// Decide whether commas are decimal or thousands separators.
	if strings.Contains(cleaned, ",") && strings.Contains(cleaned, ".") {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	} else if strings.Count(cleaned, ",") == 1 {
		parts := strings.SplitN(cleaned, ",", 2)
		if len(parts[1]) == 3 {
			cleaned = parts[0] + parts[1] // 1,299 -> 1299
		} else {
			cleaned = parts[0] + "." + parts[1] // 12,5 -> 12.5
		}
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// extremePriceBounds computes the batch's low and high percentile fences
// used by the price_extreme quality signal. Batches with fewer than three
// priced records have no meaningful extremes.
func extremePriceBounds(records []domain.Record, pct float64) (low, high float64, ok bool) {
	prices := make([]float64, 0, len(records))
	for i := range records {
		if !math.IsNaN(records[i].Price) {
			prices = append(prices, records[i].Price)
		}
	}
	if len(prices) < 3 || pct <= 0 || pct >= 0.5 {
		return 0, 0, false
	}
	sort.Float64s(prices)
	return quantileSorted(prices, pct), quantileSorted(prices, 1-pct), true
}

// quantileSorted returns the linearly interpolated q-quantile of a sorted
// slice.
func quantileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

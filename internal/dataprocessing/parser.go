package dataprocessing

import (
	"bufio"
	"bytes"
	"encoding/json"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"

	"shoppulse/internal/errors"
	"shoppulse/pkg/contracts/domain"
)

// timestampLayouts are tried in order when parsing created_at values.
// Scraped feeds are inconsistent: some emit full RFC3339, some drop the
// zone, some only carry a date.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ReadRawFile loads raw records from a JSON file. Accepted shapes are a
// JSON array of objects, a single JSON object (wrapped into a one-element
// batch) and newline-delimited JSON. Anything else is malformed input.
func ReadRawFile(path string) ([]domain.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewMalformedInputError(path, err)
	}
	return DecodeRaw(path, data)
}

// DecodeRaw decodes a raw payload into a record sequence. The source name
// is only used for error reporting.
func DecodeRaw(source string, data []byte) ([]domain.RawRecord, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n\xef\xbb\xbf")
	if len(trimmed) == 0 {
		return nil, errors.NewMalformedInputError(source, errEmptyInput)
	}

	switch trimmed[0] {
	case '[':
		var raws []domain.RawRecord
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, errors.NewMalformedInputError(source, err)
		}
		return raws, nil
	case '{':
		// A single object may be one record or the first line of NDJSON.
		if idx := bytes.IndexByte(trimmed, '\n'); idx > 0 && bytes.Contains(trimmed[idx:], []byte("{")) {
			return decodeNDJSON(source, trimmed)
		}
		var raw domain.RawRecord
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, errors.NewMalformedInputError(source, err)
		}
		return []domain.RawRecord{raw}, nil
	default:
		return nil, errors.NewMalformedInputError(source, errNotRecordSequence)
	}
}

func decodeNDJSON(source string, data []byte) ([]domain.RawRecord, error) {
	var raws []domain.RawRecord
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var raw domain.RawRecord
		if err := json.Unmarshal(line, &raw); err != nil {
			return nil, errors.NewMalformedInputError(source, err)
		}
		raws = append(raws, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewMalformedInputError(source, err)
	}
	return raws, nil
}

// ParseRawRecords coerces raw field maps into typed Records. Field-level
// problems never fail the batch: an uncoercible price becomes NaN with
// the original text preserved, an unparseable timestamp stays zero with
// its text preserved. The validator turns those sentinels into rejection
// reasons.
func ParseRawRecords(raws []domain.RawRecord) []domain.Record {
	records := make([]domain.Record, 0, len(raws))
	for _, raw := range raws {
		records = append(records, parseRecord(raw))
	}
	return records
}

func parseRecord(raw domain.RawRecord) domain.Record {
	rec := domain.Record{
		Source:      cast.ToString(field(raw, "source")),
		Name:        cast.ToString(field(raw, "name", "title")),
		Brand:       cast.ToString(field(raw, "brand")),
		Category:    cast.ToString(field(raw, "category")),
		Description: cast.ToString(field(raw, "description")),
	}

	rec.Price, rec.PriceRaw = parsePriceField(field(raw, "price"))
	rec.CreatedAt, rec.CreatedAtRaw = parseTimestampField(field(raw, "created_at", "createdat", "createdAt"))

	return rec
}

// field returns the first present key, tolerating the naming drift
// between scraper generations.
func field(raw domain.RawRecord, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v
		}
	}
	return nil
}

// parsePriceField coerces a raw price value. Numeric types pass through;
// text goes through the price cleaning routine (currency symbols and
// thousands separators stripped). An unrecoverable value yields NaN with
// the original text preserved for diagnostics.
func parsePriceField(v interface{}) (float64, string) {
	if v == nil {
		return math.NaN(), ""
	}
	if f, err := cast.ToFloat64E(v); err == nil {
		return f, ""
	}
	text := strings.TrimSpace(cast.ToString(v))
	if f, ok := CleanPriceText(text); ok {
		return f, text
	}
	return math.NaN(), text
}

func parseTimestampField(v interface{}) (time.Time, string) {
	if v == nil {
		return time.Time{}, ""
	}
	if t, ok := v.(time.Time); ok {
		return t, ""
	}
	text := strings.TrimSpace(cast.ToString(v))
	if text == "" {
		return time.Time{}, ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, text
		}
	}
	return time.Time{}, text
}

var (
	errEmptyInput        = errStr("empty input")
	errNotRecordSequence = errStr("input is neither a JSON array nor an object")
)

type errStr string

func (e errStr) Error() string { return string(e) }

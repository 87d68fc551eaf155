package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppulse/internal/config"
	"shoppulse/internal/errors"
	"shoppulse/pkg/contracts/domain"
)

const sampleFeed = `[
  {"source": "shop-a", "name": "Apple iPhone 13 128GB", "price": 999, "category": "phones", "created_at": "2024-03-01T10:00:00Z", "description": "latest model"},
  {"source": "shop-a", "name": "apple iphone 13 128gb", "price": 999, "category": "phones", "created_at": "2024-03-01T11:00:00Z"},
  {"source": "shop-b", "name": "Galaxy S21", "price": "$799.00", "category": "PHONES", "created_at": "2024-03-02"},
  {"source": "shop-b", "name": "TV", "price": 500, "category": "tvs", "created_at": "2024-03-02"},
  {"source": "", "name": "No Source Item", "price": 10, "category": "tvs", "created_at": "2024-03-02"},
  {"source": "shop-c", "name": "Weird Priced TV", "price": "call us", "category": "tvs", "created_at": "2024-03-03"}
]`

func testPipeline(t *testing.T) (*Pipeline, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Export.OutputDir = t.TempDir()

	p, err := New(&cfg, nil, nil)
	require.NoError(t, err)
	return p, &cfg
}

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Pipeline.PriceMax = 0

	_, err := New(&cfg, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.IsConfigurationError(err))
}

func TestProcessFile(t *testing.T) {
	p, _ := testPipeline(t)

	records, report, err := p.ProcessFile(context.Background(), writeFeed(t, sampleFeed))
	require.NoError(t, err)

	// 6 raw records: one name too short, one missing source, one with an
	// unrecoverable price; of the 3 valid the duplicate iPhone collapses.
	assert.Equal(t, 6, report.RawRecords)
	assert.Equal(t, 3, report.ValidRecords)
	assert.Equal(t, 1, report.DuplicatesDropped)
	assert.Equal(t, 2, report.UniqueRecords)
	assert.Len(t, records, 2)

	require.NotNil(t, report.Validation)
	assert.Equal(t, 1, report.Validation.ReasonCounts[domain.ReasonNameTooShort])
	assert.Equal(t, 1, report.Validation.ReasonCounts[domain.ReasonMissingSource])
	assert.Equal(t, 1, report.Validation.ReasonCounts[domain.ReasonPriceNotNumeric])

	// Cleaning happened: the iPhone picked up its brand and features.
	assert.Equal(t, "Apple", records[0].Brand)
	assert.True(t, records[0].HasFeature(domain.FeatureStorageGB))
	assert.True(t, records[0].Scored)

	// Category casing normalized on the Galaxy record.
	assert.Equal(t, "phones", records[1].Category)

	assert.NotEmpty(t, report.ID)
	assert.Greater(t, report.MeanQualityScore, 0.0)
	assert.Len(t, report.InputFiles, 1)
}

func TestProcessFileMalformed(t *testing.T) {
	p, _ := testPipeline(t)

	_, _, err := p.ProcessFile(context.Background(), writeFeed(t, "not json at all"))
	require.Error(t, err)
	assert.True(t, errors.IsMalformedInput(err))
}

func TestProcessAllRejected(t *testing.T) {
	p, _ := testPipeline(t)

	records := []domain.Record{
		{Source: "", Name: "No Source", Price: 10, Category: "tvs"},
	}

	cleaned, report := p.Process(context.Background(), records)
	assert.Empty(t, cleaned)
	assert.Equal(t, 1, report.RawRecords)
	assert.Zero(t, report.ValidRecords)
	assert.Zero(t, report.UniqueRecords)
	assert.Zero(t, report.MeanQualityScore)
}

func TestProcessEmptyBatch(t *testing.T) {
	p, _ := testPipeline(t)

	cleaned, report := p.Process(context.Background(), nil)
	assert.Empty(t, cleaned)
	assert.Zero(t, report.RawRecords)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))
}

func TestExportFillsReport(t *testing.T) {
	p, cfg := testPipeline(t)
	ctx := context.Background()

	records, report, err := p.ProcessFile(ctx, writeFeed(t, sampleFeed))
	require.NoError(t, err)

	require.NoError(t, p.Export(ctx, records, "cleaned", report))
	require.Len(t, report.ExportedFiles, 3)

	for format, path := range report.ExportedFiles {
		assert.Contains(t, path, cfg.Export.OutputDir, format)
		_, err := os.Stat(path)
		assert.NoError(t, err, format)
	}
}

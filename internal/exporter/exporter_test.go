package exporter

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shoppulse/internal/analysis"
	"shoppulse/internal/config"
	"shoppulse/pkg/contracts/domain"
)

func testExporter(t *testing.T) (*Exporter, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default().Export
	cfg.OutputDir = dir
	return New(cfg, nil), dir
}

func sampleRecords() []domain.Record {
	return []domain.Record{
		{
			Source: "shop-a", Name: "iPhone 13 128GB", Brand: "Apple",
			Category: "phones", Price: 999, Description: "latest model",
			CreatedAt:    time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			QualityScore: 100, Scored: true,
			Features: map[string]float64{domain.FeatureStorageGB: 128},
		},
		{
			Source: "shop-b", Name: "Generic TV", Category: "tvs", Price: 329.5,
			CreatedAt:    time.Date(2024, 3, 2, 11, 0, 0, 0, time.UTC),
			QualityScore: 55, Scored: true,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "CSV", want: FormatCSV},
		{in: " excel ", want: FormatExcel},
		{in: "xlsx", want: FormatExcel},
		{in: "parquet", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatExtension(t *testing.T) {
	assert.Equal(t, "json", FormatJSON.Extension())
	assert.Equal(t, "csv", FormatCSV.Extension())
	assert.Equal(t, "xlsx", FormatExcel.Extension())
}

func TestExportDatasetJSON(t *testing.T) {
	e, dir := testExporter(t)

	artifacts, err := e.ExportDataset(sampleRecords(), "cleaned", []Format{FormatJSON})
	require.NoError(t, err)
	require.Contains(t, artifacts, FormatJSON)

	data, err := os.ReadFile(filepath.Join(dir, "cleaned.json"))
	require.NoError(t, err)

	var roundtrip []domain.Record
	require.NoError(t, json.Unmarshal(data, &roundtrip))
	require.Len(t, roundtrip, 2)
	assert.Equal(t, "iPhone 13 128GB", roundtrip[0].Name)
	assert.Equal(t, 128.0, roundtrip[0].Features[domain.FeatureStorageGB])
}

func TestExportDatasetCSV(t *testing.T) {
	e, dir := testExporter(t)

	_, err := e.ExportDataset(sampleRecords(), "cleaned", []Format{FormatCSV})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "cleaned.csv"))
	require.NoError(t, err)

	// BOM prefix for Excel, then the header row.
	assert.True(t, strings.HasPrefix(string(data), "\xef\xbb\xbf"))

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\xef\xbb\xbf")))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, datasetHeaders, rows[0])
	assert.Equal(t, "999.00", rows[1][2])
	assert.Equal(t, "128.00", rows[1][8])
	// Missing features stay empty, not zero.
	assert.Equal(t, "", rows[2][8])
}

func TestExportDatasetExcel(t *testing.T) {
	e, dir := testExporter(t)

	_, err := e.ExportDataset(sampleRecords(), "cleaned", []Format{FormatExcel})
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(dir, "cleaned.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Products")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "iPhone 13 128GB", rows[1][1])
}

func TestExportDatasetAllFormats(t *testing.T) {
	e, _ := testExporter(t)

	formats, err := ParseFormats(config.Default().Export.Formats)
	require.NoError(t, err)

	artifacts, err := e.ExportDataset(sampleRecords(), "cleaned", formats)
	require.NoError(t, err)
	require.Len(t, artifacts, 3)

	for _, path := range artifacts {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestExportFormatsFailIndependently(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default().Export
	cfg.OutputDir = dir
	e := New(cfg, nil)

	// Pre-create a directory where the CSV file should go, forcing that
	// format to fail while JSON succeeds.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cleaned.csv"), 0755))

	artifacts, err := e.ExportDataset(sampleRecords(), "cleaned", []Format{FormatCSV, FormatJSON})
	require.Error(t, err)
	assert.NotContains(t, artifacts, FormatCSV)
	assert.Contains(t, artifacts, FormatJSON)
}

func TestExportSummary(t *testing.T) {
	e, dir := testExporter(t)

	a, err := analysis.New(sampleRecords(), config.Default().Analysis, nil)
	require.NoError(t, err)

	path, err := e.ExportSummary(a.Summary(), "summary")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "summary.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "descriptive")
	assert.Contains(t, decoded, "insights")
}

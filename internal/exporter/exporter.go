// Package exporter writes cleaned datasets and analysis reports to disk
// in the requested formats. The pipeline does not depend on an export
// succeeding to consider its own job complete; each format fails
// independently.
package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"shoppulse/internal/analysis"
	"shoppulse/internal/config"
	"shoppulse/internal/errors"
	"shoppulse/pkg/contracts/domain"
)

// datasetHeaders are the columns of CSV and Excel dataset exports.
var datasetHeaders = []string{
	"Source", "Name", "Price", "Brand", "Category", "Description",
	"CreatedAt", "QualityScore", "StorageGB", "RAMGB", "ScreenInches",
}

// Exporter is the export adapter: it receives a cleaned dataset or an
// analysis report and a set of target formats and returns a mapping from
// format to produced artifact path.
type Exporter struct {
	outDir    string
	bomPrefix bool
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// New creates an exporter writing into the configured output directory.
func New(cfg config.ExportConfig, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		outDir:    cfg.OutputDir,
		bomPrefix: cfg.CSVBOMPrefix,
		csvWriter: NewCSVWriter(logger),
		logger:    logger,
	}
}

// ExportDataset writes the dataset under baseName in every requested
// format. Formats fail independently: the returned map contains every
// artifact that was written, and the error wraps the first failure.
func (e *Exporter) ExportDataset(records []domain.Record, baseName string, formats []Format) (map[Format]string, error) {
	artifacts := make(map[Format]string, len(formats))
	var firstErr error

	for _, format := range formats {
		path := filepath.Join(e.outDir, fmt.Sprintf("%s.%s", baseName, format.Extension()))

		var err error
		switch format {
		case FormatJSON:
			err = e.writeJSON(path, records)
		case FormatCSV:
			err = e.writeDatasetCSV(path, records)
		case FormatExcel:
			err = e.writeDatasetExcel(path, records)
		default:
			err = fmt.Errorf("unknown export format %q", format)
		}

		if err != nil {
			e.logger.Error("export failed",
				slog.String("format", string(format)),
				slog.String("path", path),
				slog.String("error", err.Error()))
			if firstErr == nil {
				firstErr = errors.NewExportError(string(format), err)
			}
			continue
		}
		artifacts[format] = path
		e.logger.Info("exported dataset",
			slog.String("format", string(format)),
			slog.String("path", path),
			slog.Int("records", len(records)))
	}

	return artifacts, firstErr
}

// ExportSummary writes an analysis summary report as indented JSON.
func (e *Exporter) ExportSummary(report *analysis.SummaryReport, baseName string) (string, error) {
	path := filepath.Join(e.outDir, baseName+".json")
	if err := e.writeJSON(path, report); err != nil {
		return "", errors.NewExportError(string(FormatJSON), err)
	}
	e.logger.Info("exported summary report", slog.String("path", path))
	return path, nil
}

func (e *Exporter) writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func (e *Exporter) writeDatasetCSV(path string, records []domain.Record) error {
	rows := make([][]string, 0, len(records))
	for i := range records {
		rows = append(rows, datasetRow(&records[i]))
	}
	return e.csvWriter.WriteCSV(path, WriteOptions{
		Headers:   datasetHeaders,
		Records:   rows,
		BOMPrefix: e.bomPrefix,
	})
}

func (e *Exporter) writeDatasetExcel(path string, records []domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Products"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := make([]interface{}, len(datasetHeaders))
	for i, h := range datasetHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i := range records {
		rec := &records[i]
		storage, hasStorage := rec.Features[domain.FeatureStorageGB]
		ram, hasRAM := rec.Features[domain.FeatureRAMGB]
		screen, hasScreen := rec.Features[domain.FeatureScreenInches]

		row := []interface{}{
			rec.Source,
			rec.Name,
			rec.Price,
			rec.Brand,
			rec.Category,
			rec.Description,
			rec.CreatedAt.Format(time.RFC3339),
			rec.QualityScore,
		}
		row = append(row, excelCell(storage, hasStorage), excelCell(ram, hasRAM), excelCell(screen, hasScreen))

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// excelCell leaves missing features as empty cells rather than zeros.
func excelCell(v float64, ok bool) interface{} {
	if !ok {
		return nil
	}
	return v
}

func datasetRow(rec *domain.Record) []string {
	storage, hasStorage := rec.Features[domain.FeatureStorageGB]
	ram, hasRAM := rec.Features[domain.FeatureRAMGB]
	screen, hasScreen := rec.Features[domain.FeatureScreenInches]

	return []string{
		rec.Source,
		rec.Name,
		formatFloat(rec.Price),
		rec.Brand,
		rec.Category,
		rec.Description,
		rec.CreatedAt.Format(time.RFC3339),
		formatFloat(rec.QualityScore),
		formatOptionalFloat(storage, hasStorage),
		formatOptionalFloat(ram, hasRAM),
		formatOptionalFloat(screen, hasScreen),
	}
}

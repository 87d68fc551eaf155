// Command processor runs the full data-quality pipeline over one or more
// raw product files: parse, validate, clean, deduplicate, export.
//
// Usage:
//
//	processor [-config config.yaml] [-out cleaned_products] file1.json [file2.json ...]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"shoppulse/internal/config"
	"shoppulse/internal/dataprocessing"
	"shoppulse/internal/infrastructure"
	"shoppulse/internal/pipeline"
	"shoppulse/pkg/contracts/domain"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file (optional)")
	baseName := flag.String("out", "cleaned_products", "base name for exported artifacts")
	reportPath := flag.String("report", "", "write the processing report JSON to this path")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: processor [flags] file1.json [file2.json ...]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	p, err := pipeline.New(cfg, nil, logger)
	if err != nil {
		logger.Error("Failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()
	started := time.Now().UTC()

	files := flag.Args()
	batches := make([][]domain.Record, len(files))

	// Parse input files concurrently; order of the combined batch follows
	// the order files were given on the command line.
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raws, err := dataprocessing.ReadRawFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			batches[i] = dataprocessing.ParseRawRecords(raws)
			logger.Info("parsed input file",
				slog.String("path", path),
				slog.Int("records", len(batches[i])))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Failed to read input", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var records []domain.Record
	for _, batch := range batches {
		records = append(records, batch...)
	}

	cleaned, report := p.Process(ctx, records)
	report.InputFiles = files
	report.StartedAt = started

	if err := p.Export(ctx, cleaned, *baseName, report); err != nil {
		logger.Error("Export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *reportPath != "" {
		if err := writeReport(*reportPath, report); err != nil {
			logger.Error("Failed to write processing report",
				slog.String("path", *reportPath),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("processing complete",
		slog.Int("raw", report.RawRecords),
		slog.Int("valid", report.ValidRecords),
		slog.Int("unique", report.UniqueRecords),
		slog.Int("duplicates", report.DuplicatesDropped),
		slog.Float64("mean_quality", report.MeanQualityScore),
		slog.Duration("took", report.FinishedAt.Sub(report.StartedAt)))

	fmt.Printf("Processed %d records from %d file(s): %d valid, %d unique (%.1f%% pass rate)\n",
		report.RawRecords, len(files), report.ValidRecords, report.UniqueRecords,
		report.Validation.ValidationRate()*100)
	for format, path := range report.ExportedFiles {
		fmt.Printf("  %-5s -> %s\n", format, path)
	}
}

func writeReport(path string, report *domain.ProcessingReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

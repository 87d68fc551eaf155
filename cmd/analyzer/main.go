// Command analyzer runs the statistical analysis suite over a product
// dataset and writes the summary report as JSON. Input is either a raw
// product file (processed through the pipeline first) or an
// already-cleaned dataset export.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"shoppulse/internal/analysis"
	"shoppulse/internal/config"
	"shoppulse/internal/exporter"
	"shoppulse/internal/infrastructure"
	"shoppulse/internal/pipeline"
	"shoppulse/pkg/contracts/domain"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file (optional)")
	cleaned := flag.Bool("cleaned", false, "input is an already-cleaned dataset JSON export")
	baseName := flag.String("out", "analysis_summary", "base name for the summary JSON")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: analyzer [flags] input.json")
		flag.PrintDefaults()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	ctx := context.Background()

	records, err := loadRecords(ctx, cfg, logger, inputPath, *cleaned)
	if err != nil {
		logger.Error("Failed to load dataset",
			slog.String("path", inputPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	analyzer, err := analysis.New(records, cfg.Analysis, logger)
	if err != nil {
		logger.Error("Analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	summary := analyzer.Summary()

	out := exporter.New(cfg.Export, logger)
	path, err := out.ExportSummary(summary, *baseName)
	if err != nil {
		logger.Error("Failed to write summary", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Analyzed %d records -> %s\n", summary.TotalRecords, path)
	for _, insight := range summary.Insights {
		fmt.Printf("  [%s] %s\n", insight.Rule, insight.Message)
	}
}

// loadRecords reads the input either as a cleaned dataset export or as a
// raw file pushed through the full pipeline.
func loadRecords(ctx context.Context, cfg *config.Config, logger *slog.Logger, path string, cleaned bool) ([]domain.Record, error) {
	if cleaned {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var records []domain.Record
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	p, err := pipeline.New(cfg, nil, logger)
	if err != nil {
		return nil, err
	}
	records, report, err := p.ProcessFile(ctx, path)
	if err != nil {
		return nil, err
	}
	logger.Info("pipeline pre-processing complete",
		slog.Int("raw", report.RawRecords),
		slog.Int("unique", report.UniqueRecords))
	return records, nil
}

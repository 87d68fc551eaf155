// Package pipeline orchestrates the data-quality stages: parse, validate,
// clean, deduplicate and export. The pipeline is a pure transformation
// over in-memory batches; it holds no cross-call state and is safe to run
// per-file from independent goroutines.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shoppulse/internal/config"
	"shoppulse/internal/dataprocessing"
	"shoppulse/internal/exporter"
	"shoppulse/internal/infrastructure"
	"shoppulse/internal/validation"
	"shoppulse/pkg/contracts/domain"
)

// DatasetExporter writes a cleaned dataset in the requested formats and
// returns the produced artifact per format. Partial results are valid: a
// failed format does not discard artifacts already written.
type DatasetExporter interface {
	ExportDataset(records []domain.Record, baseName string, formats []exporter.Format) (map[exporter.Format]string, error)
}

// Pipeline wires the processing stages behind one entry point.
type Pipeline struct {
	cfg       *config.Config
	validator *validation.Validator
	cleaner   *dataprocessing.Cleaner
	exporter  DatasetExporter
	metrics   *infrastructure.Metrics
	logger    *slog.Logger
}

// New builds a pipeline from validated configuration. Stage constructors
// fail fast on unusable configuration; nothing is processed afterwards.
// Metrics may be nil when no instrumentation is wanted.
func New(cfg *config.Config, metrics *infrastructure.Metrics, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	validator, err := validation.NewValidator(cfg.Pipeline, logger)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:       cfg,
		validator: validator,
		cleaner:   dataprocessing.NewCleaner(cfg.Pipeline, logger),
		exporter:  exporter.New(cfg.Export, logger),
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// Process runs validate, clean and deduplicate over an already-parsed
// batch and returns the cleaned dataset with its processing report.
// Rejected records never abort the run; an all-rejected batch yields an
// empty dataset and a complete report.
func (p *Pipeline) Process(ctx context.Context, records []domain.Record) ([]domain.Record, *domain.ProcessingReport) {
	started := time.Now().UTC()

	report := &domain.ProcessingReport{
		ID:         uuid.NewString(),
		StartedAt:  started,
		RawRecords: len(records),
	}

	valid, validationReport := p.validator.Validate(records)
	report.Validation = validationReport
	report.ValidRecords = len(valid)

	cleaned := p.cleaner.Clean(valid)
	report.CleanedRecords = len(cleaned)

	unique := dataprocessing.Deduplicate(cleaned, p.cfg.Pipeline.DedupPricePrecision)
	report.UniqueRecords = len(unique)
	report.DuplicatesDropped = len(cleaned) - len(unique)
	report.MeanQualityScore = dataprocessing.MeanQualityScore(unique)
	report.FinishedAt = time.Now().UTC()

	p.observe(ctx, report)

	p.logger.Info("pipeline run complete",
		slog.String("report_id", report.ID),
		slog.Int("raw", report.RawRecords),
		slog.Int("valid", report.ValidRecords),
		slog.Int("unique", report.UniqueRecords),
		slog.Float64("mean_quality", report.MeanQualityScore))

	return unique, report
}

// ProcessFile reads one raw JSON file and runs Process over its records.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) ([]domain.Record, *domain.ProcessingReport, error) {
	raws, err := dataprocessing.ReadRawFile(path)
	if err != nil {
		return nil, nil, err
	}

	records := dataprocessing.ParseRawRecords(raws)
	cleaned, report := p.Process(ctx, records)
	report.InputFiles = []string{path}
	return cleaned, report, nil
}

// Export writes the cleaned dataset in the configured formats and records
// the produced artifacts on the report. Export failures do not undo the
// processing result.
func (p *Pipeline) Export(ctx context.Context, records []domain.Record, baseName string, report *domain.ProcessingReport) error {
	formats, err := exporter.ParseFormats(p.cfg.Export.Formats)
	if err != nil {
		return err
	}

	artifacts, err := p.exporter.ExportDataset(records, baseName, formats)
	if report != nil && len(artifacts) > 0 {
		report.ExportedFiles = make(map[string]string, len(artifacts))
		for format, path := range artifacts {
			report.ExportedFiles[string(format)] = path
		}
	}
	if p.metrics != nil {
		p.metrics.ExportsWritten.Add(ctx, int64(len(artifacts)))
	}
	return err
}

func (p *Pipeline) observe(ctx context.Context, report *domain.ProcessingReport) {
	if p.metrics == nil {
		return
	}
	p.metrics.RecordsIngested.Add(ctx, int64(report.RawRecords))
	p.metrics.RecordsRejected.Add(ctx, int64(report.RawRecords-report.ValidRecords))
	p.metrics.RecordsCleaned.Add(ctx, int64(report.CleanedRecords))
	p.metrics.DuplicatesDropped.Add(ctx, int64(report.DuplicatesDropped))
	p.metrics.PipelineDuration.Record(ctx, report.FinishedAt.Sub(report.StartedAt).Seconds())
}

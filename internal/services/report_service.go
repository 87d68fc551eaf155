// Package services holds the application services sitting between the
// HTTP transport and the processing packages.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"shoppulse/internal/analysis"
	"shoppulse/internal/config"
	apierrors "shoppulse/internal/errors"
	"shoppulse/internal/pipeline"
	"shoppulse/pkg/contracts"
	"shoppulse/pkg/contracts/domain"
)

// ReportService owns the currently loaded dataset and its analysis
// summary. It is safe for concurrent use by HTTP handlers.
type ReportService struct {
	cfg    *config.Config
	logger *slog.Logger

	mu      sync.RWMutex
	records []domain.Record
	summary *analysis.SummaryReport
	report  *domain.ProcessingReport
	loaded  time.Time
}

// NewReportService creates a report service with no dataset loaded.
func NewReportService(cfg *config.Config, logger *slog.Logger) *ReportService {
	return &ReportService{
		cfg:    cfg,
		logger: logger.With(slog.String("service", "report")),
	}
}

// LoadFile runs the full pipeline over a raw input file and replaces the
// current dataset and summary with the result.
func (s *ReportService) LoadFile(ctx context.Context, p *pipeline.Pipeline, path string) error {
	records, report, err := p.ProcessFile(ctx, path)
	if err != nil {
		return err
	}
	return s.SetDataset(ctx, records, report)
}

// SetDataset replaces the current dataset with an already-processed batch
// and recomputes the analysis summary.
func (s *ReportService) SetDataset(ctx context.Context, records []domain.Record, report *domain.ProcessingReport) error {
	analyzer, err := analysis.New(records, s.cfg.Analysis, s.logger)
	if err != nil {
		return err
	}
	summary := analyzer.Summary()

	s.mu.Lock()
	s.records = records
	s.summary = summary
	s.report = report
	s.loaded = time.Now().UTC()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("records", len(records)),
		slog.Int("insights", len(summary.Insights)))
	return nil
}

// Summary returns the full analysis summary for the loaded dataset.
func (s *ReportService) Summary(ctx context.Context) (*analysis.SummaryReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil {
		return nil, apierrors.ErrDatasetNotFound
	}
	return s.summary, nil
}

// Analysis returns one named analysis section from the summary.
func (s *ReportService) Analysis(ctx context.Context, name string) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil {
		return nil, apierrors.ErrDatasetNotFound
	}
	section, ok := s.summary.Analysis(name)
	if !ok {
		return nil, apierrors.ErrAnalysisNotFound
	}
	return section, nil
}

// ProcessingReport returns the report of the pipeline run that produced
// the loaded dataset, or nil when the dataset was set directly.
func (s *ReportService) ProcessingReport(ctx context.Context) (*domain.ProcessingReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil {
		return nil, apierrors.ErrDatasetNotFound
	}
	return s.report, nil
}

// HealthStatus describes the service state for health probes.
type HealthStatus struct {
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	DatasetLoaded bool      `json:"dataset_loaded"`
	Records       int       `json:"records"`
	LoadedAt      time.Time `json:"loaded_at,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Health reports whether a dataset is loaded and how big it is.
func (s *ReportService) Health(ctx context.Context) HealthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return HealthStatus{
		Status:        "healthy",
		Version:       contracts.Version,
		DatasetLoaded: s.summary != nil,
		Records:       len(s.records),
		LoadedAt:      s.loaded,
		Timestamp:     time.Now().UTC(),
	}
}

package http

import (
	"context"

	"shoppulse/internal/analysis"
	"shoppulse/internal/services"
	"shoppulse/pkg/contracts/domain"
)

// ReportService is the interface the analysis handlers depend on.
type ReportService interface {
	Summary(ctx context.Context) (*analysis.SummaryReport, error)
	Analysis(ctx context.Context, name string) (interface{}, error)
	ProcessingReport(ctx context.Context) (*domain.ProcessingReport, error)
	Health(ctx context.Context) services.HealthStatus
}

package infrastructure

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"shoppulse/pkg/contracts"
)

// MeterName is the instrumentation scope for pipeline metrics.
const MeterName = "shoppulse/pipeline"

// Metrics holds the pipeline instruments, exported in Prometheus format
// through an OTel meter provider.
type Metrics struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider

	RecordsIngested   metric.Int64Counter
	RecordsRejected   metric.Int64Counter
	RecordsCleaned    metric.Int64Counter
	DuplicatesDropped metric.Int64Counter
	PipelineDuration  metric.Float64Histogram
	ExportsWritten    metric.Int64Counter
}

// NewMetrics creates the meter provider with a Prometheus reader and
// registers the pipeline instruments.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(MeterName, metric.WithInstrumentationVersion(contracts.Version))

	m := &Metrics{
		registry: registry,
		provider: provider,
	}

	if m.RecordsIngested, err = meter.Int64Counter("records_ingested_total",
		metric.WithDescription("Raw records read at the ingestion boundary")); err != nil {
		return nil, err
	}
	if m.RecordsRejected, err = meter.Int64Counter("records_rejected_total",
		metric.WithDescription("Records dropped by validation")); err != nil {
		return nil, err
	}
	if m.RecordsCleaned, err = meter.Int64Counter("records_cleaned_total",
		metric.WithDescription("Records enriched by the cleaner")); err != nil {
		return nil, err
	}
	if m.DuplicatesDropped, err = meter.Int64Counter("duplicates_dropped_total",
		metric.WithDescription("Records removed by deduplication")); err != nil {
		return nil, err
	}
	if m.PipelineDuration, err = meter.Float64Histogram("pipeline_duration_seconds",
		metric.WithDescription("Wall time of a full pipeline run"),
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.ExportsWritten, err = meter.Int64Counter("exports_written_total",
		metric.WithDescription("Exported artifacts by format")); err != nil {
		return nil, err
	}

	return m, nil
}

// Handler returns an HTTP handler serving the Prometheus scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

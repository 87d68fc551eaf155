package infrastructure

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordAndScrape(t *testing.T) {
	m, err := NewMetrics()
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	ctx := context.Background()
	m.RecordsIngested.Add(ctx, 10)
	m.RecordsRejected.Add(ctx, 2)
	m.PipelineDuration.Record(ctx, 0.25)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(w, r)

	body := w.Body.String()
	assert.Contains(t, body, "records_ingested_total")
	assert.Contains(t, body, "records_rejected_total")
	assert.Contains(t, body, "pipeline_duration_seconds")
}

func TestMetricsIndependentRegistries(t *testing.T) {
	m1, err := NewMetrics()
	require.NoError(t, err)
	m2, err := NewMetrics()
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = m1.Shutdown(context.Background())
		_ = m2.Shutdown(context.Background())
	})

	m1.RecordsIngested.Add(context.Background(), 5)

	w := httptest.NewRecorder()
	m2.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.NotContains(t, w.Body.String(), `records_ingested_total{`)
}

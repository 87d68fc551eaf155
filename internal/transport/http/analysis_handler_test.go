package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoppulse/internal/analysis"
	apierrors "shoppulse/internal/errors"
	"shoppulse/internal/services"
	"shoppulse/pkg/contracts/domain"
)

// stubReportService implements ReportService for handler tests.
type stubReportService struct {
	summary *analysis.SummaryReport
	report  *domain.ProcessingReport
	err     error
}

func (s *stubReportService) Summary(ctx context.Context) (*analysis.SummaryReport, error) {
	return s.summary, s.err
}

func (s *stubReportService) Analysis(ctx context.Context, name string) (interface{}, error) {
	if s.err != nil {
		return nil, s.err
	}
	section, ok := s.summary.Analysis(name)
	if !ok {
		return nil, apierrors.ErrAnalysisNotFound
	}
	return section, nil
}

func (s *stubReportService) ProcessingReport(ctx context.Context) (*domain.ProcessingReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func (s *stubReportService) Health(ctx context.Context) services.HealthStatus {
	return services.HealthStatus{
		Status:        "healthy",
		DatasetLoaded: s.summary != nil,
		Timestamp:     time.Now().UTC(),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSummary() *analysis.SummaryReport {
	return &analysis.SummaryReport{
		ID:           "report-1",
		GeneratedAt:  time.Now().UTC(),
		TotalRecords: 2,
		Descriptive:  &analysis.DescriptiveStats{TotalRecords: 2},
		Brand:        &analysis.BrandAnalysis{TotalBranded: 2},
	}
}

func testRouter(svc ReportService) chi.Router {
	r := chi.NewRouter()
	NewAnalysisHandler(svc, testLogger()).RegisterRoutes(r)
	return r
}

func TestGetSummary(t *testing.T) {
	r := testRouter(&stubReportService{summary: testSummary()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analysis/", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "report-1", body["id"])
	assert.EqualValues(t, 2, body["total_records"])
}

func TestGetSummaryNoDataset(t *testing.T) {
	r := testRouter(&stubReportService{err: apierrors.ErrDatasetNotFound})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analysis/", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), apierrors.CodeDatasetNotFound)
}

func TestGetAnalysisSection(t *testing.T) {
	r := testRouter(&stubReportService{summary: testSummary()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analysis/brand", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "brand", body["name"])
	assert.NotNil(t, body["result"])
}

func TestGetAnalysisUnknownName(t *testing.T) {
	r := testRouter(&stubReportService{summary: testSummary()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analysis/sentiment", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), apierrors.CodeAnalysisNotFound)
}

func TestGetAnalysisInternalError(t *testing.T) {
	r := testRouter(&stubReportService{err: context.DeadlineExceeded})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analysis/brand", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), apierrors.CodeInternal)
}

func TestGetProcessingReport(t *testing.T) {
	svc := &stubReportService{
		summary: testSummary(),
		report:  &domain.ProcessingReport{ID: "run-1", RawRecords: 10},
	}
	r := testRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/report", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "run-1")
}

func TestGetProcessingReportAbsent(t *testing.T) {
	r := testRouter(&stubReportService{summary: testSummary()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/report", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

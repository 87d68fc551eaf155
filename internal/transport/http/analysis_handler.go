package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"shoppulse/internal/analysis"
	apierrors "shoppulse/internal/errors"
)

// AnalysisHandler serves the analysis summary and its sections.
type AnalysisHandler struct {
	service ReportService
	logger  *slog.Logger
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(service ReportService, logger *slog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  logger.With(slog.String("handler", "analysis")),
	}
}

// RegisterRoutes registers the analysis routes.
func (h *AnalysisHandler) RegisterRoutes(r chi.Router) {
	r.Route("/analysis", func(r chi.Router) {
		r.Get("/", h.GetSummary)
		r.Get("/{name}", h.GetAnalysis)
	})
	r.Get("/report", h.GetProcessingReport)
}

// GetSummary handles GET /api/analysis.
func (h *AnalysisHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	summary, err := h.service.Summary(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetAnalysis handles GET /api/analysis/{name}.
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	section, err := h.service.Analysis(ctx, name)
	if err != nil {
		if errors.Is(err, apierrors.ErrAnalysisNotFound) {
			h.logger.WarnContext(ctx, "unknown analysis requested",
				slog.String("name", name),
				slog.Any("known", analysis.Names()))
		}
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"name":   name,
		"result": section,
	})
}

// GetProcessingReport handles GET /api/report.
func (h *AnalysisHandler) GetProcessingReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.ProcessingReport(ctx)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if report == nil {
		h.renderError(w, r, apierrors.New(http.StatusNotFound,
			apierrors.CodeDatasetNotFound, "dataset was loaded without a pipeline run"))
		return
	}
	render.JSON(w, r, report)
}

func (h *AnalysisHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	var perr *apierrors.PipelineError
	if !errors.As(err, &perr) {
		h.logger.ErrorContext(r.Context(), "unexpected handler error",
			slog.String("error", err.Error()))
		perr = apierrors.ErrInternalServer
	}
	render.Render(w, r, perr)
}

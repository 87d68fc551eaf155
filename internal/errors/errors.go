package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Error codes used across the pipeline and the report API.
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeEmptyDataset     = "EMPTY_DATASET"
	CodeMalformedInput   = "MALFORMED_INPUT"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeExportFailed     = "EXPORT_FAILED"
	CodeDatasetNotFound  = "DATASET_NOT_FOUND"
	CodeAnalysisNotFound = "ANALYSIS_NOT_FOUND"
	CodeInternal         = "INTERNAL_ERROR"
)

// PipelineError is a structured error carrying a stable code, suitable
// both for wrapping in the CLI and for rendering as a JSON API response.
type PipelineError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Render implements the render.Renderer interface for chi/render
func (e *PipelineError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new PipelineError with the given parameters
func New(statusCode int, errorCode, message string) *PipelineError {
	return &PipelineError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new PipelineError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *PipelineError {
	return &PipelineError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// NewConfigurationError reports invalid or missing configuration. It is
// the only fatal error class raised before record processing starts.
func NewConfigurationError(message string) *PipelineError {
	return New(http.StatusInternalServerError, CodeConfigInvalid, message)
}

// NewMalformedInputError reports raw input that is not a well-formed
// sequence of records at all (the ingestion boundary failure mode).
func NewMalformedInputError(source string, err error) *PipelineError {
	return NewWithDetails(http.StatusBadRequest, CodeMalformedInput,
		fmt.Sprintf("input %s is not a well-formed record sequence", source), err.Error())
}

// NewEmptyDatasetError reports an analyzer constructed over a dataset it
// can do nothing with. This is a setup error, raised before first use.
func NewEmptyDatasetError(message string) *PipelineError {
	return New(http.StatusUnprocessableEntity, CodeEmptyDataset, message)
}

// NewInsufficientDataError marks a statistic that cannot be computed from
// the available data. Sibling analyses are unaffected.
func NewInsufficientDataError(metric string) *PipelineError {
	return New(http.StatusUnprocessableEntity, CodeInsufficientData,
		fmt.Sprintf("insufficient data to compute %s", metric))
}

// NewExportError reports a failed artifact write for one format.
func NewExportError(format string, err error) *PipelineError {
	return NewWithDetails(http.StatusInternalServerError, CodeExportFailed,
		fmt.Sprintf("failed to export %s artifact", format), err.Error())
}

// Predefined errors for the report API.
var (
	ErrDatasetNotFound  = New(http.StatusNotFound, CodeDatasetNotFound, "no processed dataset loaded")
	ErrAnalysisNotFound = New(http.StatusNotFound, CodeAnalysisNotFound, "unknown analysis name")
	ErrInternalServer   = New(http.StatusInternalServerError, CodeInternal, "internal server error")
)

// IsConfigurationError reports whether err is a configuration failure.
func IsConfigurationError(err error) bool {
	return hasCode(err, CodeConfigInvalid)
}

// IsMalformedInput reports whether err is an ingestion boundary failure.
func IsMalformedInput(err error) bool {
	return hasCode(err, CodeMalformedInput)
}

// IsInsufficientData reports whether err marks an uncomputable statistic.
func IsInsufficientData(err error) bool {
	return hasCode(err, CodeInsufficientData)
}

func hasCode(err error, code string) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.ErrorCode == code
	}
	return false
}

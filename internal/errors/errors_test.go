package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineErrorMessage(t *testing.T) {
	err := New(http.StatusBadRequest, CodeMalformedInput, "bad payload")
	assert.Equal(t, "MALFORMED_INPUT: bad payload", err.Error())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *PipelineError
		wantStatus int
		wantCode   string
	}{
		{
			name:       "configuration",
			err:        NewConfigurationError("price_max must be positive"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeConfigInvalid,
		},
		{
			name:       "malformed input",
			err:        NewMalformedInputError("feed.json", fmt.Errorf("unexpected token")),
			wantStatus: http.StatusBadRequest,
			wantCode:   CodeMalformedInput,
		},
		{
			name:       "empty dataset",
			err:        NewEmptyDatasetError("nothing to analyze"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   CodeEmptyDataset,
		},
		{
			name:       "insufficient data",
			err:        NewInsufficientDataError("skewness"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   CodeInsufficientData,
		},
		{
			name:       "export",
			err:        NewExportError("csv", fmt.Errorf("disk full")),
			wantStatus: http.StatusInternalServerError,
			wantCode:   CodeExportFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestCodePredicates(t *testing.T) {
	cfgErr := NewConfigurationError("bad")
	assert.True(t, IsConfigurationError(cfgErr))
	assert.False(t, IsMalformedInput(cfgErr))

	// Predicates unwrap.
	wrapped := fmt.Errorf("loading: %w", NewMalformedInputError("x", fmt.Errorf("eof")))
	assert.True(t, IsMalformedInput(wrapped))

	assert.False(t, IsConfigurationError(fmt.Errorf("plain error")))
	assert.False(t, IsConfigurationError(nil))
}

func TestRenderSetsStatus(t *testing.T) {
	err := NewEmptyDatasetError("no records")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/analysis", nil)

	require.NoError(t, render.Render(w, r, err))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), CodeEmptyDataset)
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-analyzer/internal/fetch"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/scoring"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &ErrValidation{Field: "resume", Message: "required"}, http.StatusBadRequest},
		{"unknown strategy", &scoring.UnknownStrategyError{Name: "fuzzy"}, http.StatusBadRequest},
		{"unknown name strategy", &parsing.StrategyError{Kind: "name", Name: "guess"}, http.StatusBadRequest},
		{"unknown section", &rendering.SectionError{Name: "radar"}, http.StatusBadRequest},
		{"report not found", &ErrReportNotFound{ID: "x"}, http.StatusNotFound},
		{"unsupported format", &ingestion.UnsupportedFormatError{MIME: "image/png"}, http.StatusUnsupportedMediaType},
		{"extraction", &ingestion.ExtractionError{Format: "pdf", Message: "corrupt"}, http.StatusUnprocessableEntity},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"fetch", &fetch.Error{URL: "https://example.com", Message: "status 503"}, http.StatusBadGateway},
		{"wrapped", fmt.Errorf("analyze: %w", &ErrValidation{Field: "f"}), http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "internal error", errorMessage(errors.New("database password leaked")))
	assert.Equal(t, "report not found: abc", errorMessage(&ErrReportNotFound{ID: "abc"}))

	err := newValidator().Struct(MatchRequest{JobURL: "nope"})
	var fields validator.ValidationErrors
	assert.ErrorAs(t, err, &fields)
	msg := errorMessage(err)
	assert.Contains(t, msg, "resume_text: is required")
	assert.Contains(t, msg, "job_url: must be a valid URL")
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-analyzer/internal/fetch"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/rendering"
	"github.com/jonathan/resume-analyzer/internal/scoring"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrReportNotFound indicates the report expired or never existed
type ErrReportNotFound struct {
	ID string
}

func (e *ErrReportNotFound) Error() string {
	return fmt.Sprintf("report not found: %s", e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation  *ErrValidation
		notFound    *ErrReportNotFound
		unsupported *ingestion.UnsupportedFormatError
		extraction  *ingestion.ExtractionError
		tooLarge    *http.MaxBytesError
		unknown     *scoring.UnknownStrategyError
		nameErr     *parsing.StrategyError
		sections    *rendering.SectionError
		fetchErr    *fetch.Error
		fields      validator.ValidationErrors
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &fields),
		errors.As(err, &unknown), errors.As(err, &nameErr), errors.As(err, &sections):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extraction):
		return http.StatusUnprocessableEntity
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage renders err for a client. Validator errors become
// "field: rule" pairs; internal errors are not exposed.
func errorMessage(err error) string {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		parts := make([]string, len(fields))
		for i, fe := range fields {
			parts[i] = fmt.Sprintf("%s: %s", fe.Field(), describeRule(fe))
		}
		return "validation error: " + strings.Join(parts, "; ")
	}
	if HTTPStatus(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "url":
		return "must be a valid URL"
	default:
		return "failed " + fe.Tag()
	}
}

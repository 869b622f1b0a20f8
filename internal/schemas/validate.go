// Package schemas validates analyzer output against the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-analyzer/internal/types"
	schemafiles "github.com/jonathan/resume-analyzer/schemas"
)

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single violation at a field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, err.Field, err.Message)
	}
	return sb.String()
}

// SchemaLoadError reports a schema, or a document, that could not be loaded.
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	reportOnce   sync.Once
	reportSchema *gojsonschema.Schema
	reportErr    error
)

func loadReportSchema() (*gojsonschema.Schema, error) {
	reportOnce.Do(func() {
		data, err := schemafiles.FS.ReadFile(schemafiles.Report)
		if err != nil {
			reportErr = &SchemaLoadError{Path: schemafiles.Report, Message: "embedded schema missing", Cause: err}
			return
		}
		reportSchema, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			reportErr = &SchemaLoadError{Path: schemafiles.Report, Message: "invalid schema", Cause: err}
		}
	})
	return reportSchema, reportErr
}

// ValidateReport checks a report against the report schema.
func ValidateReport(report *types.Report) error {
	schema, err := loadReportSchema()
	if err != nil {
		return err
	}
	return check(schema, gojsonschema.NewGoLoader(report), schemafiles.Report)
}

// ValidateReportJSON checks serialized report JSON against the report schema.
func ValidateReportJSON(data []byte) error {
	schema, err := loadReportSchema()
	if err != nil {
		return err
	}
	return check(schema, gojsonschema.NewBytesLoader(data), schemafiles.Report)
}

// ValidateReportFile checks the report JSON file at path.
func ValidateReportFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("JSON file not found: %s", path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ValidateReportJSON(data)
}

// ValidateJSONString validates JSON content against schema content.
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return &SchemaLoadError{Path: "(string schema)", Message: "invalid schema", Cause: err}
	}
	return check(schema, gojsonschema.NewStringLoader(jsonContent), "(string schema)")
}

func check(schema *gojsonschema.Schema, doc gojsonschema.JSONLoader, path string) error {
	result, err := schema.Validate(doc)
	if err != nil {
		return &SchemaLoadError{Path: path, Message: "document could not be loaded", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return validationErr
}

// Package rendering turns analysis reports into text and PDF documents.
package rendering

import "fmt"

// TemplateError reports a report template that cannot be parsed or executed
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports a failure producing a document
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// SectionError reports an unknown report section name
type SectionError struct {
	Name string
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("unknown section %q (want one of %s)", e.Name, sectionNames())
}

package ingestion

import "fmt"

// ExtractionError reports a document that could not be read at all.
type ExtractionError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s extraction failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s extraction failed: %s", e.Format, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// UnsupportedFormatError reports a document whose type has no extractor.
type UnsupportedFormatError struct {
	MIME     string
	Filename string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Filename != "" {
		return fmt.Sprintf("unsupported document type %s for %s", e.MIME, e.Filename)
	}
	return fmt.Sprintf("unsupported document type %s", e.MIME)
}

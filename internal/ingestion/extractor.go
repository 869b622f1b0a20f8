// Package ingestion turns uploaded documents and job descriptions into cleaned plain text.
package ingestion

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Supported document MIME types.
const (
	MIMEPDF   = "application/pdf"
	MIMEDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPlain = "text/plain"
	MIMEHTML  = "text/html"
)

// TextExtractor turns a document's raw bytes into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorFunc adapts a function to TextExtractor.
type ExtractorFunc func(ctx context.Context, data []byte) (string, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, data []byte) (string, error) {
	return f(ctx, data)
}

// PDFExtractor reads the text layer of a PDF page by page.
type PDFExtractor struct{}

// Extract implements TextExtractor. Pages without a text layer are skipped;
// a document that cannot be parsed at all is an ExtractionError.
func (PDFExtractor) Extract(ctx context.Context, data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", &ExtractionError{Format: "pdf", Message: "empty document"}
	}
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &ExtractionError{Format: "pdf", Message: "malformed document", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "pdf", Message: "failed to open document", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Format: "pdf", Message: fmt.Sprintf("failed to read page %d", i), Cause: err}
		}
		sb.WriteString(pageText)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// DocxExtractor reads the paragraphs of a Word document.
type DocxExtractor struct{}

// Extract implements TextExtractor.
func (DocxExtractor) Extract(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", &ExtractionError{Format: "docx", Message: "empty document"}
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "docx", Message: "failed to open document", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	text, err := wordXMLText(doc.Editable().GetContent())
	if err != nil {
		return "", &ExtractionError{Format: "docx", Message: "failed to parse document body", Cause: err}
	}
	return text, nil
}

// wordXMLText collects the <w:t> runs of a WordprocessingML body, one line per paragraph.
func wordXMLText(body string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(body))
	var sb strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteString("\t")
			case "br":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}

// PlainTextExtractor returns the bytes as text.
type PlainTextExtractor struct{}

// Extract implements TextExtractor.
func (PlainTextExtractor) Extract(_ context.Context, data []byte) (string, error) {
	return string(data), nil
}

// DetectingExtractor sniffs the content type of a document and dispatches to
// the matching extractor. Filenames break ties when sniffing only finds a
// generic container type.
type DetectingExtractor struct {
	PDF   TextExtractor
	Docx  TextExtractor
	Plain TextExtractor
}

// NewDetectingExtractor returns a DetectingExtractor backed by the built-in extractors.
func NewDetectingExtractor() *DetectingExtractor {
	return &DetectingExtractor{PDF: PDFExtractor{}, Docx: DocxExtractor{}, Plain: PlainTextExtractor{}}
}

// Extract implements TextExtractor.
func (d *DetectingExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	return d.ExtractNamed(ctx, "", data)
}

// ExtractNamed extracts data, using filename as a hint for the format.
func (d *DetectingExtractor) ExtractNamed(ctx context.Context, filename string, data []byte) (string, error) {
	kind := DetectMIME(filename, data)
	switch kind {
	case MIMEPDF:
		return d.PDF.Extract(ctx, data)
	case MIMEDocx:
		return d.Docx.Extract(ctx, data)
	case MIMEPlain:
		return d.Plain.Extract(ctx, data)
	default:
		return "", &UnsupportedFormatError{MIME: kind, Filename: filename}
	}
}

// DetectMIME returns one of the supported MIME constants for data, or the
// sniffed type when it is not supported.
func DetectMIME(filename string, data []byte) string {
	m := mimetype.Detect(data)
	ext := strings.ToLower(filepath.Ext(filename))
	switch {
	case m.Is(MIMEPDF):
		return MIMEPDF
	case m.Is(MIMEDocx):
		return MIMEDocx
	case m.Is("application/zip") && ext == ".docx":
		return MIMEDocx
	case m.Is(MIMEPlain):
		return MIMEPlain
	case strings.HasPrefix(m.String(), "text/") && (ext == ".txt" || ext == ".md"):
		return MIMEPlain
	default:
		return m.String()
	}
}

// Allowed reports whether kind is a resume format this package can read.
func Allowed(kind string) bool {
	switch kind {
	case MIMEPDF, MIMEDocx, MIMEPlain:
		return true
	}
	return false
}

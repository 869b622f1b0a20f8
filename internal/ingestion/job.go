package ingestion

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/resume-analyzer/internal/fetch"
)

// JobPageFetcher returns the main text of a job posting page.
type JobPageFetcher interface {
	JobText(ctx context.Context, url string) (string, error)
}

// JobSource resolves a job description argument. The argument may be a URL,
// a path to a text or HTML file, or the description text itself.
type JobSource struct {
	Fetcher JobPageFetcher
}

// Resolve returns the cleaned job description for arg. An empty arg yields an
// empty document, which downstream matching reports as having no skills.
func (s JobSource) Resolve(ctx context.Context, arg string) (*Document, error) {
	arg = strings.TrimSpace(arg)
	switch {
	case arg == "":
		return &Document{Metadata: NewMetadata("", "", "")}, nil
	case isURL(arg):
		return s.FromURL(ctx, arg)
	case !strings.ContainsAny(arg, "\n") && fileExists(arg):
		return JobFromFile(arg)
	default:
		return JobFromText(arg), nil
	}
}

// FromURL fetches a posting and cleans its main text.
func (s JobSource) FromURL(ctx context.Context, rawURL string) (*Document, error) {
	if s.Fetcher == nil {
		return nil, fmt.Errorf("no fetcher configured for %s", rawURL)
	}
	text, err := s.Fetcher.JobText(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	cleaned := CleanText(text)
	return &Document{Text: cleaned, Metadata: NewMetadata(rawURL, MIMEHTML, cleaned)}, nil
}

// JobFromText cleans a pasted job description.
func JobFromText(text string) *Document {
	cleaned := CleanText(text)
	return &Document{Text: cleaned, Metadata: NewMetadata("inline", MIMEPlain, cleaned)}
}

// JobFromHTML reduces a saved posting page to its main text.
func JobFromHTML(source, html string) (*Document, error) {
	text, err := fetch.ExtractMainText(html, fetch.JobPostingSelectors(), fetch.PlatformNoiseSelectors(fetch.PlatformUnknown)...)
	if err != nil {
		return nil, &ExtractionError{Format: "html", Message: "failed to parse page", Cause: err}
	}
	cleaned := CleanText(text)
	return &Document{Text: cleaned, Metadata: NewMetadata(source, MIMEHTML, cleaned)}, nil
}

// JobFromFile reads a job description from a text or HTML file.
func JobFromFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" || mimetype.Detect(data).Is(MIMEHTML) {
		return JobFromHTML(path, string(data))
	}
	doc := JobFromText(string(data))
	doc.Metadata.Source = path
	return doc, nil
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Package fetch downloads job description pages and reduces them to plain text.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/logger"
)

// Defaults for Options.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultUserAgent  = "Mozilla/5.0 (compatible; ResumeAnalyzer/1.0)"
	DefaultMaxBytes   = 5 << 20
	DefaultMaxElapsed = 20 * time.Second
)

// Result is a fetched page.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error reports a failed fetch.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures a Fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
	// MaxElapsed bounds the total time spent retrying 5xx and transport errors.
	// Zero disables retries.
	MaxElapsed time.Duration
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
		MaxBytes:   DefaultMaxBytes,
		MaxElapsed: DefaultMaxElapsed,
	}
}

// Renderer renders a JavaScript-heavy page and returns its HTML.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Fetcher retrieves job description pages over HTTP, optionally falling back
// to a Renderer when the static HTML holds too little text.
type Fetcher struct {
	client   *http.Client
	opts     Options
	renderer Renderer
	log      *zap.Logger
}

// New creates a Fetcher. renderer may be nil to disable the browser fallback.
func New(opts Options, renderer Renderer, log *zap.Logger) *Fetcher {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = def.MaxBytes
	}
	return &Fetcher{
		client:   &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		renderer: renderer,
		log:      logger.OrNop(log),
	}
}

// Get downloads urlStr. Transport errors and 5xx responses are retried with
// exponential backoff; other non-200 statuses fail immediately.
func (f *Fetcher) Get(ctx context.Context, urlStr string) (*Result, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	var result *Result
	op := func() error {
		res, err := f.get(ctx, urlStr)
		result = res
		return err
	}

	if f.opts.MaxElapsed <= 0 {
		err = op()
	} else {
		expo := backoff.NewExponentialBackOff()
		expo.MaxElapsedTime = f.opts.MaxElapsed
		err = backoff.RetryNotify(op, backoff.WithContext(expo, ctx), func(err error, wait time.Duration) {
			f.log.Debug("retrying fetch", zap.String("url", urlStr), zap.Duration("wait", wait), zap.Error(err))
		})
	}
	if err != nil {
		var fetchErr *Error
		if errors.As(err, &fetchErr) {
			return result, fetchErr
		}
		return result, &Error{URL: urlStr, Message: "request failed", Cause: err}
	}
	return result, nil
}

func (f *Fetcher) get(ctx context.Context, urlStr string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, backoff.Permanent(&Error{URL: urlStr, Message: "failed to create request", Cause: err})
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.opts.MaxBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return result, nil
	case resp.StatusCode >= 500:
		return result, &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	default:
		return result, backoff.Permanent(&Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)})
	}
}

// JobText fetches a job posting and returns its main text, using
// platform-specific selectors. When the extracted text is shorter than
// MinContentLength and a Renderer is configured, the page is rendered in a
// browser and re-extracted; a failing render keeps the HTTP text.
func (f *Fetcher) JobText(ctx context.Context, urlStr string) (string, error) {
	platform := DetectPlatform(urlStr)
	content, noise := PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)

	res, err := f.Get(ctx, urlStr)
	if err != nil {
		return "", err
	}
	text, err := ExtractMainText(res.HTML, content, noise...)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "content extraction failed", Cause: err}
	}
	f.log.Debug("fetched job page",
		zap.String("url", urlStr),
		zap.String("platform", string(platform)),
		zap.Int("html_bytes", len(res.HTML)),
		zap.Int("text_chars", len(text)))

	if f.renderer == nil || !ShouldUseBrowser(text) {
		return text, nil
	}

	html, err := f.renderer.Render(ctx, urlStr)
	if err != nil {
		f.log.Warn("browser rendering failed, keeping HTTP content", zap.String("url", urlStr), zap.Error(err))
		return text, nil
	}
	rendered, err := ExtractMainText(html, content, noise...)
	if err != nil {
		f.log.Warn("rendered content extraction failed", zap.String("url", urlStr), zap.Error(err))
		return text, nil
	}
	return rendered, nil
}

// ExtractMainText parses html, drops navigation and noiseSelectors, and
// returns the text of the first element matching contentSelectors, or of
// <body> when none match.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	root := doc.Find("body")
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			root = sel.First()
			break
		}
	}

	// Block elements are separated by newlines so lines survive text extraction.
	root.Find("p, li, h1, h2, h3, h4, h5, h6, br, div, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return collapseLines(root.Text()), nil
}

// JobPostingSelectors are the content selectors for unrecognized job boards.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		"#job-description",
		".job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		"#content",
	}
}

func collapseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

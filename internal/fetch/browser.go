package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/logger"
)

// MinContentLength is the shortest extracted text accepted without a browser render.
const MinContentLength = 500

// ShouldUseBrowser reports whether extracted text is short enough that the
// page is probably rendered client-side.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// ChromeRenderer renders pages with a local headless Chrome via chromedp.
type ChromeRenderer struct {
	Timeout time.Duration
	// Settle is how long to wait after <body> is ready for scripts to fill the page.
	Settle time.Duration
	Log    *zap.Logger
}

// NewChromeRenderer returns a renderer with a 30s timeout and a 3s settle delay.
func NewChromeRenderer(log *zap.Logger) *ChromeRenderer {
	return &ChromeRenderer{Timeout: 30 * time.Second, Settle: 3 * time.Second, Log: logger.OrNop(log)}
}

// Render implements Renderer. It requires Chrome or Chromium on the host.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	log := logger.OrNop(r.Log)
	log.Debug("starting headless browser", zap.String("url", url))

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, r.Timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(r.Settle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	log.Debug("rendered page", zap.String("url", url), zap.Int("html_bytes", len(html)))
	return html, nil
}

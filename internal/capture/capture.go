// Package capture fetches the visible text of a job-posting page so the
// smart-log pipeline can extract structured records from it.
package capture

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const pageLoadTimeout = 30 * time.Second

// createBrowserContext creates a new headless browser context
func createBrowserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent("Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	// chromedp logs unmarshal warnings for CDP messages it does not know;
	// discard them.
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(log.New(io.Discard, "", 0).Printf),
	)
	return browserCtx, func() {
		browserCancel()
		allocCancel()
	}
}

// FetchPostingText loads url in headless Chrome and returns the page
// body text. Nothing is persisted; errors surface to the caller.
func FetchPostingText(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := createBrowserContext(ctx)
	defer cancel()

	browserCtx, timeoutCancel := context.WithTimeout(browserCtx, pageLoadTimeout)
	defer timeoutCancel()

	var text string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to load %s: %w", url, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("page %s rendered no text", url)
	}
	return text, nil
}

package sitemeta

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// Renderer returns the markup of a page after its scripts have run.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

var chromedpSemaphore = make(chan struct{}, 2)

type chromedpRenderer struct {
	timeout time.Duration
}

// NewChromedpRenderer drives a headless Chrome. At most two browsers run
// at a time across the process.
func NewChromedpRenderer(timeout time.Duration) Renderer {
	return &chromedpRenderer{timeout: timeout}
}

func (r *chromedpRenderer) Render(ctx context.Context, targetURL string) (string, error) {
	select {
	case chromedpSemaphore <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-chromedpSemaphore }()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", err
	}

	logrus.Debugf("[Chromedp] Navigation successful for URL: %s", targetURL)
	return htmlContent, nil
}

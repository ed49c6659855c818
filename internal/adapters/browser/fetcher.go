package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/maria-mashura/currency-tracker/internal/domain"
)

// Driver owns one headless browser process. A browser session is not safe
// for concurrent navigations, so every fetch going through the same Driver
// is serialized on its mutex.
type Driver struct {
	mu       sync.Mutex
	allocCtx context.Context
	cancel   context.CancelFunc
}

func NewDriver(ctx context.Context) *Driver {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
	)
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	return &Driver{allocCtx: allocCtx, cancel: cancel}
}

func (d *Driver) Close() {
	d.cancel()
}

// Fetcher loads a page in the shared headless browser, waits for a
// structural marker to appear in the rendered DOM and returns the DOM
// snapshot. A wait that exceeds the render budget yields
// domain.ErrRenderTimeout, which is distinct from a navigation failure.
type Fetcher struct {
	drv           *Driver
	waitSelector  string
	renderTimeout time.Duration
}

func NewFetcher(drv *Driver, waitSelector string, renderTimeout time.Duration) *Fetcher {
	return &Fetcher{drv: drv, waitSelector: waitSelector, renderTimeout: renderTimeout}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.drv.mu.Lock()
	defer f.drv.mu.Unlock()

	tabCtx, cancelTab := chromedp.NewContext(f.drv.allocCtx)
	defer cancelTab()

	// Close the tab early if the caller gives up.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		return nil, fmt.Errorf("failed to navigate to %q: %w", url, err)
	}

	waitCtx, cancelWait := context.WithTimeout(tabCtx, f.renderTimeout)
	defer cancelWait()
	if err := chromedp.Run(waitCtx, chromedp.WaitVisible(f.waitSelector, chromedp.ByQuery)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: selector %q never appeared on %q", domain.ErrRenderTimeout, f.waitSelector, url)
		}
		return nil, fmt.Errorf("failed waiting for %q on %q: %w", f.waitSelector, url, err)
	}

	var html string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, fmt.Errorf("failed to snapshot DOM of %q: %w", url, err)
	}
	return []byte(html), nil
}

package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"athlonos/internal/logging"
	"athlonos/internal/metrics"
)

// RodFetcher renders pages in headless Chromium, so script-built content
// shows up in the text. The browser is launched on first use.
type RodFetcher struct {
	cfg Config

	mu      sync.Mutex
	browser *rod.Browser
}

// NewRodFetcher creates a fetcher; nothing is launched yet.
func NewRodFetcher(cfg Config) *RodFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &RodFetcher{cfg: cfg}
}

func (f *RodFetcher) ensureStarted() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		if _, err := f.browser.Version(); err == nil {
			return f.browser, nil
		}
		logging.BrowserDebug("stale browser connection, relaunching")
		_ = f.browser.Close()
		f.browser = nil
	}

	l := launcher.New().Headless(true)
	if f.cfg.ChromeBin != "" {
		l = l.Bin(f.cfg.ChromeBin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	f.browser = b
	logging.Browser("headless browser started")
	return b, nil
}

// Fetch implements Fetcher.
func (f *RodFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	page, err := f.fetch(ctx, rawURL)
	metrics.RecordPageFetch("rod", err == nil)
	if err != nil {
		logging.BrowserError("render %s: %v", rawURL, err)
		return Page{}, err
	}
	return page, nil
}

func (f *RodFetcher) fetch(ctx context.Context, rawURL string) (Page, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return Page{}, err
	}
	b, err := f.ensureStarted()
	if err != nil {
		return Page{}, err
	}

	incognito, err := b.Incognito()
	if err != nil {
		return Page{}, fmt.Errorf("incognito context: %w", err)
	}
	defer incognito.Close()

	p, err := incognito.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return Page{}, fmt.Errorf("create page: %w", err)
	}
	defer p.Close()

	p = p.Context(ctx).Timeout(f.cfg.Timeout)
	if err := p.Navigate(target); err != nil {
		return Page{}, fmt.Errorf("navigate: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return Page{}, fmt.Errorf("wait load: %w", err)
	}
	doc, err := p.HTML()
	if err != nil {
		return Page{}, fmt.Errorf("read html: %w", err)
	}

	final := target
	if info, err := p.Info(); err == nil && info.URL != "" {
		final = info.URL
	}
	return ExtractPage(final, doc), nil
}

// Close shuts the browser down if it was started.
func (f *RodFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.browser == nil {
		return nil
	}
	err := f.browser.Close()
	f.browser = nil
	return err
}

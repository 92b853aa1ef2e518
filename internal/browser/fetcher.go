// Package browser fetches web pages for the desktop browser app and
// flattens them into terminal-friendly text.
package browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"athlonos/internal/logging"
	"athlonos/internal/metrics"
	"athlonos/internal/render"
)

// ErrInvalidURL is returned for addresses that are not http(s).
var ErrInvalidURL = errors.New("invalid url")

// Page is a fetched document reduced to text.
type Page struct {
	URL   string
	Title string
	Text  string
}

// Fetcher loads a page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Config configures page fetching.
type Config struct {
	Headless  bool
	ChromeBin string
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:   30 * time.Second,
		MaxBytes:  2 << 20,
		UserAgent: "athlonos-browser/1.0",
	}
}

// New picks the headless fetcher when cfg.Headless is set.
func New(cfg Config) Fetcher {
	if cfg.Headless {
		return NewRodFetcher(cfg)
	}
	return NewHTTPFetcher(cfg)
}

// NormalizeURL fills in a missing scheme and rejects anything but http(s).
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty address", ErrInvalidURL)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return u.String(), nil
}

// HTTPFetcher fetches raw HTML over net/http without running scripts.
type HTTPFetcher struct {
	cfg    Config
	client *http.Client
}

// NewHTTPFetcher creates a plain HTTP fetcher.
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = def.MaxBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	return &HTTPFetcher{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	page, err := f.fetch(ctx, rawURL)
	metrics.RecordPageFetch("http", err == nil)
	if err != nil {
		logging.BrowserError("fetch %s: %v", rawURL, err)
		return Page{}, err
	}
	logging.Browser("fetched %s (%q, %d chars)", page.URL, page.Title, len(page.Text))
	return page, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, rawURL string) (Page, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return Page{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9,*/*;q=0.1")

	resp, err := f.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Page{}, fmt.Errorf("server returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes))
	if err != nil {
		return Page{}, fmt.Errorf("failed to read body: %w", err)
	}

	final := target
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "html") && !render.IsHTML("", string(body)) {
		return Page{URL: final, Title: final, Text: strings.TrimSpace(string(body))}, nil
	}
	return ExtractPage(final, string(body)), nil
}

// ExtractPage turns an HTML document into a Page.
func ExtractPage(pageURL, doc string) Page {
	title := Title(doc)
	if title == "" {
		title = pageURL
	}
	return Page{URL: pageURL, Title: title, Text: render.PreviewText(doc)}
}

// Title returns the document's <title> text.
func Title(doc string) string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return ""
	}
	var find func(*html.Node) string
	find = func(n *html.Node) string {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				return strings.Join(strings.Fields(n.FirstChild.Data), " ")
			}
			return ""
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if t := find(c); t != "" {
				return t
			}
		}
		return ""
	}
	return find(root)
}

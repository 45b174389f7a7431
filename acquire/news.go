package acquire

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/poiesic/finsight/core"
)

// defaultFetchTimeout bounds a single article fetch.
const defaultFetchTimeout = 30 * time.Second

// Article is the normalized result of scraping a news URL.
type Article struct {
	Title        string
	Text         string
	URL          string
	SourceDomain string
	PublishedAt  *time.Time // nil when unknown; the fallback path never fabricates one
}

// Scraper acquires news articles from the web. The primary strategy is a
// readability-style extraction; on any primary failure it falls back to raw
// HTML text with boilerplate elements stripped.
type Scraper struct {
	client  *http.Client
	logger  *slog.Logger
	extract func(body []byte, u *url.URL) (readability.Article, error)
}

// ScraperOption configures a Scraper.
type ScraperOption func(*Scraper)

// WithHTTPClient sets a custom HTTP client. The client should carry its own
// timeout; the default client times out after 30 seconds.
func WithHTTPClient(client *http.Client) ScraperOption {
	return func(s *Scraper) {
		if client != nil {
			s.client = client
		}
	}
}

// WithScraperLogger sets a custom logger. Default is slog.Default().
func WithScraperLogger(logger *slog.Logger) ScraperOption {
	return func(s *Scraper) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScraper creates a new article scraper.
func NewScraper(opts ...ScraperOption) *Scraper {
	s := &Scraper{
		client: &http.Client{Timeout: defaultFetchTimeout},
		logger: slog.Default().With("component", "scraper"),
		extract: func(body []byte, u *url.URL) (readability.Article, error) {
			return readability.FromReader(bytes.NewReader(body), u)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape acquires the article at rawURL. The readability extraction runs
// first; any failure there triggers the raw-HTML fallback. When both
// strategies fail the returned *core.AcquisitionError carries the primary
// error alongside the fallback error.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*Article, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, core.NewAcquisitionError(rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, core.NewAcquisitionError(rawURL, fmt.Errorf("%w: %q", ErrUnsupportedURL, u.Scheme))
	}

	article, primaryErr := s.scrapeReadable(ctx, u)
	if primaryErr == nil {
		return article, nil
	}
	s.logger.Warn("article extraction failed, falling back to raw HTML",
		"url", rawURL, "err", primaryErr)

	article, fallbackErr := s.scrapeRaw(ctx, u)
	if fallbackErr != nil {
		s.logger.Error("both article extraction and raw HTML fallback failed",
			"url", rawURL, "primaryErr", primaryErr, "fallbackErr", fallbackErr)
		return nil, core.NewAcquisitionError(rawURL, errors.Join(primaryErr, fallbackErr))
	}
	return article, nil
}

// scrapeReadable runs the primary readability-style extraction.
func (s *Scraper) scrapeReadable(ctx context.Context, u *url.URL) (*Article, error) {
	body, err := fetchHTML(ctx, s.client, u)
	if err != nil {
		return nil, err
	}

	parsed, err := s.extract(body, u)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(parsed.TextContent)
	if text == "" {
		return nil, ErrNoArticleText
	}

	return &Article{
		Title:        parsed.Title,
		Text:         text,
		URL:          u.String(),
		SourceDomain: u.Hostname(),
		PublishedAt:  parsed.PublishedTime,
	}, nil
}

// scrapeRaw fetches the page again and extracts visible text after dropping
// script, style, nav, footer and header elements. PublishedAt stays nil.
func (s *Scraper) scrapeRaw(ctx context.Context, u *url.URL) (*Article, error) {
	body, err := fetchHTML(ctx, s.client, u)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, nav, footer, header").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "No title"
	}

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if text == "" {
		return nil, ErrNoArticleText
	}

	return &Article{
		Title:        title,
		Text:         text,
		URL:          u.String(),
		SourceDomain: u.Hostname(),
	}, nil
}

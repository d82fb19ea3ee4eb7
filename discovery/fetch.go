package discovery

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// DocumentFetcher fetches and parses an HTML document.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
}

// CollyFetcher fetches detail pages with a fresh colly collector per call.
type CollyFetcher struct {
	config *CrawlConfig
}

// NewCollyFetcher creates a document fetcher sending the configured
// headers.
func NewCollyFetcher(config *CrawlConfig) *CollyFetcher {
	if config == nil {
		config = DefaultCrawlConfig()
	}
	return &CollyFetcher{config: config}
}

// FetchDocument fetches url and parses the response body. Non-2xx
// responses are reported as errors.
func (f *CollyFetcher) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := colly.NewCollector(
		colly.UserAgent(f.config.UserAgent),
		colly.AllowURLRevisit(),
	)
	if f.config.FetchTimeout > 0 {
		c.SetRequestTimeout(f.config.FetchTimeout)
	}

	c.OnRequest(func(r *colly.Request) {
		if f.config.AcceptLanguage != "" {
			r.Headers.Set("Accept-Language", f.config.AcceptLanguage)
		}
	})

	var doc *goquery.Document
	var parseErr, responseErr error

	c.OnResponse(func(r *colly.Response) {
		doc, parseErr = goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	})

	c.OnError(func(r *colly.Response, err error) {
		responseErr = fmt.Errorf("HTTP error: %d %w", r.StatusCode, err)
	})

	if err := c.Visit(url); err != nil {
		if responseErr != nil {
			return nil, fmt.Errorf("failed to fetch URL: %w", responseErr)
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if responseErr != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", responseErr)
	}
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", parseErr)
	}
	if doc == nil {
		return nil, fmt.Errorf("failed to fetch URL: empty response")
	}

	return doc, nil
}

package discovery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/emcrawl/scraper"
	"golang.org/x/net/html"
)

// Article holds the content extracted from one detail page.
type Article struct {
	Source       string // never empty
	CanonicalURL *string
	Title        string
	Content      string
	PublishTime  *time.Time
}

// Extractor fetches article detail pages and extracts their content.
type Extractor struct {
	fetcher        DocumentFetcher
	locator        scraper.Locator
	fallbackSource string
	location       *time.Location
}

// NewExtractor creates an extractor. A nil locator uses the configured
// markers.
func NewExtractor(fetcher DocumentFetcher, locator scraper.Locator, config *CrawlConfig) *Extractor {
	if config == nil {
		config = DefaultCrawlConfig()
	}
	if locator == nil {
		locator = scraper.NewSelectorLocator(config.Markers)
	}

	fallback := strings.TrimSpace(config.FallbackSource)
	if fallback == "" {
		fallback = DefaultFallbackSource
	}

	return &Extractor{
		fetcher:        fetcher,
		locator:        locator,
		fallbackSource: fallback,
		location:       config.location(),
	}
}

// FetchArticle fetches the page at url and extracts its article. The media
// name from the list API is used when the page names no source. Fetch
// failures are not retried.
func (e *Extractor) FetchArticle(ctx context.Context, url, mediaNameHint string) (*Article, error) {
	doc, err := e.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article: %w", err)
	}

	return e.ExtractArticle(doc, mediaNameHint), nil
}

// ExtractArticle extracts an article from a parsed detail page. Every field
// is best-effort: a missing element leaves its field empty or unset.
func (e *Extractor) ExtractArticle(doc *goquery.Document, mediaNameHint string) *Article {
	metadata := e.locator.Metadata(doc)
	lines := e.locator.MetadataLines(metadata)

	article := &Article{
		Source:  e.extractSource(lines, mediaNameHint),
		Title:   strippedText(e.locator.Title(doc), ""),
		Content: strippedText(e.locator.Content(doc), "\n"),
	}

	if href, ok := e.locator.Logo(doc).Attr("href"); ok {
		article.CanonicalURL = &href
	}

	// The first metadata line carries the publish time
	if first := lines.First(); first.Length() > 0 {
		raw := strippedText(first, "")
		if publishTime, err := time.ParseInLocation(e.locator.DateLayout(), raw, e.location); err == nil {
			article.PublishTime = &publishTime
		}
	}

	return article
}

// extractSource walks the fallback chain: labelled metadata line, list API
// media name, fixed fallback.
func (e *Extractor) extractSource(lines *goquery.Selection, mediaNameHint string) string {
	label := e.locator.SourceLabel()

	var source string
	lines.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strippedText(s, "")
		if !strings.HasPrefix(text, label) {
			return true
		}
		source = strings.TrimSpace(strings.ReplaceAll(text, label, ""))
		return false
	})

	if source != "" {
		return source
	}
	if hint := strings.TrimSpace(mediaNameHint); hint != "" {
		return hint
	}
	return e.fallbackSource
}

// strippedText joins the trimmed, non-empty text nodes under sel with sep.
// Script and style contents are skipped.
func strippedText(sel *goquery.Selection, sep string) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				parts = append(parts, text)
			}
			return
		case html.CommentNode:
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}

	for _, node := range sel.Nodes {
		walk(node)
	}

	return strings.Join(parts, sep)
}

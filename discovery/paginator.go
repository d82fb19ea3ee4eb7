package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pevans/emcrawl/articles"
)

// PageSource returns one page of list items.
type PageSource interface {
	FetchPage(ctx context.Context, page int) (*ListPage, error)
}

// ArticleFetcher fetches and extracts one article.
type ArticleFetcher interface {
	FetchArticle(ctx context.Context, url, mediaNameHint string) (*Article, error)
}

// ArticleStore is the persistence collaborator of the paginator.
type ArticleStore interface {
	Exists(url string) (bool, error)
	Insert(article articles.NewArticle) (*articles.Article, error)
}

// StopReason names the condition that ended a crawl.
type StopReason string

const (
	// StopExhausted means a page yielded no decodable items.
	StopExhausted StopReason = "exhausted"
	// StopBoundary means a page contained an item older than the target
	// date.
	StopBoundary StopReason = "boundary"
	// StopPageLimit means the configured page limit was reached.
	StopPageLimit StopReason = "page_limit"
)

// CrawlResult summarizes one crawl of a target date.
type CrawlResult struct {
	Date    Date
	Pages   int // List pages requested
	Saved   int // Articles newly persisted
	Skipped int // Same-day articles already persisted
	Dropped int // Undecodable list records
	Stop    StopReason
}

// Paginator walks the list API for a target date and persists each new
// same-day article.
type Paginator struct {
	pages    PageSource
	articles ArticleFetcher
	store    ArticleStore
	config   *CrawlConfig
	logger   *slog.Logger
	wait     func(time.Duration)
}

// NewPaginator creates a paginator from its collaborators.
func NewPaginator(
	pages PageSource,
	fetcher ArticleFetcher,
	store ArticleStore,
	config *CrawlConfig,
	logger *slog.Logger,
) *Paginator {
	if config == nil {
		config = DefaultCrawlConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Paginator{
		pages:    pages,
		articles: fetcher,
		store:    store,
		config:   config,
		logger:   logger,
		wait:     time.Sleep,
	}
}

// NewCrawler wires a paginator to the list API and to colly-fetched detail
// pages.
func NewCrawler(store ArticleStore, config *CrawlConfig, logger *slog.Logger) *Paginator {
	if config == nil {
		config = DefaultCrawlConfig()
	}

	extractor := NewExtractor(NewCollyFetcher(config), nil, config)
	return NewPaginator(NewListClient(config), extractor, store, config, logger)
}

// itemClass is the position of a list item relative to the target date.
type itemClass int

const (
	itemNewer itemClass = iota
	itemMatching
	itemOlder
)

func classify(item ListItem, target Date) itemClass {
	day := DateOf(item.PublishTime)
	switch {
	case day.After(target):
		return itemNewer
	case day.Before(target):
		return itemOlder
	}
	return itemMatching
}

// CrawlDay harvests the articles published on target. The list is assumed
// newest-first: the crawl stops after the first page containing an item
// older than target, and that page is always processed in full. Transport
// and storage errors abort the crawl; the partial result is returned with
// the error.
func (p *Paginator) CrawlDay(ctx context.Context, target Date) (*CrawlResult, error) {
	result := &CrawlResult{Date: target}
	logger := p.logger.With("date", target.String())

	for page := 1; ; page++ {
		listPage, err := p.pages.FetchPage(ctx, page)
		if err != nil {
			return result, fmt.Errorf("failed to fetch list page %d: %w", page, err)
		}
		result.Pages++
		result.Dropped += listPage.Dropped

		logger.Debug("Fetched list page", "page", page, "items", len(listPage.Items), "dropped", listPage.Dropped)
		if listPage.Malformed != nil {
			logger.Warn("Undecodable list page", "page", page, "error", listPage.Malformed)
		}

		if len(listPage.Items) == 0 {
			result.Stop = StopExhausted
			logger.Info("No articles returned, stopping", "page", page)
			break
		}

		foundOlder := false
		for _, item := range listPage.Items {
			switch classify(item, target) {
			case itemNewer:
				continue
			case itemOlder:
				foundOlder = true
				continue
			}

			saved, err := p.harvest(ctx, item, target)
			if err != nil {
				return result, err
			}
			if saved {
				result.Saved++
			} else {
				result.Skipped++
			}
		}

		if foundOlder {
			result.Stop = StopBoundary
			logger.Info("Reached older articles, stopping pagination", "page", page)
			break
		}

		if p.config.MaxPages > 0 && page >= p.config.MaxPages {
			result.Stop = StopPageLimit
			logger.Warn("Reached page limit, stopping pagination", "page", page)
			break
		}

		if p.config.PageDelay > 0 {
			p.wait(p.config.PageDelay)
		}
	}

	logger.Info("Crawl finished",
		"saved", result.Saved,
		"skipped", result.Skipped,
		"dropped", result.Dropped,
		"pages", result.Pages,
		"stop", string(result.Stop),
	)

	return result, nil
}

// harvest persists one same-day item unless its URL is already stored.
// Returns false for an already stored URL.
func (p *Paginator) harvest(ctx context.Context, item ListItem, target Date) (bool, error) {
	exists, err := p.store.Exists(item.URL)
	if err != nil {
		return false, fmt.Errorf("failed to check article %s: %w", item.URL, err)
	}
	if exists {
		p.logger.Debug("Skipping stored article", "url", item.URL)
		return false, nil
	}

	article, err := p.articles.FetchArticle(ctx, item.URL, item.MediaName)
	if err != nil {
		return false, fmt.Errorf("failed to harvest %s: %w", item.URL, err)
	}

	_, err = p.store.Insert(articles.NewArticle{
		Source:      article.Source,
		URL:         item.URL,
		SiteURL:     article.CanonicalURL,
		Title:       article.Title,
		Content:     article.Content,
		ArticleTime: article.PublishTime,
		CrawlDate:   target.String(),
	})
	if err != nil {
		return false, fmt.Errorf("failed to save %s: %w", item.URL, err)
	}

	p.logger.Info("Saved article", "title", article.Title, "source", article.Source, "url", item.URL)
	return true, nil
}

package discovery

import (
	"time"

	"github.com/pevans/emcrawl/scraper"
)

// DefaultFallbackSource is attributed to an article when neither its page
// nor the list API names a source.
const DefaultFallbackSource = "东方财富"

// CrawlConfig holds configuration for the list paginator and the article
// extractor.
type CrawlConfig struct {
	// List API endpoint and its fixed query parameters
	ListEndpoint string
	Column       string
	PageSize     int
	Fields       string
	Types        string

	// Request headers sent to both the list API and detail pages
	UserAgent      string
	AcceptLanguage string

	// Courtesy delay between list pages
	PageDelay time.Duration
	// Timeout per HTTP request
	FetchTimeout time.Duration
	// Maximum number of list pages to walk (0 means no limit)
	MaxPages int

	FallbackSource string
	// Location used to interpret list and page timestamps
	Location *time.Location
	Markers  scraper.Markers
}

// DefaultCrawlConfig returns the configuration for the Eastmoney news
// column.
func DefaultCrawlConfig() *CrawlConfig {
	return &CrawlConfig{
		ListEndpoint:   "https://np-listapi.eastmoney.com/comm/web/getNewsByColumns",
		Column:         "355",
		PageSize:       20,
		Fields:         "code,showTime,title,mediaName,summary,image,url,uniqueUrl,Np_dst",
		Types:          "1,20",
		UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
		AcceptLanguage: "zh-CN,zh;q=0.9",
		PageDelay:      1 * time.Second,
		FetchTimeout:   30 * time.Second,
		FallbackSource: DefaultFallbackSource,
		Location:       time.Local,
		Markers:        scraper.DefaultMarkers(),
	}
}

// location returns the configured location, defaulting to local time.
func (c *CrawlConfig) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

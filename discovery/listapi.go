package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ListTimeLayout is the layout of the list API's showTime field.
const ListTimeLayout = "2006-01-02 15:04:05"

// ListItem is one entry of the list API referencing a candidate article.
type ListItem struct {
	URL         string
	PublishTime time.Time
	MediaName   string
}

// ListPage holds the decodable items of one list API page and the number of
// records that could not be decoded.
type ListPage struct {
	Items   []ListItem
	Dropped int
	// Set when the response envelope itself could not be decoded. The
	// page then has no items.
	Malformed error
}

// listEnvelope mirrors the list API response. Only the fields the crawler
// consumes are decoded.
type listEnvelope struct {
	Data *struct {
		List []json.RawMessage `json:"list"`
	} `json:"data"`
}

// listRecord holds the fields of one list record. mediaName is decoded
// separately so that a non-string value never drops the record.
type listRecord struct {
	UniqueURL string          `json:"uniqueUrl"`
	ShowTime  string          `json:"showTime"`
	MediaName json.RawMessage `json:"mediaName"`
}

// ListClient fetches pages of the list API.
type ListClient struct {
	config     *CrawlConfig
	httpClient *http.Client
	now        func() time.Time
}

// NewListClient creates a list API client.
func NewListClient(config *CrawlConfig) *ListClient {
	if config == nil {
		config = DefaultCrawlConfig()
	}

	return &ListClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.FetchTimeout,
		},
		now: time.Now,
	}
}

// PageURL builds the request URL of the given page.
func (c *ListClient) PageURL(page int) (string, error) {
	endpoint, err := url.Parse(c.config.ListEndpoint)
	if err != nil {
		return "", fmt.Errorf("invalid list endpoint: %w", err)
	}

	params := endpoint.Query()
	params.Set("client", "web")
	params.Set("biz", "web_news_col")
	params.Set("column", c.config.Column)
	params.Set("order", "1")
	params.Set("needInteractData", "0")
	params.Set("page_index", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(c.config.PageSize))
	params.Set("fields", c.config.Fields)
	params.Set("types", c.config.Types)
	params.Set("req_trace", strconv.FormatInt(c.now().UnixMilli(), 10))
	endpoint.RawQuery = params.Encode()

	return endpoint.String(), nil
}

// FetchPage requests one page of the list API and decodes its items.
func (c *ListClient) FetchPage(ctx context.Context, page int) (*ListPage, error) {
	pageURL, err := c.PageURL(page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept-Language", c.config.AcceptLanguage)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch list page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	return DecodeListPage(resp.Body, c.config.location())
}

// DecodeListPage decodes a list API response. Records without a URL or with
// a missing or unparsable showTime are dropped rather than failing the
// page. An undecodable envelope yields an empty page with Malformed set;
// only read failures are returned as errors.
func DecodeListPage(r io.Reader, loc *time.Location) (*ListPage, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read list response: %w", err)
	}

	page := &ListPage{}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		page.Malformed = fmt.Errorf("failed to decode list response: %w", err)
		return page, nil
	}

	if envelope.Data == nil {
		return page, nil
	}

	for _, raw := range envelope.Data.List {
		item, ok := decodeListItem(raw, loc)
		if !ok {
			page.Dropped++
			continue
		}
		page.Items = append(page.Items, item)
	}

	return page, nil
}

func decodeListItem(raw json.RawMessage, loc *time.Location) (ListItem, bool) {
	var record listRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return ListItem{}, false
	}

	itemURL := strings.TrimSpace(record.UniqueURL)
	rawTime := strings.TrimSpace(record.ShowTime)
	if itemURL == "" || rawTime == "" {
		return ListItem{}, false
	}

	publishTime, err := time.ParseInLocation(ListTimeLayout, rawTime, loc)
	if err != nil {
		return ListItem{}, false
	}

	return ListItem{
		URL:         itemURL,
		PublishTime: publishTime,
		MediaName:   mediaName(record.MediaName),
	}, true
}

// mediaName returns the media name of a record when it is a JSON string.
func mediaName(raw json.RawMessage) string {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}

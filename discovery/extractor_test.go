package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/emcrawl/scraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullArticleHTML = `
<html>
	<body>
		<a class="emlogo" href="https://www.eastmoney.com/">东方财富网</a>
		<div class="title">
			央行开展逆回购操作
		</div>
		<div class="infos">
			<div class="item">2025年12月17日 18:22</div>
			<div class="item">来源：<a href="#">证券时报</a></div>
			<div class="item">评论</div>
		</div>
		<div id="ContentBody">
			<p>第一段。</p>
			<p>第二段 <strong>加粗</strong> 内容。</p>
			<script>var tracking = 1;</script>
		</div>
	</body>
</html>
`

// stubFetcher serves a fixed document or error
type stubFetcher struct {
	html  string
	err   error
	calls []string
}

func (f *stubFetcher) FetchDocument(_ context.Context, url string) (*goquery.Document, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return nil, f.err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

func newTestExtractor(html string) *Extractor {
	config := DefaultCrawlConfig()
	config.Location = time.UTC
	return NewExtractor(&stubFetcher{html: html}, nil, config)
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// TestExtractArticle_AllFields verifies extraction from a complete page
func TestExtractArticle_AllFields(t *testing.T) {
	extractor := newTestExtractor("")

	article := extractor.ExtractArticle(parseDoc(t, fullArticleHTML), "Hint Media")

	assert.Equal(t, "证券时报", article.Source)
	require.NotNil(t, article.CanonicalURL)
	assert.Equal(t, "https://www.eastmoney.com/", *article.CanonicalURL)
	assert.Equal(t, "央行开展逆回购操作", article.Title)
	assert.Equal(t, "第一段。\n第二段\n加粗\n内容。", article.Content)
	require.NotNil(t, article.PublishTime)
	assert.Equal(t, time.Date(2025, 12, 17, 18, 22, 0, 0, time.UTC), *article.PublishTime)
}

// TestExtractArticle_ContentOnly verifies the fallbacks when only the
// content container is present
func TestExtractArticle_ContentOnly(t *testing.T) {
	extractor := newTestExtractor("")

	article := extractor.ExtractArticle(parseDoc(t, `<html><body><div id="ContentBody">Hello</div></body></html>`), "")

	assert.Equal(t, "东方财富", article.Source)
	assert.Nil(t, article.CanonicalURL)
	assert.Equal(t, "", article.Title)
	assert.Equal(t, "Hello", article.Content)
	assert.Nil(t, article.PublishTime)
}

// TestExtractArticle_LabelWinsOverHint verifies the labelled line is
// preferred to the hint
func TestExtractArticle_LabelWinsOverHint(t *testing.T) {
	html := `<div class="infos"><div class="item">来源：Example Media</div></div>`
	extractor := newTestExtractor("")

	article := extractor.ExtractArticle(parseDoc(t, html), "Ignored Hint")

	assert.Equal(t, "Example Media", article.Source)
}

// TestExtractArticle_SourceFallbackTiers verifies the source is never empty
func TestExtractArticle_SourceFallbackTiers(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		hint     string
		expected string
	}{
		{"label present", `<div class="infos"><div class="item">来源：新华社</div></div>`, "Hint", "新华社"},
		{"label absent, hint present", `<div class="infos"><div class="item">2025年12月17日 18:22</div></div>`, "Hint", "Hint"},
		{"label and hint absent", `<div class="infos"><div class="item">作者：张三</div></div>`, "", "东方财富"},
		{"no metadata block", `<p>nothing</p>`, "", "东方财富"},
		{"empty label value", `<div class="infos"><div class="item">来源：   </div></div>`, "Hint", "Hint"},
		{"whitespace hint", `<p>nothing</p>`, "   ", "东方财富"},
	}

	extractor := newTestExtractor("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article := extractor.ExtractArticle(parseDoc(t, tt.html), tt.hint)
			assert.Equal(t, tt.expected, article.Source)
			assert.NotEmpty(t, article.Source)
		})
	}
}

// TestExtractArticle_FirstLabelledLine verifies the first matching line is
// used
func TestExtractArticle_FirstLabelledLine(t *testing.T) {
	html := `
	<div class="infos">
		<div class="item">2025年12月17日 18:22</div>
		<div class="item">来源：First</div>
		<div class="item">来源：Second</div>
	</div>`
	extractor := newTestExtractor("")

	article := extractor.ExtractArticle(parseDoc(t, html), "")

	assert.Equal(t, "First", article.Source)
}

// TestExtractArticle_RepeatedLabel verifies every occurrence of the label
// is removed from the source line
func TestExtractArticle_RepeatedLabel(t *testing.T) {
	html := `<div class="infos"><div class="item">来源：A来源：B</div></div>`
	extractor := newTestExtractor("")

	article := extractor.ExtractArticle(parseDoc(t, html), "")

	assert.Equal(t, "AB", article.Source)
}

// TestExtractArticle_UnpaddedPublishTime verifies single-digit month, day
// and hour are accepted as well as padded ones
func TestExtractArticle_UnpaddedPublishTime(t *testing.T) {
	tests := []struct {
		line     string
		expected time.Time
	}{
		{"2025年1月5日 9:30", time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)},
		{"2025年01月05日 09:30", time.Date(2025, 1, 5, 9, 30, 0, 0, time.UTC)},
		{"2025年12月17日 18:22", time.Date(2025, 12, 17, 18, 22, 0, 0, time.UTC)},
	}

	extractor := newTestExtractor("")
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			html := `<div class="infos"><div class="item">` + tt.line + `</div></div>`

			article := extractor.ExtractArticle(parseDoc(t, html), "")

			require.NotNil(t, article.PublishTime)
			assert.Equal(t, tt.expected, *article.PublishTime)
		})
	}
}

// TestExtractArticle_LabelOutsideMetadata verifies lines outside the block
// are ignored
func TestExtractArticle_LabelOutsideMetadata(t *testing.T) {
	html := `<div class="item">来源：Elsewhere</div><div class="infos"></div>`
	extractor := newTestExtractor("")

	article := extractor.ExtractArticle(parseDoc(t, html), "Hint")

	assert.Equal(t, "Hint", article.Source)
}

// TestExtractArticle_InvalidPublishTime verifies a non-date first line
// leaves the publish time unset
func TestExtractArticle_InvalidPublishTime(t *testing.T) {
	html := `<div class="infos"><div class="item">来源：Example Media</div><div class="item">2025年12月17日 18:22</div></div>`
	extractor := newTestExtractor("")

	article := extractor.ExtractArticle(parseDoc(t, html), "")

	assert.Nil(t, article.PublishTime, "only the first metadata line carries the time")
	assert.Equal(t, "Example Media", article.Source)
}

// TestExtractArticle_LogoWithoutHref verifies a logo without a link target
// leaves the site URL unset
func TestExtractArticle_LogoWithoutHref(t *testing.T) {
	extractor := newTestExtractor("")

	article := extractor.ExtractArticle(parseDoc(t, `<a class="emlogo">logo</a>`), "")

	assert.Nil(t, article.CanonicalURL)
}

// TestExtractArticle_CustomMarkers verifies extraction follows the locator
func TestExtractArticle_CustomMarkers(t *testing.T) {
	html := `
	<header><a class="brand" href="https://example.com/">Example</a></header>
	<h1>Custom Title</h1>
	<ul class="meta"><li>2025-12-17 09:00</li><li>Source: Wire</li></ul>
	<article>Body text</article>`

	locator := scraper.NewSelectorLocator(scraper.Markers{
		MetadataSelector:     "ul.meta",
		MetadataItemSelector: "li",
		LogoSelector:         "a.brand",
		TitleSelector:        "h1",
		ContentSelector:      "article",
		SourceLabel:          "Source:",
		DateLayout:           "2006-01-02 15:04",
	})
	config := DefaultCrawlConfig()
	config.Location = time.UTC
	extractor := NewExtractor(&stubFetcher{}, locator, config)

	article := extractor.ExtractArticle(parseDoc(t, html), "")

	assert.Equal(t, "Wire", article.Source)
	assert.Equal(t, "Custom Title", article.Title)
	assert.Equal(t, "Body text", article.Content)
	require.NotNil(t, article.CanonicalURL)
	assert.Equal(t, "https://example.com/", *article.CanonicalURL)
	require.NotNil(t, article.PublishTime)
	assert.Equal(t, 9, article.PublishTime.Hour())
}

// TestNewExtractor_EmptyFallbackSource verifies the fixed literal is used
// when the configured fallback is blank
func TestNewExtractor_EmptyFallbackSource(t *testing.T) {
	config := DefaultCrawlConfig()
	config.FallbackSource = ""
	extractor := NewExtractor(&stubFetcher{}, nil, config)

	article := extractor.ExtractArticle(parseDoc(t, `<p></p>`), "")

	assert.Equal(t, DefaultFallbackSource, article.Source)
}

// TestFetchArticle_FetchError verifies transport errors propagate
func TestFetchArticle_FetchError(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	extractor := NewExtractor(fetcher, nil, DefaultCrawlConfig())

	article, err := extractor.FetchArticle(context.Background(), "https://example.com/a", "")

	require.Error(t, err)
	assert.Nil(t, article)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, []string{"https://example.com/a"}, fetcher.calls, "should fetch exactly once")
}

// TestCollyFetcher_FetchDocument verifies headers and parsing over HTTP
func TestCollyFetcher_FetchDocument(t *testing.T) {
	var gotUA, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(fullArticleHTML))
	}))
	defer server.Close()

	config := DefaultCrawlConfig()
	config.Location = time.UTC
	extractor := NewExtractor(NewCollyFetcher(config), nil, config)

	article, err := extractor.FetchArticle(context.Background(), server.URL+"/a/1.html", "")
	require.NoError(t, err)

	assert.Equal(t, config.UserAgent, gotUA)
	assert.Equal(t, "zh-CN,zh;q=0.9", gotLang)
	assert.Equal(t, "证券时报", article.Source)
	assert.Equal(t, "央行开展逆回购操作", article.Title)
}

// TestCollyFetcher_HTTPError verifies error statuses are reported
func TestCollyFetcher_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	doc, err := NewCollyFetcher(DefaultCrawlConfig()).FetchDocument(context.Background(), server.URL+"/missing")

	require.Error(t, err)
	assert.Nil(t, doc)
	assert.Contains(t, err.Error(), "404")
}

// TestCollyFetcher_CancelledContext verifies no request is made after
// cancellation
func TestCollyFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCollyFetcher(DefaultCrawlConfig()).FetchDocument(ctx, "http://127.0.0.1:1/")

	assert.ErrorIs(t, err, context.Canceled)
}

package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultMarkers verifies the Eastmoney marker set
func TestDefaultMarkers(t *testing.T) {
	markers := DefaultMarkers()

	assert.Equal(t, "div.infos", markers.MetadataSelector)
	assert.Equal(t, "div.item", markers.MetadataItemSelector)
	assert.Equal(t, "a.emlogo", markers.LogoSelector)
	assert.Equal(t, "div.title", markers.TitleSelector)
	assert.Equal(t, "div#ContentBody", markers.ContentSelector)
	assert.Equal(t, "来源：", markers.SourceLabel)
	assert.Equal(t, "2006年1月2日 15:04", markers.DateLayout)
}

// TestMarkersMerge verifies empty fields are filled from the fallback
func TestMarkersMerge(t *testing.T) {
	custom := Markers{TitleSelector: "h1.headline"}

	merged := custom.Merge(DefaultMarkers())

	assert.Equal(t, "h1.headline", merged.TitleSelector, "should keep explicit selector")
	assert.Equal(t, "div#ContentBody", merged.ContentSelector, "should fill missing selector")
	assert.Equal(t, "来源：", merged.SourceLabel)
}

// TestSelectorLocator_FindsRegions verifies each region is located
func TestSelectorLocator_FindsRegions(t *testing.T) {
	html := `
	<html>
		<body>
			<a class="emlogo" href="https://www.eastmoney.com/">logo</a>
			<div class="title">Headline</div>
			<div class="infos">
				<div class="item">2025年12月17日 18:22</div>
				<div class="item">来源：Example Media</div>
			</div>
			<div id="ContentBody"><p>Body</p></div>
		</body>
	</html>
	`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	locator := NewSelectorLocator(Markers{})

	metadata := locator.Metadata(doc)
	require.Equal(t, 1, metadata.Length())
	assert.Equal(t, 2, locator.MetadataLines(metadata).Length())

	href, ok := locator.Logo(doc).Attr("href")
	assert.True(t, ok)
	assert.Equal(t, "https://www.eastmoney.com/", href)

	assert.Equal(t, "Headline", locator.Title(doc).Text())
	assert.Equal(t, "Body", locator.Content(doc).Text())
	assert.Equal(t, "来源：", locator.SourceLabel())
	assert.Equal(t, "2006年1月2日 15:04", locator.DateLayout())
}

// TestSelectorLocator_MissingRegions verifies absent regions are empty
// selections
func TestSelectorLocator_MissingRegions(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><p>nothing</p></body></html>`))
	require.NoError(t, err)

	locator := NewSelectorLocator(DefaultMarkers())

	metadata := locator.Metadata(doc)
	require.NotNil(t, metadata)
	assert.Equal(t, 0, metadata.Length())
	assert.Equal(t, 0, locator.MetadataLines(metadata).Length())
	assert.Equal(t, 0, locator.Logo(doc).Length())
	assert.Equal(t, 0, locator.Title(doc).Length())
	assert.Equal(t, 0, locator.Content(doc).Length())
}

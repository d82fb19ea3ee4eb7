package scraper

import (
	"github.com/PuerkitoBio/goquery"
)

// Locator finds the structural regions of an article detail page. Every
// method returns an empty selection when the region is absent, never nil.
type Locator interface {
	// Metadata returns the block holding source and publish-time lines.
	Metadata(doc *goquery.Document) *goquery.Selection
	// MetadataLines returns the lines of a metadata block in document
	// order.
	MetadataLines(metadata *goquery.Selection) *goquery.Selection
	Logo(doc *goquery.Document) *goquery.Selection
	Title(doc *goquery.Document) *goquery.Selection
	Content(doc *goquery.Document) *goquery.Selection
	// SourceLabel is the literal prefix of the source attribution line.
	SourceLabel() string
	// DateLayout is the Go time layout of the publish-time line.
	DateLayout() string
}

// SelectorLocator is a Locator backed by CSS selectors.
type SelectorLocator struct {
	markers Markers
}

// NewSelectorLocator creates a locator for the given markers. Empty markers
// fall back to DefaultMarkers.
func NewSelectorLocator(markers Markers) *SelectorLocator {
	return &SelectorLocator{markers: markers.Merge(DefaultMarkers())}
}

// Markers returns the effective markers of the locator.
func (l *SelectorLocator) Markers() Markers {
	return l.markers
}

func (l *SelectorLocator) Metadata(doc *goquery.Document) *goquery.Selection {
	return doc.Find(l.markers.MetadataSelector).First()
}

func (l *SelectorLocator) MetadataLines(metadata *goquery.Selection) *goquery.Selection {
	return metadata.Find(l.markers.MetadataItemSelector)
}

func (l *SelectorLocator) Logo(doc *goquery.Document) *goquery.Selection {
	return doc.Find(l.markers.LogoSelector).First()
}

func (l *SelectorLocator) Title(doc *goquery.Document) *goquery.Selection {
	return doc.Find(l.markers.TitleSelector).First()
}

func (l *SelectorLocator) Content(doc *goquery.Document) *goquery.Selection {
	return doc.Find(l.markers.ContentSelector).First()
}

func (l *SelectorLocator) SourceLabel() string {
	return l.markers.SourceLabel
}

func (l *SelectorLocator) DateLayout() string {
	return l.markers.DateLayout
}

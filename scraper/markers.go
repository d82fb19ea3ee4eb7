package scraper

// Markers defines the structural markers of an article detail page. The
// selectors are the source site's unversioned contract and are expected to
// change when its markup does.
type Markers struct {
	MetadataSelector     string `json:"metadata_selector" yaml:"metadata_selector"`
	MetadataItemSelector string `json:"metadata_item_selector" yaml:"metadata_item_selector"`
	LogoSelector         string `json:"logo_selector" yaml:"logo_selector"`
	TitleSelector        string `json:"title_selector" yaml:"title_selector"`
	ContentSelector      string `json:"content_selector" yaml:"content_selector"`
	SourceLabel          string `json:"source_label" yaml:"source_label"`
	DateLayout           string `json:"date_layout" yaml:"date_layout"` // Go time layout; unpadded fields accept padded input
}

// DefaultMarkers returns the markers of Eastmoney article pages.
func DefaultMarkers() Markers {
	return Markers{
		MetadataSelector:     "div.infos",
		MetadataItemSelector: "div.item",
		LogoSelector:         "a.emlogo",
		TitleSelector:        "div.title",
		ContentSelector:      "div#ContentBody",
		SourceLabel:          "来源：",
		DateLayout:           "2006年1月2日 15:04",
	}
}

// Merge returns a copy of m where every empty field is taken from
// fallback.
func (m Markers) Merge(fallback Markers) Markers {
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	return Markers{
		MetadataSelector:     pick(m.MetadataSelector, fallback.MetadataSelector),
		MetadataItemSelector: pick(m.MetadataItemSelector, fallback.MetadataItemSelector),
		LogoSelector:         pick(m.LogoSelector, fallback.LogoSelector),
		TitleSelector:        pick(m.TitleSelector, fallback.TitleSelector),
		ContentSelector:      pick(m.ContentSelector, fallback.ContentSelector),
		SourceLabel:          pick(m.SourceLabel, fallback.SourceLabel),
		DateLayout:           pick(m.DateLayout, fallback.DateLayout),
	}
}

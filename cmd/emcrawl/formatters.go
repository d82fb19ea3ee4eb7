package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pevans/emcrawl/articles"
)

const (
	sourceColumnWidth = 12
	titleColumnWidth  = 60
	timeLayout        = "2006-01-02 15:04"
)

// truncate shortens s to at most width terminal columns.
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

// articleTime formats the publish time of an article, or "-" when unknown.
func articleTime(article articles.Article) string {
	if article.ArticleTime == nil {
		return "-"
	}
	return article.ArticleTime.Format(timeLayout)
}

// printArticleTable prints articles in human-readable table format
func printArticleTable(w io.Writer, items []articles.Article, total, offset int) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No articles to display.")
		return
	}

	fmt.Fprintf(w, "Showing %d-%d of %d articles\n\n", offset+1, offset+len(items), total)

	fmt.Fprintf(w, "%-8s  %-16s  %s  %s\n",
		"ID", "PUBLISHED",
		runewidth.FillRight("SOURCE", sourceColumnWidth),
		"TITLE",
	)
	fmt.Fprintln(w, strings.Repeat("-", 8+2+16+2+sourceColumnWidth+2+titleColumnWidth))

	for _, article := range items {
		fmt.Fprintf(w, "%-8s  %-16s  %s  %s\n",
			article.ArticleID.String()[:8],
			articleTime(article),
			runewidth.FillRight(truncate(article.Source, sourceColumnWidth), sourceColumnWidth),
			truncate(article.Title, titleColumnWidth),
		)
	}
}

// printArticleJSON prints articles in JSON format
func printArticleJSON(w io.Writer, items []articles.Article, total int) error {
	if items == nil {
		items = []articles.Article{}
	}

	output := map[string]any{
		"articles": items,
		"total":    total,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	fmt.Fprintln(w, string(data))
	return nil
}

// printArticleCompact prints one line per article
func printArticleCompact(w io.Writer, items []articles.Article) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No articles to display.")
		return
	}

	for _, article := range items {
		fmt.Fprintf(w, "%s... %s (%s)\n", article.ArticleID.String()[:8], article.Title, article.Source)
	}
}

// printArticleDetail prints a full article followed by its rewrites
func printArticleDetail(w io.Writer, article *articles.Article, rewrites []articles.Rewrite) {
	fmt.Fprintln(w, article.Title)
	fmt.Fprintln(w, strings.Repeat("=", min(runewidth.StringWidth(article.Title), 80)))
	fmt.Fprintf(w, "Source: %s\n", article.Source)
	fmt.Fprintf(w, "Published: %s\n", articleTime(*article))
	fmt.Fprintf(w, "Crawled for: %s\n", article.CrawlDate)
	fmt.Fprintf(w, "URL: %s\n", article.URL)
	if article.SiteURL != nil {
		fmt.Fprintf(w, "Site: %s\n", *article.SiteURL)
	}
	fmt.Fprintf(w, "ID: %s\n", article.ArticleID.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, wrapText(article.Content, 80))

	for _, rewrite := range rewrites {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "--- Rewrite %s (%s, %s) ---\n",
			rewrite.RewriteID.String()[:8],
			rewrite.AIModel,
			rewrite.RewriteTime.Format(timeLayout),
		)
		if rewrite.Title != nil {
			fmt.Fprintln(w, *rewrite.Title)
		} else {
			fmt.Fprintln(w, "(failed)")
		}
		fmt.Fprintln(w, rewrite.Content)
	}
}

// wrapText wraps each line of text to a maximum display width. Lines
// without spaces, as in Chinese text, are broken between characters.
func wrapText(text string, width int) string {
	var lines []string

	for _, paragraph := range strings.Split(text, "\n") {
		var line strings.Builder
		lineWidth := 0

		for _, r := range paragraph {
			rw := runewidth.RuneWidth(r)
			if lineWidth+rw > width && lineWidth > 0 {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			line.WriteRune(r)
			lineWidth += rw
		}

		lines = append(lines, line.String())
	}

	return strings.Join(lines, "\n")
}

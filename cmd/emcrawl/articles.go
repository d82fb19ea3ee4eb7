package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/pevans/emcrawl/articles"
	"github.com/pevans/emcrawl/discovery"
)

func handleList(s *settings, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	date := fs.String("date", "", "Only articles crawled for this day, YYYY-MM-DD")
	source := fs.String("source", "", "Only articles from this source")
	limit := fs.Int("limit", 20, "Maximum number of articles to show")
	offset := fs.Int("offset", 0, "Number of articles to skip")
	format := fs.String("format", "table", "Output format: table, json or compact")
	fs.Parse(args)

	filter := articles.ArticleFilter{Limit: *limit, Offset: *offset}
	if *date != "" {
		if _, err := discovery.ParseDate(*date); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		filter.CrawlDate = date
	}
	if *source != "" {
		filter.Source = source
	}
	if *limit < 1 || *offset < 0 {
		fmt.Fprintf(os.Stderr, "Error: --limit must be positive and --offset non-negative\n")
		os.Exit(1)
	}

	store := openStore(s)
	defer store.Close()

	items, err := store.ListArticles(filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list articles: %v\n", err)
		os.Exit(1)
	}

	total, err := store.CountArticles(filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to count articles: %v\n", err)
		os.Exit(1)
	}

	switch *format {
	case "table":
		printArticleTable(os.Stdout, items, total, *offset)
	case "json":
		if err := printArticleJSON(os.Stdout, items, total); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "compact":
		printArticleCompact(os.Stdout, items)
	default:
		fmt.Fprintf(os.Stderr, "Error: --format must be 'table', 'json' or 'compact'\n")
		os.Exit(1)
	}
}

func handleShow(s *settings, args []string) {
	id := parseArticleArg("show", args)

	store := openStore(s)
	defer store.Close()

	article, err := store.GetArticle(id)
	if errors.Is(err, articles.ErrArticleNotFound) {
		fmt.Fprintf(os.Stderr, "Error: article not found: %s\n", id)
		os.Exit(1)
	} else if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to get article: %v\n", err)
		os.Exit(1)
	}

	rewrites, err := store.ListRewrites(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list rewrites: %v\n", err)
		os.Exit(1)
	}

	printArticleDetail(os.Stdout, article, rewrites)
}

// parseArticleArg parses the article ID argument of a command or exits.
func parseArticleArg(command string, args []string) uuid.UUID {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: article ID is required\n")
		fmt.Fprintf(os.Stderr, "Usage: emcrawl %s <article-id>\n", command)
		os.Exit(1)
	}

	id, err := uuid.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid article ID: %v\n", err)
		os.Exit(1)
	}
	return id
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pevans/emcrawl/discovery"
)

func handleCrawl(s *settings, args []string) {
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)
	date := fs.String("date", "", "Day to harvest, YYYY-MM-DD (default: today)")
	maxPages := fs.Int("max-pages", s.crawl.MaxPages, "Maximum list pages to walk (0 for no limit)")
	delay := fs.Duration("delay", s.crawl.PageDelay, "Delay between list pages")
	logLevel := fs.String("log-level", s.logLevel, "Log level: debug, info, warn or error")
	fs.Parse(args)

	level, err := parseLogLevel(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	target := discovery.Today(s.crawl.Location)
	if *date != "" {
		target, err = discovery.ParseDate(*date)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *maxPages < 0 {
		fmt.Fprintf(os.Stderr, "Error: --max-pages must be non-negative\n")
		os.Exit(1)
	}
	s.crawl.MaxPages = *maxPages
	s.crawl.PageDelay = *delay

	store := openStore(s)
	defer store.Close()

	logger := newLogger(level)
	crawler := discovery.NewCrawler(store, s.crawl, logger)

	result, err := crawler.CrawlDay(context.Background(), target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: crawl of %s failed after %d saved: %v\n", target, result.Saved, err)
		os.Exit(1)
	}

	fmt.Printf("✓ Crawled %s\n", result.Date)
	fmt.Printf("  Saved: %d\n", result.Saved)
	fmt.Printf("  Already stored: %d\n", result.Skipped)
	if result.Dropped > 0 {
		fmt.Printf("  Malformed list items: %d\n", result.Dropped)
	}
	fmt.Printf("  List pages: %d (%s)\n", result.Pages, result.Stop)
}

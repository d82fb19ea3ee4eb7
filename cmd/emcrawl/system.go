package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pevans/emcrawl/articles"
	"github.com/pevans/emcrawl/config"
	"github.com/pevans/emcrawl/discovery"
	"github.com/pevans/emcrawl/rewrite"
)

// settings is the resolved runtime configuration of a command.
type settings struct {
	dbPath   string
	logLevel string
	crawl    *discovery.CrawlConfig
	rewrite  *rewrite.Config
}

// loadSettings loads configuration with precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file (~/.emcrawl/config.yaml or $EMCRAWL_CONFIG)
// 3. Default values (lowest priority)
//
// Command flags are applied on top by each command.
func loadSettings() (*settings, error) {
	s := &settings{
		dbPath:   "emcrawl.db",
		logLevel: "info",
		crawl:    discovery.DefaultCrawlConfig(),
		rewrite:  rewrite.DefaultConfig(),
	}

	cfg, err := config.LoadConfigFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Continuing with defaults and environment variables...\n\n")
	}

	if cfg != nil {
		if cfg.Storage.DSN != "" {
			s.dbPath = cfg.Storage.DSN
		}
		if err := cfg.ApplyCrawler(s.crawl); err != nil {
			return nil, err
		}
		cfg.ApplyRewrite(s.rewrite)
	}

	s.dbPath = getEnv("EMCRAWL_DB_DSN", s.dbPath)
	s.logLevel = getEnv("EMCRAWL_LOG_LEVEL", s.logLevel)
	s.rewrite.APIKey = getEnv("OPENROUTER_API_KEY", s.rewrite.APIKey)

	if val := os.Getenv("EMCRAWL_TIMEZONE"); val != "" {
		loc, err := time.LoadLocation(val)
		if err != nil {
			return nil, fmt.Errorf("invalid EMCRAWL_TIMEZONE: %w", err)
		}
		s.crawl.Location = loc
	}
	if val := os.Getenv("EMCRAWL_PAGE_DELAY"); val != "" {
		delay, err := time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("invalid EMCRAWL_PAGE_DELAY: %w", err)
		}
		s.crawl.PageDelay = delay
	}

	return s, nil
}

func handleInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	fs.Parse(args)

	fmt.Println("Initializing emcrawl...")
	fmt.Println()

	configPath, err := config.ConfigFilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	created, err := config.WriteDefaultConfigFile(*force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Failed to create config file: %v\n", err)
		os.Exit(1)
	}
	if created {
		fmt.Printf("  ✓ Config file: %s\n", configPath)
	} else {
		fmt.Printf("  Config file: %s (already exists)\n", configPath)
	}

	// Resolve the database path from the file just written
	s, err := loadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if dir := filepath.Dir(s.dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Failed to create database directory: %v\n", err)
			os.Exit(1)
		}
	}

	store, err := articles.NewArticleStore(s.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	store.Close()
	fmt.Printf("  ✓ Article database: %s\n", s.dbPath)

	fmt.Println()
	fmt.Println("✓ Initialized successfully")
	fmt.Println()
	fmt.Println("You can now:")
	fmt.Println("  - Harvest today's articles with 'emcrawl crawl'")
	fmt.Println("  - Check storage health with 'emcrawl doctor'")
}

func handleDoctor(s *settings, args []string) {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	verbose := fs.Bool("verbose", false, "Show detailed diagnostic information")
	fs.Parse(args)

	fmt.Println("Checking emcrawl storage health...")
	fmt.Println()

	hasErrors := false
	hasWarnings := false

	fmt.Println("Article Database:")
	fmt.Printf("  Path: %s\n", s.dbPath)

	if stat, err := os.Stat(s.dbPath); os.IsNotExist(err) {
		fmt.Println("  ✗ Database file does not exist")
		fmt.Println("    Run 'emcrawl init' or 'emcrawl crawl' to create it")
		hasErrors = true
	} else if err != nil {
		fmt.Printf("  ✗ Cannot access database file: %v\n", err)
		hasErrors = true
	} else {
		perm := stat.Mode().Perm()
		if *verbose {
			fmt.Printf("  Permissions: %o\n", perm)
		}
		if perm&0o077 != 0 {
			fmt.Println("  ⚠ Warning: Database file has overly permissive permissions")
			fmt.Printf("    Current: %o, expected: 600\n", perm)
			fmt.Println("    Consider: chmod 600 " + s.dbPath)
			hasWarnings = true
		}

		store, err := articles.NewArticleStore(s.dbPath)
		if err != nil {
			fmt.Printf("  ✗ Failed to open database: %v\n", err)
			hasErrors = true
		} else {
			defer store.Close()
			fmt.Println("  ✓ Database is accessible")

			total, err := store.CountArticles(articles.ArticleFilter{})
			if err != nil {
				fmt.Printf("  ⚠ Warning: Could not count articles: %v\n", err)
				hasWarnings = true
			} else {
				fmt.Printf("  Articles stored: %d\n", total)
			}

			today := discovery.Today(s.crawl.Location).String()
			todays, err := store.CountArticles(articles.ArticleFilter{CrawlDate: &today})
			if err == nil && (*verbose || todays > 0) {
				fmt.Printf("  Harvested for %s: %d\n", today, todays)
			}
		}
	}

	fmt.Println()

	fmt.Println("Rewrite:")
	fmt.Printf("  Endpoint: %s\n", s.rewrite.BaseURL)
	fmt.Printf("  Model: %s\n", s.rewrite.Model)
	if s.rewrite.APIKey == "" {
		fmt.Println("  ⚠ Warning: OPENROUTER_API_KEY is not set")
		hasWarnings = true
	} else {
		fmt.Println("  ✓ API key is set")
	}

	fmt.Println()

	if hasErrors {
		fmt.Println("✗ Storage has errors")
		os.Exit(1)
	} else if hasWarnings {
		fmt.Println("✓ Storage is functional but has warnings")
		if !*verbose {
			fmt.Println("  Run 'emcrawl doctor -verbose' for more details")
		}
	} else {
		fmt.Println("✓ All checks passed")
	}
}

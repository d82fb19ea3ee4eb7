package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/pevans/emcrawl/articles"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseLogLevel maps a level name onto a slog level.
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level: %s", s)
}

// newLogger returns a text logger on stderr.
func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openStore opens the article store or exits.
func openStore(s *settings) *articles.ArticleStore {
	store, err := articles.NewArticleStore(s.dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open article store: %v\n", err)
		os.Exit(1)
	}
	return store
}

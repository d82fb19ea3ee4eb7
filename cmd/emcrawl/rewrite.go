package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/pevans/emcrawl/articles"
	"github.com/pevans/emcrawl/rewrite"
)

func handleRewrite(s *settings, args []string) {
	id := parseArticleArg("rewrite", args)

	if s.rewrite.APIKey == "" {
		fmt.Fprintf(os.Stderr, "Warning: OPENROUTER_API_KEY is not set\n")
	}

	store := openStore(s)
	defer store.Close()

	rewriter := rewrite.NewRewriter(rewrite.NewChatClient(s.rewrite), s.rewrite.Model)

	result, err := rewriter.RewriteArticle(context.Background(), store, id)
	if errors.Is(err, articles.ErrArticleNotFound) {
		fmt.Fprintf(os.Stderr, "Error: article not found: %s\n", id)
		os.Exit(1)
	}
	if err != nil {
		if result != nil {
			fmt.Fprintf(os.Stderr, "Stored failed rewrite: %s\n", result.RewriteID)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Rewrote article: %s\n", id)
	fmt.Printf("  Rewrite ID: %s\n", result.RewriteID)
	fmt.Printf("  Title: %s\n", *result.Title)
	fmt.Printf("  Model: %s\n", result.AIModel)
}

package rewrite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"github.com/pevans/emcrawl/articles"
)

// Result is an English rewrite of an article.
type Result struct {
	Title   string `json:"title"`
	Content string `json:"content"` // HTML paragraphs
}

// Store is the persistence the rewriter reads articles from and writes
// rewrites to.
type Store interface {
	GetArticle(articleID uuid.UUID) (*articles.Article, error)
	InsertRewrite(articleID uuid.UUID, title *string, content, aiModel string) (*articles.Rewrite, error)
}

// Rewriter rewrites Chinese articles into English through a language model.
type Rewriter struct {
	completer Completer
	model     string
}

// NewRewriter creates a rewriter. model is recorded with every stored
// rewrite.
func NewRewriter(completer Completer, model string) *Rewriter {
	return &Rewriter{completer: completer, model: model}
}

// RewriteArticle rewrites a stored article and stores the result. When the
// model call or its reply fails, a rewrite with no title and the failure
// message as content is stored, and the failure is returned alongside it.
func (r *Rewriter) RewriteArticle(ctx context.Context, store Store, articleID uuid.UUID) (*articles.Rewrite, error) {
	article, err := store.GetArticle(articleID)
	if err != nil {
		return nil, err
	}

	result, rewriteErr := r.Rewrite(ctx, article.Title, article.Content)

	var title *string
	var content string
	if rewriteErr != nil {
		content = FailureContent(rewriteErr)
	} else {
		title = &result.Title
		content = result.Content
	}

	stored, err := store.InsertRewrite(articleID, title, content, r.model)
	if err != nil {
		return nil, fmt.Errorf("failed to save rewrite: %w", err)
	}

	if rewriteErr != nil {
		return stored, fmt.Errorf("failed to rewrite article: %w", rewriteErr)
	}
	return stored, nil
}

// Rewrite sends the article to the model and parses its JSON reply.
func (r *Rewriter) Rewrite(ctx context.Context, title, content string) (*Result, error) {
	reply, err := r.completer.Complete(ctx, BuildPrompt(title, content))
	if err != nil {
		return nil, err
	}

	return ParseReply(reply)
}

// ParseReply decodes the model's JSON reply. A surrounding Markdown code
// fence is tolerated.
func ParseReply(reply string) (*Result, error) {
	var result Result
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &result); err != nil {
		return nil, fmt.Errorf("failed to parse model reply: %w", err)
	}

	result.Title = strings.TrimSpace(result.Title)
	result.Content = strings.TrimSpace(result.Content)

	if result.Title == "" {
		return nil, errors.New("model reply has no title")
	}
	if result.Content == "" {
		return nil, errors.New("model reply has no content")
	}

	return &result, nil
}

// FailureContent is the HTML stored in place of a rewrite that failed.
func FailureContent(err error) string {
	return fmt.Sprintf("<p>Rewrite failed: %s</p>", html.EscapeString(err.Error()))
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence line, which may carry a language tag
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		return s
	}

	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

package articles

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Rewrite is an LLM rewrite of a stored article.
type Rewrite struct {
	RewriteID   uuid.UUID `json:"rewrite_id"`
	ArticleID   uuid.UUID `json:"article_id"`
	Title       *string   `json:"title"` // nil when the rewrite failed
	Content     string    `json:"content"`
	RewriteTime time.Time `json:"rewrite_time"`
	AIModel     string    `json:"ai_model"`
}

// InsertRewrite stores a rewrite of an existing article. Returns
// ErrArticleNotFound if the article does not exist.
func (s *ArticleStore) InsertRewrite(articleID uuid.UUID, title *string, content, aiModel string) (*Rewrite, error) {
	if _, err := s.GetArticle(articleID); err != nil {
		return nil, err
	}

	rewrite := &Rewrite{
		RewriteID:   uuid.New(),
		ArticleID:   articleID,
		Title:       title,
		Content:     content,
		RewriteTime: time.Now().Truncate(0),
		AIModel:     aiModel,
	}

	query := `
		INSERT INTO rewritten_articles (
			rewrite_id, article_id, title, content, rewrite_time, ai_model
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		rewrite.RewriteID.String(),
		rewrite.ArticleID.String(),
		rewrite.Title,
		rewrite.Content,
		formatTime(&rewrite.RewriteTime),
		rewrite.AIModel,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rewrite: %w", err)
	}

	return rewrite, nil
}

// ListRewrites lists the rewrites of an article, most recent first.
func (s *ArticleStore) ListRewrites(articleID uuid.UUID) ([]Rewrite, error) {
	query := `
		SELECT rewrite_id, article_id, title, content, rewrite_time, ai_model
		FROM rewritten_articles
		WHERE article_id = ?
		ORDER BY rewrite_time DESC
	`

	rows, err := s.db.Query(query, articleID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query rewrites: %w", err)
	}
	defer rows.Close()

	rewrites := []Rewrite{}
	for rows.Next() {
		var rewriteIDStr, articleIDStr, content, rewriteTimeStr, aiModel string
		var title sql.NullString

		if err := rows.Scan(&rewriteIDStr, &articleIDStr, &title, &content, &rewriteTimeStr, &aiModel); err != nil {
			return nil, fmt.Errorf("failed to scan rewrite: %w", err)
		}

		rewriteID, err := uuid.Parse(rewriteIDStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rewrite ID: %w", err)
		}
		parsedArticleID, err := uuid.Parse(articleIDStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse article ID: %w", err)
		}

		rewrite := Rewrite{
			RewriteID:   rewriteID,
			ArticleID:   parsedArticleID,
			Content:     content,
			RewriteTime: parseTime(rewriteTimeStr),
			AIModel:     aiModel,
		}
		if title.Valid {
			rewrite.Title = &title.String
		}
		rewrites = append(rewrites, rewrite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rewrites: %w", err)
	}

	return rewrites, nil
}

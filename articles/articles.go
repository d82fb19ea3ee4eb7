package articles

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Custom errors for article operations
var (
	ErrArticleNotFound = errors.New("article not found")
	ErrDuplicateURL    = errors.New("article with this URL already exists")
)

// ArticleStore persists harvested articles and their rewrites using SQLite.
type ArticleStore struct {
	db *sql.DB
}

// Article is a harvested article as stored.
type Article struct {
	ArticleID   uuid.UUID  `json:"article_id"`
	Source      string     `json:"source"`
	URL         string     `json:"url"`
	SiteURL     *string    `json:"site_url,omitempty"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	ArticleTime *time.Time `json:"article_time,omitempty"`
	CrawlDate   string     `json:"crawl_date"` // YYYY-MM-DD
	ParseTime   time.Time  `json:"parse_time"`
}

// NewArticle holds the fields of an article to insert.
type NewArticle struct {
	Source      string
	URL         string
	SiteURL     *string
	Title       string
	Content     string
	ArticleTime *time.Time
	CrawlDate   string
}

// ArticleFilter represents filtering options for listing articles.
type ArticleFilter struct {
	CrawlDate *string // Filter by crawl date (YYYY-MM-DD)
	Source    *string // Filter by exact source
	Limit     int     // Pagination limit
	Offset    int     // Pagination offset
}

// NewArticleStore creates a new article store with the given database path.
func NewArticleStore(dbPath string) (*ArticleStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &ArticleStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the tables if they don't exist.
func (s *ArticleStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		article_id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		url TEXT NOT NULL UNIQUE,
		site_url TEXT,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		article_time TEXT,
		crawl_date TEXT NOT NULL,
		parse_time TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_articles_crawl_date ON articles(crawl_date);

	CREATE TABLE IF NOT EXISTS rewritten_articles (
		rewrite_id TEXT PRIMARY KEY,
		article_id TEXT NOT NULL REFERENCES articles(article_id),
		title TEXT,
		content TEXT NOT NULL,
		rewrite_time TEXT NOT NULL,
		ai_model TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_rewritten_article_id ON rewritten_articles(article_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *ArticleStore) Close() error {
	return s.db.Close()
}

// Exists reports whether an article with the given URL is stored.
func (s *ArticleStore) Exists(url string) (bool, error) {
	var one int
	err := s.db.QueryRow("SELECT 1 FROM articles WHERE url = ? LIMIT 1", url).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query article: %w", err)
	}
	return true, nil
}

// Insert stores a new article. The parse time is set to the current time.
func (s *ArticleStore) Insert(article NewArticle) (*Article, error) {
	stored := &Article{
		ArticleID:   uuid.New(),
		Source:      article.Source,
		URL:         article.URL,
		SiteURL:     article.SiteURL,
		Title:       article.Title,
		Content:     article.Content,
		ArticleTime: article.ArticleTime,
		CrawlDate:   article.CrawlDate,
		ParseTime:   time.Now().Truncate(0),
	}

	query := `
		INSERT INTO articles (
			article_id, source, url, site_url, title, content,
			article_time, crawl_date, parse_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		stored.ArticleID.String(),
		stored.Source,
		stored.URL,
		stored.SiteURL,
		stored.Title,
		stored.Content,
		formatTime(stored.ArticleTime),
		stored.CrawlDate,
		formatTime(&stored.ParseTime),
	)
	if err != nil {
		// Check for duplicate URL constraint violation
		if strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "unique constraint") {
			return nil, ErrDuplicateURL
		}
		return nil, fmt.Errorf("failed to insert article: %w", err)
	}

	return stored, nil
}

const articleColumns = `article_id, source, url, site_url, title, content,
	article_time, crawl_date, parse_time`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// GetArticle retrieves an article by ID.
func (s *ArticleStore) GetArticle(articleID uuid.UUID) (*Article, error) {
	query := "SELECT " + articleColumns + " FROM articles WHERE article_id = ?"

	article, err := scanArticle(s.db.QueryRow(query, articleID.String()))
	if err == sql.ErrNoRows {
		return nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query article: %w", err)
	}

	return article, nil
}

// ListArticles lists articles with optional filtering, most recently
// published first.
func (s *ArticleStore) ListArticles(filter ArticleFilter) ([]Article, error) {
	where, args := filter.whereClause()
	query := "SELECT " + articleColumns + " FROM articles" + where +
		" ORDER BY COALESCE(article_time, parse_time) DESC, parse_time DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	} else if filter.Offset > 0 {
		query += fmt.Sprintf(" LIMIT -1 OFFSET %d", filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return articles, nil
}

// CountArticles counts the articles matching the filter, ignoring its
// pagination fields.
func (s *ArticleStore) CountArticles(filter ArticleFilter) (int, error) {
	where, args := filter.whereClause()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM articles"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

func (f ArticleFilter) whereClause() (string, []any) {
	var whereClauses []string
	var args []any

	if f.CrawlDate != nil {
		whereClauses = append(whereClauses, "crawl_date = ?")
		args = append(args, *f.CrawlDate)
	}
	if f.Source != nil {
		whereClauses = append(whereClauses, "source = ?")
		args = append(args, *f.Source)
	}

	if len(whereClauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(whereClauses, " AND "), args
}

func scanArticle(row rowScanner) (*Article, error) {
	var articleIDStr, source, url, title, content, crawlDate, parseTimeStr string
	var siteURL, articleTimeStr sql.NullString

	if err := row.Scan(
		&articleIDStr, &source, &url, &siteURL, &title, &content,
		&articleTimeStr, &crawlDate, &parseTimeStr,
	); err != nil {
		return nil, err
	}

	articleID, err := uuid.Parse(articleIDStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse article ID: %w", err)
	}

	article := &Article{
		ArticleID: articleID,
		Source:    source,
		URL:       url,
		Title:     title,
		Content:   content,
		CrawlDate: crawlDate,
		ParseTime: parseTime(parseTimeStr),
	}
	if siteURL.Valid {
		article.SiteURL = &siteURL.String
	}
	if articleTimeStr.Valid {
		t := parseTime(articleTimeStr.String)
		article.ArticleTime = &t
	}

	return article, nil
}

// storedTimeLayout is fixed-width UTC so that stored times sort
// lexically in time order.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Helper functions for time formatting
func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).UTC().Format(storedTimeLayout)
}

func parseTime(s string) time.Time {
	// Try RFC3339Nano first, fall back to RFC3339 for compatibility
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	return t.Truncate(0)
}

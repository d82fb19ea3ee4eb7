package articles

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// APIServer represents the read-only HTTP API over stored articles.
type APIServer struct {
	store *ArticleStore
}

// NewAPIServer creates a new article API server.
func NewAPIServer(store *ArticleStore) *APIServer {
	return &APIServer{
		store: store,
	}
}

// SetupRouter configures the Gin router with all article API routes.
func (s *APIServer) SetupRouter() *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api/v1")
	api.GET("/health", s.HandleHealth)
	api.GET("/articles", s.HandleListArticles)
	api.GET("/articles/:id", s.HandleGetArticle)
	api.GET("/articles/:id/rewrites", s.HandleListRewrites)

	return router
}

// ListArticlesResponse represents the response for GET /api/v1/articles.
type ListArticlesResponse struct {
	Articles []Article `json:"articles"`
	Total    int       `json:"total"`
}

// ListRewritesResponse represents the response for GET
// /api/v1/articles/{id}/rewrites.
type ListRewritesResponse struct {
	Rewrites []Rewrite `json:"rewrites"`
	Total    int       `json:"total"`
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// handleError maps domain errors to HTTP responses.
func (s *APIServer) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrArticleNotFound):
		c.JSON(http.StatusNotFound, errorResponse("not_found", err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to process request"))
	}
}

// HandleHealth handles GET /api/v1/health.
func (s *APIServer) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// HandleListArticles handles GET /api/v1/articles.
func (s *APIServer) HandleListArticles(c *gin.Context) {
	filter := ArticleFilter{Limit: 50}

	if date := c.Query("date"); date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("validation_error", "date must be in YYYY-MM-DD format"))
			return
		}
		filter.CrawlDate = &date
	}

	if source := c.Query("source"); source != "" {
		filter.Source = &source
	}

	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil || limit < 1 || limit > 500 {
			c.JSON(http.StatusBadRequest, errorResponse("validation_error", "limit must be between 1 and 500"))
			return
		}
		filter.Limit = limit
	}

	if offsetParam := c.Query("offset"); offsetParam != "" {
		offset, err := strconv.Atoi(offsetParam)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, errorResponse("validation_error", "offset must be a non-negative integer"))
			return
		}
		filter.Offset = offset
	}

	articles, err := s.store.ListArticles(filter)
	if err != nil {
		s.handleError(c, err)
		return
	}

	total, err := s.store.CountArticles(filter)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListArticlesResponse{
		Articles: articles,
		Total:    total,
	})
}

// HandleGetArticle handles GET /api/v1/articles/{id}.
func (s *APIServer) HandleGetArticle(c *gin.Context) {
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	article, err := s.store.GetArticle(articleID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// HandleListRewrites handles GET /api/v1/articles/{id}/rewrites.
func (s *APIServer) HandleListRewrites(c *gin.Context) {
	articleID, ok := parseArticleID(c)
	if !ok {
		return
	}

	if _, err := s.store.GetArticle(articleID); err != nil {
		s.handleError(c, err)
		return
	}

	rewrites, err := s.store.ListRewrites(articleID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListRewritesResponse{
		Rewrites: rewrites,
		Total:    len(rewrites),
	})
}

// parseArticleID reads the :id path parameter, writing a 400 response when
// it is not a UUID.
func parseArticleID(c *gin.Context) (uuid.UUID, bool) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", "invalid article ID"))
		return uuid.Nil, false
	}
	return articleID, true
}

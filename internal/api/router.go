package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techhubafrica/tech-news-tips/internal/category"
	"github.com/techhubafrica/tech-news-tips/internal/storage"
)

// Store is the read contract the handlers need from the storage layer.
type Store interface {
	FindArticles(cat string, page, limit int) ([]storage.Article, int64, error)
	FindTips(cat string, page, limit int) ([]storage.Tip, int64, error)
}

// Ingestor triggers a synchronous ingestion run for /api/refresh.
type Ingestor interface {
	RunOnce()
}

type Server struct {
	store    Store
	ingestor Ingestor
	logger   *slog.Logger
}

func NewServer(store Store, ingestor Ingestor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: store, ingestor: ingestor, logger: logger}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/", s.liveness)

	api := r.Group("/api")
	{
		api.GET("/news/:category", s.listNews)
		api.GET("/tips/:category", s.listTips)
		api.GET("/refresh", s.refresh)
	}
}

func (s *Server) liveness(c *gin.Context) {
	c.String(http.StatusOK, "API working")
}

func (s *Server) listNews(c *gin.Context) {
	cat := c.Param("category")
	if !category.IsValid(cat) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
		return
	}
	page, limit := pageParams(c, 20)

	articles, total, err := s.store.FindArticles(cat, page, limit)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
			return
		}
		s.logger.Error("fetching news failed", "category", cat, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching news"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":      articles,
		"currentPage":   page,
		"totalPages":    totalPages(total, limit),
		"totalArticles": total,
	})
}

func (s *Server) listTips(c *gin.Context) {
	cat := c.Param("category")
	if !category.IsValid(cat) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
		return
	}
	page, limit := pageParams(c, 10)

	tips, total, err := s.store.FindTips(cat, page, limit)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid category"})
			return
		}
		s.logger.Error("fetching tips failed", "category", cat, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching tips"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tips":        tips,
		"currentPage": page,
		"totalPages":  totalPages(total, limit),
		"totalTips":   total,
	})
}

// refresh runs a full ingestion cycle synchronously. A run contains
// its own failures, so reaching the response means completion.
func (s *Server) refresh(c *gin.Context) {
	s.ingestor.RunOnce()
	c.JSON(http.StatusOK, gin.H{"message": "Data refresh completed"})
}

// pageParams reads page and limit from the query string, falling back
// to page 1 and the entity's default page size on absent or garbage
// values.
func pageParams(c *gin.Context, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"newsbrief/internal/domain"
	"newsbrief/internal/ports"
)

// Ingestor runs one full ingestion pass and returns the new articles.
type Ingestor interface {
	Ingest(ctx context.Context) ([]domain.Article, error)
}

// Summarizer enriches one stored article with a generated summary.
type Summarizer interface {
	Generate(ctx context.Context, id string) (*domain.Article, error)
}

// Server exposes the pipeline and the presentation-layer surface over HTTP.
type Server struct {
	echo       *echo.Echo
	ingestor   Ingestor
	summarizer Summarizer
	store      ports.ArticleStore
	logger     *slog.Logger
}

// New builds the echo instance and registers routes.
func New(ingestor Ingestor, summarizer Summarizer, store ports.ArticleStore, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:       e,
		ingestor:   ingestor,
		summarizer: summarizer,
		store:      store,
		logger:     logger,
	}

	e.GET("/healthz", s.health)
	e.POST("/api/fetch-news", s.fetchNews)
	e.POST("/api/summarize-article", s.summarizeArticle)
	e.GET("/api/saved-articles", s.savedArticles)
	e.POST("/api/update-article-note", s.updateNote)
	e.POST("/api/remove-saved-article", s.removeArticle)

	return s
}

// Start blocks serving HTTP on the given address.
func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) fetchNews(c echo.Context) error {
	articles, err := s.ingestor.Ingest(c.Request().Context())
	if errors.Is(err, domain.ErrNoArticles) {
		return c.JSON(http.StatusOK, errorEnvelope("No articles found"))
	}
	if err != nil {
		s.logError(c, "ingest failed", err)
		return c.JSON(http.StatusInternalServerError, errorEnvelope(err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":   "success",
		"message":  "News articles fetched and stored",
		"articles": toArticleJSON(articles),
	})
}

func (s *Server) summarizeArticle(c echo.Context) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.Bind(&req); err != nil || req.ID == "" {
		return c.JSON(http.StatusBadRequest, errorEnvelope("Article ID is required"))
	}

	article, err := s.summarizer.Generate(c.Request().Context(), req.ID)
	if errors.Is(err, domain.ErrNotEligible) {
		return c.JSON(http.StatusNotFound, errorEnvelope("Article not found or already has a summary"))
	}
	if errors.Is(err, domain.ErrMalformedCompletion) {
		return c.JSON(http.StatusBadGateway, errorEnvelope(err.Error()))
	}
	if err != nil {
		s.logError(c, "summarize failed", err)
		return c.JSON(http.StatusInternalServerError, errorEnvelope(err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status": "success",
		"article": map[string]any{
			"id":      article.ID,
			"title":   article.Title,
			"summary": article.Summary,
		},
	})
}

func (s *Server) savedArticles(c echo.Context) error {
	articles, err := s.store.ListArticles(c.Request().Context())
	if err != nil {
		s.logError(c, "list articles failed", err)
		return c.JSON(http.StatusInternalServerError, errorEnvelope(err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":   "success",
		"articles": toArticleJSON(articles),
	})
}

func (s *Server) updateNote(c echo.Context) error {
	var req struct {
		ID   string `json:"id"`
		Note string `json:"note"`
	}
	if err := c.Bind(&req); err != nil || req.ID == "" {
		return c.JSON(http.StatusBadRequest, errorEnvelope("Article ID is required"))
	}

	article, err := s.store.UpdateNote(c.Request().Context(), req.ID, req.Note)
	if err != nil {
		s.logError(c, "update note failed", err)
		return c.JSON(http.StatusInternalServerError, errorEnvelope(err.Error()))
	}
	if article == nil {
		return c.JSON(http.StatusNotFound, errorEnvelope("Article not found"))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":  "success",
		"article": articleJSONFrom(*article),
	})
}

func (s *Server) removeArticle(c echo.Context) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.Bind(&req); err != nil || req.ID == "" {
		return c.JSON(http.StatusBadRequest, errorEnvelope("Article ID is required"))
	}

	deleted, err := s.store.DeleteArticle(c.Request().Context(), req.ID)
	if err != nil {
		s.logError(c, "remove article failed", err)
		return c.JSON(http.StatusInternalServerError, errorEnvelope(err.Error()))
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, errorEnvelope("Article not found"))
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (s *Server) logError(c echo.Context, msg string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, "path", c.Path(), "error", err)
	}
}

func errorEnvelope(message string) map[string]string {
	return map[string]string{
		"status":  "error",
		"message": message,
	}
}

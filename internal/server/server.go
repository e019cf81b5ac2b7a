package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agenthands/moviesearch/internal/core/validate"
	"github.com/agenthands/moviesearch/internal/llm"
	"github.com/agenthands/moviesearch/internal/logger"
	"github.com/agenthands/moviesearch/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// Searcher resolves free text to movie titles.
type Searcher interface {
	Search(ctx context.Context, userText string) ([]string, error)
}

// Pinger reports whether the document store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	Search Searcher
	Store  Pinger
	Logger *zap.Logger
}

func NewServer(search Searcher, store Pinger, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		Search: search,
		Store:  store,
		Logger: log,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger(), metrics.Middleware())

	r.POST("/query", s.Query)
	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		log := s.Logger.With(zap.String("request_id", id))
		c.Request = c.Request.WithContext(logger.ContextWithLogger(c.Request.Context(), log))

		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

type QueryRequest struct {
	Query string `form:"query" json:"query"`
}

// Query handles POST /query. The body is either a form with a "query" field
// or a JSON object; the success response is a bare array of titles.
func (s *Server) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	titles, err := s.Search.Search(c.Request.Context(), req.Query)
	if err != nil {
		status, msg := statusFor(err)
		logger.FromContext(c.Request.Context()).Error("search failed",
			zap.Int("status", status),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if titles == nil {
		titles = []string{}
	}
	c.JSON(http.StatusOK, titles)
}

func (s *Server) Health(c *gin.Context) {
	if err := s.Store.Ping(c.Request.Context()); err != nil {
		logger.FromContext(c.Request.Context()).Warn("store ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// statusFor maps a search error to one of a closed set of user-facing
// categories. Internal detail never reaches the response body.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, validate.ErrInvalidSyntax), errors.Is(err, validate.ErrSchemaViolation):
		return http.StatusUnprocessableEntity, "could not understand query"
	case errors.Is(err, llm.ErrBackendUnavailable), errors.Is(err, llm.ErrBackendTimeout):
		return http.StatusServiceUnavailable, "service unavailable"
	default:
		return http.StatusInternalServerError, "search failed"
	}
}

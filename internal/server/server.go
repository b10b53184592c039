package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Anurooppatidar/EnergiIntel-Project/internal/domain"
)

// Orchestrator is the subset of the service layer the HTTP handlers depend on.
type Orchestrator interface {
	Ingest(ctx context.Context, filename string, data []byte) (domain.IngestStats, error)
	Ask(ctx context.Context, question string) (domain.QueryResult, error)
	ChunksIndexed() int
}

// Server exposes the document QA pipeline over HTTP with JSON bodies.
// Failure kinds map deterministically to status codes: 4xx for
// caller-correctable conditions, 5xx for provider and infrastructure ones.
type Server struct {
	engine        Orchestrator
	keyConfigured func() bool
	log           *slog.Logger
}

// New creates the HTTP layer. keyConfigured reports whether the provider
// credential is present, surfaced by the health endpoint.
func New(engine Orchestrator, keyConfigured func() bool, log *slog.Logger) *Server {
	if keyConfigured == nil {
		keyConfigured = func() bool { return false }
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{engine: engine, keyConfigured: keyConfigured, log: log}
}

// Router builds the gin engine with all routes and permissive CORS; the
// service is assumed to run behind a trusted boundary.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
	}))
	router.GET("/health", s.health)
	router.POST("/upload", s.upload)
	router.POST("/query", s.query)
	return router
}

type healthResponse struct {
	Status            string `json:"status"`
	VectorStoreActive bool   `json:"vector_store_active"`
	ChunksIndexed     int    `json:"chunks_indexed"`
	APIKeyConfigured  bool   `json:"api_key_configured"`
}

// health never fails and has no upstream dependency.
func (s *Server) health(c *gin.Context) {
	chunks := s.engine.ChunksIndexed()
	c.JSON(http.StatusOK, healthResponse{
		Status:            "online",
		VectorStoreActive: chunks > 0,
		ChunksIndexed:     chunks,
		APIKeyConfigured:  s.keyConfigured(),
	})
}

type uploadResponse struct {
	Status      string `json:"status"`
	Filename    string `json:"filename"`
	ChunksAdded int    `json:"chunks_added"`
	TotalChunks int    `json:"total_chunks"`
}

func (s *Server) upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "multipart field 'file' is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		s.fail(c, "upload", err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(c, "upload", err)
		return
	}

	stats, err := s.engine.Ingest(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		s.fail(c, "upload", err)
		return
	}
	c.JSON(http.StatusOK, uploadResponse{
		Status:      "success",
		Filename:    fileHeader.Filename,
		ChunksAdded: stats.ChunksAdded,
		TotalChunks: stats.TotalChunks,
	})
}

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id"`
}

type queryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

func (s *Server) query(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "request body must be JSON with a 'query' field"})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "query must not be empty"})
		return
	}

	result, err := s.engine.Ask(c.Request.Context(), req.Query)
	if err != nil {
		s.fail(c, "query", err)
		return
	}
	sources := result.Sources
	if sources == nil {
		sources = []string{}
	}
	c.JSON(http.StatusOK, queryResponse{Answer: result.Answer, Sources: sources})
}

// fail maps an error to its response. Known kinds keep their human-readable
// message; anything unexpected is logged with detail and reported generically
// so the process and index state survive the failed request.
func (s *Server) fail(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	detail := err.Error()

	var dm *domain.DimensionMismatchError
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrIndexEmpty):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrGenerationUnavailable),
		errors.As(err, &dm):
		// provider/infrastructure condition, message is already actionable
		s.log.Warn(op+" failed", "error", err)
	default:
		s.log.Error(op+" failed", "error", err)
		detail = op + " failed unexpectedly, see server logs"
	}
	c.JSON(status, gin.H{"detail": detail})
}

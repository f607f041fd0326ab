package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vikas872/nyay-sathi-clean/internal/agent"
	"github.com/vikas872/nyay-sathi-clean/internal/index"
	"github.com/vikas872/nyay-sathi-clean/internal/model"
)

// Server exposes the orchestrator over HTTP: a JSON ask endpoint, an
// SSE streaming variant, and health probes.
type Server struct {
	engine *gin.Engine
	orch   *agent.Orchestrator
	index  *index.Service
	cfg    model.ServerConfig
}

// New wires routes and middleware onto a gin engine
func New(orch *agent.Orchestrator, indexSvc *index.Service, cfg model.ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		orch:   orch,
		index:  indexSvc,
		cfg:    cfg,
	}

	engine.Use(corsMiddleware(cfg.CORSOrigins))

	engine.GET("/", s.handleHealth)
	engine.GET("/health", s.handleHealth)

	api := engine.Group("/")
	if len(cfg.APIKeys) > 0 {
		api.Use(authMiddleware(cfg.APIKeys))
	}
	if cfg.RatePerMinute > 0 {
		api.Use(rateLimitMiddleware(cfg.RatePerMinute))
	}
	api.POST("/ask", s.handleAsk)
	api.POST("/ask/stream", s.handleAskStream)

	return s
}

// Handler returns the underlying handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run blocks serving HTTP on the configured address
func (s *Server) Run() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	log.Printf("listening on %s", addr)
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	loaded := 0
	if s.index != nil {
		loaded = s.index.Count()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"service":        "Nyay Sathi Backend",
		"vectors_loaded": loaded,
	})
}

// Package server exposes the award graph over a REST API: lookups,
// aggregate statistics, visualization jobs with progress streaming, and
// the chat agent.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/awardgraph/awardgraph/pkg/agent"
	"github.com/awardgraph/awardgraph/pkg/cache"
	"github.com/awardgraph/awardgraph/pkg/config"
	"github.com/awardgraph/awardgraph/pkg/graph"
	"github.com/awardgraph/awardgraph/pkg/server/handlers"
	"github.com/awardgraph/awardgraph/pkg/viz"
)

// Server is the HTTP front end over a loaded graph store.
type Server struct {
	cfg    *config.Config
	store  *graph.Store
	log    *slog.Logger
	engine *gin.Engine
	http   *http.Server

	cache         cache.Cache
	vizManager    *viz.Manager
	conversations *agent.Conversations
}

// New creates a server over store. conversations may be nil when no
// LLM API key is configured; the chat endpoints then report the
// feature as unavailable.
func New(cfg *config.Config, store *graph.Store, conversations *agent.Conversations, log *slog.Logger) (*Server, error) {
	if log == nil {
		log = slog.Default()
	}

	c, err := cache.New(cfg.Cache.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening aggregate cache: %w", err)
	}

	gin.SetMode(cfg.Server.Mode)
	return &Server{
		cfg:           cfg,
		store:         store,
		log:           log,
		engine:        gin.New(),
		cache:         c,
		vizManager:    viz.NewManager(store, cfg.Viz.OutputDir, log),
		conversations: conversations,
	}, nil
}

// Setup registers middleware and routes. Call once before Start.
func (s *Server) Setup() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())

	graphH := handlers.NewGraphHandler(s.store)
	aggH := handlers.NewAggregateHandler(s.store, s.cache, time.Duration(s.cfg.Cache.TTLSeconds)*time.Second, s.log)
	vizH := handlers.NewVisualizeHandler(s.vizManager)
	chatH := handlers.NewChatHandler(s.conversations)
	healthH := handlers.NewHealthHandler(s.store)

	s.engine.GET("/health", healthH.Health)

	api := s.engine.Group("/api")
	{
		api.GET("/stats", graphH.Stats)
		api.GET("/search", graphH.Search)
		api.GET("/node/*id", graphH.Node)

		api.GET("/organizations", aggH.Organizations)
		api.GET("/technologies", aggH.Technologies)
		api.GET("/states", aggH.States)

		api.POST("/visualize", vizH.Create)
		api.GET("/visualize/progress/:job_id", vizH.Progress)

		api.POST("/chat/query", chatH.Query)
		api.POST("/chat/reset", chatH.Reset)
	}

	// Generated visualizations are plain HTML files served as-is.
	s.engine.Static("/"+s.cfg.Viz.OutputDir, s.cfg.Viz.OutputDir)
}

// Start runs the HTTP server until it fails or Stop is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	s.log.Info("starting server", "addr", addr, "nodes", s.store.NodeCount(), "edges", s.store.EdgeCount())
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully and releases the cache.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	if s.http != nil {
		shutdownErr = s.http.Shutdown(ctx)
	}
	if err := s.cache.Close(); err != nil && shutdownErr == nil {
		shutdownErr = err
	}
	return shutdownErr
}

// requestLogger logs each request at debug with method, path, status
// and latency.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// Package http provides the HTTP transport adapter for the workflow engine.
// It is a thin layer translating requests to engine operations; any other
// transport could wrap the same operations.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mkolari/procflow/internal/application/port"
	appwf "github.com/mkolari/procflow/internal/application/workflow"
)

// Logger interface for logging operations, satisfied by zap.SugaredLogger
type Logger interface {
	Infow(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	engine     appwf.Engine
	registry   port.TemplateRegistry
	logger     Logger
}

// NewServer creates a new HTTP server around the engine and registry
func NewServer(config ServerConfig, engine appwf.Engine, registry port.TemplateRegistry, logger Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		engine:   engine,
		registry: registry,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Infow("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.engine, s.registry, s.logger)

	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	{
		api.POST("/templates", handlers.RegisterTemplate)
		api.GET("/templates", handlers.ListTemplates)
		api.GET("/templates/:name", handlers.GetTemplate)

		api.POST("/processes", handlers.CreateProcess)
		api.GET("/processes", handlers.ListProcesses)
		api.GET("/processes/:id", handlers.GetProcess)
		api.GET("/processes/:id/history", handlers.GetHistory)
		api.GET("/processes/:id/sla", handlers.GetSLA)
		api.POST("/processes/:id/checklist", handlers.UpdateChecklistItem)
		api.POST("/processes/:id/advance", handlers.AdvanceStep)
		api.POST("/processes/:id/reassign", handlers.Reassign)
		api.POST("/processes/:id/status", handlers.SetStatus)
	}
}

// Start begins serving HTTP requests
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Infow("HTTP server starting", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Infow("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/trigg3rX/triggerx-performer/internal/performer/api/handlers"
	"github.com/trigg3rX/triggerx-performer/pkg/logging"
)

// Server represents the API server
type Server struct {
	router     *gin.Engine
	handler    http.Handler
	httpServer *http.Server
	logger     logging.Logger
}

// Config holds the server configuration
type Config struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxHeaderBytes int
	// Upper bound on one pipeline run, applied on top of the request context.
	RequestTimeout time.Duration
	DevMode        bool
}

// Dependencies holds the server dependencies
type Dependencies struct {
	Logger           logging.Logger
	Executor         handlers.TaskExecutor
	Version          string
	PerformerAddress common.Address
}

// NewServer creates a new API server
func NewServer(cfg Config, deps Dependencies) *Server {
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		// The write deadline must outlive a full pipeline run.
		cfg.WriteTimeout = cfg.RequestTimeout + 10*time.Second
	}
	if cfg.MaxHeaderBytes == 0 {
		cfg.MaxHeaderBytes = 1 << 20 // 1MB
	}

	if cfg.DevMode {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept", "Origin"},
	})

	srv := &Server{
		router:  router,
		handler: corsHandler.Handler(router),
		logger:  deps.Logger,
	}
	srv.httpServer = &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Port),
		Handler:        srv.handler,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	srv.setupMiddleware()
	srv.setupRoutes(cfg, deps)

	return srv
}

// Handler exposes the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start starts the server
func (s *Server) Start() error {
	s.logger.Info("Starting API server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(MetricsMiddleware())
}

func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	taskHandler := handlers.NewTaskHandler(deps.Logger, deps.Executor, cfg.RequestTimeout)
	healthHandler := handlers.NewHealthHandler(deps.Version, deps.PerformerAddress)

	s.router.POST("/task/execute", taskHandler.ExecuteTask)
	s.router.GET("/health", healthHandler.Check)
}

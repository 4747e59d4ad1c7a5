// Package server exposes the compiler and the executor over HTTP with gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/esdsl/config"
	"github.com/ncobase/esdsl/data/metrics"
	"github.com/ncobase/esdsl/data/search"
	"github.com/ncobase/esdsl/logging/logger"
)

const healthTimeout = 3 * time.Second

// Server represents the HTTP surface.
type Server struct {
	cfg       *config.Server
	executor  *search.Executor
	collector *metrics.SearchCollector
	logger    *logger.Logger
	engine    *gin.Engine
	http      *http.Server
}

// New creates a server. The executor may be nil, in which case only
// /dsl and /health are useful.
func New(cfg *config.Server, executor *search.Executor, collector *metrics.SearchCollector, log *logger.Logger) *Server {
	if log == nil {
		log = logger.StdLogger()
	}
	if cfg == nil {
		cfg = &config.Server{Host: "127.0.0.1", Port: 8080}
	}
	s := &Server{
		cfg:       cfg,
		executor:  executor,
		collector: collector,
		logger:    log,
	}
	s.engine = s.setupRouter()
	return s
}

// Handler returns the gin engine
func (s *Server) Handler() http.Handler {
	return s.engine
}

// setupRouter sets up the gin router.
func (s *Server) setupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(traceMiddleware())
	r.Use(s.loggerMiddleware())

	r.GET("/health", s.health)
	r.GET("/stats", s.stats)
	r.POST("/dsl", s.compile)
	r.POST("/search/:index", s.search)
	r.POST("/count/:index", s.count)
	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof(ctx, "listening on %s", s.cfg.Addr())
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	s.logger.Info(shutdownCtx, "shutting down server")
	return s.http.Shutdown(shutdownCtx)
}

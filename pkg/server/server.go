package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kcaldas/netterm/pkg/logging"
	"github.com/kcaldas/netterm/pkg/version"
)

const (
	DefaultAddr     = ":5000"
	shutdownTimeout = 10 * time.Second
)

// NewRouter builds the gin engine serving the toolkit API and /health
func NewRouter(tools Toolkit, log logging.Logger) *gin.Engine {
	if log == nil {
		log = logging.NewAPILogger("toolkit")
	}
	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger(log))
	router.Use(Recovery(log))

	RegisterRoutes(router, tools, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.GetVersion()})
	})
	return router
}

// Server owns the HTTP listener for the toolkit API
type Server struct {
	http   *http.Server
	logger logging.Logger
}

func New(addr string, tools Toolkit, log logging.Logger) *Server {
	if log == nil {
		log = logging.NewAPILogger("toolkit")
	}
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(tools, log),
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      60 * time.Second,
		},
		logger: log,
	}
}

func (s *Server) Addr() string {
	return s.http.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}
	return nil
}

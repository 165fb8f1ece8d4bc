package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stickershop/internal/logging"
	orderrepo "stickershop/internal/repository/order"
)

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds a Server with the storefront routes.
func New(addr string, logger *zap.Logger, deps Deps) *Server {
	logger = logging.OrNop(logger)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           buildRouter(logger, deps),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return &Server{httpServer: httpSrv, logger: logger}
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readyHandler never fails on the repository: orders are accepted without it.
func readyHandler(repo Prober) gin.HandlerFunc {
	return func(c *gin.Context) {
		if repo == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready", "repository": "disabled"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		c.JSON(http.StatusOK, gin.H{"status": "ready", "repository": repositoryState(repo.Probe(ctx))})
	}
}

func repositoryState(p orderrepo.Probe) string {
	switch {
	case !p.Configured:
		return "disabled"
	case !p.Connected:
		return "unreachable"
	case !p.TableExists:
		return "not migrated"
	case p.Err != nil:
		return "degraded"
	default:
		return "ok"
	}
}

// Package server wires the chatrelay HTTP surface: the chi router with its
// middleware stack and the listener with graceful shutdown.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/teilomillet/chatrelay/config"
	"github.com/teilomillet/chatrelay/errors"
	"github.com/teilomillet/chatrelay/server/metrics"
	"github.com/teilomillet/chatrelay/server/middleware"
	"go.uber.org/zap"
)

// Router handles HTTP routing
type Router struct {
	router chi.Router
}

// NewRouter creates a router serving the chatbot endpoint, health and
// metrics, and static files from staticDir for every other GET.
func NewRouter(chatbot http.Handler, m *metrics.Metrics, staticDir string, logger *zap.Logger) *Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.PrometheusMetrics(m))
	r.Use(middleware.CORS)

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		errors.WriteError(w, errors.NewMethodNotAllowedError(middleware.GetRequestID(req.Context()), req.Method))
	})

	r.Post("/chatbot", chatbot.ServeHTTP)
	r.Get("/health", healthHandler(logger))
	r.Handle("/metrics", m.Handler())
	r.Get("/*", staticFiles(staticDir))

	return &Router{router: r}
}

func healthHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			logger.Error("Failed to encode health response",
				zap.String("request_id", middleware.GetRequestID(r.Context())),
				zap.Error(err),
			)
		}
	}
}

// staticFiles serves dir with http.FileServer. A path with nothing behind it
// gets the JSON not-found error rather than FileServer's plain text.
func staticFiles(dir string) http.HandlerFunc {
	root := http.Dir(dir)
	files := http.FileServer(root)
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := root.Open(path.Clean("/" + r.URL.Path))
		if os.IsNotExist(err) {
			errors.WriteError(w, errors.NewNotFoundError(middleware.GetRequestID(r.Context()), r.URL.Path))
			return
		}
		if err == nil {
			f.Close()
		}
		files.ServeHTTP(w, r)
	}
}

// ServeHTTP implements http.Handler
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *zap.Logger
}

// NewServer creates a new server instance
func NewServer(cfg config.ServerConfig, handler http.Handler, logger *zap.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Port),
			Handler:        handler,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Start starts the server and blocks until ctx is cancelled or the
// listener fails. On cancellation in-flight requests get up to the
// configured shutdown timeout to finish.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Server listening", zap.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		s.logger.Info("Shutting down server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}

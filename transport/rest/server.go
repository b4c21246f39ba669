package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rocketscienceinc/playroom/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger *slog.Logger
	router chi.Router
}

type Options struct {
	AllowedOrigins []string
	Gatherer       prometheus.Gatherer
	// RequestsPerMinute per client IP on /api; zero disables the limit.
	RequestsPerMinute int
	Burst             int
}

func New(logger *slog.Logger, opts Options, games gameService, scores leaderboardService, products catalogService) *Server {
	log := logger.With("component", "rest")

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(log))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	router.Get("/ping", pingHandler)
	if opts.Gatherer != nil {
		router.Method(http.MethodGet, "/metrics", metrics.Handler(opts.Gatherer))
	}

	router.Route("/api", func(r chi.Router) {
		if opts.RequestsPerMinute > 0 {
			r.Use(newRateLimiter(opts.RequestsPerMinute, opts.Burst).middleware)
		}

		r.Route("/matches", newMatchHandlers(log, games).routes)
		r.Route("/leaderboard", newLeaderboardHandlers(log, scores).routes)
		r.Route("/catalog", newCatalogHandlers(log, products).routes)
	})

	return &Server{
		logger: log,
		router: router,
	}
}

func (that *Server) Handler() http.Handler {
	return that.router
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down HTTP server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()

			next.ServeHTTP(ww, r)

			logger.Debug("request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(started),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

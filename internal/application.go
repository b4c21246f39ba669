package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rocketscienceinc/playroom/internal/config"
	"github.com/rocketscienceinc/playroom/internal/leaderboard"
	"github.com/rocketscienceinc/playroom/internal/metrics"
	"github.com/rocketscienceinc/playroom/internal/repository"
	"github.com/rocketscienceinc/playroom/internal/repository/storage"
	"github.com/rocketscienceinc/playroom/internal/tictactoe"
	"github.com/rocketscienceinc/playroom/internal/transport/productapi"
	"github.com/rocketscienceinc/playroom/internal/usecase"
	"github.com/rocketscienceinc/playroom/transport/rest"
	"github.com/rocketscienceinc/playroom/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	if conf.Redis.Host == "" || conf.Redis.Port == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	leaderboardRepo := repository.NewLeaderboardRepository(redisStorage, conf.Leaderboard.Key)
	leaderboardManager := usecase.NewLeaderboardManager(logger, leaderboardRepo, leaderboard.NewAggregator(), collector)
	if err = leaderboardManager.Rehydrate(ctx); err != nil {
		return fmt.Errorf("could not rehydrate leaderboard: %w", err)
	}

	matchRepo := repository.NewMatchRepository(redisStorage, conf.Matches.SessionTTL)
	gameManager := usecase.NewGameManager(logger, matchRepo, tictactoe.NewGameController(), leaderboardManager, collector)

	productClient := productapi.New(&http.Client{Timeout: conf.ProductAPI.Timeout}, logger, conf.ProductAPI.BaseURL)
	catalogManager := usecase.NewCatalogManager(logger, productClient, collector, conf.ProductAPI.PageSize)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		restServer := rest.New(logger, rest.Options{
			AllowedOrigins:    conf.CORS.AllowedOrigins,
			Gatherer:          registry,
			RequestsPerMinute: conf.RateLimit.RequestsPerMinute,
			Burst:             conf.RateLimit.Burst,
		}, gameManager, leaderboardManager, catalogManager)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, conf.CORS.AllowedOrigins, gameManager, leaderboardManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

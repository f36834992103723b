package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/stream-leaderboard/internal/common/clock"
	"github.com/rickgao/stream-leaderboard/internal/config"
	"github.com/rickgao/stream-leaderboard/internal/database"
	"github.com/rickgao/stream-leaderboard/internal/leaderboard"
	"github.com/rickgao/stream-leaderboard/internal/server"
	"github.com/rickgao/stream-leaderboard/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/leaderboard.local.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "err", err)
	}

	cfg, err := config.LoadServerAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "config", *configPath)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting leaderboard api",
		"version", version.Version,
		"commit", version.Commit,
		"build", version.String(),
		"config", *configPath,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	source, err := leaderboard.NewPostgresSource(pool)
	if err != nil {
		logger.Error("failed to create user source", "err", err)
		os.Exit(1)
	}

	logger.Info("database connected")

	var cache leaderboard.Cache
	if cfg.Cache.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		defer redisClient.Close()

		redisCache, err := leaderboard.NewRedisCache(&leaderboard.RedisCacheConfig{
			RedisClient: redisClient,
			TTL:         cfg.Cache.Redis.TTL,
		})
		if err != nil {
			logger.Error("failed to create snapshot cache", "err", err, "addr", cfg.Cache.Redis.Addr)
			os.Exit(1)
		}
		cache = redisCache
		logger.Info("snapshot cache enabled", "addr", cfg.Cache.Redis.Addr, "ttl", cfg.Cache.Redis.TTL)
	}

	clk := clock.New()

	service, err := leaderboard.NewService(leaderboard.Config{
		Limit:         cfg.Server.Limit,
		DefaultWindow: cfg.Server.DefaultWindow,
	}, source, cache, clk, logger)
	if err != nil {
		logger.Error("failed to create leaderboard service", "err", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.NewAPIRouter(server.APIConfig{
			AllowedOrigin: cfg.Server.AllowedOrigin,
			QueryTimeout:  cfg.Server.QueryTimeout,
		}, service, clk, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting api server", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("leaderboard api exited with error", "err", err)
		os.Exit(1)
	}

	logger.Info("leaderboard api stopped")
}

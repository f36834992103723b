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
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/stream-leaderboard/internal/api"
	"github.com/rickgao/stream-leaderboard/internal/common/clock"
	"github.com/rickgao/stream-leaderboard/internal/config"
	"github.com/rickgao/stream-leaderboard/internal/display"
	"github.com/rickgao/stream-leaderboard/internal/refresh"
	"github.com/rickgao/stream-leaderboard/internal/server"
	"github.com/rickgao/stream-leaderboard/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/widget.local.yaml", "path to config file")
	flag.Parse()

	// .env is optional; variables already in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env", "err", err)
	}

	cfg, err := config.LoadWidgetAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "config", *configPath)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting widget",
		"version", version.Version,
		"commit", version.Commit,
		"build", version.String(),
		"config", *configPath,
	)
	logger.Info("configuration loaded",
		"resource_url", cfg.Widget.ResourceURL,
		"refresh_interval", cfg.Widget.RefreshInterval,
		"slot_count", cfg.Widget.SlotCount,
		"inactivity_threshold", cfg.Widget.InactivityThreshold,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clk := clock.New()

	client := api.NewClient(
		cfg.Widget.ResourceURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Widget.RequestTimeout),
		api.WithClock(clk),
	)

	hub := display.NewHub(display.HubConfig{
		QueueSize:      cfg.Display.QueueSize,
		PingInterval:   cfg.Display.PingInterval,
		WriteTimeout:   cfg.Display.WriteTimeout,
		AllowedOrigins: cfg.Display.AllowedOrigins,
	}, display.NewDocument(cfg.Widget.SlotCount), logger)

	loop := refresh.New(refresh.Config{
		Interval:            cfg.Widget.RefreshInterval,
		SlotCount:           cfg.Widget.SlotCount,
		RequestTimeout:      cfg.Widget.RequestTimeout,
		InactivityThreshold: cfg.Widget.InactivityThreshold,
	}, client, hub, clk, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Display.Port),
		Handler:           server.NewWidgetRouter(hub, loop, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting display server", "port", cfg.Display.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("display server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := loop.Start(gctx); err != nil {
			return fmt.Errorf("start refresh loop: %w", err)
		}
		logger.Info("widget running",
			"state_url", fmt.Sprintf("http://localhost:%d/state", cfg.Display.Port),
		)

		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := loop.Stop(shutdownCtx); err != nil {
			logger.Warn("refresh loop did not stop cleanly", "err", err)
		}
		hub.Close()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("widget exited with error", "err", err)
		os.Exit(1)
	}

	logger.Info("widget stopped")
}

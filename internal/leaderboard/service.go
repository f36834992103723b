package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/stream-leaderboard/internal/common/clock"
	"github.com/rickgao/stream-leaderboard/internal/model"
)

// TimestampLayout matches the snapshot timestamps the published widget already consumes.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Config holds snapshot service configuration.
type Config struct {
	Limit         int           // Users per snapshot (default: 25)
	DefaultWindow time.Duration // Activity window when none is requested (default: 30m)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Limit:         25,
		DefaultWindow: 30 * time.Minute,
	}
}

// Service assembles leaderboard snapshots.
type Service struct {
	cfg    Config
	source UserSource
	cache  Cache
	clock  clock.Clock
	logger *slog.Logger
}

// NewService creates a Service. cache may be nil to disable caching.
func NewService(cfg Config, source UserSource, cache Cache, clk clock.Clock, logger *slog.Logger) (*Service, error) {
	if source == nil {
		return nil, errors.New("user source cannot be nil")
	}
	if cfg.Limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1, got %d", cfg.Limit)
	}
	if cfg.DefaultWindow <= 0 {
		return nil, fmt.Errorf("default window must be positive, got %v", cfg.DefaultWindow)
	}
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:    cfg,
		source: source,
		cache:  cache,
		clock:  clk,
		logger: logger,
	}, nil
}

// DefaultWindow returns the window used when callers pass zero.
func (s *Service) DefaultWindow() time.Duration {
	return s.cfg.DefaultWindow
}

// Snapshot returns the leaderboard for users active within window.
// A non-positive window selects the default.
func (s *Service) Snapshot(ctx context.Context, window time.Duration) (*model.Snapshot, error) {
	if window <= 0 {
		window = s.cfg.DefaultWindow
	}
	key := cacheKey(window)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("snapshot cache read failed", "key", key, "err", err)
		}
	}

	now := s.clock.Now().UTC()
	users, err := s.source.TopActive(ctx, now.Add(-window), s.cfg.Limit)
	if err != nil {
		return nil, fmt.Errorf("load top users: %w", err)
	}

	snapshot := Build(users, now)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, snapshot); err != nil {
			s.logger.Warn("snapshot cache write failed", "key", key, "err", err)
		}
	}

	return snapshot, nil
}

// Ping checks the user source and, when configured, the cache.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.source.Ping(ctx); err != nil {
		return fmt.Errorf("ping user source: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			return fmt.Errorf("ping cache: %w", err)
		}
	}
	return nil
}

// Build converts ranked users into a snapshot. Users must already be ordered.
func Build(users []model.User, now time.Time) *model.Snapshot {
	entries := make([]model.Entry, 0, len(users))
	for i, u := range users {
		entries = append(entries, model.Entry{
			Position: i + 1,
			Username: u.Username,
			Points:   model.NumberPoints(model.RoundPoints(u.Points)),
		})
	}

	status := model.StatusInactive
	if len(entries) > 0 {
		status = model.StatusActive
	}

	return &model.Snapshot{
		Status:    status,
		Users:     entries,
		Timestamp: now.UTC().Format(TimestampLayout),
	}
}

func cacheKey(window time.Duration) string {
	return fmt.Sprintf("window:%ds", int64(window/time.Second))
}

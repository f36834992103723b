package leaderboard

import (
	"context"
	"errors"
	"time"

	"github.com/rickgao/stream-leaderboard/internal/model"
)

// ErrCacheMiss is returned by Cache.Get when no snapshot is stored under the key.
var ErrCacheMiss = errors.New("snapshot not cached")

//go:generate mockgen -package=mocks -destination=mocks/mock_leaderboard.go github.com/rickgao/stream-leaderboard/internal/leaderboard UserSource,Cache

// UserSource reads ranked users.
type UserSource interface {
	// TopActive returns up to limit non-eliminated users updated at or after
	// since, highest points first.
	TopActive(ctx context.Context, since time.Time, limit int) ([]model.User, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}

// Cache stores rendered snapshots.
type Cache interface {
	Get(ctx context.Context, key string) (*model.Snapshot, error)
	Set(ctx context.Context, key string, snapshot *model.Snapshot) error
	Ping(ctx context.Context) error
}

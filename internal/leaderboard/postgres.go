package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/stream-leaderboard/internal/model"
)

const topActiveQuery = `
SELECT id, username, COALESCE(points, 0), COALESCE(is_eliminated, false), updated_at
FROM users
WHERE updated_at >= $1
  AND is_eliminated = false
ORDER BY points DESC
LIMIT $2`

// PostgresSource reads users from the loyalty points database.
type PostgresSource struct {
	pool *pgxpool.Pool
}

// NewPostgresSource creates a UserSource backed by pool.
func NewPostgresSource(pool *pgxpool.Pool) (*PostgresSource, error) {
	if pool == nil {
		return nil, errors.New("postgres pool cannot be nil")
	}
	return &PostgresSource{pool: pool}, nil
}

// TopActive implements UserSource.
func (s *PostgresSource) TopActive(ctx context.Context, since time.Time, limit int) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, topActiveQuery, since.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.User, error) {
		var u model.User
		err := row.Scan(&u.ID, &u.Username, &u.Points, &u.IsEliminated, &u.UpdatedAt)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan users: %w", err)
	}

	return users, nil
}

// Ping implements UserSource.
func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}

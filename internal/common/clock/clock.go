package clock

import "time"

//go:generate mockgen -package=mocks -destination=mocks/mock_clock.go github.com/rickgao/stream-leaderboard/internal/common/clock Clock,Ticker

// Clock supplies the current time and repeating tickers.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks on C until stopped.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// DefaultClock implements the Clock interface using the system clock
type DefaultClock struct{}

// New returns the system clock.
func New() *DefaultClock {
	return &DefaultClock{}
}

// Now returns the current time
func (c *DefaultClock) Now() time.Time {
	return time.Now()
}

// NewTicker wraps time.NewTicker.
func (c *DefaultClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }

func (r *realTicker) Stop() { r.t.Stop() }

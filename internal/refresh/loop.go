package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/stream-leaderboard/internal/api"
	"github.com/rickgao/stream-leaderboard/internal/common/clock"
	"github.com/rickgao/stream-leaderboard/internal/display"
	"github.com/rickgao/stream-leaderboard/internal/model"
)

// SnapshotSource fetches the latest snapshot.
type SnapshotSource interface {
	FetchSnapshot(ctx context.Context) (*model.Snapshot, error)
}

// Config holds refresh loop configuration.
type Config struct {
	Interval            time.Duration // Cycle period (default: 5m)
	SlotCount           int           // Highest slot position (default: 25)
	RequestTimeout      time.Duration // Bound on one cycle's fetch (default: 30s)
	InactivityThreshold time.Duration // Declared for parity, not consumed (default: 15m)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:            300000 * time.Millisecond,
		SlotCount:           25,
		RequestTimeout:      30 * time.Second,
		InactivityThreshold: 15 * time.Minute,
	}
}

// Stats summarizes completed cycles.
type Stats struct {
	Cycles    int64         `json:"cycles"`
	Active    int64         `json:"active"`
	Offline   int64         `json:"offline"`
	Errors    int64         `json:"errors"`
	LastState display.State `json:"-"`
	LastRunAt time.Time     `json:"last_run_at"`
}

// Loop periodically reconciles a display surface with the latest snapshot.
type Loop struct {
	cfg     Config
	source  SnapshotSource
	surface display.Surface
	clock   clock.Clock
	logger  *slog.Logger

	cycles, active, offline, errs atomic.Int64
	lastState                     atomic.Int32
	lastRunAt                     atomic.Int64

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	ticker  clock.Ticker
	sched   sync.WaitGroup
	running sync.WaitGroup
}

// New creates a new Loop.
func New(cfg Config, source SnapshotSource, surface display.Surface, clk clock.Clock, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.New()
	}
	if cfg.SlotCount < 1 {
		cfg.SlotCount = DefaultConfig().SlotCount
	}
	return &Loop{
		cfg:     cfg,
		source:  source,
		surface: surface,
		clock:   clk,
		logger:  logger,
	}
}

// Start runs one cycle immediately and then one per interval until Stop.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		return errors.New("refresh loop already started")
	}
	if l.cfg.Interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %v", l.cfg.Interval)
	}

	l.ctx, l.cancel = context.WithCancel(ctx)
	l.ticker = l.clock.NewTicker(l.cfg.Interval)

	l.sched.Add(1)
	go l.run()

	l.logger.Info("refresh loop started",
		"interval", l.cfg.Interval,
		"slots", l.cfg.SlotCount,
	)

	return nil
}

// Stop halts scheduling and waits for in-flight cycles to finish.
func (l *Loop) Stop(ctx context.Context) error {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		l.sched.Wait()
		l.running.Wait()
		close(done)
	}()

	select {
	case <-done:
		l.logger.Info("refresh loop stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the scheduler. Each cycle gets its own goroutine so a slow fetch
// never delays the next tick.
func (l *Loop) run() {
	defer l.sched.Done()
	defer l.ticker.Stop()

	l.launch()

	for {
		select {
		case <-l.ctx.Done():
			return
		case <-l.ticker.C():
			l.launch()
		}
	}
}

func (l *Loop) launch() {
	// Detached from the scheduler: Stop and later ticks never cancel a cycle.
	base := context.WithoutCancel(l.ctx)

	l.running.Add(1)
	go func() {
		defer l.running.Done()
		l.RunCycle(base)
	}()
}

// RunCycle performs one fetch-and-reconcile pass and returns the state shown.
// It never panics and never returns an error; failures become StateError.
func (l *Loop) RunCycle(ctx context.Context) (state display.State) {
	start := l.clock.Now()
	var applied, skipped int

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("refresh cycle panicked", "panic", r)
			state = l.showError()
		}
		l.record(state, start)
		l.logger.Info("refresh cycle complete",
			"state", state,
			"applied", applied,
			"skipped", skipped,
			"duration", l.clock.Now().Sub(start),
		)
	}()

	fetchCtx := ctx
	if l.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, l.cfg.RequestTimeout)
		defer cancel()
	}

	snapshot, err := l.source.FetchSnapshot(fetchCtx)
	if err != nil {
		l.logger.Warn("failed to fetch snapshot",
			"kind", describe(err),
			"err", err,
		)
		return l.showError()
	}

	if !snapshot.Active() {
		l.surface.SetStatus(display.StateOffline)
		l.ClearAllSlots()
		return display.StateOffline
	}

	l.surface.SetStatus(display.StateActive)
	applied, skipped = l.apply(snapshot.Users)
	return display.StateActive
}

// ClearAllSlots empties positions 1..SlotCount.
func (l *Loop) ClearAllSlots() {
	for p := 1; p <= l.cfg.SlotCount; p++ {
		l.surface.ClearSlot(p)
	}
}

// Stats returns a copy of the cycle counters.
func (l *Loop) Stats() Stats {
	var lastRunAt time.Time
	if ns := l.lastRunAt.Load(); ns != 0 {
		lastRunAt = time.Unix(0, ns)
	}
	return Stats{
		Cycles:    l.cycles.Load(),
		Active:    l.active.Load(),
		Offline:   l.offline.Load(),
		Errors:    l.errs.Load(),
		LastState: display.State(l.lastState.Load()),
		LastRunAt: lastRunAt,
	}
}

// Config returns the loop configuration.
func (l *Loop) Config() Config {
	return l.cfg
}

// apply writes entries whose position falls in 1..SlotCount.
func (l *Loop) apply(entries []model.Entry) (applied, skipped int) {
	for _, e := range entries {
		if e.Position < 1 || e.Position > l.cfg.SlotCount {
			l.logger.Debug("skipping entry outside slot range",
				"position", e.Position,
				"username", e.Username,
			)
			skipped++
			continue
		}
		l.surface.SetSlot(e.Position, e.Username, e.Points.String())
		applied++
	}
	return applied, skipped
}

// showError sets the error presentation without touching slots. A surface
// that panics here is ignored so the cycle still completes.
func (l *Loop) showError() display.State {
	func() {
		defer func() { recover() }()
		l.surface.SetStatus(display.StateError)
	}()
	return display.StateError
}

func (l *Loop) record(state display.State, start time.Time) {
	l.cycles.Add(1)
	switch state {
	case display.StateActive:
		l.active.Add(1)
	case display.StateOffline:
		l.offline.Add(1)
	case display.StateError:
		l.errs.Add(1)
	}
	l.lastState.Store(int32(state))
	l.lastRunAt.Store(start.UnixNano())
}

// describe names the failure kind of a fetch error.
func describe(err error) string {
	var fetchErr *api.FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Kind.String()
	}
	return "unknown failure"
}

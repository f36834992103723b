package refresh

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/stream-leaderboard/internal/common/clock/mocks"
	"github.com/rickgao/stream-leaderboard/internal/display"
	"github.com/rickgao/stream-leaderboard/internal/model"
	"go.uber.org/mock/gomock"
)

// manualSchedule wires a mock clock whose ticker fires only when the test sends on ticks.
func manualSchedule(t *testing.T, interval time.Duration) (*mocks.MockClock, chan time.Time) {
	t.Helper()
	ctrl := gomock.NewController(t)

	ticks := make(chan time.Time)
	ticker := mocks.NewMockTicker(ctrl)
	ticker.EXPECT().C().Return((<-chan time.Time)(ticks)).AnyTimes()
	ticker.EXPECT().Stop().Times(1)

	clk := mocks.NewMockClock(ctrl)
	clk.EXPECT().Now().Return(time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)).AnyTimes()
	clk.EXPECT().NewTicker(interval).Return(ticker).Times(1)

	return clk, ticks
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLoop_StartRunsImmediatelyAndOnTick(t *testing.T) {
	cfg := testConfig()
	clk, ticks := manualSchedule(t, cfg.Interval)

	var calls atomic.Int32
	source := sourceFunc(func(context.Context) (*model.Snapshot, error) {
		calls.Add(1)
		return activeSnapshot(entry(1, "alice", 42)), nil
	})

	doc := display.NewDocument(25)
	l := New(cfg, source, doc, clk, nil)

	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitFor(t, "initial cycle", func() bool { return l.Stats().Cycles == 1 })

	ticks <- time.Now()
	waitFor(t, "tick cycle", func() bool { return l.Stats().Cycles == 2 })

	ticks <- time.Now()
	waitFor(t, "second tick cycle", func() bool { return l.Stats().Cycles == 3 })

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if got := calls.Load(); got != 3 {
		t.Errorf("fetches = %d, want 3", got)
	}
	assertSlot(t, doc, 1, "alice", "42")
}

func TestLoop_StartTwice(t *testing.T) {
	cfg := testConfig()
	clk, _ := manualSchedule(t, cfg.Interval)

	l := New(cfg, staticSource(&model.Snapshot{}), display.NewDocument(25), clk, nil)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := l.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestLoop_InvalidInterval(t *testing.T) {
	cfg := testConfig()
	cfg.Interval = 0

	l := New(cfg, staticSource(&model.Snapshot{}), display.NewDocument(25), nil, nil)
	if err := l.Start(context.Background()); err == nil {
		t.Error("Start with zero interval should fail")
	}
}

// TestLoop_OverlappingCycles shows that a tick during a slow fetch starts a
// second cycle and that the slower cycle's writes land last.
func TestLoop_OverlappingCycles(t *testing.T) {
	cfg := testConfig()
	clk, ticks := manualSchedule(t, cfg.Interval)

	release := make(chan struct{})
	firstStarted := make(chan struct{})
	var calls atomic.Int32

	source := sourceFunc(func(ctx context.Context) (*model.Snapshot, error) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			<-release
			return activeSnapshot(entry(1, "slow", 1)), nil
		}
		return activeSnapshot(entry(1, "fast", 2)), nil
	})

	doc := display.NewDocument(25)
	l := New(cfg, source, doc, clk, nil)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	<-firstStarted
	ticks <- time.Now()
	waitFor(t, "overlapping cycle", func() bool { return l.Stats().Cycles == 1 })
	assertSlot(t, doc, 1, "fast", "2")

	close(release)
	waitFor(t, "slow cycle", func() bool { return l.Stats().Cycles == 2 })
	assertSlot(t, doc, 1, "slow", "1")

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.Stop(stopCtx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

// TestLoop_StopDoesNotCancelInFlightCycle checks that Stop waits for a
// running cycle and that the cycle's context stays live.
func TestLoop_StopDoesNotCancelInFlightCycle(t *testing.T) {
	cfg := testConfig()
	clk, _ := manualSchedule(t, cfg.Interval)

	release := make(chan struct{})
	started := make(chan struct{})
	var ctxErr atomic.Value

	source := sourceFunc(func(ctx context.Context) (*model.Snapshot, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			ctxErr.Store(err)
		}
		return activeSnapshot(entry(1, "alice", 42)), nil
	})

	doc := display.NewDocument(25)
	l := New(cfg, source, doc, clk, nil)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	<-started

	stopped := make(chan error, 1)
	go func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		stopped <- l.Stop(stopCtx)
	}()

	select {
	case err := <-stopped:
		t.Fatalf("Stop returned before cycle finished: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("Stop failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	if err := ctxErr.Load(); err != nil {
		t.Errorf("cycle context was cancelled: %v", err)
	}
	assertSlot(t, doc, 1, "alice", "42")
	if got := l.Stats().Cycles; got != 1 {
		t.Errorf("Cycles = %d, want 1", got)
	}
}

func TestLoop_StopTimeout(t *testing.T) {
	cfg := testConfig()
	clk, _ := manualSchedule(t, cfg.Interval)

	release := make(chan struct{})
	started := make(chan struct{})
	source := sourceFunc(func(context.Context) (*model.Snapshot, error) {
		close(started)
		<-release
		return &model.Snapshot{}, nil
	})

	l := New(cfg, source, display.NewDocument(25), clk, nil)
	if err := l.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	<-started

	stopCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := l.Stop(stopCtx); err != context.DeadlineExceeded {
		t.Errorf("Stop() = %v, want %v", err, context.DeadlineExceeded)
	}

	close(release)
	waitFor(t, "cycle to finish", func() bool { return l.Stats().Cycles == 1 })
}

func TestLoop_StopWithoutStart(t *testing.T) {
	l := New(testConfig(), staticSource(&model.Snapshot{}), display.NewDocument(25), nil, nil)
	if err := l.Stop(context.Background()); err != nil {
		t.Errorf("Stop() = %v, want nil", err)
	}
}

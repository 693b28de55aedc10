package highlight

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/pseudoedit/pkg/buffer"
	"github.com/fivemoreminix/pseudoedit/pkg/markup"
)

// mockClock implements Clock for deterministic testing.
type mockClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*mockTimer
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2026, 1, 17, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTimer{
		deadline: c.now.Add(d),
		ch:       make(chan time.Time, 1),
	}
	c.timers = append(c.timers, t)
	return t
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	timers := c.timers
	c.mu.Unlock()

	// Fire expired timers outside the lock to avoid deadlock
	for _, t := range timers {
		t.mu.Lock()
		if !t.stopped && !t.fired && !t.deadline.After(now) {
			t.fired = true
			select {
			case t.ch <- now:
			default:
			}
		}
		t.mu.Unlock()
	}
}

type mockTimer struct {
	mu       sync.Mutex
	deadline time.Time
	ch       chan time.Time
	stopped  bool
	fired    bool
}

func (t *mockTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasRunning := !t.stopped && !t.fired
	t.stopped = true
	return wasRunning
}

func (t *mockTimer) C() <-chan time.Time {
	return t.ch
}

func TestScheduler_DefaultDelay(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	require.Equal(t, DefaultDelay, s.delay)
	require.IsType(t, RealClock{}, s.clock)
}

func TestScheduler_BurstCollapsesToOnePass(t *testing.T) {
	clock := newMockClock()
	var passes atomic.Int32
	s := NewScheduler(SchedulerConfig{
		Clock: clock,
		Pass:  func(context.Context, func() bool) { passes.Add(1) },
	})
	s.Start()
	defer s.Stop()

	for range 5 {
		s.RequestHighlight()
		clock.Advance(100 * time.Millisecond)
	}
	require.Equal(t, uint64(5), s.Generation())
	require.Never(t, func() bool { return passes.Load() > 0 }, 50*time.Millisecond, 5*time.Millisecond,
		"no pass before the quiet period ends")

	clock.Advance(400 * time.Millisecond)
	require.Eventually(t, func() bool { return passes.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Never(t, func() bool { return passes.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestScheduler_NewRequestSupersedesRunningPass(t *testing.T) {
	clock := newMockClock()
	started := make(chan func() bool, 2)
	release := make(chan struct{})
	s := NewScheduler(SchedulerConfig{
		Clock: clock,
		Pass: func(_ context.Context, current func() bool) {
			started <- current
			<-release
		},
	})
	s.Start()

	s.RequestHighlight()
	clock.Advance(DefaultDelay)

	var current func() bool
	select {
	case current = <-started:
	case <-time.After(time.Second):
		t.Fatal("pass did not start")
	}
	require.True(t, current())

	s.RequestHighlight()
	require.False(t, current(), "a newer request makes the running pass stale")

	close(release)
	clock.Advance(DefaultDelay)
	select {
	case current = <-started:
		require.True(t, current())
	case <-time.After(time.Second):
		t.Fatal("second pass did not start")
	}
	s.Stop()
}

func TestScheduler_StopCancelsPass(t *testing.T) {
	clock := newMockClock()
	started := make(chan func() bool, 1)
	s := NewScheduler(SchedulerConfig{
		Clock: clock,
		Pass: func(ctx context.Context, current func() bool) {
			started <- current
			<-ctx.Done()
		},
	})
	s.Start()
	s.RequestHighlight()
	clock.Advance(DefaultDelay)

	current := <-started
	s.Stop()
	require.False(t, current())

	s.RequestHighlight() // Ignored once stopped
	require.Equal(t, uint64(1), s.Generation())
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	s := NewScheduler(SchedulerConfig{Clock: newMockClock()})
	s.Stop() // Before Start
	s.Stop()

	s = NewScheduler(SchedulerConfig{Clock: newMockClock()})
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestScheduler_RealClock(t *testing.T) {
	var passes atomic.Int32
	s := NewScheduler(SchedulerConfig{
		Delay: 10 * time.Millisecond,
		Pass:  func(context.Context, func() bool) { passes.Add(1) },
	})
	s.Start()
	defer s.Stop()

	s.RequestHighlight()
	require.Eventually(t, func() bool { return passes.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_DrivesTagger(t *testing.T) {
	clock := newMockClock()
	reg := markup.Builtin()
	reg.Seal()
	buf := buffer.NewRopeBuffer(nil)
	tagger := NewTagger(buf, reg)

	var applied atomic.Int32
	s := NewScheduler(SchedulerConfig{
		Clock: clock,
		Pass: func(ctx context.Context, current func() bool) {
			if ok, err := tagger.Pass(ctx, current); err == nil && ok {
				applied.Add(1)
			}
		},
	})
	s.Start()
	defer s.Stop()

	for _, r := range "while x" {
		line, col := buf.ClampLineCol(0, 1<<20)
		buf.Insert(line, col, []byte(string(r)))
		s.RequestHighlight()
	}
	clock.Advance(DefaultDelay)

	require.Eventually(t, func() bool { return applied.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, []buffer.Range{{Start: buffer.Pos(0, 0), End: buffer.Pos(0, 5)}}, buf.Tags(markup.CatKeyword))
}

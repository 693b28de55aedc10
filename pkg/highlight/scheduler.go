// Package highlight keeps the category tags of a buffer in step with its
// text. A Scheduler debounces edit notifications, and a Tagger runs the
// pattern scans and writes the resulting tags.
package highlight

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultDelay is the quiet period after the last edit before a pass runs.
const DefaultDelay = 500 * time.Millisecond

// Clock provides time-related operations for testability.
// Use RealClock for production and a fake clock for testing.
type Clock interface {
	Now() time.Time
	// NewTimer creates a new Timer that will send the current time
	// on its channel after at least duration d.
	NewTimer(d time.Duration) Timer
}

// Timer represents a timer that can be stopped and provides a channel.
type Timer interface {
	// Stop prevents the Timer from firing. Returns true if the call stops
	// the timer, false if the timer has already expired or been stopped.
	Stop() bool
	C() <-chan time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) NewTimer(d time.Duration) Timer {
	return &realTimer{timer: time.NewTimer(d)}
}

type realTimer struct {
	timer *time.Timer
}

func (t *realTimer) Stop() bool          { return t.timer.Stop() }
func (t *realTimer) C() <-chan time.Time { return t.timer.C }

// PassFunc runs one highlight pass. current reports whether the pass is
// still the most recent one requested; once it returns false the pass must
// not change any tags.
type PassFunc func(ctx context.Context, current func() bool)

// SchedulerConfig holds configuration for creating a Scheduler.
type SchedulerConfig struct {
	// Delay is the quiet period. Defaults to DefaultDelay if zero.
	Delay time.Duration
	// Clock provides time operations. Defaults to RealClock if nil.
	Clock Clock
	// Pass is run once per quiet period. Required.
	Pass PassFunc
}

// Scheduler coalesces bursts of highlight requests into single passes. Every
// request bumps a generation counter and restarts the timer; when the timer
// fires, a pass runs for the generation it was started for, unless a newer
// request arrived in the meantime. Passes run one at a time on the
// scheduler's goroutine.
type Scheduler struct {
	delay time.Duration
	clock Clock
	pass  PassFunc

	generation atomic.Uint64

	mu       sync.Mutex
	timer    Timer
	timerGen uint64 // Generation the timer was started for
	wake     chan struct{}

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	started atomic.Bool
}

func NewScheduler(cfg SchedulerConfig) *Scheduler {
	delay := cfg.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	clock := cfg.Clock
	if clock == nil {
		clock = RealClock{}
	}
	pass := cfg.Pass
	if pass == nil {
		pass = func(context.Context, func() bool) {}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		delay:  delay,
		clock:  clock,
		pass:   pass,
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Start launches the scheduler goroutine. Calling it more than once does
// nothing.
func (s *Scheduler) Start() {
	if s.started.Swap(true) {
		return
	}
	go s.loop()
}

// Stop terminates the scheduler, cancelling a running pass, and waits for
// the goroutine to exit. Safe to call multiple times, and before Start.
func (s *Scheduler) Stop() {
	s.cancel()
	if s.started.Load() {
		<-s.done
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Generation returns the number of requests made so far.
func (s *Scheduler) Generation() uint64 {
	return s.generation.Load()
}

// RequestHighlight asks for a pass after the quiet period. It never blocks.
func (s *Scheduler) RequestHighlight() {
	if s.ctx.Err() != nil {
		return
	}
	gen := s.generation.Add(1)

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clock.NewTimer(s.delay)
	s.timerGen = gen
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop() {
	defer close(s.done)

	for {
		timerCh, gen := s.timerState()

		select {
		case <-s.wake:
			// The timer was replaced; pick up the new one.

		case <-timerCh:
			s.fire(gen)

		case <-s.ctx.Done():
			return
		}
	}
}

// timerState returns the timer's channel, nil if no timer is active, and the
// generation it belongs to.
func (s *Scheduler) timerState() (<-chan time.Time, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer == nil {
		return nil, 0
	}
	return s.timer.C(), s.timerGen
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if s.timerGen == gen {
		s.timer = nil
	}
	s.mu.Unlock()

	if gen != s.generation.Load() {
		return // Superseded before the pass could start
	}
	current := func() bool {
		return s.ctx.Err() == nil && s.generation.Load() == gen
	}
	s.pass(s.ctx, current)
}

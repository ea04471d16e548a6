package table

import (
	"sync"
	"time"
)

// Scheduler runs continuations after a delay. Every engine wait (deal
// pacing, AI thinking time, reveal durations) goes through a Scheduler, so
// a game can run against wall-clock time or collapse every wait for
// deterministic tests. The sequence of actions is identical either way.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler schedules continuations on real timers. Each continuation
// re-acquires the engine mutex before running, preserving the single
// logical thread of control.
type TimerScheduler struct {
	mu *sync.Mutex
}

// NewTimerScheduler builds a scheduler whose continuations hold mu.
func NewTimerScheduler(mu *sync.Mutex) *TimerScheduler {
	return &TimerScheduler{mu: mu}
}

func (s *TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		fn()
	})
}

// ImmediateScheduler runs continuations inline with zero delay. The caller
// already holds the engine mutex, so entire games run synchronously; used
// by tests and fast simulations.
type ImmediateScheduler struct{}

func (ImmediateScheduler) After(_ time.Duration, fn func()) { fn() }

// ManualScheduler queues continuations for explicit pumping. A driver
// advances the game one continuation at a time, stopping at any point of
// interest; delays are ignored. Single-threaded use only.
type ManualScheduler struct {
	queue []func()
}

func (m *ManualScheduler) After(_ time.Duration, fn func()) {
	m.queue = append(m.queue, fn)
}

// Pending reports how many continuations are queued.
func (m *ManualScheduler) Pending() int { return len(m.queue) }

// Step runs the oldest queued continuation, reporting whether one ran.
func (m *ManualScheduler) Step() bool {
	if len(m.queue) == 0 {
		return false
	}
	fn := m.queue[0]
	m.queue = m.queue[1:]
	fn()
	return true
}

// RunAll pumps queued continuations until none remain or limit steps ran,
// returning the number executed.
func (m *ManualScheduler) RunAll(limit int) int {
	steps := 0
	for steps < limit && m.Step() {
		steps++
	}
	return steps
}

// Step is one unit of a timed sequence: wait Delay, then run Do.
type Step struct {
	Delay time.Duration
	Do    func()
}

// runSteps chains a sequence of steps through the scheduler. Each step's
// delay elapses before its action; the next step is scheduled only after
// the previous action ran, so actions never interleave.
func runSteps(s Scheduler, steps []Step) {
	if len(steps) == 0 {
		return
	}
	head, rest := steps[0], steps[1:]
	s.After(head.Delay, func() {
		if head.Do != nil {
			head.Do()
		}
		runSteps(s, rest)
	})
}

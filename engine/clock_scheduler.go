package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// ClockScheduler converts game-clock time into a whole number of fixed ticks
// Time the caller cannot keep up with beyond maxCatchUp ticks is dropped, not queued
type ClockScheduler struct {
	mu    sync.Mutex
	clock *PausableClock

	tick       time.Duration
	maxCatchUp int

	last    time.Time
	acc     time.Duration
	dropped time.Duration

	ticks atomic.Uint64
}

// NewClockScheduler creates a scheduler over clock
func NewClockScheduler(clock *PausableClock, tick time.Duration, maxCatchUp int) *ClockScheduler {
	if maxCatchUp < 1 {
		maxCatchUp = 1
	}
	return &ClockScheduler{
		clock:      clock,
		tick:       tick,
		maxCatchUp: maxCatchUp,
		last:       clock.Now(),
	}
}

// Tick returns the fixed step duration
func (cs *ClockScheduler) Tick() time.Duration {
	return cs.tick
}

// Due returns how many ticks to run for the game time elapsed since the last call
func (cs *ClockScheduler) Due() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	now := cs.clock.Now()
	cs.acc += now.Sub(cs.last)
	cs.last = now

	n := int(cs.acc / cs.tick)
	cs.acc -= time.Duration(n) * cs.tick
	if n > cs.maxCatchUp {
		cs.dropped += time.Duration(n-cs.maxCatchUp) * cs.tick
		n = cs.maxCatchUp
	}
	cs.ticks.Add(uint64(n))
	return n
}

// untilNext returns the wait until the next tick is due
func (cs *ClockScheduler) untilNext() time.Duration {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.clock.IsPaused() {
		return cs.tick * 2
	}
	return cs.tick - cs.acc
}

// Run calls step with the due tick count, sleeping between ticks until ctx is done
// A step error stops the loop and is returned
func (cs *ClockScheduler) Run(ctx context.Context, step func(n int) error) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		if err := step(cs.Due()); err != nil {
			return err
		}
		timer.Reset(cs.untilNext())
	}
}

// Pause freezes the game clock
func (cs *ClockScheduler) Pause() {
	cs.clock.Pause()
}

// Resume restarts the game clock without accounting the paused time
func (cs *ClockScheduler) Resume() {
	cs.clock.Resume()
}

// TogglePause flips the pause state and returns the new state
func (cs *ClockScheduler) TogglePause() bool {
	if cs.clock.IsPaused() {
		cs.clock.Resume()
		return false
	}
	cs.clock.Pause()
	return true
}

// Paused reports whether the clock is frozen
func (cs *ClockScheduler) Paused() bool {
	return cs.clock.IsPaused()
}

// Ticks returns the total ticks handed out
func (cs *ClockScheduler) Ticks() uint64 {
	return cs.ticks.Load()
}

// Dropped returns the game time discarded by the catch-up cap
func (cs *ClockScheduler) Dropped() time.Duration {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.dropped
}

package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(maxCatchUp int) (*MockTimeProvider, *ClockScheduler) {
	mock := NewMockTimeProvider(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return mock, NewClockScheduler(NewPausableClock(mock), 10*time.Millisecond, maxCatchUp)
}

func TestClockSchedulerDue(t *testing.T) {
	mock, cs := newTestScheduler(5)
	assert.Equal(t, 0, cs.Due())

	mock.Advance(25 * time.Millisecond)
	assert.Equal(t, 2, cs.Due())

	// Remainder carries into the next call
	mock.Advance(5 * time.Millisecond)
	assert.Equal(t, 1, cs.Due())
	assert.Equal(t, uint64(3), cs.Ticks())
	assert.Equal(t, 10*time.Millisecond, cs.Tick())
}

func TestClockSchedulerCatchUpCap(t *testing.T) {
	mock, cs := newTestScheduler(3)

	mock.Advance(100 * time.Millisecond)
	assert.Equal(t, 3, cs.Due())
	assert.Equal(t, 70*time.Millisecond, cs.Dropped())

	// Dropped time is not replayed
	assert.Equal(t, 0, cs.Due())
}

func TestClockSchedulerPause(t *testing.T) {
	mock, cs := newTestScheduler(5)

	assert.True(t, cs.TogglePause())
	assert.True(t, cs.Paused())
	mock.Advance(time.Second)
	assert.Equal(t, 0, cs.Due())
	assert.Equal(t, 20*time.Millisecond, cs.untilNext())

	assert.False(t, cs.TogglePause())
	mock.Advance(20 * time.Millisecond)
	assert.Equal(t, 2, cs.Due(), "paused time is not simulated")

	cs.Pause()
	cs.Resume()
	assert.False(t, cs.Paused())
}

func TestClockSchedulerRunStopsOnError(t *testing.T) {
	mock, cs := newTestScheduler(5)
	stop := errors.New("stop")

	var calls atomic.Int32
	err := cs.Run(context.Background(), func(n int) error {
		mock.Advance(10 * time.Millisecond)
		if calls.Add(1) == 3 {
			return stop
		}
		return nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, stop))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClockSchedulerRunCancel(t *testing.T) {
	_, cs := newTestScheduler(5)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- cs.Run(ctx, func(int) error { return nil })
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a float64 gauge written by the simulation and read by the renderer
type AtomicFloat struct {
	bits atomic.Uint64
}

func (f *AtomicFloat) Set(v float64) {
	f.bits.Store(math.Float64bits(v))
}

func (f *AtomicFloat) Get() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add adds delta and returns the new value
func (f *AtomicFloat) Add(delta float64) float64 {
	return f.update(func(old float64) float64 { return old + delta })
}

// Smooth folds v into an exponential moving average with weight alpha in (0, 1]
// The first sample is stored as is
func (f *AtomicFloat) Smooth(v, alpha float64) float64 {
	return f.update(func(old float64) float64 {
		if old == 0 {
			return v
		}
		return old + alpha*(v-old)
	})
}

func (f *AtomicFloat) update(fn func(float64) float64) float64 {
	for {
		old := f.bits.Load()
		next := fn(math.Float64frombits(old))
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}

// MaxStringLen caps stored strings so the status line stays on one row
const MaxStringLen = 32

// AtomicString holds a short label such as the level name or collision strategy
type AtomicString struct {
	ptr atomic.Pointer[string]
}

func (s *AtomicString) Store(v string) {
	if len(v) > MaxStringLen {
		v = v[:MaxStringLen]
	}
	s.ptr.Store(&v)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

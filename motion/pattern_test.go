package motion

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/danmaku/vmath"
)

func TestPatternQuarterSweep(t *testing.T) {
	p, err := NewPattern().Sweep(FixedAngle(0), FixedAngle(90)).Amount(4).
		Interval(0).Speed(10).Radius(0).Build(vmath.Vec2{}, vmath.Vec2{})
	require.NoError(t, err)

	shots := p.Advance(0)
	require.Len(t, shots, 4)
	for i, want := range []float64{0, 30, 60, 90} {
		assert.InDelta(t, want, vmath.NormalizeDeg(vmath.AngleOf(shots[i].Velocity)), 1e-9, "shot %d", i)
		assert.InDelta(t, 10, shots[i].Velocity.Len(), 1e-9)
		assert.Equal(t, vmath.Vec2{}, shots[i].Offset)
	}

	for call := 2; call <= 5; call++ {
		assert.Empty(t, p.Advance(0), "call %d", call)
	}
	assert.True(t, p.Finished())
}

func TestPatternShotCount(t *testing.T) {
	for _, n := range []int{1, 2, 7, 20} {
		p, err := NewPattern().Sweep(FixedAngle(-45), FixedAngle(45)).Amount(n).
			Interval(50 * time.Millisecond).Speed(100).Radius(4).Build(vmath.Vec2{}, vmath.Vec2{})
		require.NoError(t, err)

		total := 0
		for i := 0; i < 200 && !p.Finished(); i++ {
			shots := p.Advance(tick)
			for _, s := range shots {
				assert.InDelta(t, 4, s.Offset.Len(), 1e-9)
			}
			total += len(shots)
		}
		assert.Equal(t, n, total)
		assert.True(t, p.Finished())
		assert.Empty(t, p.Advance(time.Second))
	}
}

func TestPatternFirstShotImmediate(t *testing.T) {
	p, err := NewPattern().Angle(FixedAngle(270)).Amount(3).Interval(100 * time.Millisecond).
		Speed(1).Build(vmath.Vec2{}, vmath.Vec2{})
	require.NoError(t, err)

	assert.Len(t, p.Advance(0), 1)
	assert.Empty(t, p.Advance(50*time.Millisecond))
	assert.Len(t, p.Advance(50*time.Millisecond), 1)
	assert.Len(t, p.Advance(100*time.Millisecond), 1)
	assert.True(t, p.Finished())
}

func TestPatternRepeatBursts(t *testing.T) {
	p, err := NewPattern().Angle(FixedAngle(0)).Amount(3).Interval(0).
		Repeat(2, 500*time.Millisecond).Speed(1).Build(vmath.Vec2{}, vmath.Vec2{})
	require.NoError(t, err)

	assert.Len(t, p.Advance(0), 3)
	assert.False(t, p.Finished(), "repeats pending")
	assert.Empty(t, p.Advance(400*time.Millisecond))
	assert.Len(t, p.Advance(100*time.Millisecond), 3)
	assert.Len(t, p.Advance(500*time.Millisecond), 3)
	assert.True(t, p.Finished())
	assert.Equal(t, 9, p.Emitted())
}

func TestPatternTrackerReaims(t *testing.T) {
	target := vmath.V(10, 0)
	p, err := NewPattern().Angle(TargetAngle(0)).Amount(1).
		Repeat(1, time.Second).Speed(1).Build(vmath.Vec2{}, target)
	require.NoError(t, err)
	p.SetTracker(func() vmath.Vec2 { return target })

	first := p.Advance(0)
	require.Len(t, first, 1)
	assert.InDelta(t, 0, vmath.AngleOf(first[0].Velocity), 1e-9)

	target = vmath.V(0, 10)
	second := p.Advance(time.Second)
	require.Len(t, second, 1)
	assert.InDelta(t, 90, vmath.AngleOf(second[0].Velocity), 1e-9, "new burst aims at the current target")
}

func TestPatternWobble(t *testing.T) {
	build := func(dir Rotation) *Pattern {
		p, err := NewPattern().Angle(FixedAngle(0)).Amount(2).Interval(250 * time.Millisecond).
			Wobble(Wobble{Amplitude: 10, Period: time.Second, Direction: dir}).
			Speed(1).Build(vmath.Vec2{}, vmath.Vec2{})
		require.NoError(t, err)
		return p
	}

	ccw := build(CounterClockwise)
	s := ccw.Advance(0)
	require.Len(t, s, 1)
	assert.InDelta(t, 0, vmath.AngleOf(s[0].Velocity), 1e-9, "sin(0) = 0")
	s = ccw.Advance(250 * time.Millisecond)
	require.Len(t, s, 1)
	assert.InDelta(t, 10, vmath.AngleOf(s[0].Velocity), 1e-9, "quarter period peak")

	cw := build(Clockwise)
	cw.Advance(0)
	s = cw.Advance(250 * time.Millisecond)
	require.Len(t, s, 1)
	assert.InDelta(t, -10, vmath.AngleOf(s[0].Velocity), 1e-9)
}

func TestPatternMirrorTwice(t *testing.T) {
	builders := []*PatternBuilder{
		NewPattern().Sweep(FixedAngle(10), FixedAngle(170)).Amount(5).Speed(3),
		NewPattern().Sweep(TargetAngle(-15), TargetAngle(15)).Amount(3).Speed(3),
		NewPattern().Angle(FixedAngle(-120)).Amount(1).Speed(3),
	}
	from, target := vmath.V(5, 5), vmath.V(-30, 70)
	for i, b := range builders {
		orig, err := b.Build(from, target)
		require.NoError(t, err)

		twiceX, err := b.MirrorX().MirrorX().Build(from, target)
		require.NoError(t, err)
		twiceY, err := b.MirrorY().MirrorY().Build(from, target)
		require.NoError(t, err)

		os, oe := orig.Angles()
		for _, m := range []*Pattern{twiceX, twiceY} {
			ms, me := m.Angles()
			assert.InDelta(t, 0, vmath.AngleDiff(os, ms), 1e-9, "builder %d start", i)
			assert.InDelta(t, 0, vmath.AngleDiff(oe, me), 1e-9, "builder %d stop", i)
		}
	}
}

func TestPatternMirrorXReflects(t *testing.T) {
	b := NewPattern().Sweep(FixedAngle(0), FixedAngle(60)).Amount(3).Speed(1)
	p, err := b.MirrorX().Build(vmath.Vec2{}, vmath.Vec2{})
	require.NoError(t, err)
	shots := p.Advance(0)
	require.Len(t, shots, 3)
	for i, want := range []float64{180, 150, 120} {
		assert.InDelta(t, want, vmath.NormalizeDeg(vmath.AngleOf(shots[i].Velocity)), 1e-9)
	}

	rt, err := NewPattern().Sweep(FixedAngle(0), FixedAngle(60)).Amount(3).Speed(1).Build(vmath.Vec2{}, vmath.Vec2{})
	require.NoError(t, err)
	rt.MirrorX()
	rt.MirrorX()
	s, e := rt.Angles()
	assert.InDelta(t, 0, s, 1e-9)
	assert.InDelta(t, 60, e, 1e-9)
}

func TestPatternTrigger(t *testing.T) {
	p, err := NewPattern().Angle(FixedAngle(0)).Amount(2).Speed(1).Build(vmath.Vec2{}, vmath.Vec2{})
	require.NoError(t, err)
	assert.Len(t, p.Advance(0), 2)
	assert.True(t, p.Finished())

	p.Trigger()
	assert.False(t, p.Finished())
	assert.Len(t, p.Advance(0), 2)
}

func TestPatternBuildErrors(t *testing.T) {
	_, err := NewPattern().Amount(1).Speed(1).Build(vmath.Vec2{}, vmath.Vec2{})
	assert.True(t, errors.Is(err, ErrMissingField))
	_, err = NewPattern().Angle(FixedAngle(0)).Speed(1).Build(vmath.Vec2{}, vmath.Vec2{})
	assert.True(t, errors.Is(err, ErrMissingField))
	_, err = NewPattern().Angle(FixedAngle(0)).Amount(1).Build(vmath.Vec2{}, vmath.Vec2{})
	assert.True(t, errors.Is(err, ErrMissingField))
	_, err = NewPattern().Angle(FixedAngle(0)).Amount(0).Speed(1).Build(vmath.Vec2{}, vmath.Vec2{})
	assert.Error(t, err)
}

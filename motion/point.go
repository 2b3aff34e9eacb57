package motion

import (
	"fmt"

	"github.com/lixenwraith/danmaku/vmath"
)

// PointKind selects how a Point is resolved
type PointKind uint8

const (
	// PointFixed is an absolute world position
	PointFixed PointKind = iota
	// PointCurrent is an offset from the builder's current position
	PointCurrent
	// PointTarget is an offset from the tracked target position
	PointTarget
)

// Point is a symbolic position resolved once at build time
type Point struct {
	Kind PointKind
	V    vmath.Vec2
}

// Fixed returns an absolute point
func Fixed(x, y float64) Point {
	return Point{Kind: PointFixed, V: vmath.V(x, y)}
}

// Current returns a point relative to the current position
func Current(dx, dy float64) Point {
	return Point{Kind: PointCurrent, V: vmath.V(dx, dy)}
}

// Target returns a point relative to the tracked target
func Target(dx, dy float64) Point {
	return Point{Kind: PointTarget, V: vmath.V(dx, dy)}
}

// Resolve evaluates the point against the build context
func (p Point) Resolve(current, target vmath.Vec2) vmath.Vec2 {
	switch p.Kind {
	case PointCurrent:
		return current.Add(p.V)
	case PointTarget:
		return target.Add(p.V)
	}
	return p.V
}

// MirrorX reflects across the vertical axis; relative offsets are reflected too
func (p Point) MirrorX() Point {
	return Point{Kind: p.Kind, V: p.V.MirrorX()}
}

// MirrorY reflects across the horizontal axis
func (p Point) MirrorY() Point {
	return Point{Kind: p.Kind, V: p.V.MirrorY()}
}

func (p Point) String() string {
	switch p.Kind {
	case PointCurrent:
		return fmt.Sprintf("current%+v", p.V)
	case PointTarget:
		return fmt.Sprintf("target%+v", p.V)
	}
	return fmt.Sprintf("%+v", p.V)
}

// Angle is a symbolic direction in degrees resolved at build time
type Angle struct {
	Tracked bool    // relative to the direction towards the target
	Deg     float64 // fixed value, or offset when Tracked
}

// FixedAngle returns an absolute direction
func FixedAngle(deg float64) Angle {
	return Angle{Deg: deg}
}

// TargetAngle returns the direction towards the target plus offset
func TargetAngle(offset float64) Angle {
	return Angle{Tracked: true, Deg: offset}
}

// Resolve evaluates the angle from an origin towards the target
func (a Angle) Resolve(from, target vmath.Vec2) float64 {
	if a.Tracked {
		return vmath.AngleTo(from, target) + a.Deg
	}
	return a.Deg
}

// MirrorX reflects across the vertical axis: a -> 180-a, tracked offsets negate
func (a Angle) MirrorX() Angle {
	if a.Tracked {
		return Angle{Tracked: true, Deg: -a.Deg}
	}
	return Angle{Deg: 180 - a.Deg}
}

// MirrorY reflects across the horizontal axis: a -> -a, tracked offsets negate
func (a Angle) MirrorY() Angle {
	return Angle{Tracked: a.Tracked, Deg: -a.Deg}
}

// Rotation is the sweep direction of arcs and wobble
type Rotation uint8

const (
	CounterClockwise Rotation = iota
	Clockwise
)

// Sign returns +1 for counter-clockwise, -1 for clockwise
func (r Rotation) Sign() float64 {
	if r == Clockwise {
		return -1
	}
	return 1
}

// Flip returns the opposite direction
func (r Rotation) Flip() Rotation {
	if r == Clockwise {
		return CounterClockwise
	}
	return Clockwise
}

func (r Rotation) String() string {
	if r == Clockwise {
		return "cw"
	}
	return "ccw"
}

package motion

import (
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/vmath"
)

// ErrMissingField is returned by Build when a mandatory builder field was never set
var ErrMissingField = errors.New("builder field missing")

// PathKind selects the path generator
type PathKind uint8

const (
	PathArc PathKind = iota
	PathCurve
	PathFixed
)

func (k PathKind) String() string {
	switch k {
	case PathArc:
		return "arc"
	case PathCurve:
		return "curve"
	case PathFixed:
		return "fixed"
	}
	return "unknown"
}

// Path yields the next position of a moving object
type Path interface {
	// Advance moves the path by dt; ok is false once the path was already finished
	Advance(dt time.Duration) (pos vmath.Vec2, ok bool)
	// Finished reports exhaustion
	Finished() bool
	// Position returns the current position without advancing
	Position() vmath.Vec2
	// TakeActions detaches the attached actions; later calls return nil
	TakeActions() []Action
}

// PathBuilder describes a path with symbolic points
// Setters mutate and return the receiver; MirrorX/MirrorY return copies
type PathBuilder struct {
	kind      PathKind
	speed     float64
	center    Point
	radius    float64
	degrees   float64
	direction Rotation
	points    []Point
	duration  time.Duration
	actions   []Action

	has fieldSet
}

type fieldSet uint8

const (
	hasSpeed fieldSet = 1 << iota
	hasCenter
	hasRadius
	hasDegrees
	hasDirection
	hasDuration
)

// NewArc starts an arc builder
func NewArc() *PathBuilder { return &PathBuilder{kind: PathArc} }

// NewCurve starts a curve builder
func NewCurve() *PathBuilder { return &PathBuilder{kind: PathCurve} }

// NewFixed starts a hold builder
func NewFixed() *PathBuilder { return &PathBuilder{kind: PathFixed} }

// Kind returns the path kind
func (b *PathBuilder) Kind() PathKind { return b.kind }

func (b *PathBuilder) Speed(s float64) *PathBuilder {
	b.speed = s
	b.has |= hasSpeed
	return b
}

func (b *PathBuilder) Center(p Point) *PathBuilder {
	b.center = p
	b.has |= hasCenter
	return b
}

func (b *PathBuilder) Radius(r float64) *PathBuilder {
	b.radius = r
	b.has |= hasRadius
	return b
}

// Degrees sets the total sweep
func (b *PathBuilder) Degrees(d float64) *PathBuilder {
	b.degrees = d
	b.has |= hasDegrees
	return b
}

func (b *PathBuilder) Direction(r Rotation) *PathBuilder {
	b.direction = r
	b.has |= hasDirection
	return b
}

// Points sets the curve control points
func (b *PathBuilder) Points(pts ...Point) *PathBuilder {
	b.points = append(b.points[:0:0], pts...)
	return b
}

// Duration sets the hold time of a fixed path
func (b *PathBuilder) Duration(d time.Duration) *PathBuilder {
	b.duration = d
	b.has |= hasDuration
	return b
}

// Action attaches a delayed action
func (b *PathBuilder) Action(a Action) *PathBuilder {
	b.actions = append(b.actions, a)
	return b
}

// Actions returns the attached actions
func (b *PathBuilder) Actions() []Action {
	return b.actions
}

func (b *PathBuilder) clone() *PathBuilder {
	c := *b
	c.points = append([]Point(nil), b.points...)
	c.actions = append([]Action(nil), b.actions...)
	return &c
}

// MirrorX returns a copy reflected across the vertical axis
// Geometry and rotation direction flip, attached patterns are mirrored
func (b *PathBuilder) MirrorX() *PathBuilder {
	c := b.clone()
	c.center = c.center.MirrorX()
	for i := range c.points {
		c.points[i] = c.points[i].MirrorX()
	}
	c.direction = c.direction.Flip()
	for i := range c.actions {
		c.actions[i] = c.actions[i].MirrorX()
	}
	return c
}

// MirrorY returns a copy reflected across the horizontal axis
func (b *PathBuilder) MirrorY() *PathBuilder {
	c := b.clone()
	c.center = c.center.MirrorY()
	for i := range c.points {
		c.points[i] = c.points[i].MirrorY()
	}
	c.direction = c.direction.Flip()
	for i := range c.actions {
		c.actions[i] = c.actions[i].MirrorY()
	}
	return c
}

func (b *PathBuilder) require(mask fieldSet, names ...string) error {
	i := 0
	for bit := hasSpeed; bit <= hasDuration; bit <<= 1 {
		if mask&bit == 0 {
			continue
		}
		if b.has&bit == 0 {
			return errors.Wrapf(ErrMissingField, "%s path: %s", b.kind, names[i])
		}
		i++
	}
	return nil
}

// Build resolves symbolic points against current and target and returns the path
// Resolution happens here, not during Advance, so chained paths use the context they were built in
func (b *PathBuilder) Build(current, target vmath.Vec2) (Path, error) {
	actions := append([]Action(nil), b.actions...)

	switch b.kind {
	case PathArc:
		if err := b.require(hasSpeed|hasCenter|hasRadius|hasDegrees|hasDirection,
			"speed", "center", "radius", "degrees", "direction"); err != nil {
			return nil, err
		}
		if b.radius <= 0 {
			return nil, errors.Errorf("arc path: radius must be positive, got %v", b.radius)
		}
		center := b.center.Resolve(current, target)
		phase := 0.0
		if current.Dist(center) > vmath.Epsilon {
			phase = vmath.AngleTo(center, current)
		}
		return &ArcPath{
			center:    center,
			radius:    b.radius,
			phase:     phase,
			remaining: math.Abs(b.degrees),
			speed:     b.speed,
			direction: b.direction,
			pos:       center.Add(vmath.FromAngle(phase, b.radius)),
			actions:   actions,
		}, nil

	case PathCurve:
		if err := b.require(hasSpeed, "speed"); err != nil {
			return nil, err
		}
		if len(b.points) == 0 {
			return nil, errors.Wrap(ErrMissingField, "curve path: points")
		}
		ctrl := make([]vmath.Vec2, len(b.points))
		for i, p := range b.points {
			ctrl[i] = p.Resolve(current, target)
		}
		nodes := vmath.SampleBezier(ctrl, parameter.CurveSamples)
		return &CurvePath{
			nodes:   nodes,
			pos:     nodes[0],
			speed:   b.speed,
			actions: actions,
		}, nil

	case PathFixed:
		if err := b.require(hasDuration, "duration"); err != nil {
			return nil, err
		}
		return &FixedPath{pos: current, left: b.duration, actions: actions}, nil
	}
	return nil, errors.Errorf("unknown path kind %d", b.kind)
}

// ArcPath sweeps around a center at constant linear speed
type ArcPath struct {
	center    vmath.Vec2
	radius    float64
	phase     float64 // degrees
	remaining float64 // degrees left to sweep
	speed     float64
	direction Rotation
	pos       vmath.Vec2
	done      bool
	actions   []Action
}

// Advance integrates angle_step = 360*speed*dt/(2*pi*r), clamped to the remaining sweep
func (a *ArcPath) Advance(dt time.Duration) (vmath.Vec2, bool) {
	if a.done {
		return a.pos, false
	}
	step := 360 * a.speed * dt.Seconds() / (2 * math.Pi * a.radius)
	if step > a.remaining {
		step = a.remaining
	}
	a.remaining -= step
	a.phase += a.direction.Sign() * step
	a.pos = a.center.Add(vmath.FromAngle(a.phase, a.radius))
	if a.remaining <= vmath.Epsilon {
		a.remaining = 0
		a.done = true
	}
	return a.pos, true
}

func (a *ArcPath) Finished() bool { return a.done || a.remaining <= vmath.Epsilon }

func (a *ArcPath) Position() vmath.Vec2 { return a.pos }

// Center returns the resolved center
func (a *ArcPath) Center() vmath.Vec2 { return a.center }

// Remaining returns the degrees left to sweep
func (a *ArcPath) Remaining() float64 { return a.remaining }

func (a *ArcPath) TakeActions() []Action {
	out := a.actions
	a.actions = nil
	return out
}

// CurvePath walks a dense polyline sampled from Bezier control points
type CurvePath struct {
	nodes   []vmath.Vec2
	next    int // index of the node being approached
	pos     vmath.Vec2
	speed   float64
	actions []Action
	done    bool
}

// Advance moves speed*dt along the polyline, carrying overshoot across nodes in the same call
func (c *CurvePath) Advance(dt time.Duration) (vmath.Vec2, bool) {
	if c.done {
		return c.pos, false
	}
	if c.next == 0 {
		c.next = 1
	}

	dist := c.speed * dt.Seconds()
	for dist > 0 && c.next < len(c.nodes) {
		target := c.nodes[c.next]
		left := c.pos.Dist(target)
		if dist < left {
			c.pos = c.pos.Add(target.Sub(c.pos).Scale(dist / left))
			dist = 0
			break
		}
		c.pos = target
		dist -= left
		c.next++
	}
	if c.next >= len(c.nodes) {
		c.done = true
	}
	return c.pos, true
}

func (c *CurvePath) Finished() bool {
	return c.done || len(c.nodes) < 2
}

func (c *CurvePath) Position() vmath.Vec2 { return c.pos }

// Nodes returns the sampled polyline
func (c *CurvePath) Nodes() []vmath.Vec2 { return c.nodes }

func (c *CurvePath) TakeActions() []Action {
	out := c.actions
	c.actions = nil
	return out
}

// FixedPath holds a point for a duration
type FixedPath struct {
	pos     vmath.Vec2
	left    time.Duration
	actions []Action
	done    bool
}

func (f *FixedPath) Advance(dt time.Duration) (vmath.Vec2, bool) {
	if f.done {
		return f.pos, false
	}
	f.left -= dt
	if f.left <= 0 {
		f.done = true
	}
	return f.pos, true
}

func (f *FixedPath) Finished() bool { return f.done || f.left <= 0 }

func (f *FixedPath) Position() vmath.Vec2 { return f.pos }

func (f *FixedPath) TakeActions() []Action {
	out := f.actions
	f.actions = nil
	return out
}

package physics

import (
	"math"

	"github.com/lixenwraith/danmaku/vmath"
)

// ShapeKind selects the narrow-phase test
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeRect
)

// Shape is a static collision shape centered on the object position
// Rects are axis aligned
type Shape struct {
	Kind   ShapeKind
	Radius float64
	Half   vmath.Vec2
}

// Circle returns a circle shape
func Circle(r float64) Shape {
	return Shape{Kind: ShapeCircle, Radius: r}
}

// Rect returns an axis-aligned box of full width w and height h
func Rect(w, h float64) Shape {
	return Shape{Kind: ShapeRect, Half: vmath.V(w/2, h/2)}
}

// Extent returns the half size of the bounding box
func (s Shape) Extent() vmath.Vec2 {
	if s.Kind == ShapeCircle {
		return vmath.V(s.Radius, s.Radius)
	}
	return s.Half
}

// Overlaps tests a at pa against b at pb, with margin added to the separation threshold
func Overlaps(a Shape, pa vmath.Vec2, b Shape, pb vmath.Vec2, margin float64) bool {
	switch {
	case a.Kind == ShapeCircle && b.Kind == ShapeCircle:
		r := a.Radius + b.Radius + margin
		return pa.Sub(pb).LenSq() <= r*r

	case a.Kind == ShapeRect && b.Kind == ShapeRect:
		d := pa.Sub(pb)
		return math.Abs(d.X) <= a.Half.X+b.Half.X+margin &&
			math.Abs(d.Y) <= a.Half.Y+b.Half.Y+margin

	case a.Kind == ShapeCircle:
		return circleRect(pa, a.Radius+margin, pb, b.Half)

	default:
		return circleRect(pb, b.Radius+margin, pa, a.Half)
	}
}

func circleRect(c vmath.Vec2, r float64, center, half vmath.Vec2) bool {
	nearest := vmath.V(
		clamp(c.X, center.X-half.X, center.X+half.X),
		clamp(c.Y, center.Y-half.Y, center.Y+half.Y),
	)
	return c.Sub(nearest).LenSq() <= r*r
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

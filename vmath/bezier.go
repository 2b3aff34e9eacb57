package vmath

// Bezier evaluates the curve defined by control points at t in [0,1]
// De Casteljau; scratch must have len >= len(control) or be nil
func Bezier(control []Vec2, t float64, scratch []Vec2) Vec2 {
	switch len(control) {
	case 0:
		return Vec2{}
	case 1:
		return control[0]
	}

	if len(scratch) < len(control) {
		scratch = make([]Vec2, len(control))
	}
	pts := scratch[:len(control)]
	copy(pts, control)

	for n := len(pts) - 1; n > 0; n-- {
		for i := 0; i < n; i++ {
			pts[i] = pts[i].Lerp(pts[i+1], t)
		}
	}
	return pts[0]
}

// SampleBezier returns samples+1 points along the curve, endpoints included
// A single control point yields a single-node polyline
func SampleBezier(control []Vec2, samples int) []Vec2 {
	if len(control) == 0 {
		return nil
	}
	if len(control) == 1 || samples < 1 {
		return []Vec2{control[0]}
	}

	out := make([]Vec2, 0, samples+1)
	scratch := make([]Vec2, len(control))
	for i := 0; i <= samples; i++ {
		out = append(out, Bezier(control, float64(i)/float64(samples), scratch))
	}
	// Exact endpoint regardless of accumulated lerp error
	out[samples] = control[len(control)-1]
	return out
}

// PolylineLength sums segment lengths
func PolylineLength(pts []Vec2) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += pts[i-1].Dist(pts[i])
	}
	return total
}

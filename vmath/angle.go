package vmath

import "math"

// Angles in the motion and pattern code are degrees, counter-clockwise from +X

// Radians converts degrees to radians
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// FromAngle returns a vector of the given length pointing at deg
func FromAngle(deg, length float64) Vec2 {
	s, c := math.Sincos(Radians(deg))
	return Vec2{c * length, s * length}
}

// AngleOf returns the direction of v in degrees, in (-180, 180]
func AngleOf(v Vec2) float64 {
	return Degrees(math.Atan2(v.Y, v.X))
}

// AngleTo returns the direction from a to b in degrees
func AngleTo(a, b Vec2) float64 {
	return AngleOf(b.Sub(a))
}

// NormalizeDeg wraps deg into [0, 360)
func NormalizeDeg(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	// -0 and float residue both land on 360 after the add
	if d >= 360 {
		d = 0
	}
	return d
}

// AngleDiff returns the smallest absolute difference between two angles
func AngleDiff(a, b float64) float64 {
	d := NormalizeDeg(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}

package geom

import (
	"math"

	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Vec is a 2D point or direction in drawing units.
type Vec = v2.Vec

// TwoPi is a full turn in radians.
const TwoPi = 2 * math.Pi

// NormalizeAngle maps a radian angle into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	// math.Mod can return values that round up to exactly 2π after the add.
	if a >= TwoPi {
		a = 0
	}
	return a
}

// Polar returns the point at angle a on the circle (center, r).
func Polar(center Vec, r, a float64) Vec {
	return Vec{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
}

// Cross returns the z component of the cross product a × b.
func Cross(a, b Vec) float64 {
	return a.X*b.Y - a.Y*b.X
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec) float64 {
	return b.Sub(a).Length()
}

// Finite reports whether both coordinates are finite numbers.
func Finite(v Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Unit returns v scaled to length 1, or the zero vector if v has no length.
func Unit(v Vec) Vec {
	l := v.Length()
	if l == 0 {
		return Vec{}
	}
	return v.MulScalar(1 / l)
}

// Less orders points lexicographically by X then Y.
func Less(a, b Vec) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

// Dot returns the dot product a · b.
func Dot(a, b Vec) float64 {
	return a.X*b.X + a.Y*b.Y
}

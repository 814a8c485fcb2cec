package contour

import (
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

// Contour is a closed loop: the end of each primitive meets the start of the
// next within ε, and the last meets the first. A circle is a one-primitive
// contour.
type Contour struct {
	Primitives []geom.Primitive
	// Source holds the index of each primitive in the slice given to Build.
	Source []int
}

// Length returns the total path length of the loop.
func (c Contour) Length() float64 {
	var l float64
	for _, p := range c.Primitives {
		l += p.Length()
	}
	return l
}

// SignedArea returns the exact enclosed area, positive when the loop runs
// counter-clockwise.
func (c Contour) SignedArea() float64 {
	var a float64
	for _, p := range c.Primitives {
		a += p.AreaTerm()
	}
	return a
}

// Area returns the absolute enclosed area.
func (c Contour) Area() float64 { return math.Abs(c.SignedArea()) }

// Bounds returns the bounding box of the loop.
func (c Contour) Bounds() geom.Box {
	b := geom.EmptyBox()
	for _, p := range c.Primitives {
		b = geom.Union(b, p.Bounds())
	}
	return b
}

// IsCircle reports whether the contour is a single full circle.
func (c Contour) IsCircle() bool {
	return len(c.Primitives) == 1 && c.Primitives[0].Kind == geom.KindCircle
}

// ContourSet is one part: an outer boundary and the holes cut from it.
type ContourSet struct {
	Outer Contour
	Holes []Contour
}

// Contours returns the outer contour followed by the holes.
func (s ContourSet) Contours() []Contour {
	out := make([]Contour, 0, 1+len(s.Holes))
	out = append(out, s.Outer)
	return append(out, s.Holes...)
}

// Bounds returns the bounding box of the part, which is that of its outer
// contour.
func (s ContourSet) Bounds() geom.Box { return s.Outer.Bounds() }

// Defaults for tolerance selection.
const (
	DefaultRelativeTolerance = 1e-6
	MinTolerance             = 1e-12
)

// Epsilon returns the matching tolerance for geometry with the given bounds:
// abs when positive, otherwise rel (or DefaultRelativeTolerance) times the
// bounding box diagonal, never below MinTolerance.
func Epsilon(bounds geom.Box, abs, rel float64) float64 {
	if abs > 0 {
		return abs
	}
	if rel <= 0 {
		rel = DefaultRelativeTolerance
	}
	return math.Max(rel*geom.Diagonal(bounds), MinTolerance)
}

// PrimitiveBounds returns the bounding box of a primitive slice.
func PrimitiveBounds(prims []geom.Primitive) geom.Box {
	b := geom.EmptyBox()
	for _, p := range prims {
		b = geom.Union(b, p.Bounds())
	}
	return b
}

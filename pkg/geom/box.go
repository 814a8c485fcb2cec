package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
)

// Box is an axis-aligned bounding box.
type Box = sdf.Box2

// EmptyBox returns a box that any Include call will replace.
func EmptyBox() Box {
	return Box{
		Min: Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
}

// IsEmpty reports whether b has never included a point.
func IsEmpty(b Box) bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Diagonal returns the length of the box diagonal, or 0 for an empty box.
func Diagonal(b Box) float64 {
	if IsEmpty(b) {
		return 0
	}
	return b.Max.Sub(b.Min).Length()
}

// Union returns the smallest box containing a and b.
func Union(a, b Box) Box {
	switch {
	case IsEmpty(a):
		return b
	case IsEmpty(b):
		return a
	}
	return Box{Min: minVec(a.Min, b.Min), Max: maxVec(a.Max, b.Max)}
}

// IncludePoint grows b to contain p.
func IncludePoint(b Box, p Vec) Box {
	if IsEmpty(b) {
		return Box{Min: p, Max: p}
	}
	return Box{Min: minVec(b.Min, p), Max: maxVec(b.Max, p)}
}

// ContainsBox reports whether outer fully contains inner, with slack eps.
func ContainsBox(outer, inner Box, eps float64) bool {
	return inner.Min.X >= outer.Min.X-eps && inner.Min.Y >= outer.Min.Y-eps &&
		inner.Max.X <= outer.Max.X+eps && inner.Max.Y <= outer.Max.Y+eps
}

func minVec(a, b Vec) Vec { return Vec{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y)} }

func maxVec(a, b Vec) Vec { return Vec{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y)} }

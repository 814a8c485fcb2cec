// Package tessellate flattens primitive loops into polygons. Lines are kept
// as-is; arcs and circles are split into chords no longer than a given angle.
// The polygons are approximations used for containment tests and previews,
// never for measurement.
package tessellate

import (
	"math"
	"sort"

	"github.com/chazu/kerf/pkg/geom"
)

// DefaultAngularTolerance is the largest angle one chord may span (1°).
const DefaultAngularTolerance = math.Pi / 180

// Polygon is a closed ring of vertices; the last vertex connects back to the
// first.
type Polygon []geom.Vec

// Segments returns how many chords approximate p at the angular tolerance.
func Segments(p geom.Primitive, angularTol float64) int {
	if p.Kind == geom.KindLine {
		return 1
	}
	if angularTol <= 0 {
		angularTol = DefaultAngularTolerance
	}
	// The slack keeps exact multiples such as 360 × 1° from rounding up.
	n := int(math.Ceil(p.Sweep()/angularTol - 1e-9))
	if p.Kind == geom.KindCircle && n < 3 {
		n = 3
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Flatten walks a loop of primitives and returns its polygon. Each
// primitive contributes its start point and its interior chord points; the
// end point is the next primitive's start.
func Flatten(loop []geom.Primitive, angularTol float64) Polygon {
	var poly Polygon
	for _, p := range loop {
		poly = append(poly, Points(p, angularTol)...)
	}
	return poly
}

// Points returns the start point and interior chord points of p.
func Points(p geom.Primitive, angularTol float64) []geom.Vec {
	n := Segments(p, angularTol)
	pts := make([]geom.Vec, 0, n)
	pts = append(pts, p.StartPoint())
	for i := 1; i < n; i++ {
		pts = append(pts, p.PointAt(float64(i)/float64(n)))
	}
	return pts
}

// Winding returns the winding number of poly around q. Zero means outside.
func (poly Polygon) Winding(q geom.Vec) int {
	w := 0
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		side := geom.Cross(b.Sub(a), q.Sub(a))
		if a.Y <= q.Y {
			if b.Y > q.Y && side > 0 {
				w++
			}
		} else if b.Y <= q.Y && side < 0 {
			w--
		}
	}
	return w
}

// edge is one polygon side with its x extent, for the sweep below.
type edge struct {
	i, owner   int
	a, b       geom.Vec
	minX, maxX float64
}

// SelfIntersects reports whether two non-adjacent sides properly cross.
// Sides are swept in x order so only overlapping extents are compared.
func (poly Polygon) SelfIntersects() bool {
	n := len(poly)
	if n < 4 {
		return false
	}
	edges := make([]edge, n)
	for i := range poly {
		a, b := poly[i], poly[(i+1)%n]
		edges[i] = edge{i: i, a: a, b: b, minX: math.Min(a.X, b.X), maxX: math.Max(a.X, b.X)}
	}
	sort.Slice(edges, func(x, y int) bool { return edges[x].minX < edges[y].minX })

	for x := range edges {
		e := edges[x]
		for y := x + 1; y < n && edges[y].minX <= e.maxX; y++ {
			f := edges[y]
			if adjacent(e.i, f.i, n) {
				continue
			}
			if properCross(e.a, e.b, f.a, f.b) {
				return true
			}
		}
	}
	return false
}

// Crosses reports whether any side of a properly crosses any side of b.
// Touching at a vertex or along a shared side is not a crossing.
func Crosses(a, b Polygon) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	edges := make([]edge, 0, len(a)+len(b))
	for i := range a {
		p, q := a[i], a[(i+1)%len(a)]
		edges = append(edges, edge{i: i, owner: 0, a: p, b: q, minX: math.Min(p.X, q.X), maxX: math.Max(p.X, q.X)})
	}
	for i := range b {
		p, q := b[i], b[(i+1)%len(b)]
		edges = append(edges, edge{i: i, owner: 1, a: p, b: q, minX: math.Min(p.X, q.X), maxX: math.Max(p.X, q.X)})
	}
	sort.Slice(edges, func(x, y int) bool { return edges[x].minX < edges[y].minX })

	for x := range edges {
		e := edges[x]
		for y := x + 1; y < len(edges) && edges[y].minX <= e.maxX; y++ {
			f := edges[y]
			if e.owner != f.owner && properCross(e.a, e.b, f.a, f.b) {
				return true
			}
		}
	}
	return false
}

func adjacent(i, j, n int) bool {
	d := i - j
	if d < 0 {
		d = -d
	}
	return d <= 1 || d == n-1
}

// properCross reports whether segments ab and cd cross at a single interior
// point of both.
func properCross(a, b, c, d geom.Vec) bool {
	d1 := geom.Cross(b.Sub(a), c.Sub(a))
	d2 := geom.Cross(b.Sub(a), d.Sub(a))
	d3 := geom.Cross(d.Sub(c), a.Sub(c))
	d4 := geom.Cross(d.Sub(c), b.Sub(c))
	return d1*d2 < 0 && d3*d4 < 0
}

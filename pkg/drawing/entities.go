package drawing

import (
	"math"

	"github.com/chazu/kerf/pkg/dxf"
	"github.com/chazu/kerf/pkg/geom"
)

// Polyline flag bits (group 70).
const (
	polyClosed   = 1
	polyMesh3D   = 16
	polyFaceMesh = 64

	vertexSplineFrame = 16
)

func (r *reader) readLine(i int, e dxf.Entity) {
	p0, ok0 := point(e, 10)
	p1, ok1 := point(e, 11)
	if !ok0 || !ok1 {
		r.warn([]int{i}, "line %s: missing coordinates", describe(e))
		return
	}
	r.emit(i, e, geom.NewLine(p0, p1))
}

func (r *reader) readCircle(i int, e dxf.Entity) {
	c, okc := point(e, 10)
	radius, okr := e.Float(40)
	if !okc || !okr {
		r.warn([]int{i}, "circle %s: missing center or radius", describe(e))
		return
	}
	r.emit(i, e, geom.NewCircle(c, radius))
}

// readArc converts a DXF ARC. DXF arcs run counter-clockwise from group 50
// to group 51, in degrees. An arc whose angles differ by a nonzero multiple
// of 360° is a full circle.
func (r *reader) readArc(i int, e dxf.Entity) {
	c, okc := point(e, 10)
	radius, okr := e.Float(40)
	start, oks := e.Float(50)
	end, oke := e.Float(51)
	if !okc || !okr || !oks || !oke {
		r.warn([]int{i}, "arc %s: missing center, radius or angles", describe(e))
		return
	}
	if fullTurn(end - start) {
		r.emit(i, e, geom.NewCircle(c, radius))
		return
	}
	r.emit(i, e, geom.NewArc(c, radius, start*math.Pi/180, end*math.Pi/180, true))
}

// fullTurn reports whether a sweep in degrees is a nonzero multiple of 360.
func fullTurn(sweep float64) bool {
	const slack = 1e-9
	return math.Abs(sweep) > slack && math.Abs(math.Remainder(sweep, 360)) <= slack
}

// vertex is one polyline corner and the bulge of the segment leaving it.
type vertex struct {
	p     geom.Vec
	bulge float64
}

// readLWPolyline walks the repeated 10/20/42 groups of an LWPOLYLINE. A
// bulge belongs to the vertex declared before it.
func (r *reader) readLWPolyline(i int, e dxf.Entity) {
	var verts []vertex
	bad := false
	for _, p := range e.Pairs {
		switch p.Code {
		case 10:
			x, ok := parseFloat(p.Value)
			bad = bad || !ok
			verts = append(verts, vertex{p: geom.Vec{X: x}})
		case 20:
			y, ok := parseFloat(p.Value)
			bad = bad || !ok
			if len(verts) > 0 {
				verts[len(verts)-1].p.Y = y
			}
		case 42:
			b, ok := parseFloat(p.Value)
			bad = bad || !ok
			if len(verts) > 0 {
				verts[len(verts)-1].bulge = b
			}
		}
	}
	if bad {
		r.warn([]int{i}, "lwpolyline %s: unparseable vertex data", describe(e))
		return
	}
	r.polyline(i, e, verts, e.IntOr(70, 0)&polyClosed != 0)
}

// readPolyline converts a 2D POLYLINE with its VERTEX children. Mesh
// polylines are 3D and rejected.
func (r *reader) readPolyline(i int, e dxf.Entity) {
	flags := e.IntOr(70, 0)
	if flags&(polyMesh3D|polyFaceMesh) != 0 {
		r.warn([]int{i}, "polyline %s: mesh polylines are not supported", describe(e))
		return
	}
	verts := make([]vertex, 0, len(e.Vertices))
	for _, v := range e.Vertices {
		if v.IntOr(70, 0)&vertexSplineFrame != 0 {
			continue
		}
		p, ok := point(v, 10)
		if !ok {
			r.warn([]int{i}, "polyline %s: vertex without coordinates", describe(e))
			return
		}
		verts = append(verts, vertex{p: p, bulge: v.FloatOr(42, 0)})
	}
	r.polyline(i, e, verts, flags&polyClosed != 0)
}

// polyline expands vertices into lines and bulge arcs. A closed polyline
// gets a closing segment that uses the last vertex's bulge.
func (r *reader) polyline(i int, e dxf.Entity, verts []vertex, closed bool) {
	if len(verts) < 2 {
		r.warn([]int{i}, "%s %s: fewer than 2 vertices", lower(e.Type), describe(e))
		return
	}
	n := len(verts) - 1
	if closed {
		n = len(verts)
	}
	for k := 0; k < n; k++ {
		a, b := verts[k], verts[(k+1)%len(verts)]
		if closed && k == len(verts)-1 && geom.Dist(a.p, b.p)*r.scale <= r.opts.MinSegmentLength {
			// The vertex list already returns to its start.
			continue
		}
		r.emit(i, e, BulgeSegment(a.p, b.p, a.bulge))
	}
}

// BulgeSegment returns the primitive for a polyline segment from p0 to p1
// with bulge b. The bulge is the tangent of a quarter of the included angle;
// positive bulges turn counter-clockwise. A zero bulge is a straight line.
func BulgeSegment(p0, p1 geom.Vec, b float64) geom.Primitive {
	if b == 0 || math.IsNaN(b) {
		return geom.NewLine(p0, p1)
	}
	chord := geom.Dist(p0, p1)
	if chord == 0 {
		return geom.NewLine(p0, p1)
	}
	theta := 4 * math.Atan(b)
	radius := chord / (2 * math.Sin(math.Abs(theta)/2))

	dir := geom.Unit(p1.Sub(p0))
	left := geom.Vec{X: -dir.Y, Y: dir.X}
	mid := p0.Add(p1).MulScalar(0.5)
	center := mid.Add(left.MulScalar((chord / 2) * (1 - b*b) / (2 * b)))

	start := math.Atan2(p0.Y-center.Y, p0.X-center.X)
	end := math.Atan2(p1.Y-center.Y, p1.X-center.X)
	return geom.NewArc(center, radius, start, end, b > 0)
}

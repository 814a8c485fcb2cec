package geom

import (
	"errors"
	"fmt"
	"math"
)

// Kind identifies the shape of a Primitive.
type Kind int

const (
	KindLine Kind = iota
	KindArc
	KindCircle
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindLine:
		return "line"
	case KindArc:
		return "arc"
	case KindCircle:
		return "circle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Primitive is one drawing element. Only the fields relevant to Kind are set:
//
//	Line:   P0, P1
//	Arc:    Center, Radius, Start, End, CCW
//	Circle: Center, Radius, CCW (traversal direction when used as a loop)
//
// Start and End are radians in [0, 2π). Primitives are values; the methods
// that change orientation return a copy.
type Primitive struct {
	Kind   Kind
	P0, P1 Vec
	Center Vec
	Radius float64
	Start  float64
	End    float64
	CCW    bool
}

// NewLine returns a line segment from p0 to p1.
func NewLine(p0, p1 Vec) Primitive {
	return Primitive{Kind: KindLine, P0: p0, P1: p1}
}

// NewArc returns an arc on the circle (center, r) running from angle start to
// angle end in the given direction. Angles are radians and are normalized.
func NewArc(center Vec, r, start, end float64, ccw bool) Primitive {
	return Primitive{
		Kind:   KindArc,
		Center: center,
		Radius: r,
		Start:  NormalizeAngle(start),
		End:    NormalizeAngle(end),
		CCW:    ccw,
	}
}

// NewCircle returns a full circle traversed counter-clockwise.
func NewCircle(center Vec, r float64) Primitive {
	return Primitive{Kind: KindCircle, Center: center, Radius: r, CCW: true}
}

// Closed reports whether the primitive is a loop on its own.
func (p Primitive) Closed() bool { return p.Kind == KindCircle }

// StartPoint returns where traversal of the primitive begins. For a circle
// this is the point at angle 0.
func (p Primitive) StartPoint() Vec {
	switch p.Kind {
	case KindLine:
		return p.P0
	case KindArc:
		return Polar(p.Center, p.Radius, p.Start)
	default:
		return Polar(p.Center, p.Radius, 0)
	}
}

// EndPoint returns where traversal of the primitive ends.
func (p Primitive) EndPoint() Vec {
	switch p.Kind {
	case KindLine:
		return p.P1
	case KindArc:
		return Polar(p.Center, p.Radius, p.End)
	default:
		return Polar(p.Center, p.Radius, 0)
	}
}

// Sweep returns the unsigned angle traversed by an arc in its own direction,
// in [0, 2π). Circles sweep 2π, lines 0.
func (p Primitive) Sweep() float64 {
	switch p.Kind {
	case KindArc:
		if p.CCW {
			return NormalizeAngle(p.End - p.Start)
		}
		return NormalizeAngle(p.Start - p.End)
	case KindCircle:
		return TwoPi
	default:
		return 0
	}
}

// dir is +1 for counter-clockwise traversal and -1 otherwise.
func (p Primitive) dir() float64 {
	if p.CCW {
		return 1
	}
	return -1
}

// AngleAt returns the polar angle at fraction t in [0, 1] of an arc or circle.
func (p Primitive) AngleAt(t float64) float64 {
	start := p.Start
	if p.Kind == KindCircle {
		start = 0
	}
	return start + p.dir()*t*p.Sweep()
}

// PointAt returns the point at fraction t in [0, 1] along the primitive.
func (p Primitive) PointAt(t float64) Vec {
	if p.Kind == KindLine {
		return p.P0.Add(p.P1.Sub(p.P0).MulScalar(t))
	}
	return Polar(p.Center, p.Radius, p.AngleAt(t))
}

// Length returns the path length of the primitive.
func (p Primitive) Length() float64 {
	switch p.Kind {
	case KindLine:
		return Dist(p.P0, p.P1)
	default:
		return p.Radius * p.Sweep()
	}
}

// tangentAt returns the unit direction of travel on an arc at angle a.
func (p Primitive) tangentAt(a float64) Vec {
	t := Vec{X: -math.Sin(a), Y: math.Cos(a)}
	if !p.CCW {
		return t.MulScalar(-1)
	}
	return t
}

// StartTangent returns the unit direction of travel at the start point.
func (p Primitive) StartTangent() Vec {
	if p.Kind == KindLine {
		return Unit(p.P1.Sub(p.P0))
	}
	return p.tangentAt(p.AngleAt(0))
}

// EndTangent returns the unit direction of travel at the end point.
func (p Primitive) EndTangent() Vec {
	if p.Kind == KindLine {
		return Unit(p.P1.Sub(p.P0))
	}
	return p.tangentAt(p.AngleAt(1))
}

// Reverse returns the primitive traversed in the opposite direction.
func (p Primitive) Reverse() Primitive {
	switch p.Kind {
	case KindLine:
		p.P0, p.P1 = p.P1, p.P0
	case KindArc:
		p.Start, p.End = p.End, p.Start
		p.CCW = !p.CCW
	case KindCircle:
		p.CCW = !p.CCW
	}
	return p
}

// AreaTerm returns the primitive's contribution to the signed area of a
// closed loop, ½∮(x dy − y dx) over the primitive. Summed over a loop the
// terms give the enclosed area, positive for counter-clockwise loops.
func (p Primitive) AreaTerm() float64 {
	switch p.Kind {
	case KindLine:
		return Cross(p.P0, p.P1) / 2
	case KindArc:
		t0 := p.Start
		t1 := t0 + p.dir()*p.Sweep()
		r, c := p.Radius, p.Center
		return (r*c.X*(math.Sin(t1)-math.Sin(t0)) -
			r*c.Y*(math.Cos(t1)-math.Cos(t0)) +
			r*r*(t1-t0)) / 2
	default:
		return p.dir() * math.Pi * p.Radius * p.Radius
	}
}

// containsAngle reports whether polar angle a lies on the arc.
func (p Primitive) containsAngle(a float64) bool {
	if p.Kind == KindCircle {
		return true
	}
	if p.CCW {
		return NormalizeAngle(a-p.Start) <= p.Sweep()
	}
	return NormalizeAngle(p.Start-a) <= p.Sweep()
}

// Bounds returns the tight axis-aligned bounding box of the primitive.
func (p Primitive) Bounds() Box {
	switch p.Kind {
	case KindLine:
		return Box{Min: minVec(p.P0, p.P1), Max: maxVec(p.P0, p.P1)}
	case KindCircle:
		r := Vec{X: p.Radius, Y: p.Radius}
		return Box{Min: p.Center.Sub(r), Max: p.Center.Add(r)}
	}
	b := IncludePoint(EmptyBox(), p.StartPoint())
	b = IncludePoint(b, p.EndPoint())
	for q := 0; q < 4; q++ {
		a := float64(q) * math.Pi / 2
		if p.containsAngle(a) {
			b = IncludePoint(b, Polar(p.Center, p.Radius, a))
		}
	}
	return b
}

// Errors returned by Validate.
var (
	ErrNonFinite  = errors.New("non-finite coordinate")
	ErrBadRadius  = errors.New("radius must be positive")
	ErrZeroLength = errors.New("zero-length primitive")
)

// Validate reports whether the primitive is usable for measurement. Lines
// and arcs shorter than minLength are rejected.
func (p Primitive) Validate(minLength float64) error {
	switch p.Kind {
	case KindLine:
		if !Finite(p.P0) || !Finite(p.P1) {
			return ErrNonFinite
		}
	case KindArc, KindCircle:
		if !Finite(p.Center) || math.IsNaN(p.Radius) || math.IsInf(p.Radius, 0) ||
			math.IsNaN(p.Start) || math.IsNaN(p.End) {
			return ErrNonFinite
		}
		if p.Radius <= 0 {
			return ErrBadRadius
		}
	default:
		return fmt.Errorf("unknown primitive kind %v", p.Kind)
	}
	if p.Kind != KindCircle && p.Length() <= minLength {
		return ErrZeroLength
	}
	return nil
}

// Scale returns the primitive with all coordinates and radii multiplied by k.
func (p Primitive) Scale(k float64) Primitive {
	p.P0 = p.P0.MulScalar(k)
	p.P1 = p.P1.MulScalar(k)
	p.Center = p.Center.MulScalar(k)
	p.Radius *= k
	return p
}

// MirrorX returns the primitive reflected about the Y axis (x → −x). Arc
// directions flip so the traversed path is the mirror image.
func (p Primitive) MirrorX() Primitive {
	m := func(v Vec) Vec { return Vec{X: -v.X, Y: v.Y} }
	p.P0, p.P1, p.Center = m(p.P0), m(p.P1), m(p.Center)
	if p.Kind == KindArc {
		p.Start = NormalizeAngle(math.Pi - p.Start)
		p.End = NormalizeAngle(math.Pi - p.End)
		p.CCW = !p.CCW
	}
	if p.Kind == KindCircle {
		p.CCW = !p.CCW
	}
	return p
}

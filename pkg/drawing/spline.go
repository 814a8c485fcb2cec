package drawing

import (
	"fmt"

	"github.com/chazu/kerf/pkg/dxf"
	"github.com/chazu/kerf/pkg/geom"
)

// Spline flag bits (group 70).
const splineRational = 4

// spline is the B-spline definition carried by a SPLINE entity.
type spline struct {
	degree  int
	knots   []float64
	weights []float64
	ctrl    []geom.Vec
	fit     []geom.Vec
}

func parseSpline(e dxf.Entity) (spline, error) {
	s := spline{degree: e.IntOr(71, 3)}
	for _, p := range e.Pairs {
		switch p.Code {
		case 10, 11:
			x, ok := parseFloat(p.Value)
			if !ok {
				return s, fmt.Errorf("bad x coordinate %q", p.Value)
			}
			if p.Code == 10 {
				s.ctrl = append(s.ctrl, geom.Vec{X: x})
			} else {
				s.fit = append(s.fit, geom.Vec{X: x})
			}
		case 20:
			if y, ok := parseFloat(p.Value); ok && len(s.ctrl) > 0 {
				s.ctrl[len(s.ctrl)-1].Y = y
			}
		case 21:
			if y, ok := parseFloat(p.Value); ok && len(s.fit) > 0 {
				s.fit[len(s.fit)-1].Y = y
			}
		case 40:
			k, ok := parseFloat(p.Value)
			if !ok {
				return s, fmt.Errorf("bad knot %q", p.Value)
			}
			s.knots = append(s.knots, k)
		case 41:
			w, ok := parseFloat(p.Value)
			if !ok {
				return s, fmt.Errorf("bad weight %q", p.Value)
			}
			s.weights = append(s.weights, w)
		}
	}
	if e.IntOr(70, 0)&splineRational == 0 || len(s.weights) != len(s.ctrl) {
		s.weights = nil
	}
	return s, nil
}

// valid reports whether the control net and knot vector can be evaluated.
func (s spline) valid() bool {
	n := len(s.ctrl)
	return s.degree >= 1 && n > s.degree && len(s.knots) == n+s.degree+1
}

// sample returns segments+1 points evaluated at uniform parameter steps over
// the spline's valid knot range.
func (s spline) sample(segments int) []geom.Vec {
	p := s.degree
	u0 := s.knots[p]
	u1 := s.knots[len(s.knots)-1-p]
	pts := make([]geom.Vec, 0, segments+1)
	for i := 0; i <= segments; i++ {
		u := u0 + (u1-u0)*float64(i)/float64(segments)
		pts = append(pts, s.eval(u))
	}
	return pts
}

// eval evaluates the spline at u with de Boor's algorithm in homogeneous
// coordinates, so rational splines come out exact.
func (s spline) eval(u float64) geom.Vec {
	p := s.degree
	n := len(s.ctrl)

	k := p
	for k < n-1 && u >= s.knots[k+1] {
		k++
	}

	type hpoint struct{ x, y, w float64 }
	d := make([]hpoint, p+1)
	for j := 0; j <= p; j++ {
		c := s.ctrl[j+k-p]
		w := 1.0
		if s.weights != nil {
			w = s.weights[j+k-p]
		}
		d[j] = hpoint{c.X * w, c.Y * w, w}
	}
	for r := 1; r <= p; r++ {
		for j := p; j >= r; j-- {
			lo := s.knots[j+k-p]
			hi := s.knots[j+1+k-r]
			alpha := 0.0
			if hi != lo {
				alpha = (u - lo) / (hi - lo)
			}
			d[j] = hpoint{
				x: (1-alpha)*d[j-1].x + alpha*d[j].x,
				y: (1-alpha)*d[j-1].y + alpha*d[j].y,
				w: (1-alpha)*d[j-1].w + alpha*d[j].w,
			}
		}
	}
	if d[p].w == 0 {
		return geom.Vec{X: d[p].x, Y: d[p].y}
	}
	return geom.Vec{X: d[p].x / d[p].w, Y: d[p].y / d[p].w}
}

// readSpline flattens a SPLINE into lines. Splines without a usable control
// net fall back to their fit points.
func (r *reader) readSpline(i int, e dxf.Entity) {
	s, err := parseSpline(e)
	if err != nil {
		r.warn([]int{i}, "spline %s: %v", describe(e), err)
		return
	}

	var pts []geom.Vec
	switch {
	case s.valid():
		pts = s.sample(r.opts.SplineSegments)
	case len(s.fit) >= 2:
		pts = s.fit
	default:
		r.warn([]int{i}, "spline %s: no usable control points or fit points", describe(e))
		return
	}

	for k := 0; k+1 < len(pts); k++ {
		line := geom.NewLine(pts[k], pts[k+1])
		// Sampling can repeat a point where knots are clamped.
		if geom.Dist(pts[k], pts[k+1])*r.scale <= r.opts.MinSegmentLength {
			continue
		}
		r.emit(i, e, line)
	}
}

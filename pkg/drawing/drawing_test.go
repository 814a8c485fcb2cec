package drawing

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/diag"
	"github.com/chazu/kerf/pkg/dxf"
	"github.com/chazu/kerf/pkg/geom"
)

type fakeSource struct {
	name     string
	entities []dxf.Entity
	units    int
}

func (f fakeSource) Name() string           { return f.name }
func (f fakeSource) Entities() []dxf.Entity { return f.entities }
func (f fakeSource) InsUnits() int          { return f.units }

// ent builds an entity from alternating group codes and values.
func ent(typ string, kv ...any) dxf.Entity {
	e := dxf.Entity{Type: typ}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Pairs = append(e.Pairs, dxf.Pair{Code: kv[i].(int), Value: fmt.Sprint(kv[i+1])})
	}
	return e
}

func read(t *testing.T, entities ...dxf.Entity) *Drawing {
	t.Helper()
	opts := DefaultReadOptions()
	opts.Scale = 1
	d, err := Read(fakeSource{name: "test.dxf", entities: entities}, opts)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	return d
}

const eps = 1e-9

func TestReadBasicEntities(t *testing.T) {
	d := read(t,
		ent("LINE", 10, 0, 20, 0, 11, 10, 21, 0),
		ent("CIRCLE", 10, 5, 20, 5, 40, 2),
		ent("ARC", 10, 0, 20, 0, 40, 10, 50, 350, 51, 10),
	)
	if len(d.Primitives) != 3 {
		t.Fatalf("got %d primitives, want 3", len(d.Primitives))
	}
	if len(d.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", d.Warnings)
	}
	arc := d.Primitives[2]
	if arc.Kind != geom.KindArc || !arc.CCW {
		t.Fatalf("arc = %+v, want ccw arc", arc)
	}
	want := 10 * 20 * math.Pi / 180
	if math.Abs(arc.Length()-want) > eps {
		t.Fatalf("wraparound arc length = %v, want %v", arc.Length(), want)
	}
	if d.Entities[2] != 2 {
		t.Fatalf("entity index = %d, want 2", d.Entities[2])
	}
}

func TestReadFullTurnArc(t *testing.T) {
	tests := []struct {
		name       string
		start, end float64
	}{
		{"zero to 360", 0, 360},
		{"offset turn", 90, 450},
		{"negative start", -180, 180},
		{"two turns", 0, 720},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := read(t, ent("ARC", 10, 0, 20, 0, 40, 5, 50, tt.start, 51, tt.end))
			if len(d.Warnings) != 0 {
				t.Fatalf("unexpected warnings: %v", d.Warnings)
			}
			if len(d.Primitives) != 1 {
				t.Fatalf("got %d primitives, want 1", len(d.Primitives))
			}
			c := d.Primitives[0]
			if c.Kind != geom.KindCircle || c.Radius != 5 || c.Center != (geom.Vec{}) {
				t.Fatalf("primitive = %+v, want circle r=5 at origin", c)
			}
			if want := 10 * math.Pi; math.Abs(c.Length()-want) > eps {
				t.Fatalf("length = %v, want %v", c.Length(), want)
			}
		})
	}
}

func TestBulgeSegment(t *testing.T) {
	tests := []struct {
		name       string
		p0, p1     geom.Vec
		bulge      float64
		wantKind   geom.Kind
		wantRadius float64
		wantCenter geom.Vec
		wantCCW    bool
		wantSweep  float64
	}{
		{"straight", geom.Vec{}, geom.Vec{X: 4}, 0, geom.KindLine, 0, geom.Vec{}, false, 0},
		{"ccw semicircle", geom.Vec{}, geom.Vec{X: 2}, 1, geom.KindArc, 1, geom.Vec{X: 1}, true, math.Pi},
		{"cw semicircle", geom.Vec{}, geom.Vec{X: 2}, -1, geom.KindArc, 1, geom.Vec{X: 1}, false, math.Pi},
		{"quarter", geom.Vec{X: 1}, geom.Vec{Y: 1}, math.Tan(math.Pi / 8), geom.KindArc, 1, geom.Vec{}, true, math.Pi / 2},
		{"three quarter", geom.Vec{X: 1}, geom.Vec{Y: -1}, math.Tan(3 * math.Pi / 8), geom.KindArc, 1, geom.Vec{}, true, 3 * math.Pi / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BulgeSegment(tt.p0, tt.p1, tt.bulge)
			if p.Kind != tt.wantKind {
				t.Fatalf("kind = %v, want %v", p.Kind, tt.wantKind)
			}
			if p.Kind == geom.KindLine {
				return
			}
			if math.Abs(p.Radius-tt.wantRadius) > eps {
				t.Errorf("radius = %v, want %v", p.Radius, tt.wantRadius)
			}
			if geom.Dist(p.Center, tt.wantCenter) > eps {
				t.Errorf("center = %v, want %v", p.Center, tt.wantCenter)
			}
			if p.CCW != tt.wantCCW {
				t.Errorf("ccw = %v, want %v", p.CCW, tt.wantCCW)
			}
			if math.Abs(p.Sweep()-tt.wantSweep) > eps {
				t.Errorf("sweep = %v, want %v", p.Sweep(), tt.wantSweep)
			}
			if geom.Dist(p.StartPoint(), tt.p0) > eps || geom.Dist(p.EndPoint(), tt.p1) > eps {
				t.Errorf("endpoints %v -> %v, want %v -> %v", p.StartPoint(), p.EndPoint(), tt.p0, tt.p1)
			}
		})
	}
}

func TestReadClosedLWPolylineWithBulge(t *testing.T) {
	// Slot: two straight sides joined by semicircular ends of radius 5.
	d := read(t, ent("LWPOLYLINE",
		90, 4, 70, 1,
		10, 0, 20, 0,
		10, 20, 20, 0, 42, 1,
		10, 20, 20, 10,
		10, 0, 20, 10, 42, 1,
	))
	if len(d.Primitives) != 4 {
		t.Fatalf("got %d primitives, want 4", len(d.Primitives))
	}
	var length, area float64
	for _, p := range d.Primitives {
		length += p.Length()
		area += p.AreaTerm()
	}
	wantLen := 40 + 10*math.Pi
	if math.Abs(length-wantLen) > 1e-9 {
		t.Errorf("length = %v, want %v", length, wantLen)
	}
	wantArea := 200 + 25*math.Pi
	if math.Abs(area-wantArea) > 1e-9 {
		t.Errorf("area = %v, want %v", area, wantArea)
	}
}

func TestReadPolylineWithVertices(t *testing.T) {
	poly := ent("POLYLINE", 70, 1)
	poly.Vertices = []dxf.Entity{
		ent("VERTEX", 10, 0, 20, 0),
		ent("VERTEX", 10, 10, 20, 0),
		ent("VERTEX", 10, 10, 20, 10),
		ent("VERTEX", 10, 0, 20, 10),
	}
	d := read(t, poly)
	if len(d.Primitives) != 4 {
		t.Fatalf("got %d primitives, want 4", len(d.Primitives))
	}
}

func TestReadClosedPolylineRepeatingStart(t *testing.T) {
	d := read(t, ent("LWPOLYLINE", 70, 1,
		10, 0, 20, 0, 10, 10, 20, 0, 10, 10, 20, 10, 10, 0, 20, 0))
	if len(d.Primitives) != 3 {
		t.Fatalf("got %d primitives, want 3", len(d.Primitives))
	}
	if len(d.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", d.Warnings)
	}
}

func TestReadMalformed(t *testing.T) {
	d := read(t,
		ent("LINE", 10, 0, 20, 0, 11, 10, 21, 0),
		ent("LINE", 10, 1, 20, 1, 11, 1, 21, 1),
		ent("CIRCLE", 10, 0, 20, 0, 40, -3),
		ent("LWPOLYLINE", 10, 0, 20, 0),
		ent("LINE", 10, "NaN", 20, 0, 11, 1, 21, 0),
		ent("TEXT", 1, "hello"),
		ent("MTEXT", 1, "a"),
		ent("TEXT", 1, "b"),
	)
	if len(d.Primitives) != 1 {
		t.Fatalf("got %d primitives, want 1", len(d.Primitives))
	}
	if len(d.Warnings) != 6 {
		t.Fatalf("got %d warnings, want 6: %v", len(d.Warnings), d.Warnings)
	}
	for _, w := range d.Warnings {
		if !errors.Is(w, diag.ErrMalformedGeometry) {
			t.Errorf("warning %v is not malformed geometry", w)
		}
	}
	last := d.Warnings[len(d.Warnings)-1]
	if len(last.Primitives) != 2 || last.Primitives[0] != 5 || last.Primitives[1] != 7 {
		t.Errorf("TEXT warning indices = %v, want [5 7]", last.Primitives)
	}
}

func TestReadMirroredExtrusion(t *testing.T) {
	d := read(t, ent("ARC", 10, 5, 20, 0, 40, 2, 50, 0, 51, 90, 230, -1))
	arc := d.Primitives[0]
	if arc.CCW {
		t.Fatal("mirrored arc should be clockwise")
	}
	if geom.Dist(arc.Center, geom.Vec{X: -5}) > eps {
		t.Fatalf("center = %v, want (-5, 0)", arc.Center)
	}
	if geom.Dist(arc.StartPoint(), geom.Vec{X: -7}) > eps {
		t.Fatalf("start = %v, want (-7, 0)", arc.StartPoint())
	}
}

func TestReadScale(t *testing.T) {
	src := fakeSource{
		name:     "inches.dxf",
		units:    1,
		entities: []dxf.Entity{ent("CIRCLE", 10, 1, 20, 1, 40, 1)},
	}
	d, err := Read(src, DefaultReadOptions())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if d.Scale != 25.4 {
		t.Fatalf("scale = %v, want 25.4", d.Scale)
	}
	c := d.Primitives[0]
	if c.Radius != 25.4 || c.Center.X != 25.4 {
		t.Fatalf("circle = %+v, want scaled by 25.4", c)
	}

	opts := DefaultReadOptions()
	opts.Scale = 2
	d, err = Read(src, opts)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if d.Primitives[0].Radius != 2 {
		t.Fatalf("explicit scale ignored: radius = %v", d.Primitives[0].Radius)
	}
}

func TestReadFatal(t *testing.T) {
	opts := DefaultReadOptions()
	_, err := Read(fakeSource{name: "empty.dxf"}, opts)
	if !errors.Is(err, ErrEmptyDrawing) {
		t.Fatalf("empty: err = %v, want ErrEmptyDrawing", err)
	}

	d, err := Read(fakeSource{name: "text.dxf", entities: []dxf.Entity{ent("TEXT", 1, "x")}}, opts)
	if !errors.Is(err, ErrUnreadable) {
		t.Fatalf("unreadable: err = %v, want ErrUnreadable", err)
	}
	if d == nil || len(d.Warnings) != 1 {
		t.Fatalf("unreadable drawing should carry its warnings, got %+v", d)
	}
}

func TestReadRationalSpline(t *testing.T) {
	// Quarter of the unit circle as a rational quadratic B-spline.
	w := math.Sqrt2 / 2
	d := read(t, ent("SPLINE",
		70, 8|4, 71, 2, 72, 6, 73, 3,
		40, 0, 40, 0, 40, 0, 40, 1, 40, 1, 40, 1,
		41, 1, 41, w, 41, 1,
		10, 1, 20, 0, 10, 1, 20, 1, 10, 0, 20, 1,
	))
	if len(d.Primitives) != DefaultReadOptions().SplineSegments {
		t.Fatalf("got %d segments, want %d", len(d.Primitives), DefaultReadOptions().SplineSegments)
	}
	for i, p := range d.Primitives {
		if r := p.P0.Length(); math.Abs(r-1) > 1e-9 {
			t.Fatalf("segment %d starts at radius %v, want 1", i, r)
		}
	}
	last := d.Primitives[len(d.Primitives)-1].P1
	if geom.Dist(last, geom.Vec{Y: 1}) > 1e-9 {
		t.Fatalf("spline ends at %v, want (0, 1)", last)
	}
}

func TestReadSplineFitPoints(t *testing.T) {
	d := read(t, ent("SPLINE", 71, 3, 74, 3,
		11, 0, 21, 0, 11, 5, 21, 5, 11, 10, 21, 0))
	if len(d.Primitives) != 2 {
		t.Fatalf("got %d segments, want 2", len(d.Primitives))
	}
}

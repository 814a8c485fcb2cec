package contour_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/diag"
	"github.com/chazu/kerf/pkg/geom"
)

// rect returns the four sides of an axis-aligned rectangle.
func rect(x, y, w, h float64) []geom.Primitive {
	a := geom.Vec{X: x, Y: y}
	b := geom.Vec{X: x + w, Y: y}
	c := geom.Vec{X: x + w, Y: y + h}
	d := geom.Vec{X: x, Y: y + h}
	return []geom.Primitive{geom.NewLine(a, b), geom.NewLine(b, c), geom.NewLine(c, d), geom.NewLine(d, a)}
}

func concat(groups ...[]geom.Primitive) []geom.Primitive {
	var out []geom.Primitive
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func kinds(ws []diag.Warning) []diag.Kind {
	out := make([]diag.Kind, len(ws))
	for i, w := range ws {
		out[i] = w.Kind
	}
	return out
}

func TestBuildSquare(t *testing.T) {
	contours, warnings := contour.Build(rect(0, 0, 100, 100), contour.DefaultBuildOptions())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want 1", len(contours))
	}
	c := contours[0]
	if c.Length() != 400 {
		t.Errorf("length = %v, want 400", c.Length())
	}
	if c.Area() != 10000 {
		t.Errorf("area = %v, want 10000", c.Area())
	}
	if len(c.Source) != 4 {
		t.Errorf("source indices = %v", c.Source)
	}
}

func TestBuildCircle(t *testing.T) {
	contours, warnings := contour.Build([]geom.Primitive{geom.NewCircle(geom.Vec{}, 50)}, contour.DefaultBuildOptions())
	if len(warnings) != 0 || len(contours) != 1 {
		t.Fatalf("got %d contours, %v warnings", len(contours), warnings)
	}
	if !contours[0].IsCircle() {
		t.Fatal("expected a circle contour")
	}
	if got, want := contours[0].Area(), math.Pi*2500; math.Abs(got-want) > 1e-9 {
		t.Errorf("area = %v, want %v", got, want)
	}
}

func TestBuildMixedLoop(t *testing.T) {
	// Rounded slot: two lines and two semicircles, with a little endpoint noise.
	prims := []geom.Primitive{
		geom.NewLine(geom.Vec{X: 0, Y: 0}, geom.Vec{X: 20, Y: 0}),
		geom.NewArc(geom.Vec{X: 20, Y: 5}, 5, -math.Pi/2, math.Pi/2, true),
		geom.NewLine(geom.Vec{X: 20, Y: 10.0000000001}, geom.Vec{X: 0, Y: 10}),
		geom.NewArc(geom.Vec{X: 0, Y: 5}, 5, math.Pi/2, 3*math.Pi/2, true),
	}
	contours, warnings := contour.Build(prims, contour.DefaultBuildOptions())
	if len(warnings) != 0 || len(contours) != 1 {
		t.Fatalf("got %d contours, warnings %v", len(contours), warnings)
	}
	if got, want := contours[0].Length(), 40+10*math.Pi; math.Abs(got-want) > 1e-6 {
		t.Errorf("length = %v, want %v", got, want)
	}
}

func TestBuildPermutationInvariance(t *testing.T) {
	base := concat(
		rect(0, 0, 100, 100),
		rect(40, 40, 20, 20),
		[]geom.Primitive{
			geom.NewArc(geom.Vec{X: 200, Y: 0}, 10, 0, math.Pi, true),
			geom.NewLine(geom.Vec{X: 190, Y: 0}, geom.Vec{X: 210, Y: 0}),
			geom.NewCircle(geom.Vec{X: 300, Y: 300}, 5),
		},
	)
	want, wantWarnings := contour.Build(base, contour.DefaultBuildOptions())

	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]geom.Primitive, len(base))
		for i, j := range rng.Perm(len(base)) {
			p := base[j]
			if rng.Intn(2) == 0 {
				p = p.Reverse()
			}
			shuffled[i] = p
		}
		got, gotWarnings := contour.Build(shuffled, contour.DefaultBuildOptions())
		if len(gotWarnings) != len(wantWarnings) {
			t.Fatalf("trial %d: %d warnings, want %d", trial, len(gotWarnings), len(wantWarnings))
		}
		if len(got) != len(want) {
			t.Fatalf("trial %d: %d contours, want %d", trial, len(got), len(want))
		}
		for i := range want {
			if diff := cmp.Diff(want[i].Primitives, got[i].Primitives); diff != "" {
				t.Fatalf("trial %d contour %d differs (-want +got):\n%s", trial, i, diff)
			}
		}
	}
}

func TestBuildDanglingLine(t *testing.T) {
	tests := []struct {
		name     string
		dangling geom.Primitive
	}{
		{"touching a corner", geom.NewLine(geom.Vec{X: 100, Y: 100}, geom.Vec{X: 150, Y: 150})},
		{"detached", geom.NewLine(geom.Vec{X: 500, Y: 0}, geom.Vec{X: 600, Y: 0})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prims := append(rect(0, 0, 100, 100), tt.dangling)
			contours, warnings := contour.Build(prims, contour.DefaultBuildOptions())
			if len(contours) != 1 {
				t.Fatalf("got %d contours, want 1", len(contours))
			}
			if contours[0].Area() != 10000 {
				t.Errorf("square area = %v, want 10000", contours[0].Area())
			}
			if diff := cmp.Diff([]diag.Kind{diag.OpenContour}, kinds(warnings)); diff != "" {
				t.Fatalf("warning kinds (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]int{4}, warnings[0].Primitives); diff != "" {
				t.Errorf("warning indices (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildOpenChainGroupsWarnings(t *testing.T) {
	// Two separate open chains: one warning each.
	prims := []geom.Primitive{
		geom.NewLine(geom.Vec{X: 0, Y: 0}, geom.Vec{X: 10, Y: 0}),
		geom.NewLine(geom.Vec{X: 10, Y: 0}, geom.Vec{X: 10, Y: 10}),
		geom.NewLine(geom.Vec{X: 50, Y: 50}, geom.Vec{X: 60, Y: 50}),
	}
	contours, warnings := contour.Build(prims, contour.DefaultBuildOptions())
	if len(contours) != 0 {
		t.Fatalf("got %d contours, want 0", len(contours))
	}
	if diff := cmp.Diff([]diag.Kind{diag.OpenContour, diag.OpenContour}, kinds(warnings)); diff != "" {
		t.Fatalf("warning kinds (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1}, warnings[0].Primitives); diff != "" {
		t.Errorf("first group (-want +got):\n%s", diff)
	}
}

func TestBuildAmbiguousVertex(t *testing.T) {
	// Two squares meeting at one corner: four primitives share (10, 10).
	prims := concat(rect(0, 0, 10, 10), rect(10, 10, 10, 10), rect(100, 100, 5, 5))
	contours, warnings := contour.Build(prims, contour.DefaultBuildOptions())
	if len(contours) != 1 {
		t.Fatalf("got %d contours, want only the separate square", len(contours))
	}
	if diff := cmp.Diff([]diag.Kind{diag.InvalidGeometry}, kinds(warnings)); diff != "" {
		t.Fatalf("warning kinds (-want +got):\n%s", diff)
	}
	if !errors.Is(warnings[0], diag.ErrInvalidGeometry) {
		t.Error("ambiguous warning should unwrap to ErrInvalidGeometry")
	}
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6, 7}, warnings[0].Primitives); diff != "" {
		t.Errorf("rejected primitives (-want +got):\n%s", diff)
	}
}

func TestBuildTinyLoop(t *testing.T) {
	opts := contour.DefaultBuildOptions()
	opts.Tolerance = 1
	prims := []geom.Primitive{
		geom.NewLine(geom.Vec{X: 0, Y: 0}, geom.Vec{X: 0.5, Y: 0}),
		geom.NewLine(geom.Vec{X: 0.5, Y: 0}, geom.Vec{X: 0, Y: 0.5}),
		geom.NewLine(geom.Vec{X: 0, Y: 0.5}, geom.Vec{X: 0, Y: 0}),
	}
	contours, warnings := contour.Build(prims, opts)
	if len(contours) != 0 {
		t.Fatalf("got %d contours, want 0", len(contours))
	}
	if len(warnings) == 0 {
		t.Fatal("expected warnings")
	}
	for _, w := range warnings {
		if w.Kind != diag.InvalidGeometry {
			t.Errorf("warning %v, want invalid geometry", w)
		}
	}
}

func TestEpsilon(t *testing.T) {
	box := geom.Box{Min: geom.Vec{}, Max: geom.Vec{X: 300, Y: 400}}
	if got := contour.Epsilon(box, 0.01, 0); got != 0.01 {
		t.Errorf("absolute tolerance = %v", got)
	}
	if got := contour.Epsilon(box, 0, 0); math.Abs(got-500e-6) > 1e-15 {
		t.Errorf("relative tolerance = %v, want 5e-4", got)
	}
	if got := contour.Epsilon(geom.Box{}, 0, 0); got != contour.MinTolerance {
		t.Errorf("degenerate box tolerance = %v", got)
	}
}

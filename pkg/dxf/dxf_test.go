package dxf

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sample = `  0
SECTION
  2
HEADER
  9
$ACADVER
  1
AC1015
  9
$INSUNITS
 70
     1
  0
ENDSEC
  0
SECTION
  2
ENTITIES
  0
LINE
  5
1F
  8
CUT
 10
0.0
 20
0.0
 30
0.0
 11
10.0
 21
0.0
 31
0.0
  0
POLYLINE
  8
CUT
 70
1
  0
VERTEX
 10
0.0
 20
0.0
  0
VERTEX
 10
5.0
 20
0.0
 42
1.0
  0
SEQEND
  0
CIRCLE
 10
1.5
 20
2.5
 40
3.0
230
-1.0
  0
ENDSEC
  0
EOF
`

func TestParse(t *testing.T) {
	f, err := Parse("sample.dxf", strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if f.Name() != "sample.dxf" {
		t.Errorf("Name() = %q", f.Name())
	}
	if f.InsUnits() != 1 {
		t.Errorf("InsUnits() = %d, want 1", f.InsUnits())
	}

	types := make([]string, 0, len(f.Entities()))
	for _, e := range f.Entities() {
		types = append(types, e.Type)
	}
	if diff := cmp.Diff([]string{"LINE", "POLYLINE", "CIRCLE"}, types); diff != "" {
		t.Fatalf("entity types mismatch (-want +got):\n%s", diff)
	}

	line := f.Entities()[0]
	if line.Handle() != "1F" || line.Layer() != "CUT" {
		t.Errorf("handle/layer = %q/%q", line.Handle(), line.Layer())
	}
	if x, ok := line.Float(11); !ok || x != 10 {
		t.Errorf("Float(11) = %v, %v", x, ok)
	}

	poly := f.Entities()[1]
	if len(poly.Vertices) != 2 {
		t.Fatalf("polyline has %d vertices, want 2", len(poly.Vertices))
	}
	if b := poly.Vertices[1].FloatOr(42, 0); b != 1 {
		t.Errorf("bulge = %v, want 1", b)
	}
	if poly.IntOr(70, 0) != 1 {
		t.Errorf("polyline flags = %d, want 1", poly.IntOr(70, 0))
	}

	circle := f.Entities()[2]
	if circle.ExtrusionZ() != -1 {
		t.Errorf("ExtrusionZ() = %v, want -1", circle.ExtrusionZ())
	}
	if line.ExtrusionZ() != 1 {
		t.Errorf("default ExtrusionZ() = %v, want 1", line.ExtrusionZ())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"bad code", "  0\nSECTION\nabc\nHEADER\n", ErrSyntax},
		{"dangling code", "  0\nSECTION\n  2\n", ErrSyntax},
		{"binary", binarySentinel + "\r\n\x1a\x00", ErrBinary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("x.dxf", strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	f, err := Parse("empty.dxf", strings.NewReader("  0\nSECTION\n  2\nENTITIES\n  0\nENDSEC\n  0\nEOF\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(f.Entities()) != 0 {
		t.Fatalf("got %d entities, want 0", len(f.Entities()))
	}
	if f.InsUnits() != 0 {
		t.Fatalf("InsUnits() = %d, want 0", f.InsUnits())
	}
}

func TestUnitScale(t *testing.T) {
	if s, ok := UnitScale(1); !ok || s != 25.4 {
		t.Errorf("inches = %v, %v", s, ok)
	}
	if s, ok := UnitScale(6); !ok || s != 1000 {
		t.Errorf("metres = %v, %v", s, ok)
	}
	if _, ok := UnitScale(0); ok {
		t.Error("unitless should not report a scale")
	}
}

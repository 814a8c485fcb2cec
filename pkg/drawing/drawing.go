package drawing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chazu/kerf/pkg/diag"
	"github.com/chazu/kerf/pkg/dxf"
	"github.com/chazu/kerf/pkg/geom"
)

var (
	// ErrEmptyDrawing means the source contains no entities at all.
	ErrEmptyDrawing = errors.New("drawing has no entities")
	// ErrUnreadable means the source had entities but none produced a primitive.
	ErrUnreadable = errors.New("no readable entities")
)

// Source supplies the raw entities of one drawing. *dxf.File implements it.
type Source interface {
	Name() string
	Entities() []dxf.Entity
	InsUnits() int
}

var _ Source = (*dxf.File)(nil)

// ReadOptions controls primitive extraction.
type ReadOptions struct {
	// Scale multiplies every coordinate and radius. Zero derives the scale
	// from the drawing's $INSUNITS header (millimetres), falling back to 1.
	Scale float64
	// SplineSegments is the number of line segments a SPLINE is flattened to.
	SplineSegments int
	// MinSegmentLength is the length at or below which a line or arc is
	// treated as zero-length, in scaled units.
	MinSegmentLength float64
}

// DefaultReadOptions returns the options used when none are configured.
func DefaultReadOptions() ReadOptions {
	return ReadOptions{
		Scale:            0,
		SplineSegments:   100,
		MinSegmentLength: 1e-9,
	}
}

// Drawing holds the primitives read from one source.
type Drawing struct {
	Source     string
	Primitives []geom.Primitive
	// Entities maps each primitive to the index of the entity it came from.
	Entities    []int
	EntityCount int
	Scale       float64
	Warnings    []diag.Warning
}

// Bounds returns the bounding box of all primitives.
func (d *Drawing) Bounds() geom.Box {
	b := geom.EmptyBox()
	for _, p := range d.Primitives {
		b = geom.Union(b, p.Bounds())
	}
	return b
}

// reader accumulates primitives and warnings for one Read call.
type reader struct {
	opts     ReadOptions
	scale    float64
	d        *Drawing
	produced bool
}

// Read converts the entities of src into primitives. Bad entities are
// skipped with MalformedGeometry warnings. When every entity fails, the
// returned Drawing is still populated with its warnings alongside
// ErrUnreadable.
func Read(src Source, opts ReadOptions) (*Drawing, error) {
	if opts.Scale < 0 {
		return nil, fmt.Errorf("drawing: invalid scale %v", opts.Scale)
	}
	if opts.SplineSegments <= 0 {
		opts.SplineSegments = DefaultReadOptions().SplineSegments
	}

	scale := opts.Scale
	if scale == 0 {
		scale = 1
		if s, ok := dxf.UnitScale(src.InsUnits()); ok {
			scale = s
		}
	}

	entities := src.Entities()
	r := &reader{
		opts:  opts,
		scale: scale,
		d: &Drawing{
			Source:      src.Name(),
			EntityCount: len(entities),
			Scale:       scale,
		},
	}
	if len(entities) == 0 {
		return nil, fmt.Errorf("drawing: %s: %w", src.Name(), ErrEmptyDrawing)
	}

	unsupported := make(map[string][]int)
	for i, e := range entities {
		before := len(r.d.Primitives)
		switch e.Type {
		case "LINE":
			r.readLine(i, e)
		case "ARC":
			r.readArc(i, e)
		case "CIRCLE":
			r.readCircle(i, e)
		case "LWPOLYLINE":
			r.readLWPolyline(i, e)
		case "POLYLINE":
			r.readPolyline(i, e)
		case "SPLINE":
			r.readSpline(i, e)
		default:
			unsupported[e.Type] = append(unsupported[e.Type], i)
		}
		if len(r.d.Primitives) > before {
			r.produced = true
		}
	}

	types := make([]string, 0, len(unsupported))
	for t := range unsupported {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		idx := unsupported[t]
		r.warn(idx, "unsupported entity type %s skipped (%d)", t, len(idx))
	}

	if !r.produced {
		return r.d, fmt.Errorf("drawing: %s: %w", src.Name(), ErrUnreadable)
	}
	return r.d, nil
}

func (r *reader) warn(indices []int, format string, args ...any) {
	r.d.Warnings = append(r.d.Warnings, diag.Newf(diag.MalformedGeometry, diag.StageRead, indices, format, args...))
}

// emit validates, scales, mirrors and records a primitive for entity i.
func (r *reader) emit(i int, e dxf.Entity, p geom.Primitive) {
	p = p.Scale(r.scale)
	if e.ExtrusionZ() < 0 {
		p = p.MirrorX()
	}
	if err := p.Validate(r.opts.MinSegmentLength); err != nil {
		r.warn([]int{i}, "%s %s: %v", lower(e.Type), describe(e), err)
		return
	}
	r.d.Primitives = append(r.d.Primitives, p)
	r.d.Entities = append(r.d.Entities, i)
}

// describe names an entity by handle when it has one.
func describe(e dxf.Entity) string {
	if h := e.Handle(); h != "" {
		return "#" + h
	}
	return "(no handle)"
}

// point reads the coordinate pair at codes x and x+10.
func point(e dxf.Entity, x int) (geom.Vec, bool) {
	px, okx := e.Float(x)
	py, oky := e.Float(x + 10)
	return geom.Vec{X: px, Y: py}, okx && oky
}

// Package dxf implements render.Renderer by writing classified parts back
// to DXF with github.com/yofu/dxf. Outer boundaries go on layer OUTER and
// holes on layer HOLES; arcs and circles stay native entities.
package dxf

import (
	"fmt"
	"math"

	ydxf "github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/render"
)

// Layer names.
const (
	LayerOuter = "OUTER"
	LayerHoles = "HOLES"
)

// Compile-time interface check.
var _ render.Renderer = (*Renderer)(nil)

// Renderer writes one DXF file per drawing.
type Renderer struct{}

// New returns a DXF renderer.
func New() *Renderer { return &Renderer{} }

// Ext returns ".dxf".
func (r *Renderer) Ext() string { return ".dxf" }

// RenderFile writes parts to path.
func (r *Renderer) RenderFile(path string, parts []render.Part) error {
	d := ydxf.NewDrawing()
	if _, err := d.AddLayer(LayerOuter, ydxf.DefaultColor, ydxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("dxf: layer %s: %w", LayerOuter, err)
	}
	if _, err := d.AddLayer(LayerHoles, color.Red, ydxf.DefaultLineType, false); err != nil {
		return fmt.Errorf("dxf: layer %s: %w", LayerHoles, err)
	}

	for _, p := range parts {
		if err := writeContour(d, LayerOuter, p.Set.Outer); err != nil {
			return fmt.Errorf("dxf: part %s: %w", p.ID, err)
		}
		for _, h := range p.Set.Holes {
			if err := writeContour(d, LayerHoles, h); err != nil {
				return fmt.Errorf("dxf: part %s: %w", p.ID, err)
			}
		}
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("dxf: save %s: %w", path, err)
	}
	return nil
}

func writeContour(d *drawing.Drawing, layer string, c contour.Contour) error {
	if err := d.ChangeLayer(layer); err != nil {
		return err
	}
	for _, p := range c.Primitives {
		if err := writePrimitive(d, p); err != nil {
			return err
		}
	}
	return nil
}

// writePrimitive emits p as a LINE, ARC or CIRCLE. DXF arcs always run
// counterclockwise, so clockwise arcs are written with swapped angles.
func writePrimitive(d *drawing.Drawing, p geom.Primitive) error {
	var err error
	switch p.Kind {
	case geom.KindLine:
		_, err = d.Line(p.P0.X, p.P0.Y, 0, p.P1.X, p.P1.Y, 0)
	case geom.KindArc:
		start, end := p.Start, p.End
		if !p.CCW {
			start, end = end, start
		}
		_, err = d.Arc(p.Center.X, p.Center.Y, 0, p.Radius, degrees(start), degrees(end))
	case geom.KindCircle:
		_, err = d.Circle(p.Center.X, p.Center.Y, 0, p.Radius)
	default:
		err = fmt.Errorf("unknown primitive kind %v", p.Kind)
	}
	return err
}

func degrees(rad float64) float64 {
	return geom.NormalizeAngle(rad) * 180 / math.Pi
}

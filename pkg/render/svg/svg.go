// Package svg implements render.Renderer with SVG previews. Arcs and
// circles are written as exact path arcs; each part is one even-odd filled
// path so holes show through.
package svg

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo/float"

	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/render"
)

// Compile-time interface check.
var _ render.Renderer = (*Renderer)(nil)

// Renderer writes one SVG document per drawing, in millimetres.
type Renderer struct {
	// Margin is added around the parts, in drawing units.
	Margin float64
	// StrokeWidth of the part outlines, in drawing units.
	StrokeWidth float64
}

// New returns a renderer with a 5 unit margin and a 0.5 unit stroke.
func New() *Renderer {
	return &Renderer{Margin: 5, StrokeWidth: 0.5}
}

// Ext returns ".svg".
func (r *Renderer) Ext() string { return ".svg" }

// RenderFile writes parts to path.
func (r *Renderer) RenderFile(path string, parts []render.Part) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("svg: %w", err)
	}
	w := bufio.NewWriter(f)
	r.Render(w, parts)
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("svg: write %s: %w", path, err)
	}
	return f.Close()
}

// Render writes the SVG document for parts to w.
func (r *Renderer) Render(w io.Writer, parts []render.Part) {
	b := render.Bounds(parts)
	if geom.IsEmpty(b) {
		b = geom.Box{}
	}
	fr := frame{minX: b.Min.X - r.Margin, maxY: b.Max.Y + r.Margin}
	width := b.Max.X - b.Min.X + 2*r.Margin
	height := b.Max.Y - b.Min.Y + 2*r.Margin

	canvas := svgo.New(w)
	canvas.Decimals = 3
	canvas.StartviewUnit(width, height, "mm", 0, 0, width, height)
	for _, p := range parts {
		canvas.Gid(p.ID)
		canvas.Title(p.ID)
		canvas.Path(fr.path(p.Set),
			fmt.Sprintf("fill:%s;fill-opacity:0.35;fill-rule:evenodd;stroke:%s;stroke-width:%s",
				p.Color, p.Color, strconv.FormatFloat(r.StrokeWidth, 'f', -1, 64)))
		canvas.Gend()
	}
	canvas.End()
}

// frame maps drawing coordinates to SVG user space with y pointing down.
type frame struct {
	minX, maxY float64
}

func (f frame) pt(p geom.Vec) string {
	return num(p.X-f.minX) + " " + num(f.maxY-p.Y)
}

func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// path returns the path data of the outer boundary followed by every hole.
func (f frame) path(s contour.ContourSet) string {
	var b strings.Builder
	for _, c := range s.Contours() {
		f.contour(&b, c)
	}
	return strings.TrimSpace(b.String())
}

func (f frame) contour(b *strings.Builder, c contour.Contour) {
	if len(c.Primitives) == 0 {
		return
	}
	b.WriteString("M " + f.pt(c.Primitives[0].StartPoint()) + " ")
	for _, p := range c.Primitives {
		switch p.Kind {
		case geom.KindLine:
			b.WriteString("L " + f.pt(p.EndPoint()) + " ")
		case geom.KindArc:
			f.arc(b, p.Radius, p.Sweep(), p.CCW, p.EndPoint())
		case geom.KindCircle:
			// A full circle is two half arcs; a single arc with equal end
			// points draws nothing.
			f.arc(b, p.Radius, math.Pi, p.CCW, p.PointAt(0.5))
			f.arc(b, p.Radius, math.Pi, p.CCW, p.EndPoint())
		}
	}
	b.WriteString("Z ")
}

// arc writes an SVG elliptical arc. Flipping y turns a counterclockwise
// drawing arc into a positive-angle SVG arc.
func (f frame) arc(b *strings.Builder, r, sweep float64, ccw bool, end geom.Vec) {
	large, dir := 0, 0
	if sweep > math.Pi {
		large = 1
	}
	if ccw {
		dir = 1
	}
	fmt.Fprintf(b, "A %s %s 0 %d %d %s ", num(r), num(r), large, dir, f.pt(end))
}

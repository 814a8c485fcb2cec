package pdf

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
	pdflib "seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/graphics/color"

	"github.com/chazu/kerf/pkg/batch"
	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/diag"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/render"
	"github.com/chazu/kerf/pkg/report"
)

const (
	fontSize   = 8
	titleSize  = 14
	lineHeight = 12

	// maxPageHeight is the tallest page common viewers open, in points.
	maxPageHeight = 14400
	minPreview    = 24
)

// pageWidth is the A4 width in points.
var pageWidth = document.A4.URx

// Column widths in points. The last three are only used for priced reports.
var columnWidths = []float64{110, 110, 28, 60, 50, 30, 45, 45, 45}

// Writer lays out a report on one page.
type Writer struct {
	// Margin around the page content, in points.
	Margin float64
	// PreviewHeight is the height of one drawing preview, in points. It
	// shrinks when the page would grow past what viewers open.
	PreviewHeight float64
	// StrokeWidth of the part outlines, in points.
	StrokeWidth float64
}

// New returns a writer with half-inch margins and 160pt previews.
func New() *Writer {
	return &Writer{Margin: 36, PreviewHeight: 160, StrokeWidth: 0.6}
}

// WriteFile writes the report to path. files supplies the contours drawn in
// the previews; the table comes from rep.
func (w *Writer) WriteFile(path string, rep *report.Report, files []batch.FileResult) error {
	l := w.layout(rep, files)
	page, err := document.CreateSinglePage(path, l.mediaBox(), pdflib.V1_7, nil)
	if err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return w.draw(page, l)
}

// Write writes the report to out.
func (w *Writer) Write(out io.Writer, rep *report.Report, files []batch.FileResult) error {
	l := w.layout(rep, files)
	page, err := document.WriteSinglePage(out, l.mediaBox(), pdflib.V1_7, nil)
	if err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return w.draw(page, l)
}

// preview is one drawing and the parts cut from it.
type preview struct {
	title string
	parts []render.Part
}

// layout is everything placed on the page, top to bottom.
type layout struct {
	title    string
	previews []preview
	previewH float64
	header   []string
	rows     [][]string
	total    int
	notes    []string
	height   float64
}

func (l *layout) mediaBox() *pdflib.Rectangle {
	return &pdflib.Rectangle{URx: pageWidth, URy: l.height}
}

func (w *Writer) layout(rep *report.Report, files []batch.FileResult) *layout {
	l := &layout{title: "Cut-part report"}
	if rep.RunID != "" {
		l.title += " " + rep.RunID
	}
	for _, f := range files {
		if len(f.Sets) == 0 {
			continue
		}
		name := f.Name()
		l.previews = append(l.previews, preview{
			title: fmt.Sprintf("%s   x%d   %d part(s)", name, max(f.Quantity, 1), len(f.Sets)),
			parts: render.Parts(name, f.Sets),
		})
	}
	l.header, l.rows, l.total = tableRows(rep)
	if s := warningSummary(files); s != "" {
		l.notes = append(l.notes, s)
	}
	for _, n := range rep.Skipped {
		l.notes = append(l.notes, fmt.Sprintf("Skipped %s: %s", n.File, n.Reason))
	}
	for _, n := range rep.Failed {
		l.notes = append(l.notes, fmt.Sprintf("Failed %s: %s", n.File, n.Reason))
	}

	fixed := 2*w.Margin + titleSize + lineHeight +
		float64(len(l.rows)+2)*lineHeight +
		float64(len(l.notes))*lineHeight
	l.previewH = w.PreviewHeight
	if n := float64(len(l.previews)); n > 0 {
		room := (maxPageHeight-fixed)/n - 2*lineHeight
		l.previewH = math.Max(minPreview, math.Min(l.previewH, room))
		fixed += n * (2*lineHeight + l.previewH)
	}
	l.height = fixed
	return l
}

func (w *Writer) draw(page *document.Page, l *layout) error {
	regular := font.Must(standard.Helvetica.New())
	bold := font.Must(standard.HelveticaBold.New())
	black := color.DeviceGray(0)
	rule := color.DeviceGray(0.75)
	left, right := w.Margin, pageWidth-w.Margin

	y := l.height - w.Margin - titleSize
	page.SetFillColor(black)
	show(page, bold, titleSize, left, y, l.title)
	y -= lineHeight

	for _, pv := range l.previews {
		y -= lineHeight
		page.SetFillColor(black)
		show(page, bold, fontSize, left, y+3, pv.title)

		y -= l.previewH
		page.SetStrokeColor(rule)
		page.SetLineWidth(0.3)
		page.Rectangle(left, y, right-left, l.previewH)
		page.Stroke()

		const inset = 6
		f := fitBox(render.Bounds(pv.parts), left+inset, y+inset, right-left-2*inset, l.previewH-2*inset)
		page.SetLineWidth(w.StrokeWidth)
		for _, p := range pv.parts {
			page.SetStrokeColor(hexColor(p.Color))
			drawSet(page, p.Set, f)
			page.Stroke()
		}
		y -= lineHeight
	}

	y -= lineHeight
	page.SetFillColor(black)
	x := left
	for i, h := range l.header {
		show(page, bold, fontSize, x, y, h)
		x += columnWidths[i]
	}
	page.SetStrokeColor(rule)
	page.SetLineWidth(0.3)
	page.MoveTo(left, y-3)
	page.LineTo(right, y-3)
	page.Stroke()

	for i, row := range l.rows {
		y -= lineHeight
		fnt := font.Instance(regular)
		if i == l.total {
			fnt = bold
		}
		x := left
		for j, cell := range row {
			show(page, fnt, fontSize, x, y, clip(cell, columnWidths[j]))
			x += columnWidths[j]
		}
	}

	y -= lineHeight
	for _, n := range l.notes {
		y -= lineHeight
		show(page, regular, fontSize, left, y, n)
	}

	if err := page.Close(); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}

// tableRows returns the table header, its rows and the index of the grand
// total row, or -1 for an unpriced report.
func tableRows(rep *report.Report) (header []string, rows [][]string, total int) {
	header = []string{"File", "Part", "Qty", "Length (mm)", "Area (m2)", "Holes"}
	if rep.Priced {
		header = append(header, "Cutting", "Material", "Total")
	}
	for _, r := range rep.Rows {
		cells := []string{
			r.File,
			r.PartID,
			strconv.Itoa(r.Quantity),
			strconv.FormatFloat(r.LengthMM, 'f', 2, 64),
			strconv.FormatFloat(r.AreaM2, 'f', 4, 64),
			strconv.Itoa(r.Holes),
		}
		if rep.Priced {
			cells = append(cells, money(r.CuttingCost), money(r.MaterialCost), money(r.Total))
		}
		rows = append(rows, cells)
	}
	total = -1
	if rep.Priced {
		last := make([]string, len(header))
		last[len(last)-2] = "Grand total"
		last[len(last)-1] = money(rep.GrandTotal)
		total = len(rows)
		rows = append(rows, last)
	}
	return header, rows, total
}

func money(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// warningSummary tallies the warnings of files by kind, or returns "".
func warningSummary(files []batch.FileResult) string {
	counts := diag.Count(lo.FlatMap(files, func(f batch.FileResult, _ int) []diag.Warning { return f.Warnings }))
	if len(counts) == 0 {
		return ""
	}
	kinds := lo.Keys(counts)
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	parts := lo.Map(kinds, func(k diag.Kind, _ int) string { return fmt.Sprintf("%s %d", k, counts[k]) })
	return "Warnings: " + strings.Join(parts, ", ")
}

// clip shortens s to roughly fit width points of the table font.
func clip(s string, width float64) string {
	n := int(width/(fontSize*0.55)) - 1
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func show(page *document.Page, f font.Instance, size, x, y float64, s string) {
	page.TextBegin()
	page.TextSetFont(f, size)
	page.TextFirstLine(x, y)
	page.TextShow(s)
	page.TextEnd()
}

// fit maps drawing coordinates into a box on the page. Both have y up.
type fit struct {
	minX, minY float64
	scale      float64
	ox, oy     float64
}

// fitBox scales b uniformly to fit the box at (x, y) of the given size and
// centers it there.
func fitBox(b geom.Box, x, y, width, height float64) fit {
	if geom.IsEmpty(b) {
		b = geom.Box{}
	}
	bw, bh := b.Max.X-b.Min.X, b.Max.Y-b.Min.Y
	s := math.Inf(1)
	if bw > 0 {
		s = width / bw
	}
	if bh > 0 {
		s = math.Min(s, height/bh)
	}
	if math.IsInf(s, 1) {
		s = 1
	}
	return fit{
		minX:  b.Min.X,
		minY:  b.Min.Y,
		scale: s,
		ox:    x + (width-bw*s)/2,
		oy:    y + (height-bh*s)/2,
	}
}

func (f fit) pt(v geom.Vec) (float64, float64) {
	return f.ox + (v.X-f.minX)*f.scale, f.oy + (v.Y-f.minY)*f.scale
}

// drawSet appends every contour of s to the current path.
func drawSet(page *document.Page, s contour.ContourSet, f fit) {
	for _, c := range s.Contours() {
		if len(c.Primitives) == 0 {
			continue
		}
		if c.IsCircle() {
			p := c.Primitives[0]
			x, y := f.pt(p.Center)
			page.Circle(x, y, p.Radius*f.scale)
			continue
		}
		x, y := f.pt(c.Primitives[0].StartPoint())
		page.MoveTo(x, y)
		for _, p := range c.Primitives {
			if p.Kind == geom.KindLine {
				x, y := f.pt(p.EndPoint())
				page.LineTo(x, y)
				continue
			}
			cx, cy := f.pt(p.Center)
			page.LineToArc(cx, cy, p.Radius*f.scale, p.AngleAt(0), p.AngleAt(1))
		}
		page.ClosePath()
	}
}

// hexColor parses a "#rrggbb" palette entry.
func hexColor(s string) color.Color {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil {
		return color.DeviceGray(0)
	}
	return color.DeviceRGB{float64(v>>16&0xff) / 255, float64(v>>8&0xff) / 255, float64(v&0xff) / 255}
}

package pdf_test

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/kerf/pkg/batch"
	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/diag"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/measure"
	"github.com/chazu/kerf/pkg/pricing"
	"github.com/chazu/kerf/pkg/report"
	"github.com/chazu/kerf/pkg/report/pdf"
)

// plate is a 100 x 50 rectangle with a round hole.
func plate() contour.ContourSet {
	a, b, c, d := geom.Vec{X: 0, Y: 0}, geom.Vec{X: 100, Y: 0}, geom.Vec{X: 100, Y: 50}, geom.Vec{X: 0, Y: 50}
	return contour.ContourSet{
		Outer: contour.Contour{Primitives: []geom.Primitive{
			geom.NewLine(a, b), geom.NewLine(b, c), geom.NewLine(c, d), geom.NewLine(d, a),
		}},
		Holes: []contour.Contour{{Primitives: []geom.Primitive{geom.NewCircle(geom.Vec{X: 50, Y: 25}, 10)}}},
	}
}

// tab is a D shape: a flat edge closed by a half circle.
func tab() contour.ContourSet {
	return contour.ContourSet{
		Outer: contour.Contour{Primitives: []geom.Primitive{
			geom.NewLine(geom.Vec{X: 0, Y: 0}, geom.Vec{X: 20, Y: 0}),
			geom.NewArc(geom.Vec{X: 10, Y: 0}, 10, 0, math.Pi, true),
		}},
	}
}

func runFiles(t *testing.T) []batch.FileResult {
	t.Helper()
	files := []batch.FileResult{
		{File: "/parts/plate_3.dxf", Quantity: 3, Sets: []contour.ContourSet{plate()}},
		{File: "/parts/tab.dxf", Quantity: 1, Sets: []contour.ContourSet{tab()},
			Warnings: []diag.Warning{diag.Newf(diag.OpenContour, diag.StageBuild, []int{4}, "open chain of 1 primitive(s)")}},
		{File: "/parts/empty.dxf", Quantity: 1, Skipped: batch.SkipNoEntities},
		{File: "/parts/bad.dxf", Quantity: 1, Err: errors.New("no readable entities")},
	}
	for i := range files {
		f := &files[i]
		parts, warnings := measure.Aggregate(f.Name(), f.Sets)
		require.Empty(t, warnings)
		f.Parts = parts
	}
	return files
}

func pricedReport(t *testing.T, files []batch.FileResult) *report.Report {
	t.Helper()
	p, err := pricing.NewPricer(pricing.Rates{CostPerMeter: 1.2, CostPerSquareMeter: 40}, pricing.Formula{}, pricing.Formula{}, 0)
	require.NoError(t, err)
	rep, err := report.Build(context.Background(), "run-1", files, p)
	require.NoError(t, err)
	return rep
}

func TestWriteFile(t *testing.T) {
	files := runFiles(t)
	rep := pricedReport(t, files)

	path := filepath.Join(t.TempDir(), "dxf_files.pdf")
	require.NoError(t, pdf.New().WriteFile(path, rep, files))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-1.7")), "missing PDF header")
	assert.Contains(t, string(bytes.TrimSpace(data[len(data)-32:])), "%%EOF")
}

func TestWriteEmptyReport(t *testing.T) {
	rep, err := report.Build(context.Background(), "", nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pdf.New().Write(&buf, rep, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestTableRows(t *testing.T) {
	files := runFiles(t)
	rep := pricedReport(t, files)

	header, rows, total := pdf.TableRows(rep)
	require.Len(t, header, 9)
	require.Len(t, rows, 3)
	require.Equal(t, 2, total)
	assert.Equal(t, "plate_3.dxf#1", rows[0][1])
	assert.Equal(t, "3", rows[0][2])
	assert.Equal(t, "Grand total", rows[total][7])
	assert.Equal(t, strconv.FormatFloat(rep.GrandTotal, 'f', 2, 64), rows[total][8])
	for _, row := range rows {
		assert.Len(t, row, len(header))
	}

	unpriced, err := report.Build(context.Background(), "", files, nil)
	require.NoError(t, err)
	header, rows, total = pdf.TableRows(unpriced)
	assert.Len(t, header, 6)
	assert.Len(t, rows, 2)
	assert.Equal(t, -1, total)
}

func TestWarningSummary(t *testing.T) {
	files := []batch.FileResult{
		{Warnings: []diag.Warning{
			diag.Newf(diag.OpenContour, diag.StageBuild, nil, "a"),
			diag.Newf(diag.MalformedGeometry, diag.StageRead, nil, "b"),
		}},
		{Warnings: []diag.Warning{diag.Newf(diag.OpenContour, diag.StageBuild, nil, "c")}},
		{},
	}
	assert.Equal(t, "Warnings: malformed_geometry 1, open_contour 2", pdf.WarningSummary(files))
	assert.Empty(t, pdf.WarningSummary(files[2:]))
}

func TestFitBox(t *testing.T) {
	b := geom.Box{Min: geom.Vec{X: -50, Y: 0}, Max: geom.Vec{X: 50, Y: 50}}
	tests := []struct {
		name         string
		v            geom.Vec
		wantX, wantY float64
	}{
		{"lower left", geom.Vec{X: -50, Y: 0}, 0, 50},
		{"upper right", geom.Vec{X: 50, Y: 50}, 200, 150},
		{"center", geom.Vec{X: 0, Y: 25}, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := pdf.FitPoint(b, 0, 0, 200, 200, tt.v)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
		})
	}
}

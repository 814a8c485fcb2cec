package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(size float64) string {
	var b strings.Builder
	b.WriteString("0\nSECTION\n2\nENTITIES\n")
	pts := [][2]float64{{0, 0}, {size, 0}, {size, size}, {0, size}, {0, 0}}
	for i := 0; i < 4; i++ {
		fmt.Fprintf(&b, "0\nLINE\n8\n0\n10\n%g\n20\n%g\n11\n%g\n21\n%g\n", pts[i][0], pts[i][1], pts[i+1][0], pts[i+1][1])
	}
	b.WriteString("0\nENDSEC\n0\nEOF\n")
	return b.String()
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func TestMeasureJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sq_2.dxf")
	require.NoError(t, os.WriteFile(path, []byte(square(1000)), 0o644))

	out, err := run(t, "measure", "--json", path)
	require.NoError(t, err)

	var rep struct {
		Rows []struct {
			PartID   string  `json:"part_id"`
			Quantity int     `json:"quantity"`
			LengthMM float64 `json:"length_mm"`
			AreaM2   float64 `json:"area_m2"`
		} `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, "sq_2.dxf#1", rep.Rows[0].PartID)
	assert.Equal(t, 2, rep.Rows[0].Quantity)
	assert.InDelta(t, 4000, rep.Rows[0].LengthMM, 1e-9)
	assert.InDelta(t, 1, rep.Rows[0].AreaM2, 1e-12)
}

func TestMeasureFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.dxf")
	require.NoError(t, os.WriteFile(path, []byte("0\nSECTION\n2\nENTITIES\n0\nTEXT\n1\nhi\n0\nENDSEC\n0\nEOF\n"), 0o644))

	out, err := run(t, "measure", path)
	require.Error(t, err)
	assert.Contains(t, out, "text.dxf")
}

func TestReport(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sq_3.dxf"), []byte(square(1000)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.dxf"), []byte("0\nSECTION\n2\nENTITIES\n0\nENDSEC\n0\nEOF\n"), 0o644))
	previews := t.TempDir()
	metricsFile := filepath.Join(t.TempDir(), "kerf.prom")

	out, err := run(t, "report", dir,
		"--cost-per-meter", "2", "--cost-per-square-meter", "10",
		"--svg-dir", previews, "--dxf-dir", previews,
		"--metrics-file", metricsFile,
	)
	require.NoError(t, err)
	// 4 m x 2 x 3 + 1 m² x 10 x 3
	assert.Contains(t, out, "54.00")
	assert.Contains(t, out, "empty.dxf: no entities")

	assert.FileExists(t, filepath.Join(previews, "sq_3.svg"))
	assert.FileExists(t, filepath.Join(previews, "sq_3.dxf"))
	assert.NoFileExists(t, filepath.Join(previews, "empty.svg"))

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `kerf_files_processed_total{status="ok"} 1`)
}

func TestReportPDF(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sq_2.dxf"), []byte(square(100)), 0o644))
	pdfPath := filepath.Join(t.TempDir(), "dxf_files.pdf")

	_, err := run(t, "report", dir, "--cost-per-meter", "1", "--pdf", pdfPath)
	require.NoError(t, err)

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "not a PDF file")
}

func TestReportBadFormula(t *testing.T) {
	_, err := run(t, "report", t.TempDir(), "--cutting-formula", "(+ 1")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "kerf dev\n", out)
}

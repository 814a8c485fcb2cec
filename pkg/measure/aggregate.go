package measure

import (
	"fmt"

	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/diag"
)

// PartMeasurement is the per-unit result for one part. Quantities and
// costs are applied downstream.
type PartMeasurement struct {
	ID            string
	CuttingLength float64
	Area          float64
	SourceFile    string
	ContourCount  int
	HoleCount     int
	Width         float64
	Height        float64
}

// PartID returns the identifier of the n-th (1-based) part of a source.
func PartID(source string, n int) string {
	return fmt.Sprintf("%s#%d", source, n)
}

// Aggregate measures each set as one part. Part numbers follow the set
// order, so a set that fails measurement leaves a gap in the numbering and
// shows up as an InvalidGeometry warning instead.
func Aggregate(source string, sets []contour.ContourSet) ([]PartMeasurement, []diag.Warning) {
	var (
		parts    []PartMeasurement
		warnings []diag.Warning
	)
	for i, set := range sets {
		id := PartID(source, i+1)
		m, err := Measure(set)
		if err != nil {
			warnings = append(warnings, diag.Newf(diag.InvalidGeometry, diag.StageMeasure, []int{i},
				"part %s: %v", id, err))
			continue
		}
		parts = append(parts, PartMeasurement{
			ID:            id,
			CuttingLength: m.CuttingLength,
			Area:          m.Area,
			SourceFile:    source,
			ContourCount:  m.ContourCount,
			HoleCount:     m.HoleCount,
			Width:         m.Width,
			Height:        m.Height,
		})
	}
	return parts, warnings
}

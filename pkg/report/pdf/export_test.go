package pdf

import "github.com/chazu/kerf/pkg/geom"

var (
	TableRows      = tableRows
	WarningSummary = warningSummary
)

// FitPoint maps v with the fit of b into the given page box.
func FitPoint(b geom.Box, x, y, width, height float64, v geom.Vec) (float64, float64) {
	return fitBox(b, x, y, width, height).pt(v)
}

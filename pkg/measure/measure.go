package measure

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/diag"
)

// Metrics are the measured values of one ContourSet.
type Metrics struct {
	CuttingLength float64
	Area          float64
	OuterArea     float64
	HoleArea      float64
	Width         float64
	Height        float64
	ContourCount  int
	HoleCount     int
}

// areaNoise is the relative amount by which holes may exceed the outer area
// before the difference counts as an error rather than rounding.
const areaNoise = 1e-9

// Measure returns the cutting length (outer plus holes) and the net area
// (outer minus holes) of a set. Areas are exact for lines, arcs and circles.
// A net area that is negative beyond rounding noise means the holes do not
// fit the outer contour and is reported as diag.ErrInvalidGeometry.
func Measure(set contour.ContourSet) (Metrics, error) {
	all := set.Contours()
	length := lo.SumBy(all, func(c contour.Contour) float64 { return c.Length() })
	outer := set.Outer.Area()
	holes := lo.SumBy(set.Holes, func(c contour.Contour) float64 { return c.Area() })

	area := outer - holes
	if area < 0 {
		if -area > areaNoise*math.Max(outer, 1) {
			return Metrics{}, fmt.Errorf("measure: net area %g is negative (outer %g, holes %g): %w",
				area, outer, holes, diag.ErrInvalidGeometry)
		}
		area = 0
	}

	b := set.Bounds()
	return Metrics{
		CuttingLength: length,
		Area:          area,
		OuterArea:     outer,
		HoleArea:      holes,
		Width:         b.Max.X - b.Min.X,
		Height:        b.Max.Y - b.Min.Y,
		ContourCount:  len(all),
		HoleCount:     len(set.Holes),
	}, nil
}

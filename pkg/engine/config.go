package engine

import (
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/drawing"
	"github.com/chazu/kerf/pkg/tessellate"
)

// Config is threaded through every stage of one pipeline run. The zero
// value is not useful; start from DefaultConfig.
type Config struct {
	// Scale multiplies all coordinates; 0 derives it from $INSUNITS.
	Scale float64
	// Tolerance is the absolute endpoint matching distance ε. When 0, ε is
	// RelativeTolerance times the drawing's bounding box diagonal.
	Tolerance         float64
	RelativeTolerance float64
	// AngularTolerance is the chord angle, in radians, used when arcs are
	// flattened for containment tests.
	AngularTolerance float64
	SplineSegments   int
	MaxWalkSteps     int
	MinSegmentLength float64
	// Strict fails the drawing when any warning was raised, even if parts
	// were measured.
	Strict bool
}

// MinAngularTolerance is the finest chord angle accepted (0.01°).
const MinAngularTolerance = 0.01 * math.Pi / 180

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	r := drawing.DefaultReadOptions()
	b := contour.DefaultBuildOptions()
	return Config{
		Scale:             r.Scale,
		RelativeTolerance: b.RelativeTolerance,
		AngularTolerance:  tessellate.DefaultAngularTolerance,
		SplineSegments:    r.SplineSegments,
		MaxWalkSteps:      b.MaxWalkSteps,
		MinSegmentLength:  r.MinSegmentLength,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch {
	case c.Scale < 0 || math.IsNaN(c.Scale):
		return fmt.Errorf("engine: scale must be >= 0, got %v", c.Scale)
	case c.Tolerance < 0 || math.IsNaN(c.Tolerance):
		return fmt.Errorf("engine: tolerance must be >= 0, got %v", c.Tolerance)
	case c.Tolerance == 0 && !(c.RelativeTolerance > 0):
		return fmt.Errorf("engine: relative tolerance must be > 0 when no absolute tolerance is set, got %v", c.RelativeTolerance)
	case !(c.AngularTolerance >= MinAngularTolerance) || c.AngularTolerance > math.Pi/2:
		return fmt.Errorf("engine: angular tolerance must be in [%v, π/2] radians, got %v", MinAngularTolerance, c.AngularTolerance)
	case c.SplineSegments < 1:
		return fmt.Errorf("engine: spline segments must be >= 1, got %d", c.SplineSegments)
	case c.MaxWalkSteps < 1:
		return fmt.Errorf("engine: max walk steps must be >= 1, got %d", c.MaxWalkSteps)
	}
	return nil
}

// ReadOptions returns the reader options for c.
func (c Config) ReadOptions() drawing.ReadOptions {
	return drawing.ReadOptions{
		Scale:            c.Scale,
		SplineSegments:   c.SplineSegments,
		MinSegmentLength: c.MinSegmentLength,
	}
}

// buildOptions returns the builder options for c with ε fixed.
func (c Config) buildOptions(eps float64) contour.BuildOptions {
	return contour.BuildOptions{Tolerance: eps, MaxWalkSteps: c.MaxWalkSteps}
}

// classifyOptions returns the classifier options for c with ε fixed.
func (c Config) classifyOptions(eps float64) contour.ClassifyOptions {
	return contour.ClassifyOptions{Tolerance: eps, AngularTolerance: c.AngularTolerance}
}

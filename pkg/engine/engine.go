package engine

import (
	"errors"

	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/diag"
	"github.com/chazu/kerf/pkg/drawing"
	"github.com/chazu/kerf/pkg/measure"
)

// Result is the outcome of measuring one drawing.
type Result struct {
	Source string
	// Epsilon is the endpoint tolerance the run used.
	Epsilon  float64
	Contours int
	Sets     []contour.ContourSet
	Parts    []measure.PartMeasurement
	Warnings []diag.Warning
}

// Measure runs the builder, classifier and aggregator over d. Warnings from
// the reader are carried into the result. When no part can be measured the
// result is nil and the error is an *EngineError with cause ErrNoContours;
// in strict mode any warning fails the drawing with cause ErrWarnings.
func Measure(d *drawing.Drawing, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, &EngineError{Cause: ErrUnreadable}
	}

	res := &Result{Source: d.Source}
	res.Warnings = append(res.Warnings, d.Warnings...)
	if len(d.Primitives) == 0 {
		return nil, &EngineError{File: d.Source, Cause: ErrNoContours, Warnings: res.Warnings}
	}

	res.Epsilon = contour.Epsilon(d.Bounds(), cfg.Tolerance, cfg.RelativeTolerance)

	contours, warnings := contour.Build(d.Primitives, cfg.buildOptions(res.Epsilon))
	res.Warnings = append(res.Warnings, warnings...)
	res.Contours = len(contours)

	sets, warnings := contour.Classify(contours, cfg.classifyOptions(res.Epsilon))
	res.Warnings = append(res.Warnings, warnings...)

	parts, warnings := measure.Aggregate(d.Source, sets)
	res.Warnings = append(res.Warnings, warnings...)

	if len(parts) == 0 {
		return nil, &EngineError{File: d.Source, Cause: ErrNoContours, Warnings: res.Warnings}
	}
	if cfg.Strict && len(res.Warnings) > 0 {
		return nil, &EngineError{File: d.Source, Cause: ErrWarnings, Warnings: res.Warnings, Parts: parts}
	}
	res.Sets = sets
	res.Parts = parts
	return res, nil
}

// MeasureSource reads src and measures it. Read failures come back as an
// *EngineError carrying the reader's warnings.
func MeasureSource(src drawing.Source, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d, err := drawing.Read(src, cfg.ReadOptions())
	if err != nil {
		ee := &EngineError{File: src.Name(), Cause: err}
		for _, cause := range []error{ErrEmptyDrawing, ErrUnreadable} {
			if errors.Is(err, cause) {
				ee.Cause = cause
			}
		}
		if d != nil {
			ee.Warnings = d.Warnings
		}
		return nil, ee
	}
	return Measure(d, cfg)
}

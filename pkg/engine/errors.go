package engine

import (
	"errors"
	"fmt"

	"github.com/chazu/kerf/pkg/diag"
	"github.com/chazu/kerf/pkg/drawing"
	"github.com/chazu/kerf/pkg/measure"
)

// Fatal causes carried by EngineError.
var (
	ErrEmptyDrawing = drawing.ErrEmptyDrawing
	ErrUnreadable   = drawing.ErrUnreadable
	ErrNoContours   = errors.New("no measurable contours")
	ErrWarnings     = errors.New("warnings raised in strict mode")
)

// EngineError is a per-file failure. It keeps the warnings that explain the
// failure and any parts that were measured before it.
type EngineError struct {
	File     string
	Cause    error
	Warnings []diag.Warning
	Parts    []measure.PartMeasurement
}

func (e *EngineError) Error() string {
	msg := fmt.Sprintf("engine: %s: %v", e.File, e.Cause)
	if n := len(e.Warnings); n > 0 {
		msg += fmt.Sprintf(" (%d warning(s), first: %v)", n, e.Warnings[0])
	}
	return msg
}

// Unwrap returns the cause followed by every warning, so errors.Is matches
// both ErrNoContours and the diag sentinels.
func (e *EngineError) Unwrap() []error {
	out := make([]error, 0, 1+len(e.Warnings))
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	for _, w := range e.Warnings {
		out = append(out, w)
	}
	return out
}

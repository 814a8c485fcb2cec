package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a recoverable geometry problem.
type Kind int

const (
	// MalformedGeometry: an entity could not be turned into a usable primitive.
	MalformedGeometry Kind = iota
	// OpenContour: primitives that do not close into a loop.
	OpenContour
	// InvalidGeometry: a loop that closes but cannot be measured.
	InvalidGeometry
)

// String returns the kind's name as used in logs and reports.
func (k Kind) String() string {
	switch k {
	case MalformedGeometry:
		return "malformed_geometry"
	case OpenContour:
		return "open_contour"
	case InvalidGeometry:
		return "invalid_geometry"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinel errors, one per Kind.
var (
	ErrMalformedGeometry = errors.New("malformed geometry")
	ErrOpenContour       = errors.New("open contour")
	ErrInvalidGeometry   = errors.New("invalid geometry")
)

// Err returns the sentinel error for the kind.
func (k Kind) Err() error {
	switch k {
	case MalformedGeometry:
		return ErrMalformedGeometry
	case OpenContour:
		return ErrOpenContour
	default:
		return ErrInvalidGeometry
	}
}

// Stage names the pipeline step that produced a warning.
type Stage string

const (
	StageRead     Stage = "read"
	StageBuild    Stage = "build"
	StageClassify Stage = "classify"
	StageMeasure  Stage = "measure"
)

// Warning is a non-fatal problem found while processing a drawing.
// Primitives holds indices into the slice the stage was given (entity
// indices for the reader, primitive indices for the builder, contour indices
// for the classifier).
type Warning struct {
	Kind       Kind
	Stage      Stage
	Message    string
	Primitives []int
}

// Newf builds a warning with a formatted message.
func Newf(kind Kind, stage Stage, indices []int, format string, args ...any) Warning {
	return Warning{
		Kind:       kind,
		Stage:      stage,
		Message:    fmt.Sprintf(format, args...),
		Primitives: indices,
	}
}

func (w Warning) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s: %s", w.Stage, w.Kind, w.Message)
	if len(w.Primitives) > 0 {
		fmt.Fprintf(&b, " (items: %v)", w.Primitives)
	}
	return b.String()
}

// Unwrap returns the sentinel error for the warning's kind.
func (w Warning) Unwrap() error { return w.Kind.Err() }

// Count tallies warnings by kind.
func Count(ws []Warning) map[Kind]int {
	out := make(map[Kind]int)
	for _, w := range ws {
		out[w.Kind]++
	}
	return out
}

// Package render defines the preview writer interface. Backends (svg, dxf)
// draw classified parts with their exact arcs behind this interface, so the
// batch command can swap formats without touching the measurement code.
package render

import (
	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/measure"
)

// Palette assigns distinct colors to parts.
var Palette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Part is one classified part ready to draw.
type Part struct {
	ID    string
	Set   contour.ContourSet
	Color string
}

// Renderer writes the parts of one drawing to a file.
type Renderer interface {
	// Ext returns the file extension the renderer writes, with the dot.
	Ext() string
	RenderFile(path string, parts []Part) error
}

// Parts pairs every contour set of source with its part ID and a palette
// color. IDs follow measure.PartID, so they match the measured parts.
func Parts(source string, sets []contour.ContourSet) []Part {
	parts := make([]Part, len(sets))
	for i, s := range sets {
		parts[i] = Part{
			ID:    measure.PartID(source, i+1),
			Set:   s,
			Color: Palette[i%len(Palette)],
		}
	}
	return parts
}

// Bounds returns the box around every part, or an empty box.
func Bounds(parts []Part) geom.Box {
	b := geom.EmptyBox()
	for _, p := range parts {
		b = geom.Union(b, p.Set.Bounds())
	}
	return b
}

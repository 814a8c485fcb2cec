package dxf

import (
	"strconv"
)

// Float returns the first value for code parsed as a float.
func (e Entity) Float(code int) (float64, bool) {
	for _, p := range e.Pairs {
		if p.Code == code {
			v, err := strconv.ParseFloat(p.Value, 64)
			return v, err == nil
		}
	}
	return 0, false
}

// FloatOr returns the value for code, or def when absent or unparseable.
func (e Entity) FloatOr(code int, def float64) float64 {
	if v, ok := e.Float(code); ok {
		return v
	}
	return def
}

// Int returns the first value for code parsed as an integer.
func (e Entity) Int(code int) (int, bool) {
	for _, p := range e.Pairs {
		if p.Code == code {
			v, err := strconv.Atoi(p.Value)
			return v, err == nil
		}
	}
	return 0, false
}

// IntOr returns the integer value for code, or def.
func (e Entity) IntOr(code int, def int) int {
	if v, ok := e.Int(code); ok {
		return v
	}
	return def
}

// Text returns the first raw value for code, or "".
func (e Entity) Text(code int) string {
	for _, p := range e.Pairs {
		if p.Code == code {
			return p.Value
		}
	}
	return ""
}

// Handle returns the entity handle (group 5).
func (e Entity) Handle() string { return e.Text(5) }

// Layer returns the entity layer name (group 8).
func (e Entity) Layer() string { return e.Text(8) }

// ExtrusionZ returns the Z component of the extrusion direction (group 230),
// defaulting to 1.
func (e Entity) ExtrusionZ() float64 { return e.FloatOr(230, 1) }

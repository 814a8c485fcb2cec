// Package geom defines the 2D drawing primitives measured by kerf.
// A primitive is a line segment, a circular arc or a full circle. Arcs carry
// an explicit direction flag; angles are radians normalized to [0, 2π).
package geom

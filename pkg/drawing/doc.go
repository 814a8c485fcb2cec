// Package drawing turns raw DXF entities into measurement primitives.
//
// Supported entities are LINE, ARC, CIRCLE, LWPOLYLINE, POLYLINE and SPLINE.
// Polyline bulges become exact arcs; splines are flattened into lines.
// Entities that cannot be read are skipped with a warning, so a drawing is
// only unreadable when nothing in it could be used.
package drawing

// Package contour joins primitives into closed loops and groups the loops
// into parts.
//
// Build matches primitive endpoints within a tolerance ε and walks them into
// closed Contours. Classify nests the contours by containment: a contour at
// even depth is the outer boundary of a part, a contour at odd depth is a
// hole in its parent. Neither step aborts on bad input; problems come back
// as diag.Warning values and the affected geometry is left out.
package contour

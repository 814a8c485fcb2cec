// Package pdf writes a report as a single PDF page: a scaled preview of
// every measured drawing with its parts outlined in the palette colors,
// followed by the priced table and its grand total. Arcs are drawn as
// Bézier curves, so previews keep their shape at any zoom.
package pdf

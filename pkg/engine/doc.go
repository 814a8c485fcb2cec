// Package engine runs the measurement pipeline for one drawing:
// primitives are joined into contours, contours are nested into parts, and
// every part is measured.
//
// A drawing never fails because of one bad primitive or contour; those
// become warnings on the Result. Measure only fails when nothing in the
// drawing could be measured, and then returns an *EngineError carrying the
// warnings that explain why.
package engine

// Package batch measures every drawing in a directory. Each file runs the
// read, build, classify and aggregate pipeline independently; files are
// processed in parallel by a bounded worker pool and a failure in one file
// never stops the others.
//
// Quantities come from the file name: "bracket_12.dxf" is 12 pieces of
// every part in bracket.dxf.
package batch

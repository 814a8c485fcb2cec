// Package dxf reads ASCII DXF files into raw group-code entities.
//
// Only the HEADER and ENTITIES sections are interpreted. Entities keep their
// group codes as read; turning them into geometry is left to the caller.
// POLYLINE entities collect their VERTEX children up to the closing SEQEND.
package dxf

package dxf

// Millimetres per drawing unit for $INSUNITS codes.
var insUnitsMM = map[int]float64{
	1:  25.4,    // inches
	2:  304.8,   // feet
	3:  1609344, // miles
	4:  1,       // millimetres
	5:  10,      // centimetres
	6:  1000,    // metres
	7:  1e6,     // kilometres
	8:  25.4e-6, // microinches
	9:  25.4e-3, // mils
	10: 914.4,   // yards
	11: 1e-7,    // angstroms
	12: 1e-6,    // nanometres
	13: 1e-3,    // microns
	14: 100,     // decimetres
	15: 10000,   // decametres
	16: 100000,  // hectometres
}

// UnitScale returns the factor that converts drawing units to millimetres for
// an $INSUNITS code. Unitless and unknown codes report ok == false.
func UnitScale(insunits int) (scale float64, ok bool) {
	scale, ok = insUnitsMM[insunits]
	return scale, ok
}

// Package diag defines the warning kinds shared by every measurement stage.
//
// A stage never aborts on a bad primitive or contour. It records a Warning
// and carries on; callers decide what a warning means for them. Each Warning
// unwraps to one of the sentinel errors so errors.Is works across stages.
package diag

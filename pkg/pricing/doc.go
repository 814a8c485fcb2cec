// Package pricing evaluates cost formulas for measured parts.
//
// Formulas are Lisp expressions run by zygomys in a fresh sandbox per
// evaluation, with the part's measurements bound as variables:
//
//	length-mm  length-m  area-mm2  area-m2  quantity
//	cost-per-meter  cost-per-square-meter
//
// Kebab-case names are rewritten to underscores before evaluation, and ;
// comments are accepted. The defaults reproduce the plain rates:
//
//	cutting:  (* length-m cost-per-meter quantity)
//	material: (* area-m2 cost-per-square-meter quantity)
package pricing

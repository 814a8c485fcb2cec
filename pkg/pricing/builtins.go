package pricing

import (
	"fmt"
	"math"

	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites a formula before passing it to zygomys:
//
//  1. Kebab-case to underscore: cost-per-meter -> cost_per_meter
//     zygomys reads a hyphen inside a symbol as subtraction, so hyphens
//     between identifier characters are converted outside strings and
//     comments.
//
//  2. ; line comments become // comments, the form zygomys accepts.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/8)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Only a hyphen between identifier characters is part of a name.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Value extraction
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	if s == nil {
		return 0, fmt.Errorf("expected number, got nothing")
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// numbers converts every argument with toFloat64.
func numbers(name string, args []zygo.Sexp) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return nil, fmt.Errorf("%s: argument %d: %w", name, i+1, err)
		}
		out[i] = f
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtins
// ---------------------------------------------------------------------------

// builtin is the signature zygomys expects for Go functions.
type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the numeric helpers formulas may use.
func registerBuiltins(env *zygo.Zlisp) {

	// (round-to x digits)
	env.AddFunction("round_to", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("round-to requires a value and a digit count")
		}
		n, err := numbers("round-to", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		p := math.Pow(10, math.Trunc(n[1]))
		return &zygo.SexpFloat{Val: math.Round(n[0]*p) / p}, nil
	})

	// (ceil x), (floor x)
	env.AddFunction("ceil", unary("ceil", math.Ceil))
	env.AddFunction("floor", unary("floor", math.Floor))

	// (max-of a b ...), (min-of a b ...)
	env.AddFunction("max_of", fold("max-of", math.Max))
	env.AddFunction("min_of", fold("min-of", math.Min))
}

func unary(label string, fn func(float64) float64) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("%s requires exactly one argument", label)
		}
		n, err := numbers(label, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: fn(n[0])}, nil
	}
}

func fold(label string, fn func(a, b float64) float64) builtin {
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("%s requires at least one argument", label)
		}
		n, err := numbers(label, args)
		if err != nil {
			return zygo.SexpNull, err
		}
		acc := n[0]
		for _, v := range n[1:] {
			acc = fn(acc, v)
		}
		return &zygo.SexpFloat{Val: acc}, nil
	}
}

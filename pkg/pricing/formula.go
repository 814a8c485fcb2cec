package pricing

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
)

// Formula is a named Lisp cost expression.
type Formula struct {
	Name   string
	Source string
}

// Default formulas.
var (
	DefaultCuttingFormula  = Formula{Name: "cutting", Source: "(* length-m cost-per-meter quantity)"}
	DefaultMaterialFormula = Formula{Name: "material", Source: "(* area-m2 cost-per-square-meter quantity)"}
)

// Vars are the values bound when a formula runs.
type Vars struct {
	LengthMM           float64
	AreaMM2            float64
	Quantity           int
	CostPerMeter       float64
	CostPerSquareMeter float64
}

// bindings returns the variables in binding order, underscore-named.
func (v Vars) bindings() [][2]string {
	return [][2]string{
		{"length_mm", lispFloat(v.LengthMM)},
		{"length_m", lispFloat(v.LengthMM / 1000)},
		{"area_mm2", lispFloat(v.AreaMM2)},
		{"area_m2", lispFloat(v.AreaMM2 / 1e6)},
		{"quantity", lispFloat(float64(v.Quantity))},
		{"cost_per_meter", lispFloat(v.CostPerMeter)},
		{"cost_per_square_meter", lispFloat(v.CostPerSquareMeter)},
	}
}

// lispFloat formats f so zygomys reads it back as a float, never an int.
func lispFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormulaError is a parse or runtime failure inside a formula.
type FormulaError struct {
	Formula string
	Line    int
	Message string
}

func (e *FormulaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("pricing: formula %q: line %d: %s", e.Formula, e.Line, e.Message)
	}
	return fmt.Sprintf("pricing: formula %q: %s", e.Formula, e.Message)
}

// DefaultTimeout is the hard limit for a single evaluation.
const DefaultTimeout = 2 * time.Second

// Evaluator runs formulas. It is safe for concurrent use; every call gets
// its own sandbox.
type Evaluator struct {
	Timeout time.Duration
}

// NewEvaluator returns an evaluator with the given timeout, or
// DefaultTimeout when timeout is not positive.
func NewEvaluator(timeout time.Duration) *Evaluator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Evaluator{Timeout: timeout}
}

// Evaluate runs f with vars bound and returns its numeric result.
//
// Return semantics:
//   - On success: the value and nil
//   - On parse/eval failure or a non-numeric result: *FormulaError
//   - On timeout, cancellation or panic: a plain error
func (e *Evaluator) Evaluate(ctx context.Context, f Formula, vars Vars) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("pricing: panic during evaluation of %q: %v", f.Name, r)}
			}
		}()
		v, err := evaluate(f, vars)
		ch <- evalResult{value: v, err: err}
	}()

	return waitWithTimeout(ctx, ch, e.Timeout)
}

// Check runs f once with every variable set to 1, so syntax errors and
// unknown names surface before any part is priced.
func (e *Evaluator) Check(f Formula) error {
	probe := Vars{LengthMM: 1, AreaMM2: 1, Quantity: 1, CostPerMeter: 1, CostPerSquareMeter: 1}
	_, err := e.Evaluate(context.Background(), f, probe)
	return err
}

// evaluate performs the zygomys evaluation in a fresh sandbox.
func evaluate(f Formula, vars Vars) (float64, error) {
	if strings.TrimSpace(f.Source) == "" {
		return 0, &FormulaError{Formula: f.Name, Message: "empty formula"}
	}

	// Sandbox mode keeps formulas away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env)

	// Bindings go on the first line so user line numbers are unchanged.
	var b strings.Builder
	for _, kv := range vars.bindings() {
		fmt.Fprintf(&b, "(def %s %s) ", kv[0], kv[1])
	}
	b.WriteString(preprocessSource(f.Source))

	if err := env.LoadString(b.String()); err != nil {
		return 0, parseZygomysError(f.Name, err)
	}
	out, err := env.Run()
	if err != nil {
		return 0, parseZygomysError(f.Name, err)
	}
	v, err := toFloat64(out)
	if err != nil {
		return 0, &FormulaError{Formula: f.Name, Message: "result is not a number: " + err.Error()}
	}
	return v, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into a FormulaError, keeping
// the line number when the message has one.
func parseZygomysError(name string, err error) *FormulaError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return &FormulaError{Formula: name, Line: line, Message: strings.TrimSpace(m[2])}
		}
	}
	return &FormulaError{Formula: name, Message: strings.TrimSpace(msg)}
}

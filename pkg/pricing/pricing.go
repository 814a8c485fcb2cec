package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/chazu/kerf/pkg/measure"
)

// Rates are the unit costs bound into every formula.
type Rates struct {
	CostPerMeter       float64
	CostPerSquareMeter float64
}

// Price is the cost of one part line: a part times its quantity.
type Price struct {
	PartID       string
	Quantity     int
	CuttingCost  float64
	MaterialCost float64
	Total        float64
}

// Pricer applies a cutting and a material formula to measured parts.
type Pricer struct {
	Rates    Rates
	Cutting  Formula
	Material Formula
	eval     *Evaluator
}

// NewPricer checks both formulas and returns a pricer. Empty formulas fall
// back to the defaults.
func NewPricer(rates Rates, cutting, material Formula, timeout time.Duration) (*Pricer, error) {
	if cutting.Source == "" {
		cutting = DefaultCuttingFormula
	}
	if material.Source == "" {
		material = DefaultMaterialFormula
	}
	p := &Pricer{Rates: rates, Cutting: cutting, Material: material, eval: NewEvaluator(timeout)}
	for _, f := range []Formula{cutting, material} {
		if err := p.eval.Check(f); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Price evaluates both formulas for part at the given quantity. Quantities
// below 1 are treated as 1.
func (p *Pricer) Price(ctx context.Context, part measure.PartMeasurement, quantity int) (Price, error) {
	if quantity < 1 {
		quantity = 1
	}
	vars := Vars{
		LengthMM:           part.CuttingLength,
		AreaMM2:            part.Area,
		Quantity:           quantity,
		CostPerMeter:       p.Rates.CostPerMeter,
		CostPerSquareMeter: p.Rates.CostPerSquareMeter,
	}
	cutting, err := p.eval.Evaluate(ctx, p.Cutting, vars)
	if err != nil {
		return Price{}, fmt.Errorf("pricing: part %s: %w", part.ID, err)
	}
	material, err := p.eval.Evaluate(ctx, p.Material, vars)
	if err != nil {
		return Price{}, fmt.Errorf("pricing: part %s: %w", part.ID, err)
	}
	return Price{
		PartID:       part.ID,
		Quantity:     quantity,
		CuttingCost:  cutting,
		MaterialCost: material,
		Total:        cutting + material,
	}, nil
}

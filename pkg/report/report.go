package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"

	"github.com/chazu/kerf/pkg/batch"
	"github.com/chazu/kerf/pkg/pricing"
)

// mm2PerM2 converts square millimetres to square metres.
const mm2PerM2 = 1e6

// Row is one measured part.
type Row struct {
	File         string  `json:"file"`
	PartID       string  `json:"part_id"`
	Quantity     int     `json:"quantity"`
	LengthMM     float64 `json:"length_mm"`
	AreaM2       float64 `json:"area_m2"`
	Width        float64 `json:"width_mm"`
	Height       float64 `json:"height_mm"`
	Holes        int     `json:"holes"`
	CuttingCost  float64 `json:"cutting_cost"`
	MaterialCost float64 `json:"material_cost"`
	Total        float64 `json:"total"`
}

// Issue is a diagnostic raised for a file.
type Issue struct {
	File       string `json:"file"`
	Kind       string `json:"kind"`
	Stage      string `json:"stage"`
	Message    string `json:"message"`
	Primitives []int  `json:"primitives,omitempty"`
}

// FileNote records a file that produced no rows and why.
type FileNote struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Report is the priced outcome of a batch.
type Report struct {
	RunID      string     `json:"run_id,omitempty"`
	Priced     bool       `json:"priced"`
	Rows       []Row      `json:"rows"`
	GrandTotal float64    `json:"grand_total"`
	Warnings   []Issue    `json:"warnings"`
	Skipped    []FileNote `json:"skipped"`
	Failed     []FileNote `json:"failed"`
}

// Build prices every part in files. With a nil pricer the rows carry
// measurements only. Parts of failed files are not priced.
func Build(ctx context.Context, runID string, files []batch.FileResult, p *pricing.Pricer) (*Report, error) {
	rep := &Report{
		RunID:    runID,
		Priced:   p != nil,
		Rows:     []Row{},
		Warnings: []Issue{},
		Skipped:  []FileNote{},
		Failed:   []FileNote{},
	}
	for _, f := range files {
		name := f.Name()
		for _, w := range f.Warnings {
			rep.Warnings = append(rep.Warnings, Issue{
				File:       name,
				Kind:       w.Kind.String(),
				Stage:      string(w.Stage),
				Message:    w.Message,
				Primitives: w.Primitives,
			})
		}
		switch {
		case f.Skipped != "":
			rep.Skipped = append(rep.Skipped, FileNote{File: name, Reason: f.Skipped})
			continue
		case f.Err != nil:
			rep.Failed = append(rep.Failed, FileNote{File: name, Reason: f.Err.Error()})
			continue
		}

		for _, part := range f.Parts {
			row := Row{
				File:     name,
				PartID:   part.ID,
				Quantity: max(f.Quantity, 1),
				LengthMM: part.CuttingLength,
				AreaM2:   part.Area / mm2PerM2,
				Width:    part.Width,
				Height:   part.Height,
				Holes:    part.HoleCount,
			}
			if p != nil {
				price, err := p.Price(ctx, part, row.Quantity)
				if err != nil {
					return nil, fmt.Errorf("report: %w", err)
				}
				row.CuttingCost = price.CuttingCost
				row.MaterialCost = price.MaterialCost
				row.Total = price.Total
			}
			rep.Rows = append(rep.Rows, row)
		}
	}
	rep.GrandTotal = lo.SumBy(rep.Rows, func(r Row) float64 { return r.Total })
	return rep, nil
}

// TotalLength returns the cutting length of every row times its quantity.
func (r *Report) TotalLength() float64 {
	return lo.SumBy(r.Rows, func(row Row) float64 { return row.LengthMM * float64(row.Quantity) })
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/chazu/kerf/pkg/batch"
	"github.com/chazu/kerf/pkg/metrics"
	"github.com/chazu/kerf/pkg/pricing"
	"github.com/chazu/kerf/pkg/render"
	rdxf "github.com/chazu/kerf/pkg/render/dxf"
	"github.com/chazu/kerf/pkg/render/svg"
	"github.com/chazu/kerf/pkg/report"
	reportpdf "github.com/chazu/kerf/pkg/report/pdf"
)

type reportFlags struct {
	costPerMeter       float64
	costPerSquareMeter float64
	cuttingFormula     string
	materialFormula    string
	svgDir             string
	dxfDir             string
	metricsFile        string
	pdfPath            string
	asJSON             bool
}

func newReportCmd(g *globals) *cobra.Command {
	p := g.env.Pricing()
	var rf reportFlags

	cmd := &cobra.Command{
		Use:   "report <dir>",
		Short: "Measure and price every drawing in a directory",
		Long: `Measures every .dxf file in a directory and prices each part.
The piece count comes from the file name: bracket_12.dxf is 12 pieces.

Cutting cost is length in metres x cost per metre x quantity; material cost
is net area in square metres x cost per square metre x quantity. Either
formula can be replaced with a Lisp expression over length-mm, length-m,
area-mm2, area-m2, quantity, cost-per-meter and cost-per-square-meter.

Drawings that fail are listed in the report and do not stop the batch.
With --pdf the previews and the priced table are also written as one PDF.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := g.logger()
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			defer func() { _ = log.Sync() }()

			p.Rates = pricing.Rates{CostPerMeter: rf.costPerMeter, CostPerSquareMeter: rf.costPerSquareMeter}
			p.Cutting.Source = rf.cuttingFormula
			p.Material.Source = rf.materialFormula
			pricer, err := p.NewPricer()
			if err != nil {
				return err
			}

			var m *metrics.Metrics
			if rf.metricsFile != "" {
				m = metrics.New()
			}
			runner := batch.NewRunner(g.batchOptions(), log, m)
			run, err := runner.RunDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			type preview struct {
				r   render.Renderer
				dir string
			}
			var previews []preview
			if rf.svgDir != "" {
				previews = append(previews, preview{svg.New(), rf.svgDir})
			}
			if rf.dxfDir != "" {
				previews = append(previews, preview{rdxf.New(), rf.dxfDir})
			}
			for _, pv := range previews {
				if err := writePreviews(run, pv.r, pv.dir); err != nil {
					log.Warn("preview failed", zap.String("run_id", run.ID), zap.Error(err))
				}
			}

			rep, err := report.Build(cmd.Context(), run.ID, run.Files, pricer)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if rf.asJSON {
				err = rep.WriteJSON(out)
			} else {
				_, err = fmt.Fprint(out, rep.Table())
			}
			if err != nil {
				return err
			}

			if rf.pdfPath != "" {
				if err := reportpdf.New().WriteFile(rf.pdfPath, rep, run.Files); err != nil {
					return err
				}
			}
			if err := m.WriteTextfile(rf.metricsFile); err != nil {
				return fmt.Errorf("metrics: %w", err)
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&rf.costPerMeter, "cost-per-meter", p.Rates.CostPerMeter, "cutting cost per metre of contour")
	fl.Float64Var(&rf.costPerSquareMeter, "cost-per-square-meter", p.Rates.CostPerSquareMeter, "material cost per square metre of net area")
	fl.StringVar(&rf.cuttingFormula, "cutting-formula", p.Cutting.Source, "Lisp expression for the cutting cost")
	fl.StringVar(&rf.materialFormula, "material-formula", p.Material.Source, "Lisp expression for the material cost")
	fl.StringVar(&rf.svgDir, "svg-dir", "", "write an SVG preview per drawing into this directory")
	fl.StringVar(&rf.dxfDir, "dxf-dir", "", "write the classified contours per drawing as DXF into this directory")
	fl.StringVar(&rf.pdfPath, "pdf", "", "write the previews and the priced table to this PDF file")
	fl.StringVar(&rf.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	fl.BoolVar(&rf.asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// writePreviews renders every measured drawing of run into dir.
func writePreviews(run *batch.Run, r render.Renderer, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var errs error
	for _, f := range run.Files {
		if len(f.Sets) == 0 {
			continue
		}
		name := f.Name()
		path := filepath.Join(dir, strings.TrimSuffix(name, filepath.Ext(name))+r.Ext())
		errs = multierr.Append(errs, r.RenderFile(path, render.Parts(name, f.Sets)))
	}
	return errs
}

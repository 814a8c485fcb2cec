package cmd

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chazu/kerf/internal/config"
	"github.com/chazu/kerf/internal/logging"
	"github.com/chazu/kerf/pkg/batch"
)

// Version is set at build time with -ldflags "-X".
var Version = "dev"

// globals are the persistent flags shared by every subcommand. Their
// defaults come from the KERF_* environment.
type globals struct {
	env *config.Config

	scale            float64
	tolerance        float64
	angularTolerance float64 // degrees
	strict           bool
	workers          int
	logLevel         string
	logFormat        string
	verbose          bool
}

// batchOptions merges the flags over the environment.
func (g *globals) batchOptions() batch.Options {
	opts := g.env.Batch()
	opts.Workers = g.workers
	opts.Engine.Scale = g.scale
	opts.Engine.Tolerance = g.tolerance
	opts.Engine.AngularTolerance = g.angularTolerance * math.Pi / 180
	opts.Engine.Strict = g.strict
	return opts
}

func (g *globals) logger() (*zap.Logger, error) {
	cfg := g.env.Logging()
	cfg.Level = g.logLevel
	cfg.Format = g.logFormat
	if g.verbose {
		cfg.Level = "debug"
	}
	return logging.New(cfg)
}

// NewRootCmd builds the kerf command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{env: config.Load()}
	defaults := g.env.Batch()

	root := &cobra.Command{
		Use:   "kerf",
		Short: "kerf - cut part measurement for DXF drawings",
		Long: `kerf reads 2D DXF drawings, assembles their lines, arcs, circles,
polylines and splines into closed contours, groups each outer boundary
with its holes and reports the cutting length and net area of every part.

Examples:
  kerf measure plate.dxf                          # Measure one drawing
  kerf measure --json a.dxf b_4.dxf               # JSON output
  kerf report ./parts --cost-per-meter 1.2 \
      --cost-per-square-meter 40 --svg-dir ./preview   # Priced batch report`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	f := root.PersistentFlags()
	f.Float64Var(&g.scale, "scale", defaults.Engine.Scale, "coordinate scale to millimetres (0 reads $INSUNITS)")
	f.Float64Var(&g.tolerance, "tolerance", defaults.Engine.Tolerance, "endpoint tolerance in mm (0 derives it from the drawing size)")
	f.Float64Var(&g.angularTolerance, "angular-tolerance", defaults.Engine.AngularTolerance*180/math.Pi, "arc flattening angle in degrees for containment tests")
	f.BoolVar(&g.strict, "strict", defaults.Engine.Strict, "fail a drawing when any warning is raised")
	f.IntVar(&g.workers, "workers", defaults.Workers, "drawings measured in parallel")
	f.StringVar(&g.logLevel, "log-level", g.env.Logging().Level, "log level (debug, info, warn, error)")
	f.StringVar(&g.logFormat, "log-format", g.env.Logging().Format, "log format (console or json)")
	f.BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newMeasureCmd(g), newReportCmd(g), newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the kerf version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "kerf", Version)
		},
	}
}

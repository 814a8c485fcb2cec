package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/diag"
	"github.com/chazu/kerf/pkg/dxf"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/measure"
	"github.com/chazu/kerf/pkg/metrics"
)

// SkipNoEntities is the reason recorded for drawings without entities.
const SkipNoEntities = "no entities"

// Options controls a batch run.
type Options struct {
	// Workers bounds the number of drawings measured at once. Values below
	// 1 use the number of CPUs.
	Workers int
	Engine  engine.Config
}

// DefaultOptions returns one worker per CPU and the default engine config.
func DefaultOptions() Options {
	return Options{Workers: runtime.NumCPU(), Engine: engine.DefaultConfig()}
}

// FileResult is the outcome of one drawing.
type FileResult struct {
	File     string
	Quantity int
	Parts    []measure.PartMeasurement
	Sets     []contour.ContourSet
	Warnings []diag.Warning
	// Skipped is set when the file was deliberately not measured.
	Skipped  string
	Err      error
	Duration time.Duration
}

// Name returns the file's base name.
func (fr FileResult) Name() string { return filepath.Base(fr.File) }

// Run is the outcome of a batch, one FileResult per drawing sorted by
// file name.
type Run struct {
	ID    string
	Files []FileResult
}

// Err combines the per-file failures, or returns nil when every file was
// measured or skipped.
func (r *Run) Err() error {
	var err error
	for _, f := range r.Files {
		if f.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", f.Name(), f.Err))
		}
	}
	return err
}

// Parts returns every measured part in file order.
func (r *Run) Parts() []measure.PartMeasurement {
	return lo.FlatMap(r.Files, func(f FileResult, _ int) []measure.PartMeasurement { return f.Parts })
}

// Runner measures drawings with a shared configuration.
type Runner struct {
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewRunner creates a Runner. A nil logger discards output and nil metrics
// record nothing.
func NewRunner(opts Options, logger *zap.Logger, m *metrics.Metrics) *Runner {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{opts: opts, logger: logger, metrics: m}
}

// RunDir measures every .dxf file directly inside dir.
func (r *Runner) RunDir(ctx context.Context, dir string) (*Run, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("batch: list %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsDrawing(e.Name()) {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return r.RunFiles(ctx, paths)
}

// RunFiles measures the given drawings. Cancelling ctx stops new files from
// being scheduled; those files carry the context error and RunFiles returns
// it alongside the partial run.
func (r *Runner) RunFiles(ctx context.Context, paths []string) (*Run, error) {
	paths = append([]string(nil), paths...)
	sort.Slice(paths, func(i, j int) bool {
		return filepath.Base(paths[i]) < filepath.Base(paths[j])
	})

	run := &Run{ID: uuid.NewString(), Files: make([]FileResult, len(paths))}
	log := r.logger.With(zap.String("run_id", run.ID))
	log.Info("batch started", zap.Int("files", len(paths)), zap.Int("workers", r.opts.Workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, p := range paths {
		if err := gctx.Err(); err != nil {
			run.Files[i] = FileResult{File: p, Quantity: QuantityFromFilename(p), Err: err}
			continue
		}
		g.Go(func() error {
			run.Files[i] = r.measure(log, p)
			return nil
		})
	}
	_ = g.Wait()

	failed := lo.CountBy(run.Files, func(f FileResult) bool { return f.Err != nil })
	log.Info("batch finished",
		zap.Int("files", len(run.Files)),
		zap.Int("parts", len(run.Parts())),
		zap.Int("failed", failed),
	)
	return run, ctx.Err()
}

// RunFile measures a single drawing.
func (r *Runner) RunFile(ctx context.Context, path string) FileResult {
	if err := ctx.Err(); err != nil {
		return FileResult{File: path, Quantity: QuantityFromFilename(path), Err: err}
	}
	return r.measure(r.logger, path)
}

func (r *Runner) measure(log *zap.Logger, path string) FileResult {
	start := time.Now()
	res := r.measureFile(path)
	res.Duration = time.Since(start)

	log = log.With(zap.String("file", res.Name()))
	for _, w := range res.Warnings {
		log.Warn(w.Message,
			zap.String("kind", w.Kind.String()),
			zap.String("stage", string(w.Stage)),
			zap.Ints("primitives", w.Primitives),
		)
	}

	status := metrics.StatusOK
	switch {
	case res.Skipped != "":
		status = metrics.StatusSkipped
		log.Info("skipped", zap.String("reason", res.Skipped))
	case res.Err != nil:
		status = metrics.StatusFailed
		log.Error("measurement failed", zap.Error(res.Err), zap.Int("warnings", len(res.Warnings)))
	default:
		log.Info("measured",
			zap.Int("parts", len(res.Parts)),
			zap.Int("quantity", res.Quantity),
			zap.Int("warnings", len(res.Warnings)),
			zap.Duration("took", res.Duration),
		)
	}
	length := lo.SumBy(res.Parts, func(p measure.PartMeasurement) float64 { return p.CuttingLength })
	r.metrics.ObserveFile(status, len(res.Parts), length, res.Warnings, res.Duration)
	return res
}

func (r *Runner) measureFile(path string) FileResult {
	res := FileResult{File: path, Quantity: QuantityFromFilename(path)}

	f, err := dxf.ParseFile(path)
	if err != nil {
		res.Err = err
		return res
	}
	if len(f.Entities()) == 0 {
		res.Skipped = SkipNoEntities
		return res
	}

	out, err := engine.MeasureSource(f, r.opts.Engine)
	if err != nil {
		var ee *engine.EngineError
		if errors.As(err, &ee) {
			if errors.Is(ee.Cause, engine.ErrEmptyDrawing) {
				res.Skipped = SkipNoEntities
				return res
			}
			res.Warnings = ee.Warnings
			res.Parts = ee.Parts
		}
		res.Err = err
		return res
	}
	res.Parts = out.Parts
	res.Sets = out.Sets
	res.Warnings = out.Warnings
	return res
}

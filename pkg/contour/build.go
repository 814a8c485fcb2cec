package contour

import (
	"math"
	"sort"

	"github.com/chazu/kerf/pkg/diag"
	"github.com/chazu/kerf/pkg/geom"
)

// BuildOptions controls how primitives are joined.
type BuildOptions struct {
	// Tolerance is the absolute endpoint matching distance ε. Zero derives
	// ε from RelativeTolerance and the drawing size.
	Tolerance         float64
	RelativeTolerance float64
	// MaxWalkSteps bounds the candidate steps tried while closing one loop,
	// backtracking included.
	MaxWalkSteps int
}

// DefaultBuildOptions returns the options used when none are configured.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		RelativeTolerance: DefaultRelativeTolerance,
		MaxWalkSteps:      100000,
	}
}

// maxCandidates is the most other primitives one endpoint may meet before
// the vertex is treated as ambiguous.
const maxCandidates = 2

// step is one primitive of a walk, possibly traversed backwards.
type step struct {
	k   int
	rev bool
}

// frame holds the ranked continuations of one walk position.
type frame struct {
	cands []step
	next  int
}

type builder struct {
	eps      float64
	maxSteps int
	prims    []geom.Primitive // canonical order and orientation
	src      []int            // canonical index -> input index
	grid     *grid
	consumed []bool
	open     []bool
	contours []Contour
	warnings []diag.Warning
}

// Build partitions prims into closed contours. The result does not depend on
// the order or orientation of prims. Primitives that cannot be closed are
// reported as OpenContour warnings, one per connected group; components with
// an ambiguous vertex and loops shorter than 3ε are reported as
// InvalidGeometry. Warning indices refer to prims.
func Build(prims []geom.Primitive, opts BuildOptions) ([]Contour, []diag.Warning) {
	if len(prims) == 0 {
		return nil, nil
	}
	if opts.MaxWalkSteps <= 0 {
		opts.MaxWalkSteps = DefaultBuildOptions().MaxWalkSteps
	}
	eps := Epsilon(PrimitiveBounds(prims), opts.Tolerance, opts.RelativeTolerance)

	b := &builder{
		eps:      eps,
		maxSteps: opts.MaxWalkSteps,
		grid:     newGrid(eps),
		consumed: make([]bool, len(prims)),
		open:     make([]bool, len(prims)),
	}
	b.canonicalize(prims)
	b.emitCircles()
	b.rejectAmbiguous()
	for k := range b.prims {
		if b.consumed[k] {
			continue
		}
		path, ok := b.walk(k)
		if !ok {
			b.consumed[k] = true
			b.open[k] = true
			continue
		}
		b.emit(path)
	}
	b.reportOpen()
	return b.contours, b.warnings
}

// canonicalize orients every line and arc to start at its lexicographically
// smaller end and sorts the primitives, so walks start from the same place
// whatever the input order.
func (b *builder) canonicalize(prims []geom.Primitive) {
	order := make([]int, len(prims))
	canon := make([]geom.Primitive, len(prims))
	for i, p := range prims {
		order[i] = i
		if !p.Closed() && geom.Less(p.EndPoint(), p.StartPoint()) {
			p = p.Reverse()
		}
		if p.Kind == geom.KindCircle {
			p.CCW = true
		}
		canon[i] = p
	}
	sort.SliceStable(order, func(i, j int) bool {
		return lessPrimitive(canon[order[i]], canon[order[j]])
	})

	b.prims = make([]geom.Primitive, len(prims))
	b.src = order
	for k, i := range order {
		b.prims[k] = canon[i]
		if !canon[i].Closed() {
			b.grid.add(k, 0, canon[i].StartPoint())
			b.grid.add(k, 1, canon[i].EndPoint())
		}
	}
}

func lessPrimitive(a, c geom.Primitive) bool {
	if a.Kind != c.Kind {
		return a.Kind < c.Kind
	}
	if as, cs := a.StartPoint(), c.StartPoint(); as != cs {
		return geom.Less(as, cs)
	}
	if ae, ce := a.EndPoint(), c.EndPoint(); ae != ce {
		return geom.Less(ae, ce)
	}
	if a.Center != c.Center {
		return geom.Less(a.Center, c.Center)
	}
	if a.Radius != c.Radius {
		return a.Radius < c.Radius
	}
	return !a.CCW && c.CCW
}

func (b *builder) emitCircles() {
	for k, p := range b.prims {
		if p.Closed() {
			b.emit([]step{{k: k}})
		}
	}
}

// rejectAmbiguous drops every connected component that has an endpoint
// meeting more than maxCandidates other primitives.
func (b *builder) rejectAmbiguous() {
	uf := newUnionFind(len(b.prims))
	ambiguous := make(map[int]geom.Vec)
	for k, p := range b.prims {
		if p.Closed() {
			continue
		}
		for _, at := range []geom.Vec{p.StartPoint(), p.EndPoint()} {
			others := make(map[int]bool)
			b.grid.near(at, func(ep endpoint) {
				if ep.prim != k {
					others[ep.prim] = true
					uf.union(k, ep.prim)
				}
			})
			if len(others) > maxCandidates {
				if _, seen := ambiguous[k]; !seen {
					ambiguous[k] = at
				}
			}
		}
	}
	if len(ambiguous) == 0 {
		return
	}

	// First ambiguous vertex per component, keyed by component root.
	roots := make(map[int]geom.Vec)
	for k := range b.prims {
		if at, ok := ambiguous[k]; ok {
			if _, seen := roots[uf.find(k)]; !seen {
				roots[uf.find(k)] = at
			}
		}
	}
	members := make(map[int][]int)
	var rootOrder []int
	for k, p := range b.prims {
		if p.Closed() {
			continue
		}
		r := uf.find(k)
		if _, bad := roots[r]; !bad {
			continue
		}
		if _, seen := members[r]; !seen {
			rootOrder = append(rootOrder, r)
		}
		members[r] = append(members[r], k)
		b.consumed[k] = true
	}
	for _, r := range rootOrder {
		at := roots[r]
		b.warnings = append(b.warnings, diag.Newf(diag.InvalidGeometry, diag.StageBuild,
			b.sources(members[r]),
			"ambiguous vertex near (%g, %g): more than %d primitives meet; %d primitives rejected",
			at.X, at.Y, maxCandidates+1, len(members[r])))
	}
}

// oriented returns the primitive for a walk step in travel direction.
func (b *builder) oriented(s step) geom.Primitive {
	if s.rev {
		return b.prims[s.k].Reverse()
	}
	return b.prims[s.k]
}

// candidates returns the unused primitives that continue from the end of s,
// best tangent continuation first.
func (b *builder) candidates(s step, inPath map[int]bool) []step {
	cur := b.oriented(s)
	end := cur.EndPoint()
	exit := cur.EndTangent()

	best := make(map[int]step)
	dist := make(map[int]float64)
	b.grid.near(end, func(ep endpoint) {
		if b.consumed[ep.prim] || inPath[ep.prim] {
			return
		}
		d := geom.Dist(ep.p, end)
		if old, ok := dist[ep.prim]; ok && old <= d {
			return
		}
		dist[ep.prim] = d
		best[ep.prim] = step{k: ep.prim, rev: ep.end == 1}
	})

	out := make([]step, 0, len(best))
	turn := make(map[int]float64, len(best))
	for k, c := range best {
		entry := b.oriented(c).StartTangent()
		turn[k] = math.Abs(math.Atan2(geom.Cross(exit, entry), geom.Dot(exit, entry)))
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		ti, tj := turn[out[i].k], turn[out[j].k]
		if ti != tj {
			return ti < tj
		}
		return out[i].k < out[j].k
	})
	return out
}

// walk searches for a closed loop that starts with primitive start in its
// canonical orientation. Dead ends backtrack to the next-best candidate
// until the step budget runs out.
func (b *builder) walk(start int) ([]step, bool) {
	origin := b.prims[start].StartPoint()
	path := []step{{k: start}}
	inPath := map[int]bool{start: true}
	var frames []frame

	for steps := 0; ; steps++ {
		last := path[len(path)-1]
		if geom.Dist(b.oriented(last).EndPoint(), origin) <= b.eps {
			return path, true
		}
		if steps >= b.maxSteps {
			return nil, false
		}
		if len(frames) < len(path) {
			frames = append(frames, frame{cands: b.candidates(last, inPath)})
		}
		f := &frames[len(frames)-1]
		if f.next < len(f.cands) {
			c := f.cands[f.next]
			f.next++
			path = append(path, c)
			inPath[c.k] = true
			continue
		}
		frames = frames[:len(frames)-1]
		path = path[:len(path)-1]
		delete(inPath, last.k)
		if len(path) == 0 {
			return nil, false
		}
	}
}

// emit records a closed walk as a contour, or rejects it when it is shorter
// than 3ε.
func (b *builder) emit(path []step) {
	c := Contour{
		Primitives: make([]geom.Primitive, len(path)),
		Source:     make([]int, len(path)),
	}
	ks := make([]int, len(path))
	for i, s := range path {
		c.Primitives[i] = b.oriented(s)
		c.Source[i] = b.src[s.k]
		ks[i] = s.k
		b.consumed[s.k] = true
	}
	if l := c.Length(); l < 3*b.eps {
		b.warnings = append(b.warnings, diag.Newf(diag.InvalidGeometry, diag.StageBuild,
			b.sources(ks), "closed loop of length %g is shorter than 3ε (ε = %g)", l, b.eps))
		return
	}
	b.contours = append(b.contours, c)
}

// reportOpen groups the primitives that could not be closed by connectivity
// and warns once per group.
func (b *builder) reportOpen() {
	uf := newUnionFind(len(b.prims))
	for k, p := range b.prims {
		if !b.open[k] {
			continue
		}
		for _, at := range []geom.Vec{p.StartPoint(), p.EndPoint()} {
			b.grid.near(at, func(ep endpoint) {
				if b.open[ep.prim] {
					uf.union(k, ep.prim)
				}
			})
		}
	}
	groups := make(map[int][]int)
	var order []int
	for k := range b.prims {
		if !b.open[k] {
			continue
		}
		r := uf.find(k)
		if _, seen := groups[r]; !seen {
			order = append(order, r)
		}
		groups[r] = append(groups[r], k)
	}
	for _, r := range order {
		ks := groups[r]
		var length float64
		for _, k := range ks {
			length += b.prims[k].Length()
		}
		at := b.prims[ks[0]].StartPoint()
		b.warnings = append(b.warnings, diag.Newf(diag.OpenContour, diag.StageBuild,
			b.sources(ks), "%d primitive(s) of total length %g near (%g, %g) do not close",
			len(ks), length, at.X, at.Y))
	}
}

// sources maps canonical indices to sorted input indices.
func (b *builder) sources(ks []int) []int {
	out := make([]int, len(ks))
	for i, k := range ks {
		out[i] = b.src[k]
	}
	sort.Ints(out)
	return out
}

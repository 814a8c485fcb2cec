package contour

import (
	"math"
	"sort"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/dhconnelly/rtreego"

	"github.com/chazu/kerf/pkg/diag"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/tessellate"
)

// ClassifyOptions controls contour nesting.
type ClassifyOptions struct {
	// Tolerance is ε; boundary points closer than ε to another contour's
	// edges are not used to decide containment. Zero derives ε from
	// RelativeTolerance and the extent of all contours.
	Tolerance         float64
	RelativeTolerance float64
	// AngularTolerance is the largest angle one chord spans when arcs are
	// flattened for the containment test.
	AngularTolerance float64
}

// DefaultClassifyOptions returns the options used when none are configured.
func DefaultClassifyOptions() ClassifyOptions {
	return ClassifyOptions{
		RelativeTolerance: DefaultRelativeTolerance,
		AngularTolerance:  tessellate.DefaultAngularTolerance,
	}
}

// relation is how one contour lies with respect to a larger one.
type relation int

const (
	outside relation = iota
	inside
	crossing
)

// item is a contour prepared for the containment test.
type item struct {
	idx  int
	c    Contour
	poly tessellate.Polygon
	dist sdf.SDF2
	box  geom.Box
	area float64
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (it *item) Bounds() rtreego.Rect { return it.rect }

var _ rtreego.Spatial = (*item)(nil)

// Classify groups contours into parts. Nesting depth decides the role of a
// contour: even depth starts a new ContourSet, odd depth is a hole of its
// immediate parent. Self-intersecting, degenerate and mutually crossing
// contours are excluded with InvalidGeometry warnings whose indices refer
// to contours. Sets come out ordered by the lower-left corner of their
// bounding box, then by area.
func Classify(contours []Contour, opts ClassifyOptions) ([]ContourSet, []diag.Warning) {
	if len(contours) == 0 {
		return nil, nil
	}
	if opts.AngularTolerance <= 0 {
		opts.AngularTolerance = tessellate.DefaultAngularTolerance
	}
	all := geom.EmptyBox()
	for _, c := range contours {
		all = geom.Union(all, c.Bounds())
	}
	eps := Epsilon(all, opts.Tolerance, opts.RelativeTolerance)

	var warnings []diag.Warning
	invalid := func(idx []int, format string, args ...any) {
		warnings = append(warnings, diag.Newf(diag.InvalidGeometry, diag.StageClassify, idx, format, args...))
	}

	items := make([]*item, 0, len(contours))
	for i, c := range contours {
		it, reason := prepare(i, c, eps, opts.AngularTolerance)
		if reason != "" {
			invalid([]int{i}, "contour %d %s", i, reason)
			continue
		}
		items = append(items, it)
	}

	tree := rtreego.NewTree(2, 25, 50)
	for _, it := range items {
		tree.Insert(it)
	}

	// containers[a] lists the items that contain item a.
	containers := make(map[*item][]*item)
	excluded := make(map[*item]bool)
	for _, a := range items {
		for _, s := range tree.SearchIntersect(a.rect) {
			b := s.(*item)
			if b == a || !smaller(a, b) {
				continue
			}
			switch relate(a, b, eps) {
			case inside:
				containers[a] = append(containers[a], b)
			case crossing:
				excluded[a], excluded[b] = true, true
				lo, hi := a.idx, b.idx
				if lo > hi {
					lo, hi = hi, lo
				}
				invalid([]int{lo, hi}, "contours %d and %d cross or overlap", lo, hi)
			}
		}
	}

	// Immediate parent: the smallest container still in play.
	parent := make(map[*item]*item)
	var kept []*item
	for _, a := range items {
		if excluded[a] {
			continue
		}
		kept = append(kept, a)
		var best *item
		for _, b := range containers[a] {
			if excluded[b] {
				continue
			}
			if best == nil || smaller(b, best) {
				best = b
			}
		}
		if best != nil {
			parent[a] = best
		}
	}

	depth := nestingDepth(kept, parent)

	sort.Slice(kept, func(i, j int) bool { return lessItem(kept[i], kept[j]) })
	setOf := make(map[*item]int)
	var sets []ContourSet
	for _, it := range kept {
		if depth[it]%2 == 0 {
			setOf[it] = len(sets)
			sets = append(sets, ContourSet{Outer: it.c})
		}
	}
	for _, it := range kept {
		if depth[it]%2 == 1 {
			s := setOf[parent[it]]
			sets[s].Holes = append(sets[s].Holes, it.c)
		}
	}
	return sets, warnings
}

// prepare flattens a contour and rejects it when the flattened ring is
// self-intersecting or encloses no area.
func prepare(i int, c Contour, eps, angularTol float64) (*item, string) {
	poly := tessellate.Flatten(c.Primitives, angularTol)
	if len(poly) < 3 {
		return nil, "has fewer than 3 vertices after flattening"
	}
	if poly.SelfIntersects() {
		return nil, "is self-intersecting"
	}
	area := c.Area()
	if area <= eps*c.Length() {
		return nil, "encloses no area"
	}
	dist, err := sdf.Polygon2D([]v2.Vec(poly))
	if err != nil {
		return nil, "cannot be evaluated: " + err.Error()
	}
	box := c.Bounds()
	rect, _ := rtreego.NewRectFromPoints(
		rtreego.Point{box.Min.X - eps, box.Min.Y - eps},
		rtreego.Point{box.Max.X + eps, box.Max.Y + eps},
	)
	return &item{idx: i, c: c, poly: poly, dist: dist, box: box, area: area, rect: rect}, ""
}

// smaller orders items by area, then by index.
func smaller(a, b *item) bool {
	if a.area != b.area {
		return a.area < b.area
	}
	return a.idx < b.idx
}

// relate decides whether the smaller contour a lies inside b. Every vertex
// of a farther than ε from b's edges votes by its winding number in b;
// agreement decides, disagreement or a proper edge crossing means the
// contours overlap.
func relate(a, b *item, eps float64) relation {
	if tessellate.Crosses(a.poly, b.poly) {
		return crossing
	}
	if !geom.ContainsBox(b.box, a.box, eps) {
		return outside
	}
	in, out := 0, 0
	for _, v := range a.poly {
		if math.Abs(b.dist.Evaluate(v)) <= eps {
			continue
		}
		if b.poly.Winding(v) != 0 {
			in++
		} else {
			out++
		}
	}
	switch {
	case in > 0 && out > 0:
		return crossing
	case in == 0 && out == 0:
		// Every vertex lies on b: coincident contours.
		return crossing
	case in > 0 && a.area < b.area:
		return inside
	case in > 0:
		return crossing
	default:
		return outside
	}
}

// nestingDepth follows parent links iteratively; roots have depth 0.
func nestingDepth(items []*item, parent map[*item]*item) map[*item]int {
	depth := make(map[*item]int, len(items))
	for _, it := range items {
		var chain []*item
		cur := it
		d := 0
		for cur != nil {
			if known, ok := depth[cur]; ok {
				d = known + 1
				break
			}
			chain = append(chain, cur)
			cur = parent[cur]
		}
		// chain runs from it up to the first node of known depth (or the root).
		for k := len(chain) - 1; k >= 0; k-- {
			depth[chain[k]] = d
			d++
		}
	}
	return depth
}

// lessItem is the canonical output order: lower-left corner, then area.
func lessItem(a, b *item) bool {
	if a.box.Min.X != b.box.Min.X {
		return a.box.Min.X < b.box.Min.X
	}
	if a.box.Min.Y != b.box.Min.Y {
		return a.box.Min.Y < b.box.Min.Y
	}
	if a.area != b.area {
		return a.area < b.area
	}
	return a.idx < b.idx
}

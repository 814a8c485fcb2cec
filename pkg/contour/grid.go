package contour

import (
	"math"

	"github.com/chazu/kerf/pkg/geom"
)

// endpoint is one end of a primitive: end 0 is the start, end 1 the end.
type endpoint struct {
	prim int
	end  int
	p    geom.Vec
}

type cell struct{ x, y int64 }

// grid is a spatial hash of endpoints in ε-sized cells. Two points within ε
// of each other are always in the same or neighbouring cells.
type grid struct {
	eps   float64
	cells map[cell][]int
	pts   []endpoint
}

func newGrid(eps float64) *grid {
	return &grid{eps: eps, cells: make(map[cell][]int)}
}

// cellCoord clamps so huge coordinates over a tiny ε cannot overflow.
func (g *grid) cellCoord(v float64) int64 {
	const limit = 1 << 52
	c := math.Floor(v / g.eps)
	return int64(math.Max(-limit, math.Min(limit, c)))
}

func (g *grid) cellOf(p geom.Vec) cell {
	return cell{g.cellCoord(p.X), g.cellCoord(p.Y)}
}

func (g *grid) add(prim, end int, p geom.Vec) {
	c := g.cellOf(p)
	g.cells[c] = append(g.cells[c], len(g.pts))
	g.pts = append(g.pts, endpoint{prim: prim, end: end, p: p})
}

// near calls fn for every endpoint within ε of p, scanning the 3×3 block of
// cells around it.
func (g *grid) near(p geom.Vec, fn func(endpoint)) {
	c := g.cellOf(p)
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, i := range g.cells[cell{c.x + dx, c.y + dy}] {
				if geom.Dist(g.pts[i].p, p) <= g.eps {
					fn(g.pts[i])
				}
			}
		}
	}
}

// unionFind groups primitive indices into connected components.
type unionFind struct{ parent []int }

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if ra < rb {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}

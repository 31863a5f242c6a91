// Package router implements spec.md's EdgeRouter (§4.3): turning each [layout.EdgeRef] into a
// polyline of character-cell waypoints, either by following its dummy-node chain directly
// (orthogonal-waypoint mode) or by searching the character grid with A* for a path that avoids
// node interiors and prefers unoccupied cells (A* mode).
package router

import (
	"container/heap"

	"github.com/asciigraph/mmdgrid/internal/layout"
)

// Mode selects how edges are routed.
type Mode int

const (
	// Orthogonal follows each edge's dummy-node chain directly: fast, and always succeeds.
	Orthogonal Mode = iota
	// AStar searches the character grid for a path, falling back to Orthogonal per edge when the
	// search is exhausted (spec.md §7's RoutingFallback, which is silent and non-error).
	AStar
)

// RoutedEdge is one edge's final waypoint polyline, in painting order: From's exit stub, any
// interior turns, To's entry stub.
type RoutedEdge struct {
	From, To     string
	Edge         layout.EdgeRef
	Waypoints    []layout.Point
	UsedFallback bool
}

// Route computes waypoints for every edge in res, against a grid sized to (res.Width+2) x
// (res.Height+2). logFallback receives a debug record each time an edge falls back from A* to the
// orthogonal-waypoint mode.
func Route(res *layout.Result, mode Mode, logFallback func(from, to string)) []RoutedEdge {
	byID := make(map[string]layout.Node, len(res.Nodes))
	for _, n := range res.Nodes {
		byID[n.ID] = n
	}
	g := newGrid(res)

	routed := make([]RoutedEdge, 0, len(res.Edges))
	for _, e := range res.Edges {
		if e.From == e.To {
			wp := selfLoopWaypoints(byID[e.From])
			routed = append(routed, RoutedEdge{From: e.From, To: e.To, Edge: e, Waypoints: wp})
			g.markOccupied(wp)
			continue
		}

		from, to := stubPoints(byID, e)

		var wp []layout.Point
		fallback := false
		if mode == AStar {
			wp, fallback = g.aStar(from, to)
		}
		if mode == Orthogonal || fallback {
			if fallback && logFallback != nil {
				logFallback(e.From, e.To)
			}
			wp = orthogonalWaypoints(from, to, e.DummyChain)
		}

		routed = append(routed, RoutedEdge{From: e.From, To: e.To, Edge: e, Waypoints: wp, UsedFallback: fallback})
		g.markOccupied(wp)
	}
	return routed
}

// selfLoopWaypoints routes a From == To edge (spec.md §8: "routing emits a loop on the right side
// one cell wide"). The path departs the right border one row above center, runs one cell outside
// the box down to one row below center, then returns to the right border: a loop whose outward
// excursion is exactly one column wide, landing back on the border so the arrowhead (painted by
// the renderer at the final waypoint) points left, back into the box.
func selfLoopWaypoints(n layout.Node) []layout.Point {
	top := n.Y + n.Height/2 - 1
	bot := n.Y + n.Height/2 + 1
	if top < n.Y {
		top = n.Y
	}
	if bot > n.Y+n.Height-1 {
		bot = n.Y + n.Height - 1
	}
	out := n.X + n.Width
	border := n.X + n.Width - 1
	return []layout.Point{
		{X: out, Y: top},
		{X: out, Y: bot},
		{X: border, Y: bot},
	}
}

// stubPoints picks the exit cell just outside e.From's box and the entry cell just outside
// e.To's box, per
// spec.md §4.3's stub-side selection rule: the side facing the direction of travel.
func stubPoints(byID map[string]layout.Node, e layout.EdgeRef) (layout.Point, layout.Point) {
	fromNode, toNode := byID[e.From], byID[e.To]
	fromCenter := layout.Point{X: fromNode.X + fromNode.Width/2, Y: fromNode.Y + fromNode.Height/2}
	toCenter := layout.Point{X: toNode.X + toNode.Width/2, Y: toNode.Y + toNode.Height/2}

	fromTarget, toTarget := toCenter, fromCenter
	if len(e.DummyChain) > 0 {
		fromTarget = e.DummyChain[0]
		toTarget = e.DummyChain[len(e.DummyChain)-1]
	}

	return exitPoint(fromNode, fromCenter, fromTarget), exitPoint(toNode, toCenter, toTarget)
}

// orthogonalWaypoints builds a path straight from the edge's stub attach points through its
// dummy chain (already laid out on a straight or single-bend path by Sugiyama) to the target's
// stub attach point.
func orthogonalWaypoints(from, to layout.Point, chain []layout.Point) []layout.Point {
	points := make([]layout.Point, 0, len(chain)+2)
	points = append(points, from)
	points = append(points, chain...)
	points = append(points, to)
	return points
}

// exitPoint picks the cell just outside node n's border, on the side facing toward target, per
// spec.md §4.3's stub-side selection rule: the side facing the direction of travel.
func exitPoint(n layout.Node, center, target layout.Point) layout.Point {
	dx, dy := target.X-center.X, target.Y-center.Y
	switch {
	case abs(dy) >= abs(dx) && dy >= 0:
		return layout.Point{X: center.X, Y: n.Y + n.Height}
	case abs(dy) >= abs(dx) && dy < 0:
		return layout.Point{X: center.X, Y: n.Y - 1}
	case dx >= 0:
		return layout.Point{X: n.X + n.Width, Y: center.Y}
	default:
		return layout.Point{X: n.X - 1, Y: center.Y}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// --- A* mode ---

type cellKind int

const (
	free cellKind = iota
	interior
	occupied
)

type grid struct {
	width, height int
	cells         [][]cellKind
}

func newGrid(res *layout.Result) *grid {
	w, h := res.Width+2, res.Height+2
	cells := make([][]cellKind, h)
	for y := range cells {
		cells[y] = make([]cellKind, w)
	}
	g := &grid{width: w, height: h, cells: cells}
	for _, n := range res.Nodes {
		for y := n.Y + 1; y < n.Y+n.Height-1; y++ {
			for x := n.X + 1; x < n.X+n.Width-1; x++ {
				g.set(x, y, interior)
			}
		}
	}
	return g
}

func (g *grid) set(x, y int, k cellKind) {
	if y < 0 || y >= g.height || x < 0 || x >= g.width {
		return
	}
	g.cells[y][x] = k
}

func (g *grid) get(x, y int) cellKind {
	if y < 0 || y >= g.height || x < 0 || x >= g.width {
		return interior
	}
	return g.cells[y][x]
}

func (g *grid) markOccupied(points []layout.Point) {
	for _, p := range points {
		if g.get(p.X, p.Y) == free {
			g.set(p.X, p.Y, occupied)
		}
	}
}

// direction indices: 0=up, 1=right, 2=down, 3=left, matching the 4-connected lattice spec.md
// §4.3 describes.
var deltas = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

type aStarNode struct {
	x, y, dir int
	g         int
	f         int
	parent    *aStarNode
}

type openQueue []*aStarNode

func (q openQueue) Len() int { return len(q) }
func (q openQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	// deterministic tie-break: prefer continuation (same direction as the parent step), then
	// lower y, then lower x
	ci := q[i].parent != nil && q[i].parent.dir == q[i].dir
	cj := q[j].parent != nil && q[j].parent.dir == q[j].dir
	if ci != cj {
		return ci
	}
	if q[i].y != q[j].y {
		return q[i].y < q[j].y
	}
	return q[i].x < q[j].x
}
func (q openQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *openQueue) Push(x any)        { *q = append(*q, x.(*aStarNode)) }
func (q *openQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// aStar searches g for a path from start to goal. Returns (nil, true) when the search is
// exhausted without reaching the target, signaling the caller to fall back.
func (g *grid) aStar(start, goal layout.Point) ([]layout.Point, bool) {
	open := &openQueue{}
	heap.Init(open)
	heap.Push(open, &aStarNode{x: start.X, y: start.Y, dir: -1, g: 0, f: heuristic(start, goal)})

	best := make(map[[3]int]int) // (x, y, dir) -> best g seen
	var goalNode *aStarNode

	const maxExpansions = 100000
	expansions := 0
	for open.Len() > 0 && expansions < maxExpansions {
		expansions++
		cur := heap.Pop(open).(*aStarNode)
		if cur.x == goal.X && cur.y == goal.Y {
			goalNode = cur
			break
		}
		key := [3]int{cur.x, cur.y, cur.dir}
		if b, ok := best[key]; ok && b < cur.g {
			continue
		}

		for d := 0; d < 4; d++ {
			nx, ny := cur.x+deltas[d][0], cur.y+deltas[d][1]
			kind := g.get(nx, ny)
			if kind == interior && !(nx == goal.X && ny == goal.Y) {
				continue
			}
			cost := 1
			if cur.dir != -1 && cur.dir != d {
				cost = 2
			}
			if kind == occupied {
				cost += 3
			}
			ng := cur.g + cost
			nkey := [3]int{nx, ny, d}
			if b, ok := best[nkey]; ok && b <= ng {
				continue
			}
			best[nkey] = ng
			heap.Push(open, &aStarNode{
				x: nx, y: ny, dir: d, g: ng,
				f:      ng + heuristic(layout.Point{X: nx, Y: ny}, goal),
				parent: cur,
			})
		}
	}

	if goalNode == nil {
		return nil, true
	}

	var rev []layout.Point
	for n := goalNode; n != nil; n = n.parent {
		rev = append(rev, layout.Point{X: n.x, Y: n.y})
	}
	points := make([]layout.Point, len(rev))
	for i, p := range rev {
		points[len(rev)-1-i] = p
	}
	return points, false
}

func heuristic(a, b layout.Point) int {
	return abs(b.X-a.X) + abs(b.Y-a.Y)
}

// Package layout implements spec.md's Sugiyama method (§4.2): the eight-phase pipeline that
// turns a [graphir.Graph] into a [Result] of positioned boxes and orthogonal-waypoint-ready
// edges (waypoints for routing are filled in later, by the router).
//
// Every phase is a deterministic function of its input, per spec.md §5: no random numbers, no
// map-range iteration where order matters, stable sorts with explicit tie-breaks throughout.
package layout

import (
	"sort"
	"strconv"
	"strings"

	"github.com/asciigraph/mmdgrid/ast"
	"github.com/asciigraph/mmdgrid/internal/assert"
	"github.com/asciigraph/mmdgrid/internal/graphir"
)

// crossingMinPasses is the fixed number of barycenter sweeps, per spec.md §4.2 phase 5: no early
// termination, bounded wall time.
const crossingMinPasses = 24

const (
	siblingGap = 3 // cells between siblings, and between TD/BT layers
	layerGapLR = 5 // cells between LR/RL layers, to leave room for horizontal arrowheads/labels
	subgraphInset = 2 // cells of border+label inset on every side of an expanded compound
)

// Node is a positioned box in the layout, one per real or compound node after expansion. Dummy
// nodes are consumed during routing and never appear here.
type Node struct {
	ID            string
	Layer, Order  int
	X, Y          int
	Width, Height int
	Label         string
	Shape         ast.Shape
}

// EdgeRef is one original edge (reconstructed through its dummy chain, if any), ready for the
// router to turn into a [RoutedEdge]-shaped polyline.
type EdgeRef struct {
	From, To   string // original endpoints, before decycling
	Type       ast.EdgeType
	Label      string
	HasLabel   bool
	Reversed   bool    // true when decycling flipped this edge's storage direction
	DummyChain []Point // the (x, y) of each intermediate dummy node, From -> ... -> To
}

// Point is a character-cell coordinate.
type Point struct{ X, Y int }

// SubgraphBox is a compound node's painted border rectangle, one per expanded subgraph.
type SubgraphBox struct {
	ID            string
	Label         string
	X, Y          int
	Width, Height int
}

// Result is the Sugiyama+expansion output: spec.md's pre-routing LayoutResult.
type Result struct {
	Nodes     []Node
	Edges     []EdgeRef
	Subgraphs []SubgraphBox
	Direction ast.Direction
	Width     int
	Height    int
}

// Config carries the layout-affecting subset of RenderConfig.
type Config struct {
	Padding int // non-negative; spec.md default is 1
}

// Layout runs the Sugiyama pipeline over ir and returns the positioned [Result]. direction is the
// effective top-level direction, already resolved from any config override.
func Layout(ir *graphir.Graph, direction ast.Direction, cfg Config) *Result {
	l := &layouter{
		ir:              ir,
		cfg:             cfg,
		compoundMembers: make(map[string][]string),
		compoundDir:     make(map[string]ast.Direction),
		compoundTrial:   make(map[string]*Result),
	}
	top := l.collapseSubgraphs() // phase 1, topology only
	res := l.layoutScope(top, direction)
	fitBounds(res)
	return res
}

func fitBounds(res *Result) {
	maxX, maxY := 0, 0
	for _, n := range res.Nodes {
		if n.X+n.Width > maxX {
			maxX = n.X + n.Width
		}
		if n.Y+n.Height > maxY {
			maxY = n.Y + n.Height
		}
	}
	for _, s := range res.Subgraphs {
		if s.X+s.Width > maxX {
			maxX = s.X + s.Width
		}
		if s.Y+s.Height > maxY {
			maxY = s.Y + s.Height
		}
	}
	res.Width, res.Height = maxX, maxY
}

type layouter struct {
	ir  *graphir.Graph
	cfg Config

	compoundMembers map[string][]string      // compound node id -> original member ids (phase 1)
	compoundDir     map[string]ast.Direction // compound node id -> its direction, if overridden
	compoundTrial   map[string]*Result       // compound node id -> its already-computed sub-layout
}

// --- scope: the node/edge set one invocation of phases 2-6 operates over ---

type scope struct {
	nodes []string
	edges []*graphir.Edge // both endpoints always members of nodes, for the scope's lifetime

	// selfLoops holds edges with From == To. They carry no layering constraint (spec.md §8's
	// "loop on the right side" boundary behavior) and are excluded from edges so that
	// assignLayers, insertDummies, and minimizeCrossings never see them: a self-loop would
	// otherwise force layer[id] < layer[id]+1 forever in assignLayers' fixed-point loop.
	selfLoops []*graphir.Edge
}

func newScope(ir *graphir.Graph, nodes []string) *scope {
	set := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		set[n] = true
	}
	var edges, selfLoops []*graphir.Edge
	seen := make(map[*graphir.Edge]bool)
	for _, n := range nodes {
		for _, e := range ir.Successors(n) {
			if !set[e.To] || seen[e] {
				continue
			}
			seen[e] = true
			if e.From == e.To {
				selfLoops = append(selfLoops, e)
			} else {
				edges = append(edges, e)
			}
		}
	}
	return &scope{nodes: nodes, edges: edges, selfLoops: selfLoops}
}

func (s *scope) outEdges(id string) []*graphir.Edge {
	var out []*graphir.Edge
	for _, e := range s.edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}

func (s *scope) inEdges(id string) []*graphir.Edge {
	var out []*graphir.Edge
	for _, e := range s.edges {
		if e.To == id {
			out = append(out, e)
		}
	}
	return out
}

// --- phase 1: collapse subgraphs ---

func (l *layouter) collapseSubgraphs() []string {
	collapsedAway := make(map[string]bool)

	remaining := make(map[string]bool)
	for _, sg := range l.ir.Subgraphs() {
		remaining[sg] = true
	}
	for len(remaining) > 0 {
		var innermost string
		for _, sg := range l.ir.Subgraphs() {
			if !remaining[sg] {
				continue
			}
			s, _ := l.ir.Subgraph(sg)
			hasUncollapsedChild := false
			for _, c := range s.Children {
				if remaining[c] {
					hasUncollapsedChild = true
					break
				}
			}
			if !hasUncollapsedChild {
				innermost = sg
				break
			}
		}
		assert.That(innermost != "", "collapseSubgraphs: cycle or inconsistency in subgraph tree")
		l.collapseOne(innermost, collapsedAway)
		delete(remaining, innermost)
	}

	var top []string
	for _, id := range l.ir.Nodes() {
		// A top-level subgraph's own compound node is never passed through AddMember (it has no
		// parent to attribute it to), so SubgraphOf reports "" for it just like a real top-level
		// node; the loop below adds it explicitly, so skip it here to avoid adding it twice.
		if l.ir.SubgraphOf(id) == "" && !collapsedAway[id] && !strings.HasPrefix(id, graphir.CompoundPrefix) {
			top = append(top, id)
		}
	}
	for _, sg := range l.ir.Subgraphs() {
		s, _ := l.ir.Subgraph(sg)
		if s.Parent == "" {
			top = append(top, graphir.CompoundPrefix+sg)
		}
	}
	return top
}

func (l *layouter) collapseOne(sgID string, collapsedAway map[string]bool) {
	s, ok := l.ir.Subgraph(sgID)
	if !ok {
		return
	}
	compoundID := graphir.CompoundPrefix + sgID
	_ = l.ir.AddNode(compoundID, graphir.NodeMeta{Label: s.Label})
	if s.Direction != nil {
		l.compoundDir[compoundID] = *s.Direction
	}

	members := append([]string{}, s.Members...)
	for _, c := range s.Children {
		members = append(members, graphir.CompoundPrefix+c)
	}
	l.compoundMembers[compoundID] = members

	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
		collapsedAway[m] = true
	}

	for _, m := range members {
		for _, e := range l.ir.Successors(m) {
			if memberSet[e.To] {
				continue // internal edge, stays for the recursive sub-layout
			}
			meta := e.Meta
			l.ir.RemoveEdge(e)
			_, _ = l.ir.AddEdge(compoundID, e.To, meta)
		}
		for _, e := range l.ir.Predecessors(m) {
			if memberSet[e.From] {
				continue
			}
			meta := e.Meta
			l.ir.RemoveEdge(e)
			_, _ = l.ir.AddEdge(e.From, compoundID, meta)
		}
	}
}

// --- layoutScope: phases 2-7 for one level of the subgraph tree ---

func (l *layouter) layoutScope(nodes []string, direction ast.Direction) *Result {
	s := newScope(l.ir, nodes)

	l.decycle(s)
	layer := l.assignLayers(s)
	chains := l.insertDummies(s, layer)
	order := l.minimizeCrossings(s, layer)
	pos := l.measure(s, layer, direction)
	l.assignCoordinates(s, layer, order, pos, direction)

	res := &Result{Direction: direction}
	for _, id := range nodes {
		p := pos[id]
		if _, ok := l.compoundMembers[id]; ok {
			subRes := l.compoundTrial[id]
			assert.That(subRes != nil, "layoutScope: missing cached trial layout for compound %s", id)
			translate(subRes, p.X+subgraphInset, p.Y+subgraphInset)
			res.Nodes = append(res.Nodes, subRes.Nodes...)
			res.Edges = append(res.Edges, subRes.Edges...)
			res.Subgraphs = append(res.Subgraphs, subRes.Subgraphs...)
			res.Subgraphs = append(res.Subgraphs, SubgraphBox{
				ID: id, Label: p.Label, X: p.X, Y: p.Y, Width: p.Width, Height: p.Height,
			})
			continue
		}
		res.Nodes = append(res.Nodes, Node{
			ID: id, Layer: layer[id], Order: order[id],
			X: p.X, Y: p.Y, Width: p.Width, Height: p.Height,
			Label: p.Label, Shape: p.Shape,
		})
	}

	res.Edges = append(res.Edges, l.finalizeEdges(chains, pos)...)
	res.Edges = append(res.Edges, finalizeSelfLoops(s.selfLoops)...)
	return res
}

// finalizeSelfLoops builds an EdgeRef for each From == To edge, bypassing dummy-chain
// reconstruction entirely: a self-loop spans no layers, so it has no dummy chain to walk.
func finalizeSelfLoops(edges []*graphir.Edge) []EdgeRef {
	out := make([]EdgeRef, 0, len(edges))
	for _, e := range edges {
		out = append(out, EdgeRef{
			From: e.From, To: e.To,
			Type: e.Meta.Type, Label: e.Meta.Label, HasLabel: e.Meta.HasLabel, Reversed: e.Meta.Reversed,
		})
	}
	return out
}

func translate(res *Result, dx, dy int) {
	for i := range res.Nodes {
		res.Nodes[i].X += dx
		res.Nodes[i].Y += dy
	}
	for i := range res.Subgraphs {
		res.Subgraphs[i].X += dx
		res.Subgraphs[i].Y += dy
	}
	for i := range res.Edges {
		for j := range res.Edges[i].DummyChain {
			res.Edges[i].DummyChain[j].X += dx
			res.Edges[i].DummyChain[j].Y += dy
		}
	}
}

// --- phase 2: remove cycles (Greedy-FAS) ---

func (l *layouter) decycle(s *scope) {
	order := greedyFAS(s)
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range s.edges {
		if pos[e.From] > pos[e.To] {
			l.ir.ReverseEdge(e) // mutates e.From/e.To in place; s.edges already holds the pointer
		}
	}
}

// greedyFAS implements spec.md §4.2 phase 2: iteratively select the node maximizing
// out_degree-in_degree; append sources to a left sequence, sinks to a right sequence, prepend
// others to the right.
func greedyFAS(s *scope) []string {
	remaining := make(map[string]bool, len(s.nodes))
	for _, n := range s.nodes {
		remaining[n] = true
	}
	degree := func(id string) (out, in int) {
		for _, e := range s.edges {
			if e.From == id && remaining[e.To] {
				out++
			}
			if e.To == id && remaining[e.From] {
				in++
			}
		}
		return
	}

	var left, right []string
	for len(remaining) > 0 {
		moved := false
		for _, id := range s.nodes {
			if !remaining[id] {
				continue
			}
			out, _ := degree(id)
			if out == 0 {
				right = append([]string{id}, right...)
				delete(remaining, id)
				moved = true
			}
		}
		for _, id := range s.nodes {
			if !remaining[id] {
				continue
			}
			_, in := degree(id)
			if in == 0 {
				left = append(left, id)
				delete(remaining, id)
				moved = true
			}
		}
		if len(remaining) == 0 {
			break
		}
		if !moved {
			best, bestScore := "", minInt
			for _, id := range s.nodes {
				if !remaining[id] {
					continue
				}
				out, in := degree(id)
				if score := out - in; score > bestScore {
					best, bestScore = id, score
				}
			}
			right = append([]string{best}, right...)
			delete(remaining, best)
		}
	}

	return append(left, right...)
}

const minInt = -int(^uint(0)>>1) - 1

// --- phase 3: layer assignment (longest path) ---

func (l *layouter) assignLayers(s *scope) map[string]int {
	layer := make(map[string]int, len(s.nodes))
	for _, n := range s.nodes {
		layer[n] = 0
	}
	changed := true
	for changed {
		changed = false
		for _, e := range s.edges {
			if layer[e.To] < layer[e.From]+1 {
				layer[e.To] = layer[e.From] + 1
				changed = true
			}
		}
	}
	return layer
}

// --- phase 4: dummy insertion ---

// edgeChain records one original edge's path through zero or more dummy nodes.
type edgeChain struct {
	from, to string
	meta     graphir.EdgeMeta
	path     []string // from, d1, ..., dk, to
}

func (l *layouter) insertDummies(s *scope, layer map[string]int) []edgeChain {
	var chains []edgeChain

	original := append([]*graphir.Edge{}, s.edges...)
	for _, e := range original {
		span := layer[e.To] - layer[e.From]
		assert.That(span >= 1, "insertDummies: non-positive layer span for edge %s->%s", e.From, e.To)
		if span == 1 {
			chains = append(chains, edgeChain{from: e.From, to: e.To, meta: e.Meta, path: []string{e.From, e.To}})
			continue
		}

		path := []string{e.From}
		prev := e.From
		for k := 1; k < span; k++ {
			id := graphir.DummyPrefix + strconv.Itoa(l.ir.NextSerial())
			_ = l.ir.AddNode(id, graphir.NodeMeta{})
			layer[id] = layer[e.From] + k
			s.nodes = append(s.nodes, id)
			newEdge, _ := l.ir.AddEdge(prev, id, graphir.EdgeMeta{})
			s.edges = append(s.edges, newEdge)
			prev = id
			path = append(path, id)
		}
		newEdge, _ := l.ir.AddEdge(prev, e.To, graphir.EdgeMeta{})
		s.edges = append(s.edges, newEdge)
		path = append(path, e.To)

		l.ir.RemoveEdge(e)
		s.edges = removeFromSlice(s.edges, e)
		chains = append(chains, edgeChain{from: e.From, to: e.To, meta: e.Meta, path: path})
	}

	return chains
}

func removeFromSlice(edges []*graphir.Edge, target *graphir.Edge) []*graphir.Edge {
	for i, e := range edges {
		if e == target {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}

// --- phase 5: minimize crossings (barycenter, 24 passes) ---

func (l *layouter) minimizeCrossings(s *scope, layer map[string]int) map[string]int {
	layers := groupByLayer(s.nodes, layer)

	order := make(map[string]int)
	for _, ids := range layers {
		for i, id := range ids {
			order[id] = i
		}
	}

	down := true
	for pass := 0; pass < crossingMinPasses; pass++ {
		if down {
			for li := 1; li < len(layers); li++ {
				sweepLayer(layers[li], s.inEdges, order)
			}
		} else {
			for li := len(layers) - 2; li >= 0; li-- {
				sweepLayer(layers[li], s.outEdges, order)
			}
		}
		down = !down
	}

	return order
}

func sweepLayer(layer []string, neighborEdges func(string) []*graphir.Edge, order map[string]int) {
	type scored struct {
		id      string
		bary    float64
		hasBary bool
		prevOrd int
	}
	items := make([]scored, len(layer))
	for i, id := range layer {
		items[i] = scored{id: id, prevOrd: order[id]}
		var sum, n float64
		for _, e := range neighborEdges(id) {
			other := e.From
			if other == id {
				other = e.To
			}
			if ord, ok := order[other]; ok {
				sum += float64(ord)
				n++
			}
		}
		if n > 0 {
			items[i].bary = sum / n
			items[i].hasBary = true
		}
	}

	sort.SliceStable(items, func(a, b int) bool {
		ia, ib := items[a], items[b]
		if ia.hasBary != ib.hasBary {
			return ia.hasBary
		}
		if ia.hasBary && ib.hasBary && ia.bary != ib.bary {
			return ia.bary < ib.bary
		}
		if ia.prevOrd != ib.prevOrd {
			return ia.prevOrd < ib.prevOrd
		}
		return ia.id < ib.id
	})

	for i, it := range items {
		layer[i] = it.id
		order[it.id] = i
	}
}

func groupByLayer(ids []string, layer map[string]int) [][]string {
	maxLayer := 0
	for _, id := range ids {
		if layer[id] > maxLayer {
			maxLayer = layer[id]
		}
	}
	layers := make([][]string, maxLayer+1)
	for _, id := range ids {
		layers[layer[id]] = append(layers[layer[id]], id)
	}
	return layers
}

// --- phase 6: coordinate assignment ---

// measured carries a node's box dimensions and label/shape, plus its assigned position once
// assignCoordinates has run.
type measured struct {
	Width, Height int
	Label         string
	Shape         ast.Shape
	IsDummy       bool
	X, Y          int
}

func (l *layouter) measure(s *scope, layer map[string]int, direction ast.Direction) map[string]*measured {
	pos := make(map[string]*measured, len(s.nodes))
	for _, id := range s.nodes {
		if isDummy(id) {
			pos[id] = &measured{IsDummy: true}
			continue
		}
		if members, ok := l.compoundMembers[id]; ok {
			w, h := l.boundingSize(id, members, direction)
			label := ""
			if n, ok := l.ir.Node(id); ok {
				label = n.Label
			}
			pos[id] = &measured{Width: w + 2*subgraphInset, Height: h + 2*subgraphInset, Label: label}
			continue
		}
		n, _ := l.ir.Node(id)
		pos[id] = &measured{Width: measureWidth(n.Label, n.Shape, l.cfg.Padding), Height: measureHeight(n.Label), Label: n.Label, Shape: n.Shape}
	}
	return pos
}

// boundingSize computes the width/height a subgraph's members occupy, by recursively laying them
// out at the origin, honoring the compound's own direction override if it has one. The result is
// cached in l.compoundTrial, keyed by the compound's id: layoutScope's member-expansion loop
// reuses this exact layout (translated to its final top-left) rather than calling layoutScope a
// second time. A second call would be wrong, not just wasteful — layoutScope's phases 2 and 4
// mutate the shared GraphIR (decycle reverses edges, insertDummies adds/removes nodes and edges),
// so re-deriving the layout on the same member set would decycle/dummy-insert an already-mutated
// graph: any edge spanning more than one layer would have been rewritten into a dummy chain by
// the first call, and that chain's dummy node (outside members) would then be filtered out of the
// second call's scope entirely, silently dropping the edge.
func (l *layouter) boundingSize(id string, members []string, direction ast.Direction) (int, int) {
	subDir := direction
	if d, ok := l.compoundDir[id]; ok {
		subDir = d
	}
	trial := l.layoutScope(members, subDir)
	fitBounds(trial)
	l.compoundTrial[id] = trial
	return trial.Width, trial.Height
}

func isDummy(id string) bool {
	return len(id) >= len(graphir.DummyPrefix) && id[:len(graphir.DummyPrefix)] == graphir.DummyPrefix
}

func measureWidth(label string, shape ast.Shape, padding int) int {
	maxLine := 0
	for _, line := range splitLines(label) {
		if n := runeCount(line); n > maxLine {
			maxLine = n
		}
	}
	w := 2 + padding*2 + maxLine
	if shape == ast.Diamond || shape == ast.Circle {
		w += 2
	}
	if w < 3 {
		w = 3
	}
	return w
}

func measureHeight(label string) int {
	h := 2 + len(splitLines(label))
	if h < 3 {
		h = 3
	}
	return h
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func (l *layouter) assignCoordinates(s *scope, layer map[string]int, order map[string]int, pos map[string]*measured, direction ast.Direction) {
	layers := groupByLayer(s.nodes, layer)
	gap := siblingGap
	layerGap := siblingGap
	if direction == ast.LR || direction == ast.RL {
		layerGap = layerGapLR
	}

	layerMainAxis := make([]int, len(layers)) // width (TD/BT) or height (LR/RL) of each layer
	maxMain := 0
	for li, ids := range layers {
		sort.SliceStable(ids, func(a, b int) bool { return order[ids[a]] < order[ids[b]] })
		cursor := 0
		for i, id := range ids {
			p := pos[id]
			size := p.Width
			if direction == ast.LR || direction == ast.RL {
				size = p.Height
			}
			if i > 0 {
				cursor += gap
			}
			setMain(p, direction, cursor)
			cursor += size
		}
		layerMainAxis[li] = cursor
		if cursor > maxMain {
			maxMain = cursor
		}
	}

	for li, ids := range layers {
		offset := (maxMain - layerMainAxis[li]) / 2
		for _, id := range ids {
			addMain(pos[id], direction, offset)
		}
	}

	crossCursor := 0
	for li, ids := range layers {
		maxCross := 0
		for _, id := range ids {
			setCross(pos[id], direction, crossCursor)
			c := pos[id].Height
			if direction == ast.LR || direction == ast.RL {
				c = pos[id].Width
			}
			if c > maxCross {
				maxCross = c
			}
		}
		crossCursor += maxCross + layerGap
		_ = li
	}

	refineBarycenter(s, layers, order, pos, direction)
}

func setMain(p *measured, direction ast.Direction, v int) {
	if direction == ast.LR || direction == ast.RL {
		p.Y = v
	} else {
		p.X = v
	}
}

func addMain(p *measured, direction ast.Direction, d int) {
	if direction == ast.LR || direction == ast.RL {
		p.Y += d
	} else {
		p.X += d
	}
}

func setCross(p *measured, direction ast.Direction, v int) {
	if direction == ast.LR || direction == ast.RL {
		p.X = v
	} else {
		p.Y = v
	}
}

// refineBarycenter applies spec.md §4.2 phase 6's single refinement pass: nudge each
// non-terminal-layer node toward the mean of its predecessors' and successors' centers, clamped
// to preserve ordering and the minimum gap.
func refineBarycenter(s *scope, layers [][]string, order map[string]int, pos map[string]*measured, direction ast.Direction) {
	mainOf := func(id string) int {
		p := pos[id]
		size := p.Width
		if direction == ast.LR || direction == ast.RL {
			size = p.Height
		}
		if direction == ast.LR || direction == ast.RL {
			return p.Y + size/2
		}
		return p.X + size/2
	}
	setMainCenter := func(id string, center int) {
		p := pos[id]
		size := p.Width
		if direction == ast.LR || direction == ast.RL {
			size = p.Height
		}
		if direction == ast.LR || direction == ast.RL {
			p.Y = center - size/2
		} else {
			p.X = center - size/2
		}
	}

	for li := 1; li < len(layers)-1; li++ {
		ids := layers[li]
		for _, id := range ids {
			var sum, n float64
			for _, e := range s.inEdges(id) {
				sum += float64(mainOf(e.From))
				n++
			}
			for _, e := range s.outEdges(id) {
				sum += float64(mainOf(e.To))
				n++
			}
			if n == 0 {
				continue
			}
			target := int(sum / n)

			minCenter := minInt
			if ordIdx := order[id]; ordIdx > 0 {
				for _, other := range ids {
					if order[other] == ordIdx-1 {
						size := pos[other].Width
						if direction == ast.LR || direction == ast.RL {
							size = pos[other].Height
						}
						mySize := pos[id].Width
						if direction == ast.LR || direction == ast.RL {
							mySize = pos[id].Height
						}
						minCenter = mainOf(other) + size/2 + siblingGap + mySize/2
					}
				}
			}
			if minCenter != minInt && target < minCenter {
				target = minCenter
			}
			setMainCenter(id, target)
		}
	}
}

// --- phase 8 (finalize): reconstruct one polyline's worth of points per original edge ---

func (l *layouter) finalizeEdges(chains []edgeChain, pos map[string]*measured) []EdgeRef {
	out := make([]EdgeRef, 0, len(chains))
	for _, c := range chains {
		var dummyPoints []Point
		for _, id := range c.path[1 : len(c.path)-1] {
			p := pos[id]
			dummyPoints = append(dummyPoints, Point{X: p.X, Y: p.Y})
		}
		from, to := c.from, c.to
		if c.meta.Reversed {
			from, to = to, from
			for i, j := 0, len(dummyPoints)-1; i < j; i, j = i+1, j-1 {
				dummyPoints[i], dummyPoints[j] = dummyPoints[j], dummyPoints[i]
			}
		}
		out = append(out, EdgeRef{
			From: from, To: to,
			Type: c.meta.Type, Label: c.meta.Label, HasLabel: c.meta.HasLabel, Reversed: c.meta.Reversed,
			DummyChain: dummyPoints,
		})
	}
	return out
}

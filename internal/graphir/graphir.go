// Package graphir implements spec.md's GraphIR: a typed directed multigraph with per-node and
// per-edge metadata and subgraph membership, the intermediate representation Sugiyama mutates in
// place on its way from the parsed AST to a [LayoutResult].
//
// Iteration order throughout this package is insertion order, never map range order, per
// spec.md's determinism contract (§4.1, §5).
package graphir

import (
	"errors"
	"fmt"

	"github.com/asciigraph/mmdgrid/ast"
)

// Reserved id prefixes for internal nodes, per spec.md §3.
const (
	DummyPrefix    = "__dummy_"
	CompoundPrefix = "__sg_"
)

// Sentinel errors for GraphIR operations, in the style of a core graph package's Err* set.
var (
	ErrNodeExists      = errors.New("graphir: node already exists with conflicting metadata")
	ErrNodeNotFound    = errors.New("graphir: node not found")
	ErrEdgeNotFound    = errors.New("graphir: edge not found")
)

// NodeMeta carries a node's rendering-relevant attributes.
type NodeMeta struct {
	Label     string
	Shape     ast.Shape
	Subgraph  string // id of the innermost subgraph this node belongs to, empty if none
}

// EdgeMeta carries an edge's rendering-relevant attributes.
type EdgeMeta struct {
	Type     ast.EdgeType
	Label    string
	HasLabel bool
	Reversed bool // set by cycle removal; arrowheads render as if unreversed
}

// Edge is one entry in the edge multiset, keyed by (From, To, Occurrence).
type Edge struct {
	From, To   string
	Occurrence int // distinguishes parallel edges between the same pair, in insertion order
	Meta       EdgeMeta
}

// Subgraph is one node in the subgraph tree.
type Subgraph struct {
	ID        string
	Parent    string // empty for top-level subgraphs
	Children  []string
	Members   []string // member node ids, insertion order
	Direction *ast.Direction // nil when the subgraph does not override the ambient direction
	Label     string
}

// Graph is a directed multigraph plus the subgraph tree it is partitioned into.
//
// All exported accessors return results in insertion order so that every implementation of this
// pipeline produces identical layouts from identical input, per spec.md §4.1's determinism
// contract.
type Graph struct {
	nodeOrder []string
	nodes     map[string]NodeMeta

	edges      []*Edge // insertion order; multiple edges between the same pair are distinct entries
	outAdj     map[string][]*Edge
	inAdj      map[string][]*Edge

	subgraphOrder []string
	subgraphs     map[string]*Subgraph
	nodeSubgraph  map[string]string // node id -> innermost subgraph id

	serial int // monotonically increasing counter for dummy/compound id generation
}

// New returns an empty GraphIR.
func New() *Graph {
	return &Graph{
		nodes:        make(map[string]NodeMeta),
		outAdj:       make(map[string][]*Edge),
		inAdj:        make(map[string][]*Edge),
		subgraphs:    make(map[string]*Subgraph),
		nodeSubgraph: make(map[string]string),
	}
}

// AddNode adds a node with id and meta. Re-adding the same id with identical metadata is a
// no-op; re-adding it with conflicting metadata is an [ErrNodeExists] error, per spec.md §4.1.
func (g *Graph) AddNode(id string, meta NodeMeta) error {
	if existing, ok := g.nodes[id]; ok {
		if existing != meta {
			return fmt.Errorf("%w: id %q", ErrNodeExists, id)
		}
		return nil
	}
	g.nodeOrder = append(g.nodeOrder, id)
	g.nodes[id] = meta
	return nil
}

// HasNode reports whether id has been added.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Node returns the metadata for id.
func (g *Graph) Node(id string) (NodeMeta, bool) {
	m, ok := g.nodes[id]
	return m, ok
}

// SetNode overwrites the metadata for an existing node, used by later Sugiyama phases (e.g.
// compound expansion) that need to update a node's subgraph membership in place.
func (g *Graph) SetNode(id string, meta NodeMeta) {
	g.nodes[id] = meta
}

// Nodes returns all node ids in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// RemoveNode removes a node and every edge incident to it.
func (g *Graph) RemoveNode(id string) {
	if !g.HasNode(id) {
		return
	}
	for _, e := range append([]*Edge{}, g.outAdj[id]...) {
		g.RemoveEdge(e)
	}
	for _, e := range append([]*Edge{}, g.inAdj[id]...) {
		g.RemoveEdge(e)
	}
	delete(g.nodes, id)
	delete(g.nodeSubgraph, id)
	for i, nid := range g.nodeOrder {
		if nid == id {
			g.nodeOrder = append(g.nodeOrder[:i], g.nodeOrder[i+1:]...)
			break
		}
	}
}

// AddEdge adds a directed edge from u to v with the given metadata, appended as the next
// occurrence between that pair.
func (g *Graph) AddEdge(u, v string, meta EdgeMeta) (*Edge, error) {
	if !g.HasNode(u) {
		return nil, fmt.Errorf("%w: source %q", ErrNodeNotFound, u)
	}
	if !g.HasNode(v) {
		return nil, fmt.Errorf("%w: target %q", ErrNodeNotFound, v)
	}
	occurrence := 0
	for _, e := range g.outAdj[u] {
		if e.To == v {
			occurrence++
		}
	}
	e := &Edge{From: u, To: v, Occurrence: occurrence, Meta: meta}
	g.edges = append(g.edges, e)
	g.outAdj[u] = append(g.outAdj[u], e)
	g.inAdj[v] = append(g.inAdj[v], e)
	return e, nil
}

// RemoveEdge removes e from the graph.
func (g *Graph) RemoveEdge(e *Edge) {
	g.outAdj[e.From] = removeEdge(g.outAdj[e.From], e)
	g.inAdj[e.To] = removeEdge(g.inAdj[e.To], e)
	for i, cur := range g.edges {
		if cur == e {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			break
		}
	}
}

func removeEdge(edges []*Edge, target *Edge) []*Edge {
	for i, e := range edges {
		if e == target {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Successors returns the edges leaving v, in the order they were added.
func (g *Graph) Successors(v string) []*Edge {
	out := make([]*Edge, len(g.outAdj[v]))
	copy(out, g.outAdj[v])
	return out
}

// Predecessors returns the edges entering v, in the order they were added.
func (g *Graph) Predecessors(v string) []*Edge {
	out := make([]*Edge, len(g.inAdj[v]))
	copy(out, g.inAdj[v])
	return out
}

// OutDegree and InDegree support Greedy-FAS (spec.md §4.2 phase 2).
func (g *Graph) OutDegree(v string) int { return len(g.outAdj[v]) }
func (g *Graph) InDegree(v string) int  { return len(g.inAdj[v]) }

// ReverseEdge flips e's direction in place and marks it reversed, per spec.md §4.1's
// reverse_edge operation. Arrowheads are rendered as if the edge were never reversed.
func (g *Graph) ReverseEdge(e *Edge) {
	g.outAdj[e.From] = removeEdge(g.outAdj[e.From], e)
	g.inAdj[e.To] = removeEdge(g.inAdj[e.To], e)
	e.From, e.To = e.To, e.From
	e.Meta.Reversed = !e.Meta.Reversed
	g.outAdj[e.From] = append(g.outAdj[e.From], e)
	g.inAdj[e.To] = append(g.inAdj[e.To], e)
}

// NextSerial returns a fresh, monotonically increasing integer for generating dummy or compound
// node ids, so identifiers stay stable and collision-free for the lifetime of one Graph.
func (g *Graph) NextSerial() int {
	g.serial++
	return g.serial - 1
}

// AddSubgraph registers a subgraph node in the subgraph tree.
func (g *Graph) AddSubgraph(id, parent, label string, direction *ast.Direction) {
	sg := &Subgraph{ID: id, Parent: parent, Label: label, Direction: direction}
	g.subgraphOrder = append(g.subgraphOrder, id)
	g.subgraphs[id] = sg
	if parent != "" {
		if p, ok := g.subgraphs[parent]; ok {
			p.Children = append(p.Children, id)
		}
	}
}

// Subgraph returns the subgraph tree node for id.
func (g *Graph) Subgraph(id string) (*Subgraph, bool) {
	sg, ok := g.subgraphs[id]
	return sg, ok
}

// Subgraphs returns all subgraph ids in insertion order.
func (g *Graph) Subgraphs() []string {
	out := make([]string, len(g.subgraphOrder))
	copy(out, g.subgraphOrder)
	return out
}

// AddMember records that node belongs to the innermost subgraph sg.
func (g *Graph) AddMember(sg, node string) {
	s, ok := g.subgraphs[sg]
	if !ok {
		return
	}
	s.Members = append(s.Members, node)
	g.nodeSubgraph[node] = sg
	meta := g.nodes[node]
	meta.Subgraph = sg
	g.nodes[node] = meta
}

// SubgraphOf returns the innermost subgraph id containing node, or "" if it belongs to none.
func (g *Graph) SubgraphOf(node string) string {
	return g.nodeSubgraph[node]
}

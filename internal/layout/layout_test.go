package layout_test

import (
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/asciigraph/mmdgrid/ast"
	"github.com/asciigraph/mmdgrid/internal/graphir"
	"github.com/asciigraph/mmdgrid/internal/layout"
)

func TestLayoutSingleNodeMeasuresBoxFromLabel(t *testing.T) {
	ir := graphir.New()
	_ = ir.AddNode("A", graphir.NodeMeta{Label: "Hi", Shape: ast.Rectangle})

	res := layout.Layout(ir, ast.TD, layout.Config{Padding: 1})

	require.EqualValuesf(t, len(res.Nodes), 1, "Layout should produce one node")
	n := res.Nodes[0]
	assert.Equalsf(t, n.Width, 6, "single-line 2-rune label with padding 1 should measure width 6")
	assert.Equalsf(t, n.Height, 3, "single-line label should measure height 3")
	assert.Equalsf(t, n.X, 0, "the only node should sit at the origin")
	assert.Equalsf(t, n.Y, 0, "the only node should sit at the origin")
	assert.Equalsf(t, res.Width, 6, "Result.Width should match the node's extent")
	assert.Equalsf(t, res.Height, 3, "Result.Height should match the node's extent")
}

func TestLayoutTwoNodeChainStacksByLayerTD(t *testing.T) {
	ir := graphir.New()
	_ = ir.AddNode("A", graphir.NodeMeta{Label: "A"})
	_ = ir.AddNode("B", graphir.NodeMeta{Label: "B"})
	_, _ = ir.AddEdge("A", "B", graphir.EdgeMeta{Type: ast.EdgeArrow})

	res := layout.Layout(ir, ast.TD, layout.Config{Padding: 1})

	require.EqualValuesf(t, len(res.Nodes), 2, "Layout should produce two nodes")
	byID := make(map[string]layout.Node, 2)
	for _, n := range res.Nodes {
		byID[n.ID] = n
	}

	a, b := byID["A"], byID["B"]
	assert.Truef(t, a.Y < b.Y, "TD layout should place A above B")
	assert.Equalsf(t, a.X, b.X, "single-node layers should align on the cross axis")

	require.EqualValuesf(t, len(res.Edges), 1, "Layout should produce one edge")
	assert.Equalsf(t, res.Edges[0].From, "A", "edge's From")
	assert.Equalsf(t, res.Edges[0].To, "B", "edge's To")
	assert.EqualValuesf(t, res.Edges[0].DummyChain, []layout.Point(nil), "an adjacent-layer edge needs no dummy chain")
}

func TestLayoutInsertsDummiesAcrossSkippedLayers(t *testing.T) {
	ir := graphir.New()
	_ = ir.AddNode("A", graphir.NodeMeta{Label: "A"})
	_ = ir.AddNode("B", graphir.NodeMeta{Label: "B"})
	_ = ir.AddNode("C", graphir.NodeMeta{Label: "C"})
	_, _ = ir.AddEdge("A", "B", graphir.EdgeMeta{})
	_, _ = ir.AddEdge("B", "C", graphir.EdgeMeta{})
	_, _ = ir.AddEdge("A", "C", graphir.EdgeMeta{}) // spans layers 0 -> 2, needs one dummy

	res := layout.Layout(ir, ast.TD, layout.Config{Padding: 1})

	require.EqualValuesf(t, len(res.Nodes), 3, "dummy nodes should never appear in the final Result.Nodes")

	var longEdge *layout.EdgeRef
	for i := range res.Edges {
		if res.Edges[i].From == "A" && res.Edges[i].To == "C" {
			longEdge = &res.Edges[i]
		}
	}
	require.Truef(t, longEdge != nil, "the A->C edge should survive layout")
	assert.EqualValuesf(t, len(longEdge.DummyChain), 1, "an edge spanning two layers should route through one dummy node")
}

func TestLayoutDecyclesBackEdge(t *testing.T) {
	ir := graphir.New()
	_ = ir.AddNode("A", graphir.NodeMeta{})
	_ = ir.AddNode("B", graphir.NodeMeta{})
	_ = ir.AddNode("C", graphir.NodeMeta{})
	_, _ = ir.AddEdge("A", "B", graphir.EdgeMeta{})
	_, _ = ir.AddEdge("B", "C", graphir.EdgeMeta{})
	_, _ = ir.AddEdge("C", "A", graphir.EdgeMeta{}) // closes a 3-cycle

	res := layout.Layout(ir, ast.TD, layout.Config{Padding: 1})

	require.EqualValuesf(t, len(res.Nodes), 3, "Layout should still place all three nodes")

	reversed := 0
	for _, e := range res.Edges {
		if e.Reversed {
			reversed++
		}
	}
	assert.Equalsf(t, reversed, 1, "decycling a single 3-cycle should reverse exactly one edge")
}

func TestLayoutSelfLoopEdgeTerminatesAndSurvives(t *testing.T) {
	ir := graphir.New()
	_ = ir.AddNode("A", graphir.NodeMeta{Label: "A"})
	_, _ = ir.AddEdge("A", "A", graphir.EdgeMeta{Type: ast.EdgeArrow})

	res := layout.Layout(ir, ast.TD, layout.Config{Padding: 1})

	require.EqualValuesf(t, len(res.Nodes), 1, "a self-loop introduces no extra node")
	require.EqualValuesf(t, len(res.Edges), 1, "the self-loop should survive layout as a single edge")
	e := res.Edges[0]
	assert.Equalsf(t, e.From, "A", "self-loop edge's From")
	assert.Equalsf(t, e.To, "A", "self-loop edge's To")
	assert.Equalsf(t, e.Type, ast.EdgeArrow, "self-loop edge's type should be preserved")
	assert.EqualValuesf(t, e.DummyChain, []layout.Point(nil), "a self-loop spans no layers, so it has no dummy chain")
}

func TestLayoutSubgraphPreservesEdgeSpanningMultipleLayers(t *testing.T) {
	ir := graphir.New()
	ir.AddSubgraph("G", "", "G", nil)
	_ = ir.AddNode("X", graphir.NodeMeta{Label: "X"})
	_ = ir.AddNode("Y", graphir.NodeMeta{Label: "Y"})
	_ = ir.AddNode("Z", graphir.NodeMeta{Label: "Z"})
	ir.AddMember("G", "X")
	ir.AddMember("G", "Y")
	ir.AddMember("G", "Z")
	_, _ = ir.AddEdge("X", "Y", graphir.EdgeMeta{})
	_, _ = ir.AddEdge("Y", "Z", graphir.EdgeMeta{})
	_, _ = ir.AddEdge("X", "Z", graphir.EdgeMeta{}) // spans layers 0 -> 2 inside the subgraph

	res := layout.Layout(ir, ast.TD, layout.Config{Padding: 1})

	require.EqualValuesf(t, len(res.Subgraphs), 1, "Layout should produce exactly one subgraph box, not one per compound-node reference")
	require.EqualValuesf(t, len(res.Nodes), 3, "all three members should be placed, with no duplication")
	require.EqualValuesf(t, len(res.Edges), 3, "all three original edges should survive subgraph expansion")

	var longEdge *layout.EdgeRef
	for i := range res.Edges {
		if res.Edges[i].From == "X" && res.Edges[i].To == "Z" {
			longEdge = &res.Edges[i]
		}
	}
	require.Truef(t, longEdge != nil, "the X->Z edge must not be dropped when boundingSize measures the subgraph")
	assert.EqualValuesf(t, len(longEdge.DummyChain), 1, "an edge spanning two layers inside the subgraph should route through one dummy node")
}

func TestLayoutSubgraphExpandsAroundMembers(t *testing.T) {
	ir := graphir.New()
	ir.AddSubgraph("cluster1", "", "Cluster", nil)
	_ = ir.AddNode("A", graphir.NodeMeta{Label: "A"})
	_ = ir.AddNode("B", graphir.NodeMeta{Label: "B"})
	ir.AddMember("cluster1", "A")
	ir.AddMember("cluster1", "B")
	_, _ = ir.AddEdge("A", "B", graphir.EdgeMeta{})

	res := layout.Layout(ir, ast.TD, layout.Config{Padding: 1})

	require.EqualValuesf(t, len(res.Subgraphs), 1, "Layout should produce one subgraph box")
	require.EqualValuesf(t, len(res.Nodes), 2, "both members should be placed")

	sg := res.Subgraphs[0]
	for _, n := range res.Nodes {
		assert.Truef(t, n.X >= sg.X && n.Y >= sg.Y, "member nodes should sit within the subgraph box's top-left inset")
		assert.Truef(t, n.X+n.Width <= sg.X+sg.Width, "member nodes should not overflow the subgraph box horizontally")
		assert.Truef(t, n.Y+n.Height <= sg.Y+sg.Height, "member nodes should not overflow the subgraph box vertically")
	}
}

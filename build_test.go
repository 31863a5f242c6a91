package mmdgrid

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/asciigraph/mmdgrid/ast"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildGraphIRDeclaresNodes(t *testing.T) {
	p, err := NewParser(strings.NewReader("flowchart TD\nA[Start]\nB{Decision}"))
	require.NoErrorf(t, err, "NewParser")
	g, err := p.Parse()
	require.NoErrorf(t, err, "Parse")

	ir, err := buildGraphIR(g, discardLogger())
	require.NoErrorf(t, err, "buildGraphIR")

	require.Truef(t, ir.HasNode("A"), "ir should have node A")
	require.Truef(t, ir.HasNode("B"), "ir should have node B")

	a, _ := ir.Node("A")
	assert.Equalsf(t, a.Label, "Start", "node A's label")
	assert.Equalsf(t, a.Shape, ast.Rectangle, "node A's shape")

	b, _ := ir.Node("B")
	assert.Equalsf(t, b.Shape, ast.Diamond, "node B's shape")
}

func TestBuildGraphIRImplicitlyDeclaresUndeclaredEdgeEndpoints(t *testing.T) {
	p, err := NewParser(strings.NewReader("flowchart TD\nA --> B"))
	require.NoErrorf(t, err, "NewParser")
	g, err := p.Parse()
	require.NoErrorf(t, err, "Parse")

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ir, err := buildGraphIR(g, log)
	require.NoErrorf(t, err, "buildGraphIR")

	require.Truef(t, ir.HasNode("A"), "ir should implicitly declare A")
	require.Truef(t, ir.HasNode("B"), "ir should implicitly declare B")
	a, _ := ir.Node("A")
	assert.Equalsf(t, a.Label, "A", "implicitly declared node's label defaults to its id")
	assert.Equalsf(t, a.Shape, ast.Rectangle, "implicitly declared node's shape defaults to rectangle")

	assert.Truef(t, strings.Contains(buf.String(), "implicit node declaration"), "implicit declaration should be debug-logged")
}

func TestBuildGraphIRRecordsEdges(t *testing.T) {
	p, err := NewParser(strings.NewReader("flowchart TD\nA --> B\nA -->|again| B"))
	require.NoErrorf(t, err, "NewParser")
	g, err := p.Parse()
	require.NoErrorf(t, err, "Parse")

	ir, err := buildGraphIR(g, discardLogger())
	require.NoErrorf(t, err, "buildGraphIR")

	edges := ir.Edges()
	require.EqualValuesf(t, len(edges), 2, "buildGraphIR should record both parallel edges")
	assert.Equalsf(t, edges[0].Occurrence, 0, "first edge's occurrence")
	assert.Equalsf(t, edges[1].Occurrence, 1, "second edge's occurrence")
	assert.Truef(t, edges[1].Meta.HasLabel, "second edge should carry its label")
	assert.Equalsf(t, edges[1].Meta.Label, "again", "second edge's label")
}

func TestBuildGraphIRSubgraphMembership(t *testing.T) {
	p, err := NewParser(strings.NewReader("flowchart TD\nsubgraph cluster1\nA --> B\nend"))
	require.NoErrorf(t, err, "NewParser")
	g, err := p.Parse()
	require.NoErrorf(t, err, "Parse")

	ir, err := buildGraphIR(g, discardLogger())
	require.NoErrorf(t, err, "buildGraphIR")

	assert.Equalsf(t, ir.SubgraphOf("A"), "cluster1", "node A should belong to cluster1")
	assert.Equalsf(t, ir.SubgraphOf("B"), "cluster1", "node B should belong to cluster1")

	sg, ok := ir.Subgraph("cluster1")
	require.Truef(t, ok, "ir should have a cluster1 subgraph")
	assert.EqualValuesf(t, sg.Members, []string{"A", "B"}, "cluster1's members")
}

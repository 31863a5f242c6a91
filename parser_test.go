package mmdgrid_test

import (
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/asciigraph/mmdgrid"
	"github.com/asciigraph/mmdgrid/ast"
)

func TestParserHeader(t *testing.T) {
	tests := map[string]struct {
		in            string
		wantDirection ast.Direction
	}{
		"DefaultsToTD": {
			in:            "flowchart\nA",
			wantDirection: ast.TD,
		},
		"GraphKeyword": {
			in:            "graph LR\nA",
			wantDirection: ast.LR,
		},
		"TBNormalizesToTD": {
			in:            "flowchart TB\nA",
			wantDirection: ast.TD,
		},
		"BT": {
			in:            "flowchart BT\nA",
			wantDirection: ast.BT,
		},
		"RL": {
			in:            "flowchart RL\nA",
			wantDirection: ast.RL,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := mmdgrid.NewParser(strings.NewReader(test.in))
			require.NoErrorf(t, err, "NewParser(%q)", test.in)

			g, err := p.Parse()

			require.NoErrorf(t, err, "Parse(%q)", test.in)
			assert.Equalsf(t, g.Direction, test.wantDirection, "Parse(%q).Direction", test.in)
			assert.EqualValuesf(t, p.Errors(), []mmdgrid.Error(nil), "Parse(%q) should not error", test.in)
		})
	}
}

func TestParserNodesAndEdges(t *testing.T) {
	p, err := mmdgrid.NewParser(strings.NewReader("flowchart TD\nA[Start] --> B{Decision}\nB -->|yes| C(Done)"))
	require.NoErrorf(t, err, "NewParser")

	g, err := p.Parse()
	require.NoErrorf(t, err, "Parse")
	assert.EqualValuesf(t, p.Errors(), []mmdgrid.Error(nil), "Parse should not error")

	require.EqualValuesf(t, len(g.Stmts), 2, "Parse should produce 2 statements")

	first, ok := g.Stmts[0].(*ast.EdgeStmt)
	require.Truef(t, ok, "first statement should be an EdgeStmt")
	assert.Equalsf(t, first.Left.Literal, "A", "first edge's left id")
	assert.Equalsf(t, first.Right.Literal, "B", "first edge's right id")
	assert.Equalsf(t, first.Type, ast.EdgeArrow, "first edge's type")
	assert.Truef(t, !first.HasLabel, "first edge should be unlabeled")

	second, ok := g.Stmts[1].(*ast.EdgeStmt)
	require.Truef(t, ok, "second statement should be an EdgeStmt")
	assert.Equalsf(t, second.Label, "yes", "second edge's label")
	assert.Truef(t, second.HasLabel, "second edge should be labeled")
}

func TestParserShapes(t *testing.T) {
	tests := map[string]struct {
		in        string
		wantShape ast.Shape
		wantLabel string
	}{
		"Rectangle": {in: "flowchart TD\nA[Start]", wantShape: ast.Rectangle, wantLabel: "Start"},
		"Rounded":   {in: "flowchart TD\nA(Start)", wantShape: ast.Rounded, wantLabel: "Start"},
		"Diamond":   {in: "flowchart TD\nA{Start}", wantShape: ast.Diamond, wantLabel: "Start"},
		"Circle":    {in: "flowchart TD\nA((Start))", wantShape: ast.Circle, wantLabel: "Start"},
		"Bare":      {in: "flowchart TD\nA", wantShape: ast.Rectangle, wantLabel: ""},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := mmdgrid.NewParser(strings.NewReader(test.in))
			require.NoErrorf(t, err, "NewParser(%q)", test.in)

			g, err := p.Parse()
			require.NoErrorf(t, err, "Parse(%q)", test.in)
			require.EqualValuesf(t, len(g.Stmts), 1, "Parse(%q) should produce one statement", test.in)

			ns, ok := g.Stmts[0].(*ast.NodeStmt)
			require.Truef(t, ok, "Parse(%q) statement should be a NodeStmt", test.in)
			assert.Equalsf(t, ns.Shape, test.wantShape, "Parse(%q) shape", test.in)
			if test.wantLabel != "" {
				assert.Equalsf(t, ns.Label, test.wantLabel, "Parse(%q) label", test.in)
			}
		})
	}
}

func TestParserSubgraph(t *testing.T) {
	p, err := mmdgrid.NewParser(strings.NewReader("flowchart TD\nsubgraph cluster1\ndirection LR\nA --> B\nend"))
	require.NoErrorf(t, err, "NewParser")

	g, err := p.Parse()
	require.NoErrorf(t, err, "Parse")

	require.EqualValuesf(t, len(g.Stmts), 1, "Parse should produce one statement")
	sg, ok := g.Stmts[0].(*ast.SubgraphStmt)
	require.Truef(t, ok, "statement should be a SubgraphStmt")
	assert.Equalsf(t, sg.ID.Literal, "cluster1", "subgraph id")
	require.EqualValuesf(t, len(sg.Stmts), 1, "subgraph should contain one statement")
}

func TestParserErrors(t *testing.T) {
	tests := map[string]struct {
		in     string
		errMsg string
	}{
		"MissingGraphKeyword": {
			in:     "A --> B",
			errMsg: `expected`,
		},
		"UnclosedSubgraph": {
			in:     "flowchart TD\nsubgraph cluster1\nA --> B",
			errMsg: `expected`,
		},
		"IllegalCharacter": {
			in:     "flowchart TD\nA # B",
			errMsg: `illegal character`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := mmdgrid.NewParser(strings.NewReader(test.in))
			require.NoErrorf(t, err, "NewParser(%q)", test.in)

			_, err = p.Parse()
			require.NoErrorf(t, err, "Parse(%q) should not return a terminal error", test.in)

			errs := p.Errors()
			require.Truef(t, len(errs) > 0, "Parse(%q) should record at least one error", test.in)
			assert.Truef(t, strings.Contains(errs[0].Error(), test.errMsg), "error %q should contain %q", errs[0].Error(), test.errMsg)
		})
	}
}

package mmdgrid_test

import (
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/asciigraph/mmdgrid"
	"github.com/asciigraph/mmdgrid/ast"
)

func TestRenderSimpleFlowchartEndToEnd(t *testing.T) {
	got, err := mmdgrid.Render("flowchart TD\nA-->B\n")
	require.NoErrorf(t, err, "Render of a minimal two-node flowchart")

	want := "┌───┐\n│ A │\n└─┬─┘\n  │\n  │\n  ▼\n┌───┐\n│ B │\n└───┘\n"
	assert.Equalsf(t, got, want, "Render(\"flowchart TD\\nA-->B\\n\")")
}

func TestRenderWithASCIIOption(t *testing.T) {
	got, err := mmdgrid.Render("flowchart TD\nA-->B\n", mmdgrid.WithASCII())
	require.NoErrorf(t, err, "Render with WithASCII")

	want := "+---+\n| A |\n+-+-+\n  |\n  |\n  v\n+---+\n| B |\n+---+\n"
	assert.Equalsf(t, got, want, "Render with WithASCII should use the plain charset")
}

func TestRenderWithDirectionOverride(t *testing.T) {
	got, err := mmdgrid.Render("flowchart TD\nA-->B\n", mmdgrid.WithDirection(ast.LR))
	require.NoErrorf(t, err, "Render with WithDirection(LR)")

	want := "┌───┐     ┌───┐\n│ A ├────►│ B │\n└───┘     └───┘\n"
	assert.Equalsf(t, got, want, "WithDirection(LR) should override the source's TD header")
}

func TestRenderSelfLoopEdgeEndToEnd(t *testing.T) {
	got, err := mmdgrid.Render("flowchart TD\nA-->A\n")
	require.NoErrorf(t, err, "Render of a single self-looping node")

	want := "┌───├│\n│ A ││\n└───◄┘\n"
	assert.Equalsf(t, got, want, "Render(\"flowchart TD\\nA-->A\\n\") should terminate and loop on the right side")
}

func TestRenderWithPaddingWidensNodeBoxes(t *testing.T) {
	got, err := mmdgrid.Render("flowchart TD\nA-->B\n", mmdgrid.WithPadding(2))
	require.NoErrorf(t, err, "Render with WithPadding(2)")

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Truef(t, len(lines) > 0, "Render should produce at least one line")
	assert.Equalsf(t, len([]rune(lines[0])), 7, "padding 2 around a one-rune label should widen the box to 7 cells")
}

func TestRenderReturnsFirstParseErrorOnIllegalCharacter(t *testing.T) {
	_, err := mmdgrid.Render("flowchart TD\nA # B\n")
	require.NotNilf(t, err, "Render should fail on an illegal character")
	assert.Truef(t, strings.Contains(err.Error(), "illegal character"), "error message %q should mention the illegal character", err.Error())
}

func TestRenderReturnsFirstParseErrorOnMissingGraphKeyword(t *testing.T) {
	_, err := mmdgrid.Render("A-->B\n")
	require.NotNilf(t, err, "Render should fail when the source omits the graph/flowchart keyword")
}

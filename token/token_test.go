package token_test

import (
	"testing"

	"github.com/teleivo/assertive/assert"

	"github.com/asciigraph/mmdgrid/token"
)

func TestKindString(t *testing.T) {
	tests := map[string]struct {
		in   token.Kind
		want string
	}{
		"EOF":         {in: token.EOF, want: "EOF"},
		"ID":          {in: token.ID, want: "ID"},
		"Arrow":       {in: token.Arrow, want: "-->"},
		"BiDotted":    {in: token.BiDottedArrow, want: "<-.->"},
		"Subgraph":    {in: token.Subgraph, want: "subgraph"},
		"DirectionLR": {in: token.LR, want: "LR"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equalsf(t, test.in.String(), test.want, "Kind.String() for %v", test.in)
		})
	}
}

func TestLookup(t *testing.T) {
	tests := map[string]struct {
		in   string
		want token.Kind
	}{
		"LowercaseKeyword":   {in: "graph", want: token.Graph},
		"MixedCaseKeyword":   {in: "FlowChart", want: token.Flowchart},
		"DirectionTD":        {in: "td", want: token.TD},
		"DirectionTBAliasTD": {in: "TB", want: token.TD},
		"DirectionBT":        {in: "BT", want: token.BT},
		"PlainIdentifier":    {in: "myNode", want: token.ID},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equalsf(t, token.Lookup(test.in), test.want, "Lookup(%q)", test.in)
		})
	}
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, token.LeftBracket.IsTerminal())
	assert.True(t, !token.ID.IsTerminal())
	assert.True(t, token.Arrow.IsEdgeOperator())
	assert.True(t, token.BiThickArrow.IsEdgeOperator())
	assert.True(t, !token.Line.IsDirection())
	assert.True(t, token.RL.IsDirection())
}

func TestTokenString(t *testing.T) {
	idTok := token.Token{Type: token.ID, Literal: "start"}
	assert.Equalsf(t, idTok.String(), "start", "Token.String() for an ID token")

	arrowTok := token.Token{Type: token.Arrow}
	assert.Equalsf(t, arrowTok.String(), "-->", "Token.String() for an Arrow token")
}

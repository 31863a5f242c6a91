// Package token defines constants representing the lexical tokens of the Mermaid flowchart
// language together with operations like printing, detecting keywords or identifiers.
package token

import (
	"fmt"
	"strings"
)

// Kind represents the types of lexical tokens of the Mermaid flowchart language.
// Token kinds are powers of 2 and can be combined using bitwise OR to create
// token sets for efficient membership testing.
type Kind uint

const (
	ERROR Kind = 1 << iota
	// EOF is not part of the Mermaid language and is used to indicate the end of the file or
	// stream. No language token should follow the EOF token.
	EOF

	ID      // like A, start_node, "quoted label"
	Comment // like '%% a comment'

	LeftBracket  // [
	RightBracket // ]
	LeftParen    // (
	RightParen   // )
	LeftBrace    // {
	RightBrace   // }
	Pipe         // |
	Colon        // :

	// Edge operators, spanning spec.md's nine edge_type variants.
	Arrow         // -->
	Line          // ---
	DottedArrow   // -.->
	DottedLine    // -.-
	ThickArrow    // ==>
	ThickLine     // ===
	BiArrow       // <-->
	BiDottedArrow // <-.->
	BiThickArrow  // <==>

	// Keywords
	Graph     // graph
	Flowchart // flowchart
	Subgraph  // subgraph
	End       // end

	// Direction literals
	TD // TD or TB
	BT // BT
	LR // LR
	RL // RL
)

// terminalSet is the set of terminal symbols (punctuation and bracket delimiters).
const terminalSet = LeftBracket | RightBracket | LeftParen | RightParen | LeftBrace | RightBrace | Pipe | Colon

// edgeSet is the set of edge operator tokens.
const edgeSet = Arrow | Line | DottedArrow | DottedLine | ThickArrow | ThickLine | BiArrow | BiDottedArrow | BiThickArrow

// directionSet is the set of direction literal tokens.
const directionSet = TD | BT | LR | RL

// String returns the string representation of the token kind.
func (k Kind) String() string {
	switch k {
	case ERROR:
		return "ERROR"
	case EOF:
		return "EOF"
	case ID:
		return "ID"
	case Comment:
		return "COMMENT"
	case LeftBracket:
		return "["
	case RightBracket:
		return "]"
	case LeftParen:
		return "("
	case RightParen:
		return ")"
	case LeftBrace:
		return "{"
	case RightBrace:
		return "}"
	case Pipe:
		return "|"
	case Colon:
		return ":"
	case Arrow:
		return "-->"
	case Line:
		return "---"
	case DottedArrow:
		return "-.->"
	case DottedLine:
		return "-.-"
	case ThickArrow:
		return "==>"
	case ThickLine:
		return "==="
	case BiArrow:
		return "<-->"
	case BiDottedArrow:
		return "<-.->"
	case BiThickArrow:
		return "<==>"
	case Graph:
		return "graph"
	case Flowchart:
		return "flowchart"
	case Subgraph:
		return "subgraph"
	case End:
		return "end"
	case TD:
		return "TD"
	case BT:
		return "BT"
	case LR:
		return "LR"
	case RL:
		return "RL"
	default:
		panic(fmt.Sprintf("missing String() case for token.Kind: %d", k))
	}
}

// IsTerminal reports whether the token kind is a terminal symbol (bracket or punctuation).
func (k Kind) IsTerminal() bool {
	return k&terminalSet != 0
}

// IsEdgeOperator reports whether the token kind is one of the nine edge operators.
func (k Kind) IsEdgeOperator() bool {
	return k&edgeSet != 0
}

// IsDirection reports whether the token kind is a direction literal (TD, BT, LR, RL).
func (k Kind) IsDirection() bool {
	return k&directionSet != 0
}

// Token represents a token of the Mermaid flowchart language.
type Token struct {
	Type       Kind
	Literal    string
	Error      string // Error message for ERROR tokens, empty otherwise
	Start, End Position
}

// String returns the string representation of the token. For IDs, it returns the literal
// value. For other token kinds, it returns the token kind's string representation.
func (t Token) String() string {
	if t.Type == ID {
		return t.Literal
	}

	return t.Type.String()
}

func (t Token) IsKeyword() bool {
	switch t.Type {
	case Graph, Flowchart, Subgraph, End:
		return true
	default:
		return false
	}
}

// maxKeywordLen is the length of the longest Mermaid keyword which is "flowchart".
const maxKeywordLen = 9

// Lookup returns the token kind associated with the given identifier, which is either a
// Mermaid keyword, a direction literal, or a plain ID. Keywords and direction literals are
// matched case-insensitively, matching how Mermaid itself parses "TD"/"td"/"Td" alike.
func Lookup(identifier string) Kind {
	lower := strings.ToLower(identifier)
	switch lower {
	case "graph":
		return Graph
	case "flowchart":
		return Flowchart
	case "subgraph":
		return Subgraph
	case "end":
		return End
	case "td", "tb":
		return TD
	case "bt":
		return BT
	case "lr":
		return LR
	case "rl":
		return RL
	}
	if len(identifier) > maxKeywordLen {
		return ID
	}
	return ID
}

package mmdgrid

// Parser implements a recursive-descent parser for Mermaid flowchart source, producing the
// [ast.Graph] that spec.md §3 describes directly rather than an intermediate concrete syntax
// tree: nothing downstream needs a position-annotated parse tree, only the AST contract.
//
// The grammar implemented is:
//
//	graph        : ( 'graph' | 'flowchart' ) [ direction ] stmt_list
//	stmt_list    : { node_stmt | edge_stmt | subgraph_stmt }
//	node_stmt    : ID [ shape_open label shape_close ]
//	edge_stmt    : node_ref edge_op [ '|' label '|' ] node_ref
//	node_ref     : ID [ shape_open label shape_close ]
//	subgraph_stmt: 'subgraph' ID [ [ 'direction' ] direction ] stmt_list 'end'
//	direction    : 'TD' | 'BT' | 'LR' | 'RL'
//
// The parser is error-resilient in the same sense as the teacher's DOT parser: it collects all
// errors it encounters via [Parser.Errors] rather than aborting on the first one, though per
// spec.md §7 only the first error is surfaced to callers of [Render].

import (
	"fmt"
	"io"

	"github.com/asciigraph/mmdgrid/ast"
	"github.com/asciigraph/mmdgrid/internal/assert"
	"github.com/asciigraph/mmdgrid/token"
)

// Parser parses Mermaid flowchart source code into an [ast.Graph].
type Parser struct {
	scanner   *Scanner
	curToken  token.Token
	peekToken token.Token
	errors    []Error
}

// NewParser creates a new parser that reads Mermaid flowchart source from r. Returns an error if
// reading from r fails.
func NewParser(r io.Reader) (*Parser, error) {
	scanner, err := NewScanner(r)
	if err != nil {
		return nil, err
	}

	p := Parser{scanner: scanner}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	return &p, nil
}

// nextToken advances to the next non-comment token. Comments are skipped, matching the teacher's
// parser which also drops comments from its token stream.
//
// Returns an error only for terminal errors (I/O failures from the underlying reader).
func (p *Parser) nextToken() error {
	var tok token.Token
	var err error
	for tok, err = p.scanner.Next(); err == nil && tok.Type == token.Comment; tok, err = p.scanner.Next() {
	}
	if err != nil {
		if scanErr, ok := err.(Error); ok {
			// The scanner repeats the same error on every later call, so it is recorded once and
			// the token stream ends there.
			if p.peekToken.Type != token.EOF {
				p.errors = append(p.errors, scanErr)
			}
			p.curToken = p.peekToken
			p.peekToken = token.Token{Type: token.EOF}
			return nil
		}
		return err
	}

	p.curToken = p.peekToken
	p.peekToken = tok
	return nil
}

// Errors returns all scan and parse errors collected during parsing.
func (p *Parser) Errors() []Error {
	return p.errors
}

func (p *Parser) curTokenIs(kind token.Kind) bool  { return p.curToken.Type&kind != 0 }
func (p *Parser) peekTokenIs(kind token.Kind) bool { return p.peekToken.Type&kind != 0 }

// Parse parses the Mermaid flowchart source and returns its AST. Parse always returns a non-nil
// graph, even when errors were encountered; those are retrievable via [Parser.Errors]. The
// returned error is non-nil only for terminal (I/O) errors.
func (p *Parser) Parse() (*ast.Graph, error) {
	g := &ast.Graph{}

	if !p.curTokenIs(token.Graph | token.Flowchart) {
		p.errorf(p.curToken.Start, "expected %q or %q, got %s", token.Graph, token.Flowchart, p.curToken)
		return g, nil
	}
	g.GraphStart = p.curToken.Start
	if err := p.nextToken(); err != nil {
		return g, err
	}

	g.Direction = ast.TD
	if p.curTokenIs(token.TD | token.BT | token.LR | token.RL) {
		g.Direction = ast.DirectionFromToken(p.curToken.Type)
		if err := p.nextToken(); err != nil {
			return g, err
		}
	}

	stmts, end, err := p.parseStmtList(token.EOF)
	if err != nil {
		return g, err
	}
	g.Stmts = stmts
	g.End_ = end

	return g, nil
}

// parseStmtList parses statements until it sees a token in terminator (EOF, or [token.End] when
// parsing the body of a subgraph).
func (p *Parser) parseStmtList(terminator token.Kind) ([]ast.Stmt, token.Position, error) {
	var stmts []ast.Stmt
	var last token.Position

	for !p.curTokenIs(terminator) {
		if p.curTokenIs(token.EOF) {
			p.errorf(p.curToken.Start, "unexpected end of input, expected %s", terminator)
			return stmts, last, nil
		}

		switch {
		case p.curTokenIs(token.Subgraph):
			sg, err := p.parseSubgraph()
			if err != nil {
				return stmts, last, err
			}
			stmts = append(stmts, sg)
			last = sg.End()
		case p.curTokenIs(token.ID):
			stmt, err := p.parseNodeOrEdgeStmt()
			if err != nil {
				return stmts, last, err
			}
			if stmt == nil { // recovered from an error, try the next statement
				continue
			}
			stmts = append(stmts, stmt)
			last = stmt.End()
		default:
			p.errorf(p.curToken.Start, "unexpected token %s", p.curToken)
			if err := p.nextToken(); err != nil {
				return stmts, last, err
			}
		}
	}

	return stmts, last, nil
}

// parseNodeOrEdgeStmt parses a node_stmt or an edge_stmt; both begin with a node_ref.
func (p *Parser) parseNodeOrEdgeStmt() (ast.Stmt, error) {
	left, err := p.parseNodeRef()
	if err != nil {
		return nil, err
	}
	if left == nil {
		return nil, nil
	}

	if !p.curTokenIs(token.Arrow | token.Line | token.DottedArrow | token.DottedLine |
		token.ThickArrow | token.ThickLine | token.BiArrow | token.BiDottedArrow | token.BiThickArrow) {
		return &ast.NodeStmt{NodeID: left.NodeID, Shape: left.Shape, HasLabel: left.HasLabel, Label: left.Label, EndPos: left.EndPos}, nil
	}

	edgeType := ast.EdgeTypeFromToken(p.curToken.Type)
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	var label string
	var hasLabel bool
	if p.curTokenIs(token.Pipe) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if !p.curTokenIs(token.ID) {
			p.errorf(p.curToken.Start, "expected edge label, got %s", p.curToken)
		} else {
			label = p.curToken.Literal
			hasLabel = true
			if err := p.nextToken(); err != nil {
				return nil, err
			}
		}
		if !p.curTokenIs(token.Pipe) {
			p.errorf(p.curToken.Start, "expected closing %q after edge label, got %s", token.Pipe, p.curToken)
		} else if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	if !p.curTokenIs(token.ID) {
		p.errorf(p.curToken.Start, "expected node id after edge operator, got %s", p.curToken)
		return nil, nil
	}
	right, err := p.parseNodeRef()
	if err != nil {
		return nil, err
	}
	if right == nil {
		return nil, nil
	}

	return &ast.EdgeStmt{
		Left:     left.NodeID,
		Type:     edgeType,
		Label:    label,
		HasLabel: hasLabel,
		Right:    right.NodeID,
	}, nil
}

// nodeRef is the parsed form of a node_ref production: an id with an optional shape/label.
type nodeRef struct {
	NodeID   ast.ID
	Shape    ast.Shape
	HasLabel bool
	Label    string
	EndPos   token.Position
}

func (p *Parser) parseNodeRef() (*nodeRef, error) {
	assert.That(p.curTokenIs(token.ID), "parseNodeRef called with current token %s, expected ID", p.curToken)

	id := ast.ID{Literal: p.curToken.Literal, StartPos: p.curToken.Start, EndPos: p.curToken.End}
	end := id.EndPos
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	ref := &nodeRef{NodeID: id, Shape: ast.Rectangle, EndPos: end}

	var open, closeKind token.Kind
	switch {
	case p.curTokenIs(token.LeftBracket):
		open, closeKind = token.LeftBracket, token.RightBracket
		ref.Shape = ast.Rectangle
	case p.curTokenIs(token.LeftParen):
		open, closeKind = token.LeftParen, token.RightParen
		ref.Shape = ast.Rounded
	case p.curTokenIs(token.LeftBrace):
		open, closeKind = token.LeftBrace, token.RightBrace
		ref.Shape = ast.Diamond
	default:
		return ref, nil
	}

	if err := p.nextToken(); err != nil {
		return nil, err
	}

	// A((label)) with a doubled opening paren denotes spec.md's Circle shape.
	doubled := open == token.LeftParen && p.curTokenIs(token.LeftParen)
	if doubled {
		ref.Shape = ast.Circle
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	var label string
	if p.curTokenIs(token.ID) {
		label = p.curToken.Literal
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	if doubled {
		if !p.curTokenIs(token.RightParen) {
			p.errorf(p.curToken.Start, "expected closing %q for circle shape, got %s", token.RightParen, p.curToken)
		} else if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	if !p.curTokenIs(closeKind) {
		p.errorf(p.curToken.Start, "expected closing %q, got %s", closeKind, p.curToken)
	} else {
		end = p.curToken.End
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	ref.HasLabel = true
	ref.Label = label
	ref.EndPos = end

	return ref, nil
}

// parseSubgraph parses a subgraph_stmt: 'subgraph' ID [['direction'] direction] stmt_list 'end'.
func (p *Parser) parseSubgraph() (*ast.SubgraphStmt, error) {
	assert.That(p.curTokenIs(token.Subgraph), "parseSubgraph called with current token %s, expected subgraph", p.curToken)
	sg := &ast.SubgraphStmt{SubgraphStart: p.curToken.Start}
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	if !p.curTokenIs(token.ID) {
		p.errorf(p.curToken.Start, "expected subgraph identifier, got %s", p.curToken)
	} else {
		sg.ID = ast.ID{Literal: p.curToken.Literal, StartPos: p.curToken.Start, EndPos: p.curToken.End}
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	if p.curTokenIs(token.ID) && p.curToken.Literal == "direction" && p.peekTokenIs(token.TD|token.BT|token.LR|token.RL) {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}
	if p.curTokenIs(token.TD | token.BT | token.LR | token.RL) {
		sg.HasDirection = true
		sg.Direction = ast.DirectionFromToken(p.curToken.Type)
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	stmts, _, err := p.parseStmtList(token.End)
	if err != nil {
		return nil, err
	}
	sg.Stmts = stmts

	if !p.curTokenIs(token.End) {
		p.errorf(p.curToken.Start, "expected %q to close subgraph, got %s", token.End, p.curToken)
	} else {
		sg.EndPos = p.curToken.End
		if err := p.nextToken(); err != nil {
			return nil, err
		}
	}

	return sg, nil
}

func (p *Parser) errorf(pos token.Position, format string, args ...any) {
	p.errors = append(p.errors, Error{Line: pos.Line, Column: pos.Column, Reason: fmt.Sprintf(format, args...)})
}

// Package mmdgrid renders Mermaid flowchart source into a 2D character-grid diagram.
package mmdgrid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"unicode"

	"github.com/asciigraph/mmdgrid/token"
)

// Scanner tokenizes Mermaid flowchart source code into a stream of tokens.
type Scanner struct {
	r         *bufio.Reader
	cur       rune
	curLine   int
	curColumn int
	next      rune
	eof       bool
	err       error
}

// NewScanner creates a new scanner that reads Mermaid flowchart source from r. Returns an error
// if the scanner cannot be initialized.
func NewScanner(r io.Reader) (*Scanner, error) {
	sc := Scanner{
		r:       bufio.NewReader(r),
		curLine: 1,
	}

	// Two readRune calls are needed to fill the cur and next runes.
	if err := sc.readRune(); err != nil {
		return nil, err
	}
	if err := sc.readRune(); err != nil {
		return nil, err
	}
	sc.curColumn = 1

	return &sc, nil
}

const (
	maxIdentifierLen = 4096
	unterminatedQuote = "missing closing quote"
	illegalCharErr    = "unexpected character"
)

// Next advances the scanner's position by one token and returns it. The scanner stops trying to
// tokenize more tokens on the first error it encounters. A token of type [token.EOF] is returned
// once the underlying reader is exhausted and the peek token has been consumed.
func (sc *Scanner) Next() (token.Token, error) {
	var tok token.Token
	var err error

	sc.skipWhitespace()
	if sc.err != nil {
		return tok, sc.err
	}
	if sc.isEOF() {
		tok.Type = token.EOF
		return tok, nil
	}

	switch {
	case sc.cur == '[':
		tok = sc.tokenizeRuneAs(token.LeftBracket)
	case sc.cur == ']':
		tok = sc.tokenizeRuneAs(token.RightBracket)
	case sc.cur == '(':
		tok = sc.tokenizeRuneAs(token.LeftParen)
	case sc.cur == ')':
		tok = sc.tokenizeRuneAs(token.RightParen)
	case sc.cur == '{':
		tok = sc.tokenizeRuneAs(token.LeftBrace)
	case sc.cur == '}':
		tok = sc.tokenizeRuneAs(token.RightBrace)
	case sc.cur == '|':
		tok = sc.tokenizeRuneAs(token.Pipe)
	case sc.cur == ':':
		tok = sc.tokenizeRuneAs(token.Colon)
	case sc.cur == '%' && sc.next == '%':
		tok, err = sc.tokenizeComment()
	case sc.cur == '"':
		tok, err = sc.tokenizeQuotedString()
	case isEdgeStart(sc.cur):
		tok, err = sc.tokenizeEdgeOperator()
		// tokenizeEdgeOperator already advances past the operator.
		if err != nil {
			sc.err = err
		}
		return tok, err
	case isStartOfIdentifier(sc.cur):
		tok, err = sc.tokenizeIdentifier()
		// tokenizeIdentifier already advances past the identifier.
		if err != nil {
			sc.err = err
		}
		return tok, err
	default:
		pos := token.Position{Line: sc.curLine, Column: sc.curColumn}
		err = sc.error(illegalCharErr)
		tok = token.Token{Type: token.ERROR, Literal: string(sc.cur), Start: pos, End: pos, Error: err.Error()}
	}

	if err != nil {
		sc.err = err
		return tok, err
	}

	if err = sc.readRune(); err != nil {
		return tok, err
	}
	return tok, nil
}

func (sc *Scanner) readRune() error {
	if sc.isDone() {
		return sc.err
	}

	r, _, err := sc.r.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			sc.err = fmt.Errorf("mmdgrid: failed to read rune: %w", err)
			return sc.err
		}
		sc.eof = true
	}

	if sc.cur == '\n' {
		sc.curLine++
		sc.curColumn = 1
	} else if sc.cur != 0 {
		sc.curColumn++
	}
	sc.cur = sc.next
	sc.next = r
	return nil
}

func (sc *Scanner) skipWhitespace() {
	for isWhitespace(sc.cur) {
		if err := sc.readRune(); err != nil {
			return
		}
	}
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

func (sc *Scanner) hasNext() bool {
	return !sc.eof || sc.cur != 0
}

func (sc *Scanner) isDone() bool {
	return sc.isEOF() || sc.err != nil
}

func (sc *Scanner) isEOF() bool {
	return !sc.hasNext()
}

func (sc *Scanner) tokenizeRuneAs(kind token.Kind) token.Token {
	pos := token.Position{Line: sc.curLine, Column: sc.curColumn}
	return token.Token{Type: kind, Literal: string(sc.cur), Start: pos, End: pos}
}

// tokenizeComment consumes a '%%' comment up to (not including) the line break.
func (sc *Scanner) tokenizeComment() (token.Token, error) {
	start := token.Position{Line: sc.curLine, Column: sc.curColumn}
	var end token.Position
	var comment []rune

	var err error
	for ; sc.hasNext() && err == nil && sc.cur != '\n'; err = sc.readRune() {
		end = token.Position{Line: sc.curLine, Column: sc.curColumn}
		comment = append(comment, sc.cur)
	}
	if err != nil {
		var tok token.Token
		return tok, err
	}

	return token.Token{Type: token.Comment, Literal: string(comment), Start: start, End: end}, nil
}

// isEdgeStart reports whether r can begin one of the nine edge operators.
func isEdgeStart(r rune) bool {
	return r == '-' || r == '=' || r == '<'
}

// tokenizeEdgeOperator scans one of spec.md's nine edge operators:
// --> --- -.-> -.- ==> === <--> <-.-> <==>
func (sc *Scanner) tokenizeEdgeOperator() (token.Token, error) {
	start := token.Position{Line: sc.curLine, Column: sc.curColumn}
	var runes []rune
	bidirectional := sc.cur == '<'
	if bidirectional {
		runes = append(runes, sc.cur)
		if err := sc.readRune(); err != nil {
			var tok token.Token
			return tok, err
		}
	}

	if sc.cur != '-' && sc.cur != '=' {
		var tok token.Token
		return tok, sc.error("expected '-' or '=' to begin an edge operator")
	}
	lineChar := sc.cur
	thick := lineChar == '='
	runes = append(runes, sc.cur)
	if err := sc.readRune(); err != nil {
		var tok token.Token
		return tok, err
	}

	dotted := false
	if !thick && sc.cur == '.' {
		dotted = true
		runes = append(runes, sc.cur)
		if err := sc.readRune(); err != nil {
			var tok token.Token
			return tok, err
		}
	}

	if sc.cur != lineChar {
		var tok token.Token
		return tok, sc.error(fmt.Sprintf("expected %q to continue an edge operator", lineChar))
	}
	runes = append(runes, sc.cur)
	end := token.Position{Line: sc.curLine, Column: sc.curColumn}
	if err := sc.readRune(); err != nil {
		var tok token.Token
		return tok, err
	}

	arrow := sc.cur == '>'
	if arrow {
		runes = append(runes, sc.cur)
		end = token.Position{Line: sc.curLine, Column: sc.curColumn}
		if err := sc.readRune(); err != nil {
			var tok token.Token
			return tok, err
		}
	}

	if !arrow && !dotted && sc.cur == lineChar {
		runes = append(runes, sc.cur)
		end = token.Position{Line: sc.curLine, Column: sc.curColumn}
		if err := sc.readRune(); err != nil {
			var tok token.Token
			return tok, err
		}
	}

	kind, err := edgeOperatorKind(bidirectional, thick, dotted, arrow)
	if err != nil {
		var tok token.Token
		return tok, sc.error(err.Error())
	}

	return token.Token{Type: kind, Literal: string(runes), Start: start, End: end}, nil
}

func edgeOperatorKind(bidirectional, thick, dotted, arrow bool) (token.Kind, error) {
	switch {
	case bidirectional && thick && !dotted && arrow:
		return token.BiThickArrow, nil
	case bidirectional && dotted && arrow:
		return token.BiDottedArrow, nil
	case bidirectional && !thick && !dotted && arrow:
		return token.BiArrow, nil
	case thick && arrow:
		return token.ThickArrow, nil
	case thick && !arrow:
		return token.ThickLine, nil
	case dotted && arrow:
		return token.DottedArrow, nil
	case dotted && !arrow:
		return token.DottedLine, nil
	case !thick && !dotted && arrow:
		return token.Arrow, nil
	case !thick && !dotted && !arrow:
		return token.Line, nil
	default:
		return 0, errors.New("not a valid edge operator")
	}
}

func isStartOfIdentifier(r rune) bool {
	return r == '_' || isAlphabetic(r) || unicode.IsDigit(r)
}

// isAlphabetic accepts ASCII letters as well as any other printable, non-ASCII rune, matching
// how Mermaid node ids are typically written.
func isAlphabetic(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '\200' && unicode.IsPrint(r))
}

func (sc *Scanner) tokenizeIdentifier() (token.Token, error) {
	start := token.Position{Line: sc.curLine, Column: sc.curColumn}
	var end token.Position
	var id []rune

	var err error
	for ; sc.hasNext() && err == nil && !isIdentifierSeparator(sc.cur); err = sc.readRune() {
		end = token.Position{Line: sc.curLine, Column: sc.curColumn}
		id = append(id, sc.cur)
		if len(id) > maxIdentifierLen {
			var tok token.Token
			return tok, sc.error(fmt.Sprintf("identifier exceeds maximum length of %d characters", maxIdentifierLen))
		}
	}
	if err != nil {
		var tok token.Token
		return tok, err
	}

	literal := string(id)
	return token.Token{Type: token.Lookup(literal), Literal: literal, Start: start, End: end}, nil
}

// isIdentifierSeparator reports whether r terminates a bare identifier: whitespace, a bracket
// delimiter, the pipe used for edge labels, a colon, or the start of an edge operator.
func isIdentifierSeparator(r rune) bool {
	return isWhitespace(r) || r == '[' || r == ']' || r == '(' || r == ')' || r == '{' || r == '}' ||
		r == '|' || r == ':' || r == '-' || r == '=' || r == '<' || r == '"'
}

func (sc *Scanner) tokenizeQuotedString() (token.Token, error) {
	start := token.Position{Line: sc.curLine, Column: sc.curColumn}
	var end token.Position
	var id []rune
	closed := false

	if err := sc.readRune(); err != nil { // consume opening quote
		var tok token.Token
		return tok, err
	}

	var err error
	for ; sc.hasNext() && err == nil; err = sc.readRune() {
		if sc.cur == '"' {
			closed = true
			end = token.Position{Line: sc.curLine, Column: sc.curColumn}
			err = sc.readRune() // consume closing quote
			break
		}
		end = token.Position{Line: sc.curLine, Column: sc.curColumn}
		id = append(id, sc.cur)
	}
	if err != nil {
		var tok token.Token
		return tok, err
	}
	if !closed {
		var tok token.Token
		return tok, sc.error(unterminatedQuote)
	}

	return token.Token{Type: token.ID, Literal: string(id), Start: start, End: end}, nil
}

func (sc *Scanner) error(reason string) Error {
	return Error{Line: sc.curLine, Column: sc.curColumn, Character: sc.cur, Reason: reason}
}

// Error represents a scanning or parsing error in Mermaid flowchart source code. It implements
// spec.md's ParseError.
type Error struct {
	Line      int
	Column    int
	Character rune
	Reason    string
}

// Error returns a formatted error message with line and column position, matching the
// "line:column: reason" format spec.md's ParseError documents.
func (e Error) Error() string {
	if e.Character == 0 {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("%d:%d: illegal character %#U: %s", e.Line, e.Column, e.Character, e.Reason)
}

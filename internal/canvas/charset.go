package canvas

// Glyph renders an Arms mask for family fam into its box-drawing glyph. Exported for the
// Renderer's exit-stub overwrite step (spec.md §4.6 phase 6), which computes a merged glyph by
// hand rather than through [Canvas.PutArms]'s running merge.
func Glyph(fam Family, a Arms, ascii bool) rune {
	return glyphFor(fam, a, ascii)
}

// glyphFor renders an Arms mask for family fam into its box-drawing glyph, per spec.md §4.5's
// merge table. Unset corners never occur for Arms produced by painted line segments (only two or
// more bits set map to corners/tees/crosses); a single bit maps to a straight stub.
func glyphFor(fam Family, a Arms, ascii bool) rune {
	if ascii {
		return asciiGlyph(a)
	}
	switch fam {
	case Dotted:
		return dottedGlyph(a)
	case Thick:
		return thickGlyph(a)
	default:
		return solidGlyph(a)
	}
}

func solidGlyph(a Arms) rune {
	switch a {
	case Up | Down:
		return '│'
	case Left | Right:
		return '─'
	case Down | Right:
		return '┌'
	case Down | Left:
		return '┐'
	case Up | Right:
		return '└'
	case Up | Left:
		return '┘'
	case Up | Down | Right:
		return '├'
	case Up | Down | Left:
		return '┤'
	case Down | Left | Right:
		return '┬'
	case Up | Left | Right:
		return '┴'
	case Up | Down | Left | Right:
		return '┼'
	case Up:
		return '│'
	case Down:
		return '│'
	case Left:
		return '─'
	case Right:
		return '─'
	default:
		return ' '
	}
}

func dottedGlyph(a Arms) rune {
	switch a {
	case Up | Down, Up, Down:
		return '╎'
	case Left | Right, Left, Right:
		return '╌'
	default:
		return solidGlyph(a)
	}
}

func thickGlyph(a Arms) rune {
	switch a {
	case Up | Down:
		return '┃'
	case Left | Right:
		return '━'
	case Down | Right:
		return '┏'
	case Down | Left:
		return '┓'
	case Up | Right:
		return '┗'
	case Up | Left:
		return '┛'
	case Up | Down | Right:
		return '┣'
	case Up | Down | Left:
		return '┫'
	case Down | Left | Right:
		return '┳'
	case Up | Left | Right:
		return '┻'
	case Up | Down | Left | Right:
		return '╋'
	case Up:
		return '┃'
	case Down:
		return '┃'
	case Left:
		return '━'
	case Right:
		return '━'
	default:
		return ' '
	}
}

func asciiGlyph(a Arms) rune {
	switch {
	case a&(Up|Down) != 0 && a&(Left|Right) == 0:
		return '|'
	case a&(Left|Right) != 0 && a&(Up|Down) == 0:
		return '-'
	case a != 0:
		return '+'
	default:
		return ' '
	}
}

// Corner glyphs per node shape, per spec.md §4.6 phase 3. ASCII falls back to a plain rectangle
// box for every shape; Mermaid's shape distinction still carries through to rendered width (the
// extra two columns spec.md's measure step adds for Diamond/Circle).
type Corners struct {
	TopLeft, TopRight, BottomLeft, BottomRight rune
	Horizontal, Vertical                       rune
}

func CornersFor(shapeDiamond, shapeCircle, shapeRounded bool, ascii bool) Corners {
	if ascii {
		return Corners{TopLeft: '+', TopRight: '+', BottomLeft: '+', BottomRight: '+', Horizontal: '-', Vertical: '|'}
	}
	switch {
	case shapeCircle:
		return Corners{TopLeft: '(', TopRight: ')', BottomLeft: '(', BottomRight: ')', Horizontal: '─', Vertical: '│'}
	case shapeDiamond:
		return Corners{TopLeft: '/', TopRight: '\\', BottomLeft: '\\', BottomRight: '/', Horizontal: '─', Vertical: '│'}
	case shapeRounded:
		return Corners{TopLeft: '╭', TopRight: '╮', BottomLeft: '╰', BottomRight: '╯', Horizontal: '─', Vertical: '│'}
	default:
		return Corners{TopLeft: '┌', TopRight: '┐', BottomLeft: '└', BottomRight: '┘', Horizontal: '─', Vertical: '│'}
	}
}

// Arrowhead glyphs, per spec.md §4.6 phase 5: one cell outside the target box, oriented by the
// direction of approach.
func ArrowheadFor(dir Arms, ascii bool) rune {
	if ascii {
		switch dir {
		case Up:
			return '^'
		case Down:
			return 'v'
		case Left:
			return '<'
		default:
			return '>'
		}
	}
	switch dir {
	case Up:
		return '▲'
	case Down:
		return '▼'
	case Left:
		return '◄'
	default:
		return '►'
	}
}

// Package render implements spec.md §4.6: the seven-phase painter that turns a routed
// [layout.Result] into the final character grid and flattens it to text.
package render

import (
	"slices"

	"github.com/asciigraph/mmdgrid/ast"
	"github.com/asciigraph/mmdgrid/internal/canvas"
	"github.com/asciigraph/mmdgrid/internal/layout"
	"github.com/asciigraph/mmdgrid/internal/router"
)

// Render paints res and its routed edges onto a canvas and returns the flattened text, per
// spec.md §4.6's seven phases. BT and RL are painted as if they were TD/LR respectively (the
// Sugiyama layout already assigns axis-correct coordinates for every direction) and then
// corrected by a canvas-level post-transform: BT reverses row order, RL reverses column order,
// both with a matching box-drawing glyph remap. LR needs no post-transform.
func Render(res *layout.Result, routed []router.RoutedEdge, ascii bool) string {
	w, h := bounds(res, routed)
	c := canvas.New(max(w, 1), max(h, 1), ascii)

	for _, sg := range res.Subgraphs {
		paintSubgraphBorder(c, sg, ascii)
	}
	for _, n := range res.Nodes {
		paintNode(c, n, ascii)
	}
	for i, e := range routed {
		// Edges sharing both endpoints and the dummy chain are painted once, as the first one.
		dup := false
		for _, prev := range routed[:i] {
			if prev.From == e.From && prev.To == e.To && slices.Equal(prev.Edge.DummyChain, e.Edge.DummyChain) {
				dup = true
				break
			}
		}
		if !dup {
			paintEdge(c, e, ascii)
		}
	}
	paintExitStubs(c, res, routed, ascii)

	switch res.Direction {
	case ast.BT:
		c.ReverseRows(remapVertical)
	case ast.RL:
		c.ReverseColumns(remapHorizontal)
	}
	return c.ToString()
}

// bounds finds the furthest painted coordinate across nodes, subgraph borders, and routed
// waypoints, per spec.md §4.4: the canvas is "dynamically sized to fit the maximum painted
// coordinate". Routed waypoints can extend past layout.Result's own Width/Height — a self-loop's
// one-cell-wide excursion runs one column to the right of its node's box.
func bounds(res *layout.Result, routed []router.RoutedEdge) (int, int) {
	maxX, maxY := res.Width, res.Height
	for _, e := range routed {
		for _, p := range e.Waypoints {
			if p.X+1 > maxX {
				maxX = p.X + 1
			}
			if p.Y+1 > maxY {
				maxY = p.Y + 1
			}
		}
	}
	return maxX, maxY
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func paintSubgraphBorder(c *canvas.Canvas, sg layout.SubgraphBox, ascii bool) {
	corners := canvas.CornersFor(false, false, false, ascii)
	drawBox(c, sg.X, sg.Y, sg.Width, sg.Height, corners)
	if sg.Label != "" {
		c.PutString(sg.X+2, sg.Y, sg.Label)
	}
}

func paintNode(c *canvas.Canvas, n layout.Node, ascii bool) {
	corners := canvas.CornersFor(n.Shape == ast.Diamond, n.Shape == ast.Circle, n.Shape == ast.Rounded, ascii)
	drawBox(c, n.X, n.Y, n.Width, n.Height, corners)

	lines := splitLines(n.Label)
	top := n.Y + (n.Height-len(lines))/2
	for i, line := range lines {
		pad := (n.Width - runeCount(line)) / 2
		c.PutString(n.X+pad, top+i, line)
	}
}

func drawBox(c *canvas.Canvas, x, y, w, h int, corners canvas.Corners) {
	c.Put(x, y, corners.TopLeft)
	c.Put(x+w-1, y, corners.TopRight)
	c.Put(x, y+h-1, corners.BottomLeft)
	c.Put(x+w-1, y+h-1, corners.BottomRight)
	for i := 1; i < w-1; i++ {
		c.Put(x+i, y, corners.Horizontal)
		c.Put(x+i, y+h-1, corners.Horizontal)
	}
	for i := 1; i < h-1; i++ {
		c.Put(x, y+i, corners.Vertical)
		c.Put(x+w-1, y+i, corners.Vertical)
	}
}

// paintExitStubs implements spec.md §4.6 phase 6: on each source box border cell where an edge
// departs, overwrite the plain ─/│ border glyph with the stub tee ┬/┴/├/┤ (never ┼). This is a
// targeted write, not an Arms OR-merge: the border's own two arms (the axis running along the
// side the edge exits from) plus the single arm pointing away from the box, excluding the arm
// that would point back into the box interior.
func paintExitStubs(c *canvas.Canvas, res *layout.Result, routed []router.RoutedEdge, ascii bool) {
	byID := make(map[string]layout.Node, len(res.Nodes))
	for _, n := range res.Nodes {
		byID[n.ID] = n
	}
	for _, e := range routed {
		if len(e.Waypoints) == 0 {
			continue
		}
		n, ok := byID[e.From]
		if !ok {
			continue
		}
		x, y, arms, ok := exitBorderCell(n, e.Waypoints[0])
		if !ok {
			continue
		}
		c.Put(x, y, canvas.Glyph(canvas.Solid, arms, ascii))
	}
}

// exitBorderCell locates the border cell a departing edge's first waypoint p sits just outside
// of, and the arms the stub glyph there must carry: the border's own axis plus the direction of
// departure, per spec.md §4.5 ("the arms deliberately exclude the border direction").
func exitBorderCell(n layout.Node, p layout.Point) (int, int, canvas.Arms, bool) {
	switch {
	case p.Y == n.Y-1:
		return p.X, n.Y, canvas.Left | canvas.Right | canvas.Up, true
	case p.Y == n.Y+n.Height:
		return p.X, n.Y + n.Height - 1, canvas.Left | canvas.Right | canvas.Down, true
	case p.X == n.X-1:
		return n.X, p.Y, canvas.Up | canvas.Down | canvas.Left, true
	case p.X == n.X+n.Width:
		return n.X + n.Width - 1, p.Y, canvas.Up | canvas.Down | canvas.Right, true
	default:
		return 0, 0, 0, false
	}
}

func paintEdge(c *canvas.Canvas, e router.RoutedEdge, ascii bool) {
	fam := familyFor(e.Edge.Type)
	pts := e.Waypoints
	if len(pts) < 2 {
		return
	}

	for i := 0; i < len(pts)-1; i++ {
		paintSegment(c, pts[i], pts[i+1], fam)
	}

	last := pts[len(pts)-1]
	prev := pts[len(pts)-2]
	dir := travelDir(prev, last)
	if e.Edge.Type.HasArrow() {
		c.Put(last.X, last.Y, canvas.ArrowheadFor(dir, ascii))
	}
	if e.Edge.Type.Bidirectional() {
		first := pts[0]
		second := pts[1]
		c.Put(first.X, first.Y, canvas.ArrowheadFor(opposite(travelDir(first, second)), ascii))
	}

	if e.Edge.HasLabel && e.Edge.Label != "" {
		mid := pts[len(pts)/2]
		labelY := mid.Y - 1
		c.PutString(mid.X-runeCount(e.Edge.Label)/2, labelY, e.Edge.Label)
	}
}

func paintSegment(c *canvas.Canvas, a, b layout.Point, fam canvas.Family) {
	if a.X == b.X {
		step := 1
		if b.Y < a.Y {
			step = -1
		}
		for y := a.Y; y != b.Y; y += step {
			arms := canvas.Up | canvas.Down
			if y == a.Y {
				arms = oneDir(step, true)
			}
			c.PutArms(a.X, y, fam, arms)
		}
		c.PutArms(b.X, b.Y, fam, oneDir(step, false))
		return
	}
	step := 1
	if b.X < a.X {
		step = -1
	}
	for x := a.X; x != b.X; x += step {
		arms := canvas.Left | canvas.Right
		if x == a.X {
			arms = oneDirH(step, true)
		}
		c.PutArms(x, a.Y, fam, arms)
	}
	c.PutArms(b.X, a.Y, fam, oneDirH(step, false))
}

func oneDir(step int, start bool) canvas.Arms {
	if step > 0 {
		if start {
			return canvas.Down
		}
		return canvas.Up
	}
	if start {
		return canvas.Up
	}
	return canvas.Down
}

func oneDirH(step int, start bool) canvas.Arms {
	if step > 0 {
		if start {
			return canvas.Right
		}
		return canvas.Left
	}
	if start {
		return canvas.Left
	}
	return canvas.Right
}

func travelDir(a, b layout.Point) canvas.Arms {
	switch {
	case b.Y > a.Y:
		return canvas.Down
	case b.Y < a.Y:
		return canvas.Up
	case b.X > a.X:
		return canvas.Right
	default:
		return canvas.Left
	}
}

func opposite(a canvas.Arms) canvas.Arms {
	switch a {
	case canvas.Up:
		return canvas.Down
	case canvas.Down:
		return canvas.Up
	case canvas.Left:
		return canvas.Right
	default:
		return canvas.Left
	}
}

func familyFor(t ast.EdgeType) canvas.Family {
	switch t {
	case ast.EdgeDottedLine, ast.EdgeDottedArrow, ast.EdgeBiDottedArrow:
		return canvas.Dotted
	case ast.EdgeThickLine, ast.EdgeThickArrow, ast.EdgeBiThickArrow:
		return canvas.Thick
	default:
		return canvas.Solid
	}
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// remapVertical swaps a glyph whose meaning flips under a top/bottom mirror, for BT's
// post-transform.
func remapVertical(r rune) rune {
	switch r {
	case '▼':
		return '▲'
	case '▲':
		return '▼'
	case '┌':
		return '└'
	case '└':
		return '┌'
	case '┐':
		return '┘'
	case '┘':
		return '┐'
	case '╭':
		return '╰'
	case '╰':
		return '╭'
	case '╮':
		return '╯'
	case '╯':
		return '╮'
	case '┬':
		return '┴'
	case '┴':
		return '┬'
	default:
		return r
	}
}

// remapHorizontal swaps glyphs whose meaning flips under a left/right mirror, for RL's
// post-transform.
func remapHorizontal(r rune) rune {
	switch r {
	case '►':
		return '◄'
	case '◄':
		return '►'
	case '┌':
		return '┐'
	case '┐':
		return '┌'
	case '└':
		return '┘'
	case '┘':
		return '└'
	case '╭':
		return '╮'
	case '╮':
		return '╭'
	case '╰':
		return '╯'
	case '╯':
		return '╰'
	case '├':
		return '┤'
	case '┤':
		return '├'
	default:
		return r
	}
}

package mmdgrid

import (
	"io"
	"log/slog"
	"strings"

	"github.com/asciigraph/mmdgrid/ast"
	"github.com/asciigraph/mmdgrid/internal/layout"
	"github.com/asciigraph/mmdgrid/internal/render"
	"github.com/asciigraph/mmdgrid/internal/router"
)

// RenderConfig holds the options controlling how Render lays out and paints a diagram, per
// spec.md §6.
type RenderConfig struct {
	ascii         bool
	direction     *ast.Direction
	padding       int
	routeWithAStar bool
	log           *slog.Logger
}

// Option configures a [RenderConfig], in the functional-options style used throughout this
// module's configuration surface.
type Option func(*RenderConfig)

// WithASCII selects the plain-ASCII charset (+, -, |) instead of Unicode box-drawing glyphs.
func WithASCII() Option {
	return func(c *RenderConfig) { c.ascii = true }
}

// WithDirection overrides the diagram's top-level direction, ignoring any direction declared in
// the source.
func WithDirection(d ast.Direction) Option {
	return func(c *RenderConfig) { c.direction = &d }
}

// WithPadding sets the horizontal padding, in cells, inside every node box on each side of its
// label. The default is 1.
func WithPadding(n int) Option {
	return func(c *RenderConfig) { c.padding = n }
}

// WithAStarRouting enables the A* grid router (spec.md §4.3) instead of the default
// orthogonal-waypoint router. A* produces tighter routing around occupied cells at the cost of
// search time, and silently falls back to orthogonal waypoints per edge if the search is
// exhausted.
func WithAStarRouting() Option {
	return func(c *RenderConfig) { c.routeWithAStar = true }
}

// WithLogger sets the logger that receives spec.md §7's two debug-level events: implicit node
// declaration (ReferenceError) and A* routing fallback (RoutingFallback). A nil logger, the
// default, discards these events.
func WithLogger(log *slog.Logger) Option {
	return func(c *RenderConfig) { c.log = log }
}

// Render parses source as a Mermaid flowchart and renders it into a 2D character-grid diagram,
// returning the finished text. The only error Render returns is a [Error] from the first parse
// failure encountered (spec.md §7's ParseError); reference and layout issues are handled
// internally and never surface as errors.
func Render(source string, opts ...Option) (string, error) {
	cfg := RenderConfig{padding: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p, err := NewParser(strings.NewReader(source))
	if err != nil {
		return "", err
	}
	g, err := p.Parse()
	if err != nil {
		return "", err
	}
	if errs := p.Errors(); len(errs) > 0 {
		return "", errs[0]
	}

	ir, err := buildGraphIR(g, log)
	if err != nil {
		return "", err
	}

	direction := g.Direction
	if cfg.direction != nil {
		direction = *cfg.direction
	}

	res := layout.Layout(ir, direction, layout.Config{Padding: cfg.padding})

	mode := router.Orthogonal
	if cfg.routeWithAStar {
		mode = router.AStar
	}
	routed := router.Route(res, mode, func(from, to string) {
		log.Debug("edge routing fell back to orthogonal waypoints", "from", from, "to", to)
	})

	return render.Render(res, routed, cfg.ascii), nil
}

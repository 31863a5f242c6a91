package mmdgrid

import (
	"fmt"
	"log/slog"

	"github.com/asciigraph/mmdgrid/ast"
	"github.com/asciigraph/mmdgrid/internal/graphir"
)

// buildGraphIR converts a parsed [ast.Graph] into a [graphir.Graph], applying spec.md §7's
// ReferenceError policy: an edge mentioning an undeclared id implicitly declares a bare
// Rectangle node labeled with that id, logged at debug level rather than raised as an error.
func buildGraphIR(g *ast.Graph, log *slog.Logger) (*graphir.Graph, error) {
	ir := graphir.New()

	var walk func(stmts []ast.Stmt, parentSG string)
	declare := func(id string, shape ast.Shape, label string, parentSG string) {
		if ir.HasNode(id) {
			return
		}
		_ = ir.AddNode(id, graphir.NodeMeta{Label: label, Shape: shape})
		if parentSG != "" {
			ir.AddMember(parentSG, id)
		}
	}
	ensureDeclared := func(id, parentSG string) {
		if ir.HasNode(id) {
			return
		}
		log.Debug("implicit node declaration for undeclared id", "id", id)
		declare(id, ast.Rectangle, id, parentSG)
	}

	walk = func(stmts []ast.Stmt, parentSG string) {
		for _, stmt := range stmts {
			switch s := stmt.(type) {
			case *ast.NodeStmt:
				label := s.NodeID.Literal
				if s.HasLabel {
					label = s.Label
				}
				declare(s.NodeID.Literal, s.Shape, label, parentSG)
			case *ast.EdgeStmt:
				ensureDeclared(s.Left.Literal, parentSG)
				ensureDeclared(s.Right.Literal, parentSG)
				_, err := ir.AddEdge(s.Left.Literal, s.Right.Literal, graphir.EdgeMeta{
					Type:     s.Type,
					Label:    s.Label,
					HasLabel: s.HasLabel,
				})
				if err != nil {
					// Both endpoints were just ensured above; this would be an implementation bug.
					panic(fmt.Errorf("mmdgrid: %w", err))
				}
			case *ast.SubgraphStmt:
				id := s.ID.Literal
				label := s.ID.Literal
				if s.HasTitle {
					label = s.Title
				}
				var dir *ast.Direction
				if s.HasDirection {
					d := s.Direction
					dir = &d
				}
				ir.AddSubgraph(id, parentSG, label, dir)
				walk(s.Stmts, id)
			}
		}
	}

	walk(g.Stmts, "")
	return ir, nil
}

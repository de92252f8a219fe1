package diff

import (
	"fmt"
	"io"

	"github.com/odvcencio/cildiff/pkg/cil"
	"github.com/odvcencio/cildiff/pkg/compare"
)

// Print writes the tree's differences as commented CIL, children before
// the level's own diffs so nested findings come out innermost-last per
// branch. Every diff carries both ancestor context chains so it can be
// located in either input.
func Print(n *Node, w io.Writer) {
	for _, child := range n.Children {
		Print(child, w)
	}
	for i := range n.Diffs {
		printDiff(n, &n.Diffs[i], w)
	}
}

func printDiff(parent *Node, d *Diff, w io.Writer) {
	if d.Side == compare.SideLeft {
		fmt.Fprintln(w, "; Deletion found")
	} else {
		fmt.Fprintln(w, "; Addition found")
	}
	if d.Description != "" {
		fmt.Fprintf(w, "; Description: %s\n", d.Description)
	}
	fmt.Fprintf(w, "; Hash: %s\n", d.Node.Full)
	fmt.Fprintln(w, "; Left context:")
	printContext(compare.SideLeft, parent, w)
	fmt.Fprintln(w, "; Right context:")
	printContext(compare.SideRight, parent, w)
	if d.Side == compare.SideLeft {
		fmt.Fprintln(w, "; ---")
	} else {
		fmt.Fprintln(w, "; +++")
	}
	fmt.Fprint(w, statementBody(d.Node.AST))
	fmt.Fprintln(w, "; ===")
}

// printContext walks the ancestor chain outermost-first, naming the matched
// container and its line on the requested side.
func printContext(side compare.Side, n *Node, w io.Writer) {
	if n.Parent != nil {
		printContext(side, n.Parent, w)
	}
	node := n.Left
	if side == compare.SideRight {
		node = n.Right
	}
	fmt.Fprintf(w, "; \t%s node on line %d\n", node.AST.Flavor, node.AST.Line)
}

// statementBody renders a diffed statement. Containers print with their
// whole body, except the class family whose member permissions say nothing
// beyond the declaration.
func statementBody(ast *cil.Node) string {
	switch ast.Flavor {
	case cil.FlavorClass, cil.FlavorCommon, cil.FlavorClassmap:
		return cil.StatementString(ast) + "\n"
	}
	if len(ast.Children) > 0 {
		return cil.Write(ast)
	}
	return cil.StatementString(ast) + "\n"
}

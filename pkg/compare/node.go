// Package compare hashes CIL policy trees and reports their semantic
// differences. Every node gets two content hashes: a partial hash over the
// fields that identify a statement and a full hash over everything it says.
// Statements group into buckets by partial hash, so a changed value still
// lands next to its counterpart, and equal full hashes prune whole subtrees
// from the walk.
package compare

import (
	"github.com/odvcencio/cildiff/pkg/cil"
)

// Side tells which input tree a difference belongs to.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideLeft {
		return "LEFT"
	}
	return "RIGHT"
}

// Sink receives differences as the comparison walks the trees. AppendChild
// opens a nested scope for a matched container pair and returns the sink
// differences inside that pair should go to.
type Sink interface {
	AppendDiff(side Side, node *Node, description string)
	AppendChild(left, right *Node) Sink
}

// Node wraps an AST node with its content hashes. Containers additionally
// carry the grouped Set of their hashed children; Full then covers the
// node's own fields and the child set together.
type Node struct {
	AST     *cil.Node
	Partial Digest
	Full    Digest
	Items   *Set // nil for leaf statements
}

// containerFlavors lists the statements whose children take part in
// matching. Everything else hashes as a single opaque statement.
var containerFlavors = map[cil.Flavor]bool{
	cil.FlavorRoot:      true,
	cil.FlavorSrcInfo:   true,
	cil.FlavorBlock:     true,
	cil.FlavorOptional:  true,
	cil.FlavorIn:        true,
	cil.FlavorMacro:     true,
	cil.FlavorBooleanif: true,
	cil.FlavorTunableif: true,
	cil.FlavorCondBlock: true,
	cil.FlavorClass:     true,
	cil.FlavorCommon:    true,
	cil.FlavorClassmap:  true,
}

// NewNode hashes an AST subtree bottom-up.
func NewNode(ast *cil.Node) *Node {
	full, partial := statementDigests(ast)
	n := &Node{AST: ast, Partial: partial, Full: full}
	if !containerFlavors[ast.Flavor] {
		return n
	}
	n.Items = newSet()
	for _, child := range ast.Children {
		n.Items.add(NewNode(child))
	}
	n.Items.finalize()
	combined := make([]byte, 0, 2*DigestSize)
	combined = append(combined, full[:]...)
	combined = append(combined, n.Items.Full[:]...)
	n.Full = hashRaw(combined)
	return n
}

// Compare walks two hashed trees and reports their differences to sink.
// Equal full hashes end the walk immediately.
func Compare(left, right *Node, sink Sink) {
	if left.Full == right.Full {
		return
	}
	if left.Items != nil && right.Items != nil {
		compareSets(left.Items, right.Items, sink)
		return
	}
	sink.AppendDiff(SideLeft, left, "")
	sink.AppendDiff(SideRight, right, "")
}

// nodeSim scores how alike two nodes are. Containers are scored through
// their child sets; leaves are all-or-nothing.
func nodeSim(left, right *Node) Sim {
	switch {
	case left == nil:
		return Sim{Right: 1}
	case right == nil:
		return Sim{Left: 1}
	case left.Items != nil && right.Items != nil:
		return setSim(left.Items, right.Items)
	case left.Full == right.Full:
		return Sim{Common: 1}
	}
	return Sim{Left: 1, Right: 1}
}

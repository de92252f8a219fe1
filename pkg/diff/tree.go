// Package diff collects comparison results into a tree mirroring the
// matched container structure of the two policies, so every reported
// difference keeps its ancestor context.
package diff

import (
	"github.com/odvcencio/cildiff/pkg/compare"
)

// Diff is one reported difference: a statement present on only one side of
// the comparison, with an optional free-form note.
type Diff struct {
	Side        compare.Side
	Node        *compare.Node
	Description string
}

// Node is one level of the diff tree. The root holds the two policy roots;
// every other node holds a matched container pair. Differences found
// directly inside the pair live in Diffs; differences inside nested matched
// pairs live in Children.
type Node struct {
	Left     *compare.Node
	Right    *compare.Node
	Parent   *Node
	Children []*Node
	Diffs    []Diff
}

// NewTree returns an empty diff tree rooted at the two policy roots.
func NewTree(left, right *compare.Node) *Node {
	return &Node{Left: left, Right: right}
}

// AppendDiff records a difference found at this level.
func (n *Node) AppendDiff(side compare.Side, node *compare.Node, description string) {
	n.Diffs = append(n.Diffs, Diff{Side: side, Node: node, Description: description})
}

// AppendChild opens a nested level for a matched container pair.
func (n *Node) AppendChild(left, right *compare.Node) compare.Sink {
	child := &Node{Left: left, Right: right, Parent: n}
	n.Children = append(n.Children, child)
	return child
}

// Empty reports whether the tree holds no differences at all.
func (n *Node) Empty() bool {
	if len(n.Diffs) > 0 {
		return false
	}
	for _, child := range n.Children {
		if !child.Empty() {
			return false
		}
	}
	return true
}

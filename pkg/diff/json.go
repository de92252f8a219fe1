package diff

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/odvcencio/cildiff/pkg/cil"
	"github.com/odvcencio/cildiff/pkg/compare"
)

type jsonNodeRef struct {
	Flavor string `json:"flavor"`
	Line   int    `json:"line"`
	Hash   string `json:"hash"`
}

type jsonDiff struct {
	Side        string `json:"side"`
	Hash        string `json:"hash"`
	Description string `json:"description,omitempty"`
	Cil         string `json:"cil"`
}

type jsonNode struct {
	Left     *jsonNodeRef `json:"left"`
	Right    *jsonNodeRef `json:"right"`
	Diffs    []jsonDiff   `json:"diffs"`
	Children []*jsonNode  `json:"children"`
}

func nodeRef(n *compare.Node) *jsonNodeRef {
	if n == nil {
		return nil
	}
	return &jsonNodeRef{
		Flavor: n.AST.Flavor.String(),
		Line:   n.AST.Line,
		Hash:   n.Full.String(),
	}
}

func toJSONNode(n *Node) *jsonNode {
	jn := &jsonNode{
		Left:     nodeRef(n.Left),
		Right:    nodeRef(n.Right),
		Diffs:    make([]jsonDiff, 0, len(n.Diffs)),
		Children: make([]*jsonNode, 0, len(n.Children)),
	}
	for _, d := range n.Diffs {
		jn.Diffs = append(jn.Diffs, jsonDiff{
			Side:        d.Side.String(),
			Hash:        d.Node.Full.String(),
			Description: d.Description,
			Cil:         strings.TrimSuffix(cil.Write(d.Node.AST), "\n"),
		})
	}
	for _, child := range n.Children {
		jn.Children = append(jn.Children, toJSONNode(child))
	}
	return jn
}

// WriteJSON encodes the diff tree as JSON. With pretty set the output is
// indented for reading; otherwise it is compact.
func WriteJSON(n *Node, w io.Writer, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(toJSONNode(n))
}

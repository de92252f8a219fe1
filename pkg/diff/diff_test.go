package diff

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/odvcencio/cildiff/pkg/cil"
	"github.com/odvcencio/cildiff/pkg/compare"
)

func diffTree(t *testing.T, left, right string) *Node {
	t.Helper()
	l := hashPolicy(t, left)
	r := hashPolicy(t, right)
	tree := NewTree(l, r)
	compare.Compare(l, r, tree)
	return tree
}

func hashPolicy(t *testing.T, src string) *compare.Node {
	t.Helper()
	ast, err := cil.Parse([]byte(src), "policy.cil")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return compare.NewNode(ast)
}

func TestEmptyTree(t *testing.T) {
	src := `
(block b1
	(type ta)
)
`
	tree := diffTree(t, src, src)
	if !tree.Empty() {
		t.Error("identical policies produced a non-empty tree")
	}
	var buf bytes.Buffer
	Print(tree, &buf)
	if buf.Len() != 0 {
		t.Errorf("empty tree printed %q", buf.String())
	}
}

func TestPrintAddition(t *testing.T) {
	tree := diffTree(t, `
(block b1
	(type ta)
)
`, `
(block b1
	(type ta)
	(allow ta self (file (read)))
)
`)
	var buf bytes.Buffer
	Print(tree, &buf)
	out := buf.String()

	for _, want := range []string{
		"; Addition found\n",
		"; Hash: ",
		"; Left context:\n",
		"; Right context:\n",
		"; \tsrc_info node on line ",
		"; \tblock node on line ",
		"; +++\n",
		"(allow ta self (file (read)))\n",
		"; ===\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "; Deletion found") {
		t.Errorf("pure addition printed a deletion:\n%s", out)
	}
}

func TestPrintDeletionMarker(t *testing.T) {
	tree := diffTree(t, `
(type ta)
(allow ta self (file (read)))
`, `
(type ta)
`)
	var buf bytes.Buffer
	Print(tree, &buf)
	out := buf.String()
	if !strings.Contains(out, "; Deletion found\n") {
		t.Errorf("output missing deletion header:\n%s", out)
	}
	if !strings.Contains(out, "; ---\n") {
		t.Errorf("output missing deletion marker:\n%s", out)
	}
}

func TestPrintContainerBody(t *testing.T) {
	tree := diffTree(t, `
(type ta)
`, `
(type ta)
(block b2
	(type tb)
	(allow tb self (file (read)))
)
`)
	var buf bytes.Buffer
	Print(tree, &buf)
	out := buf.String()
	if !strings.Contains(out, "(block b2\n") {
		t.Errorf("container statement missing:\n%s", out)
	}
	if !strings.Contains(out, "(type tb)") {
		t.Errorf("container body missing:\n%s", out)
	}
}

func TestPrintClassWithoutBody(t *testing.T) {
	tree := diffTree(t, `
(type ta)
(class file (read write))
`, `
(type ta)
`)
	var buf bytes.Buffer
	Print(tree, &buf)
	out := buf.String()
	if strings.Contains(out, "(perm ") {
		t.Errorf("class body permissions should not print as separate statements:\n%s", out)
	}
	if !strings.Contains(out, "(class file (read write))") {
		t.Errorf("class statement missing:\n%s", out)
	}
}

func TestPrintDeterministic(t *testing.T) {
	left := `
(optional oa
	(type ta)
	(type t1)
	(type t2)
)
(type tx)
(type ty)
`
	right := `
(optional ob
	(type ta)
	(type t3)
)
(type tz)
`
	var first, second bytes.Buffer
	Print(diffTree(t, left, right), &first)
	Print(diffTree(t, left, right), &second)
	if first.String() != second.String() {
		t.Errorf("repeated comparisons render differently:\n%s\nvs\n%s", first.String(), second.String())
	}
	if first.Len() == 0 {
		t.Error("differing policies printed nothing")
	}
}

func TestWriteJSONShape(t *testing.T) {
	tree := diffTree(t, `
(block b1
	(type ta)
)
`, `
(block b1
	(type ta)
	(type tb)
)
`)
	var buf bytes.Buffer
	if err := WriteJSON(tree, &buf, false); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var root struct {
		Left *struct {
			Flavor string `json:"flavor"`
			Hash   string `json:"hash"`
		} `json:"left"`
		Diffs    []json.RawMessage `json:"diffs"`
		Children []struct {
			Children []struct {
				Left *struct {
					Flavor string `json:"flavor"`
				} `json:"left"`
				Diffs []struct {
					Side string `json:"side"`
					Hash string `json:"hash"`
					Cil  string `json:"cil"`
				} `json:"diffs"`
			} `json:"children"`
		} `json:"children"`
	}
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if root.Left == nil || root.Left.Flavor != "root" {
		t.Errorf("root left flavor = %+v, want root", root.Left)
	}
	if root.Left != nil && len(root.Left.Hash) != 64 {
		t.Errorf("hash %q is not 32 hex bytes", root.Left.Hash)
	}
	if len(root.Diffs) != 0 {
		t.Errorf("root carries %d diffs, want 0", len(root.Diffs))
	}
	if len(root.Children) != 1 || len(root.Children[0].Children) != 1 {
		t.Fatalf("unexpected tree shape: %s", buf.String())
	}
	blk := root.Children[0].Children[0]
	if blk.Left == nil || blk.Left.Flavor != "block" {
		t.Errorf("nested pair flavor = %+v, want block", blk.Left)
	}
	if len(blk.Diffs) != 1 {
		t.Fatalf("want 1 nested diff, got %d", len(blk.Diffs))
	}
	d := blk.Diffs[0]
	if d.Side != "RIGHT" {
		t.Errorf("diff side %q, want RIGHT", d.Side)
	}
	if d.Cil != "(type tb)" {
		t.Errorf("diff cil %q, want (type tb)", d.Cil)
	}
}

func TestWriteJSONPretty(t *testing.T) {
	tree := diffTree(t, `(type ta)`, `(type tb)`)
	var compact, pretty bytes.Buffer
	if err := WriteJSON(tree, &compact, false); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := WriteJSON(tree, &pretty, true); err != nil {
		t.Fatalf("encode pretty: %v", err)
	}
	if !strings.Contains(pretty.String(), "\n  ") {
		t.Error("pretty output is not indented")
	}
	var a, b any
	if err := json.Unmarshal(compact.Bytes(), &a); err != nil {
		t.Fatalf("decode compact: %v", err)
	}
	if err := json.Unmarshal(pretty.Bytes(), &b); err != nil {
		t.Fatalf("decode pretty: %v", err)
	}
}

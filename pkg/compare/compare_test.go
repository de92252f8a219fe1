package compare

import (
	"testing"

	"github.com/odvcencio/cildiff/pkg/cil"
)

// testSink records the comparison output as a tree so tests can assert on
// both the differences and where they were nested.
type testSink struct {
	left     *Node
	right    *Node
	children []*testSink
	diffs    []testDiff
}

type testDiff struct {
	side Side
	node *Node
}

func (s *testSink) AppendDiff(side Side, n *Node, description string) {
	s.diffs = append(s.diffs, testDiff{side: side, node: n})
}

func (s *testSink) AppendChild(left, right *Node) Sink {
	child := &testSink{left: left, right: right}
	s.children = append(s.children, child)
	return child
}

func (s *testSink) collect() []testDiff {
	all := append([]testDiff(nil), s.diffs...)
	for _, child := range s.children {
		all = append(all, child.collect()...)
	}
	return all
}

func hashPolicy(t *testing.T, src string) *Node {
	t.Helper()
	ast, err := cil.Parse([]byte(src), "policy.cil")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return NewNode(ast)
}

func diffPolicies(t *testing.T, left, right string) *testSink {
	t.Helper()
	l := hashPolicy(t, left)
	r := hashPolicy(t, right)
	sink := &testSink{left: l, right: r}
	Compare(l, r, sink)
	return sink
}

func TestIdenticalPoliciesHashEqual(t *testing.T) {
	src := `
(block b1
	(type ta)
	(type tb)
	(allow ta tb (file (read write)))
)
`
	left := hashPolicy(t, src)
	right := hashPolicy(t, src)
	if left.Full != right.Full {
		t.Errorf("identical policies hash differently: %s vs %s", left.Full, right.Full)
	}
	sink := &testSink{left: left, right: right}
	Compare(left, right, sink)
	if got := sink.collect(); len(got) != 0 {
		t.Errorf("identical policies produced %d diffs", len(got))
	}
}

func TestStatementOrderDoesNotMatter(t *testing.T) {
	left := hashPolicy(t, `
(type ta)
(type tb)
(allow ta tb (file (read)))
`)
	right := hashPolicy(t, `
(allow ta tb (file (read)))
(type tb)
(type ta)
`)
	if left.Full != right.Full {
		t.Errorf("reordered policies hash differently: %s vs %s", left.Full, right.Full)
	}
}

func TestDuplicateStatementsCollapse(t *testing.T) {
	left := hashPolicy(t, `
(type ta)
(allow ta self (file (read)))
(allow ta self (file (read)))
`)
	right := hashPolicy(t, `
(type ta)
(allow ta self (file (read)))
`)
	if left.Full != right.Full {
		t.Error("duplicated statement changed the policy hash")
	}
}

func TestChangedPermissionsReportBothSides(t *testing.T) {
	sink := diffPolicies(t, `
(type ta)
(allow ta self (file (read)))
`, `
(type ta)
(allow ta self (file (read write)))
`)
	got := sink.collect()
	if len(got) != 2 {
		t.Fatalf("want 2 diffs, got %d", len(got))
	}
	var sawLeft, sawRight bool
	for _, d := range got {
		if d.node.AST.Flavor != cil.FlavorAvrule {
			t.Errorf("unexpected diff flavor %v", d.node.AST.Flavor)
		}
		switch d.side {
		case SideLeft:
			sawLeft = true
		case SideRight:
			sawRight = true
		}
	}
	if !sawLeft || !sawRight {
		t.Errorf("want one diff per side, got left=%v right=%v", sawLeft, sawRight)
	}
}

func TestAddedRuleNestsUnderMatchedBlock(t *testing.T) {
	sink := diffPolicies(t, `
(block b1
	(type ta)
)
`, `
(block b1
	(type ta)
	(allow ta self (file (read)))
)
`)
	if len(sink.diffs) != 0 {
		t.Errorf("root level should hold no diffs, got %d", len(sink.diffs))
	}
	if len(sink.children) != 1 {
		t.Fatalf("want one matched source pair, got %d children", len(sink.children))
	}
	src := sink.children[0]
	if src.left.AST.Flavor != cil.FlavorSrcInfo {
		t.Fatalf("first child pairs %v nodes, want src_info", src.left.AST.Flavor)
	}
	if len(src.children) != 1 {
		t.Fatalf("want one matched block pair, got %d", len(src.children))
	}
	blk := src.children[0]
	if blk.left.AST.Flavor != cil.FlavorBlock {
		t.Fatalf("nested child pairs %v nodes, want block", blk.left.AST.Flavor)
	}
	if len(blk.diffs) != 1 {
		t.Fatalf("want 1 diff inside the block pair, got %d", len(blk.diffs))
	}
	d := blk.diffs[0]
	if d.side != SideRight {
		t.Errorf("added rule reported on %v, want RIGHT", d.side)
	}
	if d.node.AST.Flavor != cil.FlavorAvrule {
		t.Errorf("added rule has flavor %v, want avrule", d.node.AST.Flavor)
	}
}

func TestRenamedOptionalMatchesBySimilarity(t *testing.T) {
	sink := diffPolicies(t, `
(optional legacy
	(type ta)
	(allow ta self (file (read)))
)
`, `
(optional modern
	(type ta)
	(allow ta self (file (read)))
	(type tb)
)
`)
	src := sink.children[0]
	if len(src.children) != 1 {
		t.Fatalf("want the renamed optionals paired, got %d children and %d flat diffs",
			len(src.children), len(src.diffs))
	}
	pair := src.children[0]
	if name := pair.left.AST.Data.(*cil.Symbol).Name; name != "legacy" {
		t.Errorf("paired left optional is %q, want legacy", name)
	}
	if name := pair.right.AST.Data.(*cil.Symbol).Name; name != "modern" {
		t.Errorf("paired right optional is %q, want modern", name)
	}
	if len(pair.diffs) != 1 {
		t.Fatalf("want 1 diff inside the optional pair, got %d", len(pair.diffs))
	}
	if d := pair.diffs[0]; d.side != SideRight || d.node.AST.Flavor != cil.FlavorType {
		t.Errorf("want the added type on RIGHT, got %v %v", d.side, d.node.AST.Flavor)
	}
}

func TestAddedVariantReportsOnlyItself(t *testing.T) {
	sink := diffPolicies(t, `
(type ta)
(allow ta self (file (read)))
`, `
(type ta)
(allow ta self (file (read)))
(allow ta self (file (write)))
`)
	got := sink.collect()
	if len(got) != 1 {
		t.Fatalf("want 1 diff, got %d", len(got))
	}
	if d := got[0]; d.side != SideRight || d.node.AST.Flavor != cil.FlavorAvrule {
		t.Errorf("got %v %v, want RIGHT avrule", d.side, d.node.AST.Flavor)
	}
}

func TestAmbiguousOptionalsPairByContent(t *testing.T) {
	sink := diffPolicies(t, `
(optional oa
	(type ta)
	(allow ta self (file (read)))
)
(optional ob
	(type tb)
)
`, `
(optional oa2
	(type ta)
	(allow ta self (file (read write)))
)
(optional oc
	(typeattribute unrelated)
)
`)
	src := sink.children[0]
	if len(src.children) != 1 {
		t.Fatalf("want exactly one paired optional, got %d", len(src.children))
	}
	pair := src.children[0]
	if name := pair.left.AST.Data.(*cil.Symbol).Name; name != "oa" {
		t.Errorf("paired left optional is %q, want oa", name)
	}
	if name := pair.right.AST.Data.(*cil.Symbol).Name; name != "oa2" {
		t.Errorf("paired right optional is %q, want oa2", name)
	}

	var sawLeftOb, sawRightOc bool
	for _, d := range src.diffs {
		if d.node.AST.Flavor != cil.FlavorOptional {
			t.Errorf("flat diff flavor %v, want optional", d.node.AST.Flavor)
			continue
		}
		name := d.node.AST.Data.(*cil.Symbol).Name
		switch {
		case d.side == SideLeft && name == "ob":
			sawLeftOb = true
		case d.side == SideRight && name == "oc":
			sawRightOc = true
		default:
			t.Errorf("unexpected flat diff %v %q", d.side, name)
		}
	}
	if !sawLeftOb || !sawRightOc {
		t.Errorf("unrelated optionals must report flat: ob=%v oc=%v", sawLeftOb, sawRightOc)
	}
}

func TestDifferentConditionsReportWholeConditionals(t *testing.T) {
	sink := diffPolicies(t, `
(boolean foo true)
(booleanif foo
	(true
		(allow ta self (file (read)))
	)
)
`, `
(boolean foo true)
(booleanif bar
	(true
		(allow ta self (file (read)))
	)
)
`)
	got := sink.collect()
	if len(got) != 2 {
		t.Fatalf("want 2 diffs, got %d", len(got))
	}
	for _, d := range got {
		if d.node.AST.Flavor != cil.FlavorBooleanif {
			t.Errorf("diff flavor %v, want booleanif", d.node.AST.Flavor)
		}
	}
}

func TestMissingBlockReportsWholeContainer(t *testing.T) {
	sink := diffPolicies(t, `
(block b1
	(type ta)
)
(block b2
	(type tb)
)
`, `
(block b1
	(type ta)
)
`)
	got := sink.collect()
	if len(got) != 1 {
		t.Fatalf("want 1 diff, got %d", len(got))
	}
	d := got[0]
	if d.side != SideLeft {
		t.Errorf("removed block reported on %v, want LEFT", d.side)
	}
	if d.node.AST.Flavor != cil.FlavorBlock {
		t.Errorf("diff flavor %v, want block", d.node.AST.Flavor)
	}
	if name := d.node.AST.Data.(*cil.Symbol).Name; name != "b2" {
		t.Errorf("reported block %q, want b2", name)
	}
}

func TestExpressionOperandOrderDoesNotMatter(t *testing.T) {
	left := hashPolicy(t, `(allow ta self (file (read write getattr)))`)
	right := hashPolicy(t, `(allow ta self (file (getattr read write)))`)
	if left.Full != right.Full {
		t.Error("permission order changed the policy hash")
	}
}

func TestClassOrderKeepsPosition(t *testing.T) {
	left := hashPolicy(t, `(classorder (file dir sock))`)
	right := hashPolicy(t, `(classorder (dir file sock))`)
	if left.Full == right.Full {
		t.Error("classorder is position-sensitive and must hash differently")
	}
	unordered := hashPolicy(t, `(classorder (unordered file dir sock))`)
	reordered := hashPolicy(t, `(classorder (unordered sock dir file))`)
	if unordered.Full != reordered.Full {
		t.Error("unordered classorder must ignore position")
	}
}

func TestNodeSim(t *testing.T) {
	shared := `
(optional o1
	(type ta)
	(type tb)
)
`
	left := hashPolicy(t, shared)
	right := hashPolicy(t, shared)
	if sim := nodeSim(left, right); sim.Left != 0 || sim.Right != 0 || sim.Common == 0 {
		t.Errorf("identical trees scored %+v", sim)
	}
	if sim := nodeSim(left, nil); sim != (Sim{Left: 1}) {
		t.Errorf("missing right scored %+v", sim)
	}
	if sim := nodeSim(nil, right); sim != (Sim{Right: 1}) {
		t.Errorf("missing left scored %+v", sim)
	}
}

func TestSimRate(t *testing.T) {
	if got := (Sim{}).Rate(); got != 0 {
		t.Errorf("empty sim rates %v, want 0", got)
	}
	if got := (Sim{Common: 2, Left: 1, Right: 1}).Rate(); got != 0.5 {
		t.Errorf("sim rates %v, want 0.5", got)
	}
}

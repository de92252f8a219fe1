package cil

import (
	"strings"
	"testing"
)

func mustParse(t *testing.T, src string) *Node {
	t.Helper()
	root, err := Parse([]byte(src), "test.cil")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

// statements returns the top-level statement nodes, skipping the root and
// source wrappers.
func topStatements(t *testing.T, src string) []*Node {
	t.Helper()
	root := mustParse(t, src)
	if len(root.Children) != 1 || root.Children[0].Flavor != FlavorSrcInfo {
		t.Fatalf("unexpected tree shape under root: %+v", root.Children)
	}
	return root.Children[0].Children
}

func singleStatement(t *testing.T, src string) *Node {
	t.Helper()
	stmts := topStatements(t, src)
	if len(stmts) != 1 {
		t.Fatalf("want 1 statement, got %d", len(stmts))
	}
	return stmts[0]
}

func TestBuildFlavors(t *testing.T) {
	tests := []struct {
		src    string
		flavor Flavor
	}{
		{"(type ta)", FlavorType},
		{"(typealias ta_alias)", FlavorTypealias},
		{"(typealiasactual ta_alias ta)", FlavorTypealiasactual},
		{"(typeattribute attr)", FlavorTypeattribute},
		{"(typeattributeset attr (ta tb))", FlavorTypeattributeset},
		{"(expandtypeattribute (attr) true)", FlavorExpandtypeattribute},
		{"(typebounds parent child)", FlavorTypebounds},
		{"(typepermissive ta)", FlavorTypepermissive},
		{"(allow ta tb (file (read)))", FlavorAvrule},
		{"(auditallow ta tb (file (read)))", FlavorAvrule},
		{"(dontaudit ta tb (file (read)))", FlavorAvrule},
		{"(neverallow ta tb (file (read)))", FlavorAvrule},
		{"(allowx ta tb (ioctl file (0x1234)))", FlavorAvrulex},
		{"(deny ta tb (file (read)))", FlavorDenyRule},
		{"(typetransition ta tb file tc)", FlavorTypeRule},
		{"(typetransition ta tb file \"name\" tc)", FlavorNametypetransition},
		{"(typechange ta tb file tc)", FlavorTypeRule},
		{"(typemember ta tb file tc)", FlavorTypeRule},
		{"(role r)", FlavorRole},
		{"(roletype r ta)", FlavorRoletype},
		{"(roleallow ra rb)", FlavorRoleallow},
		{"(roletransition ra ta file rb)", FlavorRoletransition},
		{"(user u)", FlavorUser},
		{"(userrole u r)", FlavorUserrole},
		{"(userlevel u (s0))", FlavorUserlevel},
		{"(userrange u ((s0) (s1)))", FlavorUserrange},
		{"(userprefix u user)", FlavorUserprefix},
		{"(selinuxuser foo u ((s0) (s0)))", FlavorSelinuxuser},
		{"(selinuxuserdefault u ((s0) (s0)))", FlavorSelinuxuserdefault},
		{"(class file (read write))", FlavorClass},
		{"(classorder (file dir))", FlavorClassorder},
		{"(common file_c (read))", FlavorCommon},
		{"(classcommon file file_c)", FlavorClasscommon},
		{"(classmap files (rw))", FlavorClassmap},
		{"(classmapping files rw (file (read write)))", FlavorClassmapping},
		{"(classpermission cp)", FlavorClasspermission},
		{"(classpermissionset cp (file (read)))", FlavorClasspermissionset},
		{"(permissionx px (ioctl file (0x1)))", FlavorPermissionx},
		{"(boolean foo true)", FlavorBool},
		{"(tunable bar false)", FlavorTunable},
		{"(booleanif foo (true (allow ta tb (file (read)))))", FlavorBooleanif},
		{"(tunableif bar (false (allow ta tb (file (read)))))", FlavorTunableif},
		{"(constrain (file (read)) (eq t1 t2))", FlavorConstrain},
		{"(mlsconstrain (file (read)) (dom l1 l2))", FlavorMlsconstrain},
		{"(validatetrans file (eq t1 t2))", FlavorValidatetrans},
		{"(mlsvalidatetrans file (dom l1 h1))", FlavorMlsvalidatetrans},
		{"(block b)", FlavorBlock},
		{"(blockabstract b)", FlavorBlockabstract},
		{"(blockinherit b)", FlavorBlockinherit},
		{"(optional o)", FlavorOptional},
		{"(in b (allow ta tb (file (read))))", FlavorIn},
		{"(macro m ((type t)) (allow t self (file (read))))", FlavorMacro},
		{"(call m (ta))", FlavorCall},
		{"(sensitivity s0)", FlavorSensitivity},
		{"(sensitivityalias sa)", FlavorSensitivityalias},
		{"(sensitivityaliasactual sa s0)", FlavorSensitivityaliasactual},
		{"(sensitivityorder (s0 s1))", FlavorSensitivityorder},
		{"(category c0)", FlavorCategory},
		{"(categoryalias ca)", FlavorCategoryalias},
		{"(categoryaliasactual ca c0)", FlavorCategoryaliasactual},
		{"(categoryorder (c0 c1))", FlavorCategoryorder},
		{"(categoryset cs (c0 c1))", FlavorCategoryset},
		{"(sensitivitycategory s0 (c0))", FlavorSensitivitycategory},
		{"(level l0 (s0 (c0)))", FlavorLevel},
		{"(levelrange lr ((s0) (s1)))", FlavorLevelrange},
		{"(rangetransition ta tb file ((s0) (s1)))", FlavorRangetransition},
		{"(context ctx (u r t ((s0) (s0))))", FlavorContext},
		{"(sid kernel)", FlavorSid},
		{"(sidorder (kernel security))", FlavorSidorder},
		{"(sidcontext kernel ctx)", FlavorSidcontext},
		{"(filecon \"/bin/sh\" file ctx)", FlavorFilecon},
		{"(fsuse xattr ext4 ctx)", FlavorFsuse},
		{"(genfscon proc / ctx)", FlavorGenfscon},
		{"(genfscon proc /sys file ctx)", FlavorGenfscon},
		{"(portcon tcp 80 ctx)", FlavorPortcon},
		{"(portcon udp (1024 65535) ctx)", FlavorPortcon},
		{"(netifcon eth0 ctx ctx)", FlavorNetifcon},
		{"(nodecon (192.168.1.0) (255.255.255.0) ctx)", FlavorNodecon},
		{"(ipaddr ip 10.0.0.1)", FlavorIpaddr},
		{"(ibpkeycon fe80:: (0 0x10) ctx)", FlavorIbpkeycon},
		{"(ibendportcon mlx4_0 1 ctx)", FlavorIbendportcon},
		{"(mls true)", FlavorMls},
		{"(handleunknown allow)", FlavorHandleunknown},
		{"(policycap network_peer_controls)", FlavorPolicycap},
		{"(defaultuser (file) source)", FlavorDefaultuser},
		{"(defaultrole (file) target)", FlavorDefaultrole},
		{"(defaulttype (file) source)", FlavorDefaulttype},
		{"(defaultrange (file) source low)", FlavorDefaultrange},
		{"(iomemcon (0x1000 0x2000) ctx)", FlavorIomemcon},
		{"(ioportcon 0x60 ctx)", FlavorIoportcon},
		{"(pcidevicecon 0x8086 ctx)", FlavorPcidevicecon},
		{"(pirqcon 9 ctx)", FlavorPirqcon},
		{"(devicetreecon \"/soc/gpio\" ctx)", FlavorDevicetreecon},
	}
	for _, tt := range tests {
		got := singleStatement(t, tt.src)
		if got.Flavor != tt.flavor {
			t.Errorf("%s: flavor %v, want %v", tt.src, got.Flavor, tt.flavor)
		}
	}
}

func TestBuildAvrule(t *testing.T) {
	n := singleStatement(t, "(allow ta tb (file (read write)))")
	r := n.Data.(*Avrule)
	if r.Kind != AvruleAllow || r.Extended {
		t.Errorf("kind=%v extended=%v", r.Kind, r.Extended)
	}
	if r.Src != "ta" || r.Tgt != "tb" {
		t.Errorf("src=%q tgt=%q", r.Src, r.Tgt)
	}
	cp := r.Perms.Anon
	if cp == nil || cp.Class != "file" {
		t.Fatalf("anonymous classperms missing: %+v", r.Perms)
	}
	if len(cp.Perms.Operands) != 2 {
		t.Errorf("want 2 permissions, got %+v", cp.Perms)
	}
}

func TestBuildAvruleNamedPermissionx(t *testing.T) {
	n := singleStatement(t, "(allowx ta tb px)")
	r := n.Data.(*Avrule)
	if !r.Extended {
		t.Error("allowx must be extended")
	}
	if r.Permx.Name != "px" || r.Permx.Anon != nil {
		t.Errorf("want named permissionx reference, got %+v", r.Permx)
	}
}

func TestBuildTypetransitionArity(t *testing.T) {
	n := singleStatement(t, "(typetransition ta tb file tc)")
	tr := n.Data.(*TypeRule)
	if tr.Kind != TypeTransition || tr.Result != "tc" {
		t.Errorf("unexpected type rule %+v", tr)
	}

	n = singleStatement(t, `(typetransition ta tb file "foo.conf" tc)`)
	nt := n.Data.(*Nametypetransition)
	if nt.Name != "foo.conf" || nt.Result != "tc" {
		t.Errorf("unexpected named transition %+v", nt)
	}
}

func TestBuildMacro(t *testing.T) {
	n := singleStatement(t, "(macro m ((type t1) (role r1)) (allow t1 self (file (read))))")
	m := n.Data.(*Macro)
	if m.Name != "m" || len(m.Params) != 2 {
		t.Fatalf("unexpected macro %+v", m)
	}
	if m.Params[0] != (Param{Kind: "type", Name: "t1"}) {
		t.Errorf("param 0 = %+v", m.Params[0])
	}
	if len(n.Children) != 1 || n.Children[0].Flavor != FlavorAvrule {
		t.Errorf("macro body not built: %+v", n.Children)
	}
}

func TestBuildBooleanifBranches(t *testing.T) {
	n := singleStatement(t, `
(booleanif (and foo bar)
	(true
		(allow ta tb (file (read)))
	)
	(false
		(allow ta tb (file (write)))
	)
)`)
	if len(n.Children) != 2 {
		t.Fatalf("want 2 branches, got %d", len(n.Children))
	}
	for i, want := range []bool{true, false} {
		branch := n.Children[i]
		if branch.Flavor != FlavorCondBlock {
			t.Fatalf("branch %d flavor %v", i, branch.Flavor)
		}
		if got := branch.Data.(*CondBlock).Value; got != want {
			t.Errorf("branch %d value %v, want %v", i, got, want)
		}
	}
	expr := n.Data.(*CondIf).Expr
	if expr.Op != OpAnd || len(expr.Operands) != 2 {
		t.Errorf("condition parsed as %+v", expr)
	}
}

func TestBuildInAfter(t *testing.T) {
	n := singleStatement(t, "(in after b (allow ta tb (file (read))))")
	in := n.Data.(*In)
	if !in.After || in.Block != "b" {
		t.Errorf("unexpected in payload %+v", in)
	}

	n = singleStatement(t, "(in b (allow ta tb (file (read))))")
	in = n.Data.(*In)
	if in.After || in.Block != "b" {
		t.Errorf("unexpected in payload %+v", in)
	}
}

func TestBuildUnorderedMarker(t *testing.T) {
	n := singleStatement(t, "(classorder (unordered file dir))")
	ord := n.Data.(*Ordered)
	if !ord.Unordered || len(ord.Items) != 2 {
		t.Errorf("unexpected classorder %+v", ord)
	}

	if _, err := Parse([]byte("(sensitivityorder (unordered s0 s1))"), "test.cil"); err == nil {
		t.Error("sensitivityorder must reject the unordered marker")
	}
}

func TestBuildAnonymousContext(t *testing.T) {
	n := singleStatement(t, "(portcon tcp 80 (u r t ((s0) (s0))))")
	pc := n.Data.(*Portcon)
	if pc.Proto != ProtoTCP || pc.Low != 80 || pc.High != 80 {
		t.Errorf("unexpected portcon %+v", pc)
	}
	ctx := pc.Context.Anon
	if ctx == nil {
		t.Fatalf("want anonymous context, got %+v", pc.Context)
	}
	if ctx.User != "u" || ctx.Role != "r" || ctx.Type != "t" {
		t.Errorf("unexpected context %+v", ctx)
	}
	if ctx.Range.Anon == nil || ctx.Range.Anon.Low.Anon == nil {
		t.Errorf("context range not built: %+v", ctx.Range)
	}
}

func TestBuildAnonymousIpaddr(t *testing.T) {
	n := singleStatement(t, "(nodecon (192.168.0.0) (255.255.0.0) ctx)")
	nc := n.Data.(*Nodecon)
	if nc.Addr.Anon == nil || nc.Mask.Anon == nil {
		t.Fatalf("want anonymous addresses, got %+v", nc)
	}
	if got := nc.Addr.Anon.Addr.String(); got != "192.168.0.0" {
		t.Errorf("addr %q", got)
	}
	if nc.Context.Name != "ctx" {
		t.Errorf("context %+v", nc.Context)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown statement", "(frobnicate a b)"},
		{"wrong arity", "(allow ta tb)"},
		{"bad boolean", "(boolean foo maybe)"},
		{"bad port", "(portcon tcp notaport ctx)"},
		{"bad address", "(ipaddr ip notanip)"},
		{"bad protocol", "(portcon icmp 80 ctx)"},
		{"bad handleunknown", "(handleunknown ignore)"},
		{"unterminated list", "(type ta"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src), "test.cil"); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tt.src)
			}
		})
	}
}

func TestBuildErrorMentionsFile(t *testing.T) {
	_, err := Parse([]byte("(type)"), "broken.cil")
	if err == nil {
		t.Fatal("want error")
	}
	if !strings.Contains(err.Error(), "broken.cil") {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestBuildLineNumbers(t *testing.T) {
	stmts := topStatements(t, "(type ta)\n(type tb)\n\n(type tc)\n")
	wantLines := []int{1, 2, 4}
	if len(stmts) != len(wantLines) {
		t.Fatalf("want %d statements, got %d", len(wantLines), len(stmts))
	}
	for i, want := range wantLines {
		if stmts[i].Line != want {
			t.Errorf("statement %d on line %d, want %d", i, stmts[i].Line, want)
		}
	}
}

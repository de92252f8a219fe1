package cil

import (
	"fmt"
	"net/netip"
	"strconv"
)

// Parse parses CIL source text into an AST. The returned tree is rooted at a
// root node holding a single src_info child for the source unit, mirroring
// the layout libsepol produces, so that two parsed files always compare
// root-to-root.
func Parse(src []byte, path string) (*Node, error) {
	exprs, err := parseSexprs(src, path)
	if err != nil {
		return nil, err
	}
	b := &builder{path: path}
	stmts, err := b.buildStatements(exprs)
	if err != nil {
		return nil, err
	}
	srcInfo := &Node{
		Flavor:   FlavorSrcInfo,
		Line:     1,
		Data:     &SrcInfo{Kind: "cil", Path: path},
		Children: stmts,
	}
	return &Node{Flavor: FlavorRoot, Line: 1, Children: []*Node{srcInfo}}, nil
}

type builder struct {
	path string
}

type buildFn func(b *builder, s *sexpr) (*Node, error)

var statements map[string]buildFn

func init() {
	// Populated in init to break the initialization cycle through the
	// container builders, which recurse into the table.
	statements = map[string]buildFn{
		"allow":      (*builder).buildAvrule,
		"auditallow": (*builder).buildAvrule,
		"dontaudit":  (*builder).buildAvrule,
		"neverallow": (*builder).buildAvrule,

		"allowx":      (*builder).buildAvrulex,
		"auditallowx": (*builder).buildAvrulex,
		"dontauditx":  (*builder).buildAvrulex,
		"neverallowx": (*builder).buildAvrulex,

		"deny": (*builder).buildDeny,

		"call":  (*builder).buildCall,
		"macro": (*builder).buildMacro,

		"common":             (*builder).buildClassDecl,
		"classcommon":        (*builder).buildClasscommon,
		"class":              (*builder).buildClassDecl,
		"classorder":         (*builder).buildOrdered,
		"classpermission":    (*builder).buildSymbol,
		"classpermissionset": (*builder).buildClasspermissionset,
		"classmap":           (*builder).buildClassDecl,
		"classmapping":       (*builder).buildClassmapping,
		"permissionx":        (*builder).buildPermissionx,

		"boolean":   (*builder).buildBool,
		"booleanif": (*builder).buildCondIf,
		"tunable":   (*builder).buildBool,
		"tunableif": (*builder).buildCondIf,

		"constrain":        (*builder).buildConstrain,
		"mlsconstrain":     (*builder).buildConstrain,
		"validatetrans":    (*builder).buildValidatetrans,
		"mlsvalidatetrans": (*builder).buildValidatetrans,

		"block":         (*builder).buildBlock,
		"blockabstract": (*builder).buildBlockref,
		"blockinherit":  (*builder).buildBlockref,
		"optional":      (*builder).buildOptional,
		"in":            (*builder).buildIn,

		"context": (*builder).buildContext,

		"defaultuser":  (*builder).buildDefault,
		"defaultrole":  (*builder).buildDefault,
		"defaulttype":  (*builder).buildDefault,
		"defaultrange": (*builder).buildDefaultrange,

		"filecon":  (*builder).buildFilecon,
		"fsuse":    (*builder).buildFsuse,
		"genfscon": (*builder).buildGenfscon,

		"ibpkeycon":    (*builder).buildIbpkeycon,
		"ibendportcon": (*builder).buildIbendportcon,

		"sensitivity":            (*builder).buildSymbol,
		"sensitivityalias":       (*builder).buildSymbol,
		"sensitivityaliasactual": (*builder).buildAliasActual,
		"sensitivityorder":       (*builder).buildOrdered,
		"category":               (*builder).buildSymbol,
		"categoryalias":          (*builder).buildSymbol,
		"categoryaliasactual":    (*builder).buildAliasActual,
		"categoryorder":          (*builder).buildOrdered,
		"categoryset":            (*builder).buildCategoryset,
		"sensitivitycategory":    (*builder).buildSensitivitycategory,
		"level":                  (*builder).buildLevelDecl,
		"levelrange":             (*builder).buildLevelrangeDecl,
		"rangetransition":        (*builder).buildRangetransition,

		"ipaddr":   (*builder).buildIpaddr,
		"netifcon": (*builder).buildNetifcon,
		"nodecon":  (*builder).buildNodecon,
		"portcon":  (*builder).buildPortcon,

		"mls":           (*builder).buildMls,
		"handleunknown": (*builder).buildHandleunknown,
		"policycap":     (*builder).buildSymbol,

		"role":             (*builder).buildSymbol,
		"roletype":         (*builder).buildRoletype,
		"roleattribute":    (*builder).buildSymbol,
		"roleattributeset": (*builder).buildAttributeset,
		"roleallow":        (*builder).buildRoleallow,
		"roletransition":   (*builder).buildRoletransition,
		"rolebounds":       (*builder).buildBounds,

		"sid":        (*builder).buildSymbol,
		"sidorder":   (*builder).buildOrdered,
		"sidcontext": (*builder).buildSidcontext,

		"type":                (*builder).buildSymbol,
		"typealias":           (*builder).buildSymbol,
		"typealiasactual":     (*builder).buildAliasActual,
		"typeattribute":       (*builder).buildSymbol,
		"typeattributeset":    (*builder).buildAttributeset,
		"expandtypeattribute": (*builder).buildExpandtypeattribute,
		"typebounds":          (*builder).buildBounds,
		"typetransition":      (*builder).buildTypetransition,
		"typemember":          (*builder).buildTypeRule,
		"typechange":          (*builder).buildTypeRule,
		"typepermissive":      (*builder).buildTypepermissive,

		"user":               (*builder).buildSymbol,
		"userrole":           (*builder).buildUserrole,
		"userattribute":      (*builder).buildSymbol,
		"userattributeset":   (*builder).buildAttributeset,
		"userlevel":          (*builder).buildUserlevel,
		"userrange":          (*builder).buildUserrange,
		"userbounds":         (*builder).buildBounds,
		"userprefix":         (*builder).buildUserprefix,
		"selinuxuser":        (*builder).buildSelinuxuser,
		"selinuxuserdefault": (*builder).buildSelinuxuserdefault,

		"iomemcon":      (*builder).buildIomemcon,
		"ioportcon":     (*builder).buildIoportcon,
		"pcidevicecon":  (*builder).buildPcidevicecon,
		"pirqcon":       (*builder).buildPirqcon,
		"devicetreecon": (*builder).buildDevicetreecon,
	}
}

var symbolFlavors = map[string]Flavor{
	"classpermission":  FlavorClasspermission,
	"sensitivity":      FlavorSensitivity,
	"sensitivityalias": FlavorSensitivityalias,
	"category":         FlavorCategory,
	"categoryalias":    FlavorCategoryalias,
	"policycap":        FlavorPolicycap,
	"role":             FlavorRole,
	"roleattribute":    FlavorRoleattribute,
	"sid":              FlavorSid,
	"type":             FlavorType,
	"typealias":        FlavorTypealias,
	"typeattribute":    FlavorTypeattribute,
	"user":             FlavorUser,
	"userattribute":    FlavorUserattribute,
}

func (b *builder) buildStatements(exprs []*sexpr) ([]*Node, error) {
	nodes := make([]*Node, 0, len(exprs))
	for _, expr := range exprs {
		node, err := b.buildStatement(expr)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (b *builder) buildStatement(s *sexpr) (*Node, error) {
	if s.isAtom || len(s.list) == 0 || !s.list[0].isAtom || s.list[0].quoted {
		return nil, b.errf(s, "expected a statement")
	}
	kw := s.list[0].atom
	build, ok := statements[kw]
	if !ok {
		return nil, b.errf(s, "unknown statement %q", kw)
	}
	return build(b, s)
}

func (b *builder) errf(s *sexpr, format string, args ...any) error {
	return fmt.Errorf("build %s:%d: %s", b.path, s.line, fmt.Sprintf(format, args...))
}

// args returns the statement's items after the keyword, enforcing an exact
// argument count when want >= 0.
func (b *builder) args(s *sexpr, want int) ([]*sexpr, error) {
	args := s.list[1:]
	if want >= 0 && len(args) != want {
		return nil, b.errf(s, "%s expects %d arguments, found %d", s.list[0].atom, want, len(args))
	}
	return args, nil
}

func (b *builder) atom(s *sexpr) (string, error) {
	if !s.isAtom {
		return "", b.errf(s, "expected a name, found a list")
	}
	return s.atom, nil
}

func (b *builder) list(s *sexpr) (*sexpr, error) {
	if s.isAtom {
		return nil, b.errf(s, "expected a list, found %q", s.atom)
	}
	return s, nil
}

func (b *builder) boolValue(s *sexpr) (bool, error) {
	v, err := b.atom(s)
	if err != nil {
		return false, err
	}
	switch v {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, b.errf(s, "expected true or false, found %q", v)
}

func (b *builder) uintValue(s *sexpr, bits int) (uint64, error) {
	v, err := b.atom(s)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 0, bits)
	if err != nil {
		return 0, b.errf(s, "invalid number %q", v)
	}
	return n, nil
}

// uintRange parses either a single number or a (low high) pair.
func (b *builder) uintRange(s *sexpr, bits int) (low, high uint64, err error) {
	if s.isAtom {
		low, err = b.uintValue(s, bits)
		return low, low, err
	}
	if len(s.list) != 2 {
		return 0, 0, b.errf(s, "expected (low high)")
	}
	if low, err = b.uintValue(s.list[0], bits); err != nil {
		return 0, 0, err
	}
	high, err = b.uintValue(s.list[1], bits)
	return low, high, err
}

var exprOperators = map[string]ExprOperator{
	"not":    OpNot,
	"and":    OpAnd,
	"or":     OpOr,
	"xor":    OpXor,
	"all":    OpAll,
	"eq":     OpEq,
	"neq":    OpNeq,
	"range":  OpRange,
	"dom":    OpDom,
	"domby":  OpDomby,
	"incomp": OpIncomp,
}

// expr parses an expression: a bare name, or a list with an optional leading
// operator and name/sub-expression operands.
func (b *builder) expr(s *sexpr) (*Expr, error) {
	if s.isAtom {
		return &Expr{Operands: []ExprOperand{{Str: s.atom}}}, nil
	}
	e := &Expr{}
	items := s.list
	if len(items) > 0 && items[0].isAtom && !items[0].quoted {
		if op, ok := exprOperators[items[0].atom]; ok {
			e.Op = op
			items = items[1:]
		}
	}
	for _, item := range items {
		if item.isAtom {
			e.Operands = append(e.Operands, ExprOperand{Str: item.atom})
			continue
		}
		sub, err := b.expr(item)
		if err != nil {
			return nil, err
		}
		e.Operands = append(e.Operands, ExprOperand{Expr: sub})
	}
	return e, nil
}

// stringList parses a flat list of names, handling the leading "unordered"
// marker, which is only legal where allowUnordered is set.
func (b *builder) stringList(s *sexpr, allowUnordered bool) (*Ordered, error) {
	list, err := b.list(s)
	if err != nil {
		return nil, err
	}
	ord := &Ordered{}
	items := list.list
	if len(items) > 0 && items[0].isAtom && items[0].atom == "unordered" {
		if !allowUnordered {
			return nil, b.errf(s, "the unordered keyword is not allowed here")
		}
		ord.Unordered = true
		items = items[1:]
	}
	for _, item := range items {
		name, err := b.atom(item)
		if err != nil {
			return nil, err
		}
		ord.Items = append(ord.Items, name)
	}
	return ord, nil
}

func (b *builder) classpermsAnon(s *sexpr) (*Classperms, error) {
	list, err := b.list(s)
	if err != nil {
		return nil, err
	}
	if len(list.list) != 2 {
		return nil, b.errf(s, "expected (class (permissions))")
	}
	class, err := b.atom(list.list[0])
	if err != nil {
		return nil, err
	}
	perms, err := b.expr(list.list[1])
	if err != nil {
		return nil, err
	}
	return &Classperms{Class: class, Perms: perms}, nil
}

func (b *builder) classpermsRef(s *sexpr) (ClasspermsRef, error) {
	if s.isAtom {
		return ClasspermsRef{Name: s.atom}, nil
	}
	anon, err := b.classpermsAnon(s)
	if err != nil {
		return ClasspermsRef{}, err
	}
	return ClasspermsRef{Anon: anon}, nil
}

func (b *builder) permxAnon(s *sexpr) (*Permissionx, error) {
	list, err := b.list(s)
	if err != nil {
		return nil, err
	}
	if len(list.list) != 3 {
		return nil, b.errf(s, "expected (ioctl object (permissions))")
	}
	kind, err := b.atom(list.list[0])
	if err != nil {
		return nil, err
	}
	if kind != "ioctl" {
		return nil, b.errf(s, "unknown permissionx kind %q", kind)
	}
	obj, err := b.atom(list.list[1])
	if err != nil {
		return nil, err
	}
	perms, err := b.expr(list.list[2])
	if err != nil {
		return nil, err
	}
	return &Permissionx{Kind: PermxIoctl, Obj: obj, Perms: perms}, nil
}

func (b *builder) permxRef(s *sexpr) (PermissionxRef, error) {
	if s.isAtom {
		return PermissionxRef{Name: s.atom}, nil
	}
	anon, err := b.permxAnon(s)
	if err != nil {
		return PermissionxRef{}, err
	}
	return PermissionxRef{Anon: anon}, nil
}

func (b *builder) levelAnon(s *sexpr) (*Level, error) {
	list, err := b.list(s)
	if err != nil {
		return nil, err
	}
	if len(list.list) < 1 || len(list.list) > 2 {
		return nil, b.errf(s, "expected (sensitivity [categories])")
	}
	sens, err := b.atom(list.list[0])
	if err != nil {
		return nil, err
	}
	level := &Level{Sens: sens}
	if len(list.list) == 2 {
		if level.Cats, err = b.expr(list.list[1]); err != nil {
			return nil, err
		}
	}
	return level, nil
}

func (b *builder) levelRef(s *sexpr) (LevelRef, error) {
	if s.isAtom {
		return LevelRef{Name: s.atom}, nil
	}
	anon, err := b.levelAnon(s)
	if err != nil {
		return LevelRef{}, err
	}
	return LevelRef{Anon: anon}, nil
}

func (b *builder) levelRangeAnon(s *sexpr) (*LevelRange, error) {
	list, err := b.list(s)
	if err != nil {
		return nil, err
	}
	if len(list.list) != 2 {
		return nil, b.errf(s, "expected (low high)")
	}
	low, err := b.levelRef(list.list[0])
	if err != nil {
		return nil, err
	}
	high, err := b.levelRef(list.list[1])
	if err != nil {
		return nil, err
	}
	return &LevelRange{Low: low, High: high}, nil
}

func (b *builder) levelRangeRef(s *sexpr) (LevelRangeRef, error) {
	if s.isAtom {
		return LevelRangeRef{Name: s.atom}, nil
	}
	anon, err := b.levelRangeAnon(s)
	if err != nil {
		return LevelRangeRef{}, err
	}
	return LevelRangeRef{Anon: anon}, nil
}

func (b *builder) contextAnon(s *sexpr) (*Context, error) {
	list, err := b.list(s)
	if err != nil {
		return nil, err
	}
	if len(list.list) != 4 {
		return nil, b.errf(s, "expected (user role type range)")
	}
	user, err := b.atom(list.list[0])
	if err != nil {
		return nil, err
	}
	role, err := b.atom(list.list[1])
	if err != nil {
		return nil, err
	}
	typ, err := b.atom(list.list[2])
	if err != nil {
		return nil, err
	}
	rng, err := b.levelRangeRef(list.list[3])
	if err != nil {
		return nil, err
	}
	return &Context{User: user, Role: role, Type: typ, Range: rng}, nil
}

func (b *builder) contextRef(s *sexpr) (ContextRef, error) {
	if s.isAtom {
		return ContextRef{Name: s.atom}, nil
	}
	anon, err := b.contextAnon(s)
	if err != nil {
		return ContextRef{}, err
	}
	return ContextRef{Anon: anon}, nil
}

func (b *builder) ipaddrValue(s *sexpr) (netip.Addr, error) {
	v, err := b.atom(s)
	if err != nil {
		return netip.Addr{}, err
	}
	addr, err := netip.ParseAddr(v)
	if err != nil {
		return netip.Addr{}, b.errf(s, "invalid IP address %q", v)
	}
	return addr, nil
}

// ipaddrRef parses a named ipaddr reference or an anonymous (address) form.
// A bare atom that parses as an address is treated as anonymous too.
func (b *builder) ipaddrRef(s *sexpr) (IPAddrRef, error) {
	if s.isAtom {
		if addr, err := netip.ParseAddr(s.atom); err == nil {
			return IPAddrRef{Anon: &Ipaddr{Addr: addr}}, nil
		}
		return IPAddrRef{Name: s.atom}, nil
	}
	if len(s.list) != 1 {
		return IPAddrRef{}, b.errf(s, "expected (address)")
	}
	addr, err := b.ipaddrValue(s.list[0])
	if err != nil {
		return IPAddrRef{}, err
	}
	return IPAddrRef{Anon: &Ipaddr{Addr: addr}}, nil
}

/******************************************************************************
 *  Statement builders                                                        *
 ******************************************************************************/

var avruleKinds = map[string]AvruleKind{
	"allow":      AvruleAllow,
	"auditallow": AvruleAuditallow,
	"dontaudit":  AvruleDontaudit,
	"neverallow": AvruleNeverallow,

	"allowx":      AvruleAllow,
	"auditallowx": AvruleAuditallow,
	"dontauditx":  AvruleDontaudit,
	"neverallowx": AvruleNeverallow,
}

func (b *builder) buildAvrule(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	rule := &Avrule{Kind: avruleKinds[s.list[0].atom]}
	if rule.Src, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if rule.Tgt, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	if rule.Perms, err = b.classpermsRef(args[2]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorAvrule, Line: s.line, Data: rule}, nil
}

func (b *builder) buildAvrulex(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	rule := &Avrule{Kind: avruleKinds[s.list[0].atom], Extended: true}
	if rule.Src, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if rule.Tgt, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	if rule.Permx, err = b.permxRef(args[2]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorAvrulex, Line: s.line, Data: rule}, nil
}

func (b *builder) buildDeny(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	rule := &DenyRule{}
	if rule.Src, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if rule.Tgt, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	if rule.Perms, err = b.classpermsRef(args[2]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorDenyRule, Line: s.line, Data: rule}, nil
}

func (b *builder) callArg(s *sexpr) (*CallArg, error) {
	if s.isAtom {
		return &CallArg{Leaf: s.atom}, nil
	}
	arg := &CallArg{List: make([]*CallArg, 0, len(s.list))}
	for _, item := range s.list {
		sub, err := b.callArg(item)
		if err != nil {
			return nil, err
		}
		arg.List = append(arg.List, sub)
	}
	return arg, nil
}

func (b *builder) buildCall(s *sexpr) (*Node, error) {
	args, err := b.args(s, -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 1 || len(args) > 2 {
		return nil, b.errf(s, "call expects a macro name and optional arguments")
	}
	call := &Call{}
	if call.Macro, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if len(args) == 2 {
		list, err := b.list(args[1])
		if err != nil {
			return nil, err
		}
		for _, item := range list.list {
			arg, err := b.callArg(item)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
	}
	return &Node{Flavor: FlavorCall, Line: s.line, Data: call}, nil
}

func (b *builder) buildMacro(s *sexpr) (*Node, error) {
	args, err := b.args(s, -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, b.errf(s, "macro expects a name and a parameter list")
	}
	macro := &Macro{}
	if macro.Name, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	params, err := b.list(args[1])
	if err != nil {
		return nil, err
	}
	for _, item := range params.list {
		list, err := b.list(item)
		if err != nil {
			return nil, err
		}
		if len(list.list) != 2 {
			return nil, b.errf(item, "expected (kind name) parameter")
		}
		kind, err := b.atom(list.list[0])
		if err != nil {
			return nil, err
		}
		name, err := b.atom(list.list[1])
		if err != nil {
			return nil, err
		}
		macro.Params = append(macro.Params, Param{Kind: kind, Name: name})
	}
	children, err := b.buildStatements(args[2:])
	if err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorMacro, Line: s.line, Data: macro, Children: children}, nil
}

// buildClassDecl handles class, common and classmap: a named declaration
// whose permission list becomes perm (or map_perm) children.
func (b *builder) buildClassDecl(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	name, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	perms, err := b.list(args[1])
	if err != nil {
		return nil, err
	}
	var flavor, permFlavor Flavor
	switch s.list[0].atom {
	case "class":
		flavor, permFlavor = FlavorClass, FlavorPerm
	case "common":
		flavor, permFlavor = FlavorCommon, FlavorPerm
	case "classmap":
		flavor, permFlavor = FlavorClassmap, FlavorMapPerm
	}
	node := &Node{Flavor: flavor, Line: s.line, Data: &Symbol{Name: name}}
	for _, item := range perms.list {
		perm, err := b.atom(item)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, &Node{
			Flavor: permFlavor,
			Line:   item.line,
			Data:   &Symbol{Name: perm},
		})
	}
	return node, nil
}

func (b *builder) buildClasscommon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	cc := &Classcommon{}
	if cc.Class, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if cc.Common, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorClasscommon, Line: s.line, Data: cc}, nil
}

var orderedFlavors = map[string]Flavor{
	"classorder":       FlavorClassorder,
	"sensitivityorder": FlavorSensitivityorder,
	"categoryorder":    FlavorCategoryorder,
	"sidorder":         FlavorSidorder,
}

func (b *builder) buildOrdered(s *sexpr) (*Node, error) {
	args, err := b.args(s, 1)
	if err != nil {
		return nil, err
	}
	// Only classorder may opt out of ordering with the unordered marker.
	ord, err := b.stringList(args[0], s.list[0].atom == "classorder")
	if err != nil {
		return nil, err
	}
	return &Node{Flavor: orderedFlavors[s.list[0].atom], Line: s.line, Data: ord}, nil
}

func (b *builder) buildSymbol(s *sexpr) (*Node, error) {
	args, err := b.args(s, 1)
	if err != nil {
		return nil, err
	}
	name, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	return &Node{Flavor: symbolFlavors[s.list[0].atom], Line: s.line, Data: &Symbol{Name: name}}, nil
}

func (b *builder) buildClasspermissionset(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	cps := &Classpermissionset{}
	if cps.Set, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	perms, err := b.classpermsAnon(args[1])
	if err != nil {
		return nil, err
	}
	cps.Perms = *perms
	return &Node{Flavor: FlavorClasspermissionset, Line: s.line, Data: cps}, nil
}

func (b *builder) buildClassmapping(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	cm := &Classmapping{}
	if cm.MapClass, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if cm.MapPerm, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	if cm.Perms, err = b.classpermsRef(args[2]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorClassmapping, Line: s.line, Data: cm}, nil
}

func (b *builder) buildPermissionx(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	name, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	permx, err := b.permxAnon(args[1])
	if err != nil {
		return nil, err
	}
	permx.Name = name
	return &Node{Flavor: FlavorPermissionx, Line: s.line, Data: permx}, nil
}

func (b *builder) buildBool(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	decl := &BoolDecl{}
	if decl.Name, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if decl.Value, err = b.boolValue(args[1]); err != nil {
		return nil, err
	}
	flavor := FlavorBool
	if s.list[0].atom == "tunable" {
		flavor = FlavorTunable
	}
	return &Node{Flavor: flavor, Line: s.line, Data: decl}, nil
}

func (b *builder) buildCondIf(s *sexpr) (*Node, error) {
	args, err := b.args(s, -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, b.errf(s, "%s expects a condition and at least one branch", s.list[0].atom)
	}
	cond := &CondIf{}
	if cond.Expr, err = b.expr(args[0]); err != nil {
		return nil, err
	}
	flavor := FlavorBooleanif
	if s.list[0].atom == "tunableif" {
		flavor = FlavorTunableif
	}
	node := &Node{Flavor: flavor, Line: s.line, Data: cond}
	for _, item := range args[1:] {
		branch, err := b.buildCondBlock(item)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, branch)
	}
	return node, nil
}

func (b *builder) buildCondBlock(s *sexpr) (*Node, error) {
	list, err := b.list(s)
	if err != nil {
		return nil, err
	}
	if len(list.list) < 1 {
		return nil, b.errf(s, "expected a (true ...) or (false ...) branch")
	}
	value, err := b.boolValue(list.list[0])
	if err != nil {
		return nil, err
	}
	children, err := b.buildStatements(list.list[1:])
	if err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorCondBlock, Line: s.line, Data: &CondBlock{Value: value}, Children: children}, nil
}

func (b *builder) buildConstrain(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	con := &Constrain{}
	perms, err := b.classpermsAnon(args[0])
	if err != nil {
		return nil, err
	}
	con.Perms = *perms
	if con.Expr, err = b.expr(args[1]); err != nil {
		return nil, err
	}
	flavor := FlavorConstrain
	if s.list[0].atom == "mlsconstrain" {
		flavor = FlavorMlsconstrain
	}
	return &Node{Flavor: flavor, Line: s.line, Data: con}, nil
}

func (b *builder) buildValidatetrans(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	vt := &Validatetrans{}
	if vt.Class, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if vt.Expr, err = b.expr(args[1]); err != nil {
		return nil, err
	}
	flavor := FlavorValidatetrans
	if s.list[0].atom == "mlsvalidatetrans" {
		flavor = FlavorMlsvalidatetrans
	}
	return &Node{Flavor: flavor, Line: s.line, Data: vt}, nil
}

func (b *builder) buildBlock(s *sexpr) (*Node, error) {
	args, err := b.args(s, -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 1 {
		return nil, b.errf(s, "block expects a name")
	}
	name, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	children, err := b.buildStatements(args[1:])
	if err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorBlock, Line: s.line, Data: &Symbol{Name: name}, Children: children}, nil
}

func (b *builder) buildBlockref(s *sexpr) (*Node, error) {
	args, err := b.args(s, 1)
	if err != nil {
		return nil, err
	}
	block, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	flavor := FlavorBlockabstract
	if s.list[0].atom == "blockinherit" {
		flavor = FlavorBlockinherit
	}
	return &Node{Flavor: flavor, Line: s.line, Data: &Blockref{Block: block}}, nil
}

func (b *builder) buildOptional(s *sexpr) (*Node, error) {
	args, err := b.args(s, -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 1 {
		return nil, b.errf(s, "optional expects a name")
	}
	name, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	children, err := b.buildStatements(args[1:])
	if err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorOptional, Line: s.line, Data: &Symbol{Name: name}, Children: children}, nil
}

func (b *builder) buildIn(s *sexpr) (*Node, error) {
	args, err := b.args(s, -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 1 {
		return nil, b.errf(s, "in expects a block name")
	}
	in := &In{}
	first, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	switch first {
	case "before", "after":
		in.After = first == "after"
		args = args[1:]
		if len(args) < 1 {
			return nil, b.errf(s, "in expects a block name")
		}
		if in.Block, err = b.atom(args[0]); err != nil {
			return nil, err
		}
	default:
		in.Block = first
	}
	children, err := b.buildStatements(args[1:])
	if err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorIn, Line: s.line, Data: in, Children: children}, nil
}

func (b *builder) buildContext(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	name, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	ctx, err := b.contextAnon(args[1])
	if err != nil {
		return nil, err
	}
	ctx.Name = name
	return &Node{Flavor: FlavorContext, Line: s.line, Data: ctx}, nil
}

var defaultFlavors = map[string]Flavor{
	"defaultuser": FlavorDefaultuser,
	"defaultrole": FlavorDefaultrole,
	"defaulttype": FlavorDefaulttype,
}

// classListArg accepts either a single class name or a list of class names.
func (b *builder) classListArg(s *sexpr) ([]string, error) {
	if s.isAtom {
		return []string{s.atom}, nil
	}
	ord, err := b.stringList(s, false)
	if err != nil {
		return nil, err
	}
	return ord.Items, nil
}

func (b *builder) buildDefault(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	def := &Default{}
	if def.Classes, err = b.classListArg(args[0]); err != nil {
		return nil, err
	}
	obj, err := b.atom(args[1])
	if err != nil {
		return nil, err
	}
	switch obj {
	case "source":
		def.Object = DefaultSource
	case "target":
		def.Object = DefaultTarget
	default:
		return nil, b.errf(s, "expected source or target, found %q", obj)
	}
	return &Node{Flavor: defaultFlavors[s.list[0].atom], Line: s.line, Data: def}, nil
}

func (b *builder) buildDefaultrange(s *sexpr) (*Node, error) {
	args, err := b.args(s, -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 || len(args) > 3 {
		return nil, b.errf(s, "defaultrange expects classes, an object, and an optional range")
	}
	def := &Defaultrange{}
	if def.Classes, err = b.classListArg(args[0]); err != nil {
		return nil, err
	}
	obj, err := b.atom(args[1])
	if err != nil {
		return nil, err
	}
	rng := ""
	if len(args) == 3 {
		if rng, err = b.atom(args[2]); err != nil {
			return nil, err
		}
	}
	switch {
	case obj == "glblub" && rng == "":
		def.Object = RangeGlblub
	case obj == "source" && rng == "low":
		def.Object = RangeSourceLow
	case obj == "source" && rng == "high":
		def.Object = RangeSourceHigh
	case obj == "source" && rng == "low-high":
		def.Object = RangeSourceLowHigh
	case obj == "target" && rng == "low":
		def.Object = RangeTargetLow
	case obj == "target" && rng == "high":
		def.Object = RangeTargetHigh
	case obj == "target" && rng == "low-high":
		def.Object = RangeTargetLowHigh
	default:
		return nil, b.errf(s, "invalid defaultrange object %q %q", obj, rng)
	}
	return &Node{Flavor: FlavorDefaultrange, Line: s.line, Data: def}, nil
}

var fileTypes = map[string]FileType{
	"any":     FileAny,
	"file":    FileFile,
	"dir":     FileDir,
	"char":    FileChar,
	"block":   FileBlock,
	"socket":  FileSocket,
	"pipe":    FilePipe,
	"symlink": FileSymlink,
}

func (b *builder) buildFilecon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	fc := &Filecon{}
	if fc.Path, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	ft, err := b.atom(args[1])
	if err != nil {
		return nil, err
	}
	var ok bool
	if fc.Type, ok = fileTypes[ft]; !ok {
		return nil, b.errf(s, "unknown file type %q", ft)
	}
	// An empty list means an unlabeled path.
	if args[2].isAtom || len(args[2].list) > 0 {
		if fc.Context, err = b.contextRef(args[2]); err != nil {
			return nil, err
		}
	}
	return &Node{Flavor: FlavorFilecon, Line: s.line, Data: fc}, nil
}

func (b *builder) buildFsuse(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	fs := &Fsuse{}
	kind, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	switch kind {
	case "xattr":
		fs.Type = FsuseXattr
	case "task":
		fs.Type = FsuseTask
	case "trans":
		fs.Type = FsuseTrans
	default:
		return nil, b.errf(s, "unknown fsuse kind %q", kind)
	}
	if fs.Fs, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	if fs.Context, err = b.contextRef(args[2]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorFsuse, Line: s.line, Data: fs}, nil
}

func (b *builder) buildGenfscon(s *sexpr) (*Node, error) {
	args, err := b.args(s, -1)
	if err != nil {
		return nil, err
	}
	if len(args) < 3 || len(args) > 4 {
		return nil, b.errf(s, "genfscon expects a filesystem, a path, an optional file type, and a context")
	}
	gc := &Genfscon{FileType: FileAny}
	if gc.Fs, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if gc.Path, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	ctxArg := args[2]
	if len(args) == 4 {
		ft, err := b.atom(args[2])
		if err != nil {
			return nil, err
		}
		var ok bool
		if gc.FileType, ok = fileTypes[ft]; !ok {
			return nil, b.errf(s, "unknown file type %q", ft)
		}
		ctxArg = args[3]
	}
	if gc.Context, err = b.contextRef(ctxArg); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorGenfscon, Line: s.line, Data: gc}, nil
}

func (b *builder) buildIbpkeycon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	pc := &Ibpkeycon{}
	if pc.SubnetPrefix, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	low, high, err := b.uintRange(args[1], 32)
	if err != nil {
		return nil, err
	}
	pc.Low, pc.High = uint32(low), uint32(high)
	if pc.Context, err = b.contextRef(args[2]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorIbpkeycon, Line: s.line, Data: pc}, nil
}

func (b *builder) buildIbendportcon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	ep := &Ibendportcon{}
	if ep.Device, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	port, err := b.uintValue(args[1], 32)
	if err != nil {
		return nil, err
	}
	ep.Port = uint32(port)
	if ep.Context, err = b.contextRef(args[2]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorIbendportcon, Line: s.line, Data: ep}, nil
}

var aliasActualFlavors = map[string]Flavor{
	"typealiasactual":        FlavorTypealiasactual,
	"sensitivityaliasactual": FlavorSensitivityaliasactual,
	"categoryaliasactual":    FlavorCategoryaliasactual,
}

func (b *builder) buildAliasActual(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	aa := &AliasActual{}
	if aa.Alias, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if aa.Actual, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: aliasActualFlavors[s.list[0].atom], Line: s.line, Data: aa}, nil
}

func (b *builder) buildCategoryset(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	cs := &Categoryset{}
	if cs.Name, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if cs.Cats, err = b.expr(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorCategoryset, Line: s.line, Data: cs}, nil
}

func (b *builder) buildSensitivitycategory(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	sc := &Sensitivitycategory{}
	if sc.Sens, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if sc.Cats, err = b.expr(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorSensitivitycategory, Line: s.line, Data: sc}, nil
}

func (b *builder) buildLevelDecl(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	name, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	level, err := b.levelAnon(args[1])
	if err != nil {
		return nil, err
	}
	level.Name = name
	return &Node{Flavor: FlavorLevel, Line: s.line, Data: level}, nil
}

func (b *builder) buildLevelrangeDecl(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	name, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	lr, err := b.levelRangeAnon(args[1])
	if err != nil {
		return nil, err
	}
	lr.Name = name
	return &Node{Flavor: FlavorLevelrange, Line: s.line, Data: lr}, nil
}

func (b *builder) buildRangetransition(s *sexpr) (*Node, error) {
	args, err := b.args(s, 4)
	if err != nil {
		return nil, err
	}
	rt := &Rangetransition{}
	if rt.Src, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if rt.Exec, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	if rt.Obj, err = b.atom(args[2]); err != nil {
		return nil, err
	}
	if rt.Range, err = b.levelRangeRef(args[3]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorRangetransition, Line: s.line, Data: rt}, nil
}

func (b *builder) buildIpaddr(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	ip := &Ipaddr{}
	if ip.Name, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if ip.Addr, err = b.ipaddrValue(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorIpaddr, Line: s.line, Data: ip}, nil
}

func (b *builder) buildNetifcon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	nc := &Netifcon{}
	if nc.Interface, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if nc.IfContext, err = b.contextRef(args[1]); err != nil {
		return nil, err
	}
	if nc.PacketContext, err = b.contextRef(args[2]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorNetifcon, Line: s.line, Data: nc}, nil
}

func (b *builder) buildNodecon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	nc := &Nodecon{}
	if nc.Addr, err = b.ipaddrRef(args[0]); err != nil {
		return nil, err
	}
	if nc.Mask, err = b.ipaddrRef(args[1]); err != nil {
		return nil, err
	}
	if nc.Context, err = b.contextRef(args[2]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorNodecon, Line: s.line, Data: nc}, nil
}

func (b *builder) buildPortcon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	pc := &Portcon{}
	proto, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	switch proto {
	case "tcp":
		pc.Proto = ProtoTCP
	case "udp":
		pc.Proto = ProtoUDP
	case "dccp":
		pc.Proto = ProtoDCCP
	case "sctp":
		pc.Proto = ProtoSCTP
	default:
		return nil, b.errf(s, "unknown protocol %q", proto)
	}
	low, high, err := b.uintRange(args[1], 16)
	if err != nil {
		return nil, err
	}
	pc.Low, pc.High = uint16(low), uint16(high)
	if pc.Context, err = b.contextRef(args[2]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorPortcon, Line: s.line, Data: pc}, nil
}

func (b *builder) buildMls(s *sexpr) (*Node, error) {
	args, err := b.args(s, 1)
	if err != nil {
		return nil, err
	}
	value, err := b.boolValue(args[0])
	if err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorMls, Line: s.line, Data: &Mls{Value: value}}, nil
}

func (b *builder) buildHandleunknown(s *sexpr) (*Node, error) {
	args, err := b.args(s, 1)
	if err != nil {
		return nil, err
	}
	action, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	hu := &Handleunknown{}
	switch action {
	case "allow":
		hu.Action = HandleAllow
	case "deny":
		hu.Action = HandleDeny
	case "reject":
		hu.Action = HandleReject
	default:
		return nil, b.errf(s, "unknown handleunknown action %q", action)
	}
	return &Node{Flavor: FlavorHandleunknown, Line: s.line, Data: hu}, nil
}

func (b *builder) buildRoletype(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	rt := &Roletype{}
	if rt.Role, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if rt.Type, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorRoletype, Line: s.line, Data: rt}, nil
}

var attributesetFlavors = map[string]Flavor{
	"typeattributeset": FlavorTypeattributeset,
	"roleattributeset": FlavorRoleattributeset,
	"userattributeset": FlavorUserattributeset,
}

func (b *builder) buildAttributeset(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	as := &Attributeset{}
	if as.Attr, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if as.Expr, err = b.expr(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: attributesetFlavors[s.list[0].atom], Line: s.line, Data: as}, nil
}

func (b *builder) buildRoleallow(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	ra := &Roleallow{}
	if ra.Src, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if ra.Tgt, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorRoleallow, Line: s.line, Data: ra}, nil
}

func (b *builder) buildRoletransition(s *sexpr) (*Node, error) {
	args, err := b.args(s, 4)
	if err != nil {
		return nil, err
	}
	rt := &Roletransition{}
	if rt.Src, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if rt.Tgt, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	if rt.Obj, err = b.atom(args[2]); err != nil {
		return nil, err
	}
	if rt.Result, err = b.atom(args[3]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorRoletransition, Line: s.line, Data: rt}, nil
}

var boundsFlavors = map[string]Flavor{
	"typebounds": FlavorTypebounds,
	"rolebounds": FlavorRolebounds,
	"userbounds": FlavorUserbounds,
}

func (b *builder) buildBounds(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	bd := &Bounds{}
	if bd.Parent, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if bd.Child, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: boundsFlavors[s.list[0].atom], Line: s.line, Data: bd}, nil
}

func (b *builder) buildSidcontext(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	sc := &Sidcontext{}
	if sc.Sid, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if sc.Context, err = b.contextRef(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorSidcontext, Line: s.line, Data: sc}, nil
}

func (b *builder) buildExpandtypeattribute(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	eta := &Expandtypeattribute{}
	if eta.Attrs, err = b.classListArg(args[0]); err != nil {
		return nil, err
	}
	if eta.Expand, err = b.boolValue(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorExpandtypeattribute, Line: s.line, Data: eta}, nil
}

// buildTypetransition handles both the plain four-argument form and the
// five-argument named form, which is a distinct statement kind.
func (b *builder) buildTypetransition(s *sexpr) (*Node, error) {
	args, err := b.args(s, -1)
	if err != nil {
		return nil, err
	}
	switch len(args) {
	case 4:
		return b.typeRuleFrom(s, args, TypeTransition)
	case 5:
		nt := &Nametypetransition{}
		if nt.Src, err = b.atom(args[0]); err != nil {
			return nil, err
		}
		if nt.Tgt, err = b.atom(args[1]); err != nil {
			return nil, err
		}
		if nt.Obj, err = b.atom(args[2]); err != nil {
			return nil, err
		}
		if nt.Name, err = b.atom(args[3]); err != nil {
			return nil, err
		}
		if nt.Result, err = b.atom(args[4]); err != nil {
			return nil, err
		}
		return &Node{Flavor: FlavorNametypetransition, Line: s.line, Data: nt}, nil
	}
	return nil, b.errf(s, "typetransition expects 4 or 5 arguments, found %d", len(args))
}

func (b *builder) buildTypeRule(s *sexpr) (*Node, error) {
	args, err := b.args(s, 4)
	if err != nil {
		return nil, err
	}
	kind := TypeMember
	if s.list[0].atom == "typechange" {
		kind = TypeChange
	}
	return b.typeRuleFrom(s, args, kind)
}

func (b *builder) typeRuleFrom(s *sexpr, args []*sexpr, kind TypeRuleKind) (*Node, error) {
	var err error
	tr := &TypeRule{Kind: kind}
	if tr.Src, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if tr.Tgt, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	if tr.Obj, err = b.atom(args[2]); err != nil {
		return nil, err
	}
	if tr.Result, err = b.atom(args[3]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorTypeRule, Line: s.line, Data: tr}, nil
}

func (b *builder) buildTypepermissive(s *sexpr) (*Node, error) {
	args, err := b.args(s, 1)
	if err != nil {
		return nil, err
	}
	typ, err := b.atom(args[0])
	if err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorTypepermissive, Line: s.line, Data: &Typepermissive{Type: typ}}, nil
}

func (b *builder) buildUserrole(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	ur := &Userrole{}
	if ur.User, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if ur.Role, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorUserrole, Line: s.line, Data: ur}, nil
}

func (b *builder) buildUserlevel(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	ul := &Userlevel{}
	if ul.User, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if ul.Level, err = b.levelRef(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorUserlevel, Line: s.line, Data: ul}, nil
}

func (b *builder) buildUserrange(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	ur := &Userrange{}
	if ur.User, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if ur.Range, err = b.levelRangeRef(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorUserrange, Line: s.line, Data: ur}, nil
}

func (b *builder) buildUserprefix(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	up := &Userprefix{}
	if up.User, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if up.Prefix, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorUserprefix, Line: s.line, Data: up}, nil
}

func (b *builder) buildSelinuxuser(s *sexpr) (*Node, error) {
	args, err := b.args(s, 3)
	if err != nil {
		return nil, err
	}
	su := &Selinuxuser{}
	if su.Name, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if su.User, err = b.atom(args[1]); err != nil {
		return nil, err
	}
	if su.Range, err = b.levelRangeRef(args[2]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorSelinuxuser, Line: s.line, Data: su}, nil
}

func (b *builder) buildSelinuxuserdefault(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	su := &Selinuxuser{}
	if su.User, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if su.Range, err = b.levelRangeRef(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorSelinuxuserdefault, Line: s.line, Data: su}, nil
}

func (b *builder) buildIomemcon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	im := &Iomemcon{}
	if im.Low, im.High, err = b.uintRange(args[0], 64); err != nil {
		return nil, err
	}
	if im.Context, err = b.contextRef(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorIomemcon, Line: s.line, Data: im}, nil
}

func (b *builder) buildIoportcon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	ip := &Ioportcon{}
	low, high, err := b.uintRange(args[0], 32)
	if err != nil {
		return nil, err
	}
	ip.Low, ip.High = uint32(low), uint32(high)
	if ip.Context, err = b.contextRef(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorIoportcon, Line: s.line, Data: ip}, nil
}

func (b *builder) buildPcidevicecon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	pd := &Pcidevicecon{}
	dev, err := b.uintValue(args[0], 32)
	if err != nil {
		return nil, err
	}
	pd.Device = uint32(dev)
	if pd.Context, err = b.contextRef(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorPcidevicecon, Line: s.line, Data: pd}, nil
}

func (b *builder) buildPirqcon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	pq := &Pirqcon{}
	irq, err := b.uintValue(args[0], 32)
	if err != nil {
		return nil, err
	}
	pq.IRQ = uint32(irq)
	if pq.Context, err = b.contextRef(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorPirqcon, Line: s.line, Data: pq}, nil
}

func (b *builder) buildDevicetreecon(s *sexpr) (*Node, error) {
	args, err := b.args(s, 2)
	if err != nil {
		return nil, err
	}
	dt := &Devicetreecon{}
	if dt.Path, err = b.atom(args[0]); err != nil {
		return nil, err
	}
	if dt.Context, err = b.contextRef(args[1]); err != nil {
		return nil, err
	}
	return &Node{Flavor: FlavorDevicetreecon, Line: s.line, Data: dt}, nil
}

package cil

import (
	"fmt"
	"strings"
)

// Write serializes a node back to CIL source. Container statements are
// written multi-line with their bodies indented; everything else is a single
// line. The output parses back to an equivalent tree.
func Write(n *Node) string {
	var b strings.Builder
	writeNode(&b, n, 0)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, depth int) {
	switch n.Flavor {
	case FlavorRoot, FlavorSrcInfo:
		for _, child := range n.Children {
			writeNode(b, child, depth)
		}
		return
	case FlavorBlock, FlavorOptional:
		writeOpen(b, depth, "(%s %s", n.Flavor, n.Data.(*Symbol).Name)
	case FlavorIn:
		in := n.Data.(*In)
		if in.After {
			writeOpen(b, depth, "(in after %s", in.Block)
		} else {
			writeOpen(b, depth, "(in %s", in.Block)
		}
	case FlavorMacro:
		m := n.Data.(*Macro)
		params := make([]string, len(m.Params))
		for i, p := range m.Params {
			params[i] = fmt.Sprintf("(%s %s)", p.Kind, p.Name)
		}
		writeOpen(b, depth, "(macro %s (%s)", m.Name, strings.Join(params, ""))
	case FlavorBooleanif, FlavorTunableif:
		writeOpen(b, depth, "(%s %s", n.Flavor, exprString(n.Data.(*CondIf).Expr))
	case FlavorCondBlock:
		writeOpen(b, depth, "(%t", n.Data.(*CondBlock).Value)
	default:
		writeIndent(b, depth)
		b.WriteString(StatementString(n))
		b.WriteByte('\n')
		return
	}
	for _, child := range n.Children {
		writeNode(b, child, depth+1)
	}
	writeIndent(b, depth)
	b.WriteString(")\n")
}

func writeOpen(b *strings.Builder, depth int, format string, args ...any) {
	writeIndent(b, depth)
	fmt.Fprintf(b, format, args...)
	b.WriteByte('\n')
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteByte('\t')
	}
}

// StatementString renders a single statement without its body. For container
// statements this is the opening form, e.g. "(block foo ...)".
func StatementString(n *Node) string {
	switch n.Flavor {
	case FlavorRoot:
		return "(root)"
	case FlavorSrcInfo:
		si := n.Data.(*SrcInfo)
		return fmt.Sprintf(";;* lms %s %s", si.Kind, si.Path)
	case FlavorAvrule:
		r := n.Data.(*Avrule)
		return fmt.Sprintf("(%s %s %s %s)", r.Kind, r.Src, r.Tgt, classpermsRefString(r.Perms))
	case FlavorAvrulex:
		r := n.Data.(*Avrule)
		return fmt.Sprintf("(%sx %s %s %s)", r.Kind, r.Src, r.Tgt, permxRefString(r.Permx))
	case FlavorDenyRule:
		r := n.Data.(*DenyRule)
		return fmt.Sprintf("(deny %s %s %s)", r.Src, r.Tgt, classpermsRefString(r.Perms))
	case FlavorCall:
		c := n.Data.(*Call)
		if len(c.Args) == 0 {
			return fmt.Sprintf("(call %s)", c.Macro)
		}
		args := make([]string, len(c.Args))
		for i, a := range c.Args {
			args[i] = callArgString(a)
		}
		return fmt.Sprintf("(call %s (%s))", c.Macro, strings.Join(args, " "))
	case FlavorMacro:
		m := n.Data.(*Macro)
		params := make([]string, len(m.Params))
		for i, p := range m.Params {
			params[i] = fmt.Sprintf("(%s %s)", p.Kind, p.Name)
		}
		return fmt.Sprintf("(macro %s (%s) ...)", m.Name, strings.Join(params, ""))
	case FlavorPerm, FlavorMapPerm, FlavorClasspermission, FlavorSensitivity,
		FlavorSensitivityalias, FlavorCategory, FlavorCategoryalias,
		FlavorPolicycap, FlavorRole, FlavorRoleattribute, FlavorSid,
		FlavorType, FlavorTypealias, FlavorTypeattribute, FlavorUser,
		FlavorUserattribute:
		return fmt.Sprintf("(%s %s)", n.Flavor, n.Data.(*Symbol).Name)
	case FlavorClass, FlavorCommon, FlavorClassmap:
		perms := make([]string, len(n.Children))
		for i, child := range n.Children {
			perms[i] = child.Data.(*Symbol).Name
		}
		return fmt.Sprintf("(%s %s (%s))", n.Flavor, n.Data.(*Symbol).Name, strings.Join(perms, " "))
	case FlavorClasscommon:
		cc := n.Data.(*Classcommon)
		return fmt.Sprintf("(classcommon %s %s)", cc.Class, cc.Common)
	case FlavorClassorder, FlavorSensitivityorder, FlavorCategoryorder, FlavorSidorder:
		ord := n.Data.(*Ordered)
		items := strings.Join(ord.Items, " ")
		if ord.Unordered {
			items = "unordered " + items
		}
		return fmt.Sprintf("(%s (%s))", n.Flavor, items)
	case FlavorClasspermissionset:
		cps := n.Data.(*Classpermissionset)
		return fmt.Sprintf("(classpermissionset %s %s)", cps.Set, classpermsString(&cps.Perms))
	case FlavorClassmapping:
		cm := n.Data.(*Classmapping)
		return fmt.Sprintf("(classmapping %s %s %s)", cm.MapClass, cm.MapPerm, classpermsRefString(cm.Perms))
	case FlavorPermissionx:
		px := n.Data.(*Permissionx)
		return fmt.Sprintf("(permissionx %s %s)", px.Name, permxString(px))
	case FlavorBool, FlavorTunable:
		d := n.Data.(*BoolDecl)
		return fmt.Sprintf("(%s %s %t)", n.Flavor, d.Name, d.Value)
	case FlavorBooleanif, FlavorTunableif:
		return fmt.Sprintf("(%s %s ...)", n.Flavor, exprString(n.Data.(*CondIf).Expr))
	case FlavorCondBlock:
		return fmt.Sprintf("(%t ...)", n.Data.(*CondBlock).Value)
	case FlavorConstrain, FlavorMlsconstrain:
		c := n.Data.(*Constrain)
		return fmt.Sprintf("(%s %s %s)", n.Flavor, classpermsString(&c.Perms), exprString(c.Expr))
	case FlavorValidatetrans, FlavorMlsvalidatetrans:
		vt := n.Data.(*Validatetrans)
		return fmt.Sprintf("(%s %s %s)", n.Flavor, vt.Class, exprString(vt.Expr))
	case FlavorBlock, FlavorOptional:
		return fmt.Sprintf("(%s %s ...)", n.Flavor, n.Data.(*Symbol).Name)
	case FlavorBlockabstract, FlavorBlockinherit:
		return fmt.Sprintf("(%s %s)", n.Flavor, n.Data.(*Blockref).Block)
	case FlavorIn:
		in := n.Data.(*In)
		if in.After {
			return fmt.Sprintf("(in after %s ...)", in.Block)
		}
		return fmt.Sprintf("(in %s ...)", in.Block)
	case FlavorContext:
		ctx := n.Data.(*Context)
		return fmt.Sprintf("(context %s %s)", ctx.Name, contextBodyString(ctx))
	case FlavorDefaultuser, FlavorDefaultrole, FlavorDefaulttype:
		d := n.Data.(*Default)
		return fmt.Sprintf("(%s (%s) %s)", n.Flavor, strings.Join(d.Classes, " "), d.Object)
	case FlavorDefaultrange:
		d := n.Data.(*Defaultrange)
		return fmt.Sprintf("(defaultrange (%s) %s)", strings.Join(d.Classes, " "), d.Object)
	case FlavorFilecon:
		fc := n.Data.(*Filecon)
		return fmt.Sprintf("(filecon %q %s %s)", fc.Path, fc.Type, contextRefString(fc.Context))
	case FlavorFsuse:
		fs := n.Data.(*Fsuse)
		return fmt.Sprintf("(fsuse %s %s %s)", fs.Type, fs.Fs, contextRefString(fs.Context))
	case FlavorGenfscon:
		gc := n.Data.(*Genfscon)
		if gc.FileType == FileAny {
			return fmt.Sprintf("(genfscon %s %q %s)", gc.Fs, gc.Path, contextRefString(gc.Context))
		}
		return fmt.Sprintf("(genfscon %s %q %s %s)", gc.Fs, gc.Path, gc.FileType, contextRefString(gc.Context))
	case FlavorIbpkeycon:
		pc := n.Data.(*Ibpkeycon)
		return fmt.Sprintf("(ibpkeycon %s (%d %d) %s)", pc.SubnetPrefix, pc.Low, pc.High, contextRefString(pc.Context))
	case FlavorIbendportcon:
		ep := n.Data.(*Ibendportcon)
		return fmt.Sprintf("(ibendportcon %s %d %s)", ep.Device, ep.Port, contextRefString(ep.Context))
	case FlavorTypealiasactual, FlavorSensitivityaliasactual, FlavorCategoryaliasactual:
		aa := n.Data.(*AliasActual)
		return fmt.Sprintf("(%s %s %s)", n.Flavor, aa.Alias, aa.Actual)
	case FlavorCategoryset:
		cs := n.Data.(*Categoryset)
		return fmt.Sprintf("(categoryset %s %s)", cs.Name, exprString(cs.Cats))
	case FlavorSensitivitycategory:
		sc := n.Data.(*Sensitivitycategory)
		return fmt.Sprintf("(sensitivitycategory %s %s)", sc.Sens, exprString(sc.Cats))
	case FlavorLevel:
		l := n.Data.(*Level)
		return fmt.Sprintf("(level %s %s)", l.Name, levelBodyString(l))
	case FlavorLevelrange:
		lr := n.Data.(*LevelRange)
		return fmt.Sprintf("(levelrange %s %s)", lr.Name, levelRangeBodyString(lr))
	case FlavorRangetransition:
		rt := n.Data.(*Rangetransition)
		return fmt.Sprintf("(rangetransition %s %s %s %s)", rt.Src, rt.Exec, rt.Obj, levelRangeRefString(rt.Range))
	case FlavorIpaddr:
		ip := n.Data.(*Ipaddr)
		return fmt.Sprintf("(ipaddr %s %s)", ip.Name, ip.Addr)
	case FlavorNetifcon:
		nc := n.Data.(*Netifcon)
		return fmt.Sprintf("(netifcon %s %s %s)", nc.Interface, contextRefString(nc.IfContext), contextRefString(nc.PacketContext))
	case FlavorNodecon:
		nc := n.Data.(*Nodecon)
		return fmt.Sprintf("(nodecon %s %s %s)", ipaddrRefString(nc.Addr), ipaddrRefString(nc.Mask), contextRefString(nc.Context))
	case FlavorPortcon:
		pc := n.Data.(*Portcon)
		if pc.Low == pc.High {
			return fmt.Sprintf("(portcon %s %d %s)", pc.Proto, pc.Low, contextRefString(pc.Context))
		}
		return fmt.Sprintf("(portcon %s (%d %d) %s)", pc.Proto, pc.Low, pc.High, contextRefString(pc.Context))
	case FlavorMls:
		return fmt.Sprintf("(mls %t)", n.Data.(*Mls).Value)
	case FlavorHandleunknown:
		return fmt.Sprintf("(handleunknown %s)", n.Data.(*Handleunknown).Action)
	case FlavorRoletype:
		rt := n.Data.(*Roletype)
		return fmt.Sprintf("(roletype %s %s)", rt.Role, rt.Type)
	case FlavorTypeattributeset, FlavorRoleattributeset, FlavorUserattributeset:
		as := n.Data.(*Attributeset)
		return fmt.Sprintf("(%s %s %s)", n.Flavor, as.Attr, exprString(as.Expr))
	case FlavorRoleallow:
		ra := n.Data.(*Roleallow)
		return fmt.Sprintf("(roleallow %s %s)", ra.Src, ra.Tgt)
	case FlavorRoletransition:
		rt := n.Data.(*Roletransition)
		return fmt.Sprintf("(roletransition %s %s %s %s)", rt.Src, rt.Tgt, rt.Obj, rt.Result)
	case FlavorTypebounds, FlavorRolebounds, FlavorUserbounds:
		bd := n.Data.(*Bounds)
		return fmt.Sprintf("(%s %s %s)", n.Flavor, bd.Parent, bd.Child)
	case FlavorSidcontext:
		sc := n.Data.(*Sidcontext)
		return fmt.Sprintf("(sidcontext %s %s)", sc.Sid, contextRefString(sc.Context))
	case FlavorExpandtypeattribute:
		eta := n.Data.(*Expandtypeattribute)
		return fmt.Sprintf("(expandtypeattribute (%s) %t)", strings.Join(eta.Attrs, " "), eta.Expand)
	case FlavorTypeRule:
		tr := n.Data.(*TypeRule)
		return fmt.Sprintf("(%s %s %s %s %s)", tr.Kind, tr.Src, tr.Tgt, tr.Obj, tr.Result)
	case FlavorNametypetransition:
		nt := n.Data.(*Nametypetransition)
		return fmt.Sprintf("(typetransition %s %s %s %q %s)", nt.Src, nt.Tgt, nt.Obj, nt.Name, nt.Result)
	case FlavorTypepermissive:
		return fmt.Sprintf("(typepermissive %s)", n.Data.(*Typepermissive).Type)
	case FlavorUserrole:
		ur := n.Data.(*Userrole)
		return fmt.Sprintf("(userrole %s %s)", ur.User, ur.Role)
	case FlavorUserlevel:
		ul := n.Data.(*Userlevel)
		return fmt.Sprintf("(userlevel %s %s)", ul.User, levelRefString(ul.Level))
	case FlavorUserrange:
		ur := n.Data.(*Userrange)
		return fmt.Sprintf("(userrange %s %s)", ur.User, levelRangeRefString(ur.Range))
	case FlavorUserprefix:
		up := n.Data.(*Userprefix)
		return fmt.Sprintf("(userprefix %s %s)", up.User, up.Prefix)
	case FlavorSelinuxuser:
		su := n.Data.(*Selinuxuser)
		return fmt.Sprintf("(selinuxuser %s %s %s)", su.Name, su.User, levelRangeRefString(su.Range))
	case FlavorSelinuxuserdefault:
		su := n.Data.(*Selinuxuser)
		return fmt.Sprintf("(selinuxuserdefault %s %s)", su.User, levelRangeRefString(su.Range))
	case FlavorIomemcon:
		im := n.Data.(*Iomemcon)
		return fmt.Sprintf("(iomemcon (%d %d) %s)", im.Low, im.High, contextRefString(im.Context))
	case FlavorIoportcon:
		ip := n.Data.(*Ioportcon)
		return fmt.Sprintf("(ioportcon (%d %d) %s)", ip.Low, ip.High, contextRefString(ip.Context))
	case FlavorPcidevicecon:
		pd := n.Data.(*Pcidevicecon)
		return fmt.Sprintf("(pcidevicecon %d %s)", pd.Device, contextRefString(pd.Context))
	case FlavorPirqcon:
		pq := n.Data.(*Pirqcon)
		return fmt.Sprintf("(pirqcon %d %s)", pq.IRQ, contextRefString(pq.Context))
	case FlavorDevicetreecon:
		dt := n.Data.(*Devicetreecon)
		return fmt.Sprintf("(devicetreecon %q %s)", dt.Path, contextRefString(dt.Context))
	}
	return fmt.Sprintf("(%s)", n.Flavor)
}

func exprString(e *Expr) string {
	if e == nil {
		return "()"
	}
	if e.Op == OpNone && len(e.Operands) == 1 && e.Operands[0].Expr == nil {
		return e.Operands[0].Str
	}
	parts := make([]string, 0, len(e.Operands)+1)
	if e.Op != OpNone {
		parts = append(parts, e.Op.String())
	}
	for _, op := range e.Operands {
		if op.Expr != nil {
			parts = append(parts, exprString(op.Expr))
		} else {
			parts = append(parts, op.Str)
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// exprListString always renders parens, even around a single bare name.
func exprListString(e *Expr) string {
	s := exprString(e)
	if !strings.HasPrefix(s, "(") {
		return "(" + s + ")"
	}
	return s
}

func classpermsString(cp *Classperms) string {
	return fmt.Sprintf("(%s %s)", cp.Class, exprListString(cp.Perms))
}

func classpermsRefString(ref ClasspermsRef) string {
	if ref.Anon != nil {
		return classpermsString(ref.Anon)
	}
	return ref.Name
}

func permxString(px *Permissionx) string {
	return fmt.Sprintf("(%s %s %s)", px.Kind, px.Obj, exprListString(px.Perms))
}

func permxRefString(ref PermissionxRef) string {
	if ref.Anon != nil {
		return permxString(ref.Anon)
	}
	return ref.Name
}

func callArgString(a *CallArg) string {
	if a.List == nil {
		return a.Leaf
	}
	parts := make([]string, len(a.List))
	for i, sub := range a.List {
		parts[i] = callArgString(sub)
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func levelBodyString(l *Level) string {
	if l.Cats == nil {
		return fmt.Sprintf("(%s)", l.Sens)
	}
	return fmt.Sprintf("(%s %s)", l.Sens, exprListString(l.Cats))
}

func levelRefString(ref LevelRef) string {
	if ref.Anon != nil {
		return levelBodyString(ref.Anon)
	}
	return ref.Name
}

func levelRangeBodyString(lr *LevelRange) string {
	return fmt.Sprintf("(%s %s)", levelRefString(lr.Low), levelRefString(lr.High))
}

func levelRangeRefString(ref LevelRangeRef) string {
	if ref.Anon != nil {
		return levelRangeBodyString(ref.Anon)
	}
	return ref.Name
}

func contextBodyString(ctx *Context) string {
	return fmt.Sprintf("(%s %s %s %s)", ctx.User, ctx.Role, ctx.Type, levelRangeRefString(ctx.Range))
}

func contextRefString(ref ContextRef) string {
	if ref.Anon != nil {
		return contextBodyString(ref.Anon)
	}
	if ref.Name == "" {
		return "()"
	}
	return ref.Name
}

func ipaddrRefString(ref IPAddrRef) string {
	if ref.Anon != nil {
		return fmt.Sprintf("(%s)", ref.Anon.Addr)
	}
	return ref.Name
}

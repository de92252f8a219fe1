package compare

import (
	"fmt"
	"slices"

	"github.com/odvcencio/cildiff/pkg/cil"
)

// hashTag returns the kind tag a node's hashes begin with. A few kinds
// share a tag on purpose: extended access vector rules hash like plain ones
// (an extension flag separates them), map permissions hash like
// permissions, and the three default-object statements share one tag with
// the kind value mixed in as a field.
func hashTag(flavor cil.Flavor) string {
	switch flavor {
	case cil.FlavorAvrulex:
		return "avrule"
	case cil.FlavorMapPerm:
		return "perm"
	case cil.FlavorDefaultuser, cil.FlavorDefaultrole, cil.FlavorDefaulttype:
		return "cil_default"
	}
	return flavor.String()
}

// statementDigests computes the full and partial hashes of a node's own
// semantic fields, ignoring any children. The partial hash covers the
// fields that identify the statement; the full hash additionally covers the
// fields that carry its value. Kinds with no identity/value split return
// the same digest twice.
func statementDigests(n *cil.Node) (full, partial Digest) {
	h := newHasher(hashTag(n.Flavor))
	var fork *hasher

	switch n.Flavor {
	case cil.FlavorRoot, cil.FlavorSrcInfo:
		// Provenance carries no semantic content.

	case cil.FlavorAvrule, cil.FlavorAvrulex:
		r := n.Data.(*cil.Avrule)
		h.writeBool(r.Extended)
		h.writeUint32(uint32(r.Kind))
		h.writeString(r.Src)
		h.writeString(r.Tgt)
		fork = h.clone()
		if r.Extended {
			writePermxRef(h, r.Permx)
		} else {
			writeClasspermsRef(h, r.Perms)
		}

	case cil.FlavorDenyRule:
		r := n.Data.(*cil.DenyRule)
		h.writeString(r.Src)
		h.writeString(r.Tgt)
		fork = h.clone()
		writeClasspermsRef(h, r.Perms)

	case cil.FlavorCall:
		c := n.Data.(*cil.Call)
		h.writeString(c.Macro)
		h.writeDigest(callArgListDigest(c.Args))

	case cil.FlavorMacro:
		m := n.Data.(*cil.Macro)
		h.writeString(m.Name)
		fork = h.clone()
		for _, p := range m.Params {
			h.writeString(p.Kind)
			h.writeString(p.Name)
		}

	case cil.FlavorPerm, cil.FlavorMapPerm, cil.FlavorCommon, cil.FlavorClass,
		cil.FlavorClassmap, cil.FlavorClasspermission, cil.FlavorBlock,
		cil.FlavorSensitivity, cil.FlavorSensitivityalias, cil.FlavorCategory,
		cil.FlavorCategoryalias, cil.FlavorPolicycap, cil.FlavorRole,
		cil.FlavorRoleattribute, cil.FlavorSid, cil.FlavorType,
		cil.FlavorTypealias, cil.FlavorTypeattribute, cil.FlavorUser,
		cil.FlavorUserattribute:
		h.writeString(n.Data.(*cil.Symbol).Name)

	case cil.FlavorClasscommon:
		cc := n.Data.(*cil.Classcommon)
		h.writeString(cc.Class)
		fork = h.clone()
		h.writeString(cc.Common)

	case cil.FlavorClassorder, cil.FlavorSensitivityorder,
		cil.FlavorCategoryorder, cil.FlavorSidorder:
		ord := n.Data.(*cil.Ordered)
		fork = h.clone()
		h.writeDigest(stringListDigest(ord.Items, ord.Unordered))

	case cil.FlavorClasspermissionset:
		cps := n.Data.(*cil.Classpermissionset)
		h.writeString(cps.Set)
		fork = h.clone()
		h.writeDigest(classpermsDigest(&cps.Perms))

	case cil.FlavorClassmapping:
		cm := n.Data.(*cil.Classmapping)
		h.writeString(cm.MapClass)
		h.writeString(cm.MapPerm)
		fork = h.clone()
		writeClasspermsRef(h, cm.Perms)

	case cil.FlavorPermissionx:
		return permxDigests(n.Data.(*cil.Permissionx))

	case cil.FlavorBool, cil.FlavorTunable:
		d := n.Data.(*cil.BoolDecl)
		h.writeString(d.Name)
		fork = h.clone()
		h.writeBool(d.Value)

	case cil.FlavorBooleanif, cil.FlavorTunableif:
		// The condition is both identity and value: branch changes show up
		// through the child set only.
		h.writeDigest(exprDigest(n.Data.(*cil.CondIf).Expr))

	case cil.FlavorCondBlock:
		h.writeBool(n.Data.(*cil.CondBlock).Value)

	case cil.FlavorConstrain, cil.FlavorMlsconstrain:
		c := n.Data.(*cil.Constrain)
		h.writeDigest(classpermsDigest(&c.Perms))
		fork = h.clone()
		h.writeDigest(exprDigest(c.Expr))

	case cil.FlavorValidatetrans, cil.FlavorMlsvalidatetrans:
		vt := n.Data.(*cil.Validatetrans)
		h.writeString(vt.Class)
		fork = h.clone()
		h.writeDigest(exprDigest(vt.Expr))

	case cil.FlavorBlockabstract, cil.FlavorBlockinherit:
		h.writeString(n.Data.(*cil.Blockref).Block)

	case cil.FlavorOptional:
		// All optionals bucket together so renamed ones can still be
		// matched by content.
		fork = h.clone()
		h.writeString(n.Data.(*cil.Symbol).Name)

	case cil.FlavorIn:
		in := n.Data.(*cil.In)
		h.writeBool(in.After)
		h.writeString(in.Block)

	case cil.FlavorContext:
		return contextDigests(n.Data.(*cil.Context))

	case cil.FlavorDefaultuser, cil.FlavorDefaultrole, cil.FlavorDefaulttype:
		d := n.Data.(*cil.Default)
		h.writeUint32(uint32(n.Flavor))
		h.writeUint32(uint32(d.Object))
		fork = h.clone()
		h.writeDigest(stringListDigest(d.Classes, true))

	case cil.FlavorDefaultrange:
		d := n.Data.(*cil.Defaultrange)
		h.writeUint32(uint32(d.Object))
		fork = h.clone()
		h.writeDigest(stringListDigest(d.Classes, true))

	case cil.FlavorFilecon:
		fc := n.Data.(*cil.Filecon)
		h.writeString(fc.Path)
		h.writeUint32(uint32(fc.Type))
		fork = h.clone()
		if fc.Context.Name == "" && fc.Context.Anon == nil {
			h.writeString("<empty_context>")
		} else {
			h.writeString("<context>")
			writeContextRef(h, fc.Context)
		}

	case cil.FlavorFsuse:
		fs := n.Data.(*cil.Fsuse)
		h.writeUint32(uint32(fs.Type))
		h.writeString(fs.Fs)
		writeContextRef(h, fs.Context)

	case cil.FlavorGenfscon:
		gc := n.Data.(*cil.Genfscon)
		h.writeString(gc.Fs)
		h.writeString(gc.Path)
		h.writeUint32(uint32(gc.FileType))
		fork = h.clone()
		writeContextRef(h, gc.Context)

	case cil.FlavorIbpkeycon:
		pc := n.Data.(*cil.Ibpkeycon)
		h.writeString(pc.SubnetPrefix)
		h.writeUint32(pc.Low)
		h.writeUint32(pc.High)
		fork = h.clone()
		writeContextRef(h, pc.Context)

	case cil.FlavorIbendportcon:
		ep := n.Data.(*cil.Ibendportcon)
		h.writeString(ep.Device)
		h.writeUint32(ep.Port)
		fork = h.clone()
		writeContextRef(h, ep.Context)

	case cil.FlavorTypealiasactual, cil.FlavorSensitivityaliasactual,
		cil.FlavorCategoryaliasactual:
		aa := n.Data.(*cil.AliasActual)
		h.writeString(aa.Alias)
		fork = h.clone()
		h.writeString(aa.Actual)

	case cil.FlavorCategoryset:
		cs := n.Data.(*cil.Categoryset)
		if cs.Name != "" {
			h.writeString(cs.Name)
		} else {
			h.writeString("<anonymous::categoryset>")
		}
		fork = h.clone()
		h.writeDigest(exprDigest(cs.Cats))

	case cil.FlavorSensitivitycategory:
		sc := n.Data.(*cil.Sensitivitycategory)
		h.writeString(sc.Sens)
		fork = h.clone()
		h.writeDigest(exprDigest(sc.Cats))

	case cil.FlavorLevel:
		return levelDigests(n.Data.(*cil.Level))

	case cil.FlavorLevelrange:
		return levelRangeDigests(n.Data.(*cil.LevelRange))

	case cil.FlavorRangetransition:
		rt := n.Data.(*cil.Rangetransition)
		h.writeString(rt.Src)
		h.writeString(rt.Exec)
		h.writeString(rt.Obj)
		fork = h.clone()
		writeLevelRangeRef(h, rt.Range)

	case cil.FlavorIpaddr:
		return ipaddrDigests(n.Data.(*cil.Ipaddr))

	case cil.FlavorNetifcon:
		nc := n.Data.(*cil.Netifcon)
		h.writeString(nc.Interface)
		fork = h.clone()
		writeContextRef(h, nc.IfContext)
		writeContextRef(h, nc.PacketContext)

	case cil.FlavorNodecon:
		nc := n.Data.(*cil.Nodecon)
		writeIPAddrRef(h, nc.Addr)
		writeIPAddrRef(h, nc.Mask)
		fork = h.clone()
		writeContextRef(h, nc.Context)

	case cil.FlavorPortcon:
		pc := n.Data.(*cil.Portcon)
		h.writeUint32(uint32(pc.Proto))
		h.writeUint16(pc.Low)
		h.writeUint16(pc.High)
		fork = h.clone()
		writeContextRef(h, pc.Context)

	case cil.FlavorMls:
		fork = h.clone()
		h.writeBool(n.Data.(*cil.Mls).Value)

	case cil.FlavorHandleunknown:
		fork = h.clone()
		h.writeUint32(uint32(n.Data.(*cil.Handleunknown).Action))

	case cil.FlavorRoletype:
		rt := n.Data.(*cil.Roletype)
		h.writeString(rt.Role)
		fork = h.clone()
		h.writeString(rt.Type)

	case cil.FlavorTypeattributeset, cil.FlavorRoleattributeset,
		cil.FlavorUserattributeset:
		as := n.Data.(*cil.Attributeset)
		h.writeString(as.Attr)
		fork = h.clone()
		h.writeDigest(exprDigest(as.Expr))

	case cil.FlavorRoleallow:
		ra := n.Data.(*cil.Roleallow)
		h.writeString(ra.Src)
		fork = h.clone()
		h.writeString(ra.Tgt)

	case cil.FlavorRoletransition:
		rt := n.Data.(*cil.Roletransition)
		h.writeString(rt.Src)
		h.writeString(rt.Tgt)
		h.writeString(rt.Obj)
		fork = h.clone()
		h.writeString(rt.Result)

	case cil.FlavorTypebounds, cil.FlavorRolebounds, cil.FlavorUserbounds:
		bd := n.Data.(*cil.Bounds)
		h.writeString(bd.Parent)
		h.writeString(bd.Child)

	case cil.FlavorSidcontext:
		sc := n.Data.(*cil.Sidcontext)
		h.writeString(sc.Sid)
		fork = h.clone()
		writeContextRef(h, sc.Context)

	case cil.FlavorExpandtypeattribute:
		eta := n.Data.(*cil.Expandtypeattribute)
		h.writeBool(eta.Expand)
		fork = h.clone()
		h.writeDigest(stringListDigest(eta.Attrs, true))

	case cil.FlavorTypeRule:
		tr := n.Data.(*cil.TypeRule)
		h.writeUint32(uint32(tr.Kind))
		h.writeString(tr.Src)
		h.writeString(tr.Tgt)
		h.writeString(tr.Obj)
		fork = h.clone()
		h.writeString(tr.Result)

	case cil.FlavorNametypetransition:
		nt := n.Data.(*cil.Nametypetransition)
		h.writeString(nt.Src)
		h.writeString(nt.Tgt)
		h.writeString(nt.Obj)
		h.writeString(nt.Name)
		fork = h.clone()
		h.writeString(nt.Result)

	case cil.FlavorTypepermissive:
		h.writeString(n.Data.(*cil.Typepermissive).Type)

	case cil.FlavorUserrole:
		ur := n.Data.(*cil.Userrole)
		h.writeString(ur.User)
		fork = h.clone()
		h.writeString(ur.Role)

	case cil.FlavorUserlevel:
		ul := n.Data.(*cil.Userlevel)
		h.writeString(ul.User)
		fork = h.clone()
		writeLevelRef(h, ul.Level)

	case cil.FlavorUserrange:
		ur := n.Data.(*cil.Userrange)
		h.writeString(ur.User)
		fork = h.clone()
		writeLevelRangeRef(h, ur.Range)

	case cil.FlavorUserprefix:
		up := n.Data.(*cil.Userprefix)
		h.writeString(up.User)
		fork = h.clone()
		h.writeString(up.Prefix)

	case cil.FlavorSelinuxuser:
		su := n.Data.(*cil.Selinuxuser)
		h.writeString(su.Name)
		fork = h.clone()
		h.writeString(su.User)
		writeLevelRangeRef(h, su.Range)

	case cil.FlavorSelinuxuserdefault:
		su := n.Data.(*cil.Selinuxuser)
		fork = h.clone()
		h.writeString(su.User)
		writeLevelRangeRef(h, su.Range)

	case cil.FlavorIomemcon:
		im := n.Data.(*cil.Iomemcon)
		h.writeUint64(im.Low)
		h.writeUint64(im.High)
		fork = h.clone()
		writeContextRef(h, im.Context)

	case cil.FlavorIoportcon:
		ip := n.Data.(*cil.Ioportcon)
		h.writeUint32(ip.Low)
		h.writeUint32(ip.High)
		fork = h.clone()
		writeContextRef(h, ip.Context)

	case cil.FlavorPcidevicecon:
		pd := n.Data.(*cil.Pcidevicecon)
		h.writeUint32(pd.Device)
		fork = h.clone()
		writeContextRef(h, pd.Context)

	case cil.FlavorPirqcon:
		pq := n.Data.(*cil.Pirqcon)
		h.writeUint32(pq.IRQ)
		fork = h.clone()
		writeContextRef(h, pq.Context)

	case cil.FlavorDevicetreecon:
		dt := n.Data.(*cil.Devicetreecon)
		h.writeString(dt.Path)
		fork = h.clone()
		writeContextRef(h, dt.Context)

	default:
		panic(fmt.Sprintf("compare: no hash rule for %v node", n.Flavor))
	}

	full = h.sum()
	if fork != nil {
		partial = fork.sum()
	} else {
		partial = full
	}
	return full, partial
}

// exprDigest hashes an expression: the operator in place, the operand
// hashes sorted so operand order never matters.
func exprDigest(e *cil.Expr) Digest {
	h := newHasher("<expr>")
	if e == nil || (e.Op == cil.OpNone && len(e.Operands) == 0) {
		return h.sum()
	}
	if e.Op != cil.OpNone {
		h.writeString("<expr_op>")
		h.writeString(e.Op.String())
	}
	operands := make([]Digest, len(e.Operands))
	for i, op := range e.Operands {
		if op.Expr != nil {
			operands[i] = exprDigest(op.Expr)
		} else {
			operands[i] = hashString(op.Str)
		}
	}
	slices.SortFunc(operands, func(d1, d2 Digest) int {
		return compareDigests(&d1, &d2)
	})
	for _, d := range operands {
		h.writeDigest(d)
	}
	return h.sum()
}

// stringListDigest hashes a flat name list. Unordered lists absorb sorted
// member hashes under an "<unordered>" marker; ordered lists keep position
// significant.
func stringListDigest(items []string, unordered bool) Digest {
	h := newHasher("<list>")
	if len(items) == 0 {
		return h.sum()
	}
	if unordered {
		h.writeString("<unordered>")
	} else {
		h.writeString("<ordered>")
	}
	hashes := make([]Digest, len(items))
	for i, item := range items {
		hashes[i] = hashString(item)
	}
	if unordered {
		slices.SortFunc(hashes, func(d1, d2 Digest) int {
			return compareDigests(&d1, &d2)
		})
	}
	for _, d := range hashes {
		h.writeDigest(d)
	}
	return h.sum()
}

// Call arguments are positional: the hash keeps list order.
func callArgListDigest(args []*cil.CallArg) Digest {
	h := newHasher("<list>")
	for _, arg := range args {
		h.writeDigest(callArgDigest(arg))
	}
	return h.sum()
}

func callArgDigest(a *cil.CallArg) Digest {
	if a.List == nil {
		h := newHasher("<string>")
		h.writeString(a.Leaf)
		return h.sum()
	}
	return callArgListDigest(a.List)
}

func classpermsDigest(cp *cil.Classperms) Digest {
	h := newHasher("classperms")
	h.writeString(cp.Class)
	h.writeDigest(exprDigest(cp.Perms))
	return h.sum()
}

// writeClasspermsRef absorbs a class-permission reference: named references
// hash as a set reference by name, anonymous ones by content.
func writeClasspermsRef(h *hasher, ref cil.ClasspermsRef) {
	if ref.Anon != nil {
		h.writeDigest(classpermsDigest(ref.Anon))
		return
	}
	set := newHasher("classperms_set")
	set.writeString(ref.Name)
	h.writeDigest(set.sum())
}

func permxDigests(px *cil.Permissionx) (full, partial Digest) {
	h := newHasher("permissionx")
	if px.Name != "" {
		h.writeString(px.Name)
	} else {
		h.writeString("<anonymous::permissionx>")
	}
	h.writeUint32(uint32(px.Kind))
	h.writeString(px.Obj)
	fork := h.clone()
	h.writeDigest(exprDigest(px.Perms))
	return h.sum(), fork.sum()
}

func writePermxRef(h *hasher, ref cil.PermissionxRef) {
	if ref.Anon != nil {
		full, _ := permxDigests(ref.Anon)
		h.writeDigest(full)
		return
	}
	h.writeString(ref.Name)
}

func contextDigests(ctx *cil.Context) (full, partial Digest) {
	h := newHasher("context")
	if ctx.Name != "" {
		h.writeString(ctx.Name)
	} else {
		h.writeString("<anonymous::context>")
	}
	fork := h.clone()
	h.writeString(ctx.User)
	h.writeString(ctx.Role)
	h.writeString(ctx.Type)
	writeLevelRangeRef(h, ctx.Range)
	return h.sum(), fork.sum()
}

func writeContextRef(h *hasher, ref cil.ContextRef) {
	if ref.Anon != nil {
		full, _ := contextDigests(ref.Anon)
		h.writeDigest(full)
		return
	}
	h.writeString(ref.Name)
}

func levelDigests(l *cil.Level) (full, partial Digest) {
	h := newHasher("level")
	if l.Name != "" {
		h.writeString(l.Name)
	} else {
		h.writeString("<anonymous::level>")
	}
	fork := h.clone()
	h.writeString(l.Sens)
	if l.Cats != nil {
		h.writeDigest(exprDigest(l.Cats))
	}
	return h.sum(), fork.sum()
}

func writeLevelRef(h *hasher, ref cil.LevelRef) {
	if ref.Anon != nil {
		full, _ := levelDigests(ref.Anon)
		h.writeDigest(full)
		return
	}
	h.writeString(ref.Name)
}

func levelRangeDigests(lr *cil.LevelRange) (full, partial Digest) {
	h := newHasher("levelrange")
	if lr.Name != "" {
		h.writeString(lr.Name)
	} else {
		h.writeString("<anonymous::levelrange>")
	}
	fork := h.clone()
	writeLevelRef(h, lr.Low)
	writeLevelRef(h, lr.High)
	return h.sum(), fork.sum()
}

func writeLevelRangeRef(h *hasher, ref cil.LevelRangeRef) {
	if ref.Anon != nil {
		full, _ := levelRangeDigests(ref.Anon)
		h.writeDigest(full)
		return
	}
	h.writeString(ref.Name)
}

func ipaddrDigests(ip *cil.Ipaddr) (full, partial Digest) {
	h := newHasher("ipaddr")
	if ip.Name != "" {
		h.writeString(ip.Name)
	} else {
		h.writeString("<anonymous::ipaddr>")
	}
	fork := h.clone()
	if ip.Addr.Is4() {
		b := ip.Addr.As4()
		h.writeBytes(b[:])
	} else {
		b := ip.Addr.As16()
		h.writeBytes(b[:])
	}
	return h.sum(), fork.sum()
}

func writeIPAddrRef(h *hasher, ref cil.IPAddrRef) {
	if ref.Anon != nil {
		full, _ := ipaddrDigests(ref.Anon)
		h.writeDigest(full)
		return
	}
	h.writeString(ref.Name)
}

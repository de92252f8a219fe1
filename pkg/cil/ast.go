package cil

import "net/netip"

// Node is one statement or expression in a parsed CIL tree. Data holds the
// kind-specific payload; Children is populated only for container kinds
// (root, src_info, block, optional, in, macro, booleanif, tunableif,
// condblock, class, common, classmap).
type Node struct {
	Flavor   Flavor
	Line     int
	Data     any
	Children []*Node
}

// Expr is a boolean, constraint, or category expression: an optional leading
// operator followed by operands that are either names or nested expressions.
type Expr struct {
	Op       ExprOperator
	Operands []ExprOperand
}

// ExprOperand is either a plain string or a nested *Expr.
type ExprOperand struct {
	Str  string
	Expr *Expr
}

// ExprOperator enumerates the operators accepted in CIL expressions.
type ExprOperator int

const (
	OpNone ExprOperator = iota
	OpNot
	OpAnd
	OpOr
	OpXor
	OpAll
	OpEq
	OpNeq
	OpRange
	OpDom
	OpDomby
	OpIncomp
)

var exprOpNames = map[ExprOperator]string{
	OpNot:    "not",
	OpAnd:    "and",
	OpOr:     "or",
	OpXor:    "xor",
	OpAll:    "all",
	OpEq:     "eq",
	OpNeq:    "neq",
	OpRange:  "range",
	OpDom:    "dom",
	OpDomby:  "domby",
	OpIncomp: "incomp",
}

func (op ExprOperator) String() string {
	return exprOpNames[op]
}

// Symbol is the payload of simple named declarations (type, role, user,
// sensitivity, category, perm, sid, policycap, attributes, aliases, and the
// named class kinds).
type Symbol struct {
	Name string
}

// SrcInfo records the provenance header libsepol attaches to each source
// unit. It contributes nothing to hashing.
type SrcInfo struct {
	Kind    string
	Version string
	Path    string
}

// AvruleKind discriminates the access-vector rule statements.
type AvruleKind int

const (
	AvruleAllow AvruleKind = iota
	AvruleAuditallow
	AvruleDontaudit
	AvruleNeverallow
)

var avruleKindNames = map[AvruleKind]string{
	AvruleAllow:      "allow",
	AvruleAuditallow: "auditallow",
	AvruleDontaudit:  "dontaudit",
	AvruleNeverallow: "neverallow",
}

func (k AvruleKind) String() string { return avruleKindNames[k] }

// Classperms pairs a class with a permission expression, e.g.
// (file (read write)).
type Classperms struct {
	Class string
	Perms *Expr
}

// ClasspermsRef is a named classpermission reference or an inline anonymous
// class-permission pair. Exactly one field is set.
type ClasspermsRef struct {
	Name string
	Anon *Classperms
}

// PermissionxRef is a named permissionx reference or an inline anonymous
// permissionx. Exactly one field is set.
type PermissionxRef struct {
	Name string
	Anon *Permissionx
}

// Avrule is the payload of allow/auditallow/dontaudit/neverallow and their
// extended (allowx, ...) variants.
type Avrule struct {
	Kind     AvruleKind
	Extended bool
	Src      string
	Tgt      string
	Perms    ClasspermsRef  // standard rules
	Permx    PermissionxRef // extended rules
}

// DenyRule is the payload of a deny statement.
type DenyRule struct {
	Src   string
	Tgt   string
	Perms ClasspermsRef
}

// CallArg is one node of a call-site argument tree: a string leaf or a
// nested list. Argument order is positional and significant.
type CallArg struct {
	Leaf string
	List []*CallArg
}

// Call is the payload of a macro call statement.
type Call struct {
	Macro string
	Args  []*CallArg
}

// Param is one formal macro parameter.
type Param struct {
	Kind string // parameter flavor keyword, e.g. "type", "role", "classpermission"
	Name string
}

// Macro is the payload of a macro declaration; the body statements are the
// node's children.
type Macro struct {
	Name   string
	Params []Param
}

// Classcommon associates a class with a common.
type Classcommon struct {
	Class  string
	Common string
}

// Ordered is the payload of classorder, sensitivityorder, categoryorder and
// sidorder statements. Unordered reflects a leading "unordered" marker,
// which only classorder accepts.
type Ordered struct {
	Unordered bool
	Items     []string
}

// Classpermissionset names a classpermission and supplies its class and
// permission expression.
type Classpermissionset struct {
	Set   string
	Perms Classperms
}

// Classmapping maps a classmap permission to a class-permission set.
type Classmapping struct {
	MapClass string
	MapPerm  string
	Perms    ClasspermsRef
}

// PermxKind discriminates extended permission kinds; only ioctl exists.
type PermxKind int

const (
	PermxIoctl PermxKind = iota
)

func (k PermxKind) String() string { return "ioctl" }

// Permissionx is a named or anonymous extended permission set.
type Permissionx struct {
	Name  string // empty for anonymous
	Kind  PermxKind
	Obj   string
	Perms *Expr
}

// BoolDecl is the payload of boolean and tunable declarations.
type BoolDecl struct {
	Name  string
	Value bool
}

// CondIf is the payload of booleanif and tunableif; the branch nodes are the
// node's children.
type CondIf struct {
	Expr *Expr
}

// CondBlock is one branch of a conditional; Value distinguishes the true and
// false branches. Branch statements are the node's children.
type CondBlock struct {
	Value bool
}

// Constrain is the payload of constrain and mlsconstrain.
type Constrain struct {
	Perms Classperms
	Expr  *Expr
}

// Validatetrans is the payload of validatetrans and mlsvalidatetrans.
type Validatetrans struct {
	Class string
	Expr  *Expr
}

// Blockref is the payload of blockabstract and blockinherit.
type Blockref struct {
	Block string
}

// In is the payload of an in-block; the injected statements are the node's
// children.
type In struct {
	After bool
	Block string
}

// Context is a security context, either named (declared) or anonymous
// (inline). Name is empty for anonymous contexts.
type Context struct {
	Name  string
	User  string
	Role  string
	Type  string
	Range LevelRangeRef
}

// ContextRef is a named context reference or an inline anonymous context.
// For filecon both fields may be empty, meaning an empty context.
type ContextRef struct {
	Name string
	Anon *Context
}

// DefaultObject enumerates the targets of default* statements.
type DefaultObject int

const (
	DefaultSource DefaultObject = iota
	DefaultTarget
)

var defaultObjectNames = map[DefaultObject]string{
	DefaultSource: "source",
	DefaultTarget: "target",
}

func (o DefaultObject) String() string { return defaultObjectNames[o] }

// Default is the payload of defaultuser, defaultrole and defaulttype; the
// per-statement flavor carries which one.
type Default struct {
	Object  DefaultObject
	Classes []string
}

// RangeObject enumerates defaultrange targets.
type RangeObject int

const (
	RangeSourceLow RangeObject = iota
	RangeSourceHigh
	RangeSourceLowHigh
	RangeTargetLow
	RangeTargetHigh
	RangeTargetLowHigh
	RangeGlblub
)

var rangeObjectNames = map[RangeObject]string{
	RangeSourceLow:     "source low",
	RangeSourceHigh:    "source high",
	RangeSourceLowHigh: "source low-high",
	RangeTargetLow:     "target low",
	RangeTargetHigh:    "target high",
	RangeTargetLowHigh: "target low-high",
	RangeGlblub:        "glblub",
}

func (o RangeObject) String() string { return rangeObjectNames[o] }

// Defaultrange is the payload of a defaultrange statement.
type Defaultrange struct {
	Object  RangeObject
	Classes []string
}

// FileType enumerates the file kinds accepted by filecon and genfscon.
type FileType int

const (
	FileAny FileType = iota
	FileFile
	FileDir
	FileChar
	FileBlock
	FileSocket
	FilePipe
	FileSymlink
)

var fileTypeNames = map[FileType]string{
	FileAny:     "any",
	FileFile:    "file",
	FileDir:     "dir",
	FileChar:    "char",
	FileBlock:   "block",
	FileSocket:  "socket",
	FilePipe:    "pipe",
	FileSymlink: "symlink",
}

func (t FileType) String() string { return fileTypeNames[t] }

// Filecon labels a path pattern; Context may be empty (both fields unset).
type Filecon struct {
	Path    string
	Type    FileType
	Context ContextRef
}

// FsuseType enumerates fsuse labeling behaviors.
type FsuseType int

const (
	FsuseXattr FsuseType = iota
	FsuseTask
	FsuseTrans
)

var fsuseTypeNames = map[FsuseType]string{
	FsuseXattr: "xattr",
	FsuseTask:  "task",
	FsuseTrans: "trans",
}

func (t FsuseType) String() string { return fsuseTypeNames[t] }

// Fsuse is the payload of an fsuse statement.
type Fsuse struct {
	Type    FsuseType
	Fs      string
	Context ContextRef
}

// Genfscon labels paths within a filesystem.
type Genfscon struct {
	Fs       string
	Path     string
	FileType FileType
	Context  ContextRef
}

// Ibpkeycon labels an infiniband partition key range.
type Ibpkeycon struct {
	SubnetPrefix string
	Low          uint32
	High         uint32
	Context      ContextRef
}

// Ibendportcon labels an infiniband end port.
type Ibendportcon struct {
	Device  string
	Port    uint32
	Context ContextRef
}

// AliasActual is the payload of typealiasactual, sensitivityaliasactual and
// categoryaliasactual.
type AliasActual struct {
	Alias  string
	Actual string
}

// Categoryset is a named or anonymous category set.
type Categoryset struct {
	Name string // empty for anonymous
	Cats *Expr
}

// Sensitivitycategory associates categories with a sensitivity.
type Sensitivitycategory struct {
	Sens string
	Cats *Expr
}

// Level is a named or anonymous MLS level.
type Level struct {
	Name string // empty for anonymous
	Sens string
	Cats *Expr // nil when the level carries no categories
}

// LevelRef is a named level reference or an inline anonymous level.
type LevelRef struct {
	Name string
	Anon *Level
}

// LevelRange is a named or anonymous MLS range.
type LevelRange struct {
	Name string // empty for anonymous
	Low  LevelRef
	High LevelRef
}

// LevelRangeRef is a named levelrange reference or an inline anonymous
// range.
type LevelRangeRef struct {
	Name string
	Anon *LevelRange
}

// Rangetransition is the payload of a rangetransition statement.
type Rangetransition struct {
	Src   string
	Exec  string
	Obj   string
	Range LevelRangeRef
}

// Ipaddr is a named or anonymous IP address.
type Ipaddr struct {
	Name string // empty for anonymous
	Addr netip.Addr
}

// IPAddrRef is a named ipaddr reference or an inline anonymous address.
type IPAddrRef struct {
	Name string
	Anon *Ipaddr
}

// Netifcon labels a network interface.
type Netifcon struct {
	Interface     string
	IfContext     ContextRef
	PacketContext ContextRef
}

// Nodecon labels a network node by address and mask.
type Nodecon struct {
	Addr    IPAddrRef
	Mask    IPAddrRef
	Context ContextRef
}

// Protocol enumerates portcon protocols.
type Protocol int

const (
	ProtoTCP Protocol = iota
	ProtoUDP
	ProtoDCCP
	ProtoSCTP
)

var protocolNames = map[Protocol]string{
	ProtoTCP:  "tcp",
	ProtoUDP:  "udp",
	ProtoDCCP: "dccp",
	ProtoSCTP: "sctp",
}

func (p Protocol) String() string { return protocolNames[p] }

// Portcon labels a port range.
type Portcon struct {
	Proto   Protocol
	Low     uint16
	High    uint16
	Context ContextRef
}

// Mls is the payload of the mls configuration statement.
type Mls struct {
	Value bool
}

// HandleUnknownAction enumerates handleunknown policies.
type HandleUnknownAction int

const (
	HandleAllow HandleUnknownAction = iota
	HandleDeny
	HandleReject
)

var handleUnknownNames = map[HandleUnknownAction]string{
	HandleAllow:  "allow",
	HandleDeny:   "deny",
	HandleReject: "reject",
}

func (a HandleUnknownAction) String() string { return handleUnknownNames[a] }

// Handleunknown is the payload of a handleunknown statement.
type Handleunknown struct {
	Action HandleUnknownAction
}

// Roletype associates a role with a type.
type Roletype struct {
	Role string
	Type string
}

// Attributeset is the payload of typeattributeset, roleattributeset and
// userattributeset.
type Attributeset struct {
	Attr string
	Expr *Expr
}

// Roleallow is the payload of a roleallow statement.
type Roleallow struct {
	Src string
	Tgt string
}

// Roletransition is the payload of a roletransition statement.
type Roletransition struct {
	Src    string
	Tgt    string
	Obj    string
	Result string
}

// Bounds is the payload of typebounds, rolebounds and userbounds.
type Bounds struct {
	Parent string
	Child  string
}

// Sidcontext labels a SID with a context.
type Sidcontext struct {
	Sid     string
	Context ContextRef
}

// Expandtypeattribute is the payload of an expandtypeattribute statement.
type Expandtypeattribute struct {
	Expand bool
	Attrs  []string
}

// TypeRuleKind discriminates the type rule statements.
type TypeRuleKind int

const (
	TypeTransition TypeRuleKind = iota
	TypeMember
	TypeChange
)

var typeRuleKindNames = map[TypeRuleKind]string{
	TypeTransition: "typetransition",
	TypeMember:     "typemember",
	TypeChange:     "typechange",
}

func (k TypeRuleKind) String() string { return typeRuleKindNames[k] }

// TypeRule is the payload of typetransition (unnamed), typemember and
// typechange.
type TypeRule struct {
	Kind   TypeRuleKind
	Src    string
	Tgt    string
	Obj    string
	Result string
}

// Nametypetransition is a named typetransition.
type Nametypetransition struct {
	Src    string
	Tgt    string
	Obj    string
	Name   string
	Result string
}

// Typepermissive is the payload of a typepermissive statement.
type Typepermissive struct {
	Type string
}

// Userrole associates a user with a role.
type Userrole struct {
	User string
	Role string
}

// Userlevel sets a user's default level.
type Userlevel struct {
	User  string
	Level LevelRef
}

// Userrange sets a user's allowed range.
type Userrange struct {
	User  string
	Range LevelRangeRef
}

// Userprefix sets a user's labeling prefix.
type Userprefix struct {
	User   string
	Prefix string
}

// Selinuxuser maps an OS user to a SELinux user; for selinuxuserdefault the
// Name field is empty.
type Selinuxuser struct {
	Name  string
	User  string
	Range LevelRangeRef
}

// Iomemcon labels an IO memory range (Xen).
type Iomemcon struct {
	Low     uint64
	High    uint64
	Context ContextRef
}

// Ioportcon labels an IO port range (Xen).
type Ioportcon struct {
	Low     uint32
	High    uint32
	Context ContextRef
}

// Pcidevicecon labels a PCI device (Xen).
type Pcidevicecon struct {
	Device  uint32
	Context ContextRef
}

// Pirqcon labels a physical IRQ (Xen).
type Pirqcon struct {
	IRQ     uint32
	Context ContextRef
}

// Devicetreecon labels a device tree path (Xen).
type Devicetreecon struct {
	Path    string
	Context ContextRef
}

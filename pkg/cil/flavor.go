package cil

import "fmt"

// Flavor identifies which CIL statement or expression variant a Node
// represents.
type Flavor int

const (
	FlavorNone Flavor = iota

	// Common and utility nodes
	FlavorRoot
	FlavorSrcInfo
	FlavorString

	// Access vector rules
	FlavorAvrule
	FlavorAvrulex
	FlavorDenyRule

	// Call / macro statements
	FlavorCall
	FlavorMacro

	// Class and permission statements
	FlavorPerm
	FlavorMapPerm
	FlavorCommon
	FlavorClasscommon
	FlavorClass
	FlavorClassorder
	FlavorClasspermission
	FlavorClasspermsSet
	FlavorClasspermissionset
	FlavorClassmap
	FlavorClassmapping
	FlavorPermissionx
	FlavorClassperms

	// Conditional statements
	FlavorBool
	FlavorBooleanif
	FlavorTunable
	FlavorTunableif
	FlavorCondBlock

	// Constraint statements
	FlavorConstrain
	FlavorValidatetrans
	FlavorMlsconstrain
	FlavorMlsvalidatetrans

	// Container statements
	FlavorBlock
	FlavorBlockabstract
	FlavorBlockinherit
	FlavorOptional
	FlavorIn

	// Context statement
	FlavorContext

	// Default object statements
	FlavorDefaultuser
	FlavorDefaultrole
	FlavorDefaulttype
	FlavorDefaultrange

	// File labeling statements
	FlavorFilecon
	FlavorFsuse
	FlavorGenfscon

	// Infiniband statements
	FlavorIbpkeycon
	FlavorIbendportcon

	// Multi-level security labeling statements
	FlavorSensitivity
	FlavorSensitivityalias
	FlavorSensitivityaliasactual
	FlavorSensitivityorder
	FlavorCategory
	FlavorCategoryalias
	FlavorCategoryaliasactual
	FlavorCategoryorder
	FlavorCategoryset
	FlavorSensitivitycategory
	FlavorLevel
	FlavorLevelrange
	FlavorRangetransition

	// Network labeling statements
	FlavorIpaddr
	FlavorNetifcon
	FlavorNodecon
	FlavorPortcon

	// Policy configuration statements
	FlavorMls
	FlavorHandleunknown
	FlavorPolicycap

	// Role statements
	FlavorRole
	FlavorRoletype
	FlavorRoleattribute
	FlavorRoleattributeset
	FlavorRoleallow
	FlavorRoletransition
	FlavorRolebounds

	// SID statements
	FlavorSid
	FlavorSidorder
	FlavorSidcontext

	// Type statements
	FlavorType
	FlavorTypealias
	FlavorTypealiasactual
	FlavorTypeattribute
	FlavorTypeattributeset
	FlavorExpandtypeattribute
	FlavorTypebounds
	FlavorTypeRule
	FlavorNametypetransition
	FlavorTypepermissive

	// User statements
	FlavorUser
	FlavorUserrole
	FlavorUserattribute
	FlavorUserattributeset
	FlavorUserlevel
	FlavorUserrange
	FlavorUserbounds
	FlavorUserprefix
	FlavorSelinuxuser
	FlavorSelinuxuserdefault

	// Xen statements
	FlavorIomemcon
	FlavorIoportcon
	FlavorPcidevicecon
	FlavorPirqcon
	FlavorDevicetreecon
)

var flavorNames = map[Flavor]string{
	FlavorRoot:                   "root",
	FlavorSrcInfo:                "src_info",
	FlavorString:                 "string",
	FlavorAvrule:                 "avrule",
	FlavorAvrulex:                "avrulex",
	FlavorDenyRule:               "deny",
	FlavorCall:                   "call",
	FlavorMacro:                  "macro",
	FlavorPerm:                   "perm",
	FlavorMapPerm:                "map_perm",
	FlavorCommon:                 "common",
	FlavorClasscommon:            "classcommon",
	FlavorClass:                  "class",
	FlavorClassorder:             "classorder",
	FlavorClasspermission:        "classpermission",
	FlavorClasspermsSet:          "classperms_set",
	FlavorClasspermissionset:     "classpermissionset",
	FlavorClassmap:               "classmap",
	FlavorClassmapping:           "classmapping",
	FlavorPermissionx:            "permissionx",
	FlavorClassperms:             "classperms",
	FlavorBool:                   "boolean",
	FlavorBooleanif:              "booleanif",
	FlavorTunable:                "tunable",
	FlavorTunableif:              "tunableif",
	FlavorCondBlock:              "condblock",
	FlavorConstrain:              "constrain",
	FlavorValidatetrans:          "validatetrans",
	FlavorMlsconstrain:           "mlsconstrain",
	FlavorMlsvalidatetrans:       "mlsvalidatetrans",
	FlavorBlock:                  "block",
	FlavorBlockabstract:          "blockabstract",
	FlavorBlockinherit:           "blockinherit",
	FlavorOptional:               "optional",
	FlavorIn:                     "in",
	FlavorContext:                "context",
	FlavorDefaultuser:            "defaultuser",
	FlavorDefaultrole:            "defaultrole",
	FlavorDefaulttype:            "defaulttype",
	FlavorDefaultrange:           "defaultrange",
	FlavorFilecon:                "filecon",
	FlavorFsuse:                  "fsuse",
	FlavorGenfscon:               "genfscon",
	FlavorIbpkeycon:              "ibpkeycon",
	FlavorIbendportcon:           "ibendportcon",
	FlavorSensitivity:            "sensitivity",
	FlavorSensitivityalias:       "sensitivityalias",
	FlavorSensitivityaliasactual: "sensitivityaliasactual",
	FlavorSensitivityorder:       "sensitivityorder",
	FlavorCategory:               "category",
	FlavorCategoryalias:          "categoryalias",
	FlavorCategoryaliasactual:    "categoryaliasactual",
	FlavorCategoryorder:          "categoryorder",
	FlavorCategoryset:            "categoryset",
	FlavorSensitivitycategory:    "sensitivitycategory",
	FlavorLevel:                  "level",
	FlavorLevelrange:             "levelrange",
	FlavorRangetransition:        "rangetransition",
	FlavorIpaddr:                 "ipaddr",
	FlavorNetifcon:               "netifcon",
	FlavorNodecon:                "nodecon",
	FlavorPortcon:                "portcon",
	FlavorMls:                    "mls",
	FlavorHandleunknown:          "handleunknown",
	FlavorPolicycap:              "policycap",
	FlavorRole:                   "role",
	FlavorRoletype:               "roletype",
	FlavorRoleattribute:          "roleattribute",
	FlavorRoleattributeset:       "roleattributeset",
	FlavorRoleallow:              "roleallow",
	FlavorRoletransition:         "roletransition",
	FlavorRolebounds:             "rolebounds",
	FlavorSid:                    "sid",
	FlavorSidorder:               "sidorder",
	FlavorSidcontext:             "sidcontext",
	FlavorType:                   "type",
	FlavorTypealias:              "typealias",
	FlavorTypealiasactual:        "typealiasactual",
	FlavorTypeattribute:          "typeattribute",
	FlavorTypeattributeset:       "typeattributeset",
	FlavorExpandtypeattribute:    "expandtypeattribute",
	FlavorTypebounds:             "typebounds",
	FlavorTypeRule:               "type_rule",
	FlavorNametypetransition:     "nametypetransition",
	FlavorTypepermissive:         "typepermissive",
	FlavorUser:                   "user",
	FlavorUserrole:               "userrole",
	FlavorUserattribute:          "userattribute",
	FlavorUserattributeset:       "userattributeset",
	FlavorUserlevel:              "userlevel",
	FlavorUserrange:              "userrange",
	FlavorUserbounds:             "userbounds",
	FlavorUserprefix:             "userprefix",
	FlavorSelinuxuser:            "selinuxuser",
	FlavorSelinuxuserdefault:     "selinuxuserdefault",
	FlavorIomemcon:               "iomemcon",
	FlavorIoportcon:              "ioportcon",
	FlavorPcidevicecon:           "pcidevicecon",
	FlavorPirqcon:                "pirqcon",
	FlavorDevicetreecon:          "devicetreecon",
}

func (f Flavor) String() string {
	if name, ok := flavorNames[f]; ok {
		return name
	}
	return fmt.Sprintf("flavor(%d)", int(f))
}

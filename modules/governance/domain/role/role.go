// Package role defines the role catalog: the closed set of built-in
// administrator and scoped roles, their permitted dataset operations, and
// the shape of operator-defined custom roles.
package role

import (
	"github.com/iota-uz/governance/modules/governance/domain/classification"
)

// Operation is a dataset-level action a role may perform.
type Operation string

const (
	OpRead   Operation = "read"
	OpWrite  Operation = "write"
	OpExport Operation = "export"
)

func ValidOperation(op Operation) bool {
	switch op {
	case OpRead, OpWrite, OpExport:
		return true
	}
	return false
}

// Scope constrains where a role's grants may point: a single department
// subtree, or institute-wide.
type Scope string

const (
	ScopeDepartment Scope = "DEPARTMENT"
	ScopeInstitute  Scope = "INSTITUTE"
)

func ValidScope(s Scope) bool {
	return s == ScopeDepartment || s == ScopeInstitute
}

// Built-in role codes. The set is closed: the identity-provider sync layer
// refuses to create or delete any of these.
const (
	SysAdmin   = "SYSADMIN"
	AuthAdmin  = "AUTHADMIN"
	AuditAdmin = "AUDITADMIN"
	OpAdmin    = "OPADMIN"
	DeptOwner  = "DEPT_OWNER"
	DeptEditor = "DEPT_EDITOR"
	DeptViewer = "DEPT_VIEWER"
	InstOwner  = "INST_OWNER"
	InstEditor = "INST_EDITOR"
	InstViewer = "INST_VIEWER"
)

// builtInOperations lists the allowed dataset operations per scoped
// built-in role. Admin roles are resolved by fallback in Operations.
var builtInOperations = map[string][]Operation{
	DeptOwner:  {OpRead, OpWrite, OpExport},
	DeptEditor: {OpRead, OpWrite, OpExport},
	DeptViewer: {OpRead},
	InstOwner:  {OpRead, OpWrite, OpExport},
	InstEditor: {OpRead, OpWrite, OpExport},
	InstViewer: {OpRead},
}

var builtInScope = map[string]Scope{
	DeptOwner:  ScopeDepartment,
	DeptEditor: ScopeDepartment,
	DeptViewer: ScopeDepartment,
	InstOwner:  ScopeInstitute,
	InstEditor: ScopeInstitute,
	InstViewer: ScopeInstitute,
}

// BuiltIn reports whether code names a role from the closed built-in set.
func BuiltIn(code string) bool {
	switch code {
	case SysAdmin, AuthAdmin, AuditAdmin, OpAdmin,
		DeptOwner, DeptEditor, DeptViewer,
		InstOwner, InstEditor, InstViewer:
		return true
	}
	return false
}

// Operations resolves the permitted dataset operations for a built-in role
// code. Admin roles fall back to fixed sets; an unknown code degrades to
// read-only rather than failing.
func Operations(code string) []Operation {
	if ops, ok := builtInOperations[code]; ok {
		out := make([]Operation, len(ops))
		copy(out, ops)
		return out
	}
	switch code {
	case SysAdmin, OpAdmin:
		return []Operation{OpRead, OpWrite, OpExport}
	case AuditAdmin:
		return []Operation{OpRead, OpExport}
	case AuthAdmin:
		return []Operation{OpRead}
	}
	return []Operation{OpRead}
}

// ScopeOf resolves the grant scope of a scoped built-in role. Admin roles
// and unknown codes carry no scope constraint and resolve to nil.
func ScopeOf(code string) *Scope {
	if s, ok := builtInScope[code]; ok {
		return &s
	}
	return nil
}

// CustomRole is an operator-defined role registered alongside the built-in
// catalog. Name is unique case-insensitively after trimming.
type CustomRole struct {
	ID           int64
	Name         string
	Operations   []Operation
	MaxDataLevel classification.DataSensitivityLevel
	Scope        Scope
	// MaxRows caps result set sizes for grants under this role; nil
	// means unlimited.
	MaxRows              *int
	AllowDesensitizeJSON bool
	Description          string
}

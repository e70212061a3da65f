package role_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/governance/modules/governance/domain/role"
)

func TestBuiltInOperations(t *testing.T) {
	full := []role.Operation{role.OpRead, role.OpWrite, role.OpExport}
	readOnly := []role.Operation{role.OpRead}

	assert.Equal(t, full, role.Operations(role.DeptOwner))
	assert.Equal(t, full, role.Operations(role.DeptEditor))
	assert.Equal(t, readOnly, role.Operations(role.DeptViewer))
	assert.Equal(t, full, role.Operations(role.InstOwner))
	assert.Equal(t, full, role.Operations(role.InstEditor))
	assert.Equal(t, readOnly, role.Operations(role.InstViewer))
}

func TestAdminFallbackOperations(t *testing.T) {
	full := []role.Operation{role.OpRead, role.OpWrite, role.OpExport}

	assert.Equal(t, full, role.Operations(role.SysAdmin))
	assert.Equal(t, full, role.Operations(role.OpAdmin))
	assert.Equal(t, []role.Operation{role.OpRead, role.OpExport}, role.Operations(role.AuditAdmin))
	assert.Equal(t, []role.Operation{role.OpRead}, role.Operations(role.AuthAdmin))
}

func TestUnknownRoleDegradesToReadOnly(t *testing.T) {
	assert.Equal(t, []role.Operation{role.OpRead}, role.Operations("SOMETHING_ELSE"))
}

func TestScopeOf(t *testing.T) {
	for code, want := range map[string]role.Scope{
		role.DeptOwner:  role.ScopeDepartment,
		role.DeptViewer: role.ScopeDepartment,
		role.InstOwner:  role.ScopeInstitute,
		role.InstViewer: role.ScopeInstitute,
	} {
		scope := role.ScopeOf(code)
		require.NotNil(t, scope, code)
		assert.Equal(t, want, *scope, code)
	}
}

// Admin roles and unregistered codes carry no scope constraint at all.
func TestScopeOfUnconstrainedRoles(t *testing.T) {
	for _, code := range []string{
		role.SysAdmin, role.AuthAdmin, role.AuditAdmin, role.OpAdmin, "UNKNOWN",
	} {
		assert.Nil(t, role.ScopeOf(code), code)
	}
}

func TestBuiltInSetIsClosed(t *testing.T) {
	for _, code := range []string{
		role.SysAdmin, role.AuthAdmin, role.AuditAdmin, role.OpAdmin,
		role.DeptOwner, role.DeptEditor, role.DeptViewer,
		role.InstOwner, role.InstEditor, role.InstViewer,
	} {
		assert.True(t, role.BuiltIn(code), code)
	}
	assert.False(t, role.BuiltIn("DATA_STEWARD"))
	assert.False(t, role.BuiltIn(""))
}

func TestOperationsReturnsCopies(t *testing.T) {
	ops := role.Operations(role.DeptOwner)
	ops[0] = role.Operation("tampered")
	assert.Equal(t, role.OpRead, role.Operations(role.DeptOwner)[0])
}

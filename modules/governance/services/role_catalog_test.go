package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/domain/role"
	"github.com/iota-uz/governance/modules/governance/infrastructure/inmemory"
	"github.com/iota-uz/governance/modules/governance/services"
)

func newCatalog() *services.RoleCatalog {
	return services.NewRoleCatalog(inmemory.NewCustomRoleRepository())
}

func validCustomRole() services.CreateCustomRoleInput {
	return services.CreateCustomRoleInput{
		Name:         "data_steward",
		Operations:   []role.Operation{role.OpRead, role.OpExport},
		MaxDataLevel: classification.Internal,
		Scope:        role.ScopeDepartment,
	}
}

func TestResolveBuiltInRole(t *testing.T) {
	resolved, err := newCatalog().Resolve(context.Background(), role.InstViewer)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	require.NotNil(t, resolved.Scope)
	assert.Equal(t, role.ScopeInstitute, *resolved.Scope)
	assert.Equal(t, []role.Operation{role.OpRead}, resolved.Operations)
	assert.False(t, resolved.Custom)
	assert.Nil(t, resolved.MaxDataLevel)
}

func TestResolveAdminRoleHasNoScope(t *testing.T) {
	resolved, err := newCatalog().Resolve(context.Background(), role.SysAdmin)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Nil(t, resolved.Scope)
}

// An unregistered code resolves to a read-only role with no scope
// constraint instead of failing.
func TestResolveUnknownRoleFallsBackToReadOnly(t *testing.T) {
	resolved, err := newCatalog().Resolve(context.Background(), "FUTURE_ROLE")
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, []role.Operation{role.OpRead}, resolved.Operations)
	assert.Nil(t, resolved.Scope)
	assert.Nil(t, resolved.MaxDataLevel)
	assert.False(t, resolved.Custom)
}

func TestCreateCustomRole(t *testing.T) {
	catalog := newCatalog()
	created, err := catalog.CreateCustomRole(context.Background(), validCustomRole())
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	resolved, err := catalog.Resolve(context.Background(), "DATA_STEWARD")
	require.NoError(t, err)
	require.NotNil(t, resolved, "custom role lookup is case-insensitive")
	assert.True(t, resolved.Custom)
	require.NotNil(t, resolved.MaxDataLevel)
	assert.Equal(t, classification.Internal, *resolved.MaxDataLevel)
	require.NotNil(t, resolved.Scope)
	assert.Equal(t, role.ScopeDepartment, *resolved.Scope)
}

func TestCreateCustomRoleCarriesRowAndDesensitizeSettings(t *testing.T) {
	maxRows := 5000
	in := validCustomRole()
	in.MaxRows = &maxRows
	in.AllowDesensitizeJSON = true

	created, err := newCatalog().CreateCustomRole(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, created.MaxRows)
	assert.Equal(t, 5000, *created.MaxRows)
	assert.True(t, created.AllowDesensitizeJSON)
}

func TestCreateCustomRoleValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*services.CreateCustomRoleInput)
		code   string
	}{
		{"empty name", func(in *services.CreateCustomRoleInput) { in.Name = "  " }, "ROLE_NAME_REQUIRED"},
		{"built-in name", func(in *services.CreateCustomRoleInput) { in.Name = "sysadmin" }, "ROLE_NAME_TAKEN"},
		{"no operations", func(in *services.CreateCustomRoleInput) { in.Operations = nil }, "ROLE_OPERATIONS_REQUIRED"},
		{"bad operation", func(in *services.CreateCustomRoleInput) {
			in.Operations = []role.Operation{role.OpRead, "publish"}
		}, "UNSUPPORTED_OPERATIONS"},
		{"missing max level", func(in *services.CreateCustomRoleInput) { in.MaxDataLevel = "" }, "MAX_DATA_LEVEL_REQUIRED"},
		{"bad max level", func(in *services.CreateCustomRoleInput) { in.MaxDataLevel = "ULTRA" }, "MAX_DATA_LEVEL_REQUIRED"},
		{"bad scope", func(in *services.CreateCustomRoleInput) { in.Scope = "GLOBAL" }, "INVALID_SCOPE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCustomRole()
			tt.mutate(&in)
			_, err := newCatalog().CreateCustomRole(context.Background(), in)
			requireServiceCode(t, err, tt.code)
		})
	}
}

func TestCreateCustomRoleDuplicateName(t *testing.T) {
	catalog := newCatalog()
	_, err := catalog.CreateCustomRole(context.Background(), validCustomRole())
	require.NoError(t, err)

	in := validCustomRole()
	in.Name = "Data_Steward"
	_, err = catalog.CreateCustomRole(context.Background(), in)
	requireServiceCode(t, err, "ROLE_NAME_TAKEN")
}

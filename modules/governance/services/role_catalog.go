package services

import (
	"context"
	"strings"

	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/domain/role"
)

// ResolvedRole is the catalog's answer for a role code: what it may do,
// where, and (for custom roles) up to which data level.
type ResolvedRole struct {
	Code       string
	Operations []role.Operation
	// Scope is nil for admin roles and unmatched codes: no constraint.
	Scope        *role.Scope
	MaxDataLevel *classification.DataSensitivityLevel
	Custom       bool
}

// RoleCatalog resolves built-in role codes and manages operator-defined
// custom roles layered on top of them.
type RoleCatalog struct {
	customs role.CustomRoleRepository
}

func NewRoleCatalog(customs role.CustomRoleRepository) *RoleCatalog {
	return &RoleCatalog{customs: customs}
}

// Resolve answers for any role code: the built-in table first, then the
// custom store. A code matching neither degrades to a read-only role with
// no scope constraint, the minimum-privilege fallback.
func (c *RoleCatalog) Resolve(ctx context.Context, code string) (*ResolvedRole, error) {
	code = strings.TrimSpace(code)
	if role.BuiltIn(code) {
		return &ResolvedRole{
			Code:       code,
			Operations: role.Operations(code),
			Scope:      role.ScopeOf(code),
		}, nil
	}
	if c.customs != nil {
		custom, err := c.customs.FindByName(ctx, code)
		if err != nil {
			return nil, err
		}
		if custom != nil {
			level := custom.MaxDataLevel
			scope := custom.Scope
			ops := make([]role.Operation, len(custom.Operations))
			copy(ops, custom.Operations)
			return &ResolvedRole{
				Code:         custom.Name,
				Operations:   ops,
				Scope:        &scope,
				MaxDataLevel: &level,
				Custom:       true,
			}, nil
		}
	}
	return &ResolvedRole{
		Code:       code,
		Operations: []role.Operation{role.OpRead},
	}, nil
}

type CreateCustomRoleInput struct {
	Name                 string
	Operations           []role.Operation
	MaxDataLevel         classification.DataSensitivityLevel
	Scope                role.Scope
	MaxRows              *int
	AllowDesensitizeJSON bool
	Description          string
}

// CreateCustomRole validates and registers a custom role. Names collide
// case-insensitively with both built-in codes and existing custom roles.
func (c *RoleCatalog) CreateCustomRole(ctx context.Context, in CreateCustomRoleInput) (*role.CustomRole, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, newServiceError(400, "ROLE_NAME_REQUIRED", "role name is required", nil)
	}
	if role.BuiltIn(strings.ToUpper(in.Name)) {
		return nil, newServiceError(409, "ROLE_NAME_TAKEN", "role name conflicts with a built-in role", nil)
	}
	if len(in.Operations) == 0 {
		return nil, newServiceError(400, "ROLE_OPERATIONS_REQUIRED", "at least one operation is required", nil)
	}
	var unsupported []string
	for _, op := range in.Operations {
		if !role.ValidOperation(op) {
			unsupported = append(unsupported, string(op))
		}
	}
	if len(unsupported) > 0 {
		return nil, newServiceError(400, "UNSUPPORTED_OPERATIONS", "unsupported operations: "+strings.Join(unsupported, ", "), nil)
	}
	if in.MaxDataLevel == "" {
		return nil, newServiceError(400, "MAX_DATA_LEVEL_REQUIRED", "maxDataLevel is required", nil)
	}
	if !in.MaxDataLevel.Valid() {
		return nil, newServiceError(400, "MAX_DATA_LEVEL_REQUIRED", "unknown maxDataLevel: "+string(in.MaxDataLevel), nil)
	}
	if !role.ValidScope(in.Scope) {
		return nil, newServiceError(400, "INVALID_SCOPE", "scope must be DEPARTMENT or INSTITUTE", nil)
	}

	existing, err := c.customs.FindByName(ctx, in.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, newServiceError(409, "ROLE_NAME_TAKEN", "a role with this name already exists", nil)
	}

	return c.customs.Create(ctx, &role.CustomRole{
		Name:                 in.Name,
		Operations:           in.Operations,
		MaxDataLevel:         in.MaxDataLevel,
		Scope:                in.Scope,
		MaxRows:              in.MaxRows,
		AllowDesensitizeJSON: in.AllowDesensitizeJSON,
		Description:          strings.TrimSpace(in.Description),
	})
}

func (c *RoleCatalog) ListCustomRoles(ctx context.Context) ([]*role.CustomRole, error) {
	return c.customs.List(ctx)
}

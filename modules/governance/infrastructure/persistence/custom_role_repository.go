package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/domain/role"
	"github.com/iota-uz/governance/modules/governance/infrastructure/persistence/models"
	"github.com/iota-uz/governance/pkg/composables"
)

const (
	customRoleSelectQuery = `
        SELECT
            id,
            name,
            operations,
            max_data_level,
            scope,
            max_rows,
            allow_desensitize_json,
            description
        FROM custom_roles`

	customRoleInsertQuery = `
        INSERT INTO custom_roles (name, operations, max_data_level, scope, max_rows, allow_desensitize_json, description)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`
)

type PgCustomRoleRepository struct{}

func NewCustomRoleRepository() role.CustomRoleRepository {
	return &PgCustomRoleRepository{}
}

func (r *PgCustomRoleRepository) List(ctx context.Context) ([]*role.CustomRole, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, customRoleSelectQuery+" ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "failed to query custom roles")
	}
	defer rows.Close()

	var out []*role.CustomRole
	for rows.Next() {
		var m models.CustomRole
		if err := rows.Scan(&m.ID, &m.Name, &m.Operations, &m.MaxDataLevel, &m.Scope, &m.MaxRows, &m.AllowDesensitizeJSON, &m.Description); err != nil {
			return nil, errors.Wrap(err, "failed to scan custom role")
		}
		out = append(out, toDomainCustomRole(&m))
	}
	return out, rows.Err()
}

func (r *PgCustomRoleRepository) FindByName(ctx context.Context, name string) (*role.CustomRole, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var m models.CustomRole
	err = tx.QueryRow(ctx, customRoleSelectQuery+" WHERE LOWER(name) = LOWER(TRIM($1))", name).Scan(
		&m.ID, &m.Name, &m.Operations, &m.MaxDataLevel, &m.Scope, &m.MaxRows, &m.AllowDesensitizeJSON, &m.Description,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find custom role")
	}
	return toDomainCustomRole(&m), nil
}

func (r *PgCustomRoleRepository) Create(ctx context.Context, cr *role.CustomRole) (*role.CustomRole, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	ops := make([]string, len(cr.Operations))
	for i, op := range cr.Operations {
		ops[i] = string(op)
	}
	err = tx.QueryRow(ctx, customRoleInsertQuery,
		cr.Name, ops, string(cr.MaxDataLevel), string(cr.Scope), cr.MaxRows, cr.AllowDesensitizeJSON, cr.Description,
	).Scan(&cr.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert custom role")
	}
	return r.FindByName(ctx, cr.Name)
}

func toDomainCustomRole(m *models.CustomRole) *role.CustomRole {
	ops := make([]role.Operation, len(m.Operations))
	for i, op := range m.Operations {
		ops[i] = role.Operation(op)
	}
	return &role.CustomRole{
		ID:                   m.ID,
		Name:                 m.Name,
		Operations:           ops,
		MaxDataLevel:         classification.DataSensitivityLevel(m.MaxDataLevel),
		Scope:                role.Scope(m.Scope),
		MaxRows:              m.MaxRows,
		AllowDesensitizeJSON: m.AllowDesensitizeJSON,
		Description:          m.Description,
	}
}

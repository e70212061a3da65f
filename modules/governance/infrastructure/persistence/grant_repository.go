package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/domain/grant"
	"github.com/iota-uz/governance/modules/governance/domain/role"
	"github.com/iota-uz/governance/modules/governance/infrastructure/persistence/models"
	"github.com/iota-uz/governance/pkg/composables"
)

const (
	grantSelectQuery = `
        SELECT
            id,
            role_code,
            user_id,
            username,
            security_level,
            dataset_ids,
            operations,
            scope_org_id,
            granted_by,
            granted_at,
            revoked_at,
            revoked_by
        FROM grants`

	grantInsertQuery = `
        INSERT INTO grants (
            role_code, user_id, username, security_level, dataset_ids,
            operations, scope_org_id, granted_by, granted_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id`

	grantRevokeQuery = `
        UPDATE grants SET revoked_at = NOW(), revoked_by = $2
        WHERE id = $1 AND revoked_at IS NULL`
)

type PgGrantRepository struct{}

func NewGrantRepository() grant.Repository {
	return &PgGrantRepository{}
}

func (r *PgGrantRepository) List(ctx context.Context, params grant.FindParams) ([]*grant.Grant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := grantSelectQuery
	where := []string{}
	args := []interface{}{}
	if params.UserID != "" {
		args = append(args, params.UserID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if params.RoleCode != "" {
		args = append(args, params.RoleCode)
		where = append(where, fmt.Sprintf("role_code = $%d", len(args)))
	}
	if params.ActiveOnly {
		where = append(where, "revoked_at IS NULL")
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY id"

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query grants")
	}
	defer rows.Close()

	var out []*grant.Grant
	for rows.Next() {
		var m models.Grant
		if err := rows.Scan(
			&m.ID, &m.RoleCode, &m.UserID, &m.Username, &m.SecurityLevel,
			&m.DatasetIDs, &m.Operations, &m.ScopeOrgID,
			&m.GrantedBy, &m.GrantedAt, &m.RevokedAt, &m.RevokedBy,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan grant")
		}
		out = append(out, toDomainGrant(&m))
	}
	return out, rows.Err()
}

func (r *PgGrantRepository) Find(ctx context.Context, id int64) (*grant.Grant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var m models.Grant
	err = tx.QueryRow(ctx, grantSelectQuery+" WHERE id = $1", id).Scan(
		&m.ID, &m.RoleCode, &m.UserID, &m.Username, &m.SecurityLevel,
		&m.DatasetIDs, &m.Operations, &m.ScopeOrgID,
		&m.GrantedBy, &m.GrantedAt, &m.RevokedAt, &m.RevokedBy,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find grant")
	}
	return toDomainGrant(&m), nil
}

func (r *PgGrantRepository) Create(ctx context.Context, g *grant.Grant) (*grant.Grant, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	ops := make([]string, len(g.Operations))
	for i, op := range g.Operations {
		ops[i] = string(op)
	}
	err = tx.QueryRow(ctx, grantInsertQuery,
		g.RoleCode, g.UserID, g.Username, string(g.SecurityLevel),
		g.DatasetIDs, ops, g.ScopeOrgID, g.GrantedBy, g.GrantedAt,
	).Scan(&g.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert grant")
	}
	return r.Find(ctx, g.ID)
}

func (r *PgGrantRepository) Revoke(ctx context.Context, id int64, by string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, grantRevokeQuery, id, by)
	if err != nil {
		return false, errors.Wrap(err, "failed to revoke grant")
	}
	return tag.RowsAffected() > 0, nil
}

func toDomainGrant(m *models.Grant) *grant.Grant {
	ops := make([]role.Operation, len(m.Operations))
	for i, op := range m.Operations {
		ops[i] = role.Operation(op)
	}
	out := &grant.Grant{
		ID:            m.ID,
		RoleCode:      m.RoleCode,
		UserID:        m.UserID,
		Username:      m.Username,
		SecurityLevel: classification.PersonnelSecurityLevel(m.SecurityLevel),
		DatasetIDs:    m.DatasetIDs,
		Operations:    ops,
		ScopeOrgID:    m.ScopeOrgID,
		GrantedBy:     m.GrantedBy,
		GrantedAt:     m.GrantedAt,
		RevokedAt:     m.RevokedAt,
	}
	if m.RevokedBy != nil {
		out.RevokedBy = *m.RevokedBy
	}
	return out
}

package persistence

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/iota-uz/governance/modules/governance/domain/changerequest"
	"github.com/iota-uz/governance/modules/governance/infrastructure/persistence/models"
	"github.com/iota-uz/governance/pkg/composables"
)

const (
	changeRequestSelectQuery = `
        SELECT
            id,
            target_kind,
            target_id,
            action,
            payload,
            diff_json,
            status,
            reason,
            requested_by,
            requested_at,
            decided_by,
            decided_at,
            materialized_at
        FROM change_requests`

	changeRequestInsertQuery = `
        INSERT INTO change_requests (
            target_kind, target_id, action, payload, diff_json, status, requested_by, requested_at
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`

	changeRequestUpdateStatusQuery = `
        UPDATE change_requests SET
            status = $3,
            decided_by = NULLIF($4, ''),
            decided_at = $5,
            reason = $6
        WHERE id = $1 AND status = $2`

	changeRequestMaterializeQuery = `
        UPDATE change_requests SET materialized_at = $2
        WHERE id = $1 AND materialized_at IS NULL`
)

type PgChangeRequestRepository struct{}

func NewChangeRequestRepository() changerequest.Repository {
	return &PgChangeRequestRepository{}
}

func (r *PgChangeRequestRepository) List(ctx context.Context, params changerequest.FindParams) ([]*changerequest.ChangeRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := changeRequestSelectQuery
	where := []string{}
	args := []interface{}{}
	if params.Status != "" {
		args = append(args, string(params.Status))
		where = append(where, "status = $1")
	}
	if params.TargetKind != "" {
		args = append(args, params.TargetKind)
		if len(args) == 1 {
			where = append(where, "target_kind = $1")
		} else {
			where = append(where, "target_kind = $2")
		}
	}
	if len(where) > 0 {
		query += " WHERE " + where[0]
		for _, w := range where[1:] {
			query += " AND " + w
		}
	}
	query += " ORDER BY id"

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query change requests")
	}
	defer rows.Close()

	var out []*changerequest.ChangeRequest
	for rows.Next() {
		var m models.ChangeRequest
		if err := rows.Scan(
			&m.ID, &m.TargetKind, &m.TargetID, &m.Action, &m.Payload, &m.DiffJSON,
			&m.Status, &m.Reason, &m.RequestedBy, &m.RequestedAt,
			&m.DecidedBy, &m.DecidedAt, &m.MaterializedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan change request")
		}
		out = append(out, toDomainChangeRequest(&m))
	}
	return out, rows.Err()
}

func (r *PgChangeRequestRepository) Find(ctx context.Context, id int64) (*changerequest.ChangeRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var m models.ChangeRequest
	err = tx.QueryRow(ctx, changeRequestSelectQuery+" WHERE id = $1", id).Scan(
		&m.ID, &m.TargetKind, &m.TargetID, &m.Action, &m.Payload, &m.DiffJSON,
		&m.Status, &m.Reason, &m.RequestedBy, &m.RequestedAt,
		&m.DecidedBy, &m.DecidedAt, &m.MaterializedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find change request")
	}
	return toDomainChangeRequest(&m), nil
}

func (r *PgChangeRequestRepository) Create(ctx context.Context, cr *changerequest.ChangeRequest) (*changerequest.ChangeRequest, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	err = tx.QueryRow(ctx, changeRequestInsertQuery,
		cr.TargetKind, cr.TargetID, string(cr.Action), []byte(cr.Payload), []byte(cr.DiffJSON),
		string(cr.Status), cr.RequestedBy, cr.RequestedAt,
	).Scan(&cr.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert change request")
	}
	return r.Find(ctx, cr.ID)
}

func (r *PgChangeRequestRepository) UpdateStatus(ctx context.Context, id int64, from, to changerequest.Status, decidedBy string, reason *string, decidedAt time.Time) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var at *time.Time
	if to.Terminal() {
		at = &decidedAt
	}
	tag, err := tx.Exec(ctx, changeRequestUpdateStatusQuery, id, string(from), string(to), decidedBy, at, reason)
	if err != nil {
		return false, errors.Wrap(err, "failed to update change request status")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgChangeRequestRepository) MarkMaterialized(ctx context.Context, id int64, at time.Time) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, changeRequestMaterializeQuery, id, at)
	if err != nil {
		return false, errors.Wrap(err, "failed to mark change request materialized")
	}
	return tag.RowsAffected() > 0, nil
}

func toDomainChangeRequest(m *models.ChangeRequest) *changerequest.ChangeRequest {
	out := &changerequest.ChangeRequest{
		ID:             m.ID,
		TargetKind:     m.TargetKind,
		TargetID:       m.TargetID,
		Action:         changerequest.Action(m.Action),
		Payload:        m.Payload,
		DiffJSON:       m.DiffJSON,
		Status:         changerequest.Status(m.Status),
		Reason:         m.Reason,
		RequestedBy:    m.RequestedBy,
		RequestedAt:    m.RequestedAt,
		DecidedAt:      m.DecidedAt,
		MaterializedAt: m.MaterializedAt,
	}
	if m.DecidedBy != nil {
		out.DecidedBy = *m.DecidedBy
	}
	return out
}

package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/iota-uz/governance/modules/governance/domain/audit"
	"github.com/iota-uz/governance/modules/governance/infrastructure/persistence/models"
	"github.com/iota-uz/governance/pkg/composables"
)

const (
	auditSelectQuery = `
        SELECT
            id,
            occurred_at,
            actor,
            action,
            target_kind,
            target_id,
            detail
        FROM audit_events`

	auditInsertQuery = `
        INSERT INTO audit_events (occurred_at, actor, action, target_kind, target_id, detail)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`
)

type PgAuditRepository struct{}

func NewAuditRepository() audit.Repository {
	return &PgAuditRepository{}
}

func (r *PgAuditRepository) Append(ctx context.Context, e *audit.Event) (*audit.Event, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	err = tx.QueryRow(ctx, auditInsertQuery,
		e.OccurredAt, e.Actor, e.Action, e.TargetKind, e.TargetID, e.Detail,
	).Scan(&e.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert audit event")
	}
	return e, nil
}

func (r *PgAuditRepository) List(ctx context.Context, params audit.FindParams) ([]*audit.Event, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := auditSelectQuery
	where := []string{}
	args := []interface{}{}
	add := func(clause string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if params.Actor != "" {
		add("actor = $%d", params.Actor)
	}
	if params.Action != "" {
		add("action = $%d", params.Action)
	}
	if params.TargetKind != "" {
		add("target_kind = $%d", params.TargetKind)
	}
	if !params.From.IsZero() {
		add("occurred_at >= $%d", params.From)
	}
	if !params.To.IsZero() {
		add("occurred_at <= $%d", params.To)
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
		return nil, errors.Wrap(err, "failed to query audit events")
	}
	defer rows.Close()

	var out []*audit.Event
	for rows.Next() {
		var m models.AuditEvent
		if err := rows.Scan(&m.ID, &m.OccurredAt, &m.Actor, &m.Action, &m.TargetKind, &m.TargetID, &m.Detail); err != nil {
			return nil, errors.Wrap(err, "failed to scan audit event")
		}
		out = append(out, &audit.Event{
			ID:         m.ID,
			OccurredAt: m.OccurredAt,
			Actor:      m.Actor,
			Action:     m.Action,
			TargetKind: m.TargetKind,
			TargetID:   m.TargetID,
			Detail:     m.Detail,
		})
	}
	return out, rows.Err()
}

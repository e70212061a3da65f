package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"

	"github.com/iota-uz/governance/modules/governance/domain/approval"
	"github.com/iota-uz/governance/modules/governance/infrastructure/persistence/models"
	"github.com/iota-uz/governance/pkg/composables"
)

const (
	approvalSelectQuery = `
        SELECT
            id,
            type,
            requester,
            status,
            reason,
            error_message,
            created_at,
            decided_by,
            decided_at
        FROM approval_requests`

	approvalItemsQuery = `
        SELECT request_id, target_kind, target_id, seq_number, payload
        FROM approval_items
        WHERE request_id = $1
        ORDER BY seq_number`

	approvalInsertQuery = `
        INSERT INTO approval_requests (type, requester, status, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id`

	approvalItemInsertQuery = `
        INSERT INTO approval_items (request_id, target_kind, target_id, seq_number, payload)
        VALUES ($1, $2, $3, $4, $5)`

	approvalUpdateStatusQuery = `
        UPDATE approval_requests SET
            status = $3,
            decided_by = $4,
            decided_at = $5,
            reason = $6
        WHERE id = $1 AND status = $2`

	approvalSetOutcomeQuery = `
        UPDATE approval_requests SET status = $2, error_message = $3
        WHERE id = $1`
)

type PgApprovalRepository struct{}

func NewApprovalRepository() approval.Repository {
	return &PgApprovalRepository{}
}

func (r *PgApprovalRepository) List(ctx context.Context, params approval.FindParams) ([]*approval.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := approvalSelectQuery
	args := []interface{}{}
	if params.Status != "" {
		args = append(args, string(params.Status))
		query += fmt.Sprintf(" WHERE status = $%d", len(args))
	}
	if params.Type != "" {
		args = append(args, params.Type)
		if len(args) == 1 {
			query += fmt.Sprintf(" WHERE type = $%d", len(args))
		} else {
			query += fmt.Sprintf(" AND type = $%d", len(args))
		}
	}
	query += " ORDER BY id"

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query approval requests")
	}
	defer rows.Close()

	var out []*approval.Request
	for rows.Next() {
		var m models.ApprovalRequest
		if err := rows.Scan(
			&m.ID, &m.Type, &m.Requester, &m.Status, &m.Reason,
			&m.ErrorMessage, &m.CreatedAt, &m.DecidedBy, &m.DecidedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan approval request")
		}
		out = append(out, toDomainApproval(&m))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, req := range out {
		items, err := r.items(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		req.Items = items
	}
	return out, nil
}

func (r *PgApprovalRepository) Find(ctx context.Context, id int64) (*approval.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	var m models.ApprovalRequest
	err = tx.QueryRow(ctx, approvalSelectQuery+" WHERE id = $1", id).Scan(
		&m.ID, &m.Type, &m.Requester, &m.Status, &m.Reason,
		&m.ErrorMessage, &m.CreatedAt, &m.DecidedBy, &m.DecidedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find approval request")
	}
	req := toDomainApproval(&m)
	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Items = items
	return req, nil
}

func (r *PgApprovalRepository) Create(ctx context.Context, req *approval.Request) (*approval.Request, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	err = tx.QueryRow(ctx, approvalInsertQuery,
		req.Type, req.Requester, string(req.Status), req.CreatedAt,
	).Scan(&req.ID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert approval request")
	}
	for _, item := range req.Items {
		if _, err := tx.Exec(ctx, approvalItemInsertQuery,
			req.ID, item.TargetKind, item.TargetID, item.SeqNumber, []byte(item.Payload),
		); err != nil {
			return nil, errors.Wrap(err, "failed to insert approval item")
		}
	}
	return r.Find(ctx, req.ID)
}

func (r *PgApprovalRepository) UpdateStatus(ctx context.Context, id int64, from, to approval.Status, decidedBy string, reason string, decidedAt time.Time) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, approvalUpdateStatusQuery, id, string(from), string(to), decidedBy, decidedAt, reason)
	if err != nil {
		return false, errors.Wrap(err, "failed to update approval status")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgApprovalRepository) SetOutcome(ctx context.Context, id int64, status approval.Status, errorMessage string) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	tag, err := tx.Exec(ctx, approvalSetOutcomeQuery, id, string(status), errorMessage)
	if err != nil {
		return false, errors.Wrap(err, "failed to set approval outcome")
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgApprovalRepository) items(ctx context.Context, requestID int64) ([]approval.Item, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, approvalItemsQuery, requestID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query approval items")
	}
	defer rows.Close()

	var out []approval.Item
	for rows.Next() {
		var m models.ApprovalItem
		if err := rows.Scan(&m.RequestID, &m.TargetKind, &m.TargetID, &m.SeqNumber, &m.Payload); err != nil {
			return nil, errors.Wrap(err, "failed to scan approval item")
		}
		out = append(out, approval.Item{
			TargetKind: m.TargetKind,
			TargetID:   m.TargetID,
			SeqNumber:  m.SeqNumber,
			Payload:    m.Payload,
		})
	}
	return out, rows.Err()
}

func toDomainApproval(m *models.ApprovalRequest) *approval.Request {
	out := &approval.Request{
		ID:           m.ID,
		Type:         m.Type,
		Requester:    m.Requester,
		Status:       approval.Status(m.Status),
		Reason:       m.Reason,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		DecidedAt:    m.DecidedAt,
	}
	if m.DecidedBy != nil {
		out.DecidedBy = *m.DecidedBy
	}
	return out
}

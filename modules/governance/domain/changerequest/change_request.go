// Package changerequest models the change-request workflow: every mutation
// of governed configuration is captured as a request that moves through
// DRAFT, PENDING and a terminal decision before it may be materialized.
package changerequest

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Action describes what materializing the request does.
type Action string

const (
	ActionCreate      Action = "CREATE"
	ActionUpdate      Action = "UPDATE"
	ActionDelete      Action = "DELETE"
	ActionBatchUpdate Action = "BATCH_UPDATE"
	ActionConfigSet   Action = "CONFIG_SET"
)

// ChangeRequest is one proposed mutation. Payload and DiffJSON are stored
// as raw JSON; their shape depends on TargetKind and Action.
type ChangeRequest struct {
	ID             int64
	TargetKind     string
	TargetID       string
	Action         Action
	Payload        json.RawMessage
	DiffJSON       json.RawMessage
	Status         Status
	Reason         *string
	RequestedBy    string
	RequestedAt    time.Time
	DecidedBy      string
	DecidedAt      *time.Time
	MaterializedAt *time.Time
}

func (cr *ChangeRequest) Materialized() bool {
	return cr.MaterializedAt != nil
}

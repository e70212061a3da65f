// Package approval models identity-provider approval requests: batches of
// user/role/group mutations that require a second operator's decision
// before being pushed to the downstream identity store.
package approval

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusApplied  Status = "APPLIED"
	StatusFailed   Status = "FAILED"
)

// Decidable reports whether an approve/reject decision may still be taken.
func (s Status) Decidable() bool {
	return s == StatusPending
}

// Processable reports whether the request may be (re)pushed downstream.
// FAILED requests are retryable.
func (s Status) Processable() bool {
	return s == StatusApproved || s == StatusFailed
}

// Item is one mutation within a request. SeqNumber orders items; they are
// applied in ascending sequence.
type Item struct {
	TargetKind string
	TargetID   string
	SeqNumber  int
	Payload    json.RawMessage
}

// Request is a pending batch of identity mutations.
type Request struct {
	ID           int64
	Type         string
	Requester    string
	Items        []Item
	Status       Status
	Reason       string
	ErrorMessage string
	CreatedAt    time.Time
	DecidedBy    string
	DecidedAt    *time.Time
}

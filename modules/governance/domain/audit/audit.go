// Package audit models the append-only audit trail fed from domain events.
package audit

import (
	"context"
	"time"
)

type Event struct {
	ID         int64
	OccurredAt time.Time
	Actor      string
	Action     string
	TargetKind string
	TargetID   string
	Detail     string
}

type FindParams struct {
	Actor      string
	Action     string
	TargetKind string
	From       time.Time
	To         time.Time
}

type Repository interface {
	Append(ctx context.Context, e *Event) (*Event, error)
	List(ctx context.Context, params FindParams) ([]*Event, error)
}

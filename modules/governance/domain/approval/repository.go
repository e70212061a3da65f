package approval

import (
	"context"
	"time"
)

type FindParams struct {
	Status Status
	Type   string
}

type Repository interface {
	List(ctx context.Context, params FindParams) ([]*Request, error)
	Find(ctx context.Context, id int64) (*Request, error)
	Create(ctx context.Context, r *Request) (*Request, error)
	// UpdateStatus transitions only when the stored status equals from.
	UpdateStatus(ctx context.Context, id int64, from, to Status, decidedBy string, reason string, decidedAt time.Time) (bool, error)
	// SetOutcome records a processing result without a CAS guard: callers
	// hold the request past the decision point already.
	SetOutcome(ctx context.Context, id int64, status Status, errorMessage string) (bool, error)
}

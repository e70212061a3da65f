package changerequest

import (
	"context"
	"time"
)

type FindParams struct {
	Status     Status
	TargetKind string
}

type Repository interface {
	List(ctx context.Context, params FindParams) ([]*ChangeRequest, error)
	Find(ctx context.Context, id int64) (*ChangeRequest, error)
	Create(ctx context.Context, cr *ChangeRequest) (*ChangeRequest, error)
	// UpdateStatus is a compare-and-set: the transition applies only when
	// the stored status still equals from. Returns false on a lost race or
	// unknown id.
	UpdateStatus(ctx context.Context, id int64, from, to Status, decidedBy string, reason *string, decidedAt time.Time) (bool, error)
	// MarkMaterialized stamps MaterializedAt once; false when already set.
	MarkMaterialized(ctx context.Context, id int64, at time.Time) (bool, error)
}

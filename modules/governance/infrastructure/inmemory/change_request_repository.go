package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/iota-uz/governance/modules/governance/domain/changerequest"
)

type ChangeRequestRepository struct {
	mu       sync.RWMutex
	requests []*changerequest.ChangeRequest
	nextID   int64
}

func NewChangeRequestRepository() *ChangeRequestRepository {
	return &ChangeRequestRepository{nextID: 1}
}

func (r *ChangeRequestRepository) List(_ context.Context, params changerequest.FindParams) ([]*changerequest.ChangeRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*changerequest.ChangeRequest
	for _, cr := range r.requests {
		if params.Status != "" && cr.Status != params.Status {
			continue
		}
		if params.TargetKind != "" && cr.TargetKind != params.TargetKind {
			continue
		}
		out = append(out, cloneChangeRequest(cr))
	}
	return out, nil
}

func (r *ChangeRequestRepository) Find(_ context.Context, id int64) (*changerequest.ChangeRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cr := r.locate(id); cr != nil {
		return cloneChangeRequest(cr), nil
	}
	return nil, nil
}

func (r *ChangeRequestRepository) Create(_ context.Context, cr *changerequest.ChangeRequest) (*changerequest.ChangeRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneChangeRequest(cr)
	clone.ID = r.nextID
	r.nextID++
	r.requests = append(r.requests, clone)
	return cloneChangeRequest(clone), nil
}

func (r *ChangeRequestRepository) UpdateStatus(_ context.Context, id int64, from, to changerequest.Status, decidedBy string, reason *string, decidedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cr := r.locate(id)
	if cr == nil || cr.Status != from {
		return false, nil
	}
	cr.Status = to
	if to.Terminal() {
		cr.DecidedBy = decidedBy
		cr.DecidedAt = &decidedAt
		cr.Reason = reason
	}
	return true, nil
}

func (r *ChangeRequestRepository) MarkMaterialized(_ context.Context, id int64, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cr := r.locate(id)
	if cr == nil || cr.MaterializedAt != nil {
		return false, nil
	}
	cr.MaterializedAt = &at
	return true, nil
}

func (r *ChangeRequestRepository) locate(id int64) *changerequest.ChangeRequest {
	for _, cr := range r.requests {
		if cr.ID == id {
			return cr
		}
	}
	return nil
}

func cloneChangeRequest(cr *changerequest.ChangeRequest) *changerequest.ChangeRequest {
	clone := *cr
	clone.Payload = append([]byte(nil), cr.Payload...)
	clone.DiffJSON = append([]byte(nil), cr.DiffJSON...)
	if cr.Reason != nil {
		reason := *cr.Reason
		clone.Reason = &reason
	}
	if cr.DecidedAt != nil {
		at := *cr.DecidedAt
		clone.DecidedAt = &at
	}
	if cr.MaterializedAt != nil {
		at := *cr.MaterializedAt
		clone.MaterializedAt = &at
	}
	return &clone
}

package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/iota-uz/governance/modules/governance/domain/approval"
)

type ApprovalRepository struct {
	mu       sync.RWMutex
	requests []*approval.Request
	nextID   int64
}

func NewApprovalRepository() *ApprovalRepository {
	return &ApprovalRepository{nextID: 1}
}

func (r *ApprovalRepository) List(_ context.Context, params approval.FindParams) ([]*approval.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*approval.Request
	for _, req := range r.requests {
		if params.Status != "" && req.Status != params.Status {
			continue
		}
		if params.Type != "" && req.Type != params.Type {
			continue
		}
		out = append(out, cloneApproval(req))
	}
	return out, nil
}

func (r *ApprovalRepository) Find(_ context.Context, id int64) (*approval.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if req := r.locate(id); req != nil {
		return cloneApproval(req), nil
	}
	return nil, nil
}

func (r *ApprovalRepository) Create(_ context.Context, req *approval.Request) (*approval.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneApproval(req)
	clone.ID = r.nextID
	r.nextID++
	r.requests = append(r.requests, clone)
	return cloneApproval(clone), nil
}

func (r *ApprovalRepository) UpdateStatus(_ context.Context, id int64, from, to approval.Status, decidedBy string, reason string, decidedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req := r.locate(id)
	if req == nil || req.Status != from {
		return false, nil
	}
	req.Status = to
	req.DecidedBy = decidedBy
	req.DecidedAt = &decidedAt
	req.Reason = reason
	return true, nil
}

func (r *ApprovalRepository) SetOutcome(_ context.Context, id int64, status approval.Status, errorMessage string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req := r.locate(id)
	if req == nil {
		return false, nil
	}
	req.Status = status
	req.ErrorMessage = errorMessage
	return true, nil
}

func (r *ApprovalRepository) locate(id int64) *approval.Request {
	for _, req := range r.requests {
		if req.ID == id {
			return req
		}
	}
	return nil
}

func cloneApproval(req *approval.Request) *approval.Request {
	clone := *req
	clone.Items = make([]approval.Item, len(req.Items))
	for i, item := range req.Items {
		clone.Items[i] = item
		clone.Items[i].Payload = append([]byte(nil), item.Payload...)
	}
	if req.DecidedAt != nil {
		at := *req.DecidedAt
		clone.DecidedAt = &at
	}
	return &clone
}

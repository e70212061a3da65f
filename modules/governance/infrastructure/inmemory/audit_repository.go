package inmemory

import (
	"context"
	"sync"

	"github.com/iota-uz/governance/modules/governance/domain/audit"
)

type AuditRepository struct {
	mu     sync.RWMutex
	events []*audit.Event
	nextID int64
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{nextID: 1}
}

func (r *AuditRepository) Append(_ context.Context, e *audit.Event) (*audit.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *e
	clone.ID = r.nextID
	r.nextID++
	r.events = append(r.events, &clone)
	out := clone
	return &out, nil
}

func (r *AuditRepository) List(_ context.Context, params audit.FindParams) ([]*audit.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*audit.Event
	for _, e := range r.events {
		if params.Actor != "" && e.Actor != params.Actor {
			continue
		}
		if params.Action != "" && e.Action != params.Action {
			continue
		}
		if params.TargetKind != "" && e.TargetKind != params.TargetKind {
			continue
		}
		if !params.From.IsZero() && e.OccurredAt.Before(params.From) {
			continue
		}
		if !params.To.IsZero() && e.OccurredAt.After(params.To) {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	return out, nil
}

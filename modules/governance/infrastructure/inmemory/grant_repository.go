package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/iota-uz/governance/modules/governance/domain/grant"
)

type GrantRepository struct {
	mu     sync.RWMutex
	grants []*grant.Grant
	nextID int64
}

func NewGrantRepository() *GrantRepository {
	return &GrantRepository{nextID: 1}
}

func (r *GrantRepository) List(_ context.Context, params grant.FindParams) ([]*grant.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*grant.Grant
	for _, g := range r.grants {
		if params.UserID != "" && g.UserID != params.UserID {
			continue
		}
		if params.RoleCode != "" && g.RoleCode != params.RoleCode {
			continue
		}
		if params.ActiveOnly && !g.Active() {
			continue
		}
		out = append(out, cloneGrant(g))
	}
	return out, nil
}

func (r *GrantRepository) Find(_ context.Context, id int64) (*grant.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.grants {
		if g.ID == id {
			return cloneGrant(g), nil
		}
	}
	return nil, nil
}

func (r *GrantRepository) Create(_ context.Context, g *grant.Grant) (*grant.Grant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := cloneGrant(g)
	clone.ID = r.nextID
	r.nextID++
	r.grants = append(r.grants, clone)
	return cloneGrant(clone), nil
}

func (r *GrantRepository) Revoke(_ context.Context, id int64, by string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range r.grants {
		if g.ID != id {
			continue
		}
		if g.RevokedAt != nil {
			return false, nil
		}
		now := time.Now().UTC()
		g.RevokedAt = &now
		g.RevokedBy = by
		return true, nil
	}
	return false, nil
}

func cloneGrant(g *grant.Grant) *grant.Grant {
	clone := *g
	clone.DatasetIDs = append([]string(nil), g.DatasetIDs...)
	clone.Operations = append(clone.Operations[:0:0], g.Operations...)
	if g.ScopeOrgID != nil {
		id := *g.ScopeOrgID
		clone.ScopeOrgID = &id
	}
	if g.RevokedAt != nil {
		at := *g.RevokedAt
		clone.RevokedAt = &at
	}
	return &clone
}

package inmemory

import (
	"context"
	"strings"
	"sync"

	"github.com/iota-uz/governance/modules/governance/domain/role"
)

type CustomRoleRepository struct {
	mu     sync.RWMutex
	roles  []*role.CustomRole
	nextID int64
}

func NewCustomRoleRepository() *CustomRoleRepository {
	return &CustomRoleRepository{nextID: 1}
}

func (r *CustomRoleRepository) List(_ context.Context) ([]*role.CustomRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*role.CustomRole, 0, len(r.roles))
	for _, cr := range r.roles {
		clone := *cr
		out = append(out, &clone)
	}
	return out, nil
}

func (r *CustomRoleRepository) FindByName(_ context.Context, name string) (*role.CustomRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.ToLower(strings.TrimSpace(name))
	for _, cr := range r.roles {
		if strings.ToLower(cr.Name) == name {
			clone := *cr
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *CustomRoleRepository) Create(_ context.Context, cr *role.CustomRole) (*role.CustomRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *cr
	clone.ID = r.nextID
	r.nextID++
	r.roles = append(r.roles, &clone)
	out := clone
	return &out, nil
}

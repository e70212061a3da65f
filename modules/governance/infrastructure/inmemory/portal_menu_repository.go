package inmemory

import (
	"context"
	"sync"

	"github.com/iota-uz/governance/modules/governance/domain/portalmenu"
)

type PortalMenuRepository struct {
	mu    sync.RWMutex
	menus []*portalmenu.Menu
}

func NewPortalMenuRepository(seed ...*portalmenu.Menu) *PortalMenuRepository {
	r := &PortalMenuRepository{}
	for _, m := range seed {
		r.menus = append(r.menus, cloneMenu(m))
	}
	return r
}

func (r *PortalMenuRepository) List(_ context.Context) ([]*portalmenu.Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*portalmenu.Menu, 0, len(r.menus))
	for _, m := range r.menus {
		out = append(out, cloneMenu(m))
	}
	return out, nil
}

func (r *PortalMenuRepository) Find(_ context.Context, id string) (*portalmenu.Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.menus {
		if m.ID == id {
			return cloneMenu(m), nil
		}
	}
	return nil, nil
}

func (r *PortalMenuRepository) SetBindings(_ context.Context, id string, bindings []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.menus {
		if m.ID == id {
			m.Bindings = append([]string(nil), bindings...)
			return true, nil
		}
	}
	return false, nil
}

func cloneMenu(m *portalmenu.Menu) *portalmenu.Menu {
	clone := *m
	clone.Bindings = append([]string(nil), m.Bindings...)
	return &clone
}

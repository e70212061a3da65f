// Package inmemory provides map-backed repository implementations used by
// tests and by deployments that run without a database.
package inmemory

import (
	"context"
	"sync"

	"github.com/iota-uz/governance/modules/governance/domain/org"
)

type OrgRepository struct {
	mu     sync.RWMutex
	roots  []*org.Node
	nextID int64
}

func NewOrgRepository() *OrgRepository {
	return &OrgRepository{nextID: 1}
}

func (r *OrgRepository) Roots(_ context.Context) ([]*org.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*org.Node, 0, len(r.roots))
	for _, n := range r.roots {
		out = append(out, cloneNode(n))
	}
	return out, nil
}

func (r *OrgRepository) Find(_ context.Context, id int64) (*org.Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n := findNode(r.roots, id); n != nil {
		return cloneNode(n), nil
	}
	return nil, nil
}

func (r *OrgRepository) Insert(_ context.Context, parentID *int64, node *org.Node) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node.ID = r.nextID
	node.Sensitivity = node.DataLevel
	node.Children = nil
	if parentID == nil {
		node.ParentID = nil
		r.nextID++
		r.roots = append(r.roots, cloneNode(node))
		return true, nil
	}
	parent := findNode(r.roots, *parentID)
	if parent == nil {
		return false, nil
	}
	node.ParentID = parentID
	r.nextID++
	parent.Children = append(parent.Children, cloneNode(node))
	return true, nil
}

func (r *OrgRepository) Update(_ context.Context, id int64, patch org.Patch) (*org.Node, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node := findNode(r.roots, id)
	if node == nil {
		return nil, nil
	}
	if patch.Name != nil {
		node.Name = *patch.Name
	}
	if patch.DataLevel != nil {
		node.DataLevel = *patch.DataLevel
		node.Sensitivity = *patch.DataLevel
	}
	if patch.Contact != nil {
		node.Contact = *patch.Contact
	}
	if patch.Phone != nil {
		node.Phone = *patch.Phone
	}
	if patch.Description != nil {
		node.Description = *patch.Description
	}
	return cloneNode(node), nil
}

func (r *OrgRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed bool
	r.roots, removed = removeNode(r.roots, id)
	return removed, nil
}

func findNode(nodes []*org.Node, id int64) *org.Node {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
		if found := findNode(n.Children, id); found != nil {
			return found
		}
	}
	return nil
}

// removeNode drops the node with the given id anywhere in the forest. An
// emptied children slice becomes nil so parents never keep empty lists.
func removeNode(nodes []*org.Node, id int64) ([]*org.Node, bool) {
	for i, n := range nodes {
		if n.ID == id {
			out := append(nodes[:i:i], nodes[i+1:]...)
			if len(out) == 0 {
				out = nil
			}
			return out, true
		}
		children, removed := removeNode(n.Children, id)
		if removed {
			n.Children = children
			return nodes, true
		}
	}
	return nodes, false
}

func cloneNode(n *org.Node) *org.Node {
	out := *n
	if n.ParentID != nil {
		pid := *n.ParentID
		out.ParentID = &pid
	}
	if len(n.Children) > 0 {
		out.Children = make([]*org.Node, 0, len(n.Children))
		for _, c := range n.Children {
			out.Children = append(out.Children, cloneNode(c))
		}
	}
	return &out
}

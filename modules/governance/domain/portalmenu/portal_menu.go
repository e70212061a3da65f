// Package portalmenu models portal menu entries and the role/permission
// bindings attached to them.
package portalmenu

import "context"

// Menu is one portal menu entry. Bindings are held sorted for stable
// comparison; order carries no meaning. A deleted menu stays listed but
// its bindings may not change while it is disabled.
type Menu struct {
	ID        string
	Name      string
	Path      string
	SortOrder int
	Deleted   bool
	Bindings  []string
}

// BindingChange records one menu whose binding set differs between two
// snapshots.
type BindingChange struct {
	ID     string   `json:"id"`
	Name   string   `json:"name,omitempty"`
	Before []string `json:"before"`
	After  []string `json:"after"`
}

type Repository interface {
	List(ctx context.Context) ([]*Menu, error)
	Find(ctx context.Context, id string) (*Menu, error)
	// SetBindings replaces the binding set; false on unknown id.
	SetBindings(ctx context.Context, id string, bindings []string) (bool, error)
}

package org

import "context"

// Repository owns the organization forest. Implementations must keep
// Sensitivity locked to DataLevel on every write and must assign monotonic
// ids on insert.
type Repository interface {
	// Roots returns the forest. The returned nodes are detached copies.
	Roots(ctx context.Context) ([]*Node, error)
	// Find locates a node anywhere in the forest, nil if absent.
	Find(ctx context.Context, id int64) (*Node, error)
	// Insert attaches node under parentID, or as a new root when parentID
	// is nil. It assigns the node id and returns false when parentID is
	// non-nil and not found.
	Insert(ctx context.Context, parentID *int64, node *Node) (bool, error)
	// Update applies patch field-by-field; nil result when id is unknown.
	Update(ctx context.Context, id int64, patch Patch) (*Node, error)
	// Delete removes the node and its entire subtree; false when id is
	// unknown. A parent whose children list becomes empty drops the list
	// rather than keeping an empty one.
	Delete(ctx context.Context, id int64) (bool, error)
}

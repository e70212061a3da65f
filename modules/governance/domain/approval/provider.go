package approval

import "context"

// IdentityProvider is the downstream identity store that approved items are
// applied to. Implementations must refuse to create or delete built-in
// roles and must honor context cancellation.
type IdentityProvider interface {
	ApplyItem(ctx context.Context, item Item) error
}

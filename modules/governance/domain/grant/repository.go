package grant

import "context"

type FindParams struct {
	UserID     string
	RoleCode   string
	ActiveOnly bool
}

type Repository interface {
	List(ctx context.Context, params FindParams) ([]*Grant, error)
	Find(ctx context.Context, id int64) (*Grant, error)
	Create(ctx context.Context, g *Grant) (*Grant, error)
	// Revoke stamps RevokedAt/RevokedBy; false when the grant is unknown
	// or already revoked.
	Revoke(ctx context.Context, id int64, by string) (bool, error)
}

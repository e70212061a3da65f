package role

import "context"

type CustomRoleRepository interface {
	List(ctx context.Context) ([]*CustomRole, error)
	// FindByName matches case-insensitively on the trimmed name.
	FindByName(ctx context.Context, name string) (*CustomRole, error)
	Create(ctx context.Context, r *CustomRole) (*CustomRole, error)
}

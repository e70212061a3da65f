package composables

import (
	"context"
	"errors"

	"github.com/iota-uz/governance/pkg/constants"
)

var ErrNoPrincipal = errors.New("no principal found in context")

// WithPrincipal attaches the acting username to the context.
func WithPrincipal(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, constants.PrincipalKey, username)
}

// UsePrincipal returns the acting username from the context.
func UsePrincipal(ctx context.Context) (string, error) {
	principal, ok := ctx.Value(constants.PrincipalKey).(string)
	if !ok || principal == "" {
		return "", ErrNoPrincipal
	}
	return principal, nil
}

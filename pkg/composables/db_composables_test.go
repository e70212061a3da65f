package composables_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/governance/pkg/composables"
)

func TestUseTxFallsBackToPool(t *testing.T) {
	_, err := composables.UseTx(context.Background())
	assert.ErrorIs(t, err, composables.ErrNoPool)
}

func TestUsePoolWithoutPool(t *testing.T) {
	_, err := composables.UsePool(context.Background())
	assert.ErrorIs(t, err, composables.ErrNoPool)
}

func TestPrincipalRoundTrip(t *testing.T) {
	ctx := composables.WithPrincipal(context.Background(), "alice")
	principal, err := composables.UsePrincipal(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", principal)
}

func TestUsePrincipalMissing(t *testing.T) {
	_, err := composables.UsePrincipal(context.Background())
	assert.ErrorIs(t, err, composables.ErrNoPrincipal)
}

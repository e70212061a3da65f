package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/domain/dataset"
	"github.com/iota-uz/governance/modules/governance/domain/grant"
	"github.com/iota-uz/governance/modules/governance/domain/role"
	"github.com/iota-uz/governance/modules/governance/infrastructure/inmemory"
	"github.com/iota-uz/governance/modules/governance/services"
	"github.com/iota-uz/governance/pkg/composables"
)

func newGrantService(datasets ...*dataset.Dataset) (*services.GrantService, *inmemory.GrantRepository) {
	repo := inmemory.NewGrantRepository()
	validator := services.NewPolicyValidator(
		services.NewRoleCatalog(inmemory.NewCustomRoleRepository()),
		inmemory.NewDatasetRepository(datasets...),
	)
	return services.NewGrantService(validator, repo, nil, nil), repo
}

func TestCreateGrantPersistsValidProposal(t *testing.T) {
	svc, _ := newGrantService(&dataset.Dataset{ID: "ds-1", DataLevel: classification.Internal, OwnerOrgID: deptID})
	ctx := composables.WithPrincipal(context.Background(), "authadmin-1")

	res, err := svc.Create(ctx, role.AuthAdmin, deptProposal("ds-1"))
	require.NoError(t, err)
	require.NotNil(t, res.Grant)
	assert.True(t, res.Verdict.Valid)
	assert.Equal(t, "authadmin-1", res.Grant.GrantedBy)
	assert.True(t, res.Grant.Active())
}

func TestCreateGrantReturnsVerdictWithoutWriting(t *testing.T) {
	svc, repo := newGrantService()
	ctx := composables.WithPrincipal(context.Background(), "authadmin-1")

	res, err := svc.Create(ctx, role.AuthAdmin, deptProposal("ds-missing"))
	require.NoError(t, err)
	assert.Nil(t, res.Grant)
	assert.False(t, res.Verdict.Valid)

	all, err := repo.List(context.Background(), grant.FindParams{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateGrantDeduplicatesOperations(t *testing.T) {
	svc, _ := newGrantService(&dataset.Dataset{ID: "ds-1", DataLevel: classification.Internal, OwnerOrgID: deptID})
	ctx := composables.WithPrincipal(context.Background(), "authadmin-1")

	p := deptProposal("ds-1")
	p.Operations = []role.Operation{role.OpRead, role.OpWrite, role.OpRead, role.OpWrite}

	res, err := svc.Create(ctx, role.AuthAdmin, p)
	require.NoError(t, err)
	require.NotNil(t, res.Grant)
	assert.Equal(t, []role.Operation{role.OpRead, role.OpWrite}, res.Grant.Operations)
}

func TestRevokeGrant(t *testing.T) {
	svc, _ := newGrantService(&dataset.Dataset{ID: "ds-1", DataLevel: classification.Internal, OwnerOrgID: deptID})
	ctx := composables.WithPrincipal(context.Background(), "authadmin-1")

	res, err := svc.Create(ctx, role.AuthAdmin, deptProposal("ds-1"))
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, role.AuthAdmin, res.Grant.ID))

	active, err := svc.List(ctx, grant.FindParams{ActiveOnly: true})
	require.NoError(t, err)
	assert.Empty(t, active)

	err = svc.Revoke(ctx, role.AuthAdmin, res.Grant.ID)
	requireServiceCode(t, err, "GRANT_ALREADY_REVOKED")
}

func TestRevokeMissingGrant(t *testing.T) {
	svc, _ := newGrantService()
	err := svc.Revoke(context.Background(), role.AuthAdmin, 7)
	requireServiceCode(t, err, "GRANT_NOT_FOUND")
}

package governance_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/governance/modules/governance"
	"github.com/iota-uz/governance/modules/governance/domain/approval"
	"github.com/iota-uz/governance/modules/governance/domain/audit"
	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/domain/dataset"
	"github.com/iota-uz/governance/modules/governance/domain/grant"
	"github.com/iota-uz/governance/modules/governance/domain/role"
	"github.com/iota-uz/governance/modules/governance/infrastructure/inmemory"
	"github.com/iota-uz/governance/modules/governance/services"
	"github.com/iota-uz/governance/pkg/composables"
	"github.com/iota-uz/governance/pkg/eventbus"
)

type nopProvider struct{}

func (nopProvider) ApplyItem(context.Context, approval.Item) error { return nil }

func newModule(t *testing.T) *governance.Module {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	m, err := governance.New(governance.Options{
		Repos: governance.Repositories{
			Org:         inmemory.NewOrgRepository(),
			CustomRoles: inmemory.NewCustomRoleRepository(),
			Datasets: inmemory.NewDatasetRepository(
				&dataset.Dataset{ID: "ds-1", Name: "Telemetry", DataLevel: classification.Internal, OwnerOrgID: 10},
			),
			Grants:         inmemory.NewGrantRepository(),
			ChangeRequests: inmemory.NewChangeRequestRepository(),
			Approvals:      inmemory.NewApprovalRepository(),
			PortalMenus:    inmemory.NewPortalMenuRepository(),
			Audit:          inmemory.NewAuditRepository(),
			SysConfig:      inmemory.NewSysConfigRepository(),
		},
		Provider:    nopProvider{},
		EventBus:    eventbus.NewEventPublisher(logger),
		Logger:      logger,
		SyncTimeout: time.Second,
	})
	require.NoError(t, err)
	return m
}

func proposal() grant.Proposal {
	scope := int64(10)
	return grant.Proposal{
		RoleCode:      role.DeptEditor,
		UserID:        "u-1",
		Username:      "zhang",
		SecurityLevel: classification.Important,
		DatasetIDs:    []string{"ds-1"},
		Operations:    []role.Operation{role.OpRead, role.OpWrite},
		ScopeOrgID:    &scope,
	}
}

func TestModuleEnforcesSeparationOfDuties(t *testing.T) {
	m := newModule(t)
	ctx := composables.WithPrincipal(context.Background(), "alice")

	_, err := m.Grants.Create(ctx, role.AuditAdmin, proposal())
	var svcErr *services.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "FORBIDDEN", svcErr.Code)

	res, err := m.Grants.Create(ctx, role.AuthAdmin, proposal())
	require.NoError(t, err)
	require.NotNil(t, res.Grant)
}

func TestModuleGrantLandsInAuditTrail(t *testing.T) {
	m := newModule(t)
	ctx := composables.WithPrincipal(context.Background(), "alice")

	res, err := m.Grants.Create(ctx, role.AuthAdmin, proposal())
	require.NoError(t, err)
	require.NotNil(t, res.Grant)

	events, err := m.Audit.List(ctx, role.AuditAdmin, audit.FindParams{TargetKind: "GRANT"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "GRANT_CREATED", events[0].Action)
	assert.Equal(t, "alice", events[0].Actor)
}

func TestModuleConfigChangeFlow(t *testing.T) {
	m := newModule(t)
	sysadmin := composables.WithPrincipal(context.Background(), "sam")
	authadmin := composables.WithPrincipal(context.Background(), "alice")

	cr, err := m.SysConfig.Propose(sysadmin, role.SysAdmin, "audit.retention", "90d")
	require.NoError(t, err)

	_, err = m.ChangeRequests.Approve(authadmin, role.AuthAdmin, cr.ID, nil)
	require.NoError(t, err)
	_, err = m.ChangeRequests.Materialize(authadmin, role.OpAdmin, cr.ID)
	require.NoError(t, err)

	setting, err := m.SysConfig.Get(authadmin, "audit.retention")
	require.NoError(t, err)
	assert.Equal(t, "90d", setting.Value)
}

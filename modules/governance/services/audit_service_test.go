package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/governance/modules/governance/domain/audit"
	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/domain/role"
	"github.com/iota-uz/governance/modules/governance/infrastructure/inmemory"
	"github.com/iota-uz/governance/modules/governance/services"
	"github.com/iota-uz/governance/pkg/eventbus"
)

func newAuditFixture() (*services.AuditService, *services.OrgService, eventbus.EventBus) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	bus := eventbus.NewEventPublisher(logger)

	auditSvc := services.NewAuditService(inmemory.NewAuditRepository(), nil, logger)
	auditSvc.Register(bus)

	orgSvc := services.NewOrgService(inmemory.NewOrgRepository(), bus)
	return auditSvc, orgSvc, bus
}

func TestAuditTrailRecordsOrgMutations(t *testing.T) {
	auditSvc, orgSvc, _ := newAuditFixture()
	ctx := context.Background()

	node, err := orgSvc.CreateNode(ctx, "alice", services.CreateNodeInput{Name: "Research", DataLevel: classification.Secret})
	require.NoError(t, err)
	require.NoError(t, orgSvc.DeleteNode(ctx, "alice", node.ID))

	events, err := auditSvc.List(ctx, role.AuditAdmin, audit.FindParams{TargetKind: "ORG_NODE"})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ORG_CREATE", events[0].Action)
	assert.Equal(t, "ORG_DELETE", events[1].Action)
	assert.Equal(t, "alice", events[0].Actor)
}

func TestAuditExportCSV(t *testing.T) {
	auditSvc, orgSvc, _ := newAuditFixture()
	ctx := context.Background()

	_, err := orgSvc.CreateNode(ctx, "alice", services.CreateNodeInput{
		Name:      `Lab "X", East Wing`,
		DataLevel: classification.Internal,
	})
	require.NoError(t, err)

	data, err := auditSvc.ExportCSV(ctx, role.AuditAdmin, audit.FindParams{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,occurred_at,actor,action,target_kind,target_id,detail", lines[0])
	assert.Contains(t, lines[1], `"name=Lab ""X"", East Wing`, "quotes and commas must be escaped")
}

func TestAuditExportJSON(t *testing.T) {
	auditSvc, orgSvc, _ := newAuditFixture()
	ctx := context.Background()

	_, err := orgSvc.CreateNode(ctx, "alice", services.CreateNodeInput{Name: "Research", DataLevel: classification.Internal})
	require.NoError(t, err)

	data, err := auditSvc.ExportJSON(ctx, role.AuditAdmin, audit.FindParams{})
	require.NoError(t, err)
	assert.Contains(t, string(data), "ORG_CREATE")
}

package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/governance/modules/governance/domain/changerequest"
	"github.com/iota-uz/governance/modules/governance/domain/role"
	"github.com/iota-uz/governance/modules/governance/infrastructure/inmemory"
	"github.com/iota-uz/governance/modules/governance/services"
	"github.com/iota-uz/governance/pkg/composables"
)

func newChangeRequestService() *services.ChangeRequestService {
	return services.NewChangeRequestService(inmemory.NewChangeRequestRepository(), nil, nil)
}

func draftInput() services.CreateChangeRequestInput {
	return services.CreateChangeRequestInput{
		TargetKind: "CONFIG",
		TargetID:   "retention",
		Action:     changerequest.ActionConfigSet,
		Payload:    json.RawMessage(`{"key":"retention","value":"90d"}`),
	}
}

func TestCreateChangeRequestStartsAsDraft(t *testing.T) {
	svc := newChangeRequestService()
	ctx := composables.WithPrincipal(context.Background(), "sysadmin-1")

	cr, err := svc.Create(ctx, draftInput())
	require.NoError(t, err)
	assert.Equal(t, changerequest.StatusDraft, cr.Status)
	assert.Equal(t, "sysadmin-1", cr.RequestedBy)
	assert.False(t, cr.Materialized())
}

func TestSubmitMovesDraftToPending(t *testing.T) {
	svc := newChangeRequestService()
	ctx := context.Background()

	cr, err := svc.Create(ctx, draftInput())
	require.NoError(t, err)

	pending, err := svc.Submit(ctx, cr.ID)
	require.NoError(t, err)
	assert.Equal(t, changerequest.StatusPending, pending.Status)

	_, err = svc.Submit(ctx, cr.ID)
	requireServiceCode(t, err, "CHANGE_REQUEST_NOT_DRAFT")
}

func TestApproveKeepsReasonNil(t *testing.T) {
	svc := newChangeRequestService()
	ctx := composables.WithPrincipal(context.Background(), "authadmin-1")

	cr, err := svc.Create(ctx, draftInput())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, cr.ID)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, role.AuthAdmin, cr.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, changerequest.StatusApproved, approved.Status)
	assert.Nil(t, approved.Reason)
	assert.Equal(t, "authadmin-1", approved.DecidedBy)
	require.NotNil(t, approved.DecidedAt)
}

func TestRejectDefaultsReasonToEmpty(t *testing.T) {
	svc := newChangeRequestService()
	ctx := context.Background()

	cr, err := svc.Create(ctx, draftInput())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, cr.ID)
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, role.AuthAdmin, cr.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, changerequest.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.Reason)
	assert.Equal(t, "", *rejected.Reason)
}

func TestDecideRequiresPending(t *testing.T) {
	svc := newChangeRequestService()
	ctx := context.Background()

	cr, err := svc.Create(ctx, draftInput())
	require.NoError(t, err)

	_, err = svc.Approve(ctx, role.AuthAdmin, cr.ID, nil)
	requireServiceCode(t, err, "CHANGE_REQUEST_NOT_PENDING")

	_, err = svc.Submit(ctx, cr.ID)
	require.NoError(t, err)
	_, err = svc.Reject(ctx, role.AuthAdmin, cr.ID, nil)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, role.AuthAdmin, cr.ID, nil)
	requireServiceCode(t, err, "CHANGE_REQUEST_NOT_PENDING")
}

func TestMaterializeIsIdempotent(t *testing.T) {
	svc := newChangeRequestService()
	ctx := context.Background()

	applied := 0
	svc.RegisterApplier("CONFIG", func(context.Context, *changerequest.ChangeRequest) error {
		applied++
		return nil
	})

	cr, err := svc.Create(ctx, draftInput())
	require.NoError(t, err)
	_, err = svc.Submit(ctx, cr.ID)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, role.AuthAdmin, cr.ID, nil)
	require.NoError(t, err)

	first, err := svc.Materialize(ctx, role.OpAdmin, cr.ID)
	require.NoError(t, err)
	assert.True(t, first.Materialized())

	second, err := svc.Materialize(ctx, role.OpAdmin, cr.ID)
	require.NoError(t, err)
	assert.Equal(t, first.MaterializedAt, second.MaterializedAt)
	assert.Equal(t, 1, applied, "applier must run exactly once")
}

func TestMaterializeRequiresApproval(t *testing.T) {
	svc := newChangeRequestService()
	ctx := context.Background()

	cr, err := svc.Create(ctx, draftInput())
	require.NoError(t, err)

	_, err = svc.Materialize(ctx, role.OpAdmin, cr.ID)
	requireServiceCode(t, err, "CHANGE_REQUEST_NOT_APPROVED")
}

func TestMaterializeWithoutApplier(t *testing.T) {
	svc := newChangeRequestService()
	ctx := context.Background()

	cr, err := svc.Create(ctx, services.CreateChangeRequestInput{
		TargetKind: "UNBOUND",
		Action:     changerequest.ActionUpdate,
		Submit:     true,
	})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, role.AuthAdmin, cr.ID, nil)
	require.NoError(t, err)

	_, err = svc.Materialize(ctx, role.OpAdmin, cr.ID)
	requireServiceCode(t, err, "CHANGE_REQUEST_NO_APPLIER")
}

package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/governance/modules/governance/domain/approval"
	"github.com/iota-uz/governance/modules/governance/domain/role"
	"github.com/iota-uz/governance/modules/governance/infrastructure/inmemory"
	"github.com/iota-uz/governance/modules/governance/services"
	"github.com/iota-uz/governance/pkg/composables"
)

type fakeProvider struct {
	applied []approval.Item
	failOn  int
	block   bool
}

func (p *fakeProvider) ApplyItem(ctx context.Context, item approval.Item) error {
	if p.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if p.failOn > 0 && item.SeqNumber == p.failOn {
		return errors.New("downstream rejected item")
	}
	p.applied = append(p.applied, item)
	return nil
}

func newApprovalService(p approval.IdentityProvider, timeout time.Duration) *services.ApprovalService {
	return services.NewApprovalService(inmemory.NewApprovalRepository(), p, nil, nil, timeout)
}

func userBatch() services.CreateApprovalInput {
	return services.CreateApprovalInput{
		Type: "USER_SYNC",
		Items: []approval.Item{
			{TargetKind: "USER", TargetID: "u-2", SeqNumber: 2, Payload: json.RawMessage(`{"op":"UPDATE"}`)},
			{TargetKind: "USER", TargetID: "u-1", SeqNumber: 1, Payload: json.RawMessage(`{"op":"CREATE"}`)},
		},
	}
}

func TestCreateOrdersItemsBySequence(t *testing.T) {
	svc := newApprovalService(&fakeProvider{}, time.Second)
	ctx := composables.WithPrincipal(context.Background(), "requester-1")

	req, err := svc.Create(ctx, userBatch())
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, req.Status)
	require.Len(t, req.Items, 2)
	assert.Equal(t, 1, req.Items[0].SeqNumber)
	assert.Equal(t, 2, req.Items[1].SeqNumber)
}

func TestRequesterCannotDecideOwnRequest(t *testing.T) {
	svc := newApprovalService(&fakeProvider{}, time.Second)
	ctx := composables.WithPrincipal(context.Background(), "requester-1")

	req, err := svc.Create(ctx, userBatch())
	require.NoError(t, err)

	_, err = svc.Approve(ctx, role.AuthAdmin, req.ID, "")
	requireServiceCode(t, err, "APPROVAL_SELF_DECISION")
}

func TestDecisionRequiresPending(t *testing.T) {
	svc := newApprovalService(&fakeProvider{}, time.Second)
	requester := composables.WithPrincipal(context.Background(), "requester-1")
	approver := composables.WithPrincipal(context.Background(), "approver-1")

	req, err := svc.Create(requester, userBatch())
	require.NoError(t, err)

	rejected, err := svc.Reject(approver, role.AuthAdmin, req.ID, "not justified")
	require.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, rejected.Status)
	assert.Equal(t, "not justified", rejected.Reason)

	_, err = svc.Approve(approver, role.AuthAdmin, req.ID, "")
	requireServiceCode(t, err, "APPROVAL_NOT_PENDING")
}

func TestProcessAppliesItemsInOrder(t *testing.T) {
	provider := &fakeProvider{}
	svc := newApprovalService(provider, time.Second)
	requester := composables.WithPrincipal(context.Background(), "requester-1")
	approver := composables.WithPrincipal(context.Background(), "approver-1")

	req, err := svc.Create(requester, userBatch())
	require.NoError(t, err)
	_, err = svc.Approve(approver, role.AuthAdmin, req.ID, "")
	require.NoError(t, err)

	processed, err := svc.Process(approver, role.OpAdmin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApplied, processed.Status)
	assert.Empty(t, processed.ErrorMessage)
	require.Len(t, provider.applied, 2)
	assert.Equal(t, "u-1", provider.applied[0].TargetID)
	assert.Equal(t, "u-2", provider.applied[1].TargetID)
}

func TestProcessFailureRecordsError(t *testing.T) {
	provider := &fakeProvider{failOn: 2}
	svc := newApprovalService(provider, time.Second)
	requester := composables.WithPrincipal(context.Background(), "requester-1")
	approver := composables.WithPrincipal(context.Background(), "approver-1")

	req, err := svc.Create(requester, userBatch())
	require.NoError(t, err)
	_, err = svc.Approve(approver, role.AuthAdmin, req.ID, "")
	require.NoError(t, err)

	failed, err := svc.Process(approver, role.OpAdmin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusFailed, failed.Status)
	assert.Contains(t, failed.ErrorMessage, "downstream rejected item")

	// A failed request is retryable and a clean retry clears the error.
	provider.failOn = 0
	retried, err := svc.Process(approver, role.OpAdmin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApplied, retried.Status)
	assert.Empty(t, retried.ErrorMessage)
}

func TestProcessTimeoutMarksFailed(t *testing.T) {
	svc := newApprovalService(&fakeProvider{block: true}, 20*time.Millisecond)
	requester := composables.WithPrincipal(context.Background(), "requester-1")
	approver := composables.WithPrincipal(context.Background(), "approver-1")

	req, err := svc.Create(requester, userBatch())
	require.NoError(t, err)
	_, err = svc.Approve(approver, role.AuthAdmin, req.ID, "")
	require.NoError(t, err)

	failed, err := svc.Process(approver, role.OpAdmin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusFailed, failed.Status)
	assert.Equal(t, "identity provider sync timed out", failed.ErrorMessage)
}

func TestProcessAppliedIsNoOp(t *testing.T) {
	provider := &fakeProvider{}
	svc := newApprovalService(provider, time.Second)
	requester := composables.WithPrincipal(context.Background(), "requester-1")
	approver := composables.WithPrincipal(context.Background(), "approver-1")

	req, err := svc.Create(requester, userBatch())
	require.NoError(t, err)
	_, err = svc.Approve(approver, role.AuthAdmin, req.ID, "")
	require.NoError(t, err)
	_, err = svc.Process(approver, role.OpAdmin, req.ID)
	require.NoError(t, err)

	again, err := svc.Process(approver, role.OpAdmin, req.ID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApplied, again.Status)
	assert.Len(t, provider.applied, 2, "items must not be re-applied")
}

func TestProcessRequiresApprovedRequest(t *testing.T) {
	svc := newApprovalService(&fakeProvider{}, time.Second)
	requester := composables.WithPrincipal(context.Background(), "requester-1")

	req, err := svc.Create(requester, userBatch())
	require.NoError(t, err)

	_, err = svc.Process(requester, role.OpAdmin, req.ID)
	requireServiceCode(t, err, "APPROVAL_NOT_PROCESSABLE")
}

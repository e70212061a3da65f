package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/iota-uz/governance/modules/governance/domain/approval"
	"github.com/iota-uz/governance/modules/governance/domain/events"
	"github.com/iota-uz/governance/pkg/authz"
	"github.com/iota-uz/governance/pkg/composables"
	"github.com/iota-uz/governance/pkg/eventbus"
)

// ApprovalService runs the identity-provider approval workflow: batches of
// identity mutations wait for a decision, and approved batches are pushed
// item by item to the downstream provider under a sync timeout.
type ApprovalService struct {
	repo     approval.Repository
	provider approval.IdentityProvider
	enforcer *authz.Service
	bus      eventbus.EventBus
	timeout  time.Duration
}

func NewApprovalService(repo approval.Repository, provider approval.IdentityProvider, enforcer *authz.Service, bus eventbus.EventBus, timeout time.Duration) *ApprovalService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ApprovalService{repo: repo, provider: provider, enforcer: enforcer, bus: bus, timeout: timeout}
}

type CreateApprovalInput struct {
	Type  string
	Items []approval.Item
}

func (s *ApprovalService) Create(ctx context.Context, in CreateApprovalInput) (*approval.Request, error) {
	if in.Type == "" {
		return nil, newServiceError(400, "APPROVAL_INVALID", "type is required", nil)
	}
	if len(in.Items) == 0 {
		return nil, newServiceError(400, "APPROVAL_INVALID", "at least one item is required", nil)
	}

	requester, err := composables.UsePrincipal(ctx)
	if err != nil {
		requester = "system"
	}
	items := make([]approval.Item, len(in.Items))
	copy(items, in.Items)
	sort.SliceStable(items, func(i, j int) bool { return items[i].SeqNumber < items[j].SeqNumber })

	return s.repo.Create(ctx, &approval.Request{
		Type:      in.Type,
		Requester: requester,
		Items:     items,
		Status:    approval.StatusPending,
		CreatedAt: time.Now().UTC(),
	})
}

func (s *ApprovalService) Approve(ctx context.Context, actorRole string, id int64, reason string) (*approval.Request, error) {
	return s.decide(ctx, actorRole, id, approval.StatusApproved, reason)
}

func (s *ApprovalService) Reject(ctx context.Context, actorRole string, id int64, reason string) (*approval.Request, error) {
	return s.decide(ctx, actorRole, id, approval.StatusRejected, reason)
}

func (s *ApprovalService) decide(ctx context.Context, actorRole string, id int64, to approval.Status, reason string) (*approval.Request, error) {
	if err := s.authorize(ctx, actorRole, "approval", "decide"); err != nil {
		return nil, err
	}
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.Status.Decidable() {
		return nil, newServiceError(409, "APPROVAL_NOT_PENDING", "only pending requests can be decided", nil)
	}

	actor, err := composables.UsePrincipal(ctx)
	if err != nil {
		actor = "system"
	}
	if actor == req.Requester {
		return nil, newServiceError(403, "APPROVAL_SELF_DECISION", "requester cannot decide own request", nil)
	}
	ok, err := s.repo.UpdateStatus(ctx, id, approval.StatusPending, to, actor, reason, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newServiceError(409, "APPROVAL_NOT_PENDING", "only pending requests can be decided", nil)
	}

	decided, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(events.ApprovalDecided{RequestID: id, Status: string(to), Actor: actor, At: time.Now().UTC()})
	}
	return decided, nil
}

// Process pushes an approved (or previously failed) batch downstream.
// Items are applied in sequence order under the sync timeout; the first
// failure marks the request FAILED with the error recorded, and a later
// retry starts over from the first item. A request already applied is
// returned unchanged.
func (s *ApprovalService) Process(ctx context.Context, actorRole string, id int64) (*approval.Request, error) {
	if err := s.authorize(ctx, actorRole, "approval", "process"); err != nil {
		return nil, err
	}
	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status == approval.StatusApplied {
		return req, nil
	}
	if !req.Status.Processable() {
		return nil, newServiceError(409, "APPROVAL_NOT_PROCESSABLE", "request must be approved before processing", nil)
	}

	syncCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var applyErr error
	for _, item := range req.Items {
		if applyErr = s.provider.ApplyItem(syncCtx, item); applyErr != nil {
			break
		}
	}

	outcome := approval.StatusApplied
	errorMessage := ""
	if applyErr != nil {
		outcome = approval.StatusFailed
		if errors.Is(applyErr, context.DeadlineExceeded) {
			errorMessage = "identity provider sync timed out"
		} else {
			errorMessage = applyErr.Error()
		}
	}
	if _, err := s.repo.SetOutcome(ctx, id, outcome, errorMessage); err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(events.ApprovalApplied{RequestID: id, Status: string(outcome), Error: errorMessage, At: time.Now().UTC()})
	}
	return s.get(ctx, id)
}

func (s *ApprovalService) List(ctx context.Context, params approval.FindParams) ([]*approval.Request, error) {
	return s.repo.List(ctx, params)
}

func (s *ApprovalService) get(ctx context.Context, id int64) (*approval.Request, error) {
	req, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, newServiceError(404, "APPROVAL_NOT_FOUND", "approval request not found", nil)
	}
	return req, nil
}

func (s *ApprovalService) authorize(ctx context.Context, actorRole, object, action string) error {
	if s.enforcer == nil {
		return nil
	}
	if err := s.enforcer.Authorize(ctx, authz.NewRequest(actorRole, object, action)); err != nil {
		return newServiceError(403, "FORBIDDEN", "actor role may not perform this action", err)
	}
	return nil
}

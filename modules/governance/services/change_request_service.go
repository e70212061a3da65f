package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/iota-uz/governance/modules/governance/domain/changerequest"
	"github.com/iota-uz/governance/modules/governance/domain/events"
	"github.com/iota-uz/governance/pkg/authz"
	"github.com/iota-uz/governance/pkg/composables"
	"github.com/iota-uz/governance/pkg/eventbus"
)

// Applier materializes an approved change request of one target kind.
type Applier func(ctx context.Context, cr *changerequest.ChangeRequest) error

// ChangeRequestService runs the mutation workflow: requests are created as
// drafts, submitted for decision, approved or rejected, and approved ones
// are materialized exactly once through a registered applier.
type ChangeRequestService struct {
	repo     changerequest.Repository
	enforcer *authz.Service
	bus      eventbus.EventBus

	mu       sync.RWMutex
	appliers map[string]Applier
}

func NewChangeRequestService(repo changerequest.Repository, enforcer *authz.Service, bus eventbus.EventBus) *ChangeRequestService {
	return &ChangeRequestService{
		repo:     repo,
		enforcer: enforcer,
		bus:      bus,
		appliers: map[string]Applier{},
	}
}

// RegisterApplier binds a target kind to its materializer. Later
// registrations for the same kind win.
func (s *ChangeRequestService) RegisterApplier(targetKind string, fn Applier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appliers[targetKind] = fn
}

type CreateChangeRequestInput struct {
	TargetKind string
	TargetID   string
	Action     changerequest.Action
	Payload    json.RawMessage
	DiffJSON   json.RawMessage
	// Submit skips the draft stage and files the request as PENDING.
	Submit bool
}

func (s *ChangeRequestService) Create(ctx context.Context, in CreateChangeRequestInput) (*changerequest.ChangeRequest, error) {
	in.TargetKind = strings.TrimSpace(in.TargetKind)
	if in.TargetKind == "" {
		return nil, newServiceError(400, "CHANGE_REQUEST_INVALID", "targetKind is required", nil)
	}
	if in.Action == "" {
		return nil, newServiceError(400, "CHANGE_REQUEST_INVALID", "action is required", nil)
	}

	actor, err := composables.UsePrincipal(ctx)
	if err != nil {
		actor = "system"
	}
	status := changerequest.StatusDraft
	if in.Submit {
		status = changerequest.StatusPending
	}
	return s.repo.Create(ctx, &changerequest.ChangeRequest{
		TargetKind:  in.TargetKind,
		TargetID:    in.TargetID,
		Action:      in.Action,
		Payload:     in.Payload,
		DiffJSON:    in.DiffJSON,
		Status:      status,
		RequestedBy: actor,
		RequestedAt: time.Now().UTC(),
	})
}

// Submit moves a draft to PENDING. Any other starting status is a
// conflict, including PENDING itself: re-submission is not a no-op.
func (s *ChangeRequestService) Submit(ctx context.Context, id int64) (*changerequest.ChangeRequest, error) {
	cr, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cr.Status != changerequest.StatusDraft {
		return nil, newServiceError(409, "CHANGE_REQUEST_NOT_DRAFT", "only drafts can be submitted", nil)
	}
	ok, err := s.repo.UpdateStatus(ctx, id, changerequest.StatusDraft, changerequest.StatusPending, "", nil, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newServiceError(409, "CHANGE_REQUEST_NOT_DRAFT", "only drafts can be submitted", nil)
	}
	return s.get(ctx, id)
}

// Approve decides a pending request. Reason stays nil unless the approver
// supplied one.
func (s *ChangeRequestService) Approve(ctx context.Context, actorRole string, id int64, reason *string) (*changerequest.ChangeRequest, error) {
	return s.decide(ctx, actorRole, id, changerequest.StatusApproved, reason)
}

// Reject decides a pending request. A nil reason is stored as the empty
// string so rejected requests always carry one.
func (s *ChangeRequestService) Reject(ctx context.Context, actorRole string, id int64, reason *string) (*changerequest.ChangeRequest, error) {
	if reason == nil {
		empty := ""
		reason = &empty
	}
	return s.decide(ctx, actorRole, id, changerequest.StatusRejected, reason)
}

func (s *ChangeRequestService) decide(ctx context.Context, actorRole string, id int64, to changerequest.Status, reason *string) (*changerequest.ChangeRequest, error) {
	if err := s.authorize(ctx, actorRole, "changerequest", "decide"); err != nil {
		return nil, err
	}
	cr, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cr.Status != changerequest.StatusPending {
		return nil, newServiceError(409, "CHANGE_REQUEST_NOT_PENDING", "only pending requests can be decided", nil)
	}

	actor, err := composables.UsePrincipal(ctx)
	if err != nil {
		actor = "system"
	}
	ok, err := s.repo.UpdateStatus(ctx, id, changerequest.StatusPending, to, actor, reason, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newServiceError(409, "CHANGE_REQUEST_NOT_PENDING", "only pending requests can be decided", nil)
	}

	decided, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.bus != nil {
		s.bus.Publish(events.ChangeRequestDecided{Request: decided, Actor: actor, At: time.Now().UTC()})
	}
	return decided, nil
}

// Materialize applies an approved request through its registered applier.
// A request already materialized is returned unchanged; materialization is
// idempotent.
func (s *ChangeRequestService) Materialize(ctx context.Context, actorRole string, id int64) (*changerequest.ChangeRequest, error) {
	if err := s.authorize(ctx, actorRole, "changerequest", "materialize"); err != nil {
		return nil, err
	}
	cr, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if cr.Status != changerequest.StatusApproved {
		return nil, newServiceError(409, "CHANGE_REQUEST_NOT_APPROVED", "only approved requests can be materialized", nil)
	}
	if cr.Materialized() {
		return cr, nil
	}

	s.mu.RLock()
	apply, found := s.appliers[cr.TargetKind]
	s.mu.RUnlock()
	if !found {
		return nil, newServiceError(422, "CHANGE_REQUEST_NO_APPLIER", "no applier registered for target kind "+cr.TargetKind, nil)
	}
	if err := apply(ctx, cr); err != nil {
		return nil, err
	}

	if _, err := s.repo.MarkMaterialized(ctx, id, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

func (s *ChangeRequestService) List(ctx context.Context, params changerequest.FindParams) ([]*changerequest.ChangeRequest, error) {
	return s.repo.List(ctx, params)
}

func (s *ChangeRequestService) get(ctx context.Context, id int64) (*changerequest.ChangeRequest, error) {
	cr, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if cr == nil {
		return nil, newServiceError(404, "CHANGE_REQUEST_NOT_FOUND", "change request not found", nil)
	}
	return cr, nil
}

func (s *ChangeRequestService) authorize(ctx context.Context, actorRole, object, action string) error {
	if s.enforcer == nil {
		return nil
	}
	if err := s.enforcer.Authorize(ctx, authz.NewRequest(actorRole, object, action)); err != nil {
		return newServiceError(403, "FORBIDDEN", "actor role may not perform this action", err)
	}
	return nil
}

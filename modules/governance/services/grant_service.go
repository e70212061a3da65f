package services

import (
	"context"
	"time"

	"github.com/iota-uz/governance/modules/governance/domain/events"
	"github.com/iota-uz/governance/modules/governance/domain/grant"
	"github.com/iota-uz/governance/modules/governance/domain/role"
	"github.com/iota-uz/governance/pkg/authz"
	"github.com/iota-uz/governance/pkg/composables"
	"github.com/iota-uz/governance/pkg/eventbus"
)

// GrantService turns validated proposals into persisted grants. Every
// create runs the full policy validation; a rejected proposal is returned
// with its verdict and nothing is written.
type GrantService struct {
	validator *PolicyValidator
	repo      grant.Repository
	enforcer  *authz.Service
	bus       eventbus.EventBus
}

func NewGrantService(validator *PolicyValidator, repo grant.Repository, enforcer *authz.Service, bus eventbus.EventBus) *GrantService {
	return &GrantService{validator: validator, repo: repo, enforcer: enforcer, bus: bus}
}

type CreateGrantResult struct {
	Grant   *grant.Grant
	Verdict grant.Verdict
}

// Create validates and persists a proposal. The actor role is checked
// against the grant.create policy before any validation runs.
func (s *GrantService) Create(ctx context.Context, actorRole string, p grant.Proposal) (*CreateGrantResult, error) {
	if err := s.authorize(ctx, actorRole, "grant", "create"); err != nil {
		return nil, err
	}
	verdict, err := s.validator.Validate(ctx, p)
	if err != nil {
		return nil, err
	}
	if !verdict.Valid {
		return &CreateGrantResult{Verdict: verdict}, nil
	}

	actor, err := composables.UsePrincipal(ctx)
	if err != nil {
		actor = "system"
	}
	created, err := s.repo.Create(ctx, &grant.Grant{
		RoleCode:      p.RoleCode,
		UserID:        p.UserID,
		Username:      p.Username,
		SecurityLevel: p.SecurityLevel,
		DatasetIDs:    p.DatasetIDs,
		Operations:    dedupOperations(p.Operations),
		ScopeOrgID:    p.ScopeOrgID,
		GrantedBy:     actor,
		GrantedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(events.GrantCreated{Grant: created, Actor: actor, At: created.GrantedAt})
	}
	return &CreateGrantResult{Grant: created, Verdict: verdict}, nil
}

// Revoke deactivates a grant. Revoking an already revoked grant is a
// conflict, not a no-op.
func (s *GrantService) Revoke(ctx context.Context, actorRole string, id int64) error {
	if err := s.authorize(ctx, actorRole, "grant", "revoke"); err != nil {
		return err
	}
	g, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return newServiceError(404, "GRANT_NOT_FOUND", "grant not found", nil)
	}
	if !g.Active() {
		return newServiceError(409, "GRANT_ALREADY_REVOKED", "grant is already revoked", nil)
	}

	actor, err := composables.UsePrincipal(ctx)
	if err != nil {
		actor = "system"
	}
	ok, err := s.repo.Revoke(ctx, id, actor)
	if err != nil {
		return err
	}
	if !ok {
		return newServiceError(409, "GRANT_ALREADY_REVOKED", "grant is already revoked", nil)
	}

	if s.bus != nil {
		revoked, ferr := s.repo.Find(ctx, id)
		if ferr == nil && revoked != nil {
			s.bus.Publish(events.GrantRevoked{Grant: revoked, Actor: actor, At: time.Now().UTC()})
		}
	}
	return nil
}

func (s *GrantService) List(ctx context.Context, params grant.FindParams) ([]*grant.Grant, error) {
	return s.repo.List(ctx, params)
}

// dedupOperations drops repeated operations, keeping first-seen order.
func dedupOperations(ops []role.Operation) []role.Operation {
	out := make([]role.Operation, 0, len(ops))
	seen := make(map[role.Operation]bool, len(ops))
	for _, op := range ops {
		if seen[op] {
			continue
		}
		seen[op] = true
		out = append(out, op)
	}
	return out
}

func (s *GrantService) authorize(ctx context.Context, actorRole, object, action string) error {
	if s.enforcer == nil {
		return nil
	}
	if err := s.enforcer.Authorize(ctx, authz.NewRequest(actorRole, object, action)); err != nil {
		return newServiceError(403, "FORBIDDEN", "actor role may not perform this action", err)
	}
	return nil
}

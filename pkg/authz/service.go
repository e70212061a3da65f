// Package authz enforces which administrator roles may perform governance
// actions. The enforcement model is generic; callers seed the policy set.
package authz

import (
	"context"
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/sirupsen/logrus"
)

// rbacModel is the enforcement model: a plain subject/object/action RBAC
// matcher with role inheritance via g.
const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && (r.act == p.act || p.act == "*")
`

// Service provides helpers for enforcing authorization decisions.
type Service struct {
	enforcer *casbin.Enforcer
	logger   *logrus.Entry
	mu       sync.RWMutex
}

// NewService constructs a Service with an empty policy set.
func NewService(log *logrus.Logger) (*Service, error) {
	var logger *logrus.Entry
	if log != nil {
		logger = log.WithField("component", "authz")
	} else {
		logger = logrus.WithField("component", "authz")
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to parse model: %w", err)
	}
	enf, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}

	return &Service{enforcer: enf, logger: logger}, nil
}

// AddPolicy allows subject to perform action on object.
func (s *Service) AddPolicy(subject, object, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.enforcer.AddPolicy(subject, ObjectName(object), NormalizeAction(action)); err != nil {
		return fmt.Errorf("authz: failed to add policy: %w", err)
	}
	return nil
}

// AddGrouping registers subject as a member of role, so per-user subjects
// can be checked directly.
func (s *Service) AddGrouping(subject, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.enforcer.AddGroupingPolicy(subject, role); err != nil {
		return fmt.Errorf("authz: failed to add grouping: %w", err)
	}
	return nil
}

// Authorize returns an error if the request is denied.
func (s *Service) Authorize(ctx context.Context, req Request) error {
	allowed, err := s.Check(ctx, req)
	if err != nil {
		return err
	}
	if !allowed {
		s.logger.WithContext(ctx).WithFields(logrus.Fields{
			"subject": req.Subject,
			"object":  req.Object,
			"action":  req.Action,
		}).Warn("authz denied request")
		return forbiddenError(req)
	}
	return nil
}

// Check evaluates a request without returning an authorization error.
func (s *Service) Check(_ context.Context, req Request) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.enforcer.Enforce(req.Subject, req.Object, req.Action)
	if err != nil {
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	return res, nil
}

package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/governance/modules/governance/domain/audit"
	"github.com/iota-uz/governance/modules/governance/domain/events"
	"github.com/iota-uz/governance/pkg/authz"
	"github.com/iota-uz/governance/pkg/eventbus"
)

// AuditService records domain events into the append-only trail and serves
// filtered reads and exports over it.
type AuditService struct {
	repo     audit.Repository
	enforcer *authz.Service
	log      *logrus.Logger
}

func NewAuditService(repo audit.Repository, enforcer *authz.Service, log *logrus.Logger) *AuditService {
	return &AuditService{repo: repo, enforcer: enforcer, log: log}
}

// Register subscribes the trail to every published domain event.
func (s *AuditService) Register(bus eventbus.EventBus) {
	bus.Subscribe(s.onOrgMutated)
	bus.Subscribe(s.onGrantCreated)
	bus.Subscribe(s.onGrantRevoked)
	bus.Subscribe(s.onChangeRequestDecided)
	bus.Subscribe(s.onApprovalDecided)
	bus.Subscribe(s.onApprovalApplied)
}

func (s *AuditService) onOrgMutated(e events.OrgMutated) {
	detail := ""
	if e.Node != nil {
		detail = fmt.Sprintf("name=%s dataLevel=%s", e.Node.Name, e.Node.DataLevel)
	}
	targetID := ""
	if e.Node != nil {
		targetID = fmt.Sprintf("%d", e.Node.ID)
	}
	s.append(&audit.Event{
		OccurredAt: e.At,
		Actor:      e.Actor,
		Action:     "ORG_" + e.Action,
		TargetKind: "ORG_NODE",
		TargetID:   targetID,
		Detail:     detail,
	})
}

func (s *AuditService) onGrantCreated(e events.GrantCreated) {
	s.append(&audit.Event{
		OccurredAt: e.At,
		Actor:      e.Actor,
		Action:     "GRANT_CREATED",
		TargetKind: "GRANT",
		TargetID:   fmt.Sprintf("%d", e.Grant.ID),
		Detail:     fmt.Sprintf("role=%s user=%s datasets=%s", e.Grant.RoleCode, e.Grant.Username, strings.Join(e.Grant.DatasetIDs, ";")),
	})
}

func (s *AuditService) onGrantRevoked(e events.GrantRevoked) {
	s.append(&audit.Event{
		OccurredAt: e.At,
		Actor:      e.Actor,
		Action:     "GRANT_REVOKED",
		TargetKind: "GRANT",
		TargetID:   fmt.Sprintf("%d", e.Grant.ID),
		Detail:     fmt.Sprintf("role=%s user=%s", e.Grant.RoleCode, e.Grant.Username),
	})
}

func (s *AuditService) onChangeRequestDecided(e events.ChangeRequestDecided) {
	s.append(&audit.Event{
		OccurredAt: e.At,
		Actor:      e.Actor,
		Action:     "CHANGE_REQUEST_" + string(e.Request.Status),
		TargetKind: e.Request.TargetKind,
		TargetID:   fmt.Sprintf("%d", e.Request.ID),
		Detail:     string(e.Request.Action),
	})
}

func (s *AuditService) onApprovalDecided(e events.ApprovalDecided) {
	s.append(&audit.Event{
		OccurredAt: e.At,
		Actor:      e.Actor,
		Action:     "APPROVAL_" + e.Status,
		TargetKind: "APPROVAL",
		TargetID:   fmt.Sprintf("%d", e.RequestID),
	})
}

func (s *AuditService) onApprovalApplied(e events.ApprovalApplied) {
	s.append(&audit.Event{
		OccurredAt: e.At,
		Actor:      "system",
		Action:     "APPROVAL_" + e.Status,
		TargetKind: "APPROVAL",
		TargetID:   fmt.Sprintf("%d", e.RequestID),
		Detail:     e.Error,
	})
}

func (s *AuditService) append(e *audit.Event) {
	if _, err := s.repo.Append(context.Background(), e); err != nil && s.log != nil {
		s.log.WithError(err).WithField("action", e.Action).Error("audit append failed")
	}
}

func (s *AuditService) List(ctx context.Context, actorRole string, params audit.FindParams) ([]*audit.Event, error) {
	if err := s.authorize(ctx, actorRole, "audit", "read"); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, params)
}

var csvHeader = []string{"id", "occurred_at", "actor", "action", "target_kind", "target_id", "detail"}

// ExportCSV renders matching events as CSV with a header row. Field
// quoting follows encoding/csv.
func (s *AuditService) ExportCSV(ctx context.Context, actorRole string, params audit.FindParams) ([]byte, error) {
	if err := s.authorize(ctx, actorRole, "audit", "export"); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, e := range items {
		record := []string{
			fmt.Sprintf("%d", e.ID),
			e.OccurredAt.UTC().Format(time.RFC3339),
			e.Actor,
			e.Action,
			e.TargetKind,
			e.TargetID,
			e.Detail,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *AuditService) ExportJSON(ctx context.Context, actorRole string, params audit.FindParams) ([]byte, error) {
	if err := s.authorize(ctx, actorRole, "audit", "export"); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(items)
}

func (s *AuditService) authorize(ctx context.Context, actorRole, object, action string) error {
	if s.enforcer == nil {
		return nil
	}
	if err := s.enforcer.Authorize(ctx, authz.NewRequest(actorRole, object, action)); err != nil {
		return newServiceError(403, "FORBIDDEN", "actor role may not perform this action", err)
	}
	return nil
}

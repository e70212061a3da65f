package services

import (
	"context"
	"strings"
	"time"

	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/domain/events"
	"github.com/iota-uz/governance/modules/governance/domain/org"
	"github.com/iota-uz/governance/pkg/eventbus"
)

// OrgService maintains the organization hierarchy. Node sensitivity is
// derived state: it always equals the node's data level, on create and on
// every update.
type OrgService struct {
	repo org.Repository
	bus  eventbus.EventBus
}

func NewOrgService(repo org.Repository, bus eventbus.EventBus) *OrgService {
	return &OrgService{repo: repo, bus: bus}
}

func (s *OrgService) Tree(ctx context.Context) ([]*org.Node, error) {
	return s.repo.Roots(ctx)
}

func (s *OrgService) GetNode(ctx context.Context, id int64) (*org.Node, error) {
	node, err := s.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, newServiceError(404, "ORG_NOT_FOUND", "organization node not found", nil)
	}
	return node, nil
}

type CreateNodeInput struct {
	Name        string
	DataLevel   classification.DataSensitivityLevel
	ParentID    *int64
	Contact     string
	Phone       string
	Description string
}

func (s *OrgService) CreateNode(ctx context.Context, actor string, in CreateNodeInput) (*org.Node, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, newServiceError(400, "ORG_EMPTY_NAME", "name is required", nil)
	}
	if in.DataLevel == "" {
		return nil, newServiceError(400, "ORG_MISSING_LEVEL", "dataLevel is required", nil)
	}
	if !in.DataLevel.Valid() {
		return nil, newServiceError(400, "ORG_INVALID_LEVEL", "unknown dataLevel: "+string(in.DataLevel), nil)
	}

	node := &org.Node{
		Name:        in.Name,
		DataLevel:   in.DataLevel,
		Sensitivity: in.DataLevel,
		Contact:     strings.TrimSpace(in.Contact),
		Phone:       strings.TrimSpace(in.Phone),
		Description: strings.TrimSpace(in.Description),
		ParentID:    in.ParentID,
	}
	ok, err := s.repo.Insert(ctx, in.ParentID, node)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, newServiceError(404, "ORG_PARENT_NOT_FOUND", "parent node not found", nil)
	}

	s.publish(events.OrgMutated{Action: "CREATE", Node: node, Actor: actor, At: time.Now().UTC()})
	return node, nil
}

type UpdateNodeInput struct {
	Name        *string
	DataLevel   *classification.DataSensitivityLevel
	Contact     *string
	Phone       *string
	Description *string
}

func (s *OrgService) UpdateNode(ctx context.Context, actor string, id int64, in UpdateNodeInput) (*org.Node, error) {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, newServiceError(400, "ORG_EMPTY_NAME", "name must not be blank", nil)
		}
		in.Name = &trimmed
	}
	if in.DataLevel != nil && !in.DataLevel.Valid() {
		return nil, newServiceError(400, "ORG_INVALID_LEVEL", "unknown dataLevel: "+string(*in.DataLevel), nil)
	}

	patch := org.Patch{
		Name:      in.Name,
		DataLevel: in.DataLevel,
	}
	if in.Contact != nil {
		trimmed := strings.TrimSpace(*in.Contact)
		patch.Contact = &trimmed
	}
	if in.Phone != nil {
		trimmed := strings.TrimSpace(*in.Phone)
		patch.Phone = &trimmed
	}
	if in.Description != nil {
		trimmed := strings.TrimSpace(*in.Description)
		patch.Description = &trimmed
	}

	node, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, newServiceError(404, "ORG_NOT_FOUND", "organization node not found", nil)
	}

	s.publish(events.OrgMutated{Action: "UPDATE", Node: node, Actor: actor, At: time.Now().UTC()})
	return node, nil
}

// DeleteNode removes the node together with its whole subtree.
func (s *OrgService) DeleteNode(ctx context.Context, actor string, id int64) error {
	node, err := s.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	if node == nil {
		return newServiceError(404, "ORG_NOT_FOUND", "organization node not found", nil)
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return newServiceError(404, "ORG_NOT_FOUND", "organization node not found", nil)
	}

	s.publish(events.OrgMutated{Action: "DELETE", Node: node, Actor: actor, At: time.Now().UTC()})
	return nil
}

func (s *OrgService) publish(event interface{}) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}

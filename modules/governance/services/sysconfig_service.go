package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/iota-uz/governance/modules/governance/domain/changerequest"
	"github.com/iota-uz/governance/modules/governance/domain/sysconfig"
	"github.com/iota-uz/governance/pkg/authz"
)

const configTargetKind = "CONFIG"

// SystemConfigService exposes operator-tunable settings. Values never
// change directly: Propose files a pending change request whose
// materialization performs the write.
type SystemConfigService struct {
	repo     sysconfig.Repository
	crs      *ChangeRequestService
	enforcer *authz.Service
}

func NewSystemConfigService(repo sysconfig.Repository, crs *ChangeRequestService, enforcer *authz.Service) *SystemConfigService {
	s := &SystemConfigService{repo: repo, crs: crs, enforcer: enforcer}
	if crs != nil {
		crs.RegisterApplier(configTargetKind, s.applyConfigSet)
	}
	return s
}

type configSetPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Propose files a pending CONFIG_SET change request for one setting.
func (s *SystemConfigService) Propose(ctx context.Context, actorRole, key, value string) (*changerequest.ChangeRequest, error) {
	if s.enforcer != nil {
		if err := s.enforcer.Authorize(ctx, authz.NewRequest(actorRole, "sysconfig", "propose")); err != nil {
			return nil, newServiceError(403, "FORBIDDEN", "actor role may not perform this action", err)
		}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, newServiceError(400, "CONFIG_KEY_REQUIRED", "setting key is required", nil)
	}

	payload, err := json.Marshal(configSetPayload{Key: key, Value: value})
	if err != nil {
		return nil, err
	}
	return s.crs.Create(ctx, CreateChangeRequestInput{
		TargetKind: configTargetKind,
		TargetID:   key,
		Action:     changerequest.ActionConfigSet,
		Payload:    payload,
		Submit:     true,
	})
}

func (s *SystemConfigService) applyConfigSet(ctx context.Context, cr *changerequest.ChangeRequest) error {
	var payload configSetPayload
	if err := json.Unmarshal(cr.Payload, &payload); err != nil {
		return newServiceError(422, "CHANGE_REQUEST_BAD_PAYLOAD", "malformed config payload", err)
	}
	return s.repo.Set(ctx, payload.Key, payload.Value)
}

func (s *SystemConfigService) Get(ctx context.Context, key string) (*sysconfig.Setting, error) {
	setting, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, newServiceError(404, "CONFIG_NOT_FOUND", "setting not found", nil)
	}
	return setting, nil
}

func (s *SystemConfigService) List(ctx context.Context) ([]*sysconfig.Setting, error) {
	return s.repo.List(ctx)
}

// Package governance wires the governance domain together: repositories,
// policy enforcement, the change-request and approval workflows, and the
// audit trail fed from the event bus.
package governance

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/governance/modules/governance/domain/approval"
	"github.com/iota-uz/governance/modules/governance/domain/audit"
	"github.com/iota-uz/governance/modules/governance/domain/changerequest"
	"github.com/iota-uz/governance/modules/governance/domain/dataset"
	"github.com/iota-uz/governance/modules/governance/domain/grant"
	"github.com/iota-uz/governance/modules/governance/domain/org"
	"github.com/iota-uz/governance/modules/governance/domain/portalmenu"
	"github.com/iota-uz/governance/modules/governance/domain/role"
	"github.com/iota-uz/governance/modules/governance/domain/sysconfig"
	"github.com/iota-uz/governance/modules/governance/permissions"
	"github.com/iota-uz/governance/modules/governance/services"
	"github.com/iota-uz/governance/pkg/authz"
	"github.com/iota-uz/governance/pkg/eventbus"
)

// Repositories collects every persistence port the module needs.
type Repositories struct {
	Org            org.Repository
	CustomRoles    role.CustomRoleRepository
	Datasets       dataset.Repository
	Grants         grant.Repository
	ChangeRequests changerequest.Repository
	Approvals      approval.Repository
	PortalMenus    portalmenu.Repository
	Audit          audit.Repository
	SysConfig      sysconfig.Repository
}

type Options struct {
	Repos       Repositories
	Provider    approval.IdentityProvider
	EventBus    eventbus.EventBus
	Logger      *logrus.Logger
	SyncTimeout time.Duration
}

// Module bundles the constructed services.
type Module struct {
	Org            *services.OrgService
	Roles          *services.RoleCatalog
	Validator      *services.PolicyValidator
	Grants         *services.GrantService
	ChangeRequests *services.ChangeRequestService
	Approvals      *services.ApprovalService
	MenuBindings   *services.MenuBindingService
	Audit          *services.AuditService
	SysConfig      *services.SystemConfigService
	Enforcer       *authz.Service
}

// rolePermissions encodes the administrator separation of duties. The
// authorization administrator decides; the operations administrator
// applies; the audit administrator observes; the system administrator
// tunes configuration.
var rolePermissions = map[string][]*permissions.Permission{
	role.AuthAdmin: {
		permissions.GrantCreate,
		permissions.GrantRevoke,
		permissions.ChangeRequestDecide,
		permissions.ApprovalDecide,
	},
	role.OpAdmin: {
		permissions.ChangeRequestMaterialize,
		permissions.ApprovalProcess,
	},
	role.AuditAdmin: {
		permissions.AuditRead,
		permissions.AuditExport,
	},
	role.SysAdmin: {
		permissions.SysConfigPropose,
		permissions.AuditRead,
	},
}

// New builds the module. The audit service is subscribed to the bus so
// every published domain event lands in the trail.
func New(opts Options) (*Module, error) {
	enforcer, err := authz.NewService(opts.Logger)
	if err != nil {
		return nil, err
	}
	for roleCode, perms := range rolePermissions {
		for _, p := range perms {
			if err := enforcer.AddPolicy(roleCode, string(p.Resource), string(p.Action)); err != nil {
				return nil, err
			}
		}
	}

	catalog := services.NewRoleCatalog(opts.Repos.CustomRoles)
	validator := services.NewPolicyValidator(catalog, opts.Repos.Datasets)
	crs := services.NewChangeRequestService(opts.Repos.ChangeRequests, enforcer, opts.EventBus)

	m := &Module{
		Org:            services.NewOrgService(opts.Repos.Org, opts.EventBus),
		Roles:          catalog,
		Validator:      validator,
		Grants:         services.NewGrantService(validator, opts.Repos.Grants, enforcer, opts.EventBus),
		ChangeRequests: crs,
		Approvals: services.NewApprovalService(
			opts.Repos.Approvals, opts.Provider, enforcer, opts.EventBus, opts.SyncTimeout,
		),
		MenuBindings: services.NewMenuBindingService(opts.Repos.PortalMenus, crs),
		Audit:        services.NewAuditService(opts.Repos.Audit, enforcer, opts.Logger),
		SysConfig:    services.NewSystemConfigService(opts.Repos.SysConfig, crs, enforcer),
		Enforcer:     enforcer,
	}
	if opts.EventBus != nil {
		m.Audit.Register(opts.EventBus)
	}
	return m, nil
}

package permissions

import "github.com/google/uuid"

type Resource string

type Action string

const (
	ResourceOrg           Resource = "org"
	ResourceGrant         Resource = "grant"
	ResourceChangeRequest Resource = "changerequest"
	ResourceApproval      Resource = "approval"
	ResourceMenu          Resource = "menu"
	ResourceAudit         Resource = "audit"
	ResourceSysConfig     Resource = "sysconfig"
)

const (
	ActionCreate      Action = "create"
	ActionRead        Action = "read"
	ActionDecide      Action = "decide"
	ActionRevoke      Action = "revoke"
	ActionProcess     Action = "process"
	ActionMaterialize Action = "materialize"
	ActionPropose     Action = "propose"
	ActionExport      Action = "export"
)

type Permission struct {
	ID       uuid.UUID
	Name     string
	Resource Resource
	Action   Action
}

var (
	GrantCreate = &Permission{
		ID:       uuid.MustParse("5b6fe0f7-8c3b-4a3a-9d52-2a3fb6f0c811"),
		Name:     "Grant.Create",
		Resource: ResourceGrant,
		Action:   ActionCreate,
	}
	GrantRevoke = &Permission{
		ID:       uuid.MustParse("93dc7f0e-40da-4b58-b9ad-64d6a4f3c2f0"),
		Name:     "Grant.Revoke",
		Resource: ResourceGrant,
		Action:   ActionRevoke,
	}
	ChangeRequestDecide = &Permission{
		ID:       uuid.MustParse("0c6f04f3-2b0e-4e14-8e5e-b7f28e5df6a1"),
		Name:     "ChangeRequest.Decide",
		Resource: ResourceChangeRequest,
		Action:   ActionDecide,
	}
	ChangeRequestMaterialize = &Permission{
		ID:       uuid.MustParse("7f1a8a64-5a4e-4c2e-9a0f-1d2c3b4a5e6f"),
		Name:     "ChangeRequest.Materialize",
		Resource: ResourceChangeRequest,
		Action:   ActionMaterialize,
	}
	ApprovalDecide = &Permission{
		ID:       uuid.MustParse("c1d2e3f4-a5b6-4c7d-8e9f-0a1b2c3d4e5f"),
		Name:     "Approval.Decide",
		Resource: ResourceApproval,
		Action:   ActionDecide,
	}
	ApprovalProcess = &Permission{
		ID:       uuid.MustParse("e7a9c8b1-6d5f-4e3a-b2c1-9f8e7d6c5b4a"),
		Name:     "Approval.Process",
		Resource: ResourceApproval,
		Action:   ActionProcess,
	}
	AuditRead = &Permission{
		ID:       uuid.MustParse("4b5c6d7e-8f90-4a1b-b2c3-d4e5f6a7b8c9"),
		Name:     "Audit.Read",
		Resource: ResourceAudit,
		Action:   ActionRead,
	}
	AuditExport = &Permission{
		ID:       uuid.MustParse("2f3e4d5c-6b7a-4899-a0b1-c2d3e4f5a6b7"),
		Name:     "Audit.Export",
		Resource: ResourceAudit,
		Action:   ActionExport,
	}
	SysConfigPropose = &Permission{
		ID:       uuid.MustParse("8a7b6c5d-4e3f-4a1b-9c8d-7e6f5a4b3c2d"),
		Name:     "SysConfig.Propose",
		Resource: ResourceSysConfig,
		Action:   ActionPropose,
	}
)

var Permissions = []*Permission{
	GrantCreate,
	GrantRevoke,
	ChangeRequestDecide,
	ChangeRequestMaterialize,
	ApprovalDecide,
	ApprovalProcess,
	AuditRead,
	AuditExport,
	SysConfigPropose,
}

package models

import "time"

type OrgNode struct {
	ID          int64
	Name        string
	DataLevel   string
	Sensitivity string
	Contact     string
	Phone       string
	Description string
	ParentID    *int64
}

type CustomRole struct {
	ID                   int64
	Name                 string
	Operations           []string
	MaxDataLevel         string
	Scope                string
	MaxRows              *int
	AllowDesensitizeJSON bool
	Description          string
}

type Dataset struct {
	ID                string
	BusinessCode      string
	Name              string
	DataLevel         string
	OwnerOrgID        int64
	IsInstituteShared bool
}

type Grant struct {
	ID            int64
	RoleCode      string
	UserID        string
	Username      string
	SecurityLevel string
	DatasetIDs    []string
	Operations    []string
	ScopeOrgID    *int64
	GrantedBy     string
	GrantedAt     time.Time
	RevokedAt     *time.Time
	RevokedBy     *string
}

type ChangeRequest struct {
	ID             int64
	TargetKind     string
	TargetID       string
	Action         string
	Payload        []byte
	DiffJSON       []byte
	Status         string
	Reason         *string
	RequestedBy    string
	RequestedAt    time.Time
	DecidedBy      *string
	DecidedAt      *time.Time
	MaterializedAt *time.Time
}

type ApprovalRequest struct {
	ID           int64
	Type         string
	Requester    string
	Status       string
	Reason       string
	ErrorMessage string
	CreatedAt    time.Time
	DecidedBy    *string
	DecidedAt    *time.Time
}

type ApprovalItem struct {
	RequestID  int64
	TargetKind string
	TargetID   string
	SeqNumber  int
	Payload    []byte
}

type PortalMenu struct {
	ID        string
	Name      string
	Path      string
	SortOrder int
	Deleted   bool
	Bindings  []string
}

type AuditEvent struct {
	ID         int64
	OccurredAt time.Time
	Actor      string
	Action     string
	TargetKind string
	TargetID   string
	Detail     string
}

// Package grant models access grants: a proposed assignment of a role to a
// user over a set of datasets, the validation verdict on that proposal, and
// the persisted grant that an accepted proposal becomes.
package grant

import (
	"time"

	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/domain/role"
)

// Rejection codes produced by the policy validator, in evaluation order.
const (
	CodeRoleRequired           = "ROLE_REQUIRED"
	CodeUserRequired           = "USER_REQUIRED"
	CodeDatasetsRequired       = "DATASETS_REQUIRED"
	CodeOperationsRequired     = "OPERATIONS_REQUIRED"
	CodeOperationsNotAllowed   = "OPERATIONS_NOT_ALLOWED"
	CodeInvalidSecurityLevel   = "INVALID_SECURITY_LEVEL"
	CodeDepartmentScopeNeeded  = "DEPARTMENT_SCOPE_REQUIRED"
	CodeInstituteScopeInvalid  = "INSTITUTE_SCOPE_FORBIDDEN"
	CodeUnknownDataset         = "UNKNOWN_DATASET"
	CodeInsufficientClearance  = "INSUFFICIENT_CLEARANCE"
	CodeDatasetNotShared       = "DATASET_NOT_SHARED"
	CodeDatasetNotInScope      = "DATASET_NOT_IN_SCOPE"
)

// Proposal is a candidate grant as submitted for validation. ScopeOrgID is
// required for department-scoped roles and must be absent for
// institute-scoped ones.
type Proposal struct {
	RoleCode      string
	UserID        string
	Username      string
	SecurityLevel classification.PersonnelSecurityLevel
	DatasetIDs    []string
	Operations    []role.Operation
	ScopeOrgID    *int64
}

// Rejection is one validation failure. Details carries the offending values
// when the check concerns a list (operations, datasets).
type Rejection struct {
	Code    string
	Message string
	Details []string
}

// Verdict is the full validation outcome; Valid is true iff Rejections is
// empty.
type Verdict struct {
	Valid      bool
	Rejections []Rejection
}

// Grant is a persisted, accepted assignment.
type Grant struct {
	ID            int64
	RoleCode      string
	UserID        string
	Username      string
	SecurityLevel classification.PersonnelSecurityLevel
	DatasetIDs    []string
	Operations    []role.Operation
	ScopeOrgID    *int64
	GrantedBy     string
	GrantedAt     time.Time
	RevokedAt     *time.Time
	RevokedBy     string
}

func (g *Grant) Active() bool {
	return g.RevokedAt == nil
}

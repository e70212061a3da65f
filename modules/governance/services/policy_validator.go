package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/iota-uz/governance/modules/governance/domain/dataset"
	"github.com/iota-uz/governance/modules/governance/domain/grant"
	"github.com/iota-uz/governance/modules/governance/domain/role"
)

// PolicyValidator evaluates grant proposals against the role catalog, the
// dataset registry and the classification algebra. It never mutates state;
// every check that fails adds a rejection, and checks that depend on a
// failed prerequisite are skipped rather than reported twice.
type PolicyValidator struct {
	catalog  *RoleCatalog
	datasets dataset.Repository
}

func NewPolicyValidator(catalog *RoleCatalog, datasets dataset.Repository) *PolicyValidator {
	return &PolicyValidator{catalog: catalog, datasets: datasets}
}

// Validate returns the full verdict for a proposal. The error return is for
// infrastructure failures only; policy failures land in the verdict.
func (v *PolicyValidator) Validate(ctx context.Context, p grant.Proposal) (grant.Verdict, error) {
	var rejections []grant.Rejection
	reject := func(code, message string, details ...string) {
		rejections = append(rejections, grant.Rejection{Code: code, Message: message, Details: details})
	}

	roleCode := strings.TrimSpace(p.RoleCode)
	var resolved *ResolvedRole
	if roleCode == "" {
		reject(grant.CodeRoleRequired, "a role must be selected")
	} else {
		var err error
		resolved, err = v.catalog.Resolve(ctx, roleCode)
		if err != nil {
			return grant.Verdict{}, err
		}
	}

	if strings.TrimSpace(p.UserID) == "" || strings.TrimSpace(p.Username) == "" {
		reject(grant.CodeUserRequired, "a target user must be selected")
	}

	if len(p.DatasetIDs) == 0 {
		reject(grant.CodeDatasetsRequired, "at least one dataset must be selected")
	}
	if len(p.Operations) == 0 {
		reject(grant.CodeOperationsRequired, "at least one operation must be selected")
	} else if resolved != nil {
		allowed := make(map[role.Operation]bool, len(resolved.Operations))
		for _, op := range resolved.Operations {
			allowed[op] = true
		}
		var offenders []string
		for _, op := range p.Operations {
			if !allowed[op] {
				offenders = append(offenders, string(op))
			}
		}
		if len(offenders) > 0 {
			reject(grant.CodeOperationsNotAllowed,
				fmt.Sprintf("role %s does not permit: %s", resolved.Code, strings.Join(offenders, ", ")),
				offenders...)
		}
	}

	if !p.SecurityLevel.Valid() {
		reject(grant.CodeInvalidSecurityLevel, "unknown security level: "+string(p.SecurityLevel))
	}

	if resolved != nil && resolved.Scope != nil {
		switch *resolved.Scope {
		case role.ScopeDepartment:
			if p.ScopeOrgID == nil {
				reject(grant.CodeDepartmentScopeNeeded, "department-scoped roles require a scope organization")
			}
		case role.ScopeInstitute:
			if p.ScopeOrgID != nil {
				reject(grant.CodeInstituteScopeInvalid, "institute-scoped roles must not carry a scope organization")
			}
		}
	}

	// Every id must resolve before any per-dataset check runs, so an
	// unknown id is always the first dataset-level rejection.
	found := make([]*dataset.Dataset, 0, len(p.DatasetIDs))
	for _, id := range p.DatasetIDs {
		ds, err := v.datasets.Find(ctx, id)
		if err != nil {
			return grant.Verdict{}, err
		}
		if ds == nil {
			reject(grant.CodeUnknownDataset, "unknown dataset: "+id, id)
			continue
		}
		found = append(found, ds)
	}

	for _, ds := range found {
		if p.SecurityLevel.Valid() && p.SecurityLevel.Rank() < ds.DataLevel.Rank() {
			reject(grant.CodeInsufficientClearance,
				fmt.Sprintf("dataset %s is %s but user clearance is %s", ds.BusinessCode, ds.DataLevel, p.SecurityLevel),
				ds.BusinessCode)
		}
		if resolved != nil && resolved.MaxDataLevel != nil && ds.DataLevel.Rank() > resolved.MaxDataLevel.Rank() {
			reject(grant.CodeInsufficientClearance,
				fmt.Sprintf("dataset %s is %s but role %s caps at %s", ds.BusinessCode, ds.DataLevel, resolved.Code, *resolved.MaxDataLevel),
				ds.BusinessCode)
		}

		if p.ScopeOrgID == nil {
			if !ds.IsInstituteShared {
				reject(grant.CodeDatasetNotShared,
					fmt.Sprintf("dataset %s is not shared institute-wide", ds.BusinessCode),
					ds.BusinessCode)
			}
		} else if ds.OwnerOrgID != *p.ScopeOrgID {
			reject(grant.CodeDatasetNotInScope,
				fmt.Sprintf("dataset %s is owned outside the scope organization", ds.BusinessCode),
				ds.BusinessCode)
		}
	}

	return grant.Verdict{Valid: len(rejections) == 0, Rejections: rejections}, nil
}

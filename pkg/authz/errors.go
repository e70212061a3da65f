package authz

import (
	"fmt"

	"github.com/iota-uz/governance/pkg/serrors"
)

const errorCodeForbidden = "AUTHZ_FORBIDDEN"

// forbiddenError builds a standardized error for denied policies.
func forbiddenError(req Request) *serrors.BaseError {
	return serrors.NewError(
		errorCodeForbidden,
		"permission denied",
		fmt.Sprintf("subject=%s object=%s action=%s", req.Subject, req.Object, req.Action),
	)
}

package org

import (
	"github.com/iota-uz/governance/modules/governance/domain/classification"
)

// Node is a department/unit in the institutional hierarchy. The node set
// forms a forest: every non-root id appears in exactly one parent's Children
// list, which is owned exclusively by that parent.
//
// Sensitivity mirrors DataLevel and is overwritten on every mutation; the
// two are never independently settable.
type Node struct {
	ID          int64                               `json:"id"`
	Name        string                              `json:"name"`
	DataLevel   classification.DataSensitivityLevel `json:"dataLevel"`
	Sensitivity classification.DataSensitivityLevel `json:"sensitivity"`
	Contact     string                              `json:"contact,omitempty"`
	Phone       string                              `json:"phone,omitempty"`
	Description string                              `json:"description,omitempty"`
	ParentID    *int64                              `json:"parentId"`
	Children    []*Node                             `json:"children,omitempty"`
}

// Patch carries a partial update; nil fields are no-ops. When DataLevel is
// set, Sensitivity is force-synced to it regardless of what the caller put
// there.
type Patch struct {
	Name        *string
	DataLevel   *classification.DataSensitivityLevel
	Contact     *string
	Phone       *string
	Description *string
}

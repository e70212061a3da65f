// Package events holds the payload types published on the event bus after
// successful domain mutations. Subscribers (the audit trail among them)
// match on the concrete struct type.
package events

import (
	"time"

	"github.com/iota-uz/governance/modules/governance/domain/changerequest"
	"github.com/iota-uz/governance/modules/governance/domain/grant"
	"github.com/iota-uz/governance/modules/governance/domain/org"
)

type OrgMutated struct {
	Action string
	Node   *org.Node
	Actor  string
	At     time.Time
}

type GrantCreated struct {
	Grant *grant.Grant
	Actor string
	At    time.Time
}

type GrantRevoked struct {
	Grant *grant.Grant
	Actor string
	At    time.Time
}

type ChangeRequestDecided struct {
	Request *changerequest.ChangeRequest
	Actor   string
	At      time.Time
}

type ApprovalDecided struct {
	RequestID int64
	Status    string
	Actor     string
	At        time.Time
}

type ApprovalApplied struct {
	RequestID int64
	Status    string
	Error     string
	At        time.Time
}

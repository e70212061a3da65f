package authz

import "strings"

const defaultActionWildcard = "*"

// Request encapsulates all parameters required to evaluate a rule. Subject
// is a role code; Object a governed resource kind; Action the verb.
type Request struct {
	Subject string
	Object  string
	Action  string
}

// NewRequest constructs a Request with normalized object and action.
func NewRequest(subject, object, action string) Request {
	return Request{
		Subject: strings.TrimSpace(subject),
		Object:  ObjectName(object),
		Action:  NormalizeAction(action),
	}
}

// ObjectName returns the canonical lowercased resource name.
func ObjectName(resource string) string {
	resource = strings.ToLower(strings.TrimSpace(resource))
	if resource == "" {
		return "resource"
	}
	return resource
}

// NormalizeAction returns a normalized action string.
func NormalizeAction(action string) string {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		return defaultActionWildcard
	}
	return action
}

package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/governance/pkg/authz"
)

func newService(t *testing.T) *authz.Service {
	t.Helper()
	svc, err := authz.NewService(nil)
	require.NoError(t, err)
	return svc
}

func TestCheckAgainstSeededPolicies(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.AddPolicy("AUTHADMIN", "changerequest", "decide"))
	require.NoError(t, svc.AddPolicy("AUDITADMIN", "audit", "*"))
	ctx := context.Background()

	tests := []struct {
		subject string
		object  string
		action  string
		allowed bool
	}{
		{"AUTHADMIN", "changerequest", "decide", true},
		{"AUTHADMIN", "changerequest", "materialize", false},
		{"AUDITADMIN", "audit", "read", true},
		{"AUDITADMIN", "audit", "export", true},
		{"AUDITADMIN", "changerequest", "decide", false},
		{"DEPT_OWNER", "changerequest", "decide", false},
	}
	for _, tt := range tests {
		allowed, err := svc.Check(ctx, authz.NewRequest(tt.subject, tt.object, tt.action))
		require.NoError(t, err)
		assert.Equal(t, tt.allowed, allowed, "%s %s %s", tt.subject, tt.object, tt.action)
	}
}

func TestAuthorizeDenied(t *testing.T) {
	svc := newService(t)
	err := svc.Authorize(context.Background(), authz.NewRequest("DEPT_VIEWER", "audit", "export"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTHZ_FORBIDDEN")
}

func TestGroupingInheritsRolePolicies(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.AddPolicy("AUTHADMIN", "changerequest", "decide"))
	require.NoError(t, svc.AddGrouping("user:alice", "AUTHADMIN"))

	allowed, err := svc.Check(context.Background(), authz.NewRequest("user:alice", "changerequest", "decide"))
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRequestNormalization(t *testing.T) {
	req := authz.NewRequest(" AUTHADMIN ", " ChangeRequest ", " DECIDE ")
	assert.Equal(t, "AUTHADMIN", req.Subject)
	assert.Equal(t, "changerequest", req.Object)
	assert.Equal(t, "decide", req.Action)
}

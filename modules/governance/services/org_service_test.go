package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/governance/modules/governance/domain/classification"
	"github.com/iota-uz/governance/modules/governance/infrastructure/inmemory"
	"github.com/iota-uz/governance/modules/governance/services"
)

func newOrgService() (*services.OrgService, *inmemory.OrgRepository) {
	repo := inmemory.NewOrgRepository()
	return services.NewOrgService(repo, nil), repo
}

func TestCreateNodeValidation(t *testing.T) {
	svc, _ := newOrgService()
	ctx := context.Background()

	_, err := svc.CreateNode(ctx, "alice", services.CreateNodeInput{Name: "   ", DataLevel: classification.Internal})
	requireServiceCode(t, err, "ORG_EMPTY_NAME")

	_, err = svc.CreateNode(ctx, "alice", services.CreateNodeInput{Name: "Research"})
	requireServiceCode(t, err, "ORG_MISSING_LEVEL")

	_, err = svc.CreateNode(ctx, "alice", services.CreateNodeInput{Name: "Research", DataLevel: "ULTRA"})
	requireServiceCode(t, err, "ORG_INVALID_LEVEL")
}

func TestCreateNodeSyncsSensitivity(t *testing.T) {
	svc, _ := newOrgService()
	ctx := context.Background()

	node, err := svc.CreateNode(ctx, "alice", services.CreateNodeInput{
		Name:      "  Research  ",
		DataLevel: classification.Secret,
		Contact:   " Dr. Wu ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Research", node.Name)
	assert.Equal(t, classification.Secret, node.DataLevel)
	assert.Equal(t, classification.Secret, node.Sensitivity)
	assert.Equal(t, "Dr. Wu", node.Contact)
	assert.Positive(t, node.ID)
}

func TestCreateNodeUnderMissingParent(t *testing.T) {
	svc, _ := newOrgService()
	missing := int64(999)

	_, err := svc.CreateNode(context.Background(), "alice", services.CreateNodeInput{
		Name:      "Lab",
		DataLevel: classification.Internal,
		ParentID:  &missing,
	})
	requireServiceCode(t, err, "ORG_PARENT_NOT_FOUND")
}

func TestUpdateNodeResyncsSensitivity(t *testing.T) {
	svc, _ := newOrgService()
	ctx := context.Background()

	node, err := svc.CreateNode(ctx, "alice", services.CreateNodeInput{Name: "Research", DataLevel: classification.Internal})
	require.NoError(t, err)

	level := classification.TopSecret
	updated, err := svc.UpdateNode(ctx, "alice", node.ID, services.UpdateNodeInput{DataLevel: &level})
	require.NoError(t, err)
	assert.Equal(t, classification.TopSecret, updated.DataLevel)
	assert.Equal(t, classification.TopSecret, updated.Sensitivity)
}

func TestUpdateNodeBlankNameRejected(t *testing.T) {
	svc, _ := newOrgService()
	ctx := context.Background()

	node, err := svc.CreateNode(ctx, "alice", services.CreateNodeInput{Name: "Research", DataLevel: classification.Internal})
	require.NoError(t, err)

	blank := "   "
	_, err = svc.UpdateNode(ctx, "alice", node.ID, services.UpdateNodeInput{Name: &blank})
	requireServiceCode(t, err, "ORG_EMPTY_NAME")
}

func TestDeleteNodeRemovesSubtree(t *testing.T) {
	svc, _ := newOrgService()
	ctx := context.Background()

	root, err := svc.CreateNode(ctx, "alice", services.CreateNodeInput{Name: "Institute", DataLevel: classification.Internal})
	require.NoError(t, err)
	dept, err := svc.CreateNode(ctx, "alice", services.CreateNodeInput{Name: "Dept", DataLevel: classification.Internal, ParentID: &root.ID})
	require.NoError(t, err)
	leaf, err := svc.CreateNode(ctx, "alice", services.CreateNodeInput{Name: "Lab", DataLevel: classification.Internal, ParentID: &dept.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNode(ctx, "alice", dept.ID))

	_, err = svc.GetNode(ctx, dept.ID)
	requireServiceCode(t, err, "ORG_NOT_FOUND")
	_, err = svc.GetNode(ctx, leaf.ID)
	requireServiceCode(t, err, "ORG_NOT_FOUND")

	roots, err := svc.Tree(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Nil(t, roots[0].Children, "emptied children list must be dropped")
}

func TestDeleteMissingNode(t *testing.T) {
	svc, _ := newOrgService()
	err := svc.DeleteNode(context.Background(), "alice", 42)
	requireServiceCode(t, err, "ORG_NOT_FOUND")
}

func requireServiceCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var svcErr *services.ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, code, svcErr.Code)
}

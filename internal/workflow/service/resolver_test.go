package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// MockRoleDirectory is a mock implementation of RoleDirectory
type MockRoleDirectory struct {
	mock.Mock
}

func (m *MockRoleDirectory) MembersOfRole(ctx context.Context, orgID, role string) ([]string, error) {
	args := m.Called(ctx, orgID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestApproverResolver_EligibleApprovers(t *testing.T) {
	ctx := context.Background()
	directory := new(MockRoleDirectory)
	directory.On("MembersOfRole", ctx, "org-1", "finance").Return([]string{"dave", "bob"}, nil)
	directory.On("MembersOfRole", ctx, "org-1", "legal").Return([]string{}, nil)

	resolver := NewApproverResolver(directory)
	step := model.StepDefinition{
		Index:  0,
		Policy: anyOf(),
		Approvers: []model.ApproverSpec{
			{Kind: model.ApproverKindUser, UserID: "bob"},
			{Kind: model.ApproverKindRole, Role: "finance"},
			{Kind: model.ApproverKindRole, Role: "legal"},
			{Kind: model.ApproverKindUser, UserID: "alice"},
		},
	}

	eligible, err := resolver.EligibleApprovers(ctx, step, "org-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "dave"}, eligible)
	directory.AssertExpectations(t)
}

func TestApproverResolver_EmptyRole(t *testing.T) {
	ctx := context.Background()
	directory := new(MockRoleDirectory)
	directory.On("MembersOfRole", ctx, "org-1", "auditors").Return([]string{}, nil)

	eligible, err := NewApproverResolver(directory).EligibleApprovers(ctx, model.StepDefinition{
		Approvers: []model.ApproverSpec{{Kind: model.ApproverKindRole, Role: "auditors"}},
	}, "org-1")

	require.NoError(t, err)
	assert.NotNil(t, eligible)
	assert.Empty(t, eligible)
}

func TestApproverResolver_DirectoryFailure(t *testing.T) {
	ctx := context.Background()
	directory := new(MockRoleDirectory)
	directory.On("MembersOfRole", ctx, "org-1", "finance").Return(nil, errors.New("directory offline"))

	_, err := NewApproverResolver(directory).Resolve(ctx, model.ApproverSpec{Kind: model.ApproverKindRole, Role: "finance"}, "org-1")

	var storageErr *model.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, "resolve role finance", storageErr.Op)
}

func TestApproverResolver_DirectoryTypedErrorPassesThrough(t *testing.T) {
	ctx := context.Background()
	directory := new(MockRoleDirectory)
	directory.On("MembersOfRole", ctx, "", "finance").Return(nil, model.NewValidationError("role", "org ID and role are required"))

	_, err := NewApproverResolver(directory).Resolve(ctx, model.ApproverSpec{Kind: model.ApproverKindRole, Role: "finance"}, "")

	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	var storageErr *model.StorageError
	assert.False(t, errors.As(err, &storageErr))
	assert.Equal(t, "VALIDATION_ERROR", model.CodeOf(err))
}

func TestApproverResolver_UserSpecSkipsDirectory(t *testing.T) {
	resolver := NewApproverResolver(nil)

	principals, err := resolver.Resolve(context.Background(), model.ApproverSpec{Kind: model.ApproverKindUser, UserID: "alice"}, "org-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, principals)

	_, err = resolver.Resolve(context.Background(), model.ApproverSpec{Kind: model.ApproverKindRole, Role: "finance"}, "org-1")
	assert.Error(t, err)
}

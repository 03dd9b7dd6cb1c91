package router

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/wewinbid/approval-engine/internal/workflow/model"
)

// MockTemplateCatalog is a mock implementation of TemplateCatalog
type MockTemplateCatalog struct {
	mock.Mock
}

func (m *MockTemplateCatalog) CreateTemplate(ctx context.Context, req *model.CreateTemplateDTO) (*model.WorkflowTemplate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowTemplate), args.Error(1)
}

func (m *MockTemplateCatalog) GetTemplate(ctx context.Context, id uuid.UUID) (*model.WorkflowTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkflowTemplate), args.Error(1)
}

func (m *MockTemplateCatalog) ListTemplates(ctx context.Context, offset, limit *int) (*model.TemplateListResult, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TemplateListResult), args.Error(1)
}

// MockRequestLifecycle is a mock implementation of RequestLifecycle
type MockRequestLifecycle struct {
	mock.Mock
}

func (m *MockRequestLifecycle) CreateDraft(ctx context.Context, requesterID string, req *model.CreateRequestDTO) (*model.ApprovalRequest, error) {
	args := m.Called(ctx, requesterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalRequest), args.Error(1)
}

func (m *MockRequestLifecycle) Start(ctx context.Context, requesterID string, req *model.CreateRequestDTO) (*model.RequestSnapshot, error) {
	args := m.Called(ctx, requesterID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestSnapshot), args.Error(1)
}

func (m *MockRequestLifecycle) Submit(ctx context.Context, requestID uuid.UUID, requesterID string) (*model.RequestSnapshot, error) {
	args := m.Called(ctx, requestID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestSnapshot), args.Error(1)
}

func (m *MockRequestLifecycle) Decide(ctx context.Context, requestID uuid.UUID, approverID string, req *model.DecideDTO) (*model.DecisionResult, error) {
	args := m.Called(ctx, requestID, approverID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DecisionResult), args.Error(1)
}

func (m *MockRequestLifecycle) Cancel(ctx context.Context, requestID uuid.UUID, requesterID string) (*model.ApprovalRequest, error) {
	args := m.Called(ctx, requestID, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalRequest), args.Error(1)
}

func (m *MockRequestLifecycle) Expire(ctx context.Context, requestID uuid.UUID, reason string) (*model.ApprovalRequest, error) {
	args := m.Called(ctx, requestID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ApprovalRequest), args.Error(1)
}

func (m *MockRequestLifecycle) GetRequest(ctx context.Context, requestID uuid.UUID, callerID string) (*model.RequestSnapshot, error) {
	args := m.Called(ctx, requestID, callerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestSnapshot), args.Error(1)
}

func (m *MockRequestLifecycle) History(ctx context.Context, requestID uuid.UUID) ([]model.AuditEntry, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}

func (m *MockRequestLifecycle) ListRequests(ctx context.Context, filter model.RequestFilter) (*model.RequestListResult, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RequestListResult), args.Error(1)
}

// MockRoleAdministration is a mock implementation of RoleAdministration
type MockRoleAdministration struct {
	mock.Mock
}

func (m *MockRoleAdministration) MembersOfRole(ctx context.Context, orgID, role string) ([]string, error) {
	args := m.Called(ctx, orgID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRoleAdministration) AddMember(ctx context.Context, orgID, role, principalID string) error {
	return m.Called(ctx, orgID, role, principalID).Error(0)
}

func (m *MockRoleAdministration) RemoveMember(ctx context.Context, orgID, role, principalID string) error {
	return m.Called(ctx, orgID, role, principalID).Error(0)
}

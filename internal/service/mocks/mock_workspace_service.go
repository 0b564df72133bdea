package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kioskdesk/internal/model"
)

type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) Create(ctx context.Context, userID, name string) (*model.Workspace, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) ListForUser(ctx context.Context, userID string) ([]model.WorkspaceWithRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkspaceWithRole), args.Error(1)
}

func (m *MockWorkspaceService) Get(ctx context.Context, id string) (*model.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Rename(ctx context.Context, id, name string) (*model.Workspace, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWorkspaceService) Membership(ctx context.Context, workspaceID, userID string) (model.Role, error) {
	args := m.Called(ctx, workspaceID, userID)
	return args.Get(0).(model.Role), args.Error(1)
}

func (m *MockWorkspaceService) ListMembers(ctx context.Context, workspaceID string) ([]model.WorkspaceUser, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkspaceUser), args.Error(1)
}

func (m *MockWorkspaceService) AddMember(ctx context.Context, workspaceID, email, role string) (*model.WorkspaceUser, error) {
	args := m.Called(ctx, workspaceID, email, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkspaceUser), args.Error(1)
}

func (m *MockWorkspaceService) UpdateMemberRole(ctx context.Context, workspaceID, userID, role string) (*model.WorkspaceUser, error) {
	args := m.Called(ctx, workspaceID, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkspaceUser), args.Error(1)
}

func (m *MockWorkspaceService) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	return m.Called(ctx, workspaceID, userID).Error(0)
}

func (m *MockWorkspaceService) Leave(ctx context.Context, workspaceID, userID string) error {
	return m.Called(ctx, workspaceID, userID).Error(0)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kioskdesk/internal/model"
)

type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) CreateWithOwner(ctx context.Context, ws *model.Workspace, ownerID string) (*model.Workspace, error) {
	args := m.Called(ctx, ws, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) FindByID(ctx context.Context, id string) (*model.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListForUser(ctx context.Context, userID string) ([]model.WorkspaceWithRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkspaceWithRole), args.Error(1)
}

func (m *MockWorkspaceRepository) Update(ctx context.Context, ws *model.Workspace) (*model.Workspace, error) {
	args := m.Called(ctx, ws)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockWorkspaceRepository) GetMember(ctx context.Context, workspaceID, userID string) (*model.WorkspaceUser, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkspaceUser), args.Error(1)
}

func (m *MockWorkspaceRepository) ListMembers(ctx context.Context, workspaceID string) ([]model.WorkspaceUser, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkspaceUser), args.Error(1)
}

func (m *MockWorkspaceRepository) AddMember(ctx context.Context, wu *model.WorkspaceUser) error {
	return m.Called(ctx, wu).Error(0)
}

func (m *MockWorkspaceRepository) UpdateMemberRole(ctx context.Context, workspaceID, userID string, role model.Role) error {
	return m.Called(ctx, workspaceID, userID, role).Error(0)
}

func (m *MockWorkspaceRepository) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	return m.Called(ctx, workspaceID, userID).Error(0)
}

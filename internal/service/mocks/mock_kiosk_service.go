package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kioskdesk/internal/model"
	"kioskdesk/internal/service"
)

type MockKioskService struct {
	mock.Mock
}

func (m *MockKioskService) Create(ctx context.Context, workspaceID string, in service.KioskInput) (*model.Kiosk, error) {
	args := m.Called(ctx, workspaceID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Kiosk), args.Error(1)
}

func (m *MockKioskService) List(ctx context.Context, workspaceID string, q service.KioskQuery) (*service.ListResult[model.Kiosk], error) {
	args := m.Called(ctx, workspaceID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Kiosk]), args.Error(1)
}

func (m *MockKioskService) Get(ctx context.Context, workspaceID, id string) (*model.Kiosk, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Kiosk), args.Error(1)
}

func (m *MockKioskService) Update(ctx context.Context, workspaceID, id string, p service.KioskPatch) (*model.Kiosk, error) {
	args := m.Called(ctx, workspaceID, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Kiosk), args.Error(1)
}

func (m *MockKioskService) Delete(ctx context.Context, workspaceID, id string) error {
	return m.Called(ctx, workspaceID, id).Error(0)
}

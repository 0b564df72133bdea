package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
)

type MockKioskRepository struct {
	mock.Mock
}

func (m *MockKioskRepository) Create(ctx context.Context, k *model.Kiosk) (*model.Kiosk, error) {
	args := m.Called(ctx, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Kiosk), args.Error(1)
}

func (m *MockKioskRepository) BulkCreate(ctx context.Context, ks []model.Kiosk) error {
	return m.Called(ctx, ks).Error(0)
}

func (m *MockKioskRepository) FindByID(ctx context.Context, workspaceID, id string) (*model.Kiosk, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Kiosk), args.Error(1)
}

func (m *MockKioskRepository) List(ctx context.Context, workspaceID string, f repository.KioskFilter, pq repository.PageQuery) (*repository.PageResult[model.Kiosk], error) {
	args := m.Called(ctx, workspaceID, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Kiosk]), args.Error(1)
}

func (m *MockKioskRepository) ListAll(ctx context.Context, workspaceID string) ([]model.Kiosk, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Kiosk), args.Error(1)
}

func (m *MockKioskRepository) Update(ctx context.Context, k *model.Kiosk) (*model.Kiosk, error) {
	args := m.Called(ctx, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Kiosk), args.Error(1)
}

func (m *MockKioskRepository) Delete(ctx context.Context, workspaceID, id string) error {
	return m.Called(ctx, workspaceID, id).Error(0)
}

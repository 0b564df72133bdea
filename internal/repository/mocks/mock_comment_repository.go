package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kioskdesk/internal/model"
)

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, workspaceID, id string) (*model.Comment, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepository) ListByTicket(ctx context.Context, workspaceID, ticketID string) ([]model.Comment, error) {
	args := m.Called(ctx, workspaceID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, workspaceID, id string) error {
	return m.Called(ctx, workspaceID, id).Error(0)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kioskdesk/internal/model"
	"kioskdesk/internal/service"
)

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) Create(ctx context.Context, workspaceID, ticketID, authorID, body string) (*model.Comment, error) {
	args := m.Called(ctx, workspaceID, ticketID, authorID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentService) List(ctx context.Context, workspaceID, ticketID string) ([]model.Comment, error) {
	args := m.Called(ctx, workspaceID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Comment), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, workspaceID, ticketID, commentID string, actor service.Actor) error {
	return m.Called(ctx, workspaceID, ticketID, commentID, actor).Error(0)
}

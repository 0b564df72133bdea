package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kioskdesk/internal/model"
)

type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) FindByID(ctx context.Context, workspaceID, id string) (*model.Attachment, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) ListByTicket(ctx context.Context, workspaceID, ticketID string) ([]model.Attachment, error) {
	args := m.Called(ctx, workspaceID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) Delete(ctx context.Context, workspaceID, id string) error {
	return m.Called(ctx, workspaceID, id).Error(0)
}

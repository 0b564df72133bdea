package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"kioskdesk/internal/model"
	"kioskdesk/internal/service"
)

type MockAttachmentService struct {
	mock.Mock
}

func (m *MockAttachmentService) Upload(ctx context.Context, workspaceID, ticketID, uploaderID string, up service.Upload) (*model.Attachment, error) {
	args := m.Called(ctx, workspaceID, ticketID, uploaderID, up)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) List(ctx context.Context, workspaceID, ticketID string) ([]model.Attachment, error) {
	args := m.Called(ctx, workspaceID, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) Get(ctx context.Context, workspaceID, ticketID, id string) (*model.Attachment, error) {
	args := m.Called(ctx, workspaceID, ticketID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentService) Download(ctx context.Context, workspaceID, ticketID, id string) (io.ReadCloser, *model.Attachment, error) {
	args := m.Called(ctx, workspaceID, ticketID, id)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(*model.Attachment), args.Error(2)
}

func (m *MockAttachmentService) URL(ctx context.Context, workspaceID, ticketID, id string) (*service.DownloadURL, error) {
	args := m.Called(ctx, workspaceID, ticketID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DownloadURL), args.Error(1)
}

func (m *MockAttachmentService) Delete(ctx context.Context, workspaceID, ticketID, id string, actor service.Actor) error {
	return m.Called(ctx, workspaceID, ticketID, id, actor).Error(0)
}

package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"kioskdesk/internal/service"
)

type MockTransferService struct {
	mock.Mock
}

// ExportKiosks writes args.String(0) to w before returning args.Error(1).
func (m *MockTransferService) ExportKiosks(ctx context.Context, workspaceID string, w io.Writer) error {
	args := m.Called(ctx, workspaceID, w)
	_, _ = io.WriteString(w, args.String(0))
	return args.Error(1)
}

// ExportTickets writes args.String(0) to w before returning args.Error(1).
func (m *MockTransferService) ExportTickets(ctx context.Context, workspaceID string, w io.Writer) error {
	args := m.Called(ctx, workspaceID, w)
	_, _ = io.WriteString(w, args.String(0))
	return args.Error(1)
}

func (m *MockTransferService) ImportKiosks(ctx context.Context, workspaceID string, r io.Reader) (*service.ImportResult, error) {
	args := m.Called(ctx, workspaceID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

func (m *MockTransferService) ImportTickets(ctx context.Context, workspaceID, userID string, r io.Reader) (*service.ImportResult, error) {
	args := m.Called(ctx, workspaceID, userID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportResult), args.Error(1)
}

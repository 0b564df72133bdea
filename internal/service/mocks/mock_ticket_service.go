package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"kioskdesk/internal/model"
	"kioskdesk/internal/service"
)

type MockTicketService struct {
	mock.Mock
}

func (m *MockTicketService) Create(ctx context.Context, workspaceID, userID string, in service.TicketInput) (*model.Ticket, error) {
	args := m.Called(ctx, workspaceID, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) List(ctx context.Context, workspaceID string, q service.TicketQuery) (*service.ListResult[model.Ticket], error) {
	args := m.Called(ctx, workspaceID, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Ticket]), args.Error(1)
}

func (m *MockTicketService) Get(ctx context.Context, workspaceID, id string) (*model.Ticket, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) Update(ctx context.Context, workspaceID, id string, p service.TicketPatch) (*model.Ticket, error) {
	args := m.Called(ctx, workspaceID, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) Delete(ctx context.Context, workspaceID, id string) error {
	return m.Called(ctx, workspaceID, id).Error(0)
}

func (m *MockTicketService) Move(ctx context.Context, workspaceID, id, status string) (*model.Ticket, error) {
	args := m.Called(ctx, workspaceID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketService) Board(ctx context.Context, workspaceID string) (*service.Board, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Board), args.Error(1)
}

package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
)

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) BulkCreate(ctx context.Context, ts []model.Ticket) error {
	return m.Called(ctx, ts).Error(0)
}

func (m *MockTicketRepository) FindByID(ctx context.Context, workspaceID, id string) (*model.Ticket, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) List(ctx context.Context, workspaceID string, f repository.TicketFilter, pq repository.PageQuery) (*repository.PageResult[model.Ticket], error) {
	args := m.Called(ctx, workspaceID, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Ticket]), args.Error(1)
}

func (m *MockTicketRepository) ListAll(ctx context.Context, workspaceID string) ([]model.Ticket, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Update(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) UpdateStatus(ctx context.Context, workspaceID, id string, status model.TicketStatus, resolvedAt *time.Time, updatedAt time.Time) (*model.Ticket, error) {
	args := m.Called(ctx, workspaceID, id, status, resolvedAt, updatedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketRepository) Delete(ctx context.Context, workspaceID, id string) error {
	return m.Called(ctx, workspaceID, id).Error(0)
}

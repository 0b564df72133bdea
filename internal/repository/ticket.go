package repository

import (
	"context"
	"time"

	"kioskdesk/internal/model"
)

// TicketFilter narrows a ticket listing. Zero values match everything.
type TicketFilter struct {
	Status     model.TicketStatus
	Priority   model.TicketPriority
	KioskID    string
	AssigneeID string
}

// TicketRepository persists tickets. Every method is scoped to a workspace.
type TicketRepository interface {
	Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error)
	// BulkCreate inserts all tickets in one transaction; nothing is stored if any insert fails.
	BulkCreate(ctx context.Context, ts []model.Ticket) error
	FindByID(ctx context.Context, workspaceID, id string) (*model.Ticket, error)
	List(ctx context.Context, workspaceID string, f TicketFilter, pq PageQuery) (*PageResult[model.Ticket], error)
	// ListAll returns every ticket in the workspace, newest first.
	ListAll(ctx context.Context, workspaceID string) ([]model.Ticket, error)
	// Update writes every mutable field of t.
	Update(ctx context.Context, t *model.Ticket) (*model.Ticket, error)
	// UpdateStatus touches only status, resolved_at and updated_at.
	UpdateStatus(ctx context.Context, workspaceID, id string, status model.TicketStatus, resolvedAt *time.Time, updatedAt time.Time) (*model.Ticket, error)
	Delete(ctx context.Context, workspaceID, id string) error
}

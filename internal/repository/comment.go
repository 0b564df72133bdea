package repository

import (
	"context"

	"kioskdesk/internal/model"
)

// CommentRepository persists ticket comments.
type CommentRepository interface {
	// Create stores c and returns it with AuthorName populated.
	Create(ctx context.Context, c *model.Comment) (*model.Comment, error)
	FindByID(ctx context.Context, workspaceID, id string) (*model.Comment, error)
	// ListByTicket returns comments oldest first.
	ListByTicket(ctx context.Context, workspaceID, ticketID string) ([]model.Comment, error)
	Delete(ctx context.Context, workspaceID, id string) error
}

package repository

import (
	"context"

	"kioskdesk/internal/model"
)

// AttachmentRepository defines data access for attachment metadata.
// Object content lives in storage; this layer only sees the rows.
type AttachmentRepository interface {
	// Create inserts a new attachment record and returns the stored row.
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)
	FindByID(ctx context.Context, workspaceID, id string) (*model.Attachment, error)
	// ListByTicket returns attachments newest first.
	ListByTicket(ctx context.Context, workspaceID, ticketID string) ([]model.Attachment, error)
	Delete(ctx context.Context, workspaceID, id string) error
}

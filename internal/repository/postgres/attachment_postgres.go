package postgres

import (
	"context"
	"database/sql"

	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
)

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

const attachmentColumns = `id, workspace_id, ticket_id, filename, storage_path, size, content_type, uploaded_by, created_at`

func scanAttachment(row scanner) (*model.Attachment, error) {
	var a model.Attachment
	if err := row.Scan(
		&a.ID,
		&a.WorkspaceID,
		&a.TicketID,
		&a.Filename,
		&a.StoragePath,
		&a.Size,
		&a.ContentType,
		&a.UploadedBy,
		&a.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts a new attachment row and returns the stored record.
func (r *AttachmentPostgres) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO attachments (id, workspace_id, ticket_id, filename, storage_path, size, content_type, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + attachmentColumns
	out, err := scanAttachment(r.db.QueryRowContext(ctx, q,
		a.ID,
		a.WorkspaceID,
		a.TicketID,
		a.Filename,
		a.StoragePath,
		a.Size,
		a.ContentType,
		a.UploadedBy,
		a.CreatedAt,
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single attachment by its ID.
func (r *AttachmentPostgres) FindByID(ctx context.Context, workspaceID, id string) (*model.Attachment, error) {
	const q = `SELECT ` + attachmentColumns + ` FROM attachments WHERE workspace_id = $1 AND id = $2`
	return scanAttachment(r.db.QueryRowContext(ctx, q, workspaceID, id))
}

func (r *AttachmentPostgres) ListByTicket(ctx context.Context, workspaceID, ticketID string) ([]model.Attachment, error) {
	const q = `
		SELECT ` + attachmentColumns + `
		FROM attachments
		WHERE workspace_id = $1 AND ticket_id = $2
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, workspaceID, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes an attachment row by ID.
func (r *AttachmentPostgres) Delete(ctx context.Context, workspaceID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

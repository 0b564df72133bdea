package postgres

import (
	"context"
	"database/sql"

	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
)

// CommentPostgres is a PostgreSQL implementation of repository.CommentRepository.
type CommentPostgres struct {
	db *sql.DB
}

// NewCommentPostgres creates a new CommentPostgres repository.
func NewCommentPostgres(db *sql.DB) *CommentPostgres {
	return &CommentPostgres{db: db}
}

var _ repository.CommentRepository = (*CommentPostgres)(nil)

func scanComment(row scanner) (*model.Comment, error) {
	var c model.Comment
	if err := row.Scan(&c.ID, &c.WorkspaceID, &c.TicketID, &c.AuthorID, &c.AuthorName, &c.Body, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CommentPostgres) Create(ctx context.Context, c *model.Comment) (*model.Comment, error) {
	const q = `
		WITH ins AS (
			INSERT INTO comments (id, workspace_id, ticket_id, author_id, body, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, workspace_id, ticket_id, author_id, body, created_at
		)
		SELECT ins.id, ins.workspace_id, ins.ticket_id, ins.author_id, u.name, ins.body, ins.created_at
		FROM ins JOIN users u ON u.id = ins.author_id
	`
	out, err := scanComment(r.db.QueryRowContext(ctx, q, c.ID, c.WorkspaceID, c.TicketID, c.AuthorID, c.Body, c.CreatedAt))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

const commentSelect = `
	SELECT c.id, c.workspace_id, c.ticket_id, c.author_id, u.name, c.body, c.created_at
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

func (r *CommentPostgres) FindByID(ctx context.Context, workspaceID, id string) (*model.Comment, error) {
	const q = commentSelect + `WHERE c.workspace_id = $1 AND c.id = $2`
	return scanComment(r.db.QueryRowContext(ctx, q, workspaceID, id))
}

func (r *CommentPostgres) ListByTicket(ctx context.Context, workspaceID, ticketID string) ([]model.Comment, error) {
	const q = commentSelect + `WHERE c.workspace_id = $1 AND c.ticket_id = $2 ORDER BY c.created_at, c.id`
	rows, err := r.db.QueryContext(ctx, q, workspaceID, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func (r *CommentPostgres) Delete(ctx context.Context, workspaceID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

package postgres

import (
	"context"
	"database/sql"
	"time"

	"kioskdesk/internal/database"
	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
)

// TicketPostgres is a PostgreSQL implementation of repository.TicketRepository.
type TicketPostgres struct {
	db *sql.DB
}

// NewTicketPostgres creates a new TicketPostgres repository.
func NewTicketPostgres(db *sql.DB) *TicketPostgres {
	return &TicketPostgres{db: db}
}

var _ repository.TicketRepository = (*TicketPostgres)(nil)

const ticketColumns = `id, workspace_id, kiosk_id, title, description, status, priority, assignee_id, created_by, created_at, updated_at, resolved_at`

const insertTicket = `
	INSERT INTO tickets (id, workspace_id, kiosk_id, title, description, status, priority, assignee_id, created_by, created_at, updated_at, resolved_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

func scanTicket(row scanner) (*model.Ticket, error) {
	var (
		t          model.Ticket
		assignee   sql.NullString
		resolvedAt sql.NullTime
	)
	if err := row.Scan(
		&t.ID,
		&t.WorkspaceID,
		&t.KioskID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&assignee,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
		&resolvedAt,
	); err != nil {
		return nil, err
	}
	t.AssigneeID = fromNullString(assignee)
	if resolvedAt.Valid {
		ts := resolvedAt.Time
		t.ResolvedAt = &ts
	}
	return &t, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func ticketArgs(t *model.Ticket) []any {
	return []any{
		t.ID, t.WorkspaceID, t.KioskID, t.Title, t.Description, string(t.Status), string(t.Priority),
		nullString(t.AssigneeID), t.CreatedBy, t.CreatedAt, t.UpdatedAt, nullTime(t.ResolvedAt),
	}
}

func (r *TicketPostgres) Create(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	out, err := scanTicket(r.db.QueryRowContext(ctx, insertTicket+` RETURNING `+ticketColumns, ticketArgs(t)...))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *TicketPostgres) BulkCreate(ctx context.Context, ts []model.Ticket) error {
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, insertTicket)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i := range ts {
			if _, err := stmt.ExecContext(ctx, ticketArgs(&ts[i])...); err != nil {
				return err
			}
		}
		return nil
	})
	return mapError(err)
}

func (r *TicketPostgres) FindByID(ctx context.Context, workspaceID, id string) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE workspace_id = $1 AND id = $2`
	return scanTicket(r.db.QueryRowContext(ctx, q, workspaceID, id))
}

// List returns tickets newest first using LIMIT/OFFSET pagination and a total count.
func (r *TicketPostgres) List(ctx context.Context, workspaceID string, f repository.TicketFilter, pq repository.PageQuery) (*repository.PageResult[model.Ticket], error) {
	var w whereBuilder
	w.add("workspace_id = ?", workspaceID)
	if f.Status != "" {
		w.add("status = ?", string(f.Status))
	}
	if f.Priority != "" {
		w.add("priority = ?", string(f.Priority))
	}
	if f.KioskID != "" {
		w.add("kiosk_id = ?", f.KioskID)
	}
	if f.AssigneeID != "" {
		w.add("assignee_id = ?", f.AssigneeID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + ticketColumns + ` FROM tickets WHERE ` + w.String() +
		` ORDER BY created_at DESC, id DESC LIMIT ` + w.next(1) + ` OFFSET ` + w.next(2)
	rows, err := r.db.QueryContext(ctx, q, append(w.args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := collectTickets(rows)
	if err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Ticket]{Items: items, Total: total}, nil
}

func (r *TicketPostgres) ListAll(ctx context.Context, workspaceID string) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE workspace_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func collectTickets(rows *sql.Rows) ([]model.Ticket, error) {
	items := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *TicketPostgres) Update(ctx context.Context, t *model.Ticket) (*model.Ticket, error) {
	const q = `
		UPDATE tickets
		SET kiosk_id = $3, title = $4, description = $5, status = $6, priority = $7,
		    assignee_id = $8, updated_at = $9, resolved_at = $10
		WHERE workspace_id = $1 AND id = $2
		RETURNING ` + ticketColumns
	out, err := scanTicket(r.db.QueryRowContext(ctx, q,
		t.WorkspaceID, t.ID, t.KioskID, t.Title, t.Description, string(t.Status), string(t.Priority),
		nullString(t.AssigneeID), t.UpdatedAt, nullTime(t.ResolvedAt),
	))
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *TicketPostgres) UpdateStatus(ctx context.Context, workspaceID, id string, status model.TicketStatus, resolvedAt *time.Time, updatedAt time.Time) (*model.Ticket, error) {
	const q = `
		UPDATE tickets SET status = $3, resolved_at = $4, updated_at = $5
		WHERE workspace_id = $1 AND id = $2
		RETURNING ` + ticketColumns
	return scanTicket(r.db.QueryRowContext(ctx, q, workspaceID, id, string(status), nullTime(resolvedAt), updatedAt))
}

// Delete removes a ticket; its comments and attachment rows cascade.
func (r *TicketPostgres) Delete(ctx context.Context, workspaceID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tickets WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

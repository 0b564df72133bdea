package postgres

import (
	"context"
	"database/sql"

	"kioskdesk/internal/database"
	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
)

// WorkspacePostgres is a PostgreSQL implementation of repository.WorkspaceRepository.
type WorkspacePostgres struct {
	db *sql.DB
}

// NewWorkspacePostgres creates a new WorkspacePostgres repository.
func NewWorkspacePostgres(db *sql.DB) *WorkspacePostgres {
	return &WorkspacePostgres{db: db}
}

var _ repository.WorkspaceRepository = (*WorkspacePostgres)(nil)

const workspaceColumns = `id, name, created_by, created_at, updated_at`

func scanWorkspace(row scanner) (*model.Workspace, error) {
	var w model.Workspace
	if err := row.Scan(&w.ID, &w.Name, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *WorkspacePostgres) CreateWithOwner(ctx context.Context, ws *model.Workspace, ownerID string) (*model.Workspace, error) {
	const qWorkspace = `
		INSERT INTO workspaces (id, name, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + workspaceColumns
	const qOwner = `
		INSERT INTO workspace_users (workspace_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`
	var out *model.Workspace
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		out, err = scanWorkspace(tx.QueryRowContext(ctx, qWorkspace, ws.ID, ws.Name, ws.CreatedBy, ws.CreatedAt, ws.UpdatedAt))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, qOwner, out.ID, ownerID, string(model.RoleAdmin), out.CreatedAt)
		return err
	})
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

func (r *WorkspacePostgres) FindByID(ctx context.Context, id string) (*model.Workspace, error) {
	const q = `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`
	return scanWorkspace(r.db.QueryRowContext(ctx, q, id))
}

func (r *WorkspacePostgres) ListForUser(ctx context.Context, userID string) ([]model.WorkspaceWithRole, error) {
	const q = `
		SELECT w.id, w.name, w.created_by, w.created_at, w.updated_at, wu.role
		FROM workspaces w
		JOIN workspace_users wu ON wu.workspace_id = w.id
		WHERE wu.user_id = $1
		ORDER BY w.name, w.id
	`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.WorkspaceWithRole, 0)
	for rows.Next() {
		var w model.WorkspaceWithRole
		if err := rows.Scan(&w.ID, &w.Name, &w.CreatedBy, &w.CreatedAt, &w.UpdatedAt, &w.Role); err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

// Update writes the workspace name and updated_at.
func (r *WorkspacePostgres) Update(ctx context.Context, ws *model.Workspace) (*model.Workspace, error) {
	const q = `
		UPDATE workspaces SET name = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + workspaceColumns
	return scanWorkspace(r.db.QueryRowContext(ctx, q, ws.ID, ws.Name, ws.UpdatedAt))
}

// Delete removes the workspace; kiosks, tickets, comments, attachments and memberships cascade.
func (r *WorkspacePostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

const memberSelect = `
	SELECT wu.workspace_id, wu.user_id, u.email, u.name, wu.role, wu.created_at
	FROM workspace_users wu
	JOIN users u ON u.id = wu.user_id
`

func scanMember(row scanner) (*model.WorkspaceUser, error) {
	var m model.WorkspaceUser
	if err := row.Scan(&m.WorkspaceID, &m.UserID, &m.Email, &m.Name, &m.Role, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *WorkspacePostgres) GetMember(ctx context.Context, workspaceID, userID string) (*model.WorkspaceUser, error) {
	const q = memberSelect + `WHERE wu.workspace_id = $1 AND wu.user_id = $2`
	return scanMember(r.db.QueryRowContext(ctx, q, workspaceID, userID))
}

func (r *WorkspacePostgres) ListMembers(ctx context.Context, workspaceID string) ([]model.WorkspaceUser, error) {
	const q = memberSelect + `WHERE wu.workspace_id = $1 ORDER BY u.name, u.id`
	rows, err := r.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.WorkspaceUser, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// AddMember inserts a membership. An existing membership yields repository.ErrDuplicate.
func (r *WorkspacePostgres) AddMember(ctx context.Context, m *model.WorkspaceUser) error {
	const q = `
		INSERT INTO workspace_users (workspace_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, q, m.WorkspaceID, m.UserID, string(m.Role), m.CreatedAt)
	return mapError(err)
}

func (r *WorkspacePostgres) UpdateMemberRole(ctx context.Context, workspaceID, userID string, role model.Role) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if role != model.RoleAdmin {
			if err := keepAdmin(ctx, tx, workspaceID, userID); err != nil {
				return err
			}
		}
		const q = `UPDATE workspace_users SET role = $3 WHERE workspace_id = $1 AND user_id = $2`
		res, err := tx.ExecContext(ctx, q, workspaceID, userID, string(role))
		if err != nil {
			return err
		}
		return expectAffected(res)
	})
}

func (r *WorkspacePostgres) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := keepAdmin(ctx, tx, workspaceID, userID); err != nil {
			return err
		}
		const q = `DELETE FROM workspace_users WHERE workspace_id = $1 AND user_id = $2`
		res, err := tx.ExecContext(ctx, q, workspaceID, userID)
		if err != nil {
			return err
		}
		return expectAffected(res)
	})
}

// keepAdmin locks the ADMIN rows of a workspace until tx ends and fails with
// repository.ErrLastAdmin when userID holds the only one.
func keepAdmin(ctx context.Context, tx *sql.Tx, workspaceID, userID string) error {
	const q = `
		SELECT user_id FROM workspace_users
		WHERE workspace_id = $1 AND role = $2
		FOR UPDATE
	`
	rows, err := tx.QueryContext(ctx, q, workspaceID, string(model.RoleAdmin))
	if err != nil {
		return err
	}
	defer rows.Close()

	var admins []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		admins = append(admins, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	if len(admins) == 1 && admins[0] == userID {
		return repository.ErrLastAdmin
	}
	return nil
}

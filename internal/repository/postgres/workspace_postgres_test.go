package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
)

var workspaceCols = []string{"id", "name", "created_by", "created_at", "updated_at"}

func TestWorkspacePostgres_CreateWithOwner(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()
	ws := &model.Workspace{ID: "w1", Name: "Airport", CreatedBy: "u1", CreatedAt: now, UpdatedAt: now}

	t.Run("commits workspace and admin membership", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO workspaces").
			WithArgs("w1", "Airport", "u1", now, now).
			WillReturnRows(sqlmock.NewRows(workspaceCols).AddRow("w1", "Airport", "u1", now, now))
		mock.ExpectExec("INSERT INTO workspace_users").
			WithArgs("w1", "u1", "ADMIN", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		out, err := NewWorkspacePostgres(db).CreateWithOwner(ctx, ws, "u1")
		assert.NoError(t, err)
		assert.Equal(t, "Airport", out.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when membership insert fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO workspaces").
			WillReturnRows(sqlmock.NewRows(workspaceCols).AddRow("w1", "Airport", "u1", now, now))
		mock.ExpectExec("INSERT INTO workspace_users").
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "workspace_users_user_id_fkey"})
		mock.ExpectRollback()

		out, err := NewWorkspacePostgres(db).CreateWithOwner(ctx, ws, "ghost")
		assert.ErrorIs(t, err, repository.ErrReferenced)
		assert.Nil(t, out)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestWorkspacePostgres_ListForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM workspaces w JOIN workspace_users wu").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(append(workspaceCols, "role")).
			AddRow("w1", "Airport", "u1", now, now, "ADMIN").
			AddRow("w2", "Mall", "u2", now, now, "VIEWER"))

	items, err := NewWorkspacePostgres(db).ListForUser(context.Background(), "u1")
	assert.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, model.RoleAdmin, items[0].Role)
	assert.Equal(t, model.RoleViewer, items[1].Role)
	assert.Equal(t, "Mall", items[1].Name)
}

func TestWorkspacePostgres_Members(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewWorkspacePostgres(db)
	ctx := context.Background()
	memberCols := []string{"workspace_id", "user_id", "email", "name", "role", "created_at"}

	t.Run("get member", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM workspace_users wu JOIN users u").
			WithArgs("w1", "u2").
			WillReturnRows(sqlmock.NewRows(memberCols).AddRow("w1", "u2", "m@example.com", "Mia", "MEMBER", time.Now()))

		m, err := repo.GetMember(ctx, "w1", "u2")
		assert.NoError(t, err)
		assert.Equal(t, model.RoleMember, m.Role)
		assert.Equal(t, "Mia", m.Name)
	})

	t.Run("add duplicate member", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO workspace_users").
			WithArgs("w1", "u2", "VIEWER", sqlmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})

		err := repo.AddMember(ctx, &model.WorkspaceUser{WorkspaceID: "w1", UserID: "u2", Role: model.RoleViewer, CreatedAt: time.Now()})
		assert.ErrorIs(t, err, repository.ErrDuplicate)
	})

	t.Run("update role of non-member", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE workspace_users SET role").
			WithArgs("w1", "u9", "ADMIN").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.UpdateMemberRole(ctx, "w1", "u9", model.RoleAdmin)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("demote with another admin", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT user_id FROM workspace_users\s+WHERE workspace_id = \$1 AND role = \$2\s+FOR UPDATE`).
			WithArgs("w1", "ADMIN").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1").AddRow("u2"))
		mock.ExpectExec("UPDATE workspace_users SET role").
			WithArgs("w1", "u1", "MEMBER").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.UpdateMemberRole(ctx, "w1", "u1", model.RoleMember))
	})

	t.Run("demote last admin", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs("w1", "ADMIN").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))
		mock.ExpectRollback()

		err := repo.UpdateMemberRole(ctx, "w1", "u1", model.RoleViewer)
		assert.ErrorIs(t, err, repository.ErrLastAdmin)
	})

	t.Run("remove member", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs("w1", "ADMIN").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))
		mock.ExpectExec("DELETE FROM workspace_users").
			WithArgs("w1", "u2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.RemoveMember(ctx, "w1", "u2"))
	})

	t.Run("remove last admin", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("FOR UPDATE").
			WithArgs("w1", "ADMIN").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("u1"))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.RemoveMember(ctx, "w1", "u1"), repository.ErrLastAdmin)
	})

	t.Run("delete workspace error", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM workspaces").
			WithArgs("w1").
			WillReturnError(errors.New("conn closed"))

		assert.Error(t, repo.Delete(ctx, "w1"))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kioskdesk/internal/model"
)

var commentCols = []string{"id", "workspace_id", "ticket_id", "author_id", "name", "body", "created_at"}

func TestCommentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	c := &model.Comment{ID: "c1", WorkspaceID: "w1", TicketID: "t1", AuthorID: "u1", Body: "Replaced the roller", CreatedAt: now}

	mock.ExpectQuery("WITH ins AS \\( INSERT INTO comments").
		WithArgs("c1", "w1", "t1", "u1", "Replaced the roller", now).
		WillReturnRows(sqlmock.NewRows(commentCols).AddRow("c1", "w1", "t1", "u1", "Rudi", "Replaced the roller", now))

	out, err := NewCommentPostgres(db).Create(context.Background(), c)
	assert.NoError(t, err)
	assert.Equal(t, "Rudi", out.AuthorName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentPostgres_ListByTicket(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM comments c JOIN users u (.+) ORDER BY c.created_at, c.id").
		WithArgs("w1", "t1").
		WillReturnRows(sqlmock.NewRows(commentCols).
			AddRow("c1", "w1", "t1", "u1", "Rudi", "first", now).
			AddRow("c2", "w1", "t1", "u2", "Sari", "second", now.Add(time.Minute)))

	items, err := NewCommentPostgres(db).ListByTicket(context.Background(), "w1", "t1")
	assert.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Body)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kioskdesk/internal/model"
	repoMocks "kioskdesk/internal/repository/mocks"
)

func TestCommentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("trims body", func(t *testing.T) {
		repo, tickets := new(repoMocks.MockCommentRepository), new(repoMocks.MockTicketRepository)
		tickets.On("FindByID", ctx, wsID, ticketID).Return(&model.Ticket{ID: ticketID}, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(c *model.Comment) bool {
			return c.Body == "Replaced roller" && c.AuthorID == userID && c.TicketID == ticketID
		})).Return(&model.Comment{ID: "c1", Body: "Replaced roller", AuthorName: "Rudi"}, nil)

		c, err := NewCommentService(repo, tickets).Create(ctx, wsID, ticketID, userID, "  Replaced roller\n")
		require.NoError(t, err)
		assert.Equal(t, "Rudi", c.AuthorName)
	})

	t.Run("empty body", func(t *testing.T) {
		repo, tickets := new(repoMocks.MockCommentRepository), new(repoMocks.MockTicketRepository)
		_, err := NewCommentService(repo, tickets).Create(ctx, wsID, ticketID, userID, " \n ")
		requireValidation(t, err, "body")
	})

	t.Run("body too long", func(t *testing.T) {
		repo, tickets := new(repoMocks.MockCommentRepository), new(repoMocks.MockTicketRepository)
		_, err := NewCommentService(repo, tickets).Create(ctx, wsID, ticketID, userID, strings.Repeat("a", 5001))
		requireValidation(t, err, "body")
	})

	t.Run("unknown ticket", func(t *testing.T) {
		repo, tickets := new(repoMocks.MockCommentRepository), new(repoMocks.MockTicketRepository)
		tickets.On("FindByID", ctx, wsID, ticketID).Return(nil, sql.ErrNoRows)
		_, err := NewCommentService(repo, tickets).Create(ctx, wsID, ticketID, userID, "hi")
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestCommentService_Delete(t *testing.T) {
	ctx := context.Background()
	comment := &model.Comment{ID: "c1", TicketID: ticketID, AuthorID: userID}

	tests := []struct {
		name     string
		ticketID string
		actor    Actor
		deleted  bool
		wantErr  error
	}{
		{"author", ticketID, Actor{UserID: userID, Role: model.RoleMember}, true, nil},
		{"admin", ticketID, Actor{UserID: user2ID, Role: model.RoleAdmin}, true, nil},
		{"other member", ticketID, Actor{UserID: user2ID, Role: model.RoleMember}, false, ErrForbidden},
		{"wrong ticket", kioskID, Actor{UserID: userID, Role: model.RoleAdmin}, false, ErrCommentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, tickets := new(repoMocks.MockCommentRepository), new(repoMocks.MockTicketRepository)
			repo.On("FindByID", ctx, wsID, "c1").Return(comment, nil)
			if tt.deleted {
				repo.On("Delete", ctx, wsID, "c1").Return(nil)
			}

			err := NewCommentService(repo, tickets).Delete(ctx, wsID, tt.ticketID, "c1", tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			assert.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

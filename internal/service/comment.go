package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
)

type commentBody struct {
	Body string `json:"body" validate:"required,max=5000"`
}

// Actor is the authenticated member performing a workspace action.
type Actor struct {
	UserID string
	Role   model.Role
}

// may reports whether a can remove something owned by ownerID.
func (a Actor) may(ownerID string) bool {
	return a.UserID == ownerID || a.Role == model.RoleAdmin
}

type CommentService interface {
	Create(ctx context.Context, workspaceID, ticketID, authorID, body string) (*model.Comment, error)
	// List returns a ticket's comments oldest first.
	List(ctx context.Context, workspaceID, ticketID string) ([]model.Comment, error)
	// Delete is allowed for the author and for workspace admins.
	Delete(ctx context.Context, workspaceID, ticketID, commentID string, actor Actor) error
}

type commentService struct {
	repo    repository.CommentRepository
	tickets repository.TicketRepository
}

func NewCommentService(repo repository.CommentRepository, tickets repository.TicketRepository) CommentService {
	return &commentService{repo: repo, tickets: tickets}
}

func (s *commentService) Create(ctx context.Context, workspaceID, ticketID, authorID, body string) (*model.Comment, error) {
	in := commentBody{Body: strings.TrimSpace(body)}
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	if err := ticketExists(ctx, s.tickets, workspaceID, ticketID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &model.Comment{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		TicketID:    ticketID,
		AuthorID:    authorID,
		Body:        in.Body,
		CreatedAt:   time.Now().UTC(),
	})
}

func (s *commentService) List(ctx context.Context, workspaceID, ticketID string) ([]model.Comment, error) {
	if err := ticketExists(ctx, s.tickets, workspaceID, ticketID); err != nil {
		return nil, err
	}
	return s.repo.ListByTicket(ctx, workspaceID, ticketID)
}

func (s *commentService) Delete(ctx context.Context, workspaceID, ticketID, commentID string, actor Actor) error {
	if commentID == "" {
		return ErrIDRequired
	}
	c, err := s.repo.FindByID(ctx, workspaceID, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCommentNotFound
		}
		return err
	}
	if c.TicketID != ticketID {
		return ErrCommentNotFound
	}
	if !actor.may(c.AuthorID) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, workspaceID, commentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCommentNotFound
		}
		return err
	}
	return nil
}

func ticketExists(ctx context.Context, tickets repository.TicketRepository, workspaceID, ticketID string) error {
	if ticketID == "" {
		return ErrIDRequired
	}
	_, err := tickets.FindByID(ctx, workspaceID, ticketID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrTicketNotFound
	}
	return err
}

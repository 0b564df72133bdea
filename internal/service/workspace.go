package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
	"kioskdesk/internal/storage"
)

type workspaceName struct {
	Name string `json:"name" validate:"required,max=100"`
}

// WorkspaceService manages workspaces and their memberships.
// Every workspace keeps at least one ADMIN.
type WorkspaceService interface {
	// Create makes userID the first ADMIN of a new workspace.
	Create(ctx context.Context, userID, name string) (*model.Workspace, error)
	ListForUser(ctx context.Context, userID string) ([]model.WorkspaceWithRole, error)
	Get(ctx context.Context, id string) (*model.Workspace, error)
	Rename(ctx context.Context, id, name string) (*model.Workspace, error)
	// Delete removes the workspace, everything in it and its stored attachments.
	Delete(ctx context.Context, id string) error

	// Membership returns userID's role, or ErrWorkspaceNotFound when they are not a member.
	Membership(ctx context.Context, workspaceID, userID string) (model.Role, error)
	ListMembers(ctx context.Context, workspaceID string) ([]model.WorkspaceUser, error)
	// AddMember adds an existing account by email.
	AddMember(ctx context.Context, workspaceID, email, role string) (*model.WorkspaceUser, error)
	UpdateMemberRole(ctx context.Context, workspaceID, userID, role string) (*model.WorkspaceUser, error)
	RemoveMember(ctx context.Context, workspaceID, userID string) error
	Leave(ctx context.Context, workspaceID, userID string) error
}

type workspaceService struct {
	repo  repository.WorkspaceRepository
	users repository.UserRepository
	store storage.Storage
}

func NewWorkspaceService(repo repository.WorkspaceRepository, users repository.UserRepository, store storage.Storage) WorkspaceService {
	return &workspaceService{repo: repo, users: users, store: store}
}

func (s *workspaceService) Create(ctx context.Context, userID, name string) (*model.Workspace, error) {
	in := workspaceName{Name: strings.TrimSpace(name)}
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return s.repo.CreateWithOwner(ctx, &model.Workspace{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CreatedBy: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}, userID)
}

func (s *workspaceService) ListForUser(ctx context.Context, userID string) ([]model.WorkspaceWithRole, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *workspaceService) Get(ctx context.Context, id string) (*model.Workspace, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	ws, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return ws, nil
}

func (s *workspaceService) Rename(ctx context.Context, id, name string) (*model.Workspace, error) {
	in := workspaceName{Name: strings.TrimSpace(name)}
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	ws, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ws.Name = in.Name
	ws.UpdatedAt = time.Now().UTC()
	out, err := s.repo.Update(ctx, ws)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, err
	}
	return out, nil
}

// Delete removes stored objects before the rows.
func (s *workspaceService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.store.DeletePrefix(ctx, storage.WorkspacePrefix(id)); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrWorkspaceNotFound
		}
		return err
	}
	return nil
}

func (s *workspaceService) Membership(ctx context.Context, workspaceID, userID string) (model.Role, error) {
	m, err := s.repo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrWorkspaceNotFound
		}
		return "", err
	}
	return m.Role, nil
}

func (s *workspaceService) ListMembers(ctx context.Context, workspaceID string) ([]model.WorkspaceUser, error) {
	return s.repo.ListMembers(ctx, workspaceID)
}

func (s *workspaceService) AddMember(ctx context.Context, workspaceID, email, role string) (*model.WorkspaceUser, error) {
	r, err := model.ParseRole(role)
	if err != nil {
		return nil, enumError("role", model.Roles)
	}
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	err = s.repo.AddMember(ctx, &model.WorkspaceUser{
		WorkspaceID: workspaceID,
		UserID:      u.ID,
		Role:        r,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("user is already a member")
		}
		return nil, err
	}
	return s.repo.GetMember(ctx, workspaceID, u.ID)
}

func (s *workspaceService) UpdateMemberRole(ctx context.Context, workspaceID, userID, role string) (*model.WorkspaceUser, error) {
	r, err := model.ParseRole(role)
	if err != nil {
		return nil, enumError("role", model.Roles)
	}
	m, err := s.member(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if m.Role == r {
		return m, nil
	}

	if err := s.repo.UpdateMemberRole(ctx, workspaceID, userID, r); err != nil {
		return nil, memberWriteError(err)
	}
	m.Role = r
	return m, nil
}

func (s *workspaceService) RemoveMember(ctx context.Context, workspaceID, userID string) error {
	if _, err := s.member(ctx, workspaceID, userID); err != nil {
		return err
	}
	return memberWriteError(s.repo.RemoveMember(ctx, workspaceID, userID))
}

func (s *workspaceService) Leave(ctx context.Context, workspaceID, userID string) error {
	return s.RemoveMember(ctx, workspaceID, userID)
}

func (s *workspaceService) member(ctx context.Context, workspaceID, userID string) (*model.WorkspaceUser, error) {
	m, err := s.repo.GetMember(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return m, nil
}

func memberWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrMemberNotFound
	case errors.Is(err, repository.ErrLastAdmin):
		return ErrLastAdmin
	}
	return err
}

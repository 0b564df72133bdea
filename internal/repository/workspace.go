package repository

import (
	"context"

	"kioskdesk/internal/model"
)

// WorkspaceRepository persists workspaces and their memberships.
type WorkspaceRepository interface {
	// CreateWithOwner inserts the workspace and an ADMIN membership for ownerID in one transaction.
	CreateWithOwner(ctx context.Context, ws *model.Workspace, ownerID string) (*model.Workspace, error)
	FindByID(ctx context.Context, id string) (*model.Workspace, error)
	// ListForUser returns every workspace userID belongs to, with their role, ordered by name.
	ListForUser(ctx context.Context, userID string) ([]model.WorkspaceWithRole, error)
	Update(ctx context.Context, ws *model.Workspace) (*model.Workspace, error)
	Delete(ctx context.Context, id string) error

	GetMember(ctx context.Context, workspaceID, userID string) (*model.WorkspaceUser, error)
	ListMembers(ctx context.Context, workspaceID string) ([]model.WorkspaceUser, error)
	AddMember(ctx context.Context, m *model.WorkspaceUser) error
	// UpdateMemberRole and RemoveMember lock the workspace's ADMIN rows and fail
	// with ErrLastAdmin instead of leaving the workspace without one.
	UpdateMemberRole(ctx context.Context, workspaceID, userID string, role model.Role) error
	RemoveMember(ctx context.Context, workspaceID, userID string) error
}

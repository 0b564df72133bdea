package model

import "time"

// Workspace is the tenant boundary. Every kiosk, ticket, comment and attachment belongs to exactly one.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkspaceWithRole is a workspace as seen by one of its members.
type WorkspaceWithRole struct {
	Workspace
	Role Role `json:"role"`
}

// WorkspaceUser is a membership row. Email and Name are joined from the user for display.
type WorkspaceUser struct {
	WorkspaceID string    `json:"workspace_id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

package repository

import (
	"context"

	"kioskdesk/internal/model"
)

// KioskFilter narrows a kiosk listing. Zero values match everything.
type KioskFilter struct {
	Status model.KioskStatus
	// Search matches name, serial number or location, case-insensitively.
	Search string
}

// KioskRepository persists kiosks. Every method is scoped to a workspace.
type KioskRepository interface {
	Create(ctx context.Context, k *model.Kiosk) (*model.Kiosk, error)
	// BulkCreate inserts all kiosks in one transaction; nothing is stored if any insert fails.
	BulkCreate(ctx context.Context, ks []model.Kiosk) error
	FindByID(ctx context.Context, workspaceID, id string) (*model.Kiosk, error)
	List(ctx context.Context, workspaceID string, f KioskFilter, pq PageQuery) (*PageResult[model.Kiosk], error)
	// ListAll returns every kiosk in the workspace ordered by serial number.
	ListAll(ctx context.Context, workspaceID string) ([]model.Kiosk, error)
	Update(ctx context.Context, k *model.Kiosk) (*model.Kiosk, error)
	Delete(ctx context.Context, workspaceID, id string) error
}

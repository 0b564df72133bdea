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

// KioskInput is the full set of writable kiosk fields.
type KioskInput struct {
	SerialNumber string `json:"serial_number" validate:"required,max=64"`
	Name         string `json:"name" validate:"required,max=200"`
	Location     string `json:"location" validate:"max=200"`
	Status       string `json:"status"`
	Notes        string `json:"notes" validate:"max=2000"`
}

// KioskPatch changes only the fields that are set.
type KioskPatch struct {
	SerialNumber *string `json:"serial_number"`
	Name         *string `json:"name"`
	Location     *string `json:"location"`
	Status       *string `json:"status"`
	Notes        *string `json:"notes"`
}

// KioskQuery filters and pages a kiosk listing.
type KioskQuery struct {
	Status string
	Search string
	Limit  int
	Offset int
}

type KioskService interface {
	Create(ctx context.Context, workspaceID string, in KioskInput) (*model.Kiosk, error)
	List(ctx context.Context, workspaceID string, q KioskQuery) (*ListResult[model.Kiosk], error)
	Get(ctx context.Context, workspaceID, id string) (*model.Kiosk, error)
	Update(ctx context.Context, workspaceID, id string, p KioskPatch) (*model.Kiosk, error)
	// Delete fails with ErrConflict while tickets still reference the kiosk.
	Delete(ctx context.Context, workspaceID, id string) error
}

type kioskService struct {
	repo repository.KioskRepository
}

func NewKioskService(repo repository.KioskRepository) KioskService {
	return &kioskService{repo: repo}
}

// normalize trims in and parses its status.
func (in *KioskInput) normalize() (model.KioskStatus, error) {
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.Notes = strings.TrimSpace(in.Notes)
	if err := checkStruct(in); err != nil {
		return "", err
	}
	st, err := model.ParseKioskStatus(in.Status)
	if err != nil {
		return "", enumError("status", model.KioskStatuses)
	}
	return st, nil
}

func (s *kioskService) Create(ctx context.Context, workspaceID string, in KioskInput) (*model.Kiosk, error) {
	st, err := in.normalize()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	k, err := s.repo.Create(ctx, &model.Kiosk{
		ID:           uuid.New().String(),
		WorkspaceID:  workspaceID,
		SerialNumber: in.SerialNumber,
		Name:         in.Name,
		Location:     in.Location,
		Status:       st,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("serial number already exists")
		}
		return nil, err
	}
	return k, nil
}

func (s *kioskService) List(ctx context.Context, workspaceID string, q KioskQuery) (*ListResult[model.Kiosk], error) {
	var f repository.KioskFilter
	if q.Status != "" {
		st, err := model.ParseKioskStatus(q.Status)
		if err != nil {
			return nil, enumError("status", model.KioskStatuses)
		}
		f.Status = st
	}
	f.Search = strings.TrimSpace(q.Search)

	limit, offset := normalizePage(q.Limit, q.Offset)
	res, err := s.repo.List(ctx, workspaceID, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ListResult[model.Kiosk]{Items: res.Items, Total: res.Total}, nil
}

func (s *kioskService) Get(ctx context.Context, workspaceID, id string) (*model.Kiosk, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	k, err := s.repo.FindByID(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKioskNotFound
		}
		return nil, err
	}
	return k, nil
}

func (s *kioskService) Update(ctx context.Context, workspaceID, id string, p KioskPatch) (*model.Kiosk, error) {
	k, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	in := KioskInput{
		SerialNumber: pick(p.SerialNumber, k.SerialNumber),
		Name:         pick(p.Name, k.Name),
		Location:     pick(p.Location, k.Location),
		Status:       pick(p.Status, string(k.Status)),
		Notes:        pick(p.Notes, k.Notes),
	}
	st, err := in.normalize()
	if err != nil {
		return nil, err
	}

	k.SerialNumber = in.SerialNumber
	k.Name = in.Name
	k.Location = in.Location
	k.Status = st
	k.Notes = in.Notes
	k.UpdatedAt = time.Now().UTC()

	out, err := s.repo.Update(ctx, k)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrKioskNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, conflict("serial number already exists")
		}
		return nil, err
	}
	return out, nil
}

func (s *kioskService) Delete(ctx context.Context, workspaceID, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	err := s.repo.Delete(ctx, workspaceID, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrKioskNotFound
	case errors.Is(err, repository.ErrReferenced):
		return conflict("kiosk still has tickets")
	}
	return err
}

func pick(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

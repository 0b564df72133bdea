package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
	"kioskdesk/internal/storage"
)

// TicketInput is the full set of writable ticket fields.
type TicketInput struct {
	KioskID     string  `json:"kiosk_id" validate:"required,uuid"`
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Status      string  `json:"status"`
	Priority    string  `json:"priority"`
	AssigneeID  *string `json:"assignee_id" validate:"omitempty,uuid"`
}

// TicketPatch changes only the fields that are set. An empty AssigneeID unassigns.
type TicketPatch struct {
	KioskID     *string `json:"kiosk_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssigneeID  *string `json:"assignee_id"`
}

// TicketQuery filters and pages a ticket listing.
type TicketQuery struct {
	Status     string
	Priority   string
	KioskID    string
	AssigneeID string
	Limit      int
	Offset     int
}

// BoardColumn is one kanban column.
type BoardColumn struct {
	Status  model.TicketStatus `json:"status"`
	Count   int                `json:"count"`
	Tickets []model.Ticket     `json:"tickets"`
}

// Board is a workspace's tickets grouped by status, in column order.
type Board struct {
	Columns []BoardColumn `json:"columns"`
}

type TicketService interface {
	Create(ctx context.Context, workspaceID, userID string, in TicketInput) (*model.Ticket, error)
	List(ctx context.Context, workspaceID string, q TicketQuery) (*ListResult[model.Ticket], error)
	Get(ctx context.Context, workspaceID, id string) (*model.Ticket, error)
	Update(ctx context.Context, workspaceID, id string, p TicketPatch) (*model.Ticket, error)
	Delete(ctx context.Context, workspaceID, id string) error
	// Move changes only the status. Moving to the current status is a no-op.
	Move(ctx context.Context, workspaceID, id, status string) (*model.Ticket, error)
	// Board sorts each column by priority, highest first, then most recently updated.
	Board(ctx context.Context, workspaceID string) (*Board, error)
}

type ticketService struct {
	repo       repository.TicketRepository
	kiosks     repository.KioskRepository
	workspaces repository.WorkspaceRepository
	store      storage.Storage
	metrics    *Metrics
}

func NewTicketService(repo repository.TicketRepository, kiosks repository.KioskRepository, workspaces repository.WorkspaceRepository, store storage.Storage, metrics *Metrics) TicketService {
	return &ticketService{repo: repo, kiosks: kiosks, workspaces: workspaces, store: store, metrics: metrics}
}

type ticketFields struct {
	status   model.TicketStatus
	priority model.TicketPriority
	assignee *string
}

// normalize trims in and parses its enums. An empty assignee becomes nil.
func (in *TicketInput) normalize() (ticketFields, error) {
	in.KioskID = strings.TrimSpace(in.KioskID)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.AssigneeID != nil {
		a := strings.TrimSpace(*in.AssigneeID)
		in.AssigneeID = &a
		if a == "" {
			in.AssigneeID = nil
		}
	}
	if err := checkStruct(in); err != nil {
		return ticketFields{}, err
	}

	st, err := model.ParseTicketStatus(in.Status)
	if err != nil {
		return ticketFields{}, enumError("status", model.TicketStatuses)
	}
	pr, err := model.ParseTicketPriority(in.Priority)
	if err != nil {
		return ticketFields{}, enumError("priority", model.TicketPriorities)
	}
	return ticketFields{status: st, priority: pr, assignee: in.AssigneeID}, nil
}

// resolvedAt returns the resolution time a ticket has once it reaches status.
func resolvedAt(prev *time.Time, status model.TicketStatus, now time.Time) *time.Time {
	if !status.Done() {
		return nil
	}
	if prev != nil {
		return prev
	}
	return &now
}

func (s *ticketService) checkKiosk(ctx context.Context, workspaceID, kioskID string) error {
	_, err := s.kiosks.FindByID(ctx, workspaceID, kioskID)
	if errors.Is(err, sql.ErrNoRows) {
		return invalid("kiosk_id", "does not exist in this workspace")
	}
	return err
}

func (s *ticketService) checkAssignee(ctx context.Context, workspaceID string, assignee *string) error {
	if assignee == nil {
		return nil
	}
	m, err := s.workspaces.GetMember(ctx, workspaceID, *assignee)
	if errors.Is(err, sql.ErrNoRows) {
		return invalid("assignee_id", "is not a member of this workspace")
	}
	if err != nil {
		return err
	}
	if !m.Role.AtLeast(model.RoleMember) {
		return invalid("assignee_id", "must have MEMBER or ADMIN role")
	}
	return nil
}

func (s *ticketService) Create(ctx context.Context, workspaceID, userID string, in TicketInput) (*model.Ticket, error) {
	f, err := in.normalize()
	if err != nil {
		return nil, err
	}
	if err := s.checkKiosk(ctx, workspaceID, in.KioskID); err != nil {
		return nil, err
	}
	if err := s.checkAssignee(ctx, workspaceID, f.assignee); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	t, err := s.repo.Create(ctx, &model.Ticket{
		ID:          uuid.New().String(),
		WorkspaceID: workspaceID,
		KioskID:     in.KioskID,
		Title:       in.Title,
		Description: in.Description,
		Status:      f.status,
		Priority:    f.priority,
		AssigneeID:  f.assignee,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
		ResolvedAt:  resolvedAt(nil, f.status, now),
	})
	if err != nil {
		return nil, err
	}
	s.metrics.TicketsCreated.Inc()
	return t, nil
}

func (s *ticketService) List(ctx context.Context, workspaceID string, q TicketQuery) (*ListResult[model.Ticket], error) {
	f := repository.TicketFilter{
		KioskID:    strings.TrimSpace(q.KioskID),
		AssigneeID: strings.TrimSpace(q.AssigneeID),
	}
	if q.Status != "" {
		st, err := model.ParseTicketStatus(q.Status)
		if err != nil {
			return nil, enumError("status", model.TicketStatuses)
		}
		f.Status = st
	}
	if q.Priority != "" {
		pr, err := model.ParseTicketPriority(q.Priority)
		if err != nil {
			return nil, enumError("priority", model.TicketPriorities)
		}
		f.Priority = pr
	}
	if f.KioskID != "" && !isUUID(f.KioskID) {
		return nil, invalid("kiosk_id", "must be a valid id")
	}
	if f.AssigneeID != "" && !isUUID(f.AssigneeID) {
		return nil, invalid("assignee_id", "must be a valid id")
	}

	limit, offset := normalizePage(q.Limit, q.Offset)
	res, err := s.repo.List(ctx, workspaceID, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ListResult[model.Ticket]{Items: res.Items, Total: res.Total}, nil
}

func (s *ticketService) Get(ctx context.Context, workspaceID, id string) (*model.Ticket, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	t, err := s.repo.FindByID(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *ticketService) Update(ctx context.Context, workspaceID, id string, p TicketPatch) (*model.Ticket, error) {
	t, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	in := TicketInput{
		KioskID:     pick(p.KioskID, t.KioskID),
		Title:       pick(p.Title, t.Title),
		Description: pick(p.Description, t.Description),
		Status:      pick(p.Status, string(t.Status)),
		Priority:    pick(p.Priority, string(t.Priority)),
		AssigneeID:  t.AssigneeID,
	}
	if p.AssigneeID != nil {
		in.AssigneeID = p.AssigneeID
	}
	f, err := in.normalize()
	if err != nil {
		return nil, err
	}
	if in.KioskID != t.KioskID {
		if err := s.checkKiosk(ctx, workspaceID, in.KioskID); err != nil {
			return nil, err
		}
	}
	if p.AssigneeID != nil {
		if err := s.checkAssignee(ctx, workspaceID, f.assignee); err != nil {
			return nil, err
		}
	}

	from := t.Status
	now := time.Now().UTC()
	t.KioskID = in.KioskID
	t.Title = in.Title
	t.Description = in.Description
	t.Status = f.status
	t.Priority = f.priority
	t.AssigneeID = f.assignee
	t.ResolvedAt = resolvedAt(t.ResolvedAt, f.status, now)
	t.UpdatedAt = now

	out, err := s.repo.Update(ctx, t)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	s.recordTransition(from, out.Status)
	return out, nil
}

func (s *ticketService) Delete(ctx context.Context, workspaceID, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.store.DeletePrefix(ctx, storage.TicketPrefix(workspaceID, id)); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, workspaceID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTicketNotFound
		}
		return err
	}
	return nil
}

func (s *ticketService) Move(ctx context.Context, workspaceID, id, status string) (*model.Ticket, error) {
	if strings.TrimSpace(status) == "" {
		return nil, invalid("status", "is required")
	}
	st, err := model.ParseTicketStatus(status)
	if err != nil {
		return nil, enumError("status", model.TicketStatuses)
	}
	t, err := s.Get(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if t.Status == st {
		return t, nil
	}

	now := time.Now().UTC()
	out, err := s.repo.UpdateStatus(ctx, workspaceID, id, st, resolvedAt(t.ResolvedAt, st, now), now)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	s.recordTransition(t.Status, st)
	return out, nil
}

func (s *ticketService) recordTransition(from, to model.TicketStatus) {
	if from != to {
		s.metrics.StatusChanges.WithLabelValues(string(from), string(to)).Inc()
	}
}

func (s *ticketService) Board(ctx context.Context, workspaceID string) (*Board, error) {
	all, err := s.repo.ListAll(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	columns := make([]BoardColumn, len(model.TicketStatuses))
	index := make(map[model.TicketStatus]int, len(model.TicketStatuses))
	for i, st := range model.TicketStatuses {
		columns[i] = BoardColumn{Status: st, Tickets: make([]model.Ticket, 0)}
		index[st] = i
	}
	for _, t := range all {
		if i, ok := index[t.Status]; ok {
			columns[i].Tickets = append(columns[i].Tickets, t)
		}
	}
	for i := range columns {
		ts := columns[i].Tickets
		sort.SliceStable(ts, func(a, b int) bool {
			if wa, wb := ts[a].Priority.Weight(), ts[b].Priority.Weight(); wa != wb {
				return wa > wb
			}
			return ts[a].UpdatedAt.After(ts[b].UpdatedAt)
		})
		columns[i].Count = len(ts)
	}
	return &Board{Columns: columns}, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

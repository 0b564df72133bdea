package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"kioskdesk/internal/model"
	repoMocks "kioskdesk/internal/repository/mocks"
	storeMocks "kioskdesk/internal/storage/mocks"
)

type ticketDeps struct {
	repo       *repoMocks.MockTicketRepository
	kiosks     *repoMocks.MockKioskRepository
	workspaces *repoMocks.MockWorkspaceRepository
	store      *storeMocks.MockStorage
	metrics    *Metrics
}

func newTicketService() (TicketService, ticketDeps) {
	d := ticketDeps{
		repo:       new(repoMocks.MockTicketRepository),
		kiosks:     new(repoMocks.MockKioskRepository),
		workspaces: new(repoMocks.MockWorkspaceRepository),
		store:      new(storeMocks.MockStorage),
		metrics:    newTestMetrics(),
	}
	return NewTicketService(d.repo, d.kiosks, d.workspaces, d.store, d.metrics), d
}

func strPtr(s string) *string { return &s }

func TestTicketService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, d := newTicketService()
		d.kiosks.On("FindByID", ctx, wsID, kioskID).Return(&model.Kiosk{ID: kioskID}, nil)
		d.workspaces.On("GetMember", ctx, wsID, user2ID).Return(&model.WorkspaceUser{Role: model.RoleMember}, nil)
		d.repo.On("Create", ctx, mock.MatchedBy(func(tk *model.Ticket) bool {
			return tk.Title == "Printer jam" &&
				tk.Status == model.TicketOpen &&
				tk.Priority == model.PriorityMedium &&
				*tk.AssigneeID == user2ID &&
				tk.CreatedBy == userID &&
				tk.ResolvedAt == nil
		})).Return(&model.Ticket{ID: ticketID}, nil)

		tk, err := svc.Create(ctx, wsID, userID, TicketInput{KioskID: kioskID, Title: " Printer jam ", AssigneeID: strPtr(user2ID)})
		require.NoError(t, err)
		assert.Equal(t, ticketID, tk.ID)
		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.TicketsCreated))
	})

	t.Run("created resolved gets timestamp", func(t *testing.T) {
		svc, d := newTicketService()
		d.kiosks.On("FindByID", ctx, wsID, kioskID).Return(&model.Kiosk{ID: kioskID}, nil)
		d.repo.On("Create", ctx, mock.MatchedBy(func(tk *model.Ticket) bool {
			return tk.Status == model.TicketResolved && tk.ResolvedAt != nil && tk.AssigneeID == nil
		})).Return(&model.Ticket{ID: ticketID}, nil)

		_, err := svc.Create(ctx, wsID, userID, TicketInput{KioskID: kioskID, Title: "Done", Status: "resolved", AssigneeID: strPtr("")})
		require.NoError(t, err)
	})

	t.Run("kiosk from another workspace", func(t *testing.T) {
		svc, d := newTicketService()
		d.kiosks.On("FindByID", ctx, wsID, kioskID).Return(nil, sql.ErrNoRows)

		_, err := svc.Create(ctx, wsID, userID, TicketInput{KioskID: kioskID, Title: "Jam"})
		requireValidation(t, err, "kiosk_id")
	})

	t.Run("viewer cannot be assigned", func(t *testing.T) {
		svc, d := newTicketService()
		d.kiosks.On("FindByID", ctx, wsID, kioskID).Return(&model.Kiosk{ID: kioskID}, nil)
		d.workspaces.On("GetMember", ctx, wsID, user2ID).Return(&model.WorkspaceUser{Role: model.RoleViewer}, nil)

		_, err := svc.Create(ctx, wsID, userID, TicketInput{KioskID: kioskID, Title: "Jam", AssigneeID: strPtr(user2ID)})
		requireValidation(t, err, "assignee_id")
	})

	t.Run("non-member cannot be assigned", func(t *testing.T) {
		svc, d := newTicketService()
		d.kiosks.On("FindByID", ctx, wsID, kioskID).Return(&model.Kiosk{ID: kioskID}, nil)
		d.workspaces.On("GetMember", ctx, wsID, user2ID).Return(nil, sql.ErrNoRows)

		_, err := svc.Create(ctx, wsID, userID, TicketInput{KioskID: kioskID, Title: "Jam", AssigneeID: strPtr(user2ID)})
		requireValidation(t, err, "assignee_id")
	})

	t.Run("validation", func(t *testing.T) {
		svc, _ := newTicketService()
		_, err := svc.Create(ctx, wsID, userID, TicketInput{KioskID: kioskID})
		requireValidation(t, err, "title")

		_, err = svc.Create(ctx, wsID, userID, TicketInput{KioskID: kioskID, Title: "Jam", Priority: "critical"})
		requireValidation(t, err, "priority")
	})
}

func TestTicketService_Move(t *testing.T) {
	ctx := context.Background()
	resolved := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	t.Run("same status is a no-op", func(t *testing.T) {
		svc, d := newTicketService()
		d.repo.On("FindByID", ctx, wsID, ticketID).Return(&model.Ticket{ID: ticketID, Status: model.TicketInProgress}, nil)

		tk, err := svc.Move(ctx, wsID, ticketID, "in_progress")
		require.NoError(t, err)
		assert.Equal(t, model.TicketInProgress, tk.Status)
		d.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("resolving stamps resolved_at", func(t *testing.T) {
		svc, d := newTicketService()
		d.repo.On("FindByID", ctx, wsID, ticketID).Return(&model.Ticket{ID: ticketID, Status: model.TicketOpen}, nil)
		d.repo.On("UpdateStatus", ctx, wsID, ticketID, model.TicketResolved,
			mock.MatchedBy(func(ts *time.Time) bool { return ts != nil }), mock.Anything,
		).Return(&model.Ticket{ID: ticketID, Status: model.TicketResolved}, nil)

		_, err := svc.Move(ctx, wsID, ticketID, "RESOLVED")
		require.NoError(t, err)
		assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.StatusChanges.WithLabelValues("OPEN", "RESOLVED")))
	})

	t.Run("closing keeps the original resolution time", func(t *testing.T) {
		svc, d := newTicketService()
		d.repo.On("FindByID", ctx, wsID, ticketID).Return(&model.Ticket{ID: ticketID, Status: model.TicketResolved, ResolvedAt: &resolved}, nil)
		d.repo.On("UpdateStatus", ctx, wsID, ticketID, model.TicketClosed,
			mock.MatchedBy(func(ts *time.Time) bool { return ts != nil && ts.Equal(resolved) }), mock.Anything,
		).Return(&model.Ticket{ID: ticketID, Status: model.TicketClosed}, nil)

		_, err := svc.Move(ctx, wsID, ticketID, "CLOSED")
		require.NoError(t, err)
	})

	t.Run("reopening clears resolved_at", func(t *testing.T) {
		svc, d := newTicketService()
		d.repo.On("FindByID", ctx, wsID, ticketID).Return(&model.Ticket{ID: ticketID, Status: model.TicketClosed, ResolvedAt: &resolved}, nil)
		d.repo.On("UpdateStatus", ctx, wsID, ticketID, model.TicketOpen, (*time.Time)(nil), mock.Anything).
			Return(&model.Ticket{ID: ticketID, Status: model.TicketOpen}, nil)

		_, err := svc.Move(ctx, wsID, ticketID, "open")
		require.NoError(t, err)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc, _ := newTicketService()
		_, err := svc.Move(ctx, wsID, ticketID, "DONE")
		requireValidation(t, err, "status")

		_, err = svc.Move(ctx, wsID, ticketID, "")
		requireValidation(t, err, "status")
	})

	t.Run("missing ticket", func(t *testing.T) {
		svc, d := newTicketService()
		d.repo.On("FindByID", ctx, wsID, ticketID).Return(nil, sql.ErrNoRows)
		_, err := svc.Move(ctx, wsID, ticketID, "OPEN")
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestTicketService_Update(t *testing.T) {
	ctx := context.Background()
	svc, d := newTicketService()
	d.repo.On("FindByID", ctx, wsID, ticketID).Return(&model.Ticket{
		ID: ticketID, WorkspaceID: wsID, KioskID: kioskID, Title: "Jam",
		Status: model.TicketOpen, Priority: model.PriorityLow, AssigneeID: strPtr(user2ID),
	}, nil)
	d.kiosks.On("FindByID", ctx, wsID, kiosk2ID).Return(&model.Kiosk{ID: kiosk2ID}, nil)
	d.repo.On("Update", ctx, mock.MatchedBy(func(tk *model.Ticket) bool {
		return tk.KioskID == kiosk2ID &&
			tk.Title == "Jam" &&
			tk.Priority == model.PriorityUrgent &&
			tk.Status == model.TicketClosed &&
			tk.ResolvedAt != nil &&
			tk.AssigneeID == nil
	})).Return(&model.Ticket{ID: ticketID, Status: model.TicketClosed}, nil)

	_, err := svc.Update(ctx, wsID, ticketID, TicketPatch{
		KioskID:    strPtr(kiosk2ID),
		Priority:   strPtr("urgent"),
		Status:     strPtr("closed"),
		AssigneeID: strPtr(""),
	})
	require.NoError(t, err)
	d.workspaces.AssertNotCalled(t, "GetMember", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, float64(1), testutil.ToFloat64(d.metrics.StatusChanges.WithLabelValues("OPEN", "CLOSED")))
}

func TestTicketService_Board(t *testing.T) {
	ctx := context.Background()
	svc, d := newTicketService()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	d.repo.On("ListAll", ctx, wsID).Return([]model.Ticket{
		{ID: "low-new", Status: model.TicketOpen, Priority: model.PriorityLow, UpdatedAt: base.Add(3 * time.Hour)},
		{ID: "urgent", Status: model.TicketOpen, Priority: model.PriorityUrgent, UpdatedAt: base},
		{ID: "low-old", Status: model.TicketOpen, Priority: model.PriorityLow, UpdatedAt: base.Add(time.Hour)},
		{ID: "wip", Status: model.TicketInProgress, Priority: model.PriorityHigh, UpdatedAt: base},
		{ID: "closed", Status: model.TicketClosed, Priority: model.PriorityMedium, UpdatedAt: base},
	}, nil)

	b, err := svc.Board(ctx, wsID)
	require.NoError(t, err)
	require.Len(t, b.Columns, 4)

	ids := func(col BoardColumn) []string {
		out := make([]string, 0, len(col.Tickets))
		for _, tk := range col.Tickets {
			out = append(out, tk.ID)
		}
		return out
	}
	assert.Equal(t, model.TicketOpen, b.Columns[0].Status)
	assert.Equal(t, []string{"urgent", "low-new", "low-old"}, ids(b.Columns[0]))
	assert.Equal(t, 3, b.Columns[0].Count)
	assert.Equal(t, []string{"wip"}, ids(b.Columns[1]))
	assert.Equal(t, 0, b.Columns[2].Count)
	assert.NotNil(t, b.Columns[2].Tickets)
	assert.Equal(t, []string{"closed"}, ids(b.Columns[3]))
}

func TestTicketService_List(t *testing.T) {
	svc, _ := newTicketService()
	_, err := svc.List(context.Background(), wsID, TicketQuery{KioskID: "not-a-uuid"})
	requireValidation(t, err, "kiosk_id")

	_, err = svc.List(context.Background(), wsID, TicketQuery{Priority: "meh"})
	requireValidation(t, err, "priority")
}

func TestTicketService_Delete(t *testing.T) {
	ctx := context.Background()
	prefix := "workspaces/" + wsID + "/tickets/" + ticketID + "/"

	t.Run("removes attachments then the row", func(t *testing.T) {
		svc, d := newTicketService()
		d.store.On("DeletePrefix", ctx, prefix).Return(nil)
		d.repo.On("Delete", ctx, wsID, ticketID).Return(nil)

		assert.NoError(t, svc.Delete(ctx, wsID, ticketID))
		d.store.AssertExpectations(t)
		d.repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, d := newTicketService()
		d.store.On("DeletePrefix", ctx, prefix).Return(nil)
		d.repo.On("Delete", ctx, wsID, ticketID).Return(sql.ErrNoRows)

		assert.ErrorIs(t, svc.Delete(ctx, wsID, ticketID), ErrTicketNotFound)
	})

	t.Run("storage failure keeps the row", func(t *testing.T) {
		svc, d := newTicketService()
		d.store.On("DeletePrefix", ctx, prefix).Return(errors.New("s3 down"))

		assert.EqualError(t, svc.Delete(ctx, wsID, ticketID), "delete storage: s3 down")
		d.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("id required", func(t *testing.T) {
		svc, _ := newTicketService()
		assert.ErrorIs(t, svc.Delete(ctx, wsID, ""), ErrIDRequired)
	})
}

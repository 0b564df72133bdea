package service

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"kioskdesk/internal/csvio"
	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
)

// ImportResult reports how many rows an import stored.
type ImportResult struct {
	Imported int `json:"imported"`
}

// TransferService moves kiosks and tickets in and out as CSV.
// Imports validate every row first and store nothing unless all rows pass;
// validation failures are returned as csvio.Errors.
type TransferService interface {
	ExportKiosks(ctx context.Context, workspaceID string, w io.Writer) error
	ExportTickets(ctx context.Context, workspaceID string, w io.Writer) error
	ImportKiosks(ctx context.Context, workspaceID string, r io.Reader) (*ImportResult, error)
	ImportTickets(ctx context.Context, workspaceID, userID string, r io.Reader) (*ImportResult, error)
}

// TransferLimits bound an import.
type TransferLimits struct {
	MaxBytes int64
	MaxRows  int
}

type transferService struct {
	kiosks     repository.KioskRepository
	tickets    repository.TicketRepository
	workspaces repository.WorkspaceRepository
	metrics    *Metrics
	limits     TransferLimits
}

func NewTransferService(kiosks repository.KioskRepository, tickets repository.TicketRepository, workspaces repository.WorkspaceRepository, metrics *Metrics, limits TransferLimits) TransferService {
	return &transferService{kiosks: kiosks, tickets: tickets, workspaces: workspaces, metrics: metrics, limits: limits}
}

func (s *transferService) ExportKiosks(ctx context.Context, workspaceID string, w io.Writer) error {
	ks, err := s.kiosks.ListAll(ctx, workspaceID)
	if err != nil {
		return err
	}
	cw, err := csvio.NewWriter(w, csvio.KioskHeader)
	if err != nil {
		return err
	}
	for _, k := range ks {
		if err := cw.Write([]string{k.SerialNumber, k.Name, k.Location, string(k.Status), k.Notes}); err != nil {
			return err
		}
	}
	return cw.Flush()
}

func (s *transferService) ExportTickets(ctx context.Context, workspaceID string, w io.Writer) error {
	ts, err := s.tickets.ListAll(ctx, workspaceID)
	if err != nil {
		return err
	}
	ks, err := s.kiosks.ListAll(ctx, workspaceID)
	if err != nil {
		return err
	}
	members, err := s.workspaces.ListMembers(ctx, workspaceID)
	if err != nil {
		return err
	}

	kiosks := make(map[string]model.Kiosk, len(ks))
	for _, k := range ks {
		kiosks[k.ID] = k
	}
	emails := make(map[string]string, len(members))
	for _, m := range members {
		emails[m.UserID] = m.Email
	}

	cw, err := csvio.NewWriter(w, csvio.TicketExportHeader)
	if err != nil {
		return err
	}
	for _, t := range ts {
		k := kiosks[t.KioskID]
		var assignee string
		if t.AssigneeID != nil {
			assignee = emails[*t.AssigneeID]
		}
		row := []string{
			t.ID, k.SerialNumber, k.Name, t.Title, t.Description, string(t.Status), string(t.Priority),
			assignee, t.CreatedAt.UTC().Format(time.RFC3339), t.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// read returns the well-formed records and the row errors found beside them.
// The error is set only when nothing can be validated.
func (s *transferService) read(r io.Reader, header []string) ([]csvio.Record, csvio.Errors, error) {
	if r == nil {
		return nil, nil, ErrReaderNil
	}
	if s.limits.MaxBytes > 0 {
		r = &maxBytesReader{r: r, n: s.limits.MaxBytes}
	}
	recs, err := csvio.Read(r, header, s.limits.MaxRows)
	if errors.Is(err, ErrTooLarge) {
		return nil, nil, ErrTooLarge
	}
	var rowErrs csvio.Errors
	if errors.As(err, &rowErrs) && len(recs) > 0 {
		return recs, rowErrs, nil
	}
	return recs, nil, err
}

// reject reports errs sorted by line and counts the rejected rows.
func (s *transferService) reject(entity string, errs csvio.Errors) error {
	errs.Sort()
	rows := make(map[int]struct{}, len(errs))
	for _, e := range errs {
		rows[e.Line] = struct{}{}
	}
	s.count(entity, 0, len(rows))
	return errs
}

func (s *transferService) count(entity string, imported, rejected int) {
	s.metrics.ImportRows.WithLabelValues(entity, "imported").Add(float64(imported))
	s.metrics.ImportRows.WithLabelValues(entity, "rejected").Add(float64(rejected))
}

func addFieldErrors(errs *csvio.Errors, line int, fes []*ValidationError) {
	for _, fe := range fes {
		errs.Add(line, fe.Field, fe.Message)
	}
}

func (s *transferService) ImportKiosks(ctx context.Context, workspaceID string, r io.Reader) (*ImportResult, error) {
	recs, errs, err := s.read(r, csvio.KioskHeader)
	if err != nil {
		return nil, err
	}
	existing, err := s.kiosks.ListAll(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]int, len(existing)+len(recs))
	for _, k := range existing {
		seen[k.SerialNumber] = 0
	}

	var (
		out = make([]model.Kiosk, 0, len(recs))
		now = time.Now().UTC()
	)
	for _, rec := range recs {
		in := KioskInput{
			SerialNumber: rec.Get("serial_number"),
			Name:         rec.Get("name"),
			Location:     rec.Get("location"),
			Status:       rec.Get("status"),
			Notes:        rec.Get("notes"),
		}
		before := len(errs)
		addFieldErrors(&errs, rec.Line, fieldErrors(in))
		st, err := model.ParseKioskStatus(in.Status)
		if err != nil {
			errs.Add(rec.Line, "status", enumError("status", model.KioskStatuses).Message)
		}
		if line, dup := seen[in.SerialNumber]; dup && in.SerialNumber != "" {
			if line == 0 {
				errs.Add(rec.Line, "serial_number", "already exists in this workspace")
			} else {
				errs.Add(rec.Line, "serial_number", "duplicates line "+strconv.Itoa(line))
			}
		} else if in.SerialNumber != "" {
			seen[in.SerialNumber] = rec.Line
		}
		if len(errs) > before {
			continue
		}

		out = append(out, model.Kiosk{
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
	}
	if len(errs) > 0 {
		return nil, s.reject("kiosk", errs)
	}

	if err := s.kiosks.BulkCreate(ctx, out); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("serial number already exists")
		}
		return nil, err
	}
	s.count("kiosk", len(out), 0)
	return &ImportResult{Imported: len(out)}, nil
}

func (s *transferService) ImportTickets(ctx context.Context, workspaceID, userID string, r io.Reader) (*ImportResult, error) {
	recs, errs, err := s.read(r, csvio.TicketImportHeader)
	if err != nil {
		return nil, err
	}
	ks, err := s.kiosks.ListAll(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	bySerial := make(map[string]string, len(ks))
	for _, k := range ks {
		bySerial[k.SerialNumber] = k.ID
	}

	var (
		out = make([]model.Ticket, 0, len(recs))
		now = time.Now().UTC()
	)
	for _, rec := range recs {
		serial := rec.Get("kiosk_serial")
		kioskID, known := bySerial[serial]
		in := TicketInput{
			KioskID:     kioskID,
			Title:       rec.Get("title"),
			Description: rec.Get("description"),
			Status:      rec.Get("status"),
			Priority:    rec.Get("priority"),
		}

		before := len(errs)
		switch {
		case serial == "":
			errs.Add(rec.Line, "kiosk_serial", "is required")
		case !known:
			errs.Add(rec.Line, "kiosk_serial", "no kiosk with this serial number")
		}
		for _, fe := range fieldErrors(in) {
			if fe.Field != "kiosk_id" {
				errs.Add(rec.Line, fe.Field, fe.Message)
			}
		}
		st, err := model.ParseTicketStatus(in.Status)
		if err != nil {
			errs.Add(rec.Line, "status", enumError("status", model.TicketStatuses).Message)
		}
		pr, err := model.ParseTicketPriority(in.Priority)
		if err != nil {
			errs.Add(rec.Line, "priority", enumError("priority", model.TicketPriorities).Message)
		}
		if len(errs) > before {
			continue
		}

		out = append(out, model.Ticket{
			ID:          uuid.New().String(),
			WorkspaceID: workspaceID,
			KioskID:     kioskID,
			Title:       in.Title,
			Description: in.Description,
			Status:      st,
			Priority:    pr,
			CreatedBy:   userID,
			CreatedAt:   now,
			UpdatedAt:   now,
			ResolvedAt:  resolvedAt(nil, st, now),
		})
	}
	if len(errs) > 0 {
		return nil, s.reject("ticket", errs)
	}

	if err := s.tickets.BulkCreate(ctx, out); err != nil {
		return nil, err
	}
	s.count("ticket", len(out), 0)
	s.metrics.TicketsCreated.Add(float64(len(out)))
	return &ImportResult{Imported: len(out)}, nil
}

// maxBytesReader fails with ErrTooLarge once more than n bytes are read.
type maxBytesReader struct {
	r io.Reader
	n int64
}

func (m *maxBytesReader) Read(p []byte) (int, error) {
	if m.n < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > m.n+1 {
		p = p[:m.n+1]
	}
	n, err := m.r.Read(p)
	m.n -= int64(n)
	if m.n < 0 {
		return 0, ErrTooLarge
	}
	return n, err
}

package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"kioskdesk/internal/model"
	"kioskdesk/internal/repository"
	"kioskdesk/internal/storage"
)

// sniffLen is how much of an upload is read to detect its content type.
const sniffLen = 3072

// Upload describes an incoming attachment.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// DownloadURL is a presigned, time-limited link to an attachment.
type DownloadURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type AttachmentService interface {
	// Upload stores the object, then its row. A failed insert removes the object again.
	Upload(ctx context.Context, workspaceID, ticketID, uploaderID string, up Upload) (*model.Attachment, error)
	List(ctx context.Context, workspaceID, ticketID string) ([]model.Attachment, error)
	Get(ctx context.Context, workspaceID, ticketID, id string) (*model.Attachment, error)
	// Download streams the object. The caller closes the reader.
	Download(ctx context.Context, workspaceID, ticketID, id string) (io.ReadCloser, *model.Attachment, error)
	URL(ctx context.Context, workspaceID, ticketID, id string) (*DownloadURL, error)
	// Delete is allowed for the uploader and for workspace admins.
	Delete(ctx context.Context, workspaceID, ticketID, id string, actor Actor) error
}

type attachmentService struct {
	store     storage.Storage
	repo      repository.AttachmentRepository
	tickets   repository.TicketRepository
	maxBytes  int64
	urlExpiry time.Duration
}

func NewAttachmentService(store storage.Storage, repo repository.AttachmentRepository, tickets repository.TicketRepository, maxBytes int64, urlExpiry time.Duration) AttachmentService {
	return &attachmentService{store: store, repo: repo, tickets: tickets, maxBytes: maxBytes, urlExpiry: urlExpiry}
}

// sniff fills in a missing or generic content type from the first bytes of r.
func sniff(r io.Reader, contentType string) (io.Reader, string, error) {
	if contentType != "" && contentType != "application/octet-stream" {
		return r, contentType, nil
	}
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), r), mimetype.Detect(head).String(), nil
}

func (s *attachmentService) Upload(ctx context.Context, workspaceID, ticketID, uploaderID string, up Upload) (*model.Attachment, error) {
	if up.Reader == nil {
		return nil, ErrReaderNil
	}
	if s.maxBytes > 0 && up.Size > s.maxBytes {
		return nil, ErrTooLarge
	}
	name := filepath.Base(strings.TrimSpace(up.Filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return nil, invalid("file", "must have a name")
	}
	if err := ticketExists(ctx, s.tickets, workspaceID, ticketID); err != nil {
		return nil, err
	}

	r, contentType, err := sniff(up.Reader, up.ContentType)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	id := uuid.New().String()
	key := storage.AttachmentKey(workspaceID, ticketID, id+strings.ToLower(filepath.Ext(name)))
	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        up.Size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	stored, err := s.repo.Create(ctx, &model.Attachment{
		ID:          id,
		WorkspaceID: workspaceID,
		TicketID:    ticketID,
		Filename:    name,
		StoragePath: objInfo.Key,
		Size:        objInfo.Size,
		ContentType: objInfo.ContentType,
		UploadedBy:  uploaderID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *attachmentService) List(ctx context.Context, workspaceID, ticketID string) ([]model.Attachment, error) {
	if err := ticketExists(ctx, s.tickets, workspaceID, ticketID); err != nil {
		return nil, err
	}
	return s.repo.ListByTicket(ctx, workspaceID, ticketID)
}

func (s *attachmentService) Get(ctx context.Context, workspaceID, ticketID, id string) (*model.Attachment, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	a, err := s.repo.FindByID(ctx, workspaceID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	if a.TicketID != ticketID {
		return nil, ErrAttachmentNotFound
	}
	return a, nil
}

func (s *attachmentService) Download(ctx context.Context, workspaceID, ticketID, id string) (io.ReadCloser, *model.Attachment, error) {
	a, err := s.Get(ctx, workspaceID, ticketID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, a.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("get from storage: %w", err)
	}
	return rc, a, nil
}

func (s *attachmentService) URL(ctx context.Context, workspaceID, ticketID, id string) (*DownloadURL, error) {
	a, err := s.Get(ctx, workspaceID, ticketID, id)
	if err != nil {
		return nil, err
	}
	u, err := s.store.PresignGet(ctx, a.StoragePath, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign: %w", err)
	}
	return &DownloadURL{URL: u, ExpiresAt: time.Now().UTC().Add(s.urlExpiry)}, nil
}

// Delete removes the object first; if that fails the row is kept so the object stays reachable.
func (s *attachmentService) Delete(ctx context.Context, workspaceID, ticketID, id string, actor Actor) error {
	a, err := s.Get(ctx, workspaceID, ticketID, id)
	if err != nil {
		return err
	}
	if !actor.may(a.UploadedBy) {
		return ErrForbidden
	}
	if err := s.store.Delete(ctx, a.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if err := s.repo.Delete(ctx, workspaceID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAttachmentNotFound
		}
		return err
	}
	return nil
}

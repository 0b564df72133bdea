// Package storage holds attachment bytes in an S3-compatible object store.
// Implementations stream content and never touch local disk.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions describe an upload. Size is the exact byte count, or -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store used for ticket attachments.
type Storage interface {
	// Put uploads r under key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get returns the object's content as a stream. The caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	// DeletePrefix removes every object whose key starts with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
	// PresignGet returns a time-limited download URL that needs no credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// AttachmentKey is the object key for an attachment stored under a ticket.
func AttachmentKey(workspaceID, ticketID, objectName string) string {
	return TicketPrefix(workspaceID, ticketID) + objectName
}

// TicketPrefix is the key prefix shared by all attachments of a ticket.
func TicketPrefix(workspaceID, ticketID string) string {
	return WorkspacePrefix(workspaceID) + "tickets/" + ticketID + "/"
}

// WorkspacePrefix is the key prefix shared by all objects of a workspace.
func WorkspacePrefix(workspaceID string) string {
	return "workspaces/" + workspaceID + "/"
}

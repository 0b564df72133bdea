package service

import (
	"errors"
	"fmt"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLastAdmin          = errors.New("workspace must keep at least one admin")
	ErrTooLarge           = errors.New("payload too large")
	ErrReaderNil          = errors.New("reader is nil")
)

// NotFoundError names the missing resource. It matches ErrNotFound.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

var (
	ErrUserNotFound       = &NotFoundError{Resource: "user"}
	ErrWorkspaceNotFound  = &NotFoundError{Resource: "workspace"}
	ErrMemberNotFound     = &NotFoundError{Resource: "member"}
	ErrKioskNotFound      = &NotFoundError{Resource: "kiosk"}
	ErrTicketNotFound     = &NotFoundError{Resource: "ticket"}
	ErrCommentNotFound    = &NotFoundError{Resource: "comment"}
	ErrAttachmentNotFound = &NotFoundError{Resource: "attachment"}
)

// ValidationError reports an invalid input field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func conflict(msg string) error {
	return fmt.Errorf("%w: %s", ErrConflict, msg)
}

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) and contain no business logic.
// Lookups that find nothing return sql.ErrNoRows.
package repository

import "errors"

var (
	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced reports a foreign key violation: the row is still referenced, or references a missing row.
	ErrReferenced = errors.New("record is referenced")
	// ErrLastAdmin reports a membership write that would leave a workspace without an ADMIN.
	ErrLastAdmin = errors.New("workspace would have no admin")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

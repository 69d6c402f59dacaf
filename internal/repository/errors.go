// Package repository defines error types that are reused across
// multiple repositories. Sentinel values let handlers distinguish
// failure scenarios: ErrNotFound maps to 404, ErrForbidden to 403 and
// ErrConflict to 409 (duplicate bookmark, duplicate chapter order).
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write collides with existing state,
// such as bookmarking an already bookmarked story or reusing a
// chapter order within the same story.
var ErrConflict = errors.New("conflict")

// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource scoped to a
// different warehouse, while ErrConflict signals that an operation
// cannot proceed due to the current state of a record (e.g.
// cancelling an order that has already been decided).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource outside their scope, such as a storage manager
// deciding an order for another warehouse. Handlers should
// translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed
// because of conflicting state, such as approving an order that is
// no longer pending. Handlers should translate this into an HTTP
// 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by user creation when the email is
// already registered. Handlers should translate this into an HTTP
// 409 response.
var ErrEmailExists = errors.New("email already exists")

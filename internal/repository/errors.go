// Package repository implements the MySQL persistence layer. Sentinel
// errors defined here let services and handlers branch on failure causes
// without depending on driver error codes.
package repository

import "errors"

// ErrEmailExists is returned when an insert violates the unique email
// constraint. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrNotFound is returned when a lookup matches no row. It deliberately
// covers users, reset tokens and tasks alike; callers decide how much of
// that to reveal.
var ErrNotFound = errors.New("not found")

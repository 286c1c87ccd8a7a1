// Package repository provides the typed CRUD layer over the portal
// document: one repository per collection, each enforcing its own
// uniqueness and referential-integrity invariants before anything is
// persisted. A failed check leaves the persisted document untouched.
package repository

import (
	"errors"
	"fmt"
)

// MinPasswordLen is the minimum accepted password length, shared by
// registration, admin creation and password reset.
const MinPasswordLen = 6

// ErrNotFound reports an operation referencing a stale id. Callers
// treat it as a no-op: it is logged internally, never shown to the user.
var ErrNotFound = errors.New("repository: not found")

// ValidationError reports bad or missing input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UniquenessError reports a natural-key collision.
type UniquenessError struct {
	Field string
	Value string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Field, e.Value)
}

// ReferentialIntegrityError reports a delete blocked by live references.
type ReferentialIntegrityError struct {
	Entity string
	Refs   int
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s is still referenced by %d record(s)", e.Entity, e.Refs)
}

package store

import "context"

const (
	// DocumentSlot is the slot holding the entire serialized document.
	DocumentSlot = "ipt_demo_v1"
	// TokenSlot is the slot holding the session token. It is kept
	// separate from the document so clearing a session never rewrites
	// business data.
	TokenSlot = "auth_token"
)

// Backend is named-slot storage: each slot holds one opaque value.
type Backend interface {
	// Get returns the value of the named slot. ok is false if the slot
	// has never been written.
	Get(ctx context.Context, name string) (value string, ok bool, err error)
	// Put writes the value of the named slot, replacing any prior value.
	Put(ctx context.Context, name, value string) error
	// Delete removes the named slot. Deleting a missing slot is not an
	// error.
	Delete(ctx context.Context, name string) error
}

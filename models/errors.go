package models

import "fmt"

// The four error kinds every service operation can surface. Handlers map
// them to HTTP status codes; nothing below the handler boundary recovers
// from them silently.

// ValidationError means the caller supplied malformed or missing input.
// Retrying without fixing the input will never succeed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError means a referenced entity does not exist.
type NotFoundError struct {
	Resource string
	Ref      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Ref)
}

// ConflictError means a credential value is already bound to a different
// visitor. OwnerID identifies the current holder so the caller can report it.
type ConflictError struct {
	Slot    CredentialSlot
	Value   string
	OwnerID uint
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s credential %q is already linked to visitor %d", e.Slot, e.Value, e.OwnerID)
}

// IntegrityError means the store returned a state that violates a core
// invariant (e.g. two visitors holding the same credential). It indicates
// corruption or a missed invariant check and is never safe to retry blindly.
type IntegrityError struct {
	Detail string
}

func (e *IntegrityError) Error() string {
	return "store integrity violation: " + e.Detail
}

package models

import "github.com/google/uuid"

// Permission names resolved by the auth collaborator
const (
	PermissionConfirmDeposit = "deposits:confirm"
)

// PermissionSet is the set of permission names granted to an identity
type PermissionSet map[string]struct{}

// NewPermissionSet builds a permission set from the given names.
func NewPermissionSet(names ...string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Has reports whether the set grants the named permission.
func (p PermissionSet) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// Identity is the authenticated caller of a command, built once by the auth
// collaborator and passed by value. Commands never mutate it.
type Identity struct {
	UserID      uuid.UUID
	Permissions PermissionSet
}

// Route identifies the request surface a command arrived through. Stored on
// idempotency records for diagnostics only; replay keys on the key alone.
type Route struct {
	Path   string
	Method string
}

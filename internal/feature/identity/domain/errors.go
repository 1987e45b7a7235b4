// Package domain defines domain-level errors for the identity feature.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for identity operations. These represent business logic
// failures and are handled by upper layers; raw storage errors never cross
// the usecase boundary.
var (
	// ErrUserNotFound indicates that no non-deleted user matched the
	// given criteria. Stores return it on every lookup miss; whether a
	// miss is an error or a valid absent result is decided by the caller.
	ErrUserNotFound = errors.New("user not found")

	// ErrOrganizationNotFound indicates that no non-deleted organization
	// matched the given criteria.
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrInvalidCredentials is returned on login failure. Unknown email
	// and wrong password both map to this value so callers cannot tell
	// which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidResetToken is returned when a password reset token is
	// unknown or past its expiry window.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	// ErrInvalidVerificationToken is returned when an email verification
	// token is unknown.
	ErrInvalidVerificationToken = errors.New("invalid verification token")
)

// DuplicateError reports a uniqueness conflict on registration.
// Field names the conflicting attribute (email, username or slug) when the
// storage engine identified it.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return "account with this information already exists"
	}
	return e.Field + " is already taken"
}

// NotFoundError reports a lookup miss for an explicit id-based operation.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("user with id %s not found", e.ID)
}

// Unwrap lets errors.Is(err, ErrUserNotFound) match a NotFoundError.
func (e *NotFoundError) Unwrap() error {
	return ErrUserNotFound
}

// StorageError wraps any unclassified persistence fault. It is always
// propagated, never swallowed, and never exposes driver details to clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

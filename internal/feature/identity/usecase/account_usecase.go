// Package usecase implements the business logic for the identity feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
)

// UserStore abstracts the persistence layer for user entities. Following
// Go convention, the interface is defined by the consumer (usecase), not
// the provider (adapters).
type UserStore interface {
	// Create persists a new user. The storage-level unique constraints
	// are authoritative: a conflict yields *domain.DuplicateError.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a non-deleted user by id, or
	// domain.ErrUserNotFound.
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByEmail retrieves a non-deleted user by email, or
	// domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByUsername retrieves a non-deleted user by username, or
	// domain.ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// FindByResetToken retrieves a non-deleted user by password reset
	// token, or domain.ErrUserNotFound.
	FindByResetToken(ctx context.Context, token string) (*entity.User, error)

	// FindByVerificationToken retrieves a non-deleted user by email
	// verification token, or domain.ErrUserNotFound.
	FindByVerificationToken(ctx context.Context, token string) (*entity.User, error)

	// List returns all non-deleted users.
	List(ctx context.Context) ([]entity.User, error)

	// Update persists all fields of the user.
	Update(ctx context.Context, user *entity.User) error

	// Delete soft-deletes the user. Idempotent.
	Delete(ctx context.Context, id string) error
}

// OrganizationStore abstracts the persistence layer for organizations as
// referenced entities.
type OrganizationStore interface {
	Create(ctx context.Context, org *entity.Organization) error
	FindByID(ctx context.Context, id string) (*entity.Organization, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Organization, error)
}

// RegisterInput carries a pre-validated registration candidate. Structural
// validation (formats, lengths, required fields) happens in the transport
// layer before the usecase ever sees the input.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Username    *string
	Phone       *string
	DateOfBirth *time.Time
	Gender      *string
	Bio         *string
	Status      entity.UserStatus
}

// accountUsecase implements account management business logic.
type accountUsecase struct {
	users UserStore
}

// NewAccountUsecase creates a new accountUsecase instance.
func NewAccountUsecase(users UserStore) *accountUsecase {
	return &accountUsecase{users: users}
}

// NormalizeEmail lowercases and trims an email address so uniqueness and
// lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account.
//
// The existence checks on email and username are advisory: they produce a
// fast duplicate error in the common case but can race with a concurrent
// registration. The insert is the authoritative check; a constraint
// rejection from the store is translated to the same *domain.DuplicateError
// the advisory path produces, so both orderings collapse into one outcome.
// The returned user is redacted on every path.
func (a *accountUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	email := NormalizeEmail(in.Email)

	if _, err := a.users.FindByEmail(ctx, email); err == nil {
		return nil, &domain.DuplicateError{Field: "email"}
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, &domain.StorageError{Op: "check email", Err: err}
	}

	if in.Username != nil && *in.Username != "" {
		if _, err := a.users.FindByUsername(ctx, *in.Username); err == nil {
			return nil, &domain.DuplicateError{Field: "username"}
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, &domain.StorageError{Op: "check username", Err: err}
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	status := in.Status
	if status == "" {
		status = entity.UserStatusActive
	}

	verificationToken, err := NewToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	user := &entity.User{
		FirstName:              in.FirstName,
		LastName:               in.LastName,
		Email:                  email,
		Username:               in.Username,
		Password:               string(hashed),
		Phone:                  in.Phone,
		DateOfBirth:            in.DateOfBirth,
		Gender:                 in.Gender,
		Bio:                    in.Bio,
		Status:                 status,
		EmailVerificationToken: &verificationToken,
	}

	if err := a.users.Create(ctx, user); err != nil {
		var dup *domain.DuplicateError
		if errors.As(err, &dup) {
			// Lost the race after a clean advisory check. The store
			// constraint is the single source of truth.
			return nil, dup
		}
		return nil, &domain.StorageError{Op: "create user", Err: err}
	}

	return user.Redacted(), nil
}

// GetByID retrieves a user by id. A miss is an error at this level:
// callers asked for a specific account.
func (a *accountUsecase) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := a.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, &domain.StorageError{Op: "find user", Err: err}
	}
	return user.Redacted(), nil
}

// GetByEmail retrieves a user by email for internal existence checks.
// Absence is not an error here: (nil, nil) means no such user. The result
// is unredacted and must not be returned to callers outside the identity
// feature.
func (a *accountUsecase) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := a.users.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, &domain.StorageError{Op: "find user by email", Err: err}
	}
	return user, nil
}

// List returns all non-deleted users with credentials redacted.
func (a *accountUsecase) List(ctx context.Context) ([]entity.User, error) {
	users, err := a.users.List(ctx)
	if err != nil {
		return nil, &domain.StorageError{Op: "list users", Err: err}
	}
	out := make([]entity.User, 0, len(users))
	for i := range users {
		out = append(out, *users[i].Redacted())
	}
	return out, nil
}

// Delete soft-deletes the user. Deleting an already deleted or unknown id
// is not an error.
func (a *accountUsecase) Delete(ctx context.Context, id string) error {
	if err := a.users.Delete(ctx, id); err != nil {
		return &domain.StorageError{Op: "delete user", Err: err}
	}
	return nil
}

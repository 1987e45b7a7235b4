// Package adapters provides the gorm-backed store implementations for the
// identity feature.
package adapters

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/usecase"
)

// pgUniqueViolation is the Postgres SQLSTATE for a unique constraint
// violation.
const pgUniqueViolation = "23505"

// userGorm implements the UserStore interface over gorm.
type userGorm struct {
	db *gorm.DB
}

// Compile-time check that userGorm satisfies usecase.UserStore.
var _ usecase.UserStore = (*userGorm)(nil)

// NewUserGorm creates a user store bound to the given gorm connection.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// Create inserts the user. The storage-level unique constraints are the
// authoritative uniqueness check; a constraint rejection is translated to
// domain.DuplicateError naming the conflicting field. Any advisory lookup
// performed by a caller beforehand is never trusted alone.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if field, ok := uniqueViolationField(err); ok {
			return &domain.DuplicateError{Field: field}
		}
		return err
	}
	return nil
}

// FindByID retrieves a non-deleted user by id.
// It returns domain.ErrUserNotFound when no row matches.
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a non-deleted user by email.
// It returns domain.ErrUserNotFound when no row matches.
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByUsername retrieves a non-deleted user by username.
// It returns domain.ErrUserNotFound when no row matches.
func (r *userGorm) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

// FindByResetToken retrieves a non-deleted user holding the given password
// reset token.
func (r *userGorm) FindByResetToken(ctx context.Context, token string) (*entity.User, error) {
	return r.findOne(ctx, "reset_password_token = ?", token)
}

// FindByVerificationToken retrieves a non-deleted user holding the given
// email verification token.
func (r *userGorm) FindByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	return r.findOne(ctx, "email_verification_token = ?", token)
}

func (r *userGorm) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns all non-deleted users. Ordering is unspecified.
func (r *userGorm) List(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update persists all fields of the user and refreshes UpdatedAt.
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Delete soft-deletes the user by setting DeletedAt. Deleting an already
// deleted or unknown id is not an error.
func (r *userGorm) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id).Error
}

// constraintFields maps the declared unique constraint names to the
// domain field they protect.
var constraintFields = map[string]string{
	"uq_users_email":        "email",
	"uq_users_username":     "username",
	"uq_organizations_slug": "slug",
}

// uniqueViolationField reports whether err is a storage-level unique
// constraint violation and, when possible, which field caused it.
// Postgres faults carry SQLSTATE 23505 and are classified by constraint
// name alone: the error detail embeds the conflicting value, and a value
// like "username@example.com" would match the wrong field. The sqlite
// driver used by tests reports only the column in its message.
func uniqueViolationField(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}
		if field, ok := constraintFields[pgErr.ConstraintName]; ok {
			return field, true
		}
		return fieldInText(pgErr.ConstraintName), true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fieldInText(err.Error()), true
	}
	return "", false
}

func fieldInText(s string) string {
	for _, field := range []string{"username", "email", "slug"} {
		if strings.Contains(s, field) {
			return field
		}
	}
	return ""
}

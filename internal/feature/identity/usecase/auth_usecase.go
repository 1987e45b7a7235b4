package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
)

// dummyBcryptHash is compared against when no user matches the login
// email, so the unknown-email and wrong-password paths cost the same.
const dummyBcryptHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// TokenIssuer abstracts signed session token creation. The interface is
// defined here by the consumer; the platform jwt package provides it.
type TokenIssuer interface {
	// Issue creates a signed token asserting the given user's identity.
	Issue(userID, email, firstName, lastName string) (string, error)
}

// AccountService is the slice of account behaviour the auth usecase
// depends on.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}

// authUsecase implements authentication business logic.
type authUsecase struct {
	accounts AccountService
	users    UserStore
	tokens   TokenIssuer
	resetTTL time.Duration
}

// NewAuthUsecase creates a new authUsecase instance. resetTTL bounds the
// validity window of password reset tokens.
func NewAuthUsecase(accounts AccountService, users UserStore, tokens TokenIssuer, resetTTL time.Duration) *authUsecase {
	return &authUsecase{
		accounts: accounts,
		users:    users,
		tokens:   tokens,
		resetTTL: resetTTL,
	}
}

// Login authenticates a user and returns the redacted user together with
// a signed session token.
//
// An unknown email and a wrong password are indistinguishable to the
// caller: both return domain.ErrInvalidCredentials, and a bcrypt
// comparison runs in both cases so neither is faster.
func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := u.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	hash := dummyBcryptHash
	if user != nil {
		hash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	if user == nil || compareErr != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := u.issue(user)
	if err != nil {
		return nil, "", err
	}
	return user.Redacted(), token, nil
}

// Register creates the account through the account service and issues a
// session token identical in shape to Login's, so registration and login
// produce the same session artifact.
func (u *authUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	user, err := u.accounts.Register(ctx, in)
	if err != nil {
		return nil, "", err
	}

	token, err := u.issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *authUsecase) issue(user *entity.User) (string, error) {
	token, err := u.tokens.Issue(user.ID, user.Email, user.FirstName, user.LastName)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// ValidateUser resolves a token subject back to a live, non-deleted user.
// Tokens are not revoked at issuance, so liveness is re-checked here: a
// user soft-deleted after the token was signed yields NotFoundError.
func (u *authUsecase) ValidateUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := u.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, &domain.NotFoundError{ID: id}
		}
		return nil, &domain.StorageError{Op: "validate user", Err: err}
	}
	return user.Redacted(), nil
}

// StartPasswordReset issues a reset token for the account with the given
// email and stores it with its expiry. An unknown email is a silent
// success with an empty token, so the endpoint cannot be used to probe
// which emails are registered. Delivering the token is the caller's
// concern.
func (u *authUsecase) StartPasswordReset(ctx context.Context, email string) (string, error) {
	user, err := u.accounts.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}

	token, err := NewToken()
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	expiresAt := time.Now().Add(u.resetTTL)

	user.ResetPasswordToken = &token
	user.ResetPasswordExpiresAt = &expiresAt
	if err := u.users.Update(ctx, user); err != nil {
		return "", &domain.StorageError{Op: "store reset token", Err: err}
	}
	return token, nil
}

// ResetPassword consumes a reset token: it verifies the token is known and
// unexpired, replaces the credential and clears the token pair.
func (u *authUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	user, err := u.users.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetToken
		}
		return &domain.StorageError{Op: "find reset token", Err: err}
	}

	if user.ResetPasswordExpiresAt == nil || time.Now().After(*user.ResetPasswordExpiresAt) {
		return domain.ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.Password = string(hashed)
	user.ResetPasswordToken = nil
	user.ResetPasswordExpiresAt = nil
	if err := u.users.Update(ctx, user); err != nil {
		return &domain.StorageError{Op: "reset password", Err: err}
	}
	return nil
}

// VerifyEmail consumes an email verification token, marking the account's
// email as verified.
func (u *authUsecase) VerifyEmail(ctx context.Context, token string) error {
	user, err := u.users.FindByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidVerificationToken
		}
		return &domain.StorageError{Op: "find verification token", Err: err}
	}

	now := time.Now()
	user.IsEmailVerified = true
	user.EmailVerifiedAt = &now
	user.EmailVerificationToken = nil
	if err := u.users.Update(ctx, user); err != nil {
		return &domain.StorageError{Op: "verify email", Err: err}
	}
	return nil
}

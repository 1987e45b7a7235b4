// Package handler provides the HTTP handlers for the identity feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/transport/http/dto"
	"identity_backend/internal/feature/identity/usecase"
	jwtmw "identity_backend/internal/platform/jwt"
)

// AuthUsecase defines the authentication operations the handler depends
// on. Following Go convention, the interface is defined by the consumer
// (handler), not the provider (usecase).
type AuthUsecase interface {
	// Register creates an account and issues a session token.
	Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, string, error)
	// Login authenticates a user and issues a session token.
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	// ValidateUser resolves a token subject to a live user.
	ValidateUser(ctx context.Context, id string) (*entity.User, error)
	// StartPasswordReset issues a reset token for the given email.
	StartPasswordReset(ctx context.Context, email string) (string, error)
	// ResetPassword consumes a reset token and replaces the credential.
	ResetPassword(ctx context.Context, token, newPassword string) error
	// VerifyEmail consumes an email verification token.
	VerifyEmail(ctx context.Context, token string) error
}

// AuthHandler handles HTTP requests for authentication operations.
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup handles the user registration endpoint.
// Registration and login return the same session artifact shape.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	in := usecase.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		Phone:     req.Phone,
		Gender:    req.Gender,
		Bio:       req.Bio,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
			return
		}
		in.DateOfBirth = &dob
	}

	user, token, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "signup")
		return
	}

	slog.Info("user signup successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.SessionRes{User: dto.NewUserRes(user), AccessToken: token})
}

// Login handles the user login endpoint. Authentication failures are
// reported uniformly: the response never reveals whether the email is
// registered.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err, "login")
		return
	}

	slog.Info("user login successful", "user_id", user.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.SessionRes{User: dto.NewUserRes(user), AccessToken: token})
}

// Me resolves the authenticated token subject back to a live user.
func (h *AuthHandler) Me(c *gin.Context) {
	id := c.GetString(jwtmw.ContextUserID)
	user, err := h.auth.ValidateUser(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err, "validate user")
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// StartPasswordReset handles the reset token issuance endpoint. The
// response is identical whether or not the email is registered; token
// delivery is handled elsewhere.
func (h *AuthHandler) StartPasswordReset(c *gin.Context) {
	var req dto.PasswordResetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	if _, err := h.auth.StartPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.writeError(c, err, "password reset")
		return
	}
	c.JSON(http.StatusAccepted, dto.MessageRes{Message: "ok"})
}

// ConfirmPasswordReset handles the reset token consumption endpoint.
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req dto.PasswordResetConfirmReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		h.writeError(c, err, "password reset confirm")
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "ok"})
}

// VerifyEmail handles the email verification endpoint.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req dto.VerifyEmailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: "invalid request"})
		return
	}

	if err := h.auth.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		h.writeError(c, err, "verify email")
		return
	}
	c.JSON(http.StatusOK, dto.MessageRes{Message: "ok"})
}

// writeError maps domain errors onto HTTP responses without leaking
// storage details.
func (h *AuthHandler) writeError(c *gin.Context, err error, op string) {
	var dup *domain.DuplicateError
	var notFound *domain.NotFoundError
	switch {
	case errors.As(err, &dup):
		slog.Warn(op+" conflict", "field", dup.Field, "remote_addr", c.ClientIP())
		c.JSON(http.StatusConflict, dto.ErrorRes{Error: dup.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		slog.Warn(op+" failed", "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: "invalid email or password"})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
	case errors.Is(err, domain.ErrInvalidResetToken), errors.Is(err, domain.ErrInvalidVerificationToken):
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: err.Error()})
	default:
		slog.Error(op+" failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
	}
}

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/transport/http/dto"
)

// AccountUsecase defines the account operations the handler depends on.
type AccountUsecase interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	Delete(ctx context.Context, id string) error
}

// AccountHandler handles HTTP requests for account management.
type AccountHandler struct {
	accounts AccountUsecase
}

// NewAccountHandler creates a new AccountHandler instance.
func NewAccountHandler(accounts AccountUsecase) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// List returns all users. Every entry is credential-free.
func (h *AccountHandler) List(c *gin.Context) {
	users, err := h.accounts.List(c.Request.Context())
	if err != nil {
		slog.Error("list users failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
		return
	}

	out := make([]dto.UserRes, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserRes(&users[i]))
	}
	c.JSON(http.StatusOK, out)
}

// Get returns a single user by id.
func (h *AccountHandler) Get(c *gin.Context) {
	user, err := h.accounts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, dto.ErrorRes{Error: "user not found"})
			return
		}
		slog.Error("get user failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
		return
	}
	c.JSON(http.StatusOK, dto.NewUserRes(user))
}

// Delete soft-deletes a user. Deleting an already deleted account
// succeeds.
func (h *AccountHandler) Delete(c *gin.Context) {
	if err := h.accounts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		slog.Error("delete user failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}

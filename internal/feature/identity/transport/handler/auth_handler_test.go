package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/usecase"
)

type mockAuthUsecase struct {
	RegisterFunc           func(ctx context.Context, in usecase.RegisterInput) (*entity.User, string, error)
	LoginFunc              func(ctx context.Context, email, password string) (*entity.User, string, error)
	ValidateUserFunc       func(ctx context.Context, id string) (*entity.User, error)
	StartPasswordResetFunc func(ctx context.Context, email string) (string, error)
	ResetPasswordFunc      func(ctx context.Context, token, newPassword string) error
	VerifyEmailFunc        func(ctx context.Context, token string) error
}

func (m *mockAuthUsecase) Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, string, error) {
	return m.RegisterFunc(ctx, in)
}

func (m *mockAuthUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	return m.LoginFunc(ctx, email, password)
}

func (m *mockAuthUsecase) ValidateUser(ctx context.Context, id string) (*entity.User, error) {
	return m.ValidateUserFunc(ctx, id)
}

func (m *mockAuthUsecase) StartPasswordReset(ctx context.Context, email string) (string, error) {
	return m.StartPasswordResetFunc(ctx, email)
}

func (m *mockAuthUsecase) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.ResetPasswordFunc(ctx, token, newPassword)
}

func (m *mockAuthUsecase) VerifyEmail(ctx context.Context, token string) error {
	return m.VerifyEmailFunc(ctx, token)
}

func respondedUser() *entity.User {
	return &entity.User{
		ID:        "user-1",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Status:    entity.UserStatusActive,
	}
}

func postJSON(t *testing.T, h gin.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	buf, err := json.Marshal(body)
	require.NoError(t, err)

	r := gin.New()
	r.POST(path, h)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	validBody := gin.H{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"password":  "s3cret!",
	}

	t.Run("returns 201 with a session artifact", func(t *testing.T) {
		mock := &mockAuthUsecase{
			RegisterFunc: func(_ context.Context, in usecase.RegisterInput) (*entity.User, string, error) {
				assert.Equal(t, "ada@example.com", in.Email)
				assert.Equal(t, "s3cret!", in.Password)
				return respondedUser(), "signed-token", nil
			},
		}
		h := NewAuthHandler(mock)

		w := postJSON(t, h.Signup, "/signup", validBody)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"access_token":"signed-token"`)
		assert.Contains(t, w.Body.String(), `"email":"ada@example.com"`)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("parses the date of birth", func(t *testing.T) {
		mock := &mockAuthUsecase{
			RegisterFunc: func(_ context.Context, in usecase.RegisterInput) (*entity.User, string, error) {
				require.NotNil(t, in.DateOfBirth)
				assert.Equal(t, "1815-12-10", in.DateOfBirth.Format("2006-01-02"))
				return respondedUser(), "signed-token", nil
			},
		}
		h := NewAuthHandler(mock)

		body := gin.H{
			"firstName":   "Ada",
			"lastName":    "Lovelace",
			"email":       "ada@example.com",
			"password":    "s3cret!",
			"dateOfBirth": "1815-12-10",
		}
		w := postJSON(t, h.Signup, "/signup", body)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("returns 400 for an invalid body", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})

		w := postJSON(t, h.Signup, "/signup", gin.H{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 409 for a duplicate identifier", func(t *testing.T) {
		mock := &mockAuthUsecase{
			RegisterFunc: func(context.Context, usecase.RegisterInput) (*entity.User, string, error) {
				return nil, "", &domain.DuplicateError{Field: "email"}
			},
		}
		h := NewAuthHandler(mock)

		w := postJSON(t, h.Signup, "/signup", validBody)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "email")
	})

	t.Run("returns 500 without storage detail", func(t *testing.T) {
		mock := &mockAuthUsecase{
			RegisterFunc: func(context.Context, usecase.RegisterInput) (*entity.User, string, error) {
				return nil, "", &domain.StorageError{Op: "create user", Err: errors.New("dial tcp: connection refused")}
			},
		}
		h := NewAuthHandler(mock)

		w := postJSON(t, h.Signup, "/signup", validBody)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("returns 200 with a session artifact", func(t *testing.T) {
		mock := &mockAuthUsecase{
			LoginFunc: func(_ context.Context, email, password string) (*entity.User, string, error) {
				assert.Equal(t, "ada@example.com", email)
				assert.Equal(t, "s3cret!", password)
				return respondedUser(), "signed-token", nil
			},
		}
		h := NewAuthHandler(mock)

		w := postJSON(t, h.Login, "/login", gin.H{"email": "ada@example.com", "password": "s3cret!"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"access_token":"signed-token"`)
	})

	t.Run("masks authentication failures uniformly", func(t *testing.T) {
		mock := &mockAuthUsecase{
			LoginFunc: func(context.Context, string, string) (*entity.User, string, error) {
				return nil, "", domain.ErrInvalidCredentials
			},
		}
		h := NewAuthHandler(mock)

		w := postJSON(t, h.Login, "/login", gin.H{"email": "ghost@example.com", "password": "whatever"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid email or password")
	})

	t.Run("returns 400 for a missing password", func(t *testing.T) {
		h := NewAuthHandler(&mockAuthUsecase{})

		w := postJSON(t, h.Login, "/login", gin.H{"email": "ada@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(h *AuthHandler, userID string) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/me", func(c *gin.Context) {
			c.Set("userID", userID)
			h.Me(c)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		return w
	}

	t.Run("returns the live user", func(t *testing.T) {
		mock := &mockAuthUsecase{
			ValidateUserFunc: func(_ context.Context, id string) (*entity.User, error) {
				assert.Equal(t, "user-1", id)
				return respondedUser(), nil
			},
		}

		w := serve(NewAuthHandler(mock), "user-1")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"user-1"`)
	})

	t.Run("returns 404 when the subject no longer resolves", func(t *testing.T) {
		mock := &mockAuthUsecase{
			ValidateUserFunc: func(_ context.Context, id string) (*entity.User, error) {
				return nil, &domain.NotFoundError{ID: id}
			},
		}

		w := serve(NewAuthHandler(mock), "user-gone")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuthHandler_PasswordReset(t *testing.T) {
	t.Run("start always returns 202", func(t *testing.T) {
		mock := &mockAuthUsecase{
			StartPasswordResetFunc: func(_ context.Context, email string) (string, error) {
				assert.Equal(t, "ghost@example.com", email)
				return "", nil
			},
		}
		h := NewAuthHandler(mock)

		w := postJSON(t, h.StartPasswordReset, "/password-reset", gin.H{"email": "ghost@example.com"})
		assert.Equal(t, http.StatusAccepted, w.Code)
	})

	t.Run("confirm returns 200 on success", func(t *testing.T) {
		mock := &mockAuthUsecase{
			ResetPasswordFunc: func(_ context.Context, token, newPassword string) error {
				assert.Equal(t, "reset-token", token)
				assert.Equal(t, "n3w-secret", newPassword)
				return nil
			},
		}
		h := NewAuthHandler(mock)

		w := postJSON(t, h.ConfirmPasswordReset, "/password-reset/confirm",
			gin.H{"token": "reset-token", "password": "n3w-secret"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("confirm returns 400 for a bad token", func(t *testing.T) {
		mock := &mockAuthUsecase{
			ResetPasswordFunc: func(context.Context, string, string) error {
				return domain.ErrInvalidResetToken
			},
		}
		h := NewAuthHandler(mock)

		w := postJSON(t, h.ConfirmPasswordReset, "/password-reset/confirm",
			gin.H{"token": "expired", "password": "n3w-secret"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_VerifyEmail(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		mock := &mockAuthUsecase{
			VerifyEmailFunc: func(_ context.Context, token string) error {
				assert.Equal(t, "verify-token", token)
				return nil
			},
		}
		h := NewAuthHandler(mock)

		w := postJSON(t, h.VerifyEmail, "/verify-email", gin.H{"token": "verify-token"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("returns 400 for an unknown token", func(t *testing.T) {
		mock := &mockAuthUsecase{
			VerifyEmailFunc: func(context.Context, string) error {
				return domain.ErrInvalidVerificationToken
			},
		}
		h := NewAuthHandler(mock)

		w := postJSON(t, h.VerifyEmail, "/verify-email", gin.H{"token": "unknown"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

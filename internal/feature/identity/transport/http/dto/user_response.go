package dto

import (
	"time"

	"identity_backend/internal/feature/identity/domain/entity"
)

// UserRes is the outward representation of a user. It carries no
// credential or token fields by construction.
type UserRes struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	Username        *string    `json:"username,omitempty"`
	Phone           *string    `json:"phone,omitempty"`
	DateOfBirth     *string    `json:"dateOfBirth,omitempty"`
	Gender          *string    `json:"gender,omitempty"`
	Bio             *string    `json:"bio,omitempty"`
	Status          string     `json:"status"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// NewUserRes projects a user entity onto its response shape.
func NewUserRes(u *entity.User) UserRes {
	res := UserRes{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		Username:        u.Username,
		Phone:           u.Phone,
		Gender:          u.Gender,
		Bio:             u.Bio,
		Status:          string(u.Status),
		IsEmailVerified: u.IsEmailVerified,
		EmailVerifiedAt: u.EmailVerifiedAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.DateOfBirth != nil {
		dob := u.DateOfBirth.Format("2006-01-02")
		res.DateOfBirth = &dob
	}
	return res
}

// SessionRes is the response body shared by /signup and /login: the same
// session artifact comes out of both.
type SessionRes struct {
	User        UserRes `json:"user"`
	AccessToken string  `json:"access_token"`
}

// ErrorRes is the generic error response body.
type ErrorRes struct {
	Error string `json:"error"`
}

// MessageRes is the generic acknowledgement response body.
type MessageRes struct {
	Message string `json:"message"`
}

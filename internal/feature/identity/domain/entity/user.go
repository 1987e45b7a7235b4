// Package entity defines the domain entities for the identity feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStatus enumerates the lifecycle states of a user account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusPending   UserStatus = "pending"
)

// User represents a registered user in the system.
// Email and username uniqueness is scoped to non-deleted rows: the unique
// indexes are partial (deleted_at IS NULL), so a soft-deleted user's email
// and username become reusable by a new registration.
type User struct {
	// ID is the unique identifier for the user, assigned on insert.
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100;not null" json:"lastName"`

	// Email is the user's email address used for authentication.
	// It must be unique across all non-deleted users.
	Email string `gorm:"size:255;not null;uniqueIndex:uq_users_email,where:deleted_at IS NULL" json:"email"`

	// Username is optional and unique across non-deleted users when present.
	Username *string `gorm:"size:255;uniqueIndex:uq_users_username,where:deleted_at IS NULL" json:"username,omitempty"`

	// Password is the bcrypt hash of the user's password.
	// This must never store plaintext and must never reach a caller.
	Password string `gorm:"size:255;not null" json:"-"`

	Phone       *string    `gorm:"size:20" json:"phone,omitempty"`
	DateOfBirth *time.Time `gorm:"type:date" json:"dateOfBirth,omitempty"`
	Gender      *string    `gorm:"size:10" json:"gender,omitempty"`
	Bio         *string    `gorm:"type:text" json:"bio,omitempty"`

	Status UserStatus `gorm:"size:20;not null;default:active" json:"status"`

	IsEmailVerified bool       `gorm:"not null;default:false" json:"isEmailVerified"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt,omitempty"`

	// ResetPasswordToken and ResetPasswordExpiresAt are set and cleared as
	// a pair by the password reset flow.
	ResetPasswordToken     *string    `gorm:"size:255" json:"-"`
	ResetPasswordExpiresAt *time.Time `json:"-"`

	EmailVerificationToken *string `gorm:"size:255" json:"-"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Redacted returns a copy of the user with every credential and token
// field stripped. All externally visible representations of a user must
// go through this.
func (u *User) Redacted() *User {
	out := *u
	out.Password = ""
	out.ResetPasswordToken = nil
	out.ResetPasswordExpiresAt = nil
	out.EmailVerificationToken = nil
	return &out
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrganizationStatus enumerates the lifecycle states of an organization.
type OrganizationStatus string

const (
	OrganizationStatusActive    OrganizationStatus = "active"
	OrganizationStatusInactive  OrganizationStatus = "inactive"
	OrganizationStatusSuspended OrganizationStatus = "suspended"
)

// Organization represents a tenant that users may be affiliated with.
// Users no longer carry a foreign key to organizations in the current
// schema revision; the entity remains independently owned.
type Organization struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Name string `gorm:"size:255;not null" json:"name"`

	// Slug is the URL-safe identifier, unique across non-deleted rows.
	Slug string `gorm:"size:255;not null;uniqueIndex:uq_organizations_slug,where:deleted_at IS NULL" json:"slug"`

	Description *string `gorm:"type:text" json:"description,omitempty"`

	Status OrganizationStatus `gorm:"size:20;not null;default:active" json:"status"`

	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt,omitempty"`

	Email      *string `gorm:"size:255" json:"email,omitempty"`
	Phone      *string `gorm:"size:20" json:"phone,omitempty"`
	Website    *string `gorm:"size:255" json:"website,omitempty"`
	Address    *string `gorm:"type:text" json:"address,omitempty"`
	City       *string `gorm:"size:100" json:"city,omitempty"`
	PostalCode *string `gorm:"size:20" json:"postalCode,omitempty"`
	Country    *string `gorm:"size:100" json:"country,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the database table name for the Organization model.
func (Organization) TableName() string {
	return "organizations"
}

// BeforeCreate assigns a UUID primary key when none is set.
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

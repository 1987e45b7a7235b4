// Package migrations declares the application's schema changesets in
// their deployment order.
//
// The model structs in this package are snapshots of the schema shape a
// changeset creates, not the live domain entities: later changesets alter
// what earlier ones created, so each changeset keeps its own frozen view.
package migrations

import (
	"time"

	"gorm.io/gorm"

	"identity_backend/internal/platform/migrate"
)

// All returns every changeset in declared order. IDs are the original
// deployment timestamps and must never change once shipped.
func All() []migrate.Changeset {
	return []migrate.Changeset{
		{
			ID:   1753268811980,
			Name: "create_organizations",
			Up:   createOrganizationsUp,
			Down: createOrganizationsDown,
		},
		{
			ID:   1753272347264,
			Name: "create_users",
			Up:   createUsersUp,
			Down: createUsersDown,
		},
		{
			ID:   1754251786338,
			Name: "remove_organization_from_users",
			Up:   removeOrganizationUp,
			Down: removeOrganizationDown,
		},
	}
}

// organization is the organizations table as first created.
type organization struct {
	ID                    string  `gorm:"type:uuid;primaryKey"`
	Name                  string  `gorm:"size:255;not null"`
	Slug                  string  `gorm:"size:255;not null;uniqueIndex:uq_organizations_slug,where:deleted_at IS NULL"`
	Description           *string `gorm:"type:text"`
	Status                string  `gorm:"size:20;not null;default:active;check:chk_organizations_status,status IN ('active','inactive','suspended')"`
	SubscriptionExpiresAt *time.Time
	Email                 *string `gorm:"size:255"`
	Phone                 *string `gorm:"size:20"`
	Website               *string `gorm:"size:255"`
	Address               *string `gorm:"type:text"`
	City                  *string `gorm:"size:100"`
	PostalCode            *string `gorm:"size:20"`
	Country               *string `gorm:"size:100"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
	DeletedAt             gorm.DeletedAt `gorm:"index"`
}

func (organization) TableName() string { return "organizations" }

// user is the users table as first created, including the organization
// linkage that the third changeset removes. The foreign key carries no
// cascading action: referential deletes are handled explicitly upstream.
type user struct {
	ID                     string        `gorm:"type:uuid;primaryKey"`
	FirstName              string        `gorm:"size:100;not null"`
	LastName               string        `gorm:"size:100;not null"`
	Email                  string        `gorm:"size:255;not null;uniqueIndex:uq_users_email,where:deleted_at IS NULL"`
	Username               *string       `gorm:"size:255;uniqueIndex:uq_users_username,where:deleted_at IS NULL"`
	Password               string        `gorm:"size:255;not null"`
	Phone                  *string       `gorm:"size:20"`
	DateOfBirth            *time.Time    `gorm:"type:date"`
	Gender                 *string       `gorm:"size:10"`
	Bio                    *string       `gorm:"type:text"`
	OrganizationID         *string       `gorm:"type:uuid"`
	Organization           *organization `gorm:"foreignKey:OrganizationID;references:ID;constraint:OnUpdate:NO ACTION,OnDelete:NO ACTION"`
	Status                 string        `gorm:"size:20;not null;default:active;check:chk_users_status,status IN ('active','inactive','suspended','pending')"`
	IsEmailVerified        bool          `gorm:"not null;default:false"`
	EmailVerifiedAt        *time.Time
	ResetPasswordToken     *string `gorm:"size:255"`
	ResetPasswordExpiresAt *time.Time
	EmailVerificationToken *string `gorm:"size:255"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
	DeletedAt              gorm.DeletedAt `gorm:"index"`
}

func (user) TableName() string { return "users" }

func createOrganizationsUp(tx *gorm.DB) error {
	if tx.Migrator().HasTable(&organization{}) {
		return nil
	}
	return tx.Migrator().CreateTable(&organization{})
}

func createOrganizationsDown(tx *gorm.DB) error {
	return tx.Migrator().DropTable(&organization{})
}

func createUsersUp(tx *gorm.DB) error {
	if tx.Migrator().HasTable(&user{}) {
		return nil
	}
	return tx.Migrator().CreateTable(&user{})
}

func createUsersDown(tx *gorm.DB) error {
	return tx.Migrator().DropTable(&user{})
}

func removeOrganizationUp(tx *gorm.DB) error {
	m := tx.Migrator()
	// The constraint must go before the column: dropping a column still
	// referenced by a foreign key fails on both dialects.
	if m.HasConstraint(&user{}, "Organization") {
		if err := m.DropConstraint(&user{}, "Organization"); err != nil {
			return err
		}
	}
	if m.HasColumn(&user{}, "OrganizationID") {
		if err := m.DropColumn(&user{}, "OrganizationID"); err != nil {
			return err
		}
	}
	// The sqlite driver drops a column by rebuilding the table, which
	// loses every index the rebuild does not carry over. Restore the
	// partial unique indexes and the soft-delete index.
	for _, field := range []string{"Email", "Username", "DeletedAt"} {
		if !m.HasIndex(&user{}, field) {
			if err := m.CreateIndex(&user{}, field); err != nil {
				return err
			}
		}
	}
	return nil
}

func removeOrganizationDown(tx *gorm.DB) error {
	m := tx.Migrator()
	if !m.HasColumn(&user{}, "OrganizationID") {
		if err := m.AddColumn(&user{}, "OrganizationID"); err != nil {
			return err
		}
	}
	// sqlite cannot add a foreign key to an existing table; its test
	// databases run without the re-added constraint, which only ever
	// existed on the production dialect mid-history anyway.
	if tx.Dialector.Name() == "postgres" && !m.HasConstraint(&user{}, "Organization") {
		return m.CreateConstraint(&user{}, "Organization")
	}
	return nil
}

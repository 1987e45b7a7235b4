package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/usecase"
)

// organizationGorm implements the OrganizationStore interface over gorm.
// It covers the referenced-entity surface only; there is no organization
// CRUD API above it.
type organizationGorm struct {
	db *gorm.DB
}

var _ usecase.OrganizationStore = (*organizationGorm)(nil)

// NewOrganizationGorm creates an organization store bound to the given
// gorm connection.
func NewOrganizationGorm(db *gorm.DB) *organizationGorm {
	return &organizationGorm{db: db}
}

// Create inserts the organization. A slug collision is translated to
// domain.DuplicateError by the storage-level unique constraint.
func (r *organizationGorm) Create(ctx context.Context, o *entity.Organization) error {
	if err := r.db.WithContext(ctx).Create(o).Error; err != nil {
		if field, ok := uniqueViolationField(err); ok {
			return &domain.DuplicateError{Field: field}
		}
		return err
	}
	return nil
}

// FindByID retrieves a non-deleted organization by id.
// It returns domain.ErrOrganizationNotFound when no row matches.
func (r *organizationGorm) FindByID(ctx context.Context, id string) (*entity.Organization, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindBySlug retrieves a non-deleted organization by slug.
// It returns domain.ErrOrganizationNotFound when no row matches.
func (r *organizationGorm) FindBySlug(ctx context.Context, slug string) (*entity.Organization, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *organizationGorm) findOne(ctx context.Context, query string, arg any) (*entity.Organization, error) {
	var o entity.Organization
	if err := r.db.WithContext(ctx).Where(query, arg).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &o, nil
}

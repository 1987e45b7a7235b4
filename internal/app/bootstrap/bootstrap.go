// Package bootstrap seeds records the service expects to exist.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/usecase"
)

// EnsureDefaultOrganization creates the default organization for dev and
// e2e environments when it is missing. A concurrent creation losing the
// slug race is treated as success.
func EnsureDefaultOrganization(ctx context.Context, orgs usecase.OrganizationStore, name, slug string) error {
	if _, err := orgs.FindBySlug(ctx, slug); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrOrganizationNotFound) {
		return fmt.Errorf("bootstrap org lookup: %w", err)
	}

	org := &entity.Organization{
		Name:   name,
		Slug:   slug,
		Status: entity.OrganizationStatusActive,
	}
	if err := orgs.Create(ctx, org); err != nil {
		var dup *domain.DuplicateError
		if errors.As(err, &dup) {
			return nil
		}
		return fmt.Errorf("bootstrap org create: %w", err)
	}

	slog.Info("default organization created", "slug", slug, "org_id", org.ID)
	return nil
}

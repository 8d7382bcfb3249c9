// Package passports persists passport rows and guards the single-primary
// invariant.
package passports

import (
	"context"

	"github.com/entrypass/entrypass/internal/models"
)

// Repository describes storage operations for Passport rows.
//
// Saving a passport with IsPrimary set must happen together with
// ClearPrimaryExcept inside one transaction so that at no point two
// passports of the same user are primary.
type Repository interface {
	// Save upserts a passport by id.
	Save(ctx context.Context, p *models.Passport) error

	// GetByID returns a passport by id, common.ErrNotFound when missing.
	GetByID(ctx context.Context, id string) (*models.Passport, error)

	// ListByUser returns all passports of a user.
	ListByUser(ctx context.Context, userID string) ([]models.Passport, error)

	// GetPrimary returns the user's primary passport, common.ErrNotFound
	// when none is marked primary.
	GetPrimary(ctx context.Context, userID string) (*models.Passport, error)

	// ClearPrimaryExcept removes the primary flag from every passport of
	// the user except the given one.
	ClearPrimaryExcept(ctx context.Context, userID, exceptID string) error

	// Delete removes a passport.
	Delete(ctx context.Context, id string) error
}

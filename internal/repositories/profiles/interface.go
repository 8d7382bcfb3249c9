// Package profiles persists PersonalInfo rows and guards the
// single-default invariant.
package profiles

import (
	"context"

	"github.com/entrypass/entrypass/internal/models"
)

// Repository describes storage operations for PersonalInfo rows. The same
// transactional discipline as for passports applies: Save with IsDefault
// set belongs in one transaction with ClearDefaultExcept.
type Repository interface {
	Save(ctx context.Context, p *models.PersonalInfo) error
	GetByID(ctx context.Context, id string) (*models.PersonalInfo, error)
	ListByUser(ctx context.Context, userID string) ([]models.PersonalInfo, error)

	// GetDefault returns the user's default profile, common.ErrNotFound
	// when none is marked default.
	GetDefault(ctx context.Context, userID string) (*models.PersonalInfo, error)

	// ClearDefaultExcept removes the default flag from every profile of
	// the user except the given one.
	ClearDefaultExcept(ctx context.Context, userID, exceptID string) error

	Delete(ctx context.Context, id string) error
}

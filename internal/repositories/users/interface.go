// Package users persists the identity anchor rows.
package users

import (
	"context"

	"github.com/entrypass/entrypass/internal/models"
)

// Repository describes storage operations for User rows.
type Repository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *models.User) error

	// GetByID returns a user by id.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetAny returns the first user on this device. A device normally
	// holds exactly one; common.ErrNotFound when none exists yet.
	GetAny(ctx context.Context) (*models.User, error)
}

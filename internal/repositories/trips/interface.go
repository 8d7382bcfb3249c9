// Package trips persists TravelDetail rows.
package trips

import (
	"context"

	"github.com/entrypass/entrypass/internal/models"
)

// Repository describes storage operations for TravelDetail rows.
type Repository interface {
	Save(ctx context.Context, t *models.TravelDetail) error
	GetByID(ctx context.Context, id string) (*models.TravelDetail, error)
	Delete(ctx context.Context, id string) error
}

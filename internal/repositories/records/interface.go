// Package records persists EntryRecord rows, the aggregate root of one
// trip to one destination.
package records

import (
	"context"
	"time"

	"github.com/entrypass/entrypass/internal/models"
)

// Repository describes storage operations for EntryRecord rows.
type Repository interface {
	// Save upserts an entry record by id.
	Save(ctx context.Context, rec *models.EntryRecord) error

	GetByID(ctx context.Context, id string) (*models.EntryRecord, error)

	// GetByUserAndDestination returns the record for (user, destination),
	// common.ErrNotFound when the trip has not been started yet.
	GetByUserAndDestination(ctx context.Context, userID, destination string) (*models.EntryRecord, error)

	ListByUser(ctx context.Context, userID string) ([]models.EntryRecord, error)

	// UpdateCompletion writes back the completion metrics blob and the
	// derived status in one statement.
	UpdateCompletion(ctx context.Context, id, metricsJSON string, status models.EntryRecordStatus, at time.Time) error

	// SetStatus updates the lifecycle status only. The submitted status
	// must be set exclusively by the submission pipeline.
	SetStatus(ctx context.Context, id string, status models.EntryRecordStatus, at time.Time) error

	// Delete removes a record; link rows cascade, fund items survive.
	Delete(ctx context.Context, id string) error
}

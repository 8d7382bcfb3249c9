// Package funds persists FundItem rows and the entry-record link table.
package funds

import (
	"context"
	"time"

	"github.com/entrypass/entrypass/internal/models"
)

// Repository describes storage operations for FundItem rows and their
// many-to-many links to entry records. Fund items are reusable across
// trips: unlinking or deleting an entry record never deletes the items.
type Repository interface {
	Save(ctx context.Context, f *models.FundItem) error
	GetByID(ctx context.Context, id string) (*models.FundItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.FundItem, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id string) error

	// Link attaches a fund item to an entry record; linking twice is a
	// no-op.
	Link(ctx context.Context, entryRecordID, fundItemID string, at time.Time) error
	Unlink(ctx context.Context, entryRecordID, fundItemID string) error
	ListByRecord(ctx context.Context, entryRecordID string) ([]models.FundItem, error)
}

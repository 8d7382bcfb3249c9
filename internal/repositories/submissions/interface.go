// Package submissions persists the append-only arrival-card submission
// rows and their supersession chain.
package submissions

import (
	"context"
	"time"

	"github.com/entrypass/entrypass/internal/models"
)

// Repository describes storage operations for ArrivalCardSubmission rows.
//
// Persisting a new successful submission is a three-step transactional
// flow owned by the caller: NextVersion, Insert, SupersedePrior — all on
// the same tx handle, so the single-active-submission invariant holds even
// across a crash mid-write.
type Repository interface {
	// Insert appends one submission row.
	Insert(ctx context.Context, s *models.ArrivalCardSubmission) error

	GetByID(ctx context.Context, id string) (*models.ArrivalCardSubmission, error)

	// ListByRecord returns all rows for an entry record, newest first.
	ListByRecord(ctx context.Context, entryRecordID string) ([]models.ArrivalCardSubmission, error)

	// GetActive returns the single success+non-superseded row for the
	// (entry record, card type) pair, common.ErrNotFound when none.
	GetActive(ctx context.Context, entryRecordID, cardType string) (*models.ArrivalCardSubmission, error)

	// NextVersion returns max(version)+1 over the (entry record, card
	// type) pair, starting at 1.
	NextVersion(ctx context.Context, entryRecordID, cardType string) (int64, error)

	// SupersedePrior stamps every success+non-superseded sibling of newID
	// as superseded by it.
	SupersedePrior(ctx context.Context, entryRecordID, cardType, newID, reason string, at time.Time) error
}

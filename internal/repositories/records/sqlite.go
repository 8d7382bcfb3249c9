package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/entrypass/entrypass/internal/common"
	"github.com/entrypass/entrypass/internal/dbx"
	"github.com/entrypass/entrypass/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const recordColumns = `id, user_id, destination, passport_id, personal_info_id,
	travel_detail_id, status, completion_metrics, created_at, updated_at`

func (r *SQLiteRepository) Save(ctx context.Context, rec *models.EntryRecord) error {
	query := `INSERT INTO entry_records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			passport_id = excluded.passport_id,
			personal_info_id = excluded.personal_info_id,
			travel_detail_id = excluded.travel_detail_id,
			status = excluded.status,
			completion_metrics = excluded.completion_metrics,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.Destination, rec.PassportID, rec.PersonalInfoID,
		rec.TravelDetailID, rec.Status, rec.CompletionMetrics, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert entry record: %w", err)
	}
	return nil
}

func scanRecord(scan func(dest ...any) error) (*models.EntryRecord, error) {
	rec := &models.EntryRecord{}
	var passportID, personalInfoID, travelDetailID sql.NullString
	err := scan(&rec.ID, &rec.UserID, &rec.Destination, &passportID, &personalInfoID,
		&travelDetailID, &rec.Status, &rec.CompletionMetrics, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if passportID.Valid {
		rec.PassportID = &passportID.String
	}
	if personalInfoID.Valid {
		rec.PersonalInfoID = &personalInfoID.String
	}
	if travelDetailID.Valid {
		rec.TravelDetailID = &travelDetailID.String
	}
	return rec, nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, args ...any) (*models.EntryRecord, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry record: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.EntryRecord, error) {
	return r.getOne(ctx, `SELECT `+recordColumns+` FROM entry_records WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByUserAndDestination(ctx context.Context, userID, destination string) (*models.EntryRecord, error) {
	return r.getOne(ctx,
		`SELECT `+recordColumns+` FROM entry_records WHERE user_id = ? AND destination = ?`,
		userID, destination)
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.EntryRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM entry_records WHERE user_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select entry records: %w", err)
	}
	defer rows.Close()

	var result []models.EntryRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) UpdateCompletion(ctx context.Context, id, metricsJSON string, status models.EntryRecordStatus, at time.Time) error {
	query := `UPDATE entry_records SET completion_metrics = ?, status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, metricsJSON, status, at, id)
	if err != nil {
		return fmt.Errorf("failed to update completion metrics: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status models.EntryRecordStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entry_records SET status = ?, updated_at = ? WHERE id = ?`, status, at, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entry_records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry record: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)

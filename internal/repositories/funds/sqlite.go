package funds

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

const fundColumns = `id, user_id, fund_type, amount, currency, photo_path, photo_key,
	created_at, updated_at`

func (r *SQLiteRepository) Save(ctx context.Context, f *models.FundItem) error {
	query := `INSERT INTO fund_items (` + fundColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			fund_type = excluded.fund_type,
			amount = excluded.amount,
			currency = excluded.currency,
			photo_path = excluded.photo_path,
			photo_key = excluded.photo_key,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		f.ID, f.UserID, f.Type, f.Amount, f.Currency, f.PhotoPath, f.PhotoKey,
		f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert fund item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.FundItem, error) {
	query := `SELECT ` + fundColumns + ` FROM fund_items WHERE id = ?`
	f := &models.FundItem{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&f.ID, &f.UserID, &f.Type, &f.Amount, &f.Currency, &f.PhotoPath, &f.PhotoKey,
		&f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan fund item: %w", err)
	}
	return f, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]models.FundItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select fund items: %w", err)
	}
	defer rows.Close()

	var result []models.FundItem
	for rows.Next() {
		var f models.FundItem
		if err := rows.Scan(&f.ID, &f.UserID, &f.Type, &f.Amount, &f.Currency,
			&f.PhotoPath, &f.PhotoKey, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.FundItem, error) {
	return r.list(ctx, `SELECT `+fundColumns+` FROM fund_items WHERE user_id = ? ORDER BY created_at`, userID)
}

func (r *SQLiteRepository) ListByRecord(ctx context.Context, entryRecordID string) ([]models.FundItem, error) {
	query := `SELECT f.id, f.user_id, f.fund_type, f.amount, f.currency, f.photo_path,
			f.photo_key, f.created_at, f.updated_at
		FROM fund_items f
		JOIN entry_record_funds l ON l.fund_item_id = f.id
		WHERE l.entry_record_id = ?
		ORDER BY l.linked_at`
	return r.list(ctx, query, entryRecordID)
}

func (r *SQLiteRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM fund_items WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count fund items: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fund_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete fund item: %w", err)
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

func (r *SQLiteRepository) Link(ctx context.Context, entryRecordID, fundItemID string, at time.Time) error {
	query := `INSERT INTO entry_record_funds (entry_record_id, fund_item_id, linked_at)
		VALUES (?, ?, ?)
		ON CONFLICT(entry_record_id, fund_item_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, entryRecordID, fundItemID, at); err != nil {
		return fmt.Errorf("failed to link fund item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Unlink(ctx context.Context, entryRecordID, fundItemID string) error {
	query := `DELETE FROM entry_record_funds WHERE entry_record_id = ? AND fund_item_id = ?`
	if _, err := r.db.ExecContext(ctx, query, entryRecordID, fundItemID); err != nil {
		return fmt.Errorf("failed to unlink fund item: %w", err)
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)

package passports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

const passportColumns = `id, user_id, number, full_name, birth_date, nationality,
	gender, issue_date, expiry_date, is_primary, created_at, updated_at`

func (r *SQLiteRepository) Save(ctx context.Context, p *models.Passport) error {
	query := `INSERT INTO passports (` + passportColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			number = excluded.number,
			full_name = excluded.full_name,
			birth_date = excluded.birth_date,
			nationality = excluded.nationality,
			gender = excluded.gender,
			issue_date = excluded.issue_date,
			expiry_date = excluded.expiry_date,
			is_primary = excluded.is_primary,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.Number, p.FullName, p.BirthDate, p.Nationality,
		p.Gender, p.IssueDate, p.ExpiryDate, p.IsPrimary, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert passport: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) scanOne(row *sql.Row) (*models.Passport, error) {
	p := &models.Passport{}
	err := row.Scan(&p.ID, &p.UserID, &p.Number, &p.FullName, &p.BirthDate,
		&p.Nationality, &p.Gender, &p.IssueDate, &p.ExpiryDate, &p.IsPrimary,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan passport: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Passport, error) {
	query := `SELECT ` + passportColumns + ` FROM passports WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *SQLiteRepository) GetPrimary(ctx context.Context, userID string) (*models.Passport, error) {
	query := `SELECT ` + passportColumns + ` FROM passports WHERE user_id = ? AND is_primary = 1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID))
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.Passport, error) {
	query := `SELECT ` + passportColumns + ` FROM passports WHERE user_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select passports: %w", err)
	}
	defer rows.Close()

	var result []models.Passport
	for rows.Next() {
		var p models.Passport
		if err := rows.Scan(&p.ID, &p.UserID, &p.Number, &p.FullName, &p.BirthDate,
			&p.Nationality, &p.Gender, &p.IssueDate, &p.ExpiryDate, &p.IsPrimary,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) ClearPrimaryExcept(ctx context.Context, userID, exceptID string) error {
	query := `UPDATE passports SET is_primary = 0 WHERE user_id = ? AND id != ? AND is_primary = 1`
	if _, err := r.db.ExecContext(ctx, query, userID, exceptID); err != nil {
		return fmt.Errorf("failed to clear primary flags: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM passports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete passport: %w", err)
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

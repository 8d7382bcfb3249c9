package profiles

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

const profileColumns = `id, user_id, passport_id, phone_code, phone_number, email,
	occupation, residence_city, residence_country, is_default, created_at, updated_at`

func (r *SQLiteRepository) Save(ctx context.Context, p *models.PersonalInfo) error {
	query := `INSERT INTO personal_info (` + profileColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			passport_id = excluded.passport_id,
			phone_code = excluded.phone_code,
			phone_number = excluded.phone_number,
			email = excluded.email,
			occupation = excluded.occupation,
			residence_city = excluded.residence_city,
			residence_country = excluded.residence_country,
			is_default = excluded.is_default,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.PassportID, p.PhoneCode, p.PhoneNumber, p.Email,
		p.Occupation, p.ResidenceCity, p.ResidenceCountry, p.IsDefault,
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert personal info: %w", err)
	}
	return nil
}

func scanProfile(scan func(dest ...any) error) (*models.PersonalInfo, error) {
	p := &models.PersonalInfo{}
	var passportID sql.NullString
	err := scan(&p.ID, &p.UserID, &passportID, &p.PhoneCode, &p.PhoneNumber,
		&p.Email, &p.Occupation, &p.ResidenceCity, &p.ResidenceCountry,
		&p.IsDefault, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if passportID.Valid {
		p.PassportID = &passportID.String
	}
	return p, nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, args ...any) (*models.PersonalInfo, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	p, err := scanProfile(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan personal info: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.PersonalInfo, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM personal_info WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetDefault(ctx context.Context, userID string) (*models.PersonalInfo, error) {
	return r.getOne(ctx, `SELECT `+profileColumns+` FROM personal_info WHERE user_id = ? AND is_default = 1`, userID)
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string) ([]models.PersonalInfo, error) {
	query := `SELECT ` + profileColumns + ` FROM personal_info WHERE user_id = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select personal info: %w", err)
	}
	defer rows.Close()

	var result []models.PersonalInfo
	for rows.Next() {
		p, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) ClearDefaultExcept(ctx context.Context, userID, exceptID string) error {
	query := `UPDATE personal_info SET is_default = 0 WHERE user_id = ? AND id != ? AND is_default = 1`
	if _, err := r.db.ExecContext(ctx, query, userID, exceptID); err != nil {
		return fmt.Errorf("failed to clear default flags: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personal_info WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete personal info: %w", err)
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

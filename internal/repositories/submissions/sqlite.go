package submissions

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

const submissionColumns = `id, entry_record_id, card_type, destination, card_no,
	document_ref, method, status, raw_response, processing_ms, retry_count,
	error_details, is_superseded, superseded_at, superseded_by, superseded_reason,
	version, submitted_at`

func (r *SQLiteRepository) Insert(ctx context.Context, s *models.ArrivalCardSubmission) error {
	query := `INSERT INTO arrival_card_submissions (` + submissionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.EntryRecordID, s.CardType, s.Destination, s.CardNo,
		s.DocumentRef, s.Method, s.Status, s.RawResponse, s.ProcessingMS, s.RetryCount,
		s.ErrorDetails, s.IsSuperseded, s.SupersededAt, s.SupersededBy, s.SupersededReason,
		s.Version, s.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

func scanSubmission(scan func(dest ...any) error) (*models.ArrivalCardSubmission, error) {
	s := &models.ArrivalCardSubmission{}
	var supersededAt sql.NullTime
	var supersededBy, supersededReason sql.NullString
	err := scan(&s.ID, &s.EntryRecordID, &s.CardType, &s.Destination, &s.CardNo,
		&s.DocumentRef, &s.Method, &s.Status, &s.RawResponse, &s.ProcessingMS,
		&s.RetryCount, &s.ErrorDetails, &s.IsSuperseded, &supersededAt, &supersededBy,
		&supersededReason, &s.Version, &s.SubmittedAt)
	if err != nil {
		return nil, err
	}
	if supersededAt.Valid {
		s.SupersededAt = &supersededAt.Time
	}
	if supersededBy.Valid {
		s.SupersededBy = &supersededBy.String
	}
	if supersededReason.Valid {
		s.SupersededReason = &supersededReason.String
	}
	return s, nil
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, args ...any) (*models.ArrivalCardSubmission, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	s, err := scanSubmission(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan submission: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.ArrivalCardSubmission, error) {
	return r.getOne(ctx, `SELECT `+submissionColumns+` FROM arrival_card_submissions WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetActive(ctx context.Context, entryRecordID, cardType string) (*models.ArrivalCardSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM arrival_card_submissions
		WHERE entry_record_id = ? AND card_type = ? AND status = 'success' AND is_superseded = 0`
	return r.getOne(ctx, query, entryRecordID, cardType)
}

func (r *SQLiteRepository) ListByRecord(ctx context.Context, entryRecordID string) ([]models.ArrivalCardSubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM arrival_card_submissions
		WHERE entry_record_id = ? ORDER BY submitted_at DESC, version DESC`
	rows, err := r.db.QueryContext(ctx, query, entryRecordID)
	if err != nil {
		return nil, fmt.Errorf("failed to select submissions: %w", err)
	}
	defer rows.Close()

	var result []models.ArrivalCardSubmission
	for rows.Next() {
		s, err := scanSubmission(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) NextVersion(ctx context.Context, entryRecordID, cardType string) (int64, error) {
	var v int64
	err := r.db.QueryRowContext(ctx,
		`SELECT coalesce(max(version), 0) + 1 FROM arrival_card_submissions
		 WHERE entry_record_id = ? AND card_type = ?`,
		entryRecordID, cardType).Scan(&v)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next version: %w", err)
	}
	return v, nil
}

func (r *SQLiteRepository) SupersedePrior(ctx context.Context, entryRecordID, cardType, newID, reason string, at time.Time) error {
	query := `UPDATE arrival_card_submissions
		SET is_superseded = 1, superseded_at = ?, superseded_by = ?, superseded_reason = ?
		WHERE entry_record_id = ? AND card_type = ? AND status = 'success'
		  AND is_superseded = 0 AND id != ?`
	if _, err := r.db.ExecContext(ctx, query, at, newID, reason, entryRecordID, cardType, newID); err != nil {
		return fmt.Errorf("failed to supersede prior submissions: %w", err)
	}
	return nil
}

var _ Repository = (*SQLiteRepository)(nil)

package trips

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

const tripColumns = `id, user_id, purpose, boarded_country, arrival_flight_no, arrival_date,
	departure_flight_no, departure_date, transport_mode, accommodation_type, address,
	province, district, sub_district, postal_code, is_transit, created_at, updated_at`

func (r *SQLiteRepository) Save(ctx context.Context, t *models.TravelDetail) error {
	query := `INSERT INTO travel_details (` + tripColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			purpose = excluded.purpose,
			boarded_country = excluded.boarded_country,
			arrival_flight_no = excluded.arrival_flight_no,
			arrival_date = excluded.arrival_date,
			departure_flight_no = excluded.departure_flight_no,
			departure_date = excluded.departure_date,
			transport_mode = excluded.transport_mode,
			accommodation_type = excluded.accommodation_type,
			address = excluded.address,
			province = excluded.province,
			district = excluded.district,
			sub_district = excluded.sub_district,
			postal_code = excluded.postal_code,
			is_transit = excluded.is_transit,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Purpose, t.BoardedCountry, t.ArrivalFlightNo, t.ArrivalDate,
		t.DepartureFlightNo, t.DepartureDate, t.TransportMode, t.AccommodationType,
		t.Address, t.Province, t.District, t.SubDistrict, t.PostalCode, t.IsTransit,
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert travel detail: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.TravelDetail, error) {
	query := `SELECT ` + tripColumns + ` FROM travel_details WHERE id = ?`
	t := &models.TravelDetail{}
	var arrival, departure sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Purpose, &t.BoardedCountry, &t.ArrivalFlightNo, &arrival,
		&t.DepartureFlightNo, &departure, &t.TransportMode, &t.AccommodationType,
		&t.Address, &t.Province, &t.District, &t.SubDistrict, &t.PostalCode, &t.IsTransit,
		&t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan travel detail: %w", err)
	}
	if arrival.Valid {
		t.ArrivalDate = &arrival.Time
	}
	if departure.Valid {
		t.DepartureDate = &departure.Time
	}
	return t, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM travel_details WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete travel detail: %w", err)
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

// Package services implements the application flows on top of the record
// store: maintaining the traveler's entry record and its completion state,
// and running the arrival-card submission pipeline.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/entrypass/entrypass/internal/arrivalwindow"
	"github.com/entrypass/entrypass/internal/common"
	"github.com/entrypass/entrypass/internal/completion"
	"github.com/entrypass/entrypass/internal/dbx"
	"github.com/entrypass/entrypass/internal/logging"
	"github.com/entrypass/entrypass/internal/models"
	"github.com/entrypass/entrypass/internal/repositories/funds"
	"github.com/entrypass/entrypass/internal/repositories/passports"
	"github.com/entrypass/entrypass/internal/repositories/profiles"
	"github.com/entrypass/entrypass/internal/repositories/records"
	"github.com/entrypass/entrypass/internal/repositories/trips"
	"github.com/entrypass/entrypass/internal/store"
)

// RecordService maintains entry records and the entities hanging off them.
// Every write recomputes the affected record's completion metrics in the
// same transaction, so the stored metrics never lag the stored data.
type RecordService struct {
	db    *sql.DB
	repos *store.Repositories
	log   logging.Logger
	now   func() time.Time
}

// NewRecordService builds a RecordService over an opened store.
func NewRecordService(db *sql.DB, repos *store.Repositories, log logging.Logger) *RecordService {
	return &RecordService{
		db:    db,
		repos: repos,
		log:   log.With("component", "records"),
		now:   time.Now,
	}
}

// RecordStatus is the composite view the status screen renders: the record,
// its completion metrics, the submission window, and the active card if any.
type RecordStatus struct {
	Record  *models.EntryRecord
	Metrics completion.Metrics
	Window  arrivalwindow.Window

	// Active is the current non-superseded successful submission, nil
	// when the card has not been submitted yet.
	Active *models.ArrivalCardSubmission
}

// EnsureUser returns the device's user, creating it on first run.
func (s *RecordService) EnsureUser(ctx context.Context) (*models.User, error) {
	u, err := s.repos.Users.GetAny(ctx)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	u = &models.User{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := s.repos.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "created device user", "user_id", u.ID)
	return u, nil
}

// EnsureEntryRecord returns the user's record for a destination, creating
// it lazily on first use with zeroed completion metrics.
func (s *RecordService) EnsureEntryRecord(ctx context.Context, userID, destination string) (*models.EntryRecord, error) {
	rec, err := s.repos.Records.GetByUserAndDestination(ctx, userID, destination)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	metrics := completion.Calculate(nil, nil, nil, 0)
	blob, err := json.Marshal(metrics)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding completion metrics: %v", common.ErrInternal, err)
	}

	rec = &models.EntryRecord{
		ID:                uuid.NewString(),
		UserID:            userID,
		Destination:       destination,
		Status:            models.EntryStatusIncomplete,
		CompletionMetrics: string(blob),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repos.Records.Save(ctx, rec); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "created entry record", "record_id", rec.ID, "destination", destination)
	return rec, nil
}

// SavePassport upserts a passport, enforces the single-primary invariant,
// attaches it to the record, and recomputes completion. One transaction.
func (s *RecordService) SavePassport(ctx context.Context, recordID string, p *models.Passport) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = s.now()
	}
	p.UpdatedAt = s.now()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := passports.NewSQLiteRepository(tx)
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
		if p.IsPrimary {
			if err := repo.ClearPrimaryExcept(ctx, p.UserID, p.ID); err != nil {
				return err
			}
		}
		return s.attachAndRecompute(ctx, tx, recordID, func(rec *models.EntryRecord) {
			rec.PassportID = &p.ID
		})
	})
}

// SaveProfile upserts a contact profile, enforces the single-default
// invariant, attaches it to the record, and recomputes completion.
func (s *RecordService) SaveProfile(ctx context.Context, recordID string, p *models.PersonalInfo) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = s.now()
	}
	p.UpdatedAt = s.now()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := profiles.NewSQLiteRepository(tx)
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
		if p.IsDefault {
			if err := repo.ClearDefaultExcept(ctx, p.UserID, p.ID); err != nil {
				return err
			}
		}
		return s.attachAndRecompute(ctx, tx, recordID, func(rec *models.EntryRecord) {
			rec.PersonalInfoID = &p.ID
		})
	})
}

// SaveTravelDetail upserts the itinerary, attaches it to the record, and
// recomputes completion.
func (s *RecordService) SaveTravelDetail(ctx context.Context, recordID string, t *models.TravelDetail) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
		t.CreatedAt = s.now()
	}
	t.UpdatedAt = s.now()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := trips.NewSQLiteRepository(tx).Save(ctx, t); err != nil {
			return err
		}
		return s.attachAndRecompute(ctx, tx, recordID, func(rec *models.EntryRecord) {
			rec.TravelDetailID = &t.ID
		})
	})
}

// SaveFund upserts a fund item. Items are user-owned and only count toward
// a record once linked, so no completion recompute happens here.
func (s *RecordService) SaveFund(ctx context.Context, f *models.FundItem) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
		f.CreatedAt = s.now()
	}
	f.UpdatedAt = s.now()
	return s.repos.Funds.Save(ctx, f)
}

// ListFunds returns the user's fund items.
func (s *RecordService) ListFunds(ctx context.Context, userID string) ([]models.FundItem, error) {
	return s.repos.Funds.ListByUser(ctx, userID)
}

// LinkFund attaches a fund item to the record and recomputes completion.
func (s *RecordService) LinkFund(ctx context.Context, recordID, fundItemID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := funds.NewSQLiteRepository(tx).Link(ctx, recordID, fundItemID, s.now()); err != nil {
			return err
		}
		return s.attachAndRecompute(ctx, tx, recordID, nil)
	})
}

// UnlinkFund detaches a fund item from the record and recomputes
// completion. The item itself survives.
func (s *RecordService) UnlinkFund(ctx context.Context, recordID, fundItemID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := funds.NewSQLiteRepository(tx).Unlink(ctx, recordID, fundItemID); err != nil {
			return err
		}
		return s.attachAndRecompute(ctx, tx, recordID, nil)
	})
}

// DeleteFund removes a fund item everywhere and recomputes every record of
// the user, since any of them may have been linked to it.
func (s *RecordService) DeleteFund(ctx context.Context, userID, fundItemID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := funds.NewSQLiteRepository(tx).Delete(ctx, fundItemID); err != nil {
			return err
		}
		recs, err := records.NewSQLiteRepository(tx).ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		for i := range recs {
			if err := s.recompute(ctx, tx, &recs[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetCompletionMetrics recomputes completion for one record from live data
// without writing anything back. The persisted blob is refreshed on writes;
// this read-only path is for callers that want a guaranteed-fresh score.
func (s *RecordService) GetCompletionMetrics(ctx context.Context, recordID string) (completion.Metrics, error) {
	rec, err := s.repos.Records.GetByID(ctx, recordID)
	if err != nil {
		return completion.Metrics{}, err
	}
	p, pi, t, fundCount, err := s.loadEntities(ctx, s.db, rec)
	if err != nil {
		return completion.Metrics{}, err
	}
	return completion.Calculate(p, pi, t, fundCount), nil
}

// GetStatus assembles the status view for one record.
func (s *RecordService) GetStatus(ctx context.Context, recordID, cardType string) (*RecordStatus, error) {
	rec, err := s.repos.Records.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	_, _, trip, _, err := s.loadEntities(ctx, s.db, rec)
	if err != nil {
		return nil, err
	}

	var metrics completion.Metrics
	if rec.CompletionMetrics != "" {
		if err := json.Unmarshal([]byte(rec.CompletionMetrics), &metrics); err != nil {
			return nil, fmt.Errorf("%w: decoding completion metrics: %v", common.ErrInternal, err)
		}
	}

	var arrival *time.Time
	if trip != nil {
		arrival = trip.ArrivalDate
	}

	st := &RecordStatus{
		Record:  rec,
		Metrics: metrics,
		Window:  arrivalwindow.Evaluate(s.now(), arrival),
	}

	active, err := s.repos.Submissions.GetActive(ctx, recordID, cardType)
	switch {
	case err == nil:
		st.Active = active
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}
	return st, nil
}

// DeleteRecord removes an entry record. Fund links cascade away; the fund
// items themselves stay with the user.
func (s *RecordService) DeleteRecord(ctx context.Context, recordID string) error {
	return s.repos.Records.Delete(ctx, recordID)
}

// attachAndRecompute reloads the record on the tx, applies mutate (may be
// nil), persists it, and writes back fresh completion metrics.
func (s *RecordService) attachAndRecompute(ctx context.Context, tx dbx.DBTX, recordID string, mutate func(*models.EntryRecord)) error {
	repo := records.NewSQLiteRepository(tx)
	rec, err := repo.GetByID(ctx, recordID)
	if err != nil {
		return err
	}
	if mutate != nil {
		mutate(rec)
		rec.UpdatedAt = s.now()
		if err := repo.Save(ctx, rec); err != nil {
			return err
		}
	}
	return s.recompute(ctx, tx, rec)
}

// recompute recalculates completion for one record and persists the
// metrics together with the derived status. Any edit drops a previously
// submitted record back to ready/incomplete: the stored card no longer
// reflects the stored data.
func (s *RecordService) recompute(ctx context.Context, q dbx.DBTX, rec *models.EntryRecord) error {
	p, pi, t, fundCount, err := s.loadEntities(ctx, q, rec)
	if err != nil {
		return err
	}

	metrics := completion.Calculate(p, pi, t, fundCount)
	blob, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("%w: encoding completion metrics: %v", common.ErrInternal, err)
	}

	status := models.EntryStatusIncomplete
	if metrics.IsComplete() {
		status = models.EntryStatusReady
	}
	return records.NewSQLiteRepository(q).UpdateCompletion(ctx, rec.ID, string(blob), status, s.now())
}

// loadEntities fetches the record's linked entities. A dangling reference
// (row deleted out from under the record) degrades to nil with a warning
// rather than failing the whole flow.
func (s *RecordService) loadEntities(ctx context.Context, q dbx.DBTX, rec *models.EntryRecord) (*models.Passport, *models.PersonalInfo, *models.TravelDetail, int, error) {
	var (
		p   *models.Passport
		pi  *models.PersonalInfo
		t   *models.TravelDetail
		err error
	)

	if rec.PassportID != nil {
		p, err = passports.NewSQLiteRepository(q).GetByID(ctx, *rec.PassportID)
		if err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				return nil, nil, nil, 0, err
			}
			s.log.Warn(ctx, "record references missing passport", "record_id", rec.ID, "passport_id", *rec.PassportID)
			p = nil
		}
	}
	if rec.PersonalInfoID != nil {
		pi, err = profiles.NewSQLiteRepository(q).GetByID(ctx, *rec.PersonalInfoID)
		if err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				return nil, nil, nil, 0, err
			}
			s.log.Warn(ctx, "record references missing profile", "record_id", rec.ID, "profile_id", *rec.PersonalInfoID)
			pi = nil
		}
	}
	if rec.TravelDetailID != nil {
		t, err = trips.NewSQLiteRepository(q).GetByID(ctx, *rec.TravelDetailID)
		if err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				return nil, nil, nil, 0, err
			}
			s.log.Warn(ctx, "record references missing travel detail", "record_id", rec.ID, "travel_detail_id", *rec.TravelDetailID)
			t = nil
		}
	}

	linked, err := funds.NewSQLiteRepository(q).ListByRecord(ctx, rec.ID)
	if err != nil {
		return nil, nil, nil, 0, err
	}
	return p, pi, t, len(linked), nil
}

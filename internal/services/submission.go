package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/entrypass/entrypass/internal/arrivalwindow"
	"github.com/entrypass/entrypass/internal/authority"
	"github.com/entrypass/entrypass/internal/common"
	"github.com/entrypass/entrypass/internal/completion"
	"github.com/entrypass/entrypass/internal/dbx"
	"github.com/entrypass/entrypass/internal/logging"
	"github.com/entrypass/entrypass/internal/models"
	"github.com/entrypass/entrypass/internal/repositories/records"
	"github.com/entrypass/entrypass/internal/repositories/submissions"
	"github.com/entrypass/entrypass/internal/store"
)

// AuthorityClient is the slice of the authority HTTP client the pipeline
// consumes; tests substitute a fake.
type AuthorityClient interface {
	ExchangeToken(ctx context.Context, verificationToken string) (string, int, error)
	SubmitCard(ctx context.Context, actionToken string, p authority.CardPayload) (*authority.CardReceipt, int, error)
}

// SubmissionResult is the pipeline outcome handed back to the caller. On
// success Submission is the persisted success row; on an authority
// rejection Submission is the persisted failed row and Failure carries the
// classified error. A rejection is a domain outcome, not an error return:
// callers inspect Failure after the usual err check.
type SubmissionResult struct {
	Submission *models.ArrivalCardSubmission

	// Warnings are non-blocking data-quality notes, e.g. a field value
	// that fell back to its category default.
	Warnings []string

	Failure *authority.APIError
}

// SubmissionService runs the arrival-card submission pipeline: local
// validation, payload encoding, the two authority calls, and the
// transactional persistence of the outcome.
type SubmissionService struct {
	db      *sql.DB
	repos   *store.Repositories
	records *RecordService
	client  AuthorityClient
	log     logging.Logger
	val     *validator.Validate
	now     func() time.Time

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewSubmissionService builds a SubmissionService.
func NewSubmissionService(db *sql.DB, repos *store.Repositories, rs *RecordService, client AuthorityClient, log logging.Logger) *SubmissionService {
	return &SubmissionService{
		db:       db,
		repos:    repos,
		records:  rs,
		client:   client,
		log:      log.With("component", "submission"),
		val:      validator.New(),
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

// Submit runs the full pipeline for one record and card type. A second call
// for the same record while one is running fails with
// common.ErrSubmissionInFlight. Local validation failures never touch the
// network and return an error. Authority rejections are persisted as failed
// rows and reported through the result's Failure field with a nil error;
// only a persisted success row flips the record to submitted.
func (s *SubmissionService) Submit(ctx context.Context, recordID, cardType, verificationToken string) (*SubmissionResult, error) {
	if !s.acquire(recordID) {
		return nil, common.ErrSubmissionInFlight
	}
	defer s.release(recordID)

	started := s.now()

	rec, err := s.repos.Records.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}

	p, pi, t, fundCount, err := s.records.loadEntities(ctx, s.db, rec)
	if err != nil {
		return nil, err
	}

	// Window gate first: without an arrival date there is nothing to time
	// the card against.
	if t == nil || t.ArrivalDate == nil {
		return nil, common.ErrNoArrivalDate
	}
	w := arrivalwindow.Evaluate(started, t.ArrivalDate)
	if !w.CanSubmit {
		return nil, fmt.Errorf("%w: submission window not open (state %s)", common.ErrInvalidInput, w.State)
	}

	metrics := completion.Calculate(p, pi, t, fundCount)
	if !metrics.IsComplete() {
		return nil, fmt.Errorf("%w: record is %d%% complete", common.ErrInvalidInput, metrics.Percent)
	}

	if err := validateToken(verificationToken); err != nil {
		return nil, err
	}

	payload, warnings := buildPayload(p, pi, t)
	for _, warn := range warnings {
		s.log.Warn(ctx, "field value defaulted", "record_id", recordID, "detail", warn)
	}
	if err := s.val.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	actionToken, exchRetries, err := s.client.ExchangeToken(ctx, verificationToken)
	if err != nil {
		return s.recordFailure(ctx, rec, cardType, warnings, exchRetries, started, err)
	}

	receipt, submitRetries, err := s.client.SubmitCard(ctx, actionToken, payload)
	retries := exchRetries + submitRetries
	if err != nil {
		return s.recordFailure(ctx, rec, cardType, warnings, retries, started, err)
	}

	sub := s.newSubmission(rec, cardType, retries, started)
	sub.Status = models.SubmissionSuccess
	sub.CardNo = receipt.CardNo
	sub.RawResponse = receipt.RawBody
	sub.ProcessingMS = s.now().Sub(started).Milliseconds()

	// Version assignment, insert, supersession of prior cards, and the
	// record's status flip are one atomic unit.
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		subRepo := submissions.NewSQLiteRepository(tx)

		version, err := subRepo.NextVersion(ctx, rec.ID, cardType)
		if err != nil {
			return err
		}
		sub.Version = version

		if err := subRepo.Insert(ctx, sub); err != nil {
			return err
		}
		if err := subRepo.SupersedePrior(ctx, rec.ID, cardType, sub.ID, models.SupersededReasonReplaced, sub.SubmittedAt); err != nil {
			return err
		}
		return records.NewSQLiteRepository(tx).SetStatus(ctx, rec.ID, models.EntryStatusSubmitted, sub.SubmittedAt)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "arrival card submitted",
		"record_id", rec.ID, "card_no", sub.CardNo, "version", sub.Version, "retries", retries)

	return &SubmissionResult{Submission: sub, Warnings: warnings}, nil
}

// History returns all submission attempts for a record, newest first.
func (s *SubmissionService) History(ctx context.Context, recordID string) ([]models.ArrivalCardSubmission, error) {
	return s.repos.Submissions.ListByRecord(ctx, recordID)
}

// Active returns the current non-superseded successful submission.
func (s *SubmissionService) Active(ctx context.Context, recordID, cardType string) (*models.ArrivalCardSubmission, error) {
	return s.repos.Submissions.GetActive(ctx, recordID, cardType)
}

// recordFailure persists a failed submission row and folds the classified
// error into the result, keeping the error return nil so a conventional
// early return cannot lose the audit row. The row is audit trail: a later
// retry is a fresh pipeline run with its own row and version.
func (s *SubmissionService) recordFailure(ctx context.Context, rec *models.EntryRecord, cardType string, warnings []string, retries int, started time.Time, cause error) (*SubmissionResult, error) {
	var apiErr *authority.APIError
	if !errors.As(cause, &apiErr) {
		// Encoding/decoding slipped through; still worth an audit row.
		apiErr = &authority.APIError{Category: authority.CategoryOther, Body: cause.Error()}
	}

	sub := s.newSubmission(rec, cardType, retries, started)
	sub.Status = models.SubmissionFailed
	sub.RawResponse = apiErr.Body
	sub.ErrorDetails = errorDetails(apiErr)
	sub.ProcessingMS = s.now().Sub(started).Milliseconds()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		subRepo := submissions.NewSQLiteRepository(tx)
		version, err := subRepo.NextVersion(ctx, rec.ID, cardType)
		if err != nil {
			return err
		}
		sub.Version = version
		return subRepo.Insert(ctx, sub)
	})
	if err != nil {
		return nil, errors.Join(cause, err)
	}

	s.log.Error(ctx, "arrival card submission failed",
		"record_id", rec.ID, "category", apiErr.Category, "status", apiErr.StatusCode, "retries", retries)

	return &SubmissionResult{Submission: sub, Warnings: warnings, Failure: apiErr}, nil
}

func (s *SubmissionService) newSubmission(rec *models.EntryRecord, cardType string, retries int, started time.Time) *models.ArrivalCardSubmission {
	return &models.ArrivalCardSubmission{
		ID:            uuid.NewString(),
		EntryRecordID: rec.ID,
		CardType:      cardType,
		Destination:   rec.Destination,
		DocumentRef:   "DOC-" + strings.ToUpper(uuid.NewString()[:8]),
		Method:        "app",
		RetryCount:    retries,
		SubmittedAt:   started,
	}
}

func (s *SubmissionService) acquire(recordID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[recordID]; busy {
		return false
	}
	s.inFlight[recordID] = struct{}{}
	return true
}

func (s *SubmissionService) release(recordID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, recordID)
}

// errorDetails flattens an APIError into the persisted details column:
// category, message, and the user-facing suggestions.
func errorDetails(e *authority.APIError) string {
	parts := []string{string(e.Category), e.Category.Message()}
	if sg := e.Category.Suggestions(); len(sg) > 0 {
		parts = append(parts, "suggestions: "+strings.Join(sg, "; "))
	}
	b, err := json.Marshal(parts)
	if err != nil {
		return string(e.Category)
	}
	return string(b)
}

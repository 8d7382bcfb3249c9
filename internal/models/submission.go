package models

import "time"

// SubmissionStatus is the outcome of one submission attempt.
type SubmissionStatus string

const (
	SubmissionSuccess SubmissionStatus = "success"
	SubmissionFailed  SubmissionStatus = "failed"
)

// SupersededReasonReplaced is the fixed reason stamped on an older
// successful submission when a newer one is recorded for the same
// (entry record, card type) pair.
const SupersededReasonReplaced = "replaced by newer successful submission"

// ArrivalCardSubmission records one attempt to submit an arrival card to a
// destination authority. Rows are append-only: after insert the only
// permitted mutation is the supersession stamp.
type ArrivalCardSubmission struct {
	ID            string
	EntryRecordID string
	CardType      string // e.g. "TDAC"
	Destination   string
	CardNo        string // authority-issued card number, success only
	DocumentRef   string // locally generated document reference
	Method        string // submission method, e.g. "app"
	Status        SubmissionStatus
	RawResponse   string // raw authority response body, audit trail
	ProcessingMS  int64  // wall time spent in the pipeline
	RetryCount    int    // network attempts made beyond the first
	ErrorDetails  string

	// Supersession chain. Within one (EntryRecordID, CardType) pair at most
	// one row has Status=success and IsSuperseded=false.
	IsSuperseded     bool
	SupersededAt     *time.Time
	SupersededBy     *string
	SupersededReason *string

	// Version increases monotonically per (EntryRecordID, CardType).
	Version int64

	SubmittedAt time.Time
}

package models

import "time"

// EntryRecordStatus is the lifecycle state of an entry record.
type EntryRecordStatus string

const (
	EntryStatusIncomplete EntryRecordStatus = "incomplete"
	EntryStatusReady      EntryRecordStatus = "ready"
	// EntryStatusSubmitted is derived: it is set only after a successful
	// arrival-card submission is persisted, never directly by a caller.
	EntryStatusSubmitted EntryRecordStatus = "submitted"
)

// EntryRecord is the aggregate root for one trip to one destination. It is
// created lazily the first time the user starts a trip for that destination
// and is never hard-deleted except by an explicit data reset.
type EntryRecord struct {
	ID             string
	UserID         string
	Destination    string // destination code, e.g. "TH"
	PassportID     *string
	PersonalInfoID *string
	TravelDetailID *string
	Status         EntryRecordStatus

	// CompletionMetrics holds the calculator output verbatim as JSON.
	CompletionMetrics string

	CreatedAt time.Time
	UpdatedAt time.Time
}

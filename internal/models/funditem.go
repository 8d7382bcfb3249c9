package models

import "time"

// FundItem is a proof-of-funds record. Funds are owned by the user, not by
// a trip: entry records reference them through a link table and deleting an
// entry record never deletes the fund items themselves.
type FundItem struct {
	ID        string
	UserID    string
	Type      string
	Amount    float64
	Currency  string
	PhotoPath string // local file with the supporting document, optional
	PhotoKey  string // object-storage key once backed up, optional
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FundLink is one row of the entry-record/fund-item link table.
type FundLink struct {
	EntryRecordID string
	FundItemID    string
	LinkedAt      time.Time
}

package models

import "time"

// Passport holds one travel document. At most one passport per user may
// have IsPrimary set; the repositories enforce this inside the same
// transaction as the write.
//
// Date fields are kept as form values ("2006-01-02") because they are
// captured from forms or OCR and never computed on.
type Passport struct {
	ID          string
	UserID      string
	Number      string
	FullName    string
	BirthDate   string
	Nationality string // ISO-3 code, e.g. "THA"
	Gender      string
	IssueDate   string
	ExpiryDate  string
	IsPrimary   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

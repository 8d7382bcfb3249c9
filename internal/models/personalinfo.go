package models

import "time"

// PersonalInfo is a contact/profile record, optionally tied to a passport.
// At most one profile per user may have IsDefault set (transactionally
// enforced, same pattern as Passport.IsPrimary).
type PersonalInfo struct {
	ID               string
	UserID           string
	PassportID       *string
	PhoneCode        string // country calling code, may carry a leading "+"
	PhoneNumber      string
	Email            string
	Occupation       string
	ResidenceCity    string
	ResidenceCountry string
	IsDefault        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

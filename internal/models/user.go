// Package models defines the traveler record entities persisted in the
// local store: identity anchor, passports, contact profiles, trip details,
// proof-of-funds items, entry records, and arrival-card submissions.
package models

import "time"

// User is the identity anchor that ultimately owns every other entity.
// A device typically holds one user, but multi-passport households may
// attach several passports and profiles to it.
type User struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

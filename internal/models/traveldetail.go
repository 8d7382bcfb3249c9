package models

import "time"

// TravelDetail carries the per-trip itinerary. Accommodation fields are
// irrelevant for transit passengers and drop out of the completion
// checklist entirely when IsTransit is set.
type TravelDetail struct {
	ID                string
	UserID            string
	Purpose           string
	BoardedCountry    string // country of boarding / recent stay
	ArrivalFlightNo   string
	ArrivalDate       *time.Time
	DepartureFlightNo string
	DepartureDate     *time.Time
	TransportMode     string // e.g. "COMMERCIAL FLIGHT"
	AccommodationType string
	Address           string
	Province          string
	District          string
	SubDistrict       string
	PostalCode        string
	IsTransit         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Package completion scores how much required trip data has been supplied,
// per category and in aggregate. Calculate is a pure function; the caller
// persists the result verbatim into the entry record.
package completion

import (
	"math"
	"strings"

	"github.com/entrypass/entrypass/internal/models"
)

// CategoryState classifies one category's progress.
type CategoryState string

const (
	StateComplete CategoryState = "complete"
	StatePartial  CategoryState = "partial"
	StateMissing  CategoryState = "missing"
)

// Category is the per-category metric. Total varies: transit passengers
// have a shorter trip checklist because accommodation checks drop out.
type Category struct {
	Complete int           `json:"complete"`
	Total    int           `json:"total"`
	State    CategoryState `json:"state"`
}

// Metrics is the full calculator output, persisted verbatim as JSON.
type Metrics struct {
	Passport     Category `json:"passport"`
	PersonalInfo Category `json:"personalInfo"`
	Trip         Category `json:"trip"`
	Funds        Category `json:"funds"`

	// Percent is round(100 * sum(complete) / sum(total)).
	Percent int `json:"percent"`
}

// IsComplete reports whether every category is complete.
func (m Metrics) IsComplete() bool {
	return m.Percent == 100
}

func hasData(s string) bool {
	return strings.TrimSpace(s) != ""
}

func categorize(checks []bool) Category {
	c := Category{Total: len(checks)}
	for _, ok := range checks {
		if ok {
			c.Complete++
		}
	}
	switch {
	case c.Total > 0 && c.Complete == c.Total:
		c.State = StateComplete
	case c.Complete > 0:
		c.State = StatePartial
	default:
		c.State = StateMissing
	}
	return c
}

func passportChecks(p *models.Passport) []bool {
	if p == nil {
		// nil entity still contributes its checklist length so the
		// aggregate percentage reflects the missing work.
		return make([]bool, 6)
	}
	return []bool{
		hasData(p.Number),
		hasData(p.FullName),
		hasData(p.BirthDate),
		hasData(p.Nationality),
		hasData(p.Gender),
		hasData(p.ExpiryDate),
	}
}

func personalInfoChecks(p *models.PersonalInfo) []bool {
	if p == nil {
		return make([]bool, 5)
	}
	return []bool{
		hasData(p.PhoneNumber),
		hasData(p.Email),
		hasData(p.Occupation),
		hasData(p.ResidenceCity),
		hasData(p.ResidenceCountry),
	}
}

func tripChecks(t *models.TravelDetail) []bool {
	if t == nil {
		return make([]bool, 7)
	}
	checks := []bool{
		hasData(t.Purpose),
		hasData(t.BoardedCountry),
		hasData(t.ArrivalFlightNo),
		t.ArrivalDate != nil,
	}
	// Transit passengers are not required to supply lodging, so the
	// accommodation checks leave the checklist entirely.
	if !t.IsTransit {
		checks = append(checks,
			hasData(t.AccommodationType),
			hasData(t.Province),
			hasData(t.Address),
		)
	}
	return checks
}

// Calculate scores the four categories for one entry record. Any of the
// entity pointers may be nil; a record with nothing linked yields all
// categories missing and 0 percent.
func Calculate(p *models.Passport, pi *models.PersonalInfo, t *models.TravelDetail, fundCount int) Metrics {
	m := Metrics{
		Passport:     categorize(passportChecks(p)),
		PersonalInfo: categorize(personalInfoChecks(pi)),
		Trip:         categorize(tripChecks(t)),
		Funds:        categorize([]bool{fundCount > 0}),
	}

	complete := m.Passport.Complete + m.PersonalInfo.Complete + m.Trip.Complete + m.Funds.Complete
	total := m.Passport.Total + m.PersonalInfo.Total + m.Trip.Total + m.Funds.Total
	if total > 0 {
		m.Percent = int(math.Round(100 * float64(complete) / float64(total)))
	}
	return m
}

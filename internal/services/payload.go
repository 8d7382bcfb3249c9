package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/entrypass/entrypass/internal/authority"
	"github.com/entrypass/entrypass/internal/common"
	"github.com/entrypass/entrypass/internal/fieldcodes"
	"github.com/entrypass/entrypass/internal/models"
)

const (
	tokenMinLen = 64
	tokenMaxLen = 4096
)

// validateToken checks the verification token locally before any network
// call: present, length within bounds, URL-safe charset only.
func validateToken(token string) error {
	if token == "" {
		return common.ErrTokenMissing
	}
	if len(token) < tokenMinLen || len(token) > tokenMaxLen {
		return fmt.Errorf("%w: length %d outside [%d, %d]", common.ErrTokenMalformed, len(token), tokenMinLen, tokenMaxLen)
	}
	for _, r := range token {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
		default:
			return fmt.Errorf("%w: unexpected character %q", common.ErrTokenMalformed, r)
		}
	}
	return nil
}

// splitName breaks a passport full name (MRZ order: family name first) into
// the authority's three name fields. Trailing punctuation from OCR is
// stripped before splitting.
func splitName(full string) (family, first, middle string) {
	tokens := strings.Fields(strings.TrimRight(strings.TrimSpace(full), ",;. "))
	switch len(tokens) {
	case 0:
		return "", "", ""
	case 1:
		return tokens[0], "", ""
	case 2:
		return tokens[0], tokens[1], ""
	default:
		return tokens[0], tokens[len(tokens)-1], strings.Join(tokens[1:len(tokens)-1], " ")
	}
}

// normalizePhoneCode drops the leading "+" some inputs carry; the authority
// wants the bare calling code.
func normalizePhoneCode(code string) string {
	return strings.TrimPrefix(strings.TrimSpace(code), "+")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// buildPayload encodes the record's entities into the authority's card
// form. Enumerated fields resolve through the code tables; every defaulted
// resolution is returned as a warning so the caller can log and surface it
// without blocking the submission.
func buildPayload(p *models.Passport, pi *models.PersonalInfo, t *models.TravelDetail) (authority.CardPayload, []string) {
	var warnings []string

	resolveAll := func(rs ...fieldcodes.Resolved) []string {
		codes := make([]string, len(rs))
		for i, r := range rs {
			codes[i] = r.Code
			if r.Defaulted {
				warnings = append(warnings, fmt.Sprintf("%s %q not recognized, defaulted to %s", r.Category, r.Input, r.Code))
			}
		}
		return codes
	}

	family, firstName, middle := splitName(p.FullName)

	codes := resolveAll(
		fieldcodes.Gender(p.Gender),
		fieldcodes.Nationality(p.Nationality),
		fieldcodes.Purpose(t.Purpose),
		fieldcodes.Transport(t.TransportMode),
	)

	payload := authority.CardPayload{
		FamilyName:     family,
		FirstName:      firstName,
		MiddleName:     middle,
		GenderCode:     codes[0],
		NationalityID:  codes[1],
		PassportNo:     p.Number,
		BirthDate:      p.BirthDate,
		PurposeID:      codes[2],
		TransportID:    codes[3],
		ArrivalDate:    formatDate(t.ArrivalDate),
		DepartureDate:  formatDate(t.DepartureDate),
		FlightNo:       t.ArrivalFlightNo,
		BoardedCountry: t.BoardedCountry,
	}

	if pi != nil {
		payload.Occupation = pi.Occupation
		payload.CountryOfStay = pi.ResidenceCountry
		payload.CityOfStay = pi.ResidenceCity
		payload.PhoneCode = normalizePhoneCode(pi.PhoneCode)
		payload.PhoneNo = pi.PhoneNumber
		payload.Email = pi.Email
	}

	// Transit passengers declare no lodging; the accommodation block stays
	// empty and the authority accepts the transit purpose without it.
	if !t.IsTransit {
		acc := resolveAll(fieldcodes.Accommodation(t.AccommodationType))
		payload.AccommodationID = acc[0]
		payload.Address = t.Address
		payload.Province = t.Province
		payload.District = t.District
		payload.PostCode = t.PostalCode
	}

	return payload, warnings
}

// Package fieldcodes translates the business-level values a traveler
// selects (gender, purpose, accommodation, transport, nationality) into the
// opaque encoded identifiers the destination authority's API requires.
//
// Lookup tables are frozen at startup and keyed by the canonical uppercase
// business value. Resolution never fails: an unmapped value falls back to
// the category's safe default and the result is flagged so the pipeline
// can log a data-quality warning without blocking submission.
package fieldcodes

import "strings"

// Category names one resolvable field family.
type Category string

const (
	CategoryGender        Category = "gender"
	CategoryNationality   Category = "nationality"
	CategoryPurpose       Category = "purpose"
	CategoryAccommodation Category = "accommodation"
	CategoryTransport     Category = "transport"
)

// Resolved is the outcome of one lookup.
type Resolved struct {
	Category Category
	Input    string
	Code     string

	// Defaulted is set when the input had no table entry and the
	// category default was substituted.
	Defaulted bool
}

func canonical(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

func resolve(cat Category, table map[string]string, def, input string) Resolved {
	key := canonical(input)
	if code, ok := table[key]; ok {
		return Resolved{Category: cat, Input: input, Code: code}
	}
	return Resolved{Category: cat, Input: input, Code: def, Defaulted: true}
}

// Gender resolves a gender value.
func Gender(v string) Resolved {
	return resolve(CategoryGender, genderCodes, genderDefault, v)
}

// Nationality resolves an ISO-3 nationality code.
func Nationality(v string) Resolved {
	return resolve(CategoryNationality, nationalityCodes, nationalityDefault, v)
}

// Purpose resolves a travel purpose.
func Purpose(v string) Resolved {
	return resolve(CategoryPurpose, purposeCodes, purposeDefault, v)
}

// Accommodation resolves an accommodation type.
func Accommodation(v string) Resolved {
	return resolve(CategoryAccommodation, accommodationCodes, accommodationDefault, v)
}

// Transport resolves a transport-mode subtype. The default is the
// commercial-flight id, which covers the overwhelming majority of
// travelers.
func Transport(v string) Resolved {
	return resolve(CategoryTransport, transportCodes, transportDefault, v)
}

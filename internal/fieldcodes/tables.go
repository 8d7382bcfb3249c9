package fieldcodes

// The authority's form endpoints accept only these encoded identifiers,
// not plain-text enumerations. Keys are canonical uppercase values as they
// appear in the app's dropdowns.

var (
	genderDefault = "GD-U"
	genderCodes   = map[string]string{
		"MALE":      "GD-M",
		"FEMALE":    "GD-F",
		"UNDEFINED": "GD-U",
	}

	purposeDefault = "PP-99"
	purposeCodes   = map[string]string{
		"HOLIDAY":    "PP-01",
		"BUSINESS":   "PP-02",
		"MEETING":    "PP-03",
		"INCENTIVE":  "PP-04",
		"CONVENTION": "PP-05",
		"EXHIBITION": "PP-06",
		"EDUCATION":  "PP-07",
		"EMPLOYMENT": "PP-08",
		"MEDICAL":    "PP-09",
		"SPORTS":     "PP-10",
		"TRANSIT":    "PP-11",
		"OTHERS":     "PP-99",
	}

	accommodationDefault = "AC-99"
	accommodationCodes   = map[string]string{
		"HOTEL":          "AC-01",
		"HOSTEL":         "AC-02",
		"GUEST HOUSE":    "AC-03",
		"FRIEND'S HOUSE": "AC-04",
		"APARTMENT":      "AC-05",
		"OWN RESIDENCE":  "AC-06",
		"OTHERS":         "AC-99",
	}

	// Default is the commercial-flight id: nearly all travelers arrive on
	// scheduled flights, and the authority rejects submissions without a
	// transport id outright.
	transportDefault = "TM-A01"
	transportCodes   = map[string]string{
		"COMMERCIAL FLIGHT": "TM-A01",
		"CHARTER FLIGHT":    "TM-A02",
		"PRIVATE FLIGHT":    "TM-A03",
		"CRUISE":            "TM-S01",
		"CARGO SHIP":        "TM-S02",
		"PRIVATE VESSEL":    "TM-S03",
		"CAR":               "TM-L01",
		"BUS":               "TM-L02",
		"TRAIN":             "TM-L03",
	}

	// Nationality uses ISO 3166-1 numeric codes keyed by the alpha-3 code
	// captured from the passport MRZ.
	nationalityDefault = "000"
	nationalityCodes   = map[string]string{
		"THA": "764",
		"CHN": "156",
		"JPN": "392",
		"KOR": "410",
		"IND": "356",
		"VNM": "704",
		"MYS": "458",
		"SGP": "702",
		"IDN": "360",
		"PHL": "608",
		"LAO": "418",
		"KHM": "116",
		"MMR": "104",
		"USA": "840",
		"CAN": "124",
		"MEX": "484",
		"BRA": "076",
		"GBR": "826",
		"FRA": "250",
		"DEU": "276",
		"ITA": "380",
		"ESP": "724",
		"NLD": "528",
		"SWE": "752",
		"CHE": "756",
		"RUS": "643",
		"AUS": "036",
		"NZL": "554",
		"ARE": "784",
		"SAU": "682",
	}
)

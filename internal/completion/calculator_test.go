package completion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrypass/entrypass/internal/models"
)

func fullPassport() *models.Passport {
	return &models.Passport{
		Number:      "AA1234567",
		FullName:    "ZHANG WEI",
		BirthDate:   "1990-02-03",
		Nationality: "CHN",
		Gender:      "MALE",
		ExpiryDate:  "2030-01-01",
	}
}

func fullPersonalInfo() *models.PersonalInfo {
	return &models.PersonalInfo{
		PhoneNumber:      "812345678",
		Email:            "zhang@example.com",
		Occupation:       "Engineer",
		ResidenceCity:    "Shanghai",
		ResidenceCountry: "CHN",
	}
}

func fullTrip() *models.TravelDetail {
	arrival := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	return &models.TravelDetail{
		Purpose:           "HOLIDAY",
		BoardedCountry:    "CHN",
		ArrivalFlightNo:   "CA979",
		ArrivalDate:       &arrival,
		AccommodationType: "HOTEL",
		Province:          "Bangkok",
		Address:           "123 Sukhumvit Rd",
	}
}

func TestCalculate_NothingLinked(t *testing.T) {
	m := Calculate(nil, nil, nil, 0)

	assert.Equal(t, StateMissing, m.Passport.State)
	assert.Equal(t, StateMissing, m.PersonalInfo.State)
	assert.Equal(t, StateMissing, m.Trip.State)
	assert.Equal(t, StateMissing, m.Funds.State)
	assert.Equal(t, 0, m.Percent)
	assert.False(t, m.IsComplete())
}

func TestCalculate_AllComplete(t *testing.T) {
	m := Calculate(fullPassport(), fullPersonalInfo(), fullTrip(), 2)

	assert.Equal(t, StateComplete, m.Passport.State)
	assert.Equal(t, StateComplete, m.PersonalInfo.State)
	assert.Equal(t, StateComplete, m.Trip.State)
	assert.Equal(t, StateComplete, m.Funds.State)
	assert.Equal(t, 100, m.Percent)
	assert.True(t, m.IsComplete())
}

func TestCalculate_PartialPassport(t *testing.T) {
	p := fullPassport()
	p.Gender = ""
	p.ExpiryDate = "   " // blank after trimming

	m := Calculate(p, nil, nil, 0)

	assert.Equal(t, StatePartial, m.Passport.State)
	assert.Equal(t, 4, m.Passport.Complete)
	assert.Equal(t, 6, m.Passport.Total)
}

func TestCalculate_TransitShortensTripChecklist(t *testing.T) {
	trip := fullTrip()
	trip.AccommodationType = ""
	trip.Province = ""
	trip.Address = ""

	// Non-transit: accommodation checks count and are unmet.
	m := Calculate(nil, nil, trip, 0)
	assert.Equal(t, 7, m.Trip.Total)
	assert.Equal(t, 4, m.Trip.Complete)
	assert.Equal(t, StatePartial, m.Trip.State)

	// Transit: the same data is a complete checklist.
	trip.IsTransit = true
	m = Calculate(nil, nil, trip, 0)
	assert.Equal(t, 4, m.Trip.Total)
	assert.Equal(t, 4, m.Trip.Complete)
	assert.Equal(t, StateComplete, m.Trip.State)
}

func TestCalculate_FundsBinary(t *testing.T) {
	m := Calculate(nil, nil, nil, 3)
	assert.Equal(t, Category{Complete: 1, Total: 1, State: StateComplete}, m.Funds)

	m = Calculate(nil, nil, nil, 0)
	assert.Equal(t, Category{Complete: 0, Total: 1, State: StateMissing}, m.Funds)
}

func TestCalculate_Idempotent(t *testing.T) {
	a := Calculate(fullPassport(), fullPersonalInfo(), fullTrip(), 1)
	b := Calculate(fullPassport(), fullPersonalInfo(), fullTrip(), 1)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, ja, jb)
}

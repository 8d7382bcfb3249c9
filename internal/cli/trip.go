package cli

import (
	"context"
	"os"

	"github.com/entrypass/entrypass/internal/models"
)

// Trip interactively captures or replaces the record's itinerary. Transit
// passengers skip the accommodation questions entirely.
func (a *App) Trip(ctx context.Context) error {
	w := os.Stdout

	purpose, err := GetSimpleText(a.reader, "Purpose of travel (e.g. holiday, business, transit)", w)
	if err != nil {
		return err
	}
	boarded, err := GetSimpleText(a.reader, "Country where you boarded (ISO-3)", w)
	if err != nil {
		return err
	}
	flightNo, err := GetSimpleText(a.reader, "Arrival flight number", w)
	if err != nil {
		return err
	}
	arrival, err := GetOptionalDate(a.reader, "Arrival date", w)
	if err != nil {
		printlnFn(err)
		return err
	}
	departure, err := GetOptionalDate(a.reader, "Departure date", w)
	if err != nil {
		printlnFn(err)
		return err
	}
	transport, err := GetSimpleText(a.reader, "Transport mode (e.g. commercial flight)", w)
	if err != nil {
		return err
	}
	transit, err := GetYesNo(a.reader, "Transit only (no entry)?", w)
	if err != nil {
		return err
	}

	t := &models.TravelDetail{
		UserID:          a.user.ID,
		Purpose:         purpose,
		BoardedCountry:  boarded,
		ArrivalFlightNo: flightNo,
		ArrivalDate:     arrival,
		DepartureDate:   departure,
		TransportMode:   transport,
		IsTransit:       transit,
	}

	if !transit {
		if t.AccommodationType, err = GetSimpleText(a.reader, "Accommodation type (e.g. hotel)", w); err != nil {
			return err
		}
		if t.Address, err = GetSimpleText(a.reader, "Accommodation address", w); err != nil {
			return err
		}
		if t.Province, err = GetSimpleText(a.reader, "Province", w); err != nil {
			return err
		}
		if t.District, err = GetSimpleText(a.reader, "District", w); err != nil {
			return err
		}
		if t.PostalCode, err = GetSimpleText(a.reader, "Postal code", w); err != nil {
			return err
		}
	}

	if err := a.records.SaveTravelDetail(ctx, a.rec.ID, t); err != nil {
		a.log.Error(ctx, "saving travel details failed", "err", err)
		printlnFn("Could not save travel details:", err)
		return err
	}

	printlnFn("Travel details saved.")

	// The arrival date may have moved the next window transition; re-aim
	// the background watcher at the fresh instant.
	if a.watcher != nil {
		a.checkWindow(ctx, a.rec.ID)
	}
	return nil
}

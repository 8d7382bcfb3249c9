package cli

import (
	"context"
	"os"

	"github.com/entrypass/entrypass/internal/models"
)

// Passport interactively captures or replaces the record's passport.
func (a *App) Passport(ctx context.Context) error {
	w := os.Stdout

	number, err := GetSimpleText(a.reader, "Passport number", w)
	if err != nil {
		return err
	}
	fullName, err := GetSimpleText(a.reader, "Full name as printed (family name first)", w)
	if err != nil {
		return err
	}
	birthDate, err := GetSimpleText(a.reader, "Date of birth (YYYY-MM-DD)", w)
	if err != nil {
		return err
	}
	nationality, err := GetSimpleText(a.reader, "Nationality (ISO-3, e.g. THA)", w)
	if err != nil {
		return err
	}
	gender, err := GetSimpleText(a.reader, "Gender (male/female/undefined)", w)
	if err != nil {
		return err
	}
	expiry, err := GetSimpleText(a.reader, "Expiry date (YYYY-MM-DD)", w)
	if err != nil {
		return err
	}
	primary, err := GetYesNo(a.reader, "Make this the primary passport?", w)
	if err != nil {
		return err
	}

	p := &models.Passport{
		UserID:      a.user.ID,
		Number:      number,
		FullName:    fullName,
		BirthDate:   birthDate,
		Nationality: nationality,
		Gender:      gender,
		ExpiryDate:  expiry,
		IsPrimary:   primary,
	}
	if err := a.records.SavePassport(ctx, a.rec.ID, p); err != nil {
		a.log.Error(ctx, "saving passport failed", "err", err)
		printlnFn("Could not save passport:", err)
		return err
	}

	printlnFn("Passport saved.")
	return nil
}

package cli

import (
	"context"
	"os"

	"github.com/entrypass/entrypass/internal/models"
)

// Profile interactively captures or replaces the record's contact profile.
func (a *App) Profile(ctx context.Context) error {
	w := os.Stdout

	phoneCode, err := GetSimpleText(a.reader, "Phone country code (e.g. +66)", w)
	if err != nil {
		return err
	}
	phone, err := GetSimpleText(a.reader, "Phone number", w)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.reader, "Email", w)
	if err != nil {
		return err
	}
	occupation, err := GetSimpleText(a.reader, "Occupation", w)
	if err != nil {
		return err
	}
	country, err := GetSimpleText(a.reader, "Country of residence (ISO-3)", w)
	if err != nil {
		return err
	}
	city, err := GetSimpleText(a.reader, "City of residence", w)
	if err != nil {
		return err
	}
	isDefault, err := GetYesNo(a.reader, "Make this the default profile?", w)
	if err != nil {
		return err
	}

	p := &models.PersonalInfo{
		UserID:           a.user.ID,
		PhoneCode:        phoneCode,
		PhoneNumber:      phone,
		Email:            email,
		Occupation:       occupation,
		ResidenceCountry: country,
		ResidenceCity:    city,
		IsDefault:        isDefault,
	}
	if err := a.records.SaveProfile(ctx, a.rec.ID, p); err != nil {
		a.log.Error(ctx, "saving profile failed", "err", err)
		printlnFn("Could not save profile:", err)
		return err
	}

	printlnFn("Profile saved.")
	return nil
}

package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/octobees/house-price-estimator/internal/catalog"
	"github.com/octobees/house-price-estimator/internal/estimator"
)

// Prefill carries values already supplied on the command line. Empty fields
// are asked for.
type Prefill struct {
	Sqft     string
	BHK      string
	Bath     string
	Location string
}

// Complete reports whether every field was supplied.
func (p Prefill) Complete() bool {
	return p.Sqft != "" && p.BHK != "" && p.Bath != "" && p.Location != ""
}

// Form asks for whatever the prefill lacks and returns the submission.
// Numbers are checked as they are typed; the location is picked by label.
func Form(ctx context.Context, d Driver, cat *catalog.Catalog, pre Prefill) (estimator.FormInput, error) {
	fields := []struct {
		value   *string
		field   string
		message string
	}{
		{&pre.Sqft, estimator.FieldSqft, "Total square feet"},
		{&pre.BHK, estimator.FieldBHK, "BHK"},
		{&pre.Bath, estimator.FieldBath, "Bathrooms"},
	}
	for _, f := range fields {
		if *f.value != "" {
			continue
		}
		field := f.field
		answer, err := d.Input(ctx, InputConfig{
			Message: f.message,
			Validator: func(s string) error {
				return estimator.CheckField(field, s)
			},
		})
		if err != nil {
			return estimator.FormInput{}, err
		}
		*f.value = answer
	}

	location := ResolveLocation(cat, pre.Location)
	if location == "" {
		picked, err := pickLocation(ctx, d, cat)
		if err != nil {
			return estimator.FormInput{}, err
		}
		location = picked
	}

	return estimator.ParseForm(pre.Sqft, pre.BHK, pre.Bath, location), nil
}

// ResolveLocation maps a user supplied value to a catalog key. An exact key
// wins, then a case-insensitive label match. Anything else is returned as is
// so validation can report it.
func ResolveLocation(cat *catalog.Catalog, value string) string {
	if value == "" || cat.Contains(value) {
		return value
	}
	want := catalog.Label(value)
	for _, loc := range cat.Entries() {
		if strings.EqualFold(loc.Label, want) {
			return loc.Key
		}
	}
	return value
}

func pickLocation(ctx context.Context, d Driver, cat *catalog.Catalog) (string, error) {
	entries := cat.Entries()
	if len(entries) == 0 {
		return "", ErrNoLocations
	}
	options := make([]string, len(entries))
	for i, loc := range entries {
		options[i] = loc.Label
	}
	idx, err := d.Select(ctx, SelectConfig{
		Message:  "Location",
		Options:  options,
		PageSize: 15,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(entries) {
		return "", fmt.Errorf("prompt: location index %d out of range", idx)
	}
	return entries[idx].Key, nil
}

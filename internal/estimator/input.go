package estimator

import (
	"math"
	"strconv"
	"strings"

	"github.com/octobees/house-price-estimator/internal/catalog"
)

// Input bounds.
const (
	MinSqft  = 100
	MinCount = 1
	MaxCount = 10
)

// Field names reported on validation failures.
const (
	FieldSqft     = "total_sqft"
	FieldBHK      = "bhk"
	FieldBath     = "bath"
	FieldLocation = "location"
)

// Validation messages.
const (
	MsgInvalidSqft     = "Please enter a valid square feet value (≥ 100)."
	MsgInvalidBHK      = "Please enter a valid BHK between 1 and 10."
	MsgInvalidBath     = "Please enter bathrooms between 1 and 10."
	MsgNoLocation      = "Please select a location."
	MsgUnknownLocation = "Please select a location from the list."
)

// FormInput is one submission attempt. BHK and Bath must hold integral
// values; they are floats so that Validate can reject fractions in order.
type FormInput struct {
	Sqft        float64
	BHK         float64
	Bath        float64
	LocationKey string
}

// ParseForm builds a FormInput from raw form values. Numbers that do not
// parse become NaN and fail validation. The location key is kept verbatim.
func ParseForm(sqft, bhk, bath, location string) FormInput {
	return FormInput{
		Sqft:        parseNumber(sqft),
		BHK:         parseNumber(bhk),
		Bath:        parseNumber(bath),
		LocationKey: location,
	}
}

func parseNumber(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Validate checks sqft, bhk, bath and location in that order and returns the
// first violation as a *SubmitError of kind SubmitValidation.
func Validate(in FormInput, locations *catalog.Catalog) error {
	if !validSqft(in.Sqft) {
		return invalid(FieldSqft, MsgInvalidSqft)
	}
	if !validCount(in.BHK) {
		return invalid(FieldBHK, MsgInvalidBHK)
	}
	if !validCount(in.Bath) {
		return invalid(FieldBath, MsgInvalidBath)
	}
	if in.LocationKey == "" {
		return invalid(FieldLocation, MsgNoLocation)
	}
	if !locations.Contains(in.LocationKey) {
		return invalid(FieldLocation, MsgUnknownLocation)
	}
	return nil
}

func validSqft(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= MinSqft
}

func validCount(v float64) bool {
	return v == math.Trunc(v) && v >= MinCount && v <= MaxCount
}

func invalid(field, msg string) *SubmitError {
	return &SubmitError{Kind: SubmitValidation, Field: field, Message: msg}
}

// CheckField validates a single raw numeric field the way Validate would,
// so interactive front-ends can reject a value as soon as it is typed.
func CheckField(field, raw string) error {
	v := parseNumber(raw)
	switch field {
	case FieldSqft:
		if !validSqft(v) {
			return invalid(FieldSqft, MsgInvalidSqft)
		}
	case FieldBHK:
		if !validCount(v) {
			return invalid(FieldBHK, MsgInvalidBHK)
		}
	case FieldBath:
		if !validCount(v) {
			return invalid(FieldBath, MsgInvalidBath)
		}
	}
	return nil
}

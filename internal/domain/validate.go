package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Column limits of the persisted schema.
const (
	MaxApartmentNameLength    = 200
	MaxApartmentAddressLength = 500
	MaxFlatNumberLength       = 50
	MaxResidentNameLength     = 150
	MaxPhoneNumberLength      = 20
	MaxEmailLength            = 70

	// MaxActiveResidentsPerFlat occupancy limit of a flat
	MaxActiveResidentsPerFlat = 5
)

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func requireText(op, field, value string, maxLen int) error {
	if IsBlank(value) {
		return Validation(op, field+" is required")
	}
	if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
		return Validation(op, fmt.Sprintf("%s must be at most %d characters", field, maxLen))
	}
	return nil
}

func requireID(op, field string, id int64) error {
	if id <= 0 {
		return Validation(op, "invalid "+field)
	}
	return nil
}

// ValidateID rejects non-positive identifiers.
func ValidateID(op, field string, id int64) error {
	return requireID(op, field, id)
}

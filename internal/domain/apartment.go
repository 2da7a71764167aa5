package domain

import "strings"

// Apartment a building holding flats (apartments table)
// Deleting an apartment cascades to its flats in storage.
type Apartment struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`    // NOT NULL, VARCHAR(200)
	Address string `db:"address"` // NOT NULL, VARCHAR(500)
}

// NewApartment validates name and address and returns an unsaved apartment.
func NewApartment(name, address string) (*Apartment, error) {
	if err := validateApartment("NewApartment", name, address); err != nil {
		return nil, err
	}
	return &Apartment{
		Name:    strings.TrimSpace(name),
		Address: strings.TrimSpace(address),
	}, nil
}

// UpdateDetails overwrites name and address. On error a is left unchanged.
func (a *Apartment) UpdateDetails(name, address string) error {
	if err := validateApartment("UpdateDetails", name, address); err != nil {
		return err
	}
	a.Name = strings.TrimSpace(name)
	a.Address = strings.TrimSpace(address)
	return nil
}

func validateApartment(op, name, address string) error {
	if err := requireText(op, "apartment name", name, MaxApartmentNameLength); err != nil {
		return err
	}
	return requireText(op, "apartment address", address, MaxApartmentAddressLength)
}

// ValidateApartmentDetails applies the NewApartment rules without building one.
func ValidateApartmentDetails(name, address string) error {
	return validateApartment("ValidateApartmentDetails", name, address)
}

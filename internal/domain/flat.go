package domain

// Flat a dwelling inside an apartment (flats table)
// (ApartmentID, FlatNumber) is unique; residents restrict deletion.
type Flat struct {
	ID          int64  `db:"id"`
	FlatNumber  string `db:"flat_number"`  // NOT NULL, VARCHAR(50)
	Floor       int    `db:"floor"`        // NOT NULL, >= 0
	ApartmentID int64  `db:"apartment_id"` // FK apartments.id ON DELETE CASCADE
}

// NewFlat validates its arguments and returns an unsaved flat.
// The flat number is kept verbatim; duplicates are compared case-sensitively.
func NewFlat(flatNumber string, floor int, apartmentID int64) (*Flat, error) {
	const op = "NewFlat"
	if err := requireText(op, "flat number", flatNumber, MaxFlatNumberLength); err != nil {
		return nil, err
	}
	if floor < 0 {
		return nil, Validation(op, "floor cannot be negative")
	}
	if err := requireID(op, "apartment id", apartmentID); err != nil {
		return nil, err
	}
	return &Flat{
		FlatNumber:  flatNumber,
		Floor:       floor,
		ApartmentID: apartmentID,
	}, nil
}

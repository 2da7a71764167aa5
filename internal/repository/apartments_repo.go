package repository

import (
	"context"

	"apartment-data/internal/domain"
)

// ApartmentsRepository apartments table access
type ApartmentsRepository interface {
	// GetApartment returns (nil, nil) when the row does not exist
	GetApartment(ctx context.Context, apartmentID int64) (*domain.Apartment, error)
	// ListApartments returns every apartment with its flat count, ordered by id
	ListApartments(ctx context.Context) ([]*ApartmentWithFlatCount, error)
	CreateApartment(ctx context.Context, apartment *domain.Apartment) (int64, error)
	UpdateApartment(ctx context.Context, apartment *domain.Apartment) error
	// DeleteApartment cascades to the apartment's flats
	DeleteApartment(ctx context.Context, apartmentID int64) error
	ApartmentExists(ctx context.Context, apartmentID int64) (bool, error)
}

// ApartmentWithFlatCount apartment plus the number of flats it owns
type ApartmentWithFlatCount struct {
	Apartment *domain.Apartment
	FlatCount int
}

package repository

import (
	"context"

	"apartment-data/internal/domain"
)

// FlatsRepository flats table access
type FlatsRepository interface {
	// GetFlat returns (nil, nil) when the row does not exist
	GetFlat(ctx context.Context, flatID int64) (*domain.Flat, error)
	ListFlatsByApartment(ctx context.Context, apartmentID int64) ([]*domain.Flat, error)
	ListFlats(ctx context.Context) ([]*domain.Flat, error)
	// CreateFlat returns a conflict error when (apartment_id, flat_number) is taken
	CreateFlat(ctx context.Context, flat *domain.Flat) (int64, error)
	// DeleteFlat is a no-op for a missing row; fails while residents still reference the flat
	DeleteFlat(ctx context.Context, flatID int64) error
	// FlatNumberExists exact, case-sensitive match within one apartment
	FlatNumberExists(ctx context.Context, apartmentID int64, flatNumber string) (bool, error)
	CountFlatsByApartment(ctx context.Context, apartmentID int64) (int, error)
}

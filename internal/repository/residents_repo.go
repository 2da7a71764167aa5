package repository

import (
	"context"
	"time"

	"apartment-data/internal/domain"
)

// ResidentsRepository residents table access
// Lists are ordered by move_in_date ascending, then id.
type ResidentsRepository interface {
	// GetResident returns (nil, nil) when the row does not exist
	GetResident(ctx context.Context, residentID int64) (*domain.Resident, error)
	ListResidentsByFlat(ctx context.Context, flatID int64) ([]*domain.Resident, error)
	// ListResidents returns every resident joined with its flat
	ListResidents(ctx context.Context) ([]*ResidentWithFlat, error)
	CountActiveResidentsByFlat(ctx context.Context, flatID int64) (int, error)

	// CreateResident inserts resident. When maxActive > 0 the active count of the
	// flat is checked in the same unit of work as the insert, returning a capacity
	// error at the limit and a not-found error when the flat is missing.
	CreateResident(ctx context.Context, resident *domain.Resident, maxActive int) (int64, error)
	// UpdateResidentType changes only the type; a missing resident yields a not-found error
	UpdateResidentType(ctx context.Context, residentID int64, residentType domain.ResidentType) error
	// MoveOutResident sets move_out_date only if it is still NULL. A resident that
	// already moved out yields a conflict error, a missing one a not-found error.
	MoveOutResident(ctx context.Context, residentID int64, at time.Time) error
	// DeleteResident is a no-op for a missing row
	DeleteResident(ctx context.Context, residentID int64) error
}

// ResidentWithFlat resident plus the number and floor of its flat
type ResidentWithFlat struct {
	Resident   *domain.Resident
	FlatNumber string
	Floor      int
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"apartment-data/internal/domain"
)

type PostgresApartmentsRepository struct {
	db *sql.DB
}

func NewPostgresApartmentsRepository(db *sql.DB) *PostgresApartmentsRepository {
	return &PostgresApartmentsRepository{db: db}
}

func (r *PostgresApartmentsRepository) GetApartment(ctx context.Context, apartmentID int64) (*domain.Apartment, error) {
	var a domain.Apartment
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, address FROM apartments WHERE id = $1`,
		apartmentID,
	).Scan(&a.ID, &a.Name, &a.Address)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListApartments counts flats with a LEFT JOIN so apartments without flats report 0
func (r *PostgresApartmentsRepository) ListApartments(ctx context.Context) ([]*ApartmentWithFlatCount, error) {
	q := `
		SELECT a.id, a.name, a.address, COUNT(f.id)
		FROM apartments a
		LEFT JOIN flats f ON f.apartment_id = a.id
		GROUP BY a.id, a.name, a.address
		ORDER BY a.id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*ApartmentWithFlatCount{}
	for rows.Next() {
		var a domain.Apartment
		var flatCount int
		if err := rows.Scan(&a.ID, &a.Name, &a.Address, &flatCount); err != nil {
			return nil, err
		}
		out = append(out, &ApartmentWithFlatCount{Apartment: &a, FlatCount: flatCount})
	}
	return out, rows.Err()
}

func (r *PostgresApartmentsRepository) CreateApartment(ctx context.Context, apartment *domain.Apartment) (int64, error) {
	if apartment == nil {
		return 0, fmt.Errorf("apartment is required")
	}
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO apartments (name, address) VALUES ($1, $2) RETURNING id`,
		apartment.Name, apartment.Address,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create apartment: %w", err)
	}
	apartment.ID = id
	return id, nil
}

func (r *PostgresApartmentsRepository) UpdateApartment(ctx context.Context, apartment *domain.Apartment) error {
	if apartment == nil {
		return fmt.Errorf("apartment is required")
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE apartments SET name = $1, address = $2 WHERE id = $3`,
		apartment.Name, apartment.Address, apartment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update apartment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("UpdateApartment", fmt.Sprintf("apartment %d not found", apartment.ID))
	}
	return nil
}

// DeleteApartment relies on flats.apartment_id ON DELETE CASCADE
func (r *PostgresApartmentsRepository) DeleteApartment(ctx context.Context, apartmentID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM apartments WHERE id = $1`, apartmentID); err != nil {
		return fmt.Errorf("failed to delete apartment: %w", err)
	}
	return nil
}

func (r *PostgresApartmentsRepository) ApartmentExists(ctx context.Context, apartmentID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM apartments WHERE id = $1)`,
		apartmentID,
	).Scan(&exists)
	return exists, err
}

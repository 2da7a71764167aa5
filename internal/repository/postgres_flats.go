package repository

import (
	"context"
	"database/sql"
	"fmt"

	"apartment-data/internal/domain"
)

type PostgresFlatsRepository struct {
	db *sql.DB
}

func NewPostgresFlatsRepository(db *sql.DB) *PostgresFlatsRepository {
	return &PostgresFlatsRepository{db: db}
}

const flatColumns = `id, flat_number, floor, apartment_id`

func scanFlat(row interface{ Scan(...any) error }) (*domain.Flat, error) {
	var f domain.Flat
	if err := row.Scan(&f.ID, &f.FlatNumber, &f.Floor, &f.ApartmentID); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *PostgresFlatsRepository) GetFlat(ctx context.Context, flatID int64) (*domain.Flat, error) {
	f, err := scanFlat(r.db.QueryRowContext(ctx,
		`SELECT `+flatColumns+` FROM flats WHERE id = $1`, flatID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *PostgresFlatsRepository) ListFlatsByApartment(ctx context.Context, apartmentID int64) ([]*domain.Flat, error) {
	return r.queryFlats(ctx,
		`SELECT `+flatColumns+` FROM flats WHERE apartment_id = $1 ORDER BY floor, flat_number, id`,
		apartmentID)
}

func (r *PostgresFlatsRepository) ListFlats(ctx context.Context) ([]*domain.Flat, error) {
	return r.queryFlats(ctx,
		`SELECT `+flatColumns+` FROM flats ORDER BY apartment_id, floor, flat_number, id`)
}

func (r *PostgresFlatsRepository) queryFlats(ctx context.Context, q string, args ...any) ([]*domain.Flat, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Flat{}
	for rows.Next() {
		f, err := scanFlat(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CreateFlat maps the idx_flats_apartment_number unique violation to a conflict,
// which closes the gap left by the service's exists-then-insert check.
func (r *PostgresFlatsRepository) CreateFlat(ctx context.Context, flat *domain.Flat) (int64, error) {
	if flat == nil {
		return 0, fmt.Errorf("flat is required")
	}
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO flats (flat_number, floor, apartment_id) VALUES ($1, $2, $3) RETURNING id`,
		flat.FlatNumber, flat.Floor, flat.ApartmentID,
	).Scan(&id)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return 0, &domain.DomainError{
				Kind: domain.KindConflict,
				Op:   "CreateFlat",
				Msg:  fmt.Sprintf("flat '%s' already exists in this apartment", flat.FlatNumber),
				Err:  err,
			}
		case isForeignKeyViolation(err):
			return 0, &domain.DomainError{
				Kind: domain.KindNotFound,
				Op:   "CreateFlat",
				Msg:  fmt.Sprintf("apartment %d not found", flat.ApartmentID),
				Err:  err,
			}
		}
		return 0, fmt.Errorf("failed to create flat: %w", err)
	}
	flat.ID = id
	return id, nil
}

func (r *PostgresFlatsRepository) DeleteFlat(ctx context.Context, flatID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM flats WHERE id = $1`, flatID); err != nil {
		return fmt.Errorf("failed to delete flat: %w", err)
	}
	return nil
}

func (r *PostgresFlatsRepository) FlatNumberExists(ctx context.Context, apartmentID int64, flatNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM flats WHERE apartment_id = $1 AND flat_number = $2)`,
		apartmentID, flatNumber,
	).Scan(&exists)
	return exists, err
}

func (r *PostgresFlatsRepository) CountFlatsByApartment(ctx context.Context, apartmentID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM flats WHERE apartment_id = $1`,
		apartmentID,
	).Scan(&n)
	return n, err
}

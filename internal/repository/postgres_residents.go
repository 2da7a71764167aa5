package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"apartment-data/internal/domain"
)

type PostgresResidentsRepository struct {
	db *sql.DB
}

func NewPostgresResidentsRepository(db *sql.DB) *PostgresResidentsRepository {
	return &PostgresResidentsRepository{db: db}
}

const residentColumns = `id, full_name, phone_number, email, flat_id, resident_type, move_in_date, move_out_date`

func scanResident(row interface{ Scan(...any) error }, extra ...any) (*domain.Resident, error) {
	var res domain.Resident
	var residentType int
	var moveOut sql.NullTime
	dest := []any{
		&res.ID, &res.FullName, &res.PhoneNumber, &res.Email,
		&res.FlatID, &residentType, &res.MoveInDate, &moveOut,
	}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	res.ResidentType = domain.ResidentType(residentType)
	res.MoveInDate = res.MoveInDate.UTC()
	if moveOut.Valid {
		t := moveOut.Time.UTC()
		res.MoveOutDate = &t
	}
	return &res, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func (r *PostgresResidentsRepository) GetResident(ctx context.Context, residentID int64) (*domain.Resident, error) {
	res, err := scanResident(r.db.QueryRowContext(ctx,
		`SELECT `+residentColumns+` FROM residents WHERE id = $1`, residentID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *PostgresResidentsRepository) ListResidentsByFlat(ctx context.Context, flatID int64) ([]*domain.Resident, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+residentColumns+` FROM residents WHERE flat_id = $1 ORDER BY move_in_date, id`,
		flatID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Resident{}
	for rows.Next() {
		res, err := scanResident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PostgresResidentsRepository) ListResidents(ctx context.Context) ([]*ResidentWithFlat, error) {
	q := `
		SELECT
			r.id, r.full_name, r.phone_number, r.email, r.flat_id,
			r.resident_type, r.move_in_date, r.move_out_date,
			f.flat_number, f.floor
		FROM residents r
		JOIN flats f ON f.id = r.flat_id
		ORDER BY r.move_in_date, r.id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*ResidentWithFlat{}
	for rows.Next() {
		var item ResidentWithFlat
		res, err := scanResident(rows, &item.FlatNumber, &item.Floor)
		if err != nil {
			return nil, err
		}
		item.Resident = res
		out = append(out, &item)
	}
	return out, rows.Err()
}

func (r *PostgresResidentsRepository) CountActiveResidentsByFlat(ctx context.Context, flatID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM residents WHERE flat_id = $1 AND move_out_date IS NULL`,
		flatID,
	).Scan(&n)
	return n, err
}

// CreateResident locks the flat row so concurrent inserts into the same flat
// serialize on the occupancy check.
func (r *PostgresResidentsRepository) CreateResident(ctx context.Context, resident *domain.Resident, maxActive int) (int64, error) {
	const op = "CreateResident"
	if resident == nil {
		return 0, fmt.Errorf("resident is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if maxActive > 0 {
		var locked int64
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM flats WHERE id = $1 FOR UPDATE`, resident.FlatID,
		).Scan(&locked)
		if err == sql.ErrNoRows {
			return 0, domain.NotFound(op, "flat does not exist")
		}
		if err != nil {
			return 0, fmt.Errorf("failed to lock flat: %w", err)
		}

		var active int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM residents WHERE flat_id = $1 AND move_out_date IS NULL`,
			resident.FlatID,
		).Scan(&active)
		if err != nil {
			return 0, fmt.Errorf("failed to count active residents: %w", err)
		}
		if active >= maxActive {
			return 0, domain.Capacity(op, "flat occupancy limit reached")
		}
	}

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO residents (full_name, phone_number, email, flat_id, resident_type, move_in_date, move_out_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		resident.FullName, resident.PhoneNumber, resident.Email, resident.FlatID,
		int(resident.ResidentType), resident.MoveInDate.UTC(), nullTime(resident.MoveOutDate),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, &domain.DomainError{Kind: domain.KindNotFound, Op: op, Msg: "flat does not exist", Err: err}
		}
		return 0, fmt.Errorf("failed to create resident: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit resident: %w", err)
	}
	resident.ID = id
	return id, nil
}

// UpdateResidentType touches only resident_type so a concurrent move-out is never overwritten
func (r *PostgresResidentsRepository) UpdateResidentType(ctx context.Context, residentID int64, residentType domain.ResidentType) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE residents SET resident_type = $1 WHERE id = $2`,
		int(residentType), residentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resident type: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("UpdateResidentType", fmt.Sprintf("resident %d not found", residentID))
	}
	return nil
}

func (r *PostgresResidentsRepository) MoveOutResident(ctx context.Context, residentID int64, at time.Time) error {
	const op = "MoveOutResident"
	res, err := r.db.ExecContext(ctx,
		`UPDATE residents SET move_out_date = $1 WHERE id = $2 AND move_out_date IS NULL`,
		at.UTC(), residentID,
	)
	if err != nil {
		return fmt.Errorf("failed to move out resident: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM residents WHERE id = $1)`, residentID,
	).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.NotFound(op, "resident not found")
	}
	return domain.Conflict(op, "resident is already moved out")
}

func (r *PostgresResidentsRepository) DeleteResident(ctx context.Context, residentID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM residents WHERE id = $1`, residentID); err != nil {
		return fmt.Errorf("failed to delete resident: %w", err)
	}
	return nil
}

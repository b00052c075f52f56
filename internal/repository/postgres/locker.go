package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/repository"
)

const lockerColumns = `id, kiosk_id, locker_number, size, status, current_rental_id, is_operational, last_used_at`

type lockerRepository struct {
	db *sql.DB
}

func NewLockerRepository(db *sql.DB) repository.LockerRepository {
	return &lockerRepository{db: db}
}

func (r *lockerRepository) GetByID(ctx context.Context, id string) (*domain.Locker, error) {
	query := `SELECT ` + lockerColumns + ` FROM lockers WHERE id = $1`
	l := &domain.Locker{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.KioskID, &l.LockerNumber, &l.Size,
		&l.Status, &l.CurrentRentalID, &l.IsOperational, &l.LastUsedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("locker not found")
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// Acquire is a single compare-and-set against the status column. A naive
// read-then-write would let two concurrent deposits both see AVAILABLE; here
// exactly one UPDATE matches and the other caller gets a Conflict.
func (r *lockerRepository) Acquire(ctx context.Context, lockerID, rentalID string) error {
	query := `UPDATE lockers SET status = $3, current_rental_id = $4, last_used_at = NOW()
	          WHERE id = $1 AND status = $2 AND is_operational = TRUE`
	result, err := r.db.ExecContext(ctx, query, lockerID, domain.LockerStatusAvailable,
		domain.LockerStatusOccupied, rentalID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.Conflict(fmt.Sprintf("locker %s is not available", lockerID))
	}
	return nil
}

// Release is idempotent: releasing an AVAILABLE locker simply matches no row.
func (r *lockerRepository) Release(ctx context.Context, lockerID string) error {
	query := `UPDATE lockers SET status = $2, current_rental_id = NULL
	          WHERE id = $1 AND status = $3`
	_, err := r.db.ExecContext(ctx, query, lockerID, domain.LockerStatusAvailable, domain.LockerStatusOccupied)
	return err
}

func (r *lockerRepository) ListAvailable(ctx context.Context, kioskID string, size domain.LockerSize) ([]domain.Locker, error) {
	query := `SELECT ` + lockerColumns + ` FROM lockers WHERE status = $1 AND is_operational = TRUE`
	args := []interface{}{domain.LockerStatusAvailable}
	if kioskID != "" {
		args = append(args, kioskID)
		query += fmt.Sprintf(" AND kiosk_id = $%d", len(args))
	}
	if size != "" {
		args = append(args, size)
		query += fmt.Sprintf(" AND size = $%d", len(args))
	}
	query += ` ORDER BY locker_number ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lockers []domain.Locker
	for rows.Next() {
		var l domain.Locker
		if err := rows.Scan(&l.ID, &l.KioskID, &l.LockerNumber, &l.Size, &l.Status,
			&l.CurrentRentalID, &l.IsOperational, &l.LastUsedAt); err != nil {
			return nil, err
		}
		lockers = append(lockers, l)
	}
	return lockers, rows.Err()
}

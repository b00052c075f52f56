package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/repository"

	"github.com/google/uuid"
)

const rentalColumns = `id, item_id, renter_id, owner_id, status, start_date, end_date,
	total_price_cents, security_deposit_cents, deposit_locker_id, claim_locker_id,
	return_locker_id, deposited_at, claimed_at, returned_at, actual_return_date,
	verification_id, created_at, updated_at`

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(db *sql.DB) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	now := time.Now()
	rt.CreatedAt = now
	rt.UpdatedAt = now
	query := `INSERT INTO rentals (id, item_id, renter_id, owner_id, status, start_date, end_date,
	          total_price_cents, security_deposit_cents, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.db.ExecContext(ctx, query, rt.ID, rt.ItemID, rt.RenterID, rt.OwnerID, rt.Status,
		rt.StartDate, rt.EndDate, rt.TotalPriceCents, rt.SecurityDepositCents, now, now)
	return err
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("rental not found")
	}
	return rt, err
}

func (r *rentalRepository) GetByVerificationID(ctx context.Context, verificationID string) (*domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE verification_id = $1`
	rt, err := scanRental(r.db.QueryRowContext(ctx, query, verificationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("rental not found")
	}
	return rt, err
}

func (r *rentalRepository) List(ctx context.Context, f repository.RentalFilter) ([]domain.Rental, int64, error) {
	where := ``
	args := []interface{}{}
	switch f.Role {
	case "rented":
		args = append(args, f.UserID)
		where = `WHERE renter_id = $1`
	case "owned":
		args = append(args, f.UserID)
		where = `WHERE owner_id = $1`
	default:
		args = append(args, f.UserID)
		where = `WHERE (renter_id = $1 OR owner_id = $1)`
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var count int64
	countQuery := `SELECT count(*) FROM rentals ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = 10
	}
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT ` + rentalColumns + ` FROM rentals ` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	rentals, err := collectRentals(rows)
	if err != nil {
		return nil, 0, err
	}
	return rentals, count, nil
}

func (r *rentalRepository) TransitionStatus(ctx context.Context, id string, from, to domain.RentalStatus) error {
	if !from.CanTransitionTo(to) {
		return domain.InvalidState(fmt.Sprintf("rental cannot move from %s to %s", from, to))
	}
	query := `UPDATE rentals SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2`
	return r.conditionalUpdate(ctx, query, id, from, to)
}

func (r *rentalRepository) MarkDeposited(ctx context.Context, id, lockerID string) error {
	query := `UPDATE rentals SET status = $3, deposit_locker_id = $4, deposited_at = NOW(), updated_at = NOW()
	          WHERE id = $1 AND status = $2`
	return r.conditionalUpdate(ctx, query, id, domain.RentalStatusAwaitingDeposit, domain.RentalStatusDeposited, lockerID)
}

func (r *rentalRepository) MarkClaimed(ctx context.Context, id, lockerID string) error {
	query := `UPDATE rentals SET status = $3, claim_locker_id = $4, claimed_at = NOW(), updated_at = NOW()
	          WHERE id = $1 AND status = $2`
	return r.conditionalUpdate(ctx, query, id, domain.RentalStatusDeposited, domain.RentalStatusActive, lockerID)
}

func (r *rentalRepository) MarkReturned(ctx context.Context, id, lockerID, verificationID string) error {
	query := `UPDATE rentals SET status = $3, return_locker_id = $4, verification_id = $5,
	          returned_at = NOW(), actual_return_date = NOW(), updated_at = NOW()
	          WHERE id = $1 AND status = $2`
	return r.conditionalUpdate(ctx, query, id, domain.RentalStatusActive, domain.RentalStatusVerification, lockerID, verificationID)
}

// conditionalUpdate runs an optimistic status write. Zero rows affected means
// the rental moved under us (or does not exist); the caller distinguishes the
// two by the earlier GetByID.
func (r *rentalRepository) conditionalUpdate(ctx context.Context, query string, id string, from, to domain.RentalStatus, extra ...interface{}) error {
	args := append([]interface{}{id, from, to}, extra...)
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.Conflict(fmt.Sprintf("rental is no longer %s", from))
	}
	return nil
}

func (r *rentalRepository) ListActiveEndingBy(ctx context.Context, cutoff time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = $1 AND end_date <= $2`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusActive, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

func (r *rentalRepository) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE status = $1 AND created_at < $2`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRentals(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRental(row rowScanner) (*domain.Rental, error) {
	rt := &domain.Rental{}
	err := row.Scan(&rt.ID, &rt.ItemID, &rt.RenterID, &rt.OwnerID, &rt.Status, &rt.StartDate,
		&rt.EndDate, &rt.TotalPriceCents, &rt.SecurityDepositCents, &rt.DepositLockerID,
		&rt.ClaimLockerID, &rt.ReturnLockerID, &rt.DepositedAt, &rt.ClaimedAt, &rt.ReturnedAt,
		&rt.ActualReturnDate, &rt.VerificationID, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func collectRentals(rows *sql.Rows) ([]domain.Rental, error) {
	var rentals []domain.Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		rentals = append(rentals, *rt)
	}
	return rentals, rows.Err()
}

package repository

import (
	"context"
	"time"

	"kioskrent-backend/internal/domain"
)

// RentalFilter narrows rental list queries.
type RentalFilter struct {
	UserID string
	// Role is "rented" (renter side), "owned" (owner side) or "" for both.
	Role     string
	Status   domain.RentalStatus
	Page     int
	PageSize int
}

type RentalRepository interface {
	Create(ctx context.Context, r *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)
	List(ctx context.Context, f RentalFilter) ([]domain.Rental, int64, error)

	// TransitionStatus performs a conditional status update: it succeeds only
	// if the rental is still in from, otherwise no row is touched and a
	// Conflict is returned. This is the optimistic guard every status write
	// goes through.
	TransitionStatus(ctx context.Context, id string, from, to domain.RentalStatus) error
	MarkDeposited(ctx context.Context, id, lockerID string) error
	MarkClaimed(ctx context.Context, id, lockerID string) error
	MarkReturned(ctx context.Context, id, lockerID, verificationID string) error

	// ListActiveEndingBy returns ACTIVE rentals whose end date falls on or
	// before the cutoff (return-reminder job).
	ListActiveEndingBy(ctx context.Context, cutoff time.Time) ([]domain.Rental, error)
	// ListPendingCreatedBefore returns PENDING rentals created before the
	// cutoff (expired-rental cleanup job).
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]domain.Rental, error)
	GetByVerificationID(ctx context.Context, verificationID string) (*domain.Rental, error)
}

type LockerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Locker, error)
	// Acquire flips AVAILABLE -> OCCUPIED and stamps current_rental_id and
	// last_used_at as one atomic conditional update. Two concurrent callers
	// cannot both win: the loser gets a Conflict.
	Acquire(ctx context.Context, lockerID, rentalID string) error
	// Release flips OCCUPIED -> AVAILABLE and clears current_rental_id.
	// Releasing an already-available locker is a no-op.
	Release(ctx context.Context, lockerID string) error
	ListAvailable(ctx context.Context, kioskID string, size domain.LockerSize) ([]domain.Locker, error)
}

// TransactionFilter narrows transaction list queries.
type TransactionFilter struct {
	UserID   string
	Status   domain.TransactionStatus
	Type     domain.TransactionType
	Page     int
	PageSize int
}

type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// Confirm completes a PENDING transaction, stamping paid_at and the
	// gateway reference. Zero rows affected means another writer settled it
	// first; the caller treats that as already-confirmed, not as an error.
	Confirm(ctx context.Context, id, externalReference string, paidAt time.Time) (bool, error)
	// MarkRefunded flips COMPLETED -> REFUNDED conditionally.
	MarkRefunded(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, f TransactionFilter) ([]domain.Transaction, int64, error)
	ListByRental(ctx context.Context, rentalID string) ([]domain.Transaction, error)
}

type VerificationRepository interface {
	Create(ctx context.Context, v *domain.Verification) error
	GetByID(ctx context.Context, id string) (*domain.Verification, error)
	// UpdateResult rewrites decision, status, scores and attempt number after
	// a (re-)run of the engine.
	UpdateResult(ctx context.Context, v *domain.Verification) error
	// ListUnresolvedBefore returns PENDING-status verifications last touched
	// before the cutoff (retry job).
	ListUnresolvedBefore(ctx context.Context, cutoff time.Time) ([]domain.Verification, error)
}

type ItemRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	SetAvailability(ctx context.Context, id string, available bool) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID string, limit, offset int) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID string) error
}

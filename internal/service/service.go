package service

import (
	"context"
	"time"

	"kioskrent-backend/internal/domain"
)

// RentalService is the orchestrator: the single entry point for the rental
// lifecycle operations the API layer calls.
type RentalService interface {
	RequestRental(ctx context.Context, renterID, itemID string, startDate, endDate time.Time) (*domain.Rental, error)
	DepositItem(ctx context.Context, ownerID, rentalID, lockerID string) (*domain.Rental, error)
	ClaimItem(ctx context.Context, renterID, rentalID string) (*domain.Rental, error)
	ReturnItem(ctx context.Context, renterID, rentalID, lockerID string, images []string) (*domain.RentalDetail, error)
	CancelRental(ctx context.Context, userID, rentalID string) (*domain.Rental, error)
	GetRental(ctx context.Context, userID, rentalID string) (*domain.RentalDetail, error)
	ListRentals(ctx context.Context, userID, role string, status domain.RentalStatus, page, pageSize int) ([]domain.Rental, int64, error)
}

type PaymentService interface {
	CreatePayment(ctx context.Context, userID, rentalID string, txType domain.TransactionType, amountCents int64) (*domain.Transaction, string, error)
	// ConfirmPayment is idempotent: a retried webhook for an already-settled
	// transaction returns the existing record unchanged.
	ConfirmPayment(ctx context.Context, transactionID, externalReference string) (*domain.Transaction, error)
	RefundPayment(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, userID string, status domain.TransactionStatus, txType domain.TransactionType, page, pageSize int) ([]domain.Transaction, int64, error)
}

type LockerService interface {
	ListAvailableLockers(ctx context.Context, kioskID string, size domain.LockerSize) ([]domain.Locker, error)
}

// VerificationCoordinator runs the image-comparison check on return and maps
// its decision onto the rental status.
type VerificationCoordinator interface {
	// VerifyReturn invokes the engine and persists the outcome. An engine
	// failure degrades to a PENDING verification instead of erroring: the
	// physical handoff has already happened and cannot be rolled back.
	VerifyReturn(ctx context.Context, item *domain.Item, kioskImages []string) (*domain.Verification, error)
	// ApplyDecision resolves the rental according to the verification
	// decision: APPROVED completes it, REJECTED or an exhausted RETRY
	// disputes it, anything else leaves it in VERIFICATION.
	ApplyDecision(ctx context.Context, rental *domain.Rental, v *domain.Verification) error
	// RetryUnresolved re-runs the engine for verifications that have been
	// pending longer than the configured delay.
	RetryUnresolved(ctx context.Context, olderThan time.Duration) error
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID string, page, pageSize int) ([]domain.Notification, int64, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
}

// Notifier accepts fire-and-forget notification intents. Implementations must
// never let a delivery problem propagate: a failed notification cannot roll
// back the state transition that produced it.
type Notifier interface {
	Notify(ctx context.Context, n *domain.Notification)
}

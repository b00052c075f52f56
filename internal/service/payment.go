package service

import (
	"context"
	"fmt"
	"time"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/logger"
	"kioskrent-backend/internal/repository"
)

type paymentService struct {
	txs             repository.TransactionRepository
	rentals         repository.RentalRepository
	notifier        Notifier
	checkoutBaseURL string
}

func NewPaymentService(
	txs repository.TransactionRepository,
	rentals repository.RentalRepository,
	notifier Notifier,
	checkoutBaseURL string,
) PaymentService {
	return &paymentService{
		txs:             txs,
		rentals:         rentals,
		notifier:        notifier,
		checkoutBaseURL: checkoutBaseURL,
	}
}

var chargeableTypes = map[domain.TransactionType]bool{
	domain.TransactionTypeRentalPayment:   true,
	domain.TransactionTypeSecurityDeposit: true,
	domain.TransactionTypeLateFee:         true,
	domain.TransactionTypeDamageFee:       true,
}

func (s *paymentService) CreatePayment(ctx context.Context, userID, rentalID string, txType domain.TransactionType, amountCents int64) (*domain.Transaction, string, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, "", err
	}
	if rental.RenterID != userID {
		return nil, "", domain.Forbidden("only the renter can pay for this rental")
	}
	if amountCents <= 0 {
		return nil, "", domain.Validation("payment amount must be positive")
	}
	if !chargeableTypes[txType] {
		return nil, "", domain.Validation("unsupported transaction type")
	}

	tx := &domain.Transaction{
		RentalID:    rentalID,
		UserID:      userID,
		Type:        txType,
		Status:      domain.TransactionStatusPending,
		AmountCents: amountCents,
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return nil, "", err
	}

	checkoutURL := fmt.Sprintf("%s/checkout?tid=%s", s.checkoutBaseURL, tx.ID)
	logger.Info("Payment created", "transaction_id", tx.ID, "rental_id", rentalID, "type", txType, "amount_cents", amountCents)
	return tx, checkoutURL, nil
}

func (s *paymentService) ConfirmPayment(ctx context.Context, transactionID, externalReference string) (*domain.Transaction, error) {
	tx, err := s.txs.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	// Retried webhook for a settled transaction: return it unchanged.
	if tx.Status == domain.TransactionStatusCompleted {
		return tx, nil
	}
	if tx.Status != domain.TransactionStatusPending {
		return nil, domain.InvalidState("transaction is not pending")
	}

	now := time.Now().UTC()
	confirmed, err := s.txs.Confirm(ctx, transactionID, externalReference, now)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		// Another writer settled it between our read and the update.
		return s.txs.GetByID(ctx, transactionID)
	}

	// The rental payment is what unlocks the owner's deposit step. Only the
	// first confirmation drives the transition.
	if tx.Type == domain.TransactionTypeRentalPayment {
		err := s.rentals.TransitionStatus(ctx, tx.RentalID, domain.RentalStatusPending, domain.RentalStatusAwaitingDeposit)
		if err != nil && !domain.IsKind(err, domain.KindConflict) {
			logger.Error("Failed to advance rental after deposit payment", "rental_id", tx.RentalID, "error", err)
		}
	}

	rental, rentalErr := s.rentals.GetByID(ctx, tx.RentalID)
	if rentalErr == nil {
		s.notifier.Notify(ctx, &domain.Notification{
			UserID:            rental.OwnerID,
			Title:             "Payment Received",
			Message:           fmt.Sprintf("Payment of %d received for rental %s", tx.AmountCents, tx.RentalID),
			Type:              domain.NotificationPaymentReceived,
			RelatedEntityID:   tx.RentalID,
			RelatedEntityType: "rental",
		})
	}

	logger.Info("Payment confirmed", "transaction_id", transactionID, "external_reference", externalReference)
	return s.txs.GetByID(ctx, transactionID)
}

func (s *paymentService) RefundPayment(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	tx, err := s.txs.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if tx.Status != domain.TransactionStatusCompleted {
		return nil, domain.Validation("only completed transactions can be refunded")
	}

	ok, err := s.txs.MarkRefunded(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Conflict("transaction was already refunded")
	}

	now := time.Now().UTC()
	refund := &domain.Transaction{
		RentalID:    tx.RentalID,
		UserID:      tx.UserID,
		Type:        domain.TransactionTypeDepositRefund,
		Status:      domain.TransactionStatusCompleted,
		AmountCents: tx.AmountCents,
		PaidAt:      &now,
	}
	if err := s.txs.Create(ctx, refund); err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, &domain.Notification{
		UserID:            tx.UserID,
		Title:             "Refund Processed",
		Message:           fmt.Sprintf("Your deposit of %d has been refunded", tx.AmountCents),
		Type:              domain.NotificationPaymentReceived,
		RelatedEntityID:   tx.RentalID,
		RelatedEntityType: "rental",
	})

	logger.Info("Payment refunded", "transaction_id", transactionID, "refund_id", refund.ID)
	return refund, nil
}

func (s *paymentService) ListTransactions(ctx context.Context, userID string, status domain.TransactionStatus, txType domain.TransactionType, page, pageSize int) ([]domain.Transaction, int64, error) {
	return s.txs.List(ctx, repository.TransactionFilter{
		UserID:   userID,
		Status:   status,
		Type:     txType,
		Page:     page,
		PageSize: pageSize,
	})
}

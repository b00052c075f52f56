package domain

import "time"

type TransactionType string

const (
	TransactionTypeRentalPayment   TransactionType = "RENTAL_PAYMENT"
	TransactionTypeSecurityDeposit TransactionType = "SECURITY_DEPOSIT"
	TransactionTypeDepositRefund   TransactionType = "DEPOSIT_REFUND"
	TransactionTypeLateFee         TransactionType = "LATE_FEE"
	TransactionTypeDamageFee       TransactionType = "DAMAGE_FEE"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusRefunded  TransactionStatus = "REFUNDED"
)

// Transaction is a payment or refund record tied to a rental. A refund never
// mutates the original amount: it flips the original to REFUNDED and creates
// a new DEPOSIT_REFUND record.
type Transaction struct {
	ID                string            `json:"id"`
	RentalID          string            `json:"rental_id"`
	UserID            string            `json:"user_id"`
	Type              TransactionType   `json:"type"`
	AmountCents       int64             `json:"amount_cents"`
	Status            TransactionStatus `json:"status"`
	ExternalReference string            `json:"external_reference,omitempty"`
	PaidAt            *time.Time        `json:"paid_at,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

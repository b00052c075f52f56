package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending         RentalStatus = "PENDING"
	RentalStatusAwaitingDeposit RentalStatus = "AWAITING_DEPOSIT"
	RentalStatusDeposited       RentalStatus = "DEPOSITED"
	RentalStatusActive          RentalStatus = "ACTIVE"
	RentalStatusVerification    RentalStatus = "VERIFICATION"
	RentalStatusCompleted       RentalStatus = "COMPLETED"
	RentalStatusCancelled       RentalStatus = "CANCELLED"
	RentalStatusDisputed        RentalStatus = "DISPUTED"
)

// rentalTransitions is the single authoritative transition table. Every
// status write goes through a conditional update guarded by this table, so
// no caller can duplicate (or skip) the guard logic.
var rentalTransitions = map[RentalStatus][]RentalStatus{
	RentalStatusPending:         {RentalStatusAwaitingDeposit, RentalStatusCancelled},
	RentalStatusAwaitingDeposit: {RentalStatusDeposited, RentalStatusCancelled},
	RentalStatusDeposited:       {RentalStatusActive},
	RentalStatusActive:          {RentalStatusVerification},
	RentalStatusVerification:    {RentalStatusCompleted, RentalStatusDisputed},
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s RentalStatus) CanTransitionTo(next RentalStatus) bool {
	for _, allowed := range rentalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s is immutable (COMPLETED, CANCELLED, DISPUTED).
func (s RentalStatus) IsTerminal() bool {
	return len(rentalTransitions[s]) == 0
}

// Cancellable reports whether a rental in status s may still be cancelled.
func (s RentalStatus) Cancellable() bool {
	return s.CanTransitionTo(RentalStatusCancelled)
}

type Rental struct {
	ID                   string       `json:"id"`
	ItemID               string       `json:"item_id"`
	RenterID             string       `json:"renter_id"`
	OwnerID              string       `json:"owner_id"`
	Status               RentalStatus `json:"status"`
	StartDate            time.Time    `json:"start_date"`
	EndDate              time.Time    `json:"end_date"`
	TotalPriceCents      int64        `json:"total_price_cents"`
	SecurityDepositCents int64        `json:"security_deposit_cents"`
	DepositLockerID      *string      `json:"deposit_locker_id,omitempty"`
	ClaimLockerID        *string      `json:"claim_locker_id,omitempty"`
	ReturnLockerID       *string      `json:"return_locker_id,omitempty"`
	DepositedAt          *time.Time   `json:"deposited_at,omitempty"`
	ClaimedAt            *time.Time   `json:"claimed_at,omitempty"`
	ReturnedAt           *time.Time   `json:"returned_at,omitempty"`
	ActualReturnDate     *time.Time   `json:"actual_return_date,omitempty"`
	VerificationID       *string      `json:"verification_id,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// RentalDetail bundles a rental with its linked records, as returned by the
// detail query.
type RentalDetail struct {
	Rental       Rental        `json:"rental"`
	Transactions []Transaction `json:"transactions,omitempty"`
	Verification *Verification `json:"verification,omitempty"`
}

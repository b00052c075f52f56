package service

import (
	"context"
	"fmt"
	"time"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/logger"
	"kioskrent-backend/internal/repository"
	"kioskrent-backend/internal/utils"
)

type rentalService struct {
	rentals       repository.RentalRepository
	lockers       repository.LockerRepository
	items         repository.ItemRepository
	users         repository.UserRepository
	txs           repository.TransactionRepository
	verifications repository.VerificationRepository
	verifier      VerificationCoordinator
	notifier      Notifier
}

func NewRentalService(
	rentals repository.RentalRepository,
	lockers repository.LockerRepository,
	items repository.ItemRepository,
	users repository.UserRepository,
	txs repository.TransactionRepository,
	verifications repository.VerificationRepository,
	verifier VerificationCoordinator,
	notifier Notifier,
) RentalService {
	return &rentalService{
		rentals:       rentals,
		lockers:       lockers,
		items:         items,
		users:         users,
		txs:           txs,
		verifications: verifications,
		verifier:      verifier,
		notifier:      notifier,
	}
}

func (s *rentalService) RequestRental(ctx context.Context, renterID, itemID string, startDate, endDate time.Time) (*domain.Rental, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable {
		return nil, domain.Validation("item is not available for rent")
	}
	if item.OwnerID == renterID {
		return nil, domain.Validation("you cannot rent your own item")
	}

	days := utils.RentalDays(startDate, endDate)
	if days <= 0 {
		return nil, domain.Validation("invalid rental period")
	}

	rental := &domain.Rental{
		ItemID:               itemID,
		RenterID:             renterID,
		OwnerID:              item.OwnerID,
		Status:               domain.RentalStatusPending,
		StartDate:            startDate,
		EndDate:              endDate,
		TotalPriceCents:      int64(days) * item.PricePerDayCents,
		SecurityDepositCents: item.SecurityDepositCents,
	}
	if err := s.rentals.Create(ctx, rental); err != nil {
		return nil, err
	}

	if err := s.items.SetAvailability(ctx, itemID, false); err != nil {
		logger.Error("Failed to mark item unavailable", "item_id", itemID, "error", err)
	}

	renter, err := s.users.GetByID(ctx, renterID)
	renterName := renterID
	if err == nil {
		renterName = renter.Email
	}
	s.notifier.Notify(ctx, &domain.Notification{
		UserID:            item.OwnerID,
		Title:             "New Rental Request",
		Message:           fmt.Sprintf("%s wants to rent your %s", renterName, item.Title),
		Type:              domain.NotificationBookingConfirmed,
		RelatedEntityID:   rental.ID,
		RelatedEntityType: "rental",
	})

	logger.Info("Rental created", "rental_id", rental.ID, "renter_id", renterID, "item_id", itemID)
	return rental, nil
}

func (s *rentalService) DepositItem(ctx context.Context, ownerID, rentalID, lockerID string) (*domain.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.OwnerID != ownerID {
		return nil, domain.Forbidden("only the owner can deposit the item")
	}
	if rental.Status != domain.RentalStatusAwaitingDeposit {
		return nil, domain.InvalidState("rental is not awaiting deposit")
	}

	locker, err := s.lockers.GetByID(ctx, lockerID)
	if err != nil {
		return nil, err
	}
	if err := s.lockers.Acquire(ctx, lockerID, rentalID); err != nil {
		return nil, err
	}

	if err := s.rentals.MarkDeposited(ctx, rentalID, lockerID); err != nil {
		// The rental moved under us; give the locker back before failing.
		if relErr := s.lockers.Release(ctx, lockerID); relErr != nil {
			logger.Error("Failed to release locker after deposit conflict", "locker_id", lockerID, "error", relErr)
		}
		return nil, err
	}

	item, itemErr := s.items.GetByID(ctx, rental.ItemID)
	title := rental.ItemID
	if itemErr == nil {
		title = item.Title
	}
	s.notifier.Notify(ctx, &domain.Notification{
		UserID:            rental.RenterID,
		Title:             "Item Ready for Claim",
		Message:           fmt.Sprintf("%s is ready for pickup at locker %d", title, locker.LockerNumber),
		Type:              domain.NotificationItemReadyForClaim,
		RelatedEntityID:   rentalID,
		RelatedEntityType: "rental",
	})

	logger.Info("Item deposited", "rental_id", rentalID, "locker_id", lockerID)
	return s.rentals.GetByID(ctx, rentalID)
}

func (s *rentalService) ClaimItem(ctx context.Context, renterID, rentalID string) (*domain.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.RenterID != renterID {
		return nil, domain.Forbidden("only the renter can claim the item")
	}
	if rental.Status != domain.RentalStatusDeposited {
		return nil, domain.InvalidState("item is not ready for claim")
	}
	if rental.DepositLockerID == nil {
		return nil, domain.Validation("no locker assigned")
	}

	if err := s.rentals.MarkClaimed(ctx, rentalID, *rental.DepositLockerID); err != nil {
		return nil, err
	}
	if err := s.lockers.Release(ctx, *rental.DepositLockerID); err != nil {
		logger.Error("Failed to release deposit locker", "locker_id", *rental.DepositLockerID, "error", err)
	}

	item, itemErr := s.items.GetByID(ctx, rental.ItemID)
	title := rental.ItemID
	if itemErr == nil {
		title = item.Title
	}
	s.notifier.Notify(ctx, &domain.Notification{
		UserID:            rental.OwnerID,
		Title:             "Item Claimed",
		Message:           fmt.Sprintf("Your %s has been claimed", title),
		Type:              domain.NotificationRentalStarted,
		RelatedEntityID:   rentalID,
		RelatedEntityType: "rental",
	})

	logger.Info("Item claimed", "rental_id", rentalID)
	return s.rentals.GetByID(ctx, rentalID)
}

func (s *rentalService) ReturnItem(ctx context.Context, renterID, rentalID, lockerID string, images []string) (*domain.RentalDetail, error) {
	if len(images) == 0 {
		return nil, domain.Validation("at least one return image is required")
	}

	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.RenterID != renterID {
		return nil, domain.Forbidden("only the renter can return the item")
	}
	if rental.Status != domain.RentalStatusActive {
		return nil, domain.InvalidState("rental is not active")
	}

	item, err := s.items.GetByID(ctx, rental.ItemID)
	if err != nil {
		return nil, err
	}

	if _, err := s.lockers.GetByID(ctx, lockerID); err != nil {
		return nil, err
	}
	if err := s.lockers.Acquire(ctx, lockerID, rentalID); err != nil {
		return nil, err
	}

	// The item is physically in the locker from here on: verification runs
	// best-effort and the rental moves to VERIFICATION regardless.
	verification, err := s.verifier.VerifyReturn(ctx, item, images)
	if err != nil {
		if relErr := s.lockers.Release(ctx, lockerID); relErr != nil {
			logger.Error("Failed to release locker after verification persist failure", "locker_id", lockerID, "error", relErr)
		}
		return nil, err
	}

	if err := s.rentals.MarkReturned(ctx, rentalID, lockerID, verification.ID); err != nil {
		if relErr := s.lockers.Release(ctx, lockerID); relErr != nil {
			logger.Error("Failed to release locker after return conflict", "locker_id", lockerID, "error", relErr)
		}
		return nil, err
	}

	s.notifier.Notify(ctx, &domain.Notification{
		UserID:            rental.OwnerID,
		Title:             "Item Returned",
		Message:           fmt.Sprintf("%s has been returned and is under verification", item.Title),
		Type:              domain.NotificationReturnReminder,
		RelatedEntityID:   rentalID,
		RelatedEntityType: "rental",
	})
	logger.Info("Item returned", "rental_id", rentalID, "verification_id", verification.ID)

	updated, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if err := s.verifier.ApplyDecision(ctx, updated, verification); err != nil {
		logger.Error("Failed to apply verification decision", "rental_id", rentalID, "error", err)
	}

	updated, err = s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	return &domain.RentalDetail{Rental: *updated, Verification: verification}, nil
}

func (s *rentalService) CancelRental(ctx context.Context, userID, rentalID string) (*domain.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.RenterID != userID && rental.OwnerID != userID {
		return nil, domain.Forbidden("access denied")
	}
	if !rental.Status.Cancellable() {
		return nil, domain.InvalidState("rental cannot be cancelled at this stage")
	}

	if err := s.rentals.TransitionStatus(ctx, rentalID, rental.Status, domain.RentalStatusCancelled); err != nil {
		return nil, err
	}
	if err := s.items.SetAvailability(ctx, rental.ItemID, true); err != nil {
		logger.Error("Failed to restore item availability", "item_id", rental.ItemID, "error", err)
	}

	notifyUserID := rental.OwnerID
	if rental.RenterID != userID {
		notifyUserID = rental.RenterID
	}
	item, itemErr := s.items.GetByID(ctx, rental.ItemID)
	title := rental.ItemID
	if itemErr == nil {
		title = item.Title
	}
	s.notifier.Notify(ctx, &domain.Notification{
		UserID:            notifyUserID,
		Title:             "Rental Cancelled",
		Message:           fmt.Sprintf("Rental for %s has been cancelled", title),
		Type:              domain.NotificationSystem,
		RelatedEntityID:   rentalID,
		RelatedEntityType: "rental",
	})

	logger.Info("Rental cancelled", "rental_id", rentalID, "by_user", userID)
	return s.rentals.GetByID(ctx, rentalID)
}

func (s *rentalService) GetRental(ctx context.Context, userID, rentalID string) (*domain.RentalDetail, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if rental.RenterID != userID && rental.OwnerID != userID {
		return nil, domain.Forbidden("access denied")
	}

	detail := &domain.RentalDetail{Rental: *rental}
	if txs, err := s.txs.ListByRental(ctx, rentalID); err == nil {
		detail.Transactions = txs
	}
	if rental.VerificationID != nil {
		if v, err := s.verifications.GetByID(ctx, *rental.VerificationID); err == nil {
			detail.Verification = v
		}
	}
	return detail, nil
}

func (s *rentalService) ListRentals(ctx context.Context, userID, role string, status domain.RentalStatus, page, pageSize int) ([]domain.Rental, int64, error) {
	return s.rentals.List(ctx, repository.RentalFilter{
		UserID:   userID,
		Role:     role,
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
}

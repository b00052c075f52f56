package service_test

import (
	"context"
	"testing"
	"time"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRentalService(
	rentals *MockRentalRepo,
	lockers *MockLockerRepo,
	items *MockItemRepo,
	users *MockUserRepo,
	txs *MockTransactionRepo,
	coordinator *MockCoordinator,
	notifier *MockNotifier,
) service.RentalService {
	return service.NewRentalService(rentals, lockers, items, users, txs, new(MockVerificationRepo), coordinator, notifier)
}

func testItem() *domain.Item {
	return &domain.Item{
		ID:                   "item-1",
		OwnerID:              "owner-1",
		Title:                "Camera",
		PricePerDayCents:     100,
		SecurityDepositCents: 500,
		Images:               []string{"orig-1", "orig-2"},
		IsAvailable:          true,
	}
}

func TestRentalService_RequestRental(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	t.Run("Success", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		items := new(MockItemRepo)
		users := new(MockUserRepo)
		notifier := new(MockNotifier)

		items.On("GetByID", ctx, "item-1").Return(testItem(), nil)
		rentals.On("Create", ctx, mock.MatchedBy(func(r *domain.Rental) bool {
			return r.Status == domain.RentalStatusPending &&
				r.TotalPriceCents == 300 &&
				r.SecurityDepositCents == 500 &&
				r.OwnerID == "owner-1"
		})).Return(nil)
		items.On("SetAvailability", ctx, "item-1", false).Return(nil)
		users.On("GetByID", ctx, "renter-1").Return(&domain.User{ID: "renter-1", Email: "renter@example.com"}, nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == "owner-1" && n.Type == domain.NotificationBookingConfirmed
		})).Return()

		svc := newRentalService(rentals, new(MockLockerRepo), items, users, new(MockTransactionRepo), new(MockCoordinator), notifier)
		rental, err := svc.RequestRental(ctx, "renter-1", "item-1", start, end)

		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusPending, rental.Status)
		rentals.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("OwnItem", func(t *testing.T) {
		items := new(MockItemRepo)
		items.On("GetByID", ctx, "item-1").Return(testItem(), nil)

		svc := newRentalService(new(MockRentalRepo), new(MockLockerRepo), items, new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.RequestRental(ctx, "owner-1", "item-1", start, end)

		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("UnavailableItem", func(t *testing.T) {
		item := testItem()
		item.IsAvailable = false
		items := new(MockItemRepo)
		items.On("GetByID", ctx, "item-1").Return(item, nil)

		svc := newRentalService(new(MockRentalRepo), new(MockLockerRepo), items, new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.RequestRental(ctx, "renter-1", "item-1", start, end)

		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("InvalidPeriod", func(t *testing.T) {
		items := new(MockItemRepo)
		items.On("GetByID", ctx, "item-1").Return(testItem(), nil)

		svc := newRentalService(new(MockRentalRepo), new(MockLockerRepo), items, new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.RequestRental(ctx, "renter-1", "item-1", end, start)

		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})
}

func TestRentalService_DepositItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		lockers := new(MockLockerRepo)
		items := new(MockItemRepo)
		notifier := new(MockNotifier)

		awaiting := &domain.Rental{ID: "rental-1", ItemID: "item-1", RenterID: "renter-1", OwnerID: "owner-1", Status: domain.RentalStatusAwaitingDeposit}
		deposited := &domain.Rental{ID: "rental-1", ItemID: "item-1", RenterID: "renter-1", OwnerID: "owner-1", Status: domain.RentalStatusDeposited}

		rentals.On("GetByID", ctx, "rental-1").Return(awaiting, nil).Once()
		lockers.On("GetByID", ctx, "locker-1").Return(&domain.Locker{ID: "locker-1", LockerNumber: 7, Status: domain.LockerStatusAvailable, IsOperational: true}, nil)
		lockers.On("Acquire", ctx, "locker-1", "rental-1").Return(nil)
		rentals.On("MarkDeposited", ctx, "rental-1", "locker-1").Return(nil)
		items.On("GetByID", ctx, "item-1").Return(testItem(), nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == "renter-1" && n.Type == domain.NotificationItemReadyForClaim
		})).Return()
		rentals.On("GetByID", ctx, "rental-1").Return(deposited, nil)

		svc := newRentalService(rentals, lockers, items, new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), notifier)
		rental, err := svc.DepositItem(ctx, "owner-1", "rental-1", "locker-1")

		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusDeposited, rental.Status)
		lockers.AssertExpectations(t)
	})

	t.Run("NotOwner", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		rentals.On("GetByID", ctx, "rental-1").Return(&domain.Rental{ID: "rental-1", OwnerID: "owner-1", Status: domain.RentalStatusAwaitingDeposit}, nil)

		svc := newRentalService(rentals, new(MockLockerRepo), new(MockItemRepo), new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.DepositItem(ctx, "intruder", "rental-1", "locker-1")

		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})

	t.Run("WrongState", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		rentals.On("GetByID", ctx, "rental-1").Return(&domain.Rental{ID: "rental-1", OwnerID: "owner-1", Status: domain.RentalStatusActive}, nil)

		svc := newRentalService(rentals, new(MockLockerRepo), new(MockItemRepo), new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.DepositItem(ctx, "owner-1", "rental-1", "locker-1")

		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	})

	t.Run("LockerTakenCompensates", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		lockers := new(MockLockerRepo)

		rentals.On("GetByID", ctx, "rental-1").Return(&domain.Rental{ID: "rental-1", OwnerID: "owner-1", Status: domain.RentalStatusAwaitingDeposit}, nil)
		lockers.On("GetByID", ctx, "locker-1").Return(&domain.Locker{ID: "locker-1", IsOperational: true}, nil)
		lockers.On("Acquire", ctx, "locker-1", "rental-1").Return(nil)
		rentals.On("MarkDeposited", ctx, "rental-1", "locker-1").Return(domain.Conflict("rental is no longer AWAITING_DEPOSIT"))
		lockers.On("Release", ctx, "locker-1").Return(nil)

		svc := newRentalService(rentals, lockers, new(MockItemRepo), new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.DepositItem(ctx, "owner-1", "rental-1", "locker-1")

		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		lockers.AssertCalled(t, "Release", ctx, "locker-1")
	})
}

func TestRentalService_ClaimItem(t *testing.T) {
	ctx := context.Background()
	lockerID := "locker-1"

	t.Run("Success", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		lockers := new(MockLockerRepo)
		items := new(MockItemRepo)
		notifier := new(MockNotifier)

		deposited := &domain.Rental{ID: "rental-1", ItemID: "item-1", RenterID: "renter-1", OwnerID: "owner-1", Status: domain.RentalStatusDeposited, DepositLockerID: &lockerID}
		active := &domain.Rental{ID: "rental-1", ItemID: "item-1", RenterID: "renter-1", OwnerID: "owner-1", Status: domain.RentalStatusActive, DepositLockerID: &lockerID}

		rentals.On("GetByID", ctx, "rental-1").Return(deposited, nil).Once()
		rentals.On("MarkClaimed", ctx, "rental-1", "locker-1").Return(nil)
		lockers.On("Release", ctx, "locker-1").Return(nil)
		items.On("GetByID", ctx, "item-1").Return(testItem(), nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == "owner-1" && n.Type == domain.NotificationRentalStarted
		})).Return()
		rentals.On("GetByID", ctx, "rental-1").Return(active, nil)

		svc := newRentalService(rentals, lockers, items, new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), notifier)
		rental, err := svc.ClaimItem(ctx, "renter-1", "rental-1")

		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusActive, rental.Status)
		lockers.AssertCalled(t, "Release", ctx, "locker-1")
	})

	t.Run("NotRenter", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		rentals.On("GetByID", ctx, "rental-1").Return(&domain.Rental{ID: "rental-1", RenterID: "renter-1", Status: domain.RentalStatusDeposited, DepositLockerID: &lockerID}, nil)

		svc := newRentalService(rentals, new(MockLockerRepo), new(MockItemRepo), new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.ClaimItem(ctx, "intruder", "rental-1")

		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})

	t.Run("NotDeposited", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		rentals.On("GetByID", ctx, "rental-1").Return(&domain.Rental{ID: "rental-1", RenterID: "renter-1", Status: domain.RentalStatusAwaitingDeposit}, nil)

		svc := newRentalService(rentals, new(MockLockerRepo), new(MockItemRepo), new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.ClaimItem(ctx, "renter-1", "rental-1")

		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	})
}

func TestRentalService_ReturnItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		lockers := new(MockLockerRepo)
		items := new(MockItemRepo)
		coordinator := new(MockCoordinator)
		notifier := new(MockNotifier)

		active := &domain.Rental{ID: "rental-1", ItemID: "item-1", RenterID: "renter-1", OwnerID: "owner-1", Status: domain.RentalStatusActive}
		verifying := &domain.Rental{ID: "rental-1", ItemID: "item-1", RenterID: "renter-1", OwnerID: "owner-1", Status: domain.RentalStatusVerification}
		verification := &domain.Verification{ID: "ver-1", Decision: domain.DecisionApproved, Status: domain.VerificationStatusApproved, ConfidenceScore: 92, AttemptNumber: 1}

		rentals.On("GetByID", ctx, "rental-1").Return(active, nil).Once()
		items.On("GetByID", ctx, "item-1").Return(testItem(), nil)
		lockers.On("GetByID", ctx, "locker-9").Return(&domain.Locker{ID: "locker-9", IsOperational: true}, nil)
		lockers.On("Acquire", ctx, "locker-9", "rental-1").Return(nil)
		coordinator.On("VerifyReturn", ctx, mock.Anything, []string{"kiosk-1"}).Return(verification, nil)
		rentals.On("MarkReturned", ctx, "rental-1", "locker-9", "ver-1").Return(nil)
		notifier.On("Notify", ctx, mock.Anything).Return()
		rentals.On("GetByID", ctx, "rental-1").Return(verifying, nil)
		coordinator.On("ApplyDecision", ctx, verifying, verification).Return(nil)

		svc := newRentalService(rentals, lockers, items, new(MockUserRepo), new(MockTransactionRepo), coordinator, notifier)
		detail, err := svc.ReturnItem(ctx, "renter-1", "rental-1", "locker-9", []string{"kiosk-1"})

		require.NoError(t, err)
		assert.Equal(t, "ver-1", detail.Verification.ID)
		coordinator.AssertExpectations(t)
	})

	t.Run("NoImages", func(t *testing.T) {
		svc := newRentalService(new(MockRentalRepo), new(MockLockerRepo), new(MockItemRepo), new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.ReturnItem(ctx, "renter-1", "rental-1", "locker-9", nil)

		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	})

	t.Run("NotActive", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		rentals.On("GetByID", ctx, "rental-1").Return(&domain.Rental{ID: "rental-1", RenterID: "renter-1", Status: domain.RentalStatusDeposited}, nil)

		svc := newRentalService(rentals, new(MockLockerRepo), new(MockItemRepo), new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.ReturnItem(ctx, "renter-1", "rental-1", "locker-9", []string{"kiosk-1"})

		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	})
}

func TestRentalService_CancelRental(t *testing.T) {
	ctx := context.Background()

	t.Run("RenterCancelsPending", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		items := new(MockItemRepo)
		notifier := new(MockNotifier)

		pending := &domain.Rental{ID: "rental-1", ItemID: "item-1", RenterID: "renter-1", OwnerID: "owner-1", Status: domain.RentalStatusPending}
		cancelled := &domain.Rental{ID: "rental-1", ItemID: "item-1", RenterID: "renter-1", OwnerID: "owner-1", Status: domain.RentalStatusCancelled}

		rentals.On("GetByID", ctx, "rental-1").Return(pending, nil).Once()
		rentals.On("TransitionStatus", ctx, "rental-1", domain.RentalStatusPending, domain.RentalStatusCancelled).Return(nil)
		items.On("SetAvailability", ctx, "item-1", true).Return(nil)
		items.On("GetByID", ctx, "item-1").Return(testItem(), nil)
		notifier.On("Notify", ctx, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.UserID == "owner-1"
		})).Return()
		rentals.On("GetByID", ctx, "rental-1").Return(cancelled, nil)

		svc := newRentalService(rentals, new(MockLockerRepo), items, new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), notifier)
		rental, err := svc.CancelRental(ctx, "renter-1", "rental-1")

		require.NoError(t, err)
		assert.Equal(t, domain.RentalStatusCancelled, rental.Status)
		items.AssertCalled(t, "SetAvailability", ctx, "item-1", true)
	})

	t.Run("Stranger", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		rentals.On("GetByID", ctx, "rental-1").Return(&domain.Rental{ID: "rental-1", RenterID: "renter-1", OwnerID: "owner-1", Status: domain.RentalStatusPending}, nil)

		svc := newRentalService(rentals, new(MockLockerRepo), new(MockItemRepo), new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.CancelRental(ctx, "stranger", "rental-1")

		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})

	t.Run("TooLateToCancel", func(t *testing.T) {
		rentals := new(MockRentalRepo)
		rentals.On("GetByID", ctx, "rental-1").Return(&domain.Rental{ID: "rental-1", RenterID: "renter-1", OwnerID: "owner-1", Status: domain.RentalStatusActive}, nil)

		svc := newRentalService(rentals, new(MockLockerRepo), new(MockItemRepo), new(MockUserRepo), new(MockTransactionRepo), new(MockCoordinator), new(MockNotifier))
		_, err := svc.CancelRental(ctx, "renter-1", "rental-1")

		assert.Equal(t, domain.KindInvalidState, domain.KindOf(err))
	})
}

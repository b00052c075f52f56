package jobs

import (
	"context"
	"time"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/logger"
)

// SendReturnReminders notifies renters whose ACTIVE rental ends within the
// next 24 hours.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().Add(24 * time.Hour)

		rentals, err := jr.store.ListActiveEndingBy(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list rentals ending soon", "error", err)
			return
		}

		count := 0
		for i := range rentals {
			rental := &rentals[i]
			jr.services.Notifier.Notify(ctx, &domain.Notification{
				UserID:            rental.RenterID,
				Title:             "Return Reminder",
				Message:           "Your rental ends on " + rental.EndDate.Format("Jan 2, 2006") + ". Please return the item to a kiosk.",
				Type:              domain.NotificationReturnReminder,
				RelatedEntityID:   rental.ID,
				RelatedEntityType: "rental",
			})
			count++
		}

		logger.Info("Sent return reminders", "count", count)
	})
}

// CancelExpiredRentals cancels PENDING rentals that were never paid for within
// the configured window, making the item bookable again.
func (jr *JobRunner) CancelExpiredRentals() {
	jr.runWithRecovery("CancelExpiredRentals", func() {
		ctx := context.Background()
		maxAge := time.Duration(jr.config.Scheduler.PendingRentalMaxAgeHours) * time.Hour
		cutoff := time.Now().UTC().Add(-maxAge)

		rentals, err := jr.store.ListPendingCreatedBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to list expired pending rentals", "error", err)
			return
		}

		count := 0
		for i := range rentals {
			rental := &rentals[i]
			err := jr.store.TransitionStatus(ctx, rental.ID, domain.RentalStatusPending, domain.RentalStatusCancelled)
			if err != nil {
				// The rental was paid or cancelled since we listed it.
				logger.Debug("Skipped expired rental", "rental_id", rental.ID, "error", err)
				continue
			}
			if err := jr.store.SetAvailability(ctx, rental.ItemID, true); err != nil {
				logger.Error("Failed to restore item availability", "item_id", rental.ItemID, "error", err)
			}
			jr.services.Notifier.Notify(ctx, &domain.Notification{
				UserID:            rental.RenterID,
				Title:             "Rental Expired",
				Message:           "Your rental request was cancelled because payment was not completed in time",
				Type:              domain.NotificationSystem,
				RelatedEntityID:   rental.ID,
				RelatedEntityType: "rental",
			})
			count++
		}

		logger.Info("Cancelled expired rentals", "count", count)
	})
}

package service

import (
	"context"
	"fmt"
	"time"

	"kioskrent-backend/internal/domain"
	"kioskrent-backend/internal/logger"
	"kioskrent-backend/internal/repository"
	"kioskrent-backend/internal/verify"
)

type verificationService struct {
	verifications repository.VerificationRepository
	rentals       repository.RentalRepository
	lockers       repository.LockerRepository
	items         repository.ItemRepository
	engine        verify.Engine
	notifier      Notifier
	maxAttempts   int
}

func NewVerificationService(
	verifications repository.VerificationRepository,
	rentals repository.RentalRepository,
	lockers repository.LockerRepository,
	items repository.ItemRepository,
	engine verify.Engine,
	notifier Notifier,
	maxAttempts int,
) VerificationCoordinator {
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &verificationService{
		verifications: verifications,
		rentals:       rentals,
		lockers:       lockers,
		items:         items,
		engine:        engine,
		notifier:      notifier,
		maxAttempts:   maxAttempts,
	}
}

func (s *verificationService) VerifyReturn(ctx context.Context, item *domain.Item, kioskImages []string) (*domain.Verification, error) {
	v := &domain.Verification{
		OriginalImages: item.Images,
		KioskImages:    kioskImages,
		AttemptNumber:  1,
	}

	result, err := s.engine.Verify(ctx, item.Images, kioskImages, 1)
	if err != nil {
		// Engine down or timed out. The item is already in the locker, so the
		// return cannot fail: record a pending attempt and let the retry job
		// pick it up.
		logger.Warn("Verification engine unavailable, degrading to pending", "item_id", item.ID, "error", err)
		v.Decision = domain.DecisionPending
		v.Status = domain.VerificationStatusPending
		v.ConfidenceScore = 0
	} else {
		applyEngineResult(v, result)
	}

	if err := s.verifications.Create(ctx, v); err != nil {
		return nil, err
	}
	logger.Info("Verification recorded", "verification_id", v.ID, "decision", v.Decision, "confidence", v.ConfidenceScore)
	return v, nil
}

func (s *verificationService) ApplyDecision(ctx context.Context, rental *domain.Rental, v *domain.Verification) error {
	if rental.Status != domain.RentalStatusVerification {
		return nil
	}

	switch {
	case v.Decision == domain.DecisionApproved:
		return s.completeRental(ctx, rental, v)
	case v.Decision == domain.DecisionRejected,
		v.Decision == domain.DecisionRetry && v.AttemptNumber >= s.maxAttempts:
		return s.disputeRental(ctx, rental, v)
	default:
		// PENDING or a retriable RETRY: the rental stays in VERIFICATION until
		// the retry job resolves it.
		return nil
	}
}

func (s *verificationService) completeRental(ctx context.Context, rental *domain.Rental, v *domain.Verification) error {
	err := s.rentals.TransitionStatus(ctx, rental.ID, domain.RentalStatusVerification, domain.RentalStatusCompleted)
	if err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			// Someone else resolved it first.
			return nil
		}
		return err
	}

	s.releaseReturnLocker(ctx, rental)
	if err := s.items.SetAvailability(ctx, rental.ItemID, true); err != nil {
		logger.Error("Failed to restore item availability", "item_id", rental.ItemID, "error", err)
	}

	msg := fmt.Sprintf("Return verified with %.0f%% confidence", v.ConfidenceScore)
	s.notifyBoth(ctx, rental, "Return Verified", msg)
	logger.Info("Rental completed", "rental_id", rental.ID, "verification_id", v.ID)
	return nil
}

func (s *verificationService) disputeRental(ctx context.Context, rental *domain.Rental, v *domain.Verification) error {
	err := s.rentals.TransitionStatus(ctx, rental.ID, domain.RentalStatusVerification, domain.RentalStatusDisputed)
	if err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return nil
		}
		return err
	}

	v.Status = domain.VerificationStatusManualReview
	if err := s.verifications.UpdateResult(ctx, v); err != nil {
		logger.Error("Failed to flag verification for manual review", "verification_id", v.ID, "error", err)
	}

	s.releaseReturnLocker(ctx, rental)

	s.notifyBoth(ctx, rental, "Return Under Review",
		"The returned item could not be verified automatically and is under manual review")
	logger.Warn("Rental disputed", "rental_id", rental.ID, "verification_id", v.ID, "attempt", v.AttemptNumber)
	return nil
}

func (s *verificationService) RetryUnresolved(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().UTC().Add(-olderThan)
	pending, err := s.verifications.ListUnresolvedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	for i := range pending {
		v := &pending[i]
		rental, err := s.rentals.GetByVerificationID(ctx, v.ID)
		if err != nil {
			logger.Error("No rental for pending verification", "verification_id", v.ID, "error", err)
			continue
		}
		if rental.Status != domain.RentalStatusVerification {
			continue
		}

		attempt := v.AttemptNumber + 1
		result, err := s.engine.Verify(ctx, v.OriginalImages, v.KioskImages, attempt)
		if err != nil {
			// Still unreachable; the next run will try again.
			logger.Warn("Verification retry failed", "verification_id", v.ID, "attempt", attempt, "error", err)
			continue
		}

		applyEngineResult(v, result)
		if err := s.verifications.UpdateResult(ctx, v); err != nil {
			logger.Error("Failed to store verification retry result", "verification_id", v.ID, "error", err)
			continue
		}
		if err := s.ApplyDecision(ctx, rental, v); err != nil {
			logger.Error("Failed to apply verification decision", "rental_id", rental.ID, "error", err)
		}
	}
	return nil
}

func (s *verificationService) releaseReturnLocker(ctx context.Context, rental *domain.Rental) {
	if rental.ReturnLockerID == nil {
		return
	}
	if err := s.lockers.Release(ctx, *rental.ReturnLockerID); err != nil {
		logger.Error("Failed to release return locker", "locker_id", *rental.ReturnLockerID, "error", err)
	}
}

func (s *verificationService) notifyBoth(ctx context.Context, rental *domain.Rental, title, message string) {
	for _, userID := range []string{rental.RenterID, rental.OwnerID} {
		s.notifier.Notify(ctx, &domain.Notification{
			UserID:            userID,
			Title:             title,
			Message:           message,
			Type:              domain.NotificationVerificationDone,
			RelatedEntityID:   rental.ID,
			RelatedEntityType: "rental",
		})
	}
}

// applyEngineResult copies an engine verdict onto the record. Unknown decision
// strings are treated as PENDING so a protocol drift never completes a rental.
func applyEngineResult(v *domain.Verification, r *verify.Result) {
	decision := domain.VerificationDecision(r.Decision)
	switch decision {
	case domain.DecisionApproved, domain.DecisionPending, domain.DecisionRetry, domain.DecisionRejected:
	default:
		decision = domain.DecisionPending
	}

	v.Decision = decision
	v.Status = domain.StatusForDecision(decision)
	v.ConfidenceScore = r.Confidence
	if r.AttemptNumber > 0 {
		v.AttemptNumber = r.AttemptNumber
	}
	tb, sb, db := r.MethodScores.TraditionalBest, r.MethodScores.SiftBest, r.MethodScores.DeepLearningBest
	v.TraditionalScore = &tb
	v.SiftScore = &sb
	v.DeepScore = &db
	ocr := r.OCR.Match
	v.OCRMatch = &ocr
}

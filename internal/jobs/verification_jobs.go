package jobs

import (
	"context"
	"time"

	"kioskrent-backend/internal/logger"
)

// RetryPendingVerifications re-runs the verification engine for returns whose
// last attempt could not produce a decision.
func (jr *JobRunner) RetryPendingVerifications() {
	jr.runWithRecovery("RetryPendingVerifications", func() {
		ctx := context.Background()
		olderThan := time.Duration(jr.config.Verification.RetryAfterMinutes) * time.Minute

		if err := jr.services.Verification.RetryUnresolved(ctx, olderThan); err != nil {
			logger.Error("Failed to retry pending verifications", "error", err)
		}
	})
}

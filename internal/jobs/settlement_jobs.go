package jobs

import (
	"context"

	"campus-reserve-backend/internal/logger"
)

// ExpireStaleSettlements releases reservations whose holder started a card
// flow and abandoned it. Without this sweep an abandoned intent would hold a
// slot forever.
func (jr *JobRunner) ExpireStaleSettlements() {
	jr.runWithRecovery("ExpireStaleSettlements", func() {
		ctx := context.Background()

		expired, err := jr.registration.ExpireStaleSettlements(ctx)
		if err != nil {
			logger.Error("Failed to expire stale settlements", "error", err)
			return
		}
		if expired > 0 {
			logger.Info("Expired stale settlements", "count", expired)
		}
	})
}

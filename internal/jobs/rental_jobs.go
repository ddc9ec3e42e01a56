package jobs

import (
	"context"

	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/utils"
)

// MarkOverdueRentals flips open rentals whose expected return date is before
// today to Overdue
func (jr *JobRunner) MarkOverdueRentals() {
	jr.runWithRecovery("MarkOverdueRentals", func() {
		ctx := context.Background()
		today := utils.TruncateDay(jr.now())

		count, err := jr.rentals.MarkOverdue(ctx, today)
		if err != nil {
			logger.Error("Failed to mark overdue rentals", "error", err)
			return
		}

		logger.Info("Marked rentals as overdue", "count", count, "asOf", utils.FormatDate(today))
	})
}

package jobs

import (
	"context"

	"github.com/shopspring/decimal"

	"rentalshop-backend/internal/domain"
	"rentalshop-backend/internal/logger"
	"rentalshop-backend/internal/utils"
)

// ReceivablesSnapshot is the end-of-day credit book position
type ReceivablesSnapshot struct {
	Date            string
	TotalReceivable decimal.Decimal
	Debtors         int
	OpenRentals     int
	AdvanceHeld     decimal.Decimal
}

// SnapshotReceivables logs what customers owe and what is still out on rent
func (jr *JobRunner) SnapshotReceivables() {
	jr.runWithRecovery("SnapshotReceivables", func() {
		snap, err := jr.takeReceivablesSnapshot(context.Background())
		if err != nil {
			logger.Error("Failed to snapshot receivables", "error", err)
			return
		}

		logger.Info("Receivables snapshot",
			"date", snap.Date,
			"total_receivable", snap.TotalReceivable.String(),
			"debtors", snap.Debtors,
			"open_rentals", snap.OpenRentals,
			"advance_held", snap.AdvanceHeld.String())
	})
}

func (jr *JobRunner) takeReceivablesSnapshot(ctx context.Context) (*ReceivablesSnapshot, error) {
	debtors, err := jr.customers.ListDebtors(ctx)
	if err != nil {
		return nil, err
	}
	open, err := jr.rentals.List(ctx, domain.RentalFilter{Statuses: domain.OpenRentalStatuses})
	if err != nil {
		return nil, err
	}

	snap := &ReceivablesSnapshot{
		Date:            utils.FormatDate(jr.now()),
		TotalReceivable: decimal.Zero,
		Debtors:         len(debtors),
		OpenRentals:     len(open),
		AdvanceHeld:     decimal.Zero,
	}
	for _, c := range debtors {
		snap.TotalReceivable = snap.TotalReceivable.Add(c.TotalDebt)
	}
	for _, r := range open {
		snap.AdvanceHeld = snap.AdvanceHeld.Add(r.AdvancePayment)
	}
	return snap, nil
}

package billing

import (
	"github.com/shopspring/decimal"

	"rentalshop-backend/internal/domain"
)

// Tiers are checked from the highest threshold down; a customer must spend
// strictly more than min to reach a tier.
var tierThresholds = []struct {
	min  decimal.Decimal
	tier domain.CustomerTier
}{
	{decimal.NewFromInt(500000), domain.TierPlatinum},
	{decimal.NewFromInt(200000), domain.TierGold},
	{decimal.NewFromInt(50000), domain.TierSilver},
	{decimal.NewFromInt(10000), domain.TierBronze},
}

// Classify maps lifetime spend to a loyalty tier. Negative spend is New.
func Classify(totalSpent decimal.Decimal) domain.CustomerTier {
	for _, t := range tierThresholds {
		if totalSpent.GreaterThan(t.min) {
			return t.tier
		}
	}
	return domain.TierNew
}

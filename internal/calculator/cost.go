package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// cyclesPerYear is how many charges each billing cycle produces in a year.
var cyclesPerYear = map[models.BillingCycle]int64{
	models.CycleDaily:        365,
	models.CycleWeekly:       52,
	models.CycleBiweekly:     26,
	models.CycleMonthly:      12,
	models.CycleQuarterly:    4,
	models.CycleSemiannually: 2,
	models.CycleYearly:       1,
}

// MonthlyCost normalizes a recurring charge to its average cost per month,
// rounded to cents.
func MonthlyCost(amount decimal.Decimal, cycle models.BillingCycle) (decimal.Decimal, error) {
	perYear, ok := cyclesPerYear[cycle]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown billing cycle: %q", cycle)
	}
	if cycle == models.CycleMonthly {
		return amount.Round(2), nil
	}
	return amount.Mul(decimal.NewFromInt(perYear)).Div(decimal.NewFromInt(12)).Round(2), nil
}

// MonthlyTotal sums the monthly cost of all active subscriptions.
func MonthlyTotal(subs []models.Subscription) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, s := range subs {
		if !s.Active {
			continue
		}
		cost, err := MonthlyCost(s.Amount, s.Cycle)
		if err != nil {
			return decimal.Zero, fmt.Errorf("subscription %s: %w", s.ID, err)
		}
		total = total.Add(cost)
	}
	return total, nil
}

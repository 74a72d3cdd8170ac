package models

import "github.com/shopspring/decimal"

// Transaction is a money movement recorded by the user.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string

	// OwnerID is the user who recorded the transaction.
	OwnerID string

	Title string

	// Amount is signed. For counterparty transactions a positive amount means
	// the counterparty owes the owner, a negative one that the owner owes them.
	Amount decimal.Decimal

	// CounterpartyID is the person on the other side, empty for plain
	// income/expense entries that do not affect any balance.
	CounterpartyID string

	Category string
	Notes    string

	// Date is the Unix timestamp the transaction happened.
	Date int64

	CreatedAt int64
}

// Subscription is a recurring charge.
type Subscription struct {
	ID              string
	OwnerID         string
	Name            string
	Amount          decimal.Decimal
	Cycle           BillingCycle
	Category        string
	NextBillingDate int64
	Active          bool
	CreatedAt       int64
}

// BillingCycle is how often a subscription charges.
type BillingCycle string

const (
	CycleDaily        BillingCycle = "daily"
	CycleWeekly       BillingCycle = "weekly"
	CycleBiweekly     BillingCycle = "biweekly"
	CycleMonthly      BillingCycle = "monthly"
	CycleQuarterly    BillingCycle = "quarterly"
	CycleSemiannually BillingCycle = "semiannually"
	CycleYearly       BillingCycle = "yearly"
)

// Valid reports whether c is one of the known cycles.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleDaily, CycleWeekly, CycleBiweekly, CycleMonthly, CycleQuarterly, CycleSemiannually, CycleYearly:
		return true
	}
	return false
}

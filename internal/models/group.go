package models

import "github.com/shopspring/decimal"

// Group represents a reusable member list that owns group expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// OwnerID is the user who created the group.
	OwnerID string

	// Name is the display name of the group (e.g., "Roommates", "Ski trip").
	Name string

	// Members is the list of person IDs in this group.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// GroupExpense is a bill paid by one member and shared equally by SplitBetween.
// Unlike SplitBill it is settled as a whole, not per participant.
type GroupExpense struct {
	ID           string
	GroupID      string
	Title        string
	Amount       decimal.Decimal
	PaidBy       string
	SplitBetween []string
	Category     string
	Notes        string
	IsSettled    bool
	Date         int64
	CreatedAt    int64
}

// AmountPerPerson returns Amount divided by the number of people sharing it,
// rounded to cents. Zero when SplitBetween is empty.
func (e *GroupExpense) AmountPerPerson() decimal.Decimal {
	if len(e.SplitBetween) == 0 {
		return decimal.Zero
	}
	return e.Amount.Div(decimal.NewFromInt(int64(len(e.SplitBetween)))).Round(2)
}

package api

import "github.com/shopspring/decimal"

// Money values are decimal strings on the wire, for example "12.50".
// Timestamps are Unix seconds.

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   int64  `json:"created_at"`
}

type Person struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// Split selects a split method. Value in each entry is read according to
// Type: the exact amount, the percentage, the share count or the signed
// adjustment. It is ignored for "equally".
type Split struct {
	Type    string       `json:"type"`
	Entries []SplitEntry `json:"entries"`
}

type SplitEntry struct {
	PersonID string          `json:"person_id"`
	Value    decimal.Decimal `json:"value"`
}

type Allocation struct {
	PersonID string          `json:"person_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type Participant struct {
	ID          string          `json:"id"`
	PersonID    string          `json:"person_id"`
	Amount      decimal.Decimal `json:"amount"`
	HasPaid     bool            `json:"has_paid"`
	PaymentDate *int64          `json:"payment_date,omitempty"`
}

type SplitBill struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PayerID      string          `json:"payer_id"`
	Split        Split           `json:"split"`
	Participants []Participant   `json:"participants"`
	Category     string          `json:"category,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Date         int64           `json:"date"`
	CreatedByID  string          `json:"created_by_id"`
	CreatedAt    int64           `json:"created_at"`
	Progress     float64         `json:"progress"`
	FullySettled bool            `json:"fully_settled"`
	TotalPending decimal.Decimal `json:"total_pending"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

type GroupExpense struct {
	ID              string          `json:"id"`
	GroupID         string          `json:"group_id"`
	Title           string          `json:"title"`
	Amount          decimal.Decimal `json:"amount"`
	PaidBy          string          `json:"paid_by"`
	SplitBetween    []string        `json:"split_between"`
	AmountPerPerson decimal.Decimal `json:"amount_per_person"`
	Category        string          `json:"category,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	IsSettled       bool            `json:"is_settled"`
	Date            int64           `json:"date"`
	CreatedAt       int64           `json:"created_at"`
}

type MemberBalance struct {
	PersonID   string          `json:"person_id"`
	NetBalance decimal.Decimal `json:"net_balance"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	TotalOwed  decimal.Decimal `json:"total_owed"`
}

type Debt struct {
	FromPersonID string          `json:"from_person_id"`
	ToPersonID   string          `json:"to_person_id"`
	Amount       decimal.Decimal `json:"amount"`
}

type Transaction struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Amount         decimal.Decimal `json:"amount"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	Category       string          `json:"category,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Date           int64           `json:"date"`
	CreatedAt      int64           `json:"created_at"`
}

// Balance is positive when the person owes the current user.
type Balance struct {
	PersonID   string          `json:"person_id"`
	PersonName string          `json:"person_name,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

type Subscription struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Cycle           string          `json:"cycle"`
	Category        string          `json:"category,omitempty"`
	NextBillingDate int64           `json:"next_billing_date,omitempty"`
	Active          bool            `json:"active"`
	MonthlyCost     decimal.Decimal `json:"monthly_cost"`
	CreatedAt       int64           `json:"created_at"`
}

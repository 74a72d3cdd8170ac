package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Balance is the net amount between the current user and one person.
// Positive means the person owes the user, negative that the user owes them.
type Balance struct {
	PersonID string
	Amount   decimal.Decimal
}

// BalanceSheet is the result of folding everything the user shares with
// other people.
type BalanceSheet struct {
	// Balances is sorted by person ID and only holds non-zero balances.
	Balances []Balance

	// TotalOwedToYou is the sum of all positive balances.
	TotalOwedToYou decimal.Decimal

	// TotalYouOwe is the sum of all negative balances, as a positive number.
	TotalYouOwe decimal.Decimal
}

// For returns the balance with personID, zero if there is none.
func (s BalanceSheet) For(personID string) decimal.Decimal {
	for _, b := range s.Balances {
		if b.PersonID == personID {
			return b.Amount
		}
	}
	return decimal.Zero
}

// AggregateBalances computes the net balance between userID and every person
// that appears in the given records.
//
// Contributions:
//   - transactions with a counterparty add their signed amount
//   - unpaid split bill shares owed to the user's payments add, shares the
//     user owes to another payer subtract
//   - unsettled group expenses work like split bills with equal shares
//
// Soft-deleted bills and records that do not involve the user are skipped.
// The fold stops at the first invalid bill or expense.
func AggregateBalances(userID string, transactions []models.Transaction, bills []models.SplitBill, expenses []models.GroupExpense) (BalanceSheet, error) {
	net := make(map[string]decimal.Decimal)
	add := func(personID string, amount decimal.Decimal) {
		net[personID] = net[personID].Add(amount)
	}

	for _, tx := range transactions {
		if tx.CounterpartyID == "" || tx.CounterpartyID == userID {
			continue
		}
		add(tx.CounterpartyID, tx.Amount)
	}

	for i := range bills {
		bill := &bills[i]
		if bill.IsDeleted() {
			continue
		}
		if err := ValidateBill(bill); err != nil {
			return BalanceSheet{}, fmt.Errorf("bill %s: %w", bill.ID, err)
		}
		for _, p := range bill.Participants {
			if p.HasPaid || p.PersonID == bill.PayerID {
				continue
			}
			switch userID {
			case bill.PayerID:
				add(p.PersonID, p.Amount)
			case p.PersonID:
				add(bill.PayerID, p.Amount.Neg())
			}
		}
	}

	for i := range expenses {
		exp := &expenses[i]
		if exp.IsSettled {
			continue
		}
		shares, err := ExpenseShares(exp)
		if err != nil {
			return BalanceSheet{}, fmt.Errorf("group expense %s: %w", exp.ID, err)
		}
		for _, s := range shares {
			if s.PersonID == exp.PaidBy {
				continue
			}
			switch userID {
			case exp.PaidBy:
				add(s.PersonID, s.Amount)
			case s.PersonID:
				add(exp.PaidBy, s.Amount.Neg())
			}
		}
	}

	sheet := BalanceSheet{TotalOwedToYou: decimal.Zero, TotalYouOwe: decimal.Zero}
	for personID, amount := range net {
		if amount.IsZero() {
			continue
		}
		sheet.Balances = append(sheet.Balances, Balance{PersonID: personID, Amount: amount})
		if amount.IsPositive() {
			sheet.TotalOwedToYou = sheet.TotalOwedToYou.Add(amount)
		} else {
			sheet.TotalYouOwe = sheet.TotalYouOwe.Add(amount.Neg())
		}
	}
	sort.Slice(sheet.Balances, func(i, j int) bool {
		return sheet.Balances[i].PersonID < sheet.Balances[j].PersonID
	})
	return sheet, nil
}

// ExpenseShares splits a group expense equally among SplitBetween using the
// same cent policy as an Equally split.
func ExpenseShares(exp *models.GroupExpense) ([]Allocation, error) {
	if len(exp.SplitBetween) == 0 {
		return nil, &InvalidSplitError{Reason: "group expense must be split between at least one person"}
	}
	return Evaluate(exp.Amount, models.Equally{People: exp.SplitBetween})
}

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	PersonID   string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal // Total amount paid across unsettled expenses
	TotalOwed  decimal.Decimal // Total share of unsettled expenses
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// GroupBalances computes every member's position over the unsettled expenses
// of a group and a simplified list of payments that would settle them.
//
// Algorithm:
//   - payer contributed +amount, each person in SplitBetween owes their share
//   - net_balance = total_paid - total_owed
//   - debts: largest debtor pays largest creditor until both lists run out
func GroupBalances(expenses []models.GroupExpense) ([]MemberBalance, []DebtEdge, error) {
	balances := make(map[string]*MemberBalance)
	member := func(id string) *MemberBalance {
		if b, ok := balances[id]; ok {
			return b
		}
		b := &MemberBalance{PersonID: id, NetBalance: decimal.Zero, TotalPaid: decimal.Zero, TotalOwed: decimal.Zero}
		balances[id] = b
		return b
	}

	for i := range expenses {
		exp := &expenses[i]
		if exp.IsSettled {
			continue
		}
		shares, err := ExpenseShares(exp)
		if err != nil {
			return nil, nil, fmt.Errorf("group expense %s: %w", exp.ID, err)
		}
		payer := member(exp.PaidBy)
		payer.TotalPaid = payer.TotalPaid.Add(exp.Amount)
		for _, s := range shares {
			m := member(s.PersonID)
			m.TotalOwed = m.TotalOwed.Add(s.Amount)
		}
	}

	memberBalances := make([]MemberBalance, 0, len(balances))
	for _, b := range balances {
		b.NetBalance = b.TotalPaid.Sub(b.TotalOwed)
		memberBalances = append(memberBalances, *b)
	}
	sort.Slice(memberBalances, func(i, j int) bool {
		return memberBalances[i].PersonID < memberBalances[j].PersonID
	})

	return memberBalances, simplifyDebts(memberBalances), nil
}

// simplifyDebts greedily matches debtors with creditors, largest first.
// Remainders under one cent are treated as settled.
func simplifyDebts(members []MemberBalance) []DebtEdge {
	type position struct {
		id     string
		amount decimal.Decimal
	}
	var creditors, debtors []position
	for _, m := range members {
		if m.NetBalance.GreaterThanOrEqual(amountTolerance) {
			creditors = append(creditors, position{m.PersonID, m.NetBalance})
		} else if m.NetBalance.Neg().GreaterThanOrEqual(amountTolerance) {
			debtors = append(debtors, position{m.PersonID, m.NetBalance.Neg()})
		}
	}
	byAmount := func(ps []position) func(i, j int) bool {
		return func(i, j int) bool {
			if !ps[i].amount.Equal(ps[j].amount) {
				return ps[i].amount.GreaterThan(ps[j].amount)
			}
			return ps[i].id < ps[j].id
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := decimal.Min(debtors[i].amount, creditors[j].amount)
		if amount.GreaterThanOrEqual(amountTolerance) {
			edges = append(edges, DebtEdge{From: debtors[i].id, To: creditors[j].id, Amount: amount})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if debtors[i].amount.LessThan(amountTolerance) {
			i++
		}
		if creditors[j].amount.LessThan(amountTolerance) {
			j++
		}
	}
	return edges
}

package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// splitMethodFromAPI builds the split method for a wire Split.
func splitMethodFromAPI(split api.Split) (models.SplitMethod, error) {
	splitType, err := models.ParseSplitType(split.Type)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}

	switch splitType {
	case models.SplitEqually:
		m := models.Equally{}
		for _, e := range split.Entries {
			m.People = append(m.People, e.PersonID)
		}
		return m, nil
	case models.SplitExactAmounts:
		m := models.ExactAmounts{}
		for _, e := range split.Entries {
			m.Entries = append(m.Entries, models.ExactAmount{PersonID: e.PersonID, Amount: e.Value})
		}
		return m, nil
	case models.SplitPercentages:
		m := models.Percentages{}
		for _, e := range split.Entries {
			m.Entries = append(m.Entries, models.PercentageEntry{PersonID: e.PersonID, Percentage: e.Value})
		}
		return m, nil
	case models.SplitShares:
		m := models.Shares{}
		for _, e := range split.Entries {
			if !e.Value.IsInteger() {
				return nil, invalidArgument("shares for %s must be a whole number, got %s", e.PersonID, e.Value)
			}
			m.Entries = append(m.Entries, models.ShareEntry{PersonID: e.PersonID, Shares: e.Value.IntPart()})
		}
		return m, nil
	default:
		m := models.Adjustments{}
		for _, e := range split.Entries {
			m.Entries = append(m.Entries, models.AdjustmentEntry{PersonID: e.PersonID, Adjustment: e.Value})
		}
		return m, nil
	}
}

func splitToAPI(method models.SplitMethod) api.Split {
	split := api.Split{Type: string(method.Type())}
	switch m := method.(type) {
	case models.Equally:
		for _, id := range m.People {
			split.Entries = append(split.Entries, api.SplitEntry{PersonID: id})
		}
	case models.ExactAmounts:
		for _, e := range m.Entries {
			split.Entries = append(split.Entries, api.SplitEntry{PersonID: e.PersonID, Value: e.Amount})
		}
	case models.Percentages:
		for _, e := range m.Entries {
			split.Entries = append(split.Entries, api.SplitEntry{PersonID: e.PersonID, Value: e.Percentage})
		}
	case models.Shares:
		for _, e := range m.Entries {
			split.Entries = append(split.Entries, api.SplitEntry{PersonID: e.PersonID, Value: decimal.NewFromInt(e.Shares)})
		}
	case models.Adjustments:
		for _, e := range m.Entries {
			split.Entries = append(split.Entries, api.SplitEntry{PersonID: e.PersonID, Value: e.Adjustment})
		}
	}
	return split
}

func allocationsToAPI(allocs []calculator.Allocation) []api.Allocation {
	out := make([]api.Allocation, len(allocs))
	for i, a := range allocs {
		out[i] = api.Allocation{PersonID: a.PersonID, Amount: a.Amount}
	}
	return out
}

func billToAPI(bill *models.SplitBill) api.SplitBill {
	participants := make([]api.Participant, len(bill.Participants))
	for i, p := range bill.Participants {
		participants[i] = api.Participant{
			ID:          p.ID,
			PersonID:    p.PersonID,
			Amount:      p.Amount,
			HasPaid:     p.HasPaid,
			PaymentDate: p.PaymentDate,
		}
	}
	return api.SplitBill{
		ID:           bill.ID,
		Title:        bill.Title,
		TotalAmount:  bill.TotalAmount,
		PayerID:      bill.PayerID,
		Split:        splitToAPI(bill.Method),
		Participants: participants,
		Category:     bill.Category,
		Notes:        bill.Notes,
		Date:         bill.Date,
		CreatedByID:  bill.CreatedByID,
		CreatedAt:    bill.CreatedAt,
		Progress:     calculator.SettlementProgress(bill),
		FullySettled: calculator.IsFullySettled(bill),
		TotalPending: calculator.TotalPending(bill),
	}
}

func userToAPI(user *models.User) api.User {
	return api.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}

func personToAPI(p *models.Person) api.Person {
	return api.Person{ID: p.ID, Name: p.Name, Email: p.Email, CreatedAt: p.CreatedAt}
}

func groupToAPI(g *models.Group) api.Group {
	return api.Group{ID: g.ID, Name: g.Name, Members: g.Members, CreatedAt: g.CreatedAt}
}

func expenseToAPI(e *models.GroupExpense) api.GroupExpense {
	return api.GroupExpense{
		ID:              e.ID,
		GroupID:         e.GroupID,
		Title:           e.Title,
		Amount:          e.Amount,
		PaidBy:          e.PaidBy,
		SplitBetween:    e.SplitBetween,
		AmountPerPerson: e.AmountPerPerson(),
		Category:        e.Category,
		Notes:           e.Notes,
		IsSettled:       e.IsSettled,
		Date:            e.Date,
		CreatedAt:       e.CreatedAt,
	}
}

func transactionToAPI(tx *models.Transaction) api.Transaction {
	return api.Transaction{
		ID:             tx.ID,
		Title:          tx.Title,
		Amount:         tx.Amount,
		CounterpartyID: tx.CounterpartyID,
		Category:       tx.Category,
		Notes:          tx.Notes,
		Date:           tx.Date,
		CreatedAt:      tx.CreatedAt,
	}
}

func subscriptionToAPI(sub *models.Subscription) api.Subscription {
	out := api.Subscription{
		ID:              sub.ID,
		Name:            sub.Name,
		Amount:          sub.Amount,
		Cycle:           string(sub.Cycle),
		Category:        sub.Category,
		NextBillingDate: sub.NextBillingDate,
		Active:          sub.Active,
		CreatedAt:       sub.CreatedAt,
	}
	// Stored cycles are validated on create.
	out.MonthlyCost, _ = calculator.MonthlyCost(sub.Amount, sub.Cycle)
	return out
}

// generateTitle creates a bill title from participant names.
func generateTitle(names []string) string {
	if len(names) == 0 {
		return fmt.Sprintf("Bill - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(names) <= 3 {
		return fmt.Sprintf("Split with %s", strings.Join(names, ", "))
	}
	return fmt.Sprintf("Split with %s and %d others",
		strings.Join(names[:2], ", "),
		len(names)-2,
	)
}

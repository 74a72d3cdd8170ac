package calculator

import (
	"errors"
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func TestAggregateBalances(t *testing.T) {
	const me = "me"

	t.Run("unpaid share plus direct transaction", func(t *testing.T) {
		bills := []models.SplitBill{{
			ID:          "b1",
			TotalAmount: d("100"),
			PayerID:     me,
			Participants: []models.SplitParticipant{
				{ID: "p1", PersonID: me, Amount: d("50")},
				{ID: "p2", PersonID: "bob", Amount: d("50")},
			},
		}}
		txs := []models.Transaction{{ID: "t1", Amount: d("20"), CounterpartyID: "bob"}}

		sheet, err := AggregateBalances(me, txs, bills, nil)
		if err != nil {
			t.Fatalf("AggregateBalances() error = %v", err)
		}
		if got := sheet.For("bob"); !got.Equal(d("70")) {
			t.Errorf("bob = %s, want 70", got)
		}
		if !sheet.TotalOwedToYou.Equal(d("70")) || !sheet.TotalYouOwe.IsZero() {
			t.Errorf("totals = %s / %s, want 70 / 0", sheet.TotalOwedToYou, sheet.TotalYouOwe)
		}
	})

	t.Run("paid shares and deleted bills do not count", func(t *testing.T) {
		paidAt := int64(1)
		bills := []models.SplitBill{
			{
				ID:          "b1",
				TotalAmount: d("30"),
				PayerID:     me,
				Participants: []models.SplitParticipant{
					{ID: "p1", PersonID: "bob", Amount: d("15"), HasPaid: true, PaymentDate: &paidAt},
					{ID: "p2", PersonID: "carol", Amount: d("15")},
				},
			},
			{
				ID:          "b2",
				TotalAmount: d("40"),
				PayerID:     me,
				DeletedAt:   5,
				Participants: []models.SplitParticipant{
					{ID: "p3", PersonID: "bob", Amount: d("40")},
				},
			},
		}

		sheet, err := AggregateBalances(me, nil, bills, nil)
		if err != nil {
			t.Fatalf("AggregateBalances() error = %v", err)
		}
		if len(sheet.Balances) != 1 {
			t.Fatalf("got %d balances, want 1: %+v", len(sheet.Balances), sheet.Balances)
		}
		if got := sheet.For("carol"); !got.Equal(d("15")) {
			t.Errorf("carol = %s, want 15", got)
		}
	})

	t.Run("user owes another payer", func(t *testing.T) {
		bills := []models.SplitBill{{
			ID:          "b1",
			TotalAmount: d("60"),
			PayerID:     "bob",
			Participants: []models.SplitParticipant{
				{ID: "p1", PersonID: me, Amount: d("20")},
				{ID: "p2", PersonID: "bob", Amount: d("20")},
				{ID: "p3", PersonID: "carol", Amount: d("20")},
			},
		}}
		txs := []models.Transaction{
			{ID: "t1", Amount: d("-5"), CounterpartyID: "bob"},
			{ID: "t2", Amount: d("99")},
		}

		sheet, err := AggregateBalances(me, txs, bills, nil)
		if err != nil {
			t.Fatalf("AggregateBalances() error = %v", err)
		}
		if got := sheet.For("bob"); !got.Equal(d("-25")) {
			t.Errorf("bob = %s, want -25", got)
		}
		if got := sheet.For("carol"); !got.IsZero() {
			t.Errorf("carol = %s, want 0 (not involved with the user)", got)
		}
		if !sheet.TotalYouOwe.Equal(d("25")) {
			t.Errorf("total you owe = %s, want 25", sheet.TotalYouOwe)
		}
	})

	t.Run("group expenses", func(t *testing.T) {
		expenses := []models.GroupExpense{
			{ID: "e1", Amount: d("90"), PaidBy: me, SplitBetween: []string{me, "bob", "carol"}},
			{ID: "e2", Amount: d("10"), PaidBy: "bob", SplitBetween: []string{me, "bob"}},
			{ID: "e3", Amount: d("500"), PaidBy: me, SplitBetween: []string{"bob"}, IsSettled: true},
		}

		sheet, err := AggregateBalances(me, nil, nil, expenses)
		if err != nil {
			t.Fatalf("AggregateBalances() error = %v", err)
		}
		if got := sheet.For("bob"); !got.Equal(d("25")) {
			t.Errorf("bob = %s, want 25", got)
		}
		if got := sheet.For("carol"); !got.Equal(d("30")) {
			t.Errorf("carol = %s, want 30", got)
		}
	})

	t.Run("balances are sorted and zero balances dropped", func(t *testing.T) {
		txs := []models.Transaction{
			{ID: "t1", Amount: d("10"), CounterpartyID: "zoe"},
			{ID: "t2", Amount: d("10"), CounterpartyID: "adam"},
			{ID: "t3", Amount: d("5"), CounterpartyID: "mia"},
			{ID: "t4", Amount: d("-5"), CounterpartyID: "mia"},
		}
		sheet, err := AggregateBalances(me, txs, nil, nil)
		if err != nil {
			t.Fatalf("AggregateBalances() error = %v", err)
		}
		if len(sheet.Balances) != 2 || sheet.Balances[0].PersonID != "adam" || sheet.Balances[1].PersonID != "zoe" {
			t.Errorf("balances = %+v, want adam then zoe", sheet.Balances)
		}
	})

	t.Run("invalid bill stops the fold", func(t *testing.T) {
		bills := []models.SplitBill{{ID: "broken", TotalAmount: d("10"), PayerID: me}}
		_, err := AggregateBalances(me, nil, bills, nil)
		var target *InvalidSplitError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want InvalidSplitError", err)
		}
	})

	t.Run("expense without people stops the fold", func(t *testing.T) {
		expenses := []models.GroupExpense{{ID: "e1", Amount: d("10"), PaidBy: me}}
		_, err := AggregateBalances(me, nil, nil, expenses)
		var target *InvalidSplitError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want InvalidSplitError", err)
		}
	})
}

func TestGroupBalances(t *testing.T) {
	expenses := []models.GroupExpense{
		{ID: "e1", Amount: d("90"), PaidBy: "A", SplitBetween: []string{"A", "B", "C"}},
		{ID: "e2", Amount: d("30"), PaidBy: "B", SplitBetween: []string{"B", "C"}},
		{ID: "e3", Amount: d("1000"), PaidBy: "C", SplitBetween: []string{"A"}, IsSettled: true},
	}

	members, edges, err := GroupBalances(expenses)
	if err != nil {
		t.Fatalf("GroupBalances() error = %v", err)
	}

	want := map[string]string{"A": "60", "B": "-15", "C": "-45"}
	if len(members) != len(want) {
		t.Fatalf("got %d members, want %d", len(members), len(want))
	}
	for _, m := range members {
		if !m.NetBalance.Equal(d(want[m.PersonID])) {
			t.Errorf("%s net = %s, want %s", m.PersonID, m.NetBalance, want[m.PersonID])
		}
	}

	wantEdges := []DebtEdge{
		{From: "C", To: "A", Amount: d("45")},
		{From: "B", To: "A", Amount: d("15")},
	}
	if len(edges) != len(wantEdges) {
		t.Fatalf("got %d edges, want %d: %+v", len(edges), len(wantEdges), edges)
	}
	for i, e := range edges {
		if e.From != wantEdges[i].From || e.To != wantEdges[i].To || !e.Amount.Equal(wantEdges[i].Amount) {
			t.Errorf("edge %d = %+v, want %+v", i, e, wantEdges[i])
		}
	}
}

func TestGroupBalancesEmpty(t *testing.T) {
	members, edges, err := GroupBalances(nil)
	if err != nil {
		t.Fatalf("GroupBalances() error = %v", err)
	}
	if len(members) != 0 || len(edges) != 0 {
		t.Errorf("expected no balances, got %+v %+v", members, edges)
	}
}

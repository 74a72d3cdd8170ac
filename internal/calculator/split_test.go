package calculator

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		total  string
		method models.SplitMethod
		want   []string
	}{
		{
			name:   "equally with remainder goes to first participants",
			total:  "100.00",
			method: models.Equally{People: []string{"Alice", "Bob", "Charlie"}},
			want:   []string{"33.34", "33.33", "33.33"},
		},
		{
			name:   "equally with two remainder cents",
			total:  "0.05",
			method: models.Equally{People: []string{"Alice", "Bob", "Charlie"}},
			want:   []string{"0.02", "0.02", "0.01"},
		},
		{
			name:   "equally single participant",
			total:  "42.10",
			method: models.Equally{People: []string{"Alice"}},
			want:   []string{"42.10"},
		},
		{
			name: "percentages",
			total: "90.00",
			method: models.Percentages{Entries: []models.PercentageEntry{
				{PersonID: "Alice", Percentage: d("50")},
				{PersonID: "Bob", Percentage: d("30")},
				{PersonID: "Charlie", Percentage: d("20")},
			}},
			want: []string{"45.00", "27.00", "18.00"},
		},
		{
			name: "percentages in thirds",
			total: "100",
			method: models.Percentages{Entries: []models.PercentageEntry{
				{PersonID: "Alice", Percentage: d("33.33")},
				{PersonID: "Bob", Percentage: d("33.33")},
				{PersonID: "Charlie", Percentage: d("33.34")},
			}},
			want: []string{"33.33", "33.33", "33.34"},
		},
		{
			name: "percentages within tolerance still cover the total",
			total: "100",
			method: models.Percentages{Entries: []models.PercentageEntry{
				{PersonID: "Alice", Percentage: d("49.95")},
				{PersonID: "Bob", Percentage: d("50")},
			}},
			want: []string{"49.98", "50.02"},
		},
		{
			name: "shares",
			total: "60.00",
			method: models.Shares{Entries: []models.ShareEntry{
				{PersonID: "Alice", Shares: 1},
				{PersonID: "Bob", Shares: 2},
				{PersonID: "Charlie", Shares: 3},
			}},
			want: []string{"10.00", "20.00", "30.00"},
		},
		{
			name: "equal shares behave like equally",
			total: "100",
			method: models.Shares{Entries: []models.ShareEntry{
				{PersonID: "Alice", Shares: 1},
				{PersonID: "Bob", Shares: 1},
				{PersonID: "Charlie", Shares: 1},
			}},
			want: []string{"33.34", "33.33", "33.33"},
		},
		{
			name: "exact amounts",
			total: "100",
			method: models.ExactAmounts{Entries: []models.ExactAmount{
				{PersonID: "Alice", Amount: d("60")},
				{PersonID: "Bob", Amount: d("40")},
			}},
			want: []string{"60.00", "40.00"},
		},
		{
			name: "exact amounts off by one cent are accepted",
			total: "100",
			method: models.ExactAmounts{Entries: []models.ExactAmount{
				{PersonID: "Alice", Amount: d("33.33")},
				{PersonID: "Bob", Amount: d("33.33")},
				{PersonID: "Charlie", Amount: d("33.33")},
			}},
			want: []string{"33.33", "33.33", "33.33"},
		},
		{
			name: "adjustments",
			total: "100",
			method: models.Adjustments{Entries: []models.AdjustmentEntry{
				{PersonID: "Alice", Adjustment: d("10")},
				{PersonID: "Bob", Adjustment: d("-10")},
			}},
			want: []string{"60.00", "40.00"},
		},
		{
			name: "adjustments on an uneven baseline",
			total: "10",
			method: models.Adjustments{Entries: []models.AdjustmentEntry{
				{PersonID: "Alice", Adjustment: d("0")},
				{PersonID: "Bob", Adjustment: d("1.50")},
				{PersonID: "Charlie", Adjustment: d("-1.50")},
			}},
			want: []string{"3.34", "4.83", "1.83"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allocs, err := Evaluate(d(tt.total), tt.method)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if len(allocs) != len(tt.want) {
				t.Fatalf("got %d allocations, want %d", len(allocs), len(tt.want))
			}
			ids := tt.method.PersonIDs()
			for i, a := range allocs {
				if a.PersonID != ids[i] {
					t.Errorf("allocation %d person = %s, want %s", i, a.PersonID, ids[i])
				}
				if !a.Amount.Equal(d(tt.want[i])) {
					t.Errorf("%s amount = %s, want %s", a.PersonID, a.Amount, tt.want[i])
				}
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	t.Run("no participants", func(t *testing.T) {
		_, err := Evaluate(d("10"), models.Equally{})
		var target *InvalidSplitError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want InvalidSplitError", err)
		}
	})

	t.Run("non-positive total", func(t *testing.T) {
		_, err := Evaluate(decimal.Zero, models.Equally{People: []string{"Alice"}})
		var target *InvalidSplitError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want InvalidSplitError", err)
		}
	})

	t.Run("duplicate participant", func(t *testing.T) {
		_, err := Evaluate(d("10"), models.Equally{People: []string{"Alice", "Alice"}})
		var target *InvalidSplitError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want InvalidSplitError", err)
		}
	})

	t.Run("exact amounts mismatch reports delta", func(t *testing.T) {
		_, err := Evaluate(d("100"), models.ExactAmounts{Entries: []models.ExactAmount{
			{PersonID: "Alice", Amount: d("60")},
			{PersonID: "Bob", Amount: d("30")},
		}})
		var target *AmountMismatchError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want AmountMismatchError", err)
		}
		if !target.Delta.Equal(d("10")) {
			t.Errorf("delta = %s, want 10", target.Delta)
		}
	})

	t.Run("percentages summing to 99", func(t *testing.T) {
		_, err := Evaluate(d("100"), models.Percentages{Entries: []models.PercentageEntry{
			{PersonID: "Alice", Percentage: d("50")},
			{PersonID: "Bob", Percentage: d("49")},
		}})
		var target *PercentageMismatchError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want PercentageMismatchError", err)
		}
		if !target.Delta.Equal(d("1")) {
			t.Errorf("delta = %s, want 1", target.Delta)
		}
	})

	t.Run("negative percentage", func(t *testing.T) {
		_, err := Evaluate(d("100"), models.Percentages{Entries: []models.PercentageEntry{
			{PersonID: "Alice", Percentage: d("110")},
			{PersonID: "Bob", Percentage: d("-10")},
		}})
		var target *InvalidSplitError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want InvalidSplitError", err)
		}
	})

	t.Run("zero shares", func(t *testing.T) {
		_, err := Evaluate(d("60"), models.Shares{Entries: []models.ShareEntry{
			{PersonID: "Alice", Shares: 2},
			{PersonID: "Bob", Shares: 0},
		}})
		var target *InvalidSharesError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want InvalidSharesError", err)
		}
		if target.PersonID != "Bob" || target.Shares != 0 {
			t.Errorf("got %+v, want Bob with 0 shares", target)
		}
	})

	t.Run("adjustments not netting to zero", func(t *testing.T) {
		_, err := Evaluate(d("100"), models.Adjustments{Entries: []models.AdjustmentEntry{
			{PersonID: "Alice", Adjustment: d("5")},
			{PersonID: "Bob", Adjustment: d("0")},
		}})
		var target *AdjustmentMismatchError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want AdjustmentMismatchError", err)
		}
		if !target.Delta.Equal(d("5")) {
			t.Errorf("delta = %s, want 5", target.Delta)
		}
	})

	t.Run("adjustment larger than the equal share", func(t *testing.T) {
		_, err := Evaluate(d("10"), models.Adjustments{Entries: []models.AdjustmentEntry{
			{PersonID: "Alice", Adjustment: d("-6")},
			{PersonID: "Bob", Adjustment: d("6")},
		}})
		var target *InvalidSplitError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want InvalidSplitError", err)
		}
	})
}

func TestEvaluateSumsToTotal(t *testing.T) {
	people := []string{"A", "B", "C", "D", "E", "F", "G"}
	totals := []string{"0.01", "0.07", "1", "9.99", "100", "333.33", "1234.56", "99999.99"}

	for _, total := range totals {
		for n := 1; n <= len(people); n++ {
			ids := people[:n]
			shares := make([]models.ShareEntry, n)
			pcts := make([]models.PercentageEntry, n)
			base := decimal.NewFromInt(100).Div(decimal.NewFromInt(int64(n))).Round(2)
			sumPct := decimal.Zero
			for i, id := range ids {
				shares[i] = models.ShareEntry{PersonID: id, Shares: int64(i + 1)}
				pct := base
				if i == n-1 {
					pct = decimal.NewFromInt(100).Sub(sumPct)
				}
				sumPct = sumPct.Add(pct)
				pcts[i] = models.PercentageEntry{PersonID: id, Percentage: pct}
			}

			equal, err := Evaluate(d(total), models.Equally{People: ids})
			if err != nil {
				t.Fatalf("Evaluate(%s, equally) error = %v", total, err)
			}
			exact := make([]models.ExactAmount, n)
			for i, a := range equal {
				exact[i] = models.ExactAmount{PersonID: a.PersonID, Amount: a.Amount}
			}
			// Move a cent from the first person, who holds the largest
			// baseline share, to the last.
			adjs := make([]models.AdjustmentEntry, n)
			for i, id := range ids {
				adjs[i] = models.AdjustmentEntry{PersonID: id, Adjustment: decimal.Zero}
			}
			if n > 1 {
				adjs[0].Adjustment = d("-0.01")
				adjs[n-1].Adjustment = d("0.01")
			}

			methods := []models.SplitMethod{
				models.Equally{People: ids},
				models.Shares{Entries: shares},
				models.Percentages{Entries: pcts},
				models.ExactAmounts{Entries: exact},
				models.Adjustments{Entries: adjs},
			}
			for _, m := range methods {
				t.Run(fmt.Sprintf("%s/%s/%d", m.Type(), total, n), func(t *testing.T) {
					allocs, err := Evaluate(d(total), m)
					if err != nil {
						t.Fatalf("Evaluate() error = %v", err)
					}
					if sum := SumAllocations(allocs); !sum.Equal(d(total)) {
						t.Errorf("sum = %s, want %s", sum, total)
					}
					for _, a := range allocs {
						if a.Amount.IsNegative() {
							t.Errorf("%s got negative amount %s", a.PersonID, a.Amount)
						}
					}
				})
			}
		}
	}
}

func TestEvaluateSubCentAdjustments(t *testing.T) {
	adjust := func(values ...string) models.Adjustments {
		m := models.Adjustments{}
		for i, v := range values {
			m.Entries = append(m.Entries, models.AdjustmentEntry{PersonID: string(rune('A' + i)), Adjustment: d(v)})
		}
		return m
	}

	t.Run("rounding drift is rejected", func(t *testing.T) {
		// Nets to exactly zero but rounds to +2 cents.
		_, err := Evaluate(d("60"), adjust("0.005", "0.005", "0.005", "0.005", "0.005", "-0.025"))
		var target *AdjustmentMismatchError
		if !errors.As(err, &target) {
			t.Fatalf("error = %v, want AdjustmentMismatchError", err)
		}
		if !target.Delta.Equal(d("0.02")) {
			t.Errorf("delta = %s, want 0.02", target.Delta)
		}
	})

	accepted := []struct {
		name   string
		method models.Adjustments
	}{
		{"rounds to zero", adjust("0.004", "-0.004")},
		{"rounds symmetrically", adjust("0.005", "-0.005")},
		{"one cent of drift", adjust("0.005", "0.005", "-0.01")},
	}
	for _, tt := range accepted {
		t.Run(tt.name, func(t *testing.T) {
			allocs, err := Evaluate(d("10"), tt.method)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			bill := &models.SplitBill{ID: "b1", TotalAmount: d("10"), Method: tt.method}
			for _, a := range allocs {
				bill.Participants = append(bill.Participants, models.SplitParticipant{PersonID: a.PersonID, Amount: a.Amount})
			}
			if err := ValidateBill(bill); err != nil {
				t.Errorf("ValidateBill() error = %v", err)
			}
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	method := models.Shares{Entries: []models.ShareEntry{
		{PersonID: "Alice", Shares: 3},
		{PersonID: "Bob", Shares: 7},
		{PersonID: "Charlie", Shares: 11},
	}}
	first, err := Evaluate(d("123.45"), method)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Evaluate(d("123.45"), method)
		if err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
		for j := range first {
			if !first[j].Amount.Equal(again[j].Amount) {
				t.Fatalf("run %d: %s = %s, want %s", i, again[j].PersonID, again[j].Amount, first[j].Amount)
			}
		}
	}
}

func TestValidateBill(t *testing.T) {
	bill := &models.SplitBill{
		ID:          "b1",
		TotalAmount: d("50"),
		Participants: []models.SplitParticipant{
			{PersonID: "Alice", Amount: d("25")},
			{PersonID: "Bob", Amount: d("25")},
		},
	}
	if err := ValidateBill(bill); err != nil {
		t.Errorf("ValidateBill() error = %v", err)
	}

	bill.Method = models.Equally{People: []string{"Alice", "Bob"}}
	bill.Participants[1].Amount = d("20")
	var invalid *InvalidSplitError
	err := ValidateBill(bill)
	if !errors.As(err, &invalid) {
		t.Fatalf("ValidateBill() error = %v, want InvalidSplitError", err)
	}
	if strings.Contains(err.Error(), "exact amounts") || !strings.Contains(err.Error(), "b1") {
		t.Errorf("ValidateBill() error = %q, want the bill named and no split type assumed", err)
	}

	bill.Participants = nil
	if err := ValidateBill(bill); !errors.As(err, &invalid) {
		t.Errorf("ValidateBill() error = %v, want InvalidSplitError", err)
	}
}

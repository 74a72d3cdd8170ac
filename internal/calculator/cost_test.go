package calculator

import (
	"testing"

	"github.com/mmynk/splitledger/internal/models"
)

func TestMonthlyCost(t *testing.T) {
	tests := []struct {
		amount string
		cycle  models.BillingCycle
		want   string
	}{
		{"1", models.CycleDaily, "30.42"},
		{"10", models.CycleWeekly, "43.33"},
		{"12", models.CycleBiweekly, "26"},
		{"9.99", models.CycleMonthly, "9.99"},
		{"30", models.CycleQuarterly, "10"},
		{"60", models.CycleSemiannually, "10"},
		{"119.88", models.CycleYearly, "9.99"},
	}

	for _, tt := range tests {
		t.Run(string(tt.cycle), func(t *testing.T) {
			got, err := MonthlyCost(d(tt.amount), tt.cycle)
			if err != nil {
				t.Fatalf("MonthlyCost() error = %v", err)
			}
			if !got.Equal(d(tt.want)) {
				t.Errorf("MonthlyCost(%s, %s) = %s, want %s", tt.amount, tt.cycle, got, tt.want)
			}
		})
	}

	if _, err := MonthlyCost(d("1"), "fortnightly"); err == nil {
		t.Error("expected error for unknown cycle")
	}
}

func TestMonthlyTotal(t *testing.T) {
	subs := []models.Subscription{
		{ID: "s1", Amount: d("9.99"), Cycle: models.CycleMonthly, Active: true},
		{ID: "s2", Amount: d("120"), Cycle: models.CycleYearly, Active: true},
		{ID: "s3", Amount: d("50"), Cycle: models.CycleMonthly, Active: false},
	}
	got, err := MonthlyTotal(subs)
	if err != nil {
		t.Fatalf("MonthlyTotal() error = %v", err)
	}
	if !got.Equal(d("19.99")) {
		t.Errorf("MonthlyTotal() = %s, want 19.99", got)
	}
}

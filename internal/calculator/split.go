package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

var (
	// amountTolerance is how far money sums may drift from the total.
	amountTolerance = decimal.New(1, -2)
	// percentageTolerance is how far percentages may drift from 100.
	percentageTolerance = decimal.New(1, -1)

	hundred = decimal.NewFromInt(100)
)

// Allocation is one person's computed share of a total.
type Allocation struct {
	PersonID string
	Amount   decimal.Decimal
}

// Evaluate splits total among the participants of method and returns one
// Allocation per participant, in input order. Amounts are whole cents and,
// for every method except ExactAmounts and Adjustments, sum exactly to the
// total rounded to cents. Cents that cannot be divided evenly go one at a
// time to the first participants in list order.
//
// Evaluate is pure: the same inputs always give the same result.
func Evaluate(total decimal.Decimal, method models.SplitMethod) ([]Allocation, error) {
	if method == nil {
		return nil, &InvalidSplitError{Reason: "split method is required"}
	}
	if !total.IsPositive() {
		return nil, &InvalidSplitError{Reason: "total must be positive"}
	}
	if err := checkPeople(method.PersonIDs()); err != nil {
		return nil, err
	}

	switch m := method.(type) {
	case models.Equally:
		return evaluateEqually(total, m)
	case models.ExactAmounts:
		return evaluateExact(total, m)
	case models.Percentages:
		return evaluatePercentages(total, m)
	case models.Shares:
		return evaluateShares(total, m)
	case models.Adjustments:
		return evaluateAdjustments(total, m)
	default:
		return nil, &InvalidSplitError{Reason: fmt.Sprintf("unsupported split method %T", method)}
	}
}

func checkPeople(ids []string) error {
	if len(ids) == 0 {
		return &InvalidSplitError{Reason: "at least one participant is required"}
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" {
			return &InvalidSplitError{Reason: "participant id is required"}
		}
		if seen[id] {
			return &InvalidSplitError{Reason: fmt.Sprintf("duplicate participant %s", id)}
		}
		seen[id] = true
	}
	return nil
}

func evaluateEqually(total decimal.Decimal, m models.Equally) ([]Allocation, error) {
	cents := allocateEqually(toCents(total), len(m.People))
	return buildAllocations(m.People, cents), nil
}

func evaluateExact(total decimal.Decimal, m models.ExactAmounts) ([]Allocation, error) {
	out := make([]Allocation, len(m.Entries))
	sum := decimal.Zero
	for i, e := range m.Entries {
		if e.Amount.IsNegative() {
			return nil, &InvalidSplitError{Reason: fmt.Sprintf("amount for %s cannot be negative", e.PersonID)}
		}
		amount := e.Amount.Round(2)
		sum = sum.Add(amount)
		out[i] = Allocation{PersonID: e.PersonID, Amount: amount}
	}

	delta := total.Sub(sum)
	if delta.Abs().GreaterThan(amountTolerance) {
		return nil, &AmountMismatchError{Delta: delta}
	}
	return out, nil
}

func evaluatePercentages(total decimal.Decimal, m models.Percentages) ([]Allocation, error) {
	weights := make([]decimal.Decimal, len(m.Entries))
	ids := make([]string, len(m.Entries))
	sum := decimal.Zero
	for i, e := range m.Entries {
		if e.Percentage.IsNegative() {
			return nil, &InvalidSplitError{Reason: fmt.Sprintf("percentage for %s cannot be negative", e.PersonID)}
		}
		weights[i] = e.Percentage
		ids[i] = e.PersonID
		sum = sum.Add(e.Percentage)
	}

	delta := hundred.Sub(sum)
	if delta.Abs().GreaterThan(percentageTolerance) {
		return nil, &PercentageMismatchError{Delta: delta}
	}
	return buildAllocations(ids, allocateWeighted(toCents(total), weights)), nil
}

func evaluateShares(total decimal.Decimal, m models.Shares) ([]Allocation, error) {
	weights := make([]decimal.Decimal, len(m.Entries))
	ids := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		if e.Shares <= 0 {
			return nil, &InvalidSharesError{PersonID: e.PersonID, Shares: e.Shares}
		}
		weights[i] = decimal.NewFromInt(e.Shares)
		ids[i] = e.PersonID
	}
	return buildAllocations(ids, allocateWeighted(toCents(total), weights)), nil
}

func evaluateAdjustments(total decimal.Decimal, m models.Adjustments) ([]Allocation, error) {
	net := decimal.Zero
	for _, e := range m.Entries {
		net = net.Add(e.Adjustment)
	}
	if net.Abs().GreaterThan(amountTolerance) {
		return nil, &AdjustmentMismatchError{Delta: net}
	}

	baseline := allocateEqually(toCents(total), len(m.Entries))
	ids := make([]string, len(m.Entries))
	cents := make([]int64, len(m.Entries))
	var netCents int64
	for i, e := range m.Entries {
		adj := toCents(e.Adjustment)
		netCents += adj
		ids[i] = e.PersonID
		cents[i] = baseline[i] + adj
		if cents[i] < 0 {
			return nil, &InvalidSplitError{Reason: fmt.Sprintf("adjustment for %s exceeds their equal share", e.PersonID)}
		}
	}
	// Sub-cent adjustments round one by one and can drift apart.
	if netCents > 1 || netCents < -1 {
		return nil, &AdjustmentMismatchError{Delta: fromCents(netCents)}
	}
	return buildAllocations(ids, cents), nil
}

// ValidateBill checks a stored bill against the SplitBill invariants:
// participants present and amounts summing to the total within one cent.
// Both failures are InvalidSplitError whatever the bill's split type.
func ValidateBill(bill *models.SplitBill) error {
	if len(bill.Participants) == 0 {
		return &InvalidSplitError{Reason: fmt.Sprintf("bill %s has no participants", bill.ID)}
	}
	sum := decimal.Zero
	for _, p := range bill.Participants {
		sum = sum.Add(p.Amount)
	}
	if bill.TotalAmount.Sub(sum).Abs().GreaterThan(amountTolerance) {
		return &InvalidSplitError{Reason: fmt.Sprintf("bill %s participant amounts sum to %s, total is %s",
			bill.ID, sum.StringFixed(2), bill.TotalAmount.StringFixed(2))}
	}
	return nil
}

// SumAllocations adds up the allocated amounts.
func SumAllocations(allocs []Allocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocs {
		sum = sum.Add(a.Amount)
	}
	return sum
}

// allocateEqually divides cents into n parts; the first cents%n parts get one
// extra cent.
func allocateEqually(cents int64, n int) []int64 {
	out := make([]int64, n)
	base, rem := cents/int64(n), cents%int64(n)
	for i := range out {
		out[i] = base
		if int64(i) < rem {
			out[i]++
		}
	}
	return out
}

// allocateWeighted divides cents proportionally to weights. Each part is
// floored and the leftover cents go one at a time to positive-weight parts in
// list order. The sum of weights must be positive.
func allocateWeighted(cents int64, weights []decimal.Decimal) []int64 {
	sum := decimal.Zero
	for _, w := range weights {
		sum = sum.Add(w)
	}

	total := decimal.NewFromInt(cents)
	out := make([]int64, len(weights))
	var allocated int64
	for i, w := range weights {
		if !w.IsPositive() {
			continue
		}
		out[i] = total.Mul(w).Div(sum).Floor().IntPart()
		allocated += out[i]
	}

	rem := cents - allocated
	for i := 0; rem > 0; i = (i + 1) % len(weights) {
		if weights[i].IsPositive() {
			out[i]++
			rem--
		}
	}
	// Division rounding can overshoot by a cent; take it back from the end.
	for i := len(weights) - 1; rem < 0; i = (i - 1 + len(weights)) % len(weights) {
		if out[i] > 0 {
			out[i]--
			rem++
		}
	}
	return out
}

func buildAllocations(ids []string, cents []int64) []Allocation {
	out := make([]Allocation, len(ids))
	for i, id := range ids {
		out[i] = Allocation{PersonID: id, Amount: fromCents(cents[i])}
	}
	return out
}

func toCents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}

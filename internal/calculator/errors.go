package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidSplitError reports split inputs that cannot be evaluated at all,
// such as an empty participant list or a non-positive total.
type InvalidSplitError struct {
	Reason string
}

func (e *InvalidSplitError) Error() string {
	return "invalid split: " + e.Reason
}

// AmountMismatchError reports exact amounts that do not add up to the total.
// Delta is total minus the supplied sum.
type AmountMismatchError struct {
	Delta decimal.Decimal
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("exact amounts must sum to the total (off by %s)", e.Delta.StringFixed(2))
}

// PercentageMismatchError reports percentages that do not add up to 100.
// Delta is 100 minus the supplied sum.
type PercentageMismatchError struct {
	Delta decimal.Decimal
}

func (e *PercentageMismatchError) Error() string {
	return fmt.Sprintf("percentages must sum to 100 (off by %s)", e.Delta.String())
}

// InvalidSharesError reports a participant with a share count below one.
type InvalidSharesError struct {
	PersonID string
	Shares   int64
}

func (e *InvalidSharesError) Error() string {
	return fmt.Sprintf("shares must be at least 1, got %d for %s", e.Shares, e.PersonID)
}

// AdjustmentMismatchError reports adjustments that do not net to zero.
// Delta is the sum of all adjustments, or of their cent-rounded values when
// only rounding makes them drift.
type AdjustmentMismatchError struct {
	Delta decimal.Decimal
}

func (e *AdjustmentMismatchError) Error() string {
	return fmt.Sprintf("adjustments must net to zero (off by %s)", e.Delta.StringFixed(2))
}

// ParticipantNotFoundError reports a settlement on a participant that is not
// part of the bill.
type ParticipantNotFoundError struct {
	ParticipantID string
}

func (e *ParticipantNotFoundError) Error() string {
	return fmt.Sprintf("participant not found: %s", e.ParticipantID)
}

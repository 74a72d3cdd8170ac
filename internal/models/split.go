package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitType names the algorithm used to divide a bill.
type SplitType string

const (
	SplitEqually      SplitType = "equally"
	SplitExactAmounts SplitType = "exactAmounts"
	SplitPercentages  SplitType = "percentages"
	SplitShares       SplitType = "shares"
	SplitAdjustments  SplitType = "adjustments"
)

// ParseSplitType converts a wire string into a SplitType.
func ParseSplitType(s string) (SplitType, error) {
	switch t := SplitType(s); t {
	case SplitEqually, SplitExactAmounts, SplitPercentages, SplitShares, SplitAdjustments:
		return t, nil
	}
	return "", fmt.Errorf("unknown split type: %q", s)
}

// SplitMethod is the tagged union of split inputs. Exactly one variant type
// implements it per SplitType and each variant only carries its own fields.
type SplitMethod interface {
	Type() SplitType
	// PersonIDs returns the participants in input order.
	PersonIDs() []string
	isSplitMethod()
}

// Equally divides the total evenly.
type Equally struct {
	People []string
}

// ExactAmounts assigns each person a caller-supplied amount.
type ExactAmounts struct {
	Entries []ExactAmount
}

type ExactAmount struct {
	PersonID string
	Amount   decimal.Decimal
}

// Percentages assigns each person a percentage of the total.
type Percentages struct {
	Entries []PercentageEntry
}

type PercentageEntry struct {
	PersonID   string
	Percentage decimal.Decimal
}

// Shares assigns each person a whole number of shares.
type Shares struct {
	Entries []ShareEntry
}

type ShareEntry struct {
	PersonID string
	Shares   int64
}

// Adjustments starts from an equal split and applies a signed adjustment per
// person. Adjustments must net to zero.
type Adjustments struct {
	Entries []AdjustmentEntry
}

type AdjustmentEntry struct {
	PersonID   string
	Adjustment decimal.Decimal
}

func (Equally) Type() SplitType { return SplitEqually }
func (ExactAmounts) Type() SplitType { return SplitExactAmounts }
func (Percentages) Type() SplitType { return SplitPercentages }
func (Shares) Type() SplitType { return SplitShares }
func (Adjustments) Type() SplitType { return SplitAdjustments }

func (Equally) isSplitMethod() {}
func (ExactAmounts) isSplitMethod() {}
func (Percentages) isSplitMethod() {}
func (Shares) isSplitMethod() {}
func (Adjustments) isSplitMethod() {}

func (m Equally) PersonIDs() []string {
	ids := make([]string, len(m.People))
	copy(ids, m.People)
	return ids
}

func (m ExactAmounts) PersonIDs() []string {
	ids := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		ids[i] = e.PersonID
	}
	return ids
}

func (m Percentages) PersonIDs() []string {
	ids := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		ids[i] = e.PersonID
	}
	return ids
}

func (m Shares) PersonIDs() []string {
	ids := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		ids[i] = e.PersonID
	}
	return ids
}

func (m Adjustments) PersonIDs() []string {
	ids := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		ids[i] = e.PersonID
	}
	return ids
}

// SplitBill represents one bill shared among people.
// Participants are derived from Method when the bill is created; afterwards
// only settlement state and DeletedAt change.
type SplitBill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Title is the human-readable name. Generated from participant names when
	// left empty.
	Title string

	// TotalAmount is the positive amount being split.
	TotalAmount decimal.Decimal

	// PayerID is the person who paid the bill. The payer does not have to be a
	// participant.
	PayerID string

	// Method holds the split algorithm and its per-person inputs.
	Method SplitMethod

	// Participants are the computed shares, in Method input order.
	Participants []SplitParticipant

	Category string
	Notes    string

	// Date is the Unix timestamp of the bill itself.
	Date int64

	// CreatedByID is the user who created the bill and owns it.
	CreatedByID string

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64

	// DeletedAt is the Unix timestamp of the soft delete, zero when live.
	DeletedAt int64
}

// SplitType returns the type of the bill's method.
func (b *SplitBill) SplitType() SplitType {
	if b.Method == nil {
		return ""
	}
	return b.Method.Type()
}

// IsDeleted reports whether the bill has been soft deleted.
func (b *SplitBill) IsDeleted() bool {
	return b.DeletedAt != 0
}

// PercentageFor returns the percentage input for personID on a
// percentage-based bill.
func (b *SplitBill) PercentageFor(personID string) (decimal.Decimal, bool) {
	m, ok := b.Method.(Percentages)
	if !ok {
		return decimal.Zero, false
	}
	for _, e := range m.Entries {
		if e.PersonID == personID {
			return e.Percentage, true
		}
	}
	return decimal.Zero, false
}

// SharesFor returns the share count for personID on a share-based bill.
func (b *SplitBill) SharesFor(personID string) (int64, bool) {
	m, ok := b.Method.(Shares)
	if !ok {
		return 0, false
	}
	for _, e := range m.Entries {
		if e.PersonID == personID {
			return e.Shares, true
		}
	}
	return 0, false
}

// SplitParticipant is one person's share of a SplitBill.
type SplitParticipant struct {
	// ID is the unique identifier for the participant record (UUID format).
	ID string

	PersonID string

	// Amount is authoritative for all money calculations.
	Amount decimal.Decimal

	HasPaid bool

	// PaymentDate is set when HasPaid flips to true.
	PaymentDate *int64
}

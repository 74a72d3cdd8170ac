package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Tracker records who has paid their share of a SplitBill.
// It mutates the bill in place; persisting it is the caller's job.
type Tracker struct {
	now func() time.Time
}

// NewTracker creates a Tracker. A nil clock means time.Now.
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{now: now}
}

// MarkParticipantPaid flags one participant as paid and stamps the payment
// date. Marking an already paid participant is a no-op and keeps the
// original payment date.
func (t *Tracker) MarkParticipantPaid(bill *models.SplitBill, participantID string) error {
	p, err := findParticipant(bill, participantID)
	if err != nil {
		return err
	}
	if p.HasPaid {
		return nil
	}
	paidAt := t.now().Unix()
	p.HasPaid = true
	p.PaymentDate = &paidAt
	return nil
}

// MarkParticipantUnpaid reverts a payment. Unpaid participants are left as is.
func (t *Tracker) MarkParticipantUnpaid(bill *models.SplitBill, participantID string) error {
	p, err := findParticipant(bill, participantID)
	if err != nil {
		return err
	}
	p.HasPaid = false
	p.PaymentDate = nil
	return nil
}

func findParticipant(bill *models.SplitBill, participantID string) (*models.SplitParticipant, error) {
	for i := range bill.Participants {
		if bill.Participants[i].ID == participantID {
			return &bill.Participants[i], nil
		}
	}
	return nil, &ParticipantNotFoundError{ParticipantID: participantID}
}

// SettlementProgress returns the fraction of participants that have paid, in
// [0, 1]. A bill without participants has made no progress.
func SettlementProgress(bill *models.SplitBill) float64 {
	if len(bill.Participants) == 0 {
		return 0
	}
	paid := 0
	for _, p := range bill.Participants {
		if p.HasPaid {
			paid++
		}
	}
	return float64(paid) / float64(len(bill.Participants))
}

// IsFullySettled reports whether every participant has paid.
func IsFullySettled(bill *models.SplitBill) bool {
	return SettlementProgress(bill) == 1
}

// TotalPending sums the amounts of participants that have not paid yet.
func TotalPending(bill *models.SplitBill) decimal.Decimal {
	pending := decimal.Zero
	for _, p := range bill.Participants {
		if !p.HasPaid {
			pending = pending.Add(p.Amount)
		}
	}
	return pending
}

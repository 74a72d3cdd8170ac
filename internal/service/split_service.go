package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// SplitService implements api.SplitServiceHandler.
type SplitService struct {
	store   storage.Store
	bus     *events.Bus
	tracker *calculator.Tracker
}

var _ api.SplitServiceHandler = (*SplitService)(nil)

// NewSplitService creates a SplitService. bus may be nil.
func NewSplitService(store storage.Store, bus *events.Bus) *SplitService {
	return &SplitService{
		store:   store,
		bus:     bus,
		tracker: calculator.NewTracker(nil),
	}
}

// CalculateSplit evaluates a split without saving it.
func (s *SplitService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	method, err := splitMethodFromAPI(req.Msg.Split)
	if err != nil {
		return nil, toConnectError("CalculateSplit", err)
	}

	allocs, err := calculator.Evaluate(req.Msg.TotalAmount, method)
	if err != nil {
		return nil, toConnectError("CalculateSplit", err, "split_type", method.Type())
	}

	slog.Debug("Split calculated",
		"split_type", method.Type(),
		"total", req.Msg.TotalAmount,
		"participants", len(allocs),
	)

	return connect.NewResponse(&api.CalculateSplitResponse{
		Allocations: allocationsToAPI(allocs),
		Sum:         calculator.SumAllocations(allocs),
	}), nil
}

// CreateSplitBill evaluates the split and saves the bill with one participant
// per person.
func (s *SplitService) CreateSplitBill(ctx context.Context, req *connect.Request[api.CreateSplitBillRequest]) (*connect.Response[api.CreateSplitBillResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	method, err := splitMethodFromAPI(req.Msg.Split)
	if err != nil {
		return nil, toConnectError("CreateSplitBill", err)
	}

	allocs, err := calculator.Evaluate(req.Msg.TotalAmount, method)
	if err != nil {
		return nil, toConnectError("CreateSplitBill", err, "split_type", method.Type())
	}

	// The caller paid unless told otherwise
	payerID := req.Msg.PayerID
	if payerID == "" {
		payerID = userID
	}

	people, err := resolvePeople(ctx, s.store, userID, append([]string{payerID}, method.PersonIDs()...)...)
	if err != nil {
		return nil, toConnectError("CreateSplitBill", err)
	}

	bill := &models.SplitBill{
		Title:       req.Msg.Title,
		TotalAmount: req.Msg.TotalAmount.Round(2),
		PayerID:     payerID,
		Method:      method,
		Category:    req.Msg.Category,
		Notes:       req.Msg.Notes,
		Date:        req.Msg.Date,
		CreatedByID: userID,
	}
	names := make([]string, len(allocs))
	for i, a := range allocs {
		bill.Participants = append(bill.Participants, models.SplitParticipant{PersonID: a.PersonID, Amount: a.Amount})
		names[i] = people[a.PersonID].Name
	}
	if bill.Title == "" {
		bill.Title = generateTitle(names)
	}

	// Save to storage (generates IDs and CreatedAt)
	if err := s.store.CreateSplitBill(ctx, bill); err != nil {
		return nil, toConnectError("CreateSplitBill", err)
	}
	s.bus.Publish(events.Event{Kind: events.SplitBillCreated, EntityID: bill.ID, OwnerID: userID})

	slog.Info("Split bill created",
		"bill_id", bill.ID,
		"split_type", method.Type(),
		"total", bill.TotalAmount,
		"participants", len(bill.Participants),
	)

	return connect.NewResponse(&api.CreateSplitBillResponse{Bill: billToAPI(bill)}), nil
}

// GetSplitBill returns one live bill of the caller.
func (s *SplitService) GetSplitBill(ctx context.Context, req *connect.Request[api.GetSplitBillRequest]) (*connect.Response[api.GetSplitBillResponse], error) {
	bill, _, err := s.ownedBill(ctx, req.Msg.BillID)
	if err != nil {
		return nil, toConnectError("GetSplitBill", err, "bill_id", req.Msg.BillID)
	}
	return connect.NewResponse(&api.GetSplitBillResponse{Bill: billToAPI(bill)}), nil
}

// ListSplitBills returns the caller's live bills, newest first.
func (s *SplitService) ListSplitBills(ctx context.Context, req *connect.Request[api.ListSplitBillsRequest]) (*connect.Response[api.ListSplitBillsResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	bills, err := s.store.ListSplitBills(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListSplitBills", err)
	}

	out := make([]api.SplitBill, len(bills))
	for i, bill := range bills {
		out[i] = billToAPI(bill)
	}
	return connect.NewResponse(&api.ListSplitBillsResponse{Bills: out}), nil
}

// MarkParticipantPaid records that a participant paid their share. Marking a
// paid participant again changes nothing.
func (s *SplitService) MarkParticipantPaid(ctx context.Context, req *connect.Request[api.MarkParticipantPaidRequest]) (*connect.Response[api.MarkParticipantPaidResponse], error) {
	bill, err := s.updateSettlement(ctx, req.Msg.BillID, req.Msg.ParticipantID, s.tracker.MarkParticipantPaid)
	if err != nil {
		return nil, toConnectError("MarkParticipantPaid", err, "bill_id", req.Msg.BillID, "participant_id", req.Msg.ParticipantID)
	}
	return connect.NewResponse(&api.MarkParticipantPaidResponse{Bill: billToAPI(bill)}), nil
}

// MarkParticipantUnpaid reverts a recorded payment.
func (s *SplitService) MarkParticipantUnpaid(ctx context.Context, req *connect.Request[api.MarkParticipantUnpaidRequest]) (*connect.Response[api.MarkParticipantUnpaidResponse], error) {
	bill, err := s.updateSettlement(ctx, req.Msg.BillID, req.Msg.ParticipantID, s.tracker.MarkParticipantUnpaid)
	if err != nil {
		return nil, toConnectError("MarkParticipantUnpaid", err, "bill_id", req.Msg.BillID, "participant_id", req.Msg.ParticipantID)
	}
	return connect.NewResponse(&api.MarkParticipantUnpaidResponse{Bill: billToAPI(bill)}), nil
}

// DeleteSplitBill soft deletes a bill of the caller.
func (s *SplitService) DeleteSplitBill(ctx context.Context, req *connect.Request[api.DeleteSplitBillRequest]) (*connect.Response[api.DeleteSplitBillResponse], error) {
	bill, userID, err := s.ownedBill(ctx, req.Msg.BillID)
	if err != nil {
		return nil, toConnectError("DeleteSplitBill", err, "bill_id", req.Msg.BillID)
	}

	if err := s.store.DeleteSplitBill(ctx, bill.ID); err != nil {
		return nil, toConnectError("DeleteSplitBill", err, "bill_id", bill.ID)
	}
	s.bus.Publish(events.Event{Kind: events.SplitBillDeleted, EntityID: bill.ID, OwnerID: userID})

	slog.Info("Split bill deleted", "bill_id", bill.ID)
	return connect.NewResponse(&api.DeleteSplitBillResponse{}), nil
}

func (s *SplitService) updateSettlement(ctx context.Context, billID, participantID string, mark func(*models.SplitBill, string) error) (*models.SplitBill, error) {
	bill, userID, err := s.ownedBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	before := calculator.TotalPending(bill)
	if err := mark(bill, participantID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateSplitBillSettlement(ctx, bill); err != nil {
		return nil, err
	}
	s.bus.Publish(events.Event{Kind: events.SplitBillUpdated, EntityID: bill.ID, OwnerID: userID})

	slog.Info("Split bill settlement updated",
		"bill_id", bill.ID,
		"participant_id", participantID,
		"pending_before", before,
		"pending_after", calculator.TotalPending(bill),
		"progress", calculator.SettlementProgress(bill),
	)
	return bill, nil
}

// ownedBill loads a live bill and checks it belongs to the caller.
func (s *SplitService) ownedBill(ctx context.Context, billID string) (*models.SplitBill, string, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, "", err
	}
	if billID == "" {
		return nil, "", invalidArgument("bill_id is required")
	}

	bill, err := s.store.GetSplitBill(ctx, billID)
	if err != nil {
		return nil, "", err
	}
	if bill.IsDeleted() {
		return nil, "", connect.NewError(connect.CodeNotFound, storage.ErrNotFound)
	}
	if bill.CreatedByID != userID {
		return nil, "", errNotOwner
	}
	return bill, userID, nil
}

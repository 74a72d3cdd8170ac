package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// LedgerService implements api.LedgerServiceHandler: the people a user
// shares money with, direct transactions and the balances over everything.
type LedgerService struct {
	store storage.Store
	bus   *events.Bus
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService. bus may be nil.
func NewLedgerService(store storage.Store, bus *events.Bus) *LedgerService {
	return &LedgerService{store: store, bus: bus}
}

func (s *LedgerService) CreatePerson(ctx context.Context, req *connect.Request[api.CreatePersonRequest]) (*connect.Response[api.CreatePersonResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError("CreatePerson", invalidArgument("name is required"))
	}

	person := &models.Person{
		OwnerID: userID,
		Name:    name,
		Email:   strings.ToLower(strings.TrimSpace(req.Msg.Email)),
	}
	if err := s.store.SavePerson(ctx, person); err != nil {
		return nil, toConnectError("CreatePerson", err)
	}

	slog.Info("Person created", "person_id", person.ID)
	return connect.NewResponse(&api.CreatePersonResponse{Person: personToAPI(person)}), nil
}

func (s *LedgerService) ListPeople(ctx context.Context, req *connect.Request[api.ListPeopleRequest]) (*connect.Response[api.ListPeopleResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	people, err := s.store.ListPeople(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListPeople", err)
	}

	out := make([]api.Person, len(people))
	for i, p := range people {
		out[i] = personToAPI(p)
	}
	return connect.NewResponse(&api.ListPeopleResponse{People: out}), nil
}

// RecordTransaction saves a direct money movement. Only transactions with a
// counterparty affect balances.
func (s *LedgerService) RecordTransaction(ctx context.Context, req *connect.Request[api.RecordTransactionRequest]) (*connect.Response[api.RecordTransactionResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		OwnerID:        userID,
		Title:          strings.TrimSpace(req.Msg.Title),
		Amount:         req.Msg.Amount.Round(2),
		CounterpartyID: req.Msg.CounterpartyID,
		Category:       req.Msg.Category,
		Notes:          req.Msg.Notes,
		Date:           req.Msg.Date,
	}
	switch {
	case tx.Title == "":
		return nil, toConnectError("RecordTransaction", invalidArgument("title is required"))
	case tx.Amount.IsZero():
		return nil, toConnectError("RecordTransaction", invalidArgument("amount must not be zero"))
	case tx.CounterpartyID == userID:
		return nil, toConnectError("RecordTransaction", invalidArgument("counterparty cannot be yourself"))
	}
	if tx.CounterpartyID != "" {
		if _, err := resolvePeople(ctx, s.store, userID, tx.CounterpartyID); err != nil {
			return nil, toConnectError("RecordTransaction", err)
		}
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, toConnectError("RecordTransaction", err)
	}
	s.bus.Publish(events.Event{Kind: events.TransactionCreated, EntityID: tx.ID, OwnerID: userID})

	slog.Info("Transaction recorded", "transaction_id", tx.ID, "counterparty_id", tx.CounterpartyID)
	return connect.NewResponse(&api.RecordTransactionResponse{Transaction: transactionToAPI(tx)}), nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, req *connect.Request[api.ListTransactionsRequest]) (*connect.Response[api.ListTransactionsResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListTransactions", err)
	}

	out := make([]api.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = transactionToAPI(tx)
	}
	return connect.NewResponse(&api.ListTransactionsResponse{Transactions: out}), nil
}

// GetBalances folds the caller's transactions, split bills and group
// expenses into one net balance per person.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, toConnectError("GetBalances", err)
	}
	bills, err := s.store.ListSplitBills(ctx, userID)
	if err != nil {
		return nil, toConnectError("GetBalances", err)
	}
	expenses, err := s.store.ListGroupExpensesByOwner(ctx, userID)
	if err != nil {
		return nil, toConnectError("GetBalances", err)
	}
	people, err := s.store.ListPeople(ctx, userID)
	if err != nil {
		return nil, toConnectError("GetBalances", err)
	}

	sheet, err := calculator.AggregateBalances(userID, derefAll(txs), derefAll(bills), derefAll(expenses))
	if err != nil {
		return nil, toConnectError("GetBalances", err)
	}

	names := make(map[string]string, len(people))
	for _, p := range people {
		names[p.ID] = p.Name
	}
	resp := &api.GetBalancesResponse{
		Balances:       make([]api.Balance, len(sheet.Balances)),
		TotalOwedToYou: sheet.TotalOwedToYou,
		TotalYouOwe:    sheet.TotalYouOwe,
	}
	for i, b := range sheet.Balances {
		resp.Balances[i] = api.Balance{PersonID: b.PersonID, PersonName: names[b.PersonID], Amount: b.Amount}
	}

	slog.Debug("Balances computed",
		"user_id", userID,
		"people", len(sheet.Balances),
		"owed_to_you", sheet.TotalOwedToYou,
		"you_owe", sheet.TotalYouOwe,
	)
	return connect.NewResponse(resp), nil
}

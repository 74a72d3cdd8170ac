package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
)

const LedgerServiceName = "splitledger.v1.LedgerService"

const (
	LedgerServiceCreatePersonProcedure      = "/splitledger.v1.LedgerService/CreatePerson"
	LedgerServiceListPeopleProcedure        = "/splitledger.v1.LedgerService/ListPeople"
	LedgerServiceRecordTransactionProcedure = "/splitledger.v1.LedgerService/RecordTransaction"
	LedgerServiceListTransactionsProcedure  = "/splitledger.v1.LedgerService/ListTransactions"
	LedgerServiceGetBalancesProcedure       = "/splitledger.v1.LedgerService/GetBalances"
)

type CreatePersonRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type CreatePersonResponse struct {
	Person Person `json:"person"`
}

type ListPeopleRequest struct{}

type ListPeopleResponse struct {
	People []Person `json:"people"`
}

// RecordTransactionRequest records a money movement. With a counterparty, a
// positive Amount means they owe the caller.
type RecordTransactionRequest struct {
	Title          string          `json:"title"`
	Amount         decimal.Decimal `json:"amount"`
	CounterpartyID string          `json:"counterparty_id,omitempty"`
	Category       string          `json:"category,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Date           int64           `json:"date,omitempty"`
}

type RecordTransactionResponse struct {
	Transaction Transaction `json:"transaction"`
}

type ListTransactionsRequest struct{}

type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Balances       []Balance       `json:"balances"`
	TotalOwedToYou decimal.Decimal `json:"total_owed_to_you"`
	TotalYouOwe    decimal.Decimal `json:"total_you_owe"`
}

// LedgerServiceHandler is implemented by the server side of LedgerService.
type LedgerServiceHandler interface {
	CreatePerson(context.Context, *connect.Request[CreatePersonRequest]) (*connect.Response[CreatePersonResponse], error)
	ListPeople(context.Context, *connect.Request[ListPeopleRequest]) (*connect.Response[ListPeopleResponse], error)
	RecordTransaction(context.Context, *connect.Request[RecordTransactionRequest]) (*connect.Response[RecordTransactionResponse], error)
	ListTransactions(context.Context, *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
}

// NewLedgerServiceHandler returns the path to mount svc on and its handler.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + LedgerServiceName + "/", serviceHandler(map[string]*connect.Handler{
		LedgerServiceCreatePersonProcedure:      unaryHandler(LedgerServiceCreatePersonProcedure, svc.CreatePerson, opts),
		LedgerServiceListPeopleProcedure:        unaryHandler(LedgerServiceListPeopleProcedure, svc.ListPeople, opts),
		LedgerServiceRecordTransactionProcedure: unaryHandler(LedgerServiceRecordTransactionProcedure, svc.RecordTransaction, opts),
		LedgerServiceListTransactionsProcedure:  unaryHandler(LedgerServiceListTransactionsProcedure, svc.ListTransactions, opts),
		LedgerServiceGetBalancesProcedure:       unaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts),
	})
}

// LedgerServiceClient calls LedgerService over HTTP.
type LedgerServiceClient struct {
	createPerson      *connect.Client[CreatePersonRequest, CreatePersonResponse]
	listPeople        *connect.Client[ListPeopleRequest, ListPeopleResponse]
	recordTransaction *connect.Client[RecordTransactionRequest, RecordTransactionResponse]
	listTransactions  *connect.Client[ListTransactionsRequest, ListTransactionsResponse]
	getBalances       *connect.Client[GetBalancesRequest, GetBalancesResponse]
}

// NewLedgerServiceClient creates a client for the service at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	return &LedgerServiceClient{
		createPerson:      unaryClient[CreatePersonRequest, CreatePersonResponse](httpClient, baseURL, LedgerServiceCreatePersonProcedure, opts),
		listPeople:        unaryClient[ListPeopleRequest, ListPeopleResponse](httpClient, baseURL, LedgerServiceListPeopleProcedure, opts),
		recordTransaction: unaryClient[RecordTransactionRequest, RecordTransactionResponse](httpClient, baseURL, LedgerServiceRecordTransactionProcedure, opts),
		listTransactions:  unaryClient[ListTransactionsRequest, ListTransactionsResponse](httpClient, baseURL, LedgerServiceListTransactionsProcedure, opts),
		getBalances:       unaryClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL, LedgerServiceGetBalancesProcedure, opts),
	}
}

func (c *LedgerServiceClient) CreatePerson(ctx context.Context, req *connect.Request[CreatePersonRequest]) (*connect.Response[CreatePersonResponse], error) {
	return c.createPerson.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListPeople(ctx context.Context, req *connect.Request[ListPeopleRequest]) (*connect.Response[ListPeopleResponse], error) {
	return c.listPeople.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) RecordTransaction(ctx context.Context, req *connect.Request[RecordTransactionRequest]) (*connect.Response[RecordTransactionResponse], error) {
	return c.recordTransaction.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) ListTransactions(ctx context.Context, req *connect.Request[ListTransactionsRequest]) (*connect.Response[ListTransactionsResponse], error) {
	return c.listTransactions.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

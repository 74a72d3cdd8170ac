package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
)

const SplitServiceName = "splitledger.v1.SplitService"

const (
	SplitServiceCalculateSplitProcedure        = "/splitledger.v1.SplitService/CalculateSplit"
	SplitServiceCreateSplitBillProcedure       = "/splitledger.v1.SplitService/CreateSplitBill"
	SplitServiceGetSplitBillProcedure          = "/splitledger.v1.SplitService/GetSplitBill"
	SplitServiceListSplitBillsProcedure        = "/splitledger.v1.SplitService/ListSplitBills"
	SplitServiceMarkParticipantPaidProcedure   = "/splitledger.v1.SplitService/MarkParticipantPaid"
	SplitServiceMarkParticipantUnpaidProcedure = "/splitledger.v1.SplitService/MarkParticipantUnpaid"
	SplitServiceDeleteSplitBillProcedure       = "/splitledger.v1.SplitService/DeleteSplitBill"
)

// CalculateSplitRequest previews a split without saving anything.
type CalculateSplitRequest struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	Split       Split           `json:"split"`
}

type CalculateSplitResponse struct {
	Allocations []Allocation    `json:"allocations"`
	Sum         decimal.Decimal `json:"sum"`
}

// CreateSplitBillRequest creates a bill owned by the caller. An empty PayerID
// means the caller paid; an empty Title is generated from participant names.
type CreateSplitBillRequest struct {
	Title       string          `json:"title,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PayerID     string          `json:"payer_id,omitempty"`
	Split       Split           `json:"split"`
	Category    string          `json:"category,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Date        int64           `json:"date,omitempty"`
}

type CreateSplitBillResponse struct {
	Bill SplitBill `json:"bill"`
}

type GetSplitBillRequest struct {
	BillID string `json:"bill_id"`
}

type GetSplitBillResponse struct {
	Bill SplitBill `json:"bill"`
}

type ListSplitBillsRequest struct{}

type ListSplitBillsResponse struct {
	Bills []SplitBill `json:"bills"`
}

type MarkParticipantPaidRequest struct {
	BillID        string `json:"bill_id"`
	ParticipantID string `json:"participant_id"`
}

type MarkParticipantPaidResponse struct {
	Bill SplitBill `json:"bill"`
}

type MarkParticipantUnpaidRequest struct {
	BillID        string `json:"bill_id"`
	ParticipantID string `json:"participant_id"`
}

type MarkParticipantUnpaidResponse struct {
	Bill SplitBill `json:"bill"`
}

type DeleteSplitBillRequest struct {
	BillID string `json:"bill_id"`
}

type DeleteSplitBillResponse struct{}

// SplitServiceHandler is implemented by the server side of SplitService.
type SplitServiceHandler interface {
	CalculateSplit(context.Context, *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error)
	CreateSplitBill(context.Context, *connect.Request[CreateSplitBillRequest]) (*connect.Response[CreateSplitBillResponse], error)
	GetSplitBill(context.Context, *connect.Request[GetSplitBillRequest]) (*connect.Response[GetSplitBillResponse], error)
	ListSplitBills(context.Context, *connect.Request[ListSplitBillsRequest]) (*connect.Response[ListSplitBillsResponse], error)
	MarkParticipantPaid(context.Context, *connect.Request[MarkParticipantPaidRequest]) (*connect.Response[MarkParticipantPaidResponse], error)
	MarkParticipantUnpaid(context.Context, *connect.Request[MarkParticipantUnpaidRequest]) (*connect.Response[MarkParticipantUnpaidResponse], error)
	DeleteSplitBill(context.Context, *connect.Request[DeleteSplitBillRequest]) (*connect.Response[DeleteSplitBillResponse], error)
}

// NewSplitServiceHandler returns the path to mount svc on and its handler.
func NewSplitServiceHandler(svc SplitServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + SplitServiceName + "/", serviceHandler(map[string]*connect.Handler{
		SplitServiceCalculateSplitProcedure:        unaryHandler(SplitServiceCalculateSplitProcedure, svc.CalculateSplit, opts),
		SplitServiceCreateSplitBillProcedure:       unaryHandler(SplitServiceCreateSplitBillProcedure, svc.CreateSplitBill, opts),
		SplitServiceGetSplitBillProcedure:          unaryHandler(SplitServiceGetSplitBillProcedure, svc.GetSplitBill, opts),
		SplitServiceListSplitBillsProcedure:        unaryHandler(SplitServiceListSplitBillsProcedure, svc.ListSplitBills, opts),
		SplitServiceMarkParticipantPaidProcedure:   unaryHandler(SplitServiceMarkParticipantPaidProcedure, svc.MarkParticipantPaid, opts),
		SplitServiceMarkParticipantUnpaidProcedure: unaryHandler(SplitServiceMarkParticipantUnpaidProcedure, svc.MarkParticipantUnpaid, opts),
		SplitServiceDeleteSplitBillProcedure:       unaryHandler(SplitServiceDeleteSplitBillProcedure, svc.DeleteSplitBill, opts),
	})
}

// SplitServiceClient calls SplitService over HTTP.
type SplitServiceClient struct {
	calculateSplit        *connect.Client[CalculateSplitRequest, CalculateSplitResponse]
	createSplitBill       *connect.Client[CreateSplitBillRequest, CreateSplitBillResponse]
	getSplitBill          *connect.Client[GetSplitBillRequest, GetSplitBillResponse]
	listSplitBills        *connect.Client[ListSplitBillsRequest, ListSplitBillsResponse]
	markParticipantPaid   *connect.Client[MarkParticipantPaidRequest, MarkParticipantPaidResponse]
	markParticipantUnpaid *connect.Client[MarkParticipantUnpaidRequest, MarkParticipantUnpaidResponse]
	deleteSplitBill       *connect.Client[DeleteSplitBillRequest, DeleteSplitBillResponse]
}

// NewSplitServiceClient creates a client for the service at baseURL.
func NewSplitServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SplitServiceClient {
	return &SplitServiceClient{
		calculateSplit:        unaryClient[CalculateSplitRequest, CalculateSplitResponse](httpClient, baseURL, SplitServiceCalculateSplitProcedure, opts),
		createSplitBill:       unaryClient[CreateSplitBillRequest, CreateSplitBillResponse](httpClient, baseURL, SplitServiceCreateSplitBillProcedure, opts),
		getSplitBill:          unaryClient[GetSplitBillRequest, GetSplitBillResponse](httpClient, baseURL, SplitServiceGetSplitBillProcedure, opts),
		listSplitBills:        unaryClient[ListSplitBillsRequest, ListSplitBillsResponse](httpClient, baseURL, SplitServiceListSplitBillsProcedure, opts),
		markParticipantPaid:   unaryClient[MarkParticipantPaidRequest, MarkParticipantPaidResponse](httpClient, baseURL, SplitServiceMarkParticipantPaidProcedure, opts),
		markParticipantUnpaid: unaryClient[MarkParticipantUnpaidRequest, MarkParticipantUnpaidResponse](httpClient, baseURL, SplitServiceMarkParticipantUnpaidProcedure, opts),
		deleteSplitBill:       unaryClient[DeleteSplitBillRequest, DeleteSplitBillResponse](httpClient, baseURL, SplitServiceDeleteSplitBillProcedure, opts),
	}
}

func (c *SplitServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

func (c *SplitServiceClient) CreateSplitBill(ctx context.Context, req *connect.Request[CreateSplitBillRequest]) (*connect.Response[CreateSplitBillResponse], error) {
	return c.createSplitBill.CallUnary(ctx, req)
}

func (c *SplitServiceClient) GetSplitBill(ctx context.Context, req *connect.Request[GetSplitBillRequest]) (*connect.Response[GetSplitBillResponse], error) {
	return c.getSplitBill.CallUnary(ctx, req)
}

func (c *SplitServiceClient) ListSplitBills(ctx context.Context, req *connect.Request[ListSplitBillsRequest]) (*connect.Response[ListSplitBillsResponse], error) {
	return c.listSplitBills.CallUnary(ctx, req)
}

func (c *SplitServiceClient) MarkParticipantPaid(ctx context.Context, req *connect.Request[MarkParticipantPaidRequest]) (*connect.Response[MarkParticipantPaidResponse], error) {
	return c.markParticipantPaid.CallUnary(ctx, req)
}

func (c *SplitServiceClient) MarkParticipantUnpaid(ctx context.Context, req *connect.Request[MarkParticipantUnpaidRequest]) (*connect.Response[MarkParticipantUnpaidResponse], error) {
	return c.markParticipantUnpaid.CallUnary(ctx, req)
}

func (c *SplitServiceClient) DeleteSplitBill(ctx context.Context, req *connect.Request[DeleteSplitBillRequest]) (*connect.Response[DeleteSplitBillResponse], error) {
	return c.deleteSplitBill.CallUnary(ctx, req)
}

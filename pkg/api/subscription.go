package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
)

const SubscriptionServiceName = "splitledger.v1.SubscriptionService"

const (
	SubscriptionServiceCreateSubscriptionProcedure = "/splitledger.v1.SubscriptionService/CreateSubscription"
	SubscriptionServiceListSubscriptionsProcedure  = "/splitledger.v1.SubscriptionService/ListSubscriptions"
	SubscriptionServiceDeleteSubscriptionProcedure = "/splitledger.v1.SubscriptionService/DeleteSubscription"
	SubscriptionServiceGetMonthlySummaryProcedure  = "/splitledger.v1.SubscriptionService/GetMonthlySummary"
)

type CreateSubscriptionRequest struct {
	Name            string          `json:"name"`
	Amount          decimal.Decimal `json:"amount"`
	Cycle           string          `json:"cycle"`
	Category        string          `json:"category,omitempty"`
	NextBillingDate int64           `json:"next_billing_date,omitempty"`
}

type CreateSubscriptionResponse struct {
	Subscription Subscription `json:"subscription"`
}

type ListSubscriptionsRequest struct{}

type ListSubscriptionsResponse struct {
	Subscriptions []Subscription `json:"subscriptions"`
}

type DeleteSubscriptionRequest struct {
	SubscriptionID string `json:"subscription_id"`
}

type DeleteSubscriptionResponse struct{}

type GetMonthlySummaryRequest struct{}

// GetMonthlySummaryResponse totals the active subscriptions. ByCategory maps
// each category to its monthly cost; uncategorized ones are under "".
type GetMonthlySummaryResponse struct {
	MonthlyTotal decimal.Decimal            `json:"monthly_total"`
	YearlyTotal  decimal.Decimal            `json:"yearly_total"`
	ByCategory   map[string]decimal.Decimal `json:"by_category"`
	ActiveCount  int                        `json:"active_count"`
}

// SubscriptionServiceHandler is implemented by the server side of
// SubscriptionService.
type SubscriptionServiceHandler interface {
	CreateSubscription(context.Context, *connect.Request[CreateSubscriptionRequest]) (*connect.Response[CreateSubscriptionResponse], error)
	ListSubscriptions(context.Context, *connect.Request[ListSubscriptionsRequest]) (*connect.Response[ListSubscriptionsResponse], error)
	DeleteSubscription(context.Context, *connect.Request[DeleteSubscriptionRequest]) (*connect.Response[DeleteSubscriptionResponse], error)
	GetMonthlySummary(context.Context, *connect.Request[GetMonthlySummaryRequest]) (*connect.Response[GetMonthlySummaryResponse], error)
}

// NewSubscriptionServiceHandler returns the path to mount svc on and its handler.
func NewSubscriptionServiceHandler(svc SubscriptionServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + SubscriptionServiceName + "/", serviceHandler(map[string]*connect.Handler{
		SubscriptionServiceCreateSubscriptionProcedure: unaryHandler(SubscriptionServiceCreateSubscriptionProcedure, svc.CreateSubscription, opts),
		SubscriptionServiceListSubscriptionsProcedure:  unaryHandler(SubscriptionServiceListSubscriptionsProcedure, svc.ListSubscriptions, opts),
		SubscriptionServiceDeleteSubscriptionProcedure: unaryHandler(SubscriptionServiceDeleteSubscriptionProcedure, svc.DeleteSubscription, opts),
		SubscriptionServiceGetMonthlySummaryProcedure:  unaryHandler(SubscriptionServiceGetMonthlySummaryProcedure, svc.GetMonthlySummary, opts),
	})
}

// SubscriptionServiceClient calls SubscriptionService over HTTP.
type SubscriptionServiceClient struct {
	createSubscription *connect.Client[CreateSubscriptionRequest, CreateSubscriptionResponse]
	listSubscriptions  *connect.Client[ListSubscriptionsRequest, ListSubscriptionsResponse]
	deleteSubscription *connect.Client[DeleteSubscriptionRequest, DeleteSubscriptionResponse]
	getMonthlySummary  *connect.Client[GetMonthlySummaryRequest, GetMonthlySummaryResponse]
}

// NewSubscriptionServiceClient creates a client for the service at baseURL.
func NewSubscriptionServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SubscriptionServiceClient {
	return &SubscriptionServiceClient{
		createSubscription: unaryClient[CreateSubscriptionRequest, CreateSubscriptionResponse](httpClient, baseURL, SubscriptionServiceCreateSubscriptionProcedure, opts),
		listSubscriptions:  unaryClient[ListSubscriptionsRequest, ListSubscriptionsResponse](httpClient, baseURL, SubscriptionServiceListSubscriptionsProcedure, opts),
		deleteSubscription: unaryClient[DeleteSubscriptionRequest, DeleteSubscriptionResponse](httpClient, baseURL, SubscriptionServiceDeleteSubscriptionProcedure, opts),
		getMonthlySummary:  unaryClient[GetMonthlySummaryRequest, GetMonthlySummaryResponse](httpClient, baseURL, SubscriptionServiceGetMonthlySummaryProcedure, opts),
	}
}

func (c *SubscriptionServiceClient) CreateSubscription(ctx context.Context, req *connect.Request[CreateSubscriptionRequest]) (*connect.Response[CreateSubscriptionResponse], error) {
	return c.createSubscription.CallUnary(ctx, req)
}

func (c *SubscriptionServiceClient) ListSubscriptions(ctx context.Context, req *connect.Request[ListSubscriptionsRequest]) (*connect.Response[ListSubscriptionsResponse], error) {
	return c.listSubscriptions.CallUnary(ctx, req)
}

func (c *SubscriptionServiceClient) DeleteSubscription(ctx context.Context, req *connect.Request[DeleteSubscriptionRequest]) (*connect.Response[DeleteSubscriptionResponse], error) {
	return c.deleteSubscription.CallUnary(ctx, req)
}

func (c *SubscriptionServiceClient) GetMonthlySummary(ctx context.Context, req *connect.Request[GetMonthlySummaryRequest]) (*connect.Response[GetMonthlySummaryResponse], error) {
	return c.getMonthlySummary.CallUnary(ctx, req)
}

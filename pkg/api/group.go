package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
)

const GroupServiceName = "splitledger.v1.GroupService"

const (
	GroupServiceCreateGroupProcedure        = "/splitledger.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure           = "/splitledger.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure         = "/splitledger.v1.GroupService/ListGroups"
	GroupServiceAddGroupExpenseProcedure    = "/splitledger.v1.GroupService/AddGroupExpense"
	GroupServiceListGroupExpensesProcedure  = "/splitledger.v1.GroupService/ListGroupExpenses"
	GroupServiceSettleGroupExpenseProcedure = "/splitledger.v1.GroupService/SettleGroupExpense"
	GroupServiceGetGroupBalancesProcedure   = "/splitledger.v1.GroupService/GetGroupBalances"
)

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

// AddGroupExpenseRequest records an expense in a group. PaidBy and people in
// SplitBetween that are not members yet are added to the group.
type AddGroupExpenseRequest struct {
	GroupID      string          `json:"group_id"`
	Title        string          `json:"title"`
	Amount       decimal.Decimal `json:"amount"`
	PaidBy       string          `json:"paid_by"`
	SplitBetween []string        `json:"split_between"`
	Category     string          `json:"category,omitempty"`
	Notes        string          `json:"notes,omitempty"`
	Date         int64           `json:"date,omitempty"`
}

type AddGroupExpenseResponse struct {
	Expense GroupExpense `json:"expense"`
}

type ListGroupExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListGroupExpensesResponse struct {
	Expenses []GroupExpense `json:"expenses"`
}

type SettleGroupExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
	Settled   bool   `json:"settled"`
}

type SettleGroupExpenseResponse struct {
	Expense GroupExpense `json:"expense"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	Balances []MemberBalance `json:"balances"`
	Debts    []Debt          `json:"debts"`
}

// GroupServiceHandler is implemented by the server side of GroupService.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	AddGroupExpense(context.Context, *connect.Request[AddGroupExpenseRequest]) (*connect.Response[AddGroupExpenseResponse], error)
	ListGroupExpenses(context.Context, *connect.Request[ListGroupExpensesRequest]) (*connect.Response[ListGroupExpensesResponse], error)
	SettleGroupExpense(context.Context, *connect.Request[SettleGroupExpenseRequest]) (*connect.Response[SettleGroupExpenseResponse], error)
	GetGroupBalances(context.Context, *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error)
}

// NewGroupServiceHandler returns the path to mount svc on and its handler.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	return "/" + GroupServiceName + "/", serviceHandler(map[string]*connect.Handler{
		GroupServiceCreateGroupProcedure:        unaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts),
		GroupServiceGetGroupProcedure:           unaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts),
		GroupServiceListGroupsProcedure:         unaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts),
		GroupServiceAddGroupExpenseProcedure:    unaryHandler(GroupServiceAddGroupExpenseProcedure, svc.AddGroupExpense, opts),
		GroupServiceListGroupExpensesProcedure:  unaryHandler(GroupServiceListGroupExpensesProcedure, svc.ListGroupExpenses, opts),
		GroupServiceSettleGroupExpenseProcedure: unaryHandler(GroupServiceSettleGroupExpenseProcedure, svc.SettleGroupExpense, opts),
		GroupServiceGetGroupBalancesProcedure:   unaryHandler(GroupServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts),
	})
}

// GroupServiceClient calls GroupService over HTTP.
type GroupServiceClient struct {
	createGroup        *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup           *connect.Client[GetGroupRequest, GetGroupResponse]
	listGroups         *connect.Client[ListGroupsRequest, ListGroupsResponse]
	addGroupExpense    *connect.Client[AddGroupExpenseRequest, AddGroupExpenseResponse]
	listGroupExpenses  *connect.Client[ListGroupExpensesRequest, ListGroupExpensesResponse]
	settleGroupExpense *connect.Client[SettleGroupExpenseRequest, SettleGroupExpenseResponse]
	getGroupBalances   *connect.Client[GetGroupBalancesRequest, GetGroupBalancesResponse]
}

// NewGroupServiceClient creates a client for the service at baseURL.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GroupServiceClient {
	return &GroupServiceClient{
		createGroup:        unaryClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL, GroupServiceCreateGroupProcedure, opts),
		getGroup:           unaryClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL, GroupServiceGetGroupProcedure, opts),
		listGroups:         unaryClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL, GroupServiceListGroupsProcedure, opts),
		addGroupExpense:    unaryClient[AddGroupExpenseRequest, AddGroupExpenseResponse](httpClient, baseURL, GroupServiceAddGroupExpenseProcedure, opts),
		listGroupExpenses:  unaryClient[ListGroupExpensesRequest, ListGroupExpensesResponse](httpClient, baseURL, GroupServiceListGroupExpensesProcedure, opts),
		settleGroupExpense: unaryClient[SettleGroupExpenseRequest, SettleGroupExpenseResponse](httpClient, baseURL, GroupServiceSettleGroupExpenseProcedure, opts),
		getGroupBalances:   unaryClient[GetGroupBalancesRequest, GetGroupBalancesResponse](httpClient, baseURL, GroupServiceGetGroupBalancesProcedure, opts),
	}
}

func (c *GroupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *GroupServiceClient) AddGroupExpense(ctx context.Context, req *connect.Request[AddGroupExpenseRequest]) (*connect.Response[AddGroupExpenseResponse], error) {
	return c.addGroupExpense.CallUnary(ctx, req)
}

func (c *GroupServiceClient) ListGroupExpenses(ctx context.Context, req *connect.Request[ListGroupExpensesRequest]) (*connect.Response[ListGroupExpensesResponse], error) {
	return c.listGroupExpenses.CallUnary(ctx, req)
}

func (c *GroupServiceClient) SettleGroupExpense(ctx context.Context, req *connect.Request[SettleGroupExpenseRequest]) (*connect.Response[SettleGroupExpenseResponse], error) {
	return c.settleGroupExpense.CallUnary(ctx, req)
}

func (c *GroupServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

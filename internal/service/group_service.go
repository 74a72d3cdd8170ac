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

// GroupService implements api.GroupServiceHandler.
type GroupService struct {
	store storage.Store
	bus   *events.Bus
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a GroupService. bus may be nil.
func NewGroupService(store storage.Store, bus *events.Bus) *GroupService {
	return &GroupService{store: store, bus: bus}
}

// CreateGroup creates a new group owned by the caller.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, toConnectError("CreateGroup", invalidArgument("group name is required"))
	}
	members := findNewMembers(req.Msg.Members, nil)
	if _, err := resolvePeople(ctx, s.store, userID, members...); err != nil {
		return nil, toConnectError("CreateGroup", err)
	}

	group := &models.Group{OwnerID: userID, Name: name, Members: members}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		return nil, toConnectError("CreateGroup", err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup retrieves a group of the caller by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	group, _, err := s.ownedGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("GetGroup", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: groupToAPI(group)}), nil
}

// ListGroups retrieves all groups of the caller.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.store.ListGroups(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListGroups", err)
	}

	out := make([]api.Group, len(groups))
	for i, group := range groups {
		out[i] = groupToAPI(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&api.ListGroupsResponse{Groups: out}), nil
}

// AddGroupExpense records an expense shared equally by SplitBetween. The
// payer and anyone sharing the expense who is not a member yet is added to
// the group.
func (s *GroupService) AddGroupExpense(ctx context.Context, req *connect.Request[api.AddGroupExpenseRequest]) (*connect.Response[api.AddGroupExpenseResponse], error) {
	group, userID, err := s.ownedGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("AddGroupExpense", err, "group_id", req.Msg.GroupID)
	}

	paidBy := req.Msg.PaidBy
	if paidBy == "" {
		paidBy = userID
	}
	expense := &models.GroupExpense{
		GroupID:      group.ID,
		Title:        strings.TrimSpace(req.Msg.Title),
		Amount:       req.Msg.Amount.Round(2),
		PaidBy:       paidBy,
		SplitBetween: req.Msg.SplitBetween,
		Category:     req.Msg.Category,
		Notes:        req.Msg.Notes,
		Date:         req.Msg.Date,
	}
	if expense.Title == "" {
		return nil, toConnectError("AddGroupExpense", invalidArgument("title is required"))
	}
	// Validates the amount and the people sharing it
	if _, err := calculator.ExpenseShares(expense); err != nil {
		return nil, toConnectError("AddGroupExpense", err, "group_id", group.ID)
	}
	if _, err := resolvePeople(ctx, s.store, userID, append([]string{paidBy}, expense.SplitBetween...)...); err != nil {
		return nil, toConnectError("AddGroupExpense", err, "group_id", group.ID)
	}

	if err := s.store.CreateGroupExpense(ctx, expense); err != nil {
		return nil, toConnectError("AddGroupExpense", err, "group_id", group.ID)
	}
	s.bus.Publish(events.Event{Kind: events.GroupExpenseCreated, EntityID: expense.ID, OwnerID: userID})

	s.autoAddMembers(ctx, group, append([]string{paidBy}, expense.SplitBetween...))

	slog.Info("Group expense added",
		"group_id", group.ID,
		"expense_id", expense.ID,
		"amount", expense.Amount,
	)

	return connect.NewResponse(&api.AddGroupExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListGroupExpenses lists the expenses of a group, newest first.
func (s *GroupService) ListGroupExpenses(ctx context.Context, req *connect.Request[api.ListGroupExpensesRequest]) (*connect.Response[api.ListGroupExpensesResponse], error) {
	group, _, err := s.ownedGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("ListGroupExpenses", err, "group_id", req.Msg.GroupID)
	}

	expenses, err := s.store.ListGroupExpenses(ctx, group.ID)
	if err != nil {
		return nil, toConnectError("ListGroupExpenses", err, "group_id", group.ID)
	}

	out := make([]api.GroupExpense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}
	return connect.NewResponse(&api.ListGroupExpensesResponse{Expenses: out}), nil
}

// SettleGroupExpense marks a whole expense as settled, or reopens it.
func (s *GroupService) SettleGroupExpense(ctx context.Context, req *connect.Request[api.SettleGroupExpenseRequest]) (*connect.Response[api.SettleGroupExpenseResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.ExpenseID == "" {
		return nil, toConnectError("SettleGroupExpense", invalidArgument("expense_id is required"))
	}

	expense, err := s.store.GetGroupExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, toConnectError("SettleGroupExpense", err, "expense_id", req.Msg.ExpenseID)
	}
	if _, _, err := s.ownedGroup(ctx, expense.GroupID); err != nil {
		return nil, toConnectError("SettleGroupExpense", err, "expense_id", expense.ID)
	}

	if expense.IsSettled != req.Msg.Settled {
		if err := s.store.SetGroupExpenseSettled(ctx, expense.ID, req.Msg.Settled); err != nil {
			return nil, toConnectError("SettleGroupExpense", err, "expense_id", expense.ID)
		}
		expense.IsSettled = req.Msg.Settled
		s.bus.Publish(events.Event{Kind: events.GroupExpenseSettled, EntityID: expense.ID, OwnerID: userID})
	}

	slog.Info("Group expense settlement updated", "expense_id", expense.ID, "settled", expense.IsSettled)

	return connect.NewResponse(&api.SettleGroupExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// GetGroupBalances computes each member's net position over the unsettled
// expenses of a group and the payments that would settle them.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	group, _, err := s.ownedGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("GetGroupBalances", err, "group_id", req.Msg.GroupID)
	}

	expenses, err := s.store.ListGroupExpenses(ctx, group.ID)
	if err != nil {
		return nil, toConnectError("GetGroupBalances", err, "group_id", group.ID)
	}

	members, debts, err := calculator.GroupBalances(derefAll(expenses))
	if err != nil {
		return nil, toConnectError("GetGroupBalances", err, "group_id", group.ID)
	}

	resp := &api.GetGroupBalancesResponse{
		Balances: make([]api.MemberBalance, len(members)),
		Debts:    make([]api.Debt, len(debts)),
	}
	for i, m := range members {
		resp.Balances[i] = api.MemberBalance{
			PersonID:   m.PersonID,
			NetBalance: m.NetBalance,
			TotalPaid:  m.TotalPaid,
			TotalOwed:  m.TotalOwed,
		}
	}
	for i, d := range debts {
		resp.Debts[i] = api.Debt{FromPersonID: d.From, ToPersonID: d.To, Amount: d.Amount}
	}

	slog.Info("GetGroupBalances successful",
		"group_id", group.ID,
		"expenses", len(expenses),
		"debts", len(debts),
	)

	return connect.NewResponse(resp), nil
}

// autoAddMembers adds people not already in the group. Failures are logged
// and do not fail the request.
func (s *GroupService) autoAddMembers(ctx context.Context, group *models.Group, people []string) {
	newMembers := findNewMembers(people, group.Members)
	if len(newMembers) == 0 {
		return
	}

	if err := s.store.AddGroupMembers(ctx, group.ID, newMembers); err != nil {
		slog.Error("autoAddMembers: failed to add members", "group_id", group.ID, "error", err)
		return
	}
	group.Members = append(group.Members, newMembers...)
	slog.Info("Auto-added members to group", "group_id", group.ID, "new_members", newMembers)
}

// ownedGroup loads a group and checks it belongs to the caller.
func (s *GroupService) ownedGroup(ctx context.Context, groupID string) (*models.Group, string, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, "", err
	}
	if groupID == "" {
		return nil, "", invalidArgument("group_id is required")
	}

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, "", err
	}
	if group.OwnerID != userID {
		return nil, "", errNotOwner
	}
	return group, userID, nil
}

func derefAll[T any](ptrs []*T) []T {
	out := make([]T, len(ptrs))
	for i, p := range ptrs {
		out[i] = *p
	}
	return out
}

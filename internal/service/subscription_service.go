package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/api"
)

// SubscriptionService implements api.SubscriptionServiceHandler.
type SubscriptionService struct {
	store storage.Store
	bus   *events.Bus
}

var _ api.SubscriptionServiceHandler = (*SubscriptionService)(nil)

// NewSubscriptionService creates a SubscriptionService. bus may be nil.
func NewSubscriptionService(store storage.Store, bus *events.Bus) *SubscriptionService {
	return &SubscriptionService{store: store, bus: bus}
}

func (s *SubscriptionService) CreateSubscription(ctx context.Context, req *connect.Request[api.CreateSubscriptionRequest]) (*connect.Response[api.CreateSubscriptionResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	sub := &models.Subscription{
		OwnerID:         userID,
		Name:            strings.TrimSpace(req.Msg.Name),
		Amount:          req.Msg.Amount.Round(2),
		Cycle:           models.BillingCycle(strings.ToLower(req.Msg.Cycle)),
		Category:        req.Msg.Category,
		NextBillingDate: req.Msg.NextBillingDate,
		Active:          true,
	}
	switch {
	case sub.Name == "":
		return nil, toConnectError("CreateSubscription", invalidArgument("name is required"))
	case !sub.Amount.IsPositive():
		return nil, toConnectError("CreateSubscription", invalidArgument("amount must be positive"))
	case !sub.Cycle.Valid():
		return nil, toConnectError("CreateSubscription", invalidArgument("unknown billing cycle %q", req.Msg.Cycle))
	}

	if err := s.store.CreateSubscription(ctx, sub); err != nil {
		return nil, toConnectError("CreateSubscription", err)
	}
	s.bus.Publish(events.Event{Kind: events.SubscriptionCreated, EntityID: sub.ID, OwnerID: userID})

	slog.Info("Subscription created", "subscription_id", sub.ID, "cycle", sub.Cycle)
	return connect.NewResponse(&api.CreateSubscriptionResponse{Subscription: subscriptionToAPI(sub)}), nil
}

func (s *SubscriptionService) ListSubscriptions(ctx context.Context, req *connect.Request[api.ListSubscriptionsRequest]) (*connect.Response[api.ListSubscriptionsResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	subs, err := s.store.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, toConnectError("ListSubscriptions", err)
	}

	out := make([]api.Subscription, len(subs))
	for i, sub := range subs {
		out[i] = subscriptionToAPI(sub)
	}
	return connect.NewResponse(&api.ListSubscriptionsResponse{Subscriptions: out}), nil
}

func (s *SubscriptionService) DeleteSubscription(ctx context.Context, req *connect.Request[api.DeleteSubscriptionRequest]) (*connect.Response[api.DeleteSubscriptionResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.SubscriptionID == "" {
		return nil, toConnectError("DeleteSubscription", invalidArgument("subscription_id is required"))
	}

	sub, err := s.store.GetSubscription(ctx, req.Msg.SubscriptionID)
	if err != nil {
		return nil, toConnectError("DeleteSubscription", err, "subscription_id", req.Msg.SubscriptionID)
	}
	if sub.OwnerID != userID {
		return nil, toConnectError("DeleteSubscription", errNotOwner, "subscription_id", sub.ID)
	}

	if err := s.store.DeleteSubscription(ctx, sub.ID); err != nil {
		return nil, toConnectError("DeleteSubscription", err, "subscription_id", sub.ID)
	}
	s.bus.Publish(events.Event{Kind: events.SubscriptionDeleted, EntityID: sub.ID, OwnerID: userID})

	slog.Info("Subscription deleted", "subscription_id", sub.ID)
	return connect.NewResponse(&api.DeleteSubscriptionResponse{}), nil
}

// GetMonthlySummary normalizes every active subscription to a monthly cost.
func (s *SubscriptionService) GetMonthlySummary(ctx context.Context, req *connect.Request[api.GetMonthlySummaryRequest]) (*connect.Response[api.GetMonthlySummaryResponse], error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}

	subs, err := s.store.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, toConnectError("GetMonthlySummary", err)
	}

	total, err := calculator.MonthlyTotal(derefAll(subs))
	if err != nil {
		return nil, toConnectError("GetMonthlySummary", err)
	}

	resp := &api.GetMonthlySummaryResponse{
		MonthlyTotal: total,
		YearlyTotal:  total.Mul(decimal.NewFromInt(12)),
		ByCategory:   make(map[string]decimal.Decimal),
	}
	for _, sub := range subs {
		if !sub.Active {
			continue
		}
		cost, err := calculator.MonthlyCost(sub.Amount, sub.Cycle)
		if err != nil {
			return nil, toConnectError("GetMonthlySummary", err, "subscription_id", sub.ID)
		}
		resp.ByCategory[sub.Category] = resp.ByCategory[sub.Category].Add(cost)
		resp.ActiveCount++
	}
	return connect.NewResponse(resp), nil
}

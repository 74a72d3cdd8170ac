package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/pkg/api"
)

func createSubscription(t *testing.T, env *testEnv, name, amount, cycle, category string) api.Subscription {
	t.Helper()
	resp, err := env.subs.CreateSubscription(context.Background(), connect.NewRequest(&api.CreateSubscriptionRequest{
		Name:     name,
		Amount:   d(amount),
		Cycle:    cycle,
		Category: category,
	}))
	require.NoError(t, err)
	return resp.Msg.Subscription
}

func TestCreateSubscription(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	sub := createSubscription(t, env, "Gym", "10", "Weekly", "health")
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "weekly", sub.Cycle)
	assert.True(t, sub.Active)
	assert.Equal(t, "43.33", sub.MonthlyCost.StringFixed(2))

	tests := []struct {
		name string
		req  *api.CreateSubscriptionRequest
	}{
		{"missing name", &api.CreateSubscriptionRequest{Amount: d("1"), Cycle: "monthly"}},
		{"zero amount", &api.CreateSubscriptionRequest{Name: "x", Amount: d("0"), Cycle: "monthly"}},
		{"negative amount", &api.CreateSubscriptionRequest{Name: "x", Amount: d("-5"), Cycle: "monthly"}},
		{"unknown cycle", &api.CreateSubscriptionRequest{Name: "x", Amount: d("1"), Cycle: "fortnightly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.subs.CreateSubscription(ctx, connect.NewRequest(tt.req))
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		})
	}
}

func TestListAndDeleteSubscriptions(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	netflix := createSubscription(t, env, "Netflix", "15.99", "monthly", "streaming")
	createSubscription(t, env, "Gym", "10", "weekly", "health")

	list, err := env.subs.ListSubscriptions(ctx, connect.NewRequest(&api.ListSubscriptionsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Subscriptions, 2)
	assert.Equal(t, "Gym", list.Msg.Subscriptions[0].Name)
	assert.Equal(t, "Netflix", list.Msg.Subscriptions[1].Name)

	_, err = env.subs.DeleteSubscription(ctx, asUser("mallory", &api.DeleteSubscriptionRequest{SubscriptionID: netflix.ID}))
	assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))

	_, err = env.subs.DeleteSubscription(ctx, connect.NewRequest(&api.DeleteSubscriptionRequest{SubscriptionID: netflix.ID}))
	require.NoError(t, err)

	_, err = env.subs.DeleteSubscription(ctx, connect.NewRequest(&api.DeleteSubscriptionRequest{SubscriptionID: netflix.ID}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	list, err = env.subs.ListSubscriptions(ctx, connect.NewRequest(&api.ListSubscriptionsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Subscriptions, 1)
	assert.Equal(t, "Gym", list.Msg.Subscriptions[0].Name)

	other, err := env.subs.ListSubscriptions(ctx, asUser("mallory", &api.ListSubscriptionsRequest{}))
	require.NoError(t, err)
	assert.Empty(t, other.Msg.Subscriptions)
}

func TestGetMonthlySummary(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	empty, err := env.subs.GetMonthlySummary(ctx, connect.NewRequest(&api.GetMonthlySummaryRequest{}))
	require.NoError(t, err)
	assert.True(t, empty.Msg.MonthlyTotal.IsZero())
	assert.Zero(t, empty.Msg.ActiveCount)

	createSubscription(t, env, "Netflix", "15.99", "monthly", "streaming")
	createSubscription(t, env, "Gym", "10", "weekly", "health")
	createSubscription(t, env, "Spotify", "120", "yearly", "streaming")

	resp, err := env.subs.GetMonthlySummary(ctx, connect.NewRequest(&api.GetMonthlySummaryRequest{}))
	require.NoError(t, err)
	assert.Equal(t, "69.32", resp.Msg.MonthlyTotal.StringFixed(2))
	assert.Equal(t, "831.84", resp.Msg.YearlyTotal.StringFixed(2))
	assert.Equal(t, 3, resp.Msg.ActiveCount)
	require.Len(t, resp.Msg.ByCategory, 2)
	assert.Equal(t, "25.99", resp.Msg.ByCategory["streaming"].StringFixed(2))
	assert.Equal(t, "43.33", resp.Msg.ByCategory["health"].StringFixed(2))
}

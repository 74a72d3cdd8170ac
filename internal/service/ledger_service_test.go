package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/pkg/api"
)

func TestPeople(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	resp, err := env.ledger.CreatePerson(ctx, connect.NewRequest(&api.CreatePersonRequest{Name: " Bob ", Email: "Bob@Example.com"}))
	require.NoError(t, err)
	assert.Equal(t, "Bob", resp.Msg.Person.Name)
	assert.Equal(t, "bob@example.com", resp.Msg.Person.Email)

	_, err = env.ledger.CreatePerson(ctx, connect.NewRequest(&api.CreatePersonRequest{}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	list, err := env.ledger.ListPeople(ctx, connect.NewRequest(&api.ListPeopleRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.People, 2)
	assert.Equal(t, testUserName, list.Msg.People[0].Name)
	assert.Equal(t, "Bob", list.Msg.People[1].Name)
}

func TestRecordTransaction(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	bob := env.person(t, "Bob")

	resp, err := env.ledger.RecordTransaction(ctx, connect.NewRequest(&api.RecordTransactionRequest{
		Title:          "Concert tickets",
		Amount:         d("20"),
		CounterpartyID: bob,
		Date:           1700000000,
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Msg.Transaction.ID)
	assert.Equal(t, int64(1700000000), resp.Msg.Transaction.Date)

	tests := []struct {
		name string
		req  *api.RecordTransactionRequest
	}{
		{"missing title", &api.RecordTransactionRequest{Amount: d("1")}},
		{"zero amount", &api.RecordTransactionRequest{Title: "x", Amount: d("0")}},
		{"self counterparty", &api.RecordTransactionRequest{Title: "x", Amount: d("1"), CounterpartyID: testUserID}},
		{"unknown counterparty", &api.RecordTransactionRequest{Title: "x", Amount: d("1"), CounterpartyID: "nobody"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.ledger.RecordTransaction(ctx, connect.NewRequest(tt.req))
			assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
		})
	}

	list, err := env.ledger.ListTransactions(ctx, connect.NewRequest(&api.ListTransactionsRequest{}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Transactions, 1)
	assert.Equal(t, bob, list.Msg.Transactions[0].CounterpartyID)

	assert.Equal(t, []events.Kind{events.TransactionCreated}, env.eventKinds())
}

func TestGetBalances(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()
	bob := env.person(t, "Bob")
	carol := env.person(t, "Carol")

	// Bob owes half of a 100 bill Alice paid, plus 20 directly.
	_, err := env.split.CreateSplitBill(ctx, connect.NewRequest(&api.CreateSplitBillRequest{
		TotalAmount: d("100"),
		Split:       equalSplit(testUserID, bob),
	}))
	require.NoError(t, err)
	_, err = env.ledger.RecordTransaction(ctx, connect.NewRequest(&api.RecordTransactionRequest{
		Title: "Loan", Amount: d("20"), CounterpartyID: bob,
	}))
	require.NoError(t, err)

	// Alice owes Carol half of a 40 bill Carol paid.
	carolBill, err := env.split.CreateSplitBill(ctx, connect.NewRequest(&api.CreateSplitBillRequest{
		TotalAmount: d("40"),
		PayerID:     carol,
		Split:       equalSplit(testUserID, carol),
	}))
	require.NoError(t, err)

	balances := func(t *testing.T) map[string]string {
		t.Helper()
		resp, err := env.ledger.GetBalances(ctx, connect.NewRequest(&api.GetBalancesRequest{}))
		require.NoError(t, err)
		out := make(map[string]string)
		for _, b := range resp.Msg.Balances {
			out[b.PersonID] = b.Amount.StringFixed(2)
		}
		out["owed_to_you"] = resp.Msg.TotalOwedToYou.StringFixed(2)
		out["you_owe"] = resp.Msg.TotalYouOwe.StringFixed(2)
		return out
	}

	assert.Equal(t, map[string]string{
		bob:           "70.00",
		carol:         "-20.00",
		"owed_to_you": "70.00",
		"you_owe":     "20.00",
	}, balances(t))

	t.Run("group expenses count until settled", func(t *testing.T) {
		group, err := env.group.CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: "Trip"}))
		require.NoError(t, err)
		expense, err := env.group.AddGroupExpense(ctx, connect.NewRequest(&api.AddGroupExpenseRequest{
			GroupID: group.Msg.Group.ID, Title: "Fuel", Amount: d("30"), SplitBetween: []string{testUserID, carol},
		}))
		require.NoError(t, err)

		assert.Equal(t, "-5.00", balances(t)[carol])

		_, err = env.group.SettleGroupExpense(ctx, connect.NewRequest(&api.SettleGroupExpenseRequest{
			ExpenseID: expense.Msg.Expense.ID, Settled: true,
		}))
		require.NoError(t, err)
		assert.Equal(t, "-20.00", balances(t)[carol])
	})

	t.Run("paid shares drop out", func(t *testing.T) {
		_, err := env.split.MarkParticipantPaid(ctx, connect.NewRequest(&api.MarkParticipantPaidRequest{
			BillID:        carolBill.Msg.Bill.ID,
			ParticipantID: carolBill.Msg.Bill.Participants[0].ID,
		}))
		require.NoError(t, err)

		got := balances(t)
		_, ok := got[carol]
		assert.False(t, ok, "settled balance should be omitted")
		assert.Equal(t, "0.00", got["you_owe"])
	})
}

package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
)

const (
	testUserID   = "alice"
	testUserName = "Alice"
	testUserHdr  = "X-Test-User"
)

// testAuthInterceptor returns a Connect interceptor that sets a test user ID
// in the context. The X-Test-User header switches users.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			userID := req.Header().Get(testUserHdr)
			if userID == "" {
				userID = testUserID
			}
			return next(middleware.WithUser(ctx, userID, userID+"@example.com"), req)
		}
	}
}

type testEnv struct {
	store *sqlite.SQLiteStore

	mu     sync.Mutex
	events []events.Event

	split  *api.SplitServiceClient
	group  *api.GroupServiceClient
	ledger *api.LedgerServiceClient
	subs   *api.SubscriptionServiceClient
}

// setupTestServer serves every domain service over httptest with a temp
// SQLite database. The test user already has its own Person record.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	env := &testEnv{store: store}
	bus := events.NewBus()
	bus.Subscribe(func(e events.Event) {
		env.mu.Lock()
		defer env.mu.Unlock()
		env.events = append(env.events, e)
	})

	opts := connect.WithInterceptors(testAuthInterceptor())
	mux := http.NewServeMux()
	mux.Handle(api.NewSplitServiceHandler(NewSplitService(store, bus), opts))
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(store, bus), opts))
	mux.Handle(api.NewLedgerServiceHandler(NewLedgerService(store, bus), opts))
	mux.Handle(api.NewSubscriptionServiceHandler(NewSubscriptionService(store, bus), opts))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	env.split = api.NewSplitServiceClient(server.Client(), server.URL)
	env.group = api.NewGroupServiceClient(server.Client(), server.URL)
	env.ledger = api.NewLedgerServiceClient(server.Client(), server.URL)
	env.subs = api.NewSubscriptionServiceClient(server.Client(), server.URL)

	env.seedUser(t, testUserID, testUserName)
	return env
}

// seedUser creates the self Person a registered user would have.
func (env *testEnv) seedUser(t *testing.T, userID, name string) {
	t.Helper()
	require.NoError(t, env.store.SavePerson(context.Background(), &models.Person{ID: userID, OwnerID: userID, Name: name}))
}

// person creates a person owned by the test user and returns its ID.
func (env *testEnv) person(t *testing.T, name string) string {
	t.Helper()
	resp, err := env.ledger.CreatePerson(context.Background(), connect.NewRequest(&api.CreatePersonRequest{Name: name}))
	require.NoError(t, err)
	return resp.Msg.Person.ID
}

func (env *testEnv) eventKinds() []events.Kind {
	env.mu.Lock()
	defer env.mu.Unlock()
	kinds := make([]events.Kind, len(env.events))
	for i, e := range env.events {
		kinds[i] = e.Kind
	}
	return kinds
}

// asUser returns a request that runs as userID.
func asUser[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHdr, userID)
	return req
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func equalSplit(ids ...string) api.Split {
	split := api.Split{Type: string(models.SplitEqually)}
	for _, id := range ids {
		split.Entries = append(split.Entries, api.SplitEntry{PersonID: id})
	}
	return split
}

func amountsOf(allocs []api.Allocation) []string {
	out := make([]string, len(allocs))
	for i, a := range allocs {
		out[i] = a.Amount.StringFixed(2)
	}
	return out
}

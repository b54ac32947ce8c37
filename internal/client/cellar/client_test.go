package cellar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"cavea/internal/client/api"
	"cavea/internal/client/cachestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOracle struct {
	online bool
}

func (o *fakeOracle) Online(ctx context.Context) bool {
	return o.online
}

type testBackend struct {
	server   *httptest.Server
	requests int64
	handler  http.HandlerFunc
}

func newTestBackend(t *testing.T, handler http.HandlerFunc) *testBackend {
	t.Helper()
	b := &testBackend{handler: handler}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&b.requests, 1)
		b.handler(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *testBackend) count() int64 {
	return atomic.LoadInt64(&b.requests)
}

func newTestClient(t *testing.T, backend *testBackend, oracle *fakeOracle) (*Client, *cachestore.Store) {
	t.Helper()
	store, err := cachestore.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	exec := api.NewExecutor(backend.server.URL, func() string { return "test-token" })
	return New(exec, store, oracle), store
}

func jsonHandler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

func TestReadOnlineWritesThrough(t *testing.T) {
	backend := newTestBackend(t, jsonHandler(http.StatusOK, `{"total_stock":156}`))
	client, store := newTestClient(t, backend, &fakeOracle{online: true})
	ctx := context.Background()

	total, err := client.TotalStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 156, total)

	var cached struct {
		TotalStock int `json:"total_stock"`
	}
	require.True(t, store.Get(ctx, KeyTotalStock, &cached))
	assert.Equal(t, 156, cached.TotalStock)
}

func TestReadOfflineServesCacheWithoutNetworkCall(t *testing.T) {
	backend := newTestBackend(t, jsonHandler(http.StatusOK, `{"total_stock":156}`))
	oracle := &fakeOracle{online: true}
	client, _ := newTestClient(t, backend, oracle)
	ctx := context.Background()

	_, err := client.TotalStock(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, backend.count())

	oracle.online = false

	total, err := client.TotalStock(ctx)
	require.NoError(t, err)
	assert.Equal(t, 156, total)
	assert.EqualValues(t, 1, backend.count(), "offline read must not touch the network")
}

func TestReadOfflineEmptyCacheFails(t *testing.T) {
	backend := newTestBackend(t, jsonHandler(http.StatusOK, `[]`))
	client, _ := newTestClient(t, backend, &fakeOracle{online: false})

	_, err := client.AllItems(context.Background())
	assert.ErrorIs(t, err, ErrNoOfflineData)
	assert.EqualValues(t, 0, backend.count())
}

func TestReadFetchFailureFallsBackToStaleCache(t *testing.T) {
	backend := newTestBackend(t, jsonHandler(http.StatusOK, `[{"colour":"red","stock":12}]`))
	client, _ := newTestClient(t, backend, &fakeOracle{online: true})
	ctx := context.Background()

	stocks, err := client.StockByColour(ctx)
	require.NoError(t, err)
	require.Len(t, stocks, 1)

	// The next fetch fails server-side; the stale value is served and the
	// error is swallowed.
	backend.handler = jsonHandler(http.StatusInternalServerError, `{"message":"boom"}`)

	stocks, err = client.StockByColour(ctx)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, "red", stocks[0].Colour)
	assert.Equal(t, 12, stocks[0].Stock)
}

func TestReadFetchFailureWithEmptyCacheFails(t *testing.T) {
	backend := newTestBackend(t, jsonHandler(http.StatusInternalServerError, `{"message":"boom"}`))
	client, _ := newTestClient(t, backend, &fakeOracle{online: true})

	_, err := client.LastAdded(context.Background())
	assert.ErrorIs(t, err, ErrNoOfflineData)
}

func TestMutationClearsCollectionKeysOnly(t *testing.T) {
	backend := newTestBackend(t, jsonHandler(http.StatusCreated, `{"id":1,"stock":5}`))
	client, store := newTestClient(t, backend, &fakeOracle{online: true})
	ctx := context.Background()

	colourKey := keyItemsByColour(2)
	for _, key := range []string{KeyTotalStock, KeyStockByColour, KeyLastAdded, KeyAllItems, colourKey} {
		store.Set(ctx, key, "stale")
	}

	item, err := client.CreateItem(ctx, CreateItemInput{
		Bottle:  BottleInput{Name: "Test", ColourID: 2, RegionID: 1},
		Vintage: VintageInput{Year: 2019},
		Stock:   5,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, item.Stock)

	var value string
	for _, key := range []string{KeyTotalStock, KeyStockByColour, KeyLastAdded, KeyAllItems} {
		assert.False(t, store.Get(ctx, key, &value), "key %s must be cleared", key)
	}
	assert.True(t, store.Get(ctx, colourKey, &value), "colour-filter slots stay until refetched")
}

func TestFailedMutationKeepsCache(t *testing.T) {
	backend := newTestBackend(t, jsonHandler(http.StatusUnprocessableEntity,
		`{"message":"Validation failed.","errors":{"stock":["The stock must be at least 0."]}}`))
	client, store := newTestClient(t, backend, &fakeOracle{online: true})
	ctx := context.Background()

	store.Set(ctx, KeyTotalStock, "stale")

	_, err := client.CreateItem(ctx, CreateItemInput{})
	var verr *api.ValidationError
	require.ErrorAs(t, err, &verr)

	var value string
	assert.True(t, store.Get(ctx, KeyTotalStock, &value))
}

func TestDeleteItemInvalidates(t *testing.T) {
	backend := newTestBackend(t, jsonHandler(http.StatusNoContent, ``))
	client, store := newTestClient(t, backend, &fakeOracle{online: true})
	ctx := context.Background()

	store.Set(ctx, KeyAllItems, "stale")

	require.NoError(t, client.DeleteItem(ctx, 7))

	var value string
	assert.False(t, store.Get(ctx, KeyAllItems, &value))
}

func TestItemDetailBypassesCache(t *testing.T) {
	backend := newTestBackend(t, jsonHandler(http.StatusOK,
		`{"id":3,"stock":2,"bottle":{"id":1,"name":"Test"}}`))
	client, _ := newTestClient(t, backend, &fakeOracle{online: true})
	ctx := context.Background()

	item, err := client.Item(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, item.Bottle)
	assert.Equal(t, "Test", item.Bottle.Name)

	_, err = client.Item(ctx, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 2, backend.count())
}

package cachestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	type payload struct {
		Total int    `json:"total"`
		Name  string `json:"name"`
	}

	store.Set(ctx, "cache_total_stock", payload{Total: 156, Name: "all"})

	var got payload
	require.True(t, store.Get(ctx, "cache_total_stock", &got))
	assert.Equal(t, 156, got.Total)
	assert.Equal(t, "all", got.Name)
}

func TestStoreMissingKeyIsAMiss(t *testing.T) {
	store := newTestStore(t)

	var got int
	assert.False(t, store.Get(context.Background(), "never_written", &got))
}

func TestStoreSetOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Set(ctx, "counter", 1)
	store.Set(ctx, "counter", 2)

	var got int
	require.True(t, store.Get(ctx, "counter", &got))
	assert.Equal(t, 2, got)
}

func TestStoreCorruptEntryReadsAsMiss(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, value, written_at) VALUES (?, ?, ?)`,
		"broken", "{not json", time.Now().UnixMilli(),
	)
	require.NoError(t, err)

	var got map[string]int
	assert.False(t, store.Get(ctx, "broken", &got))
}

func TestStoreWrittenAt(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	before := time.Now().Add(-time.Second)
	store.Set(ctx, "stamped", "value")

	at, ok := store.WrittenAt(ctx, "stamped")
	require.True(t, ok)
	assert.True(t, at.After(before))

	_, ok = store.WrittenAt(ctx, "never_written")
	assert.False(t, ok)
}

func TestStoreClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Set(ctx, "a", 1)
	store.Set(ctx, "b", 2)

	store.Clear(ctx, "a")

	var got int
	assert.False(t, store.Get(ctx, "a", &got))
	assert.True(t, store.Get(ctx, "b", &got))

	// Clearing an absent key is a no-op.
	store.Clear(ctx, "a")
}

func TestStoreClearAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.Set(ctx, "a", 1)
	store.Set(ctx, "b", 2)

	store.ClearAll(ctx)

	var got int
	assert.False(t, store.Get(ctx, "a", &got))
	assert.False(t, store.Get(ctx, "b", &got))
}

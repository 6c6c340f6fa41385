package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testRecord struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	err := storage.Save(ctx, "a", testRecord{Name: "one", Count: 1})
	require.NoError(t, err)

	var got testRecord
	require.NoError(t, storage.Get(ctx, "a", &got))
	require.Equal(t, testRecord{Name: "one", Count: 1}, got)

	require.NoError(t, storage.Delete(ctx, "a"))
	require.ErrorIs(t, storage.Get(ctx, "a", &got), ErrNotFound)
	require.ErrorIs(t, storage.Delete(ctx, "a"), ErrNotFound)
}

func TestMemoryStorageExpiry(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	require.NoError(t, storage.Set(ctx, "a", testRecord{Name: "short"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var got testRecord
	require.ErrorIs(t, storage.Get(ctx, "a", &got), ErrNotFound)
}

func TestStoreWithPrefix(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	records := New[testRecord](storage, "r:")
	require.NoError(t, records.Save(ctx, "1", testRecord{Name: "prefixed"}))

	var raw testRecord
	require.NoError(t, storage.Get(ctx, "r:1", &raw))
	require.Equal(t, "prefixed", raw.Name)

	got, err := records.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "prefixed", got.Name)
}

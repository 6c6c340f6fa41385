package collections

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/futurelab/intuto-connect/internal/intuto"
	"github.com/futurelab/intuto-connect/internal/store"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	total       int
	requests    []int // offsets seen, in order
	searchTerms []string
	err         error
	blocked     chan struct{}
}

func (f *fakeAPI) ListCollections(ctx context.Context, offset int, limit int) (intuto.CollectionPage, error) {
	if f.blocked != nil {
		<-f.blocked
	}
	f.requests = append(f.requests, offset)
	if f.err != nil {
		return intuto.CollectionPage{}, f.err
	}

	page := intuto.CollectionPage{Total: f.total}
	for i := offset; i < offset+limit && i < f.total; i++ {
		page.Data = append(page.Data, intuto.Collection{
			CollectionID:   int64(i + 1),
			CollectionName: fmt.Sprintf("Collection %d", i+1),
		})
	}
	return page, nil
}

func (f *fakeAPI) SearchCollections(ctx context.Context, term string) (intuto.CollectionPage, error) {
	f.searchTerms = append(f.searchTerms, term)
	if f.err != nil {
		return intuto.CollectionPage{}, f.err
	}
	return intuto.CollectionPage{
		Total: 1,
		Data:  []intuto.Collection{{CollectionID: 7, CollectionName: term}},
	}, nil
}

func TestFetchAllPagination(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{total: 75}
	service := NewService(api, store.NewMemoryStorage())

	collections, err := service.FetchAll(ctx)
	require.NoError(t, err)

	require.Equal(t, []int{0, 30, 60}, api.requests)
	require.Len(t, collections, 75)
	require.Equal(t, int64(1), collections[0].CollectionID)
	require.Equal(t, int64(75), collections[74].CollectionID)
}

func TestFetchAllTwoPages(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{total: 45}
	service := NewService(api, store.NewMemoryStorage())

	collections, err := service.FetchAll(ctx)
	require.NoError(t, err)

	require.Equal(t, []int{0, 30}, api.requests)
	require.Len(t, collections, 45)
	for i, collection := range collections {
		require.Equal(t, int64(i+1), collection.CollectionID)
	}
}

func TestSyncToCache(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{total: 3}
	service := NewService(api, store.NewMemoryStorage())

	require.True(t, service.SyncToCache(ctx))

	items, syncedAt, err := service.Cached(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.False(t, syncedAt.IsZero())

	localCount, err := service.LocalCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, localCount)
}

func TestSyncToCacheKeepsCacheOnEmptyResult(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{total: 3}
	service := NewService(api, store.NewMemoryStorage())

	require.True(t, service.SyncToCache(ctx))

	// remote now reports nothing; the previous snapshot must survive
	api.total = 0
	require.False(t, service.SyncToCache(ctx))

	items, _, err := service.Cached(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
}

func TestSyncToCacheKeepsCacheOnError(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{total: 3}
	service := NewService(api, store.NewMemoryStorage())

	require.True(t, service.SyncToCache(ctx))

	api.err = errors.New("boom")
	require.False(t, service.SyncToCache(ctx))

	items, _, err := service.Cached(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
}

func TestSyncToCacheSerialized(t *testing.T) {
	ctx := context.Background()
	blocked := make(chan struct{})
	api := &fakeAPI{total: 3, blocked: blocked}
	service := NewService(api, store.NewMemoryStorage())

	firstDone := make(chan bool, 1)
	go func() {
		firstDone <- service.SyncToCache(ctx)
	}()

	// wait until the first sync holds the lock inside the API call
	require.Eventually(t, func() bool {
		if service.syncMu.TryLock() {
			service.syncMu.Unlock()
			return false
		}
		return true
	}, time.Second, time.Millisecond)
	require.False(t, service.SyncToCache(ctx))

	close(blocked)
	require.True(t, <-firstDone)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{}
	service := NewService(api, store.NewMemoryStorage())

	found, err := service.Search(ctx, "Safety")
	require.NoError(t, err)
	require.Equal(t, []string{"Safety"}, api.searchTerms)
	require.Len(t, found, 1)
	require.Equal(t, int64(7), found[0].CollectionID)

	api.err = errors.New("boom")
	_, err = service.Search(ctx, "Safety")
	require.Error(t, err)
}

func TestRemoteCount(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{total: 45}
	service := NewService(api, store.NewMemoryStorage())

	remoteCount, err := service.RemoteCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 45, remoteCount)
	require.Equal(t, []int{0}, api.requests)
}

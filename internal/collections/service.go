package collections

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/futurelab/intuto-connect/internal/intuto"
	"github.com/futurelab/intuto-connect/internal/store"
	"github.com/futurelab/intuto-connect/params"
)

const cacheKey = "all"

// API is the slice of the Intuto client the sync needs.
type API interface {
	ListCollections(ctx context.Context, offset int, limit int) (intuto.CollectionPage, error)
	SearchCollections(ctx context.Context, term string) (intuto.CollectionPage, error)
}

type cachedCollections struct {
	Items    []intuto.Collection `json:"items"`
	SyncedAt time.Time           `json:"syncedAt"`
}

// Service maintains the local snapshot of the remote collection set. The
// cache is overwritten wholesale on each successful sync; there is no
// incremental merge.
type Service struct {
	api   API
	cache store.Store[cachedCollections]

	// at most one sync may be in flight; a second trigger while one is
	// running reports failure without touching the cache
	syncMu sync.Mutex
}

func NewService(api API, storage store.Storage) *Service {
	return &Service{
		api:   api,
		cache: store.New[cachedCollections](storage, params.CollectionKeyPrefix),
	}
}

// FetchAll pages through the full remote collection set and concatenates the
// pages in server-returned order. The sync throttles to a page size well
// below the API's hard limit to keep per-call payloads small. No
// deduplication: a remote set that shrinks or reorders mid-fetch can produce
// duplicates or gaps, which the periodic full refresh tolerates.
func (s *Service) FetchAll(ctx context.Context) ([]intuto.Collection, error) {
	first, err := s.api.ListCollections(ctx, 0, params.SyncPageSize)
	if err != nil {
		return nil, err
	}

	collections := append([]intuto.Collection{}, first.Data...)
	for offset := params.SyncPageSize; offset < first.Total; offset += params.SyncPageSize {
		page, err := s.api.ListCollections(ctx, offset, params.SyncPageSize)
		if err != nil {
			return nil, err
		}
		collections = append(collections, page.Data...)
	}
	return collections, nil
}

// SyncToCache refreshes the local cache from the remote set. An empty or
// failed fetch leaves the existing cache untouched, so a transient error
// response never wipes a previously good snapshot.
func (s *Service) SyncToCache(ctx context.Context) bool {
	if !s.syncMu.TryLock() {
		slog.Warn("collection sync already in progress, skipping")
		return false
	}
	defer s.syncMu.Unlock()

	collections, err := s.FetchAll(ctx)
	if err != nil {
		slog.Error("collection sync failed", "error", err)
		return false
	}
	if len(collections) == 0 {
		slog.Warn("collection sync returned no collections, keeping existing cache")
		return false
	}

	snapshot := cachedCollections{Items: collections, SyncedAt: time.Now()}
	if err := s.cache.Save(ctx, cacheKey, snapshot); err != nil {
		slog.Error("failed to store collection cache", "error", err)
		return false
	}
	slog.Info("collection cache updated", "count", len(collections))
	return true
}

// Search queries the remote collection set by name, bypassing the cache.
func (s *Service) Search(ctx context.Context, term string) ([]intuto.Collection, error) {
	page, err := s.api.SearchCollections(ctx, term)
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Cached returns the current snapshot and the time it was taken. An empty
// snapshot with a zero time means no sync has succeeded yet.
func (s *Service) Cached(ctx context.Context) ([]intuto.Collection, time.Time, error) {
	snapshot, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, time.Time{}, nil
		}
		return nil, time.Time{}, err
	}
	return snapshot.Items, snapshot.SyncedAt, nil
}

func (s *Service) LocalCount(ctx context.Context) (int, error) {
	items, _, err := s.Cached(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// RemoteCount asks the API for the total without fetching the full set.
func (s *Service) RemoteCount(ctx context.Context) (int, error) {
	page, err := s.api.ListCollections(ctx, 0, 10)
	if err != nil {
		return 0, err
	}
	return page.Total, nil
}

// CountMessage is the human-readable local/remote comparison shown on the
// admin sync page.
func (s *Service) CountMessage(ctx context.Context) string {
	localCount, err := s.LocalCount(ctx)
	if err != nil {
		return "Unable to read the local collection store."
	}
	remoteCount, err := s.RemoteCount(ctx)
	if err != nil {
		return fmt.Sprintf("You currently have %d collections listed locally; the remote count is unavailable.", localCount)
	}
	return fmt.Sprintf("You currently have %d collections listed locally and %d in your Intuto account. To update your local store, refresh now.", localCount, remoteCount)
}

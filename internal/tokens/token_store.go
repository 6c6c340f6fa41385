package tokens

import (
	"context"
	"errors"
	"time"

	"github.com/futurelab/intuto-connect/internal/store"
	"github.com/futurelab/intuto-connect/params"
)

const (
	accessTokenKey  = "access"
	refreshTokenKey = "refresh"
)

// TokenRecord is the cached access token together with its absolute expiry.
type TokenRecord struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Valid reports whether the access token can still be presented to the API:
// now must precede ExpiresAt, and a zero-value record (no token stored yet)
// is never valid regardless of its expiry.
func (t TokenRecord) Valid(now time.Time) bool {
	return t.AccessToken != "" && now.Before(t.ExpiresAt)
}

type refreshTokenRecord struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenStore persists the OAuth token pair. It performs no network calls.
// Only the OAuth client mutates it (single-writer access pattern); readers
// may observe either the old or the new record during a refresh, both of
// which are safe to present.
type TokenStore struct {
	tokens store.Store[TokenRecord]
	fresh  store.Store[refreshTokenRecord]
}

func (s *TokenStore) Get(ctx context.Context) (TokenRecord, error) {
	return s.tokens.Get(ctx, accessTokenKey)
}

func (s *TokenStore) Put(ctx context.Context, record TokenRecord) error {
	return s.tokens.Save(ctx, accessTokenKey, record)
}

// RefreshToken returns the stored refresh token, or store.ErrNotFound when
// the site has never been authorized (or has been deauthorized).
func (s *TokenStore) RefreshToken(ctx context.Context) (string, error) {
	record, err := s.fresh.Get(ctx, refreshTokenKey)
	if err != nil {
		return "", err
	}
	if record.RefreshToken == "" {
		return "", store.ErrNotFound
	}
	return record.RefreshToken, nil
}

func (s *TokenStore) PutRefreshToken(ctx context.Context, refreshToken string) error {
	return s.fresh.Save(ctx, refreshTokenKey, refreshTokenRecord{RefreshToken: refreshToken})
}

// ClearAll destroys both tokens. Called on deauthorization.
func (s *TokenStore) ClearAll(ctx context.Context) error {
	errAccess := s.tokens.Delete(ctx, accessTokenKey)
	errRefresh := s.fresh.Delete(ctx, refreshTokenKey)
	if errAccess != nil && !errors.Is(errAccess, store.ErrNotFound) {
		return errAccess
	}
	if errRefresh != nil && !errors.Is(errRefresh, store.ErrNotFound) {
		return errRefresh
	}
	return nil
}

func NewTokenStore(storage store.Storage) *TokenStore {
	return &TokenStore{
		tokens: store.New[TokenRecord](storage, params.TokenKeyPrefix),
		fresh:  store.New[refreshTokenRecord](storage, params.TokenKeyPrefix),
	}
}

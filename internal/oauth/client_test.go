package oauth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/futurelab/intuto-connect/internal/store"
	"github.com/futurelab/intuto-connect/internal/tokens"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "client-1"
	testClientSecret = "secret-1"
	testRedirectURI  = "https://shop.example.com/oauth/callback"
)

func newTestClient(t *testing.T, tokenURL string) (*Client, *tokens.TokenStore) {
	t.Helper()
	storage := store.NewMemoryStorage()
	tokenStore := tokens.NewTokenStore(storage)
	endpoints := EndpointsFor(false)
	endpoints.TokenURL = tokenURL
	return NewClient(testClientID, testClientSecret, testRedirectURI, endpoints, tokenStore, storage), tokenStore
}

func TestEndpointsFor(t *testing.T) {
	prod := EndpointsFor(false)
	require.Equal(t, "https://api.intuto.com/v2/", prod.APIBase)
	require.Contains(t, prod.AuthorizeURL, "identity.intuto.com")

	sandbox := EndpointsFor(true)
	require.Equal(t, "https://api-sandbox.intuto.com/v2/", sandbox.APIBase)
	require.Contains(t, sandbox.TokenURL, "identity-sandbox.intuto.com")
}

func TestAuthorizationURL(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t, "http://unused")

	rawURL, err := client.AuthorizationURL(ctx)
	require.NoError(t, err)

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	query := parsed.Query()
	require.Equal(t, "code", query.Get("response_type"))
	require.Equal(t, testClientID, query.Get("client_id"))
	require.Equal(t, testRedirectURI, query.Get("redirect_uri"))
	require.Equal(t, "offline_access apiv2", query.Get("scope"))
	require.NotEmpty(t, query.Get("state"))

	// the issued state verifies exactly once
	require.NoError(t, client.VerifyState(ctx, query.Get("state")))
	require.ErrorIs(t, client.VerifyState(ctx, query.Get("state")), ErrSecurityCheckFailed)
}

func TestVerifyStateRejectsUnknownNonce(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t, "http://unused")

	require.ErrorIs(t, client.VerifyState(ctx, "forged-state"), ErrSecurityCheckFailed)
	require.ErrorIs(t, client.VerifyState(ctx, ""), ErrSecurityCheckFailed)
}

func TestExchangeCode(t *testing.T) {
	ctx := context.Background()

	var gotForm url.Values
	var gotAuthorization string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		gotAuthorization = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"at-1","expires_in":3600,"refresh_token":"rt-1"}`))
	}))
	defer server.Close()

	client, tokenStore := newTestClient(t, server.URL)

	record, err := client.ExchangeCode(ctx, "auth-code-1")
	require.NoError(t, err)
	require.Equal(t, "at-1", record.AccessToken)
	require.True(t, record.Valid(time.Now()))

	require.Equal(t, "authorization_code", gotForm.Get("grant_type"))
	require.Equal(t, "auth-code-1", gotForm.Get("code"))
	require.Equal(t, testRedirectURI, gotForm.Get("redirect_uri"))

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte(testClientID+":"+testClientSecret))
	require.Equal(t, wantAuth, gotAuthorization)

	stored, err := tokenStore.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "at-1", stored.AccessToken)

	refreshToken, err := tokenStore.RefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "rt-1", refreshToken)
}

func TestExchangeCodeFailure(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	client, tokenStore := newTestClient(t, server.URL)

	_, err := client.ExchangeCode(ctx, "bad-code")
	require.ErrorIs(t, err, ErrExchangeFailed)

	_, err = tokenStore.Get(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestExchangeCodeMalformedBody(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server.URL)

	_, err := client.ExchangeCode(ctx, "auth-code-1")
	require.ErrorIs(t, err, ErrExchangeFailed)
}

func TestRefreshWithoutStoredToken(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t, "http://unused")

	_, err := client.Refresh(ctx)
	require.ErrorIs(t, err, ErrNoRefreshToken)
}

func TestRefreshRotatesRefreshToken(t *testing.T) {
	ctx := context.Background()

	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm
		w.Write([]byte(`{"access_token":"at-2","expires_in":3600,"refresh_token":"rt-2"}`))
	}))
	defer server.Close()

	client, tokenStore := newTestClient(t, server.URL)
	require.NoError(t, tokenStore.PutRefreshToken(ctx, "rt-1"))

	record, err := client.Refresh(ctx)
	require.NoError(t, err)
	require.Equal(t, "at-2", record.AccessToken)

	require.Equal(t, "refresh_token", gotForm.Get("grant_type"))
	require.Equal(t, "rt-1", gotForm.Get("refresh_token"))

	refreshToken, err := tokenStore.RefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "rt-2", refreshToken)
}

func TestRefreshRejectedKeepsOldToken(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, tokenStore := newTestClient(t, server.URL)
	require.NoError(t, tokenStore.PutRefreshToken(ctx, "rt-1"))

	_, err := client.Refresh(ctx)
	require.ErrorIs(t, err, ErrExchangeFailed)

	refreshToken, err := tokenStore.RefreshToken(ctx)
	require.NoError(t, err)
	require.Equal(t, "rt-1", refreshToken)
}

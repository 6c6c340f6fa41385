package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/futurelab/intuto-connect/internal/store"
	"github.com/futurelab/intuto-connect/internal/tokens"
	"github.com/futurelab/intuto-connect/params"
	"github.com/google/uuid"
)

type stateRecord struct {
	IssuedAt time.Time `json:"issuedAt"`
}

// Client implements the authorization-code and refresh-token grants against
// the Intuto identity server and persists the resulting token pair.
type Client struct {
	clientID     string
	clientSecret string
	redirectURI  string
	endpoints    Endpoints
	tokenStore   *tokens.TokenStore
	stateStore   store.Store[stateRecord]
	httpClient   *http.Client
}

func NewClient(clientID, clientSecret, redirectURI string, endpoints Endpoints, tokenStore *tokens.TokenStore, storage store.Storage) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		endpoints:    endpoints,
		tokenStore:   tokenStore,
		stateStore:   store.New[stateRecord](storage, params.OAuthStateKeyPrefix),
		httpClient:   &http.Client{Timeout: params.APIRequestTimeout},
	}
}

func (c *Client) TokenStore() *tokens.TokenStore {
	return c.tokenStore
}

// AuthorizationURL issues a fresh anti-forgery state nonce and composes the
// authorization URL the admin must be redirected to.
func (c *Client) AuthorizationURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	err := c.stateStore.Set(ctx, state, stateRecord{IssuedAt: time.Now()}, params.OAuthStateExpiration)
	if err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", c.clientID)
	query.Set("redirect_uri", c.redirectURI)
	query.Set("scope", params.OAuthScope)
	query.Set("state", state)
	return c.endpoints.AuthorizeURL + "?" + query.Encode(), nil
}

// VerifyState consumes the state nonce returned on the authorization
// callback. A nonce that was never issued, has expired, or has already been
// used fails the security check; the caller must not proceed to the code
// exchange.
func (c *Client) VerifyState(ctx context.Context, state string) error {
	if state == "" {
		return ErrSecurityCheckFailed
	}
	if _, err := c.stateStore.Get(ctx, state); err != nil {
		return ErrSecurityCheckFailed
	}
	if err := c.stateStore.Delete(ctx, state); err != nil {
		return ErrSecurityCheckFailed
	}
	return nil
}

// ExchangeCode trades an authorization code for a token pair and persists it.
func (c *Client) ExchangeCode(ctx context.Context, code string) (tokens.TokenRecord, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)
	return c.exchangeToken(ctx, form)
}

// Refresh trades the stored refresh token for a new token pair. The stored
// refresh token is overwritten with the value in the response: the server may
// rotate it each cycle and the old one must not be reused.
func (c *Client) Refresh(ctx context.Context) (tokens.TokenRecord, error) {
	refreshToken, err := c.tokenStore.RefreshToken(ctx)
	if err != nil {
		slog.Error("token refresh requested but no refresh token stored")
		return tokens.TokenRecord{}, ErrNoRefreshToken
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return c.exchangeToken(ctx, form)
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
}

func (c *Client) basicAuthorization() string {
	return base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
}

func (c *Client) exchangeToken(ctx context.Context, form url.Values) (tokens.TokenRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoints.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return tokens.TokenRecord{}, err
	}
	req.Header.Set("Authorization", "Basic "+c.basicAuthorization())
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("token endpoint unreachable", "url", c.endpoints.TokenURL, "error", err)
		return tokens.TokenRecord{}, ErrExchangeFailed
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("failed to read token response", "url", c.endpoints.TokenURL, "error", err)
		return tokens.TokenRecord{}, ErrExchangeFailed
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("token exchange failed", "url", c.endpoints.TokenURL, "status", resp.StatusCode, "grant", form.Get("grant_type"))
		return tokens.TokenRecord{}, ErrExchangeFailed
	}

	var data tokenResponse
	if err := json.Unmarshal(body, &data); err != nil || data.AccessToken == "" {
		slog.Error("malformed token response", "url", c.endpoints.TokenURL, "grant", form.Get("grant_type"))
		return tokens.TokenRecord{}, ErrExchangeFailed
	}

	record := tokens.TokenRecord{
		AccessToken: data.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(data.ExpiresIn) * time.Second),
	}
	if err := c.tokenStore.Put(ctx, record); err != nil {
		return tokens.TokenRecord{}, err
	}
	if data.RefreshToken != "" {
		if err := c.tokenStore.PutRefreshToken(ctx, data.RefreshToken); err != nil {
			return tokens.TokenRecord{}, err
		}
	}
	return record, nil
}

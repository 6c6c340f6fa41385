package intuto

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/futurelab/intuto-connect/internal/tokens"
	"github.com/futurelab/intuto-connect/params"
)

// TokenRefresher renews the cached access token. Implemented by the OAuth
// client.
type TokenRefresher interface {
	Refresh(ctx context.Context) (tokens.TokenRecord, error)
}

// Client performs bearer-authenticated calls against the Intuto resource
// API, refreshing the access token on demand.
type Client struct {
	apiBase    string
	tokenStore *tokens.TokenStore
	refresher  TokenRefresher
	httpClient *http.Client
}

func NewClient(apiBase string, tokenStore *tokens.TokenStore, refresher TokenRefresher) *Client {
	return &Client{
		apiBase:    apiBase,
		tokenStore: tokenStore,
		refresher:  refresher,
		httpClient: &http.Client{Timeout: params.APIRequestTimeout},
	}
}

// bearerToken returns a currently valid access token. An absent or expired
// token triggers exactly one synchronous refresh before re-reading the
// store. If no valid token can be obtained the empty string is returned and
// the call proceeds anyway; the API's 401 is logged rather than the call
// being short-circuited.
func (c *Client) bearerToken(ctx context.Context) string {
	record, err := c.tokenStore.Get(ctx)
	if err == nil && record.Valid(time.Now()) {
		return record.AccessToken
	}

	if _, err := c.refresher.Refresh(ctx); err != nil {
		slog.Error("access token refresh failed", "error", err)
	}

	record, err = c.tokenStore.Get(ctx)
	if err == nil && record.Valid(time.Now()) {
		return record.AccessToken
	}
	return ""
}

// Call issues one API request and returns the raw response body. A non-200
// status is logged with its body but the body is still returned: some
// non-200 responses carry meaningful payloads (structured errors, empty
// search results) that the caller is responsible for interpreting. Only
// transport-level failures yield an error.
func (c *Client) Call(ctx context.Context, method string, endpoint string, body []byte) ([]byte, error) {
	url := c.apiBase + endpoint

	var reqBody io.Reader
	if len(body) > 0 {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken(ctx))
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Error("api call failed", "endpoint", endpoint, "error", err)
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("api call returned non-success status",
			"endpoint", endpoint, "status", resp.StatusCode, "body", string(respBody))
	}

	return respBody, nil
}

package intuto

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/futurelab/intuto-connect/params"
)

// ListCollections fetches one page of the company's collections. The limit
// is clamped to the hard maximum the API enforces.
func (c *Client) ListCollections(ctx context.Context, offset int, limit int) (CollectionPage, error) {
	if limit > params.APIQueryMaxLimit {
		limit = params.APIQueryMaxLimit
	}
	endpoint := fmt.Sprintf("collection?limit=%d&offset=%d", limit, offset)

	body, err := c.Call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return CollectionPage{}, err
	}

	var page CollectionPage
	if err := json.Unmarshal(body, &page); err != nil {
		return CollectionPage{}, err
	}
	return page, nil
}

// SearchCollections searches collection names for a term. Limited to the
// first 100 results by the API.
func (c *Client) SearchCollections(ctx context.Context, term string) (CollectionPage, error) {
	endpoint := "collection?search=" + url.QueryEscape(term)

	body, err := c.Call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return CollectionPage{}, err
	}

	var page CollectionPage
	if err := json.Unmarshal(body, &page); err != nil {
		return CollectionPage{}, err
	}
	return page, nil
}

package intuto

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
)

func sendEmailsQuery(sendEmails bool) string {
	if sendEmails {
		return "?sendEmails=true"
	}
	return "?sendEmails=false"
}

// CreateMembers creates members in the company. The endpoint is idempotent
// by email: posting an email that already exists returns the existing
// member's record in the same shape as a newly created one, and callers must
// not distinguish the two cases.
func (c *Client) CreateMembers(ctx context.Context, members []Member, sendEmails bool) ([]MemberResult, error) {
	endpoint := "companymember" + sendEmailsQuery(sendEmails)

	payload, err := json.Marshal(members)
	if err != nil {
		return nil, err
	}

	body, err := c.Call(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, err
	}

	var results []MemberResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// ListMembers lists the company's members. Limited to 100 items by the API.
func (c *Client) ListMembers(ctx context.Context) ([]MemberResult, error) {
	body, err := c.Call(ctx, http.MethodGet, "companymember", nil)
	if err != nil {
		return nil, err
	}

	var results []MemberResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// AddToCollection enrolls existing members in a collection.
func (c *Client) AddToCollection(ctx context.Context, collectionID int64, memberIDs []int64, sendEmails bool) error {
	endpoint := "collection/" + strconv.FormatInt(collectionID, 10) + "/collectionmember" + sendEmailsQuery(sendEmails)

	payload, err := json.Marshal(memberIDs)
	if err != nil {
		return err
	}

	_, err = c.Call(ctx, http.MethodPost, endpoint, payload)
	return err
}

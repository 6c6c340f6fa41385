package intuto

// Wire types for the Intuto v2 API. Field names follow the PascalCase JSON
// the API emits.

type Collection struct {
	CollectionID   int64  `json:"CollectionId"`
	CollectionName string `json:"CollectionName"`
	MemberCount    int    `json:"MemberCount"`
	MaxMembers     int    `json:"MaxMembers"`
}

// CollectionPage is one page of a collection listing. Total is the size of
// the full remote set, not of this page.
type CollectionPage struct {
	Total int          `json:"Total"`
	Data  []Collection `json:"Data"`
}

type Member struct {
	UserID    int64  `json:"UserId,omitempty"`
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Email     string `json:"Email"`
	Phone     string `json:"Phone,omitempty"`
}

// MemberResult wraps one element of the companymember response. The API
// returns the same shape whether the member was created or already existed.
type MemberResult struct {
	Member *Member `json:"Member"`
}

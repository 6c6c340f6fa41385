package purchase

import "errors"

var (
	ErrMissingBillingInfo      = errors.New("missing required billing fields")
	ErrMalformedMemberResponse = errors.New("malformed member response")
)

package oauth

import "errors"

var (
	ErrExchangeFailed      = errors.New("token exchange failed")
	ErrNoRefreshToken      = errors.New("no refresh token stored")
	ErrSecurityCheckFailed = errors.New("state verification failed")
)

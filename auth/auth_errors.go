package auth

import "errors"

var (
	NoCredentialsErr       = errors.New("no client credentials configured")
	InvalidStateErr        = errors.New("invalid state parameter")
	TokenExchangeFailedErr = errors.New("token exchange failed")
	RefreshFailedErr       = errors.New("token refresh failed")
)

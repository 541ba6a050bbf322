package config

import "time"

type OAuthConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetAuthorizeURL() string
	GetTokenURL() string
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetStateLength() int
	GetProactiveRefreshWindow() time.Duration
	GetConnectedRefreshWindow() time.Duration
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetClientID() string {
	return GetEnv("CLEVERREACH_CLIENT_ID", "")
}

func (OAuth) GetClientSecret() string {
	return GetEnv("CLEVERREACH_CLIENT_SECRET", "")
}

func (o OAuth) GetRedirectURI() string {
	if uri := GetEnv("CLEVERREACH_REDIRECT_URI", ""); uri != "" {
		return uri
	}
	return EnvVars{}.GetBaseURL() + "/oauth/callback"
}

func (OAuth) GetAuthorizeURL() string {
	return GetEnv("CLEVERREACH_AUTHORIZE_URL", "https://rest.cleverreach.com/oauth/authorize.php")
}

func (OAuth) GetTokenURL() string {
	return GetEnv("CLEVERREACH_TOKEN_URL", "https://rest.cleverreach.com/oauth/token.php")
}

func (OAuth) GetAPIBaseURL() string {
	return GetEnv("CLEVERREACH_API_URL", "https://rest.cleverreach.com/v3")
}

func (OAuth) GetRequestTimeout() time.Duration {
	return 30 * time.Second
}

func (OAuth) GetStateLength() int {
	return 32 // 32 bytes = 256 bits
}

// GetProactiveRefreshWindow is how close to expiry a token may get before a
// request-path refresh is forced.
func (OAuth) GetProactiveRefreshWindow() time.Duration {
	return 1 * time.Hour
}

// GetConnectedRefreshWindow is the remaining lifetime below which a
// connectivity check triggers a best-effort background refresh.
func (OAuth) GetConnectedRefreshWindow() time.Duration {
	return 7 * 24 * time.Hour
}

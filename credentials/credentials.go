package credentials

import "errors"

var (
	ErrNoCredentials = errors.New("no client credentials configured")
	ErrIncomplete    = errors.New("incomplete client credentials")
)

// Credentials are the admin-supplied OAuth client settings for the remote
// marketing API. They change only when the admin saves the settings screen.
type Credentials struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectUri"`
}

// Validate checks that every field needed for the authorization-code flow is
// present.
func (c Credentials) Validate() error {
	if c.ClientID == "" && c.ClientSecret == "" {
		return ErrNoCredentials
	}
	if c.ClientID == "" || c.ClientSecret == "" || c.RedirectURI == "" {
		return ErrIncomplete
	}
	return nil
}

package credentials

import "github.com/lexo-ch/lexo-forms-sub000/internal/config"

// Provider supplies the current credentials. The settings layer owns the
// values; the core only reads them.
type Provider interface {
	Get() (Credentials, error)
}

var _ Provider = (*ConfigProvider)(nil)

// ConfigProvider reads the credentials from the process configuration.
type ConfigProvider struct {
	config config.OAuthConfig
}

func NewConfigProvider(cfg config.OAuthConfig) *ConfigProvider {
	return &ConfigProvider{config: cfg}
}

func (p *ConfigProvider) Get() (Credentials, error) {
	creds := Credentials{
		ClientID:     p.config.GetClientID(),
		ClientSecret: p.config.GetClientSecret(),
		RedirectURI:  p.config.GetRedirectURI(),
	}
	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

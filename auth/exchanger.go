package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lexo-ch/lexo-forms-sub000/credentials"
	"github.com/lexo-ch/lexo-forms-sub000/internal/config"
	"github.com/lexo-ch/lexo-forms-sub000/token"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// defaultTokenLifetime is assumed when the token endpoint returns neither an
// expires_in hint nor a parseable exp claim in the access token.
const defaultTokenLifetime = 24 * time.Hour

// Exchanger covers the outbound side of the OAuth authorization-code flow.
// Injected so tests can count refresh calls without a network.
type Exchanger interface {
	AuthCodeURL(creds credentials.Credentials, state string) string
	Exchange(ctx context.Context, creds credentials.Credentials, code string) (*token.Record, error)
	Refresh(ctx context.Context, creds credentials.Credentials, refreshToken string) (*token.Record, error)
}

var _ Exchanger = (*OAuth2Exchanger)(nil)

// OAuth2Exchanger talks to the remote token endpoint through the standard
// oauth2 library.
type OAuth2Exchanger struct {
	authorizeURL string
	tokenURL     string
	nowTime      func() time.Time
}

func NewOAuth2Exchanger(cfg config.OAuthConfig) *OAuth2Exchanger {
	return &OAuth2Exchanger{
		authorizeURL: cfg.GetAuthorizeURL(),
		tokenURL:     cfg.GetTokenURL(),
		nowTime:      time.Now,
	}
}

func (e *OAuth2Exchanger) oauthConfig(creds credentials.Credentials) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		RedirectURL:  creds.RedirectURI,
		Endpoint: oauth2.Endpoint{
			AuthURL:   e.authorizeURL,
			TokenURL:  e.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthCodeURL builds the authorize redirect for the given state value.
func (e *OAuth2Exchanger) AuthCodeURL(creds credentials.Credentials, state string) string {
	return e.oauthConfig(creds).AuthCodeURL(state)
}

func (e *OAuth2Exchanger) Exchange(ctx context.Context, creds credentials.Credentials, code string) (*token.Record, error) {
	oauthToken, err := e.oauthConfig(creds).Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "[OAuth2Exchanger.Exchange] token endpoint")
	}
	return e.toRecord(oauthToken)
}

func (e *OAuth2Exchanger) Refresh(ctx context.Context, creds credentials.Credentials, refreshToken string) (*token.Record, error) {
	// A token source seeded with only a refresh token always hits the
	// endpoint with grant_type=refresh_token.
	source := e.oauthConfig(creds).TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	oauthToken, err := source.Token()
	if err != nil {
		return nil, errors.Wrap(err, "[OAuth2Exchanger.Refresh] token endpoint")
	}
	record, err := e.toRecord(oauthToken)
	if err != nil {
		return nil, err
	}
	if record.RefreshToken == "" {
		// The endpoint may omit the refresh token when it does not rotate.
		record.RefreshToken = refreshToken
	}
	return record, nil
}

func (e *OAuth2Exchanger) toRecord(oauthToken *oauth2.Token) (*token.Record, error) {
	if oauthToken.AccessToken == "" {
		return nil, errors.New("[OAuth2Exchanger] token response contains no access token")
	}

	expiresAt := oauthToken.Expiry
	if expiresAt.IsZero() {
		expiresAt = e.expiryFromClaims(oauthToken.AccessToken)
	}
	if expiresAt.IsZero() {
		expiresAt = e.nowTime().Add(defaultTokenLifetime)
	}

	return &token.Record{
		AccessToken:  oauthToken.AccessToken,
		RefreshToken: oauthToken.RefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// expiryFromClaims recovers the expiry from the access token's exp claim.
// The remote API issues JWT access tokens, so this covers token responses
// that omit expires_in.
func (e *OAuth2Exchanger) expiryFromClaims(accessToken string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

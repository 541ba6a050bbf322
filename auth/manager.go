package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/lexo-ch/lexo-forms-sub000/auth/staterepo"
	"github.com/lexo-ch/lexo-forms-sub000/credentials"
	"github.com/lexo-ch/lexo-forms-sub000/internal/config"
	"github.com/lexo-ch/lexo-forms-sub000/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// stateTimeout bounds how long a generated state value stays redeemable.
const stateTimeout = 15 * time.Minute

// Repos holds all repository dependencies for the Manager
type Repos struct {
	Tokens token.Repo     // Repository for the token record
	States staterepo.Repo // Repository for the pending anti-CSRF state
}

// Manager owns the OAuth authorization-code flow against the remote
// marketing API and keeps the stored token usable through proactive refresh.
type Manager struct {
	repos       Repos
	credentials credentials.Provider
	exchanger   Exchanger
	config      config.OAuthConfig
	nowTime     func() time.Time // nowTime function (injectable for testing)
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithExchanger replaces the production token-endpoint exchanger.
func WithExchanger(exchanger Exchanger) ManagerOption {
	return func(m *Manager) {
		m.exchanger = exchanger
	}
}

// NewManager initializes a new Manager with required dependencies.
func NewManager(repos Repos, credentialsProvider credentials.Provider, cfg config.OAuthConfig, options ...ManagerOption) (*Manager, error) {
	if repos.Tokens == nil {
		return nil, errors.New("[NewManager] Tokens repo is required")
	}
	if repos.States == nil {
		return nil, errors.New("[NewManager] States repo is required")
	}
	if credentialsProvider == nil {
		return nil, errors.New("[NewManager] credentials provider is required")
	}

	manager := &Manager{
		repos:       repos,
		credentials: credentialsProvider,
		exchanger:   NewOAuth2Exchanger(cfg),
		config:      cfg,
		nowTime:     time.Now,
	}

	for _, opt := range options {
		opt(manager)
	}

	return manager, nil
}

// AuthorizationURL builds the authorize redirect with a freshly generated
// anti-CSRF state value and persists the state for one-time verification.
func (m *Manager) AuthorizationURL() (string, error) {
	creds, err := m.credentials.Get()
	if err != nil {
		return "", errors.Wrap(NoCredentialsErr, err.Error())
	}

	state, err := generateState(m.config.GetStateLength())
	if err != nil {
		return "", errors.Wrap(err, "[Manager.AuthorizationURL] generate state")
	}

	if err := m.repos.States.Set(&staterepo.PendingState{Value: state, CreatedAt: m.nowTime()}); err != nil {
		return "", errors.Wrap(err, "[Manager.AuthorizationURL] persist state")
	}

	return m.exchanger.AuthCodeURL(creds, state), nil
}

// CompleteAuthorization verifies the state, exchanges the code for tokens and
// persists the resulting record.
func (m *Manager) CompleteAuthorization(ctx context.Context, code, state string) error {
	creds, err := m.credentials.Get()
	if err != nil {
		return errors.Wrap(NoCredentialsErr, err.Error())
	}

	pending, err := m.repos.States.Get()
	if err != nil {
		return errors.Wrap(InvalidStateErr, "no pending authorization")
	}
	if m.nowTime().Sub(pending.CreatedAt) > stateTimeout {
		_ = m.repos.States.Clear()
		return errors.Wrap(InvalidStateErr, "state expired")
	}
	if subtle.ConstantTimeCompare([]byte(pending.Value), []byte(state)) != 1 {
		return InvalidStateErr
	}

	// State is single-use
	if err := m.repos.States.Clear(); err != nil {
		return errors.Wrap(err, "[Manager.CompleteAuthorization] clear state")
	}

	record, err := m.exchanger.Exchange(ctx, creds, code)
	if err != nil {
		return errors.Wrap(TokenExchangeFailedErr, err.Error())
	}

	if err := m.repos.Tokens.Save(record); err != nil {
		return errors.Wrap(err, "[Manager.CompleteAuthorization] save token")
	}

	log.Info().Str("component", "auth").Time("expires_at", record.ExpiresAt).Msg("Authorization completed")
	return nil
}

// ValidToken returns a usable access token, refreshing first when the stored
// token is absent, expired, or inside the proactive refresh window.
func (m *Manager) ValidToken(ctx context.Context) (string, error) {
	creds, err := m.credentials.Get()
	if err != nil {
		return "", errors.Wrap(NoCredentialsErr, err.Error())
	}

	record, err := m.repos.Tokens.Get()
	if err != nil && !errors.Is(err, token.ErrNoToken) {
		return "", errors.Wrap(err, "[Manager.ValidToken] load token")
	}

	validity := record.Validity(m.nowTime(), m.config.GetProactiveRefreshWindow())
	if validity == token.Valid {
		return record.AccessToken, nil
	}

	refreshed, refreshErr := m.refresh(ctx, creds, record)
	if refreshErr == nil {
		return refreshed.AccessToken, nil
	}

	// A failed refresh keeps the prior record. An ExpiringSoon token is
	// still usable; anything else is a hard failure.
	if validity == token.ExpiringSoon {
		log.Warn().Str("component", "auth").Err(refreshErr).Msg("Proactive refresh failed, using remaining token lifetime")
		return record.AccessToken, nil
	}
	return "", errors.Wrap(RefreshFailedErr, refreshErr.Error())
}

// IsConnected reports whether a non-expired token exists. As a side effect a
// token within the connected-refresh window triggers a best-effort refresh;
// its failure never changes the answer for the current check.
func (m *Manager) IsConnected(ctx context.Context) bool {
	record, err := m.repos.Tokens.Get()
	if err != nil {
		return false
	}

	now := m.nowTime()
	if record.Validity(now, 0) == token.Expired || record.AccessToken == "" {
		return false
	}

	if record.RemainingLifetime(now) < m.config.GetConnectedRefreshWindow() {
		creds, err := m.credentials.Get()
		if err == nil {
			if _, err := m.refresh(ctx, creds, record); err != nil {
				log.Warn().Str("component", "auth").Err(err).Msg("Background refresh failed, existing token still valid")
			}
		}
	}
	return true
}

// RefreshNow refreshes unconditionally. Used by the scheduled weekly refresh;
// callers tolerate the error (the next request-path refresh retries).
func (m *Manager) RefreshNow(ctx context.Context) error {
	creds, err := m.credentials.Get()
	if err != nil {
		return errors.Wrap(NoCredentialsErr, err.Error())
	}
	record, err := m.repos.Tokens.Get()
	if err != nil {
		return errors.Wrap(err, "[Manager.RefreshNow] load token")
	}
	if _, err := m.refresh(ctx, creds, record); err != nil {
		return err
	}
	return nil
}

func (m *Manager) refresh(ctx context.Context, creds credentials.Credentials, record *token.Record) (*token.Record, error) {
	if record == nil || record.RefreshToken == "" {
		return nil, errors.Wrap(RefreshFailedErr, "no refresh token available")
	}

	refreshed, err := m.exchanger.Refresh(ctx, creds, record.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(RefreshFailedErr, err.Error())
	}

	if err := m.repos.Tokens.Save(refreshed); err != nil {
		return nil, errors.Wrap(err, "[Manager.refresh] save token")
	}

	log.Info().Str("component", "auth").Time("expires_at", refreshed.ExpiresAt).Msg("Token refreshed")
	return refreshed, nil
}

func generateState(length int) (string, error) {
	stateBytes := make([]byte, length)
	if _, err := rand.Read(stateBytes); err != nil {
		return "", errors.Wrap(err, "rand.Read")
	}
	return hex.EncodeToString(stateBytes), nil
}

package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lexo-ch/lexo-forms-sub000/auth"
	"github.com/lexo-ch/lexo-forms-sub000/auth/exchangerfake"
	"github.com/lexo-ch/lexo-forms-sub000/auth/staterepo"
	"github.com/lexo-ch/lexo-forms-sub000/credentials"
	"github.com/lexo-ch/lexo-forms-sub000/credentials/providerfake"
	"github.com/lexo-ch/lexo-forms-sub000/internal/config"
	"github.com/lexo-ch/lexo-forms-sub000/token"
	tokenrepofake "github.com/lexo-ch/lexo-forms-sub000/token/repofake"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "client-1"
	testClientSecret = "secret-1"
	testRedirectURI  = "http://localhost:8080/oauth/callback"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

// testFixture holds all test dependencies
type testFixture struct {
	tokenRepo *tokenrepofake.FakeTokenRepo
	stateRepo staterepo.Repo
	exchanger *exchangerfake.FakeExchanger
	manager   *auth.Manager
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	tr := tokenrepofake.NewFakeTokenRepo()
	sr := staterepo.NewInMemoryRepo()
	ex := exchangerfake.NewFakeExchanger()
	ex.NowTime = func() time.Time { return testNow }

	provider := providerfake.NewFakeProvider(credentials.Credentials{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURI:  testRedirectURI,
	})

	manager, err := auth.NewManager(
		auth.Repos{Tokens: tr, States: sr},
		provider,
		config.OAuth{},
		auth.WithExchanger(ex),
		auth.WithNowTime(func() time.Time { return testNow }),
	)
	require.NoError(t, err)

	return &testFixture{
		tokenRepo: tr,
		stateRepo: sr,
		exchanger: ex,
		manager:   manager,
	}
}

func (f *testFixture) storeToken(t *testing.T, expiresAt time.Time) {
	t.Helper()
	require.NoError(t, f.tokenRepo.Save(&token.Record{
		AccessToken:  "stored-access",
		RefreshToken: "stored-refresh",
		ExpiresAt:    expiresAt,
	}))
}

func TestAuthorizationURLPersistsState(t *testing.T) {
	f := setupTestFixture(t)

	url, err := f.manager.AuthorizationURL()
	require.NoError(t, err)

	pending, err := f.stateRepo.Get()
	require.NoError(t, err)
	require.NotEmpty(t, pending.Value)
	require.Contains(t, url, "state="+pending.Value)
	require.Contains(t, url, "client_id="+testClientID)
}

func TestAuthorizationURLWithoutCredentials(t *testing.T) {
	f := setupTestFixture(t)

	manager, err := auth.NewManager(
		auth.Repos{Tokens: f.tokenRepo, States: f.stateRepo},
		providerfake.NewEmptyProvider(),
		config.OAuth{},
		auth.WithExchanger(f.exchanger),
	)
	require.NoError(t, err)

	_, err = manager.AuthorizationURL()
	require.ErrorIs(t, err, auth.NoCredentialsErr)
}

func TestCompleteAuthorizationStoresTokens(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.manager.AuthorizationURL()
	require.NoError(t, err)
	pending, err := f.stateRepo.Get()
	require.NoError(t, err)

	err = f.manager.CompleteAuthorization(context.Background(), "auth-code", pending.Value)
	require.NoError(t, err)
	require.Equal(t, 1, f.exchanger.ExchangeCalls())

	record, err := f.tokenRepo.Get()
	require.NoError(t, err)
	require.NotEmpty(t, record.AccessToken)
	require.NotEmpty(t, record.RefreshToken)
	require.False(t, record.ExpiresAt.IsZero())

	// State is single-use
	_, err = f.stateRepo.Get()
	require.ErrorIs(t, err, staterepo.ErrNoPendingState)
}

func TestCompleteAuthorizationRejectsMismatchedState(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.manager.AuthorizationURL()
	require.NoError(t, err)

	err = f.manager.CompleteAuthorization(context.Background(), "auth-code", "forged-state")
	require.ErrorIs(t, err, auth.InvalidStateErr)
	require.Equal(t, 0, f.exchanger.ExchangeCalls())
}

func TestCompleteAuthorizationRejectsExpiredState(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.stateRepo.Set(&staterepo.PendingState{
		Value:     "old-state",
		CreatedAt: testNow.Add(-16 * time.Minute),
	}))

	err := f.manager.CompleteAuthorization(context.Background(), "auth-code", "old-state")
	require.ErrorIs(t, err, auth.InvalidStateErr)
}

func TestCompleteAuthorizationExchangeFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.exchanger.ExchangeErr = errors.New("boom")

	_, err := f.manager.AuthorizationURL()
	require.NoError(t, err)
	pending, err := f.stateRepo.Get()
	require.NoError(t, err)

	err = f.manager.CompleteAuthorization(context.Background(), "auth-code", pending.Value)
	require.ErrorIs(t, err, auth.TokenExchangeFailedErr)

	_, err = f.tokenRepo.Get()
	require.ErrorIs(t, err, token.ErrNoToken)
}

func TestValidTokenRefreshesInsideProactiveWindow(t *testing.T) {
	f := setupTestFixture(t)
	f.storeToken(t, testNow.Add(30*time.Minute))

	accessToken, err := f.manager.ValidToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, f.exchanger.RefreshCalls())
	require.True(t, strings.HasPrefix(accessToken, "refreshed-access"))
}

func TestValidTokenSkipsRefreshForLongLivedToken(t *testing.T) {
	f := setupTestFixture(t)
	f.storeToken(t, testNow.Add(30*24*time.Hour))

	accessToken, err := f.manager.ValidToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, f.exchanger.RefreshCalls())
	require.Equal(t, "stored-access", accessToken)
}

func TestValidTokenFailedProactiveRefreshKeepsUsableToken(t *testing.T) {
	f := setupTestFixture(t)
	f.storeToken(t, testNow.Add(30*time.Minute))
	f.exchanger.RefreshErr = errors.New("remote down")

	accessToken, err := f.manager.ValidToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "stored-access", accessToken)
}

func TestValidTokenExpiredAndRefreshFails(t *testing.T) {
	f := setupTestFixture(t)
	f.storeToken(t, testNow.Add(-time.Minute))
	f.exchanger.RefreshErr = errors.New("remote down")

	_, err := f.manager.ValidToken(context.Background())
	require.ErrorIs(t, err, auth.RefreshFailedErr)
}

func TestValidTokenWithoutAnyToken(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.manager.ValidToken(context.Background())
	require.ErrorIs(t, err, auth.RefreshFailedErr)
	require.Equal(t, 0, f.exchanger.RefreshCalls())
}

func TestValidTokenWithoutCredentials(t *testing.T) {
	f := setupTestFixture(t)

	manager, err := auth.NewManager(
		auth.Repos{Tokens: f.tokenRepo, States: f.stateRepo},
		providerfake.NewEmptyProvider(),
		config.OAuth{},
		auth.WithExchanger(f.exchanger),
	)
	require.NoError(t, err)

	_, err = manager.ValidToken(context.Background())
	require.ErrorIs(t, err, auth.NoCredentialsErr)
}

func TestIsConnected(t *testing.T) {
	f := setupTestFixture(t)
	require.False(t, f.manager.IsConnected(context.Background()))

	f.storeToken(t, testNow.Add(30*24*time.Hour))
	require.True(t, f.manager.IsConnected(context.Background()))
	require.Equal(t, 0, f.exchanger.RefreshCalls())
}

func TestIsConnectedTriggersBackgroundRefreshNearExpiry(t *testing.T) {
	f := setupTestFixture(t)
	f.storeToken(t, testNow.Add(3*24*time.Hour))

	require.True(t, f.manager.IsConnected(context.Background()))
	require.Equal(t, 1, f.exchanger.RefreshCalls())
}

func TestIsConnectedBackgroundRefreshFailureKeepsAnswer(t *testing.T) {
	f := setupTestFixture(t)
	f.storeToken(t, testNow.Add(3*24*time.Hour))
	f.exchanger.RefreshErr = errors.New("remote down")

	require.True(t, f.manager.IsConnected(context.Background()))
}

func TestRefreshNowIsUnconditional(t *testing.T) {
	f := setupTestFixture(t)
	f.storeToken(t, testNow.Add(60*24*time.Hour))

	require.NoError(t, f.manager.RefreshNow(context.Background()))
	require.Equal(t, 1, f.exchanger.RefreshCalls())

	record, err := f.tokenRepo.Get()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(record.AccessToken, "refreshed-access"))
}

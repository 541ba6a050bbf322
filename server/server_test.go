package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lexo-ch/lexo-forms-sub000/auth"
	"github.com/lexo-ch/lexo-forms-sub000/auth/exchangerfake"
	"github.com/lexo-ch/lexo-forms-sub000/auth/staterepo"
	"github.com/lexo-ch/lexo-forms-sub000/cleverreach/clientfake"
	"github.com/lexo-ch/lexo-forms-sub000/credentials"
	"github.com/lexo-ch/lexo-forms-sub000/credentials/providerfake"
	"github.com/lexo-ch/lexo-forms-sub000/email/senderfake"
	"github.com/lexo-ch/lexo-forms-sub000/formsync"
	"github.com/lexo-ch/lexo-forms-sub000/internal/config"
	"github.com/lexo-ch/lexo-forms-sub000/server"
	"github.com/lexo-ch/lexo-forms-sub000/submission"
	"github.com/lexo-ch/lexo-forms-sub000/templates"
	"github.com/lexo-ch/lexo-forms-sub000/token/repofake"
)

type testEmailConfig struct {
	config.Email
}

func (testEmailConfig) GetOperatorRecipients() []string {
	return []string{"ops@example.com"}
}

type testFixture struct {
	server     *server.Server
	remote     *clientfake.FakeClient
	tokens     *repofake.FakeTokenRepo
	syncStates *formsync.InMemoryRepo
	configs    *submission.InMemoryConfigSource
	sender     *senderfake.FakeSender
	caches     *server.Caches
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	tokens := repofake.NewFakeTokenRepo()
	provider := providerfake.NewFakeProvider(credentials.Credentials{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://forms.example.com/oauth/callback",
	})
	manager, err := auth.NewManager(
		auth.Repos{Tokens: tokens, States: staterepo.NewInMemoryRepo()},
		provider, config.OAuth{},
		auth.WithExchanger(exchangerfake.NewFakeExchanger()),
	)
	require.NoError(t, err)

	remote := clientfake.NewFakeClient()
	syncStates := formsync.NewInMemoryRepo()
	caches := server.NewCaches(config.Sync{}.GetLookupCacheTTL())

	engine, err := formsync.NewEngine(remote, syncStates, formsync.WithCacheInvalidator(caches))
	require.NoError(t, err)

	sender := senderfake.NewFakeSender()
	configs := submission.NewInMemoryConfigSource()
	router, err := submission.NewRouter(
		submission.Repos{Configs: configs, States: syncStates},
		remote, sender, testEmailConfig{},
	)
	require.NoError(t, err)

	registry, err := templates.NewStaticRegistryFromMap(map[string][]templates.Field{
		"contact": {
			{Name: "email", Type: "text", SendToCR: true},
			{Name: "firstname", Type: "text", SendToCR: true},
		},
	})
	require.NoError(t, err)

	srv, err := server.New(config.New(), server.Services{
		Auth:       manager,
		Engine:     engine,
		Submission: router,
		SyncStates: syncStates,
		Fields:     registry,
		Lookup:     remote,
		Caches:     caches,
	})
	require.NoError(t, err)

	return &testFixture{
		server:     srv,
		remote:     remote,
		tokens:     tokens,
		syncStates: syncStates,
		configs:    configs,
		sender:     sender,
		caches:     caches,
	}
}

func (f *testFixture) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(raw)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, target, reqBody)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func TestConnectRedirectsToConsentScreen(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteOAuthConnect, nil)
	require.Equal(t, http.StatusFound, rec.Code)

	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	require.Equal(t, "client-id", location.Query().Get("client_id"))
	require.NotEmpty(t, location.Query().Get("state"))
}

func TestCallbackCompletesAuthorization(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteOAuthConnect, nil)
	location, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")

	rec = f.do(t, http.MethodGet, server.RouteOAuthCallback+"?code=auth-code&state="+state, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	record, err := f.tokens.Get()
	require.NoError(t, err)
	require.NotEmpty(t, record.AccessToken)

	rec = f.do(t, http.MethodGet, server.RouteOAuthStatus, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, true, status["connected"])
	require.Contains(t, status, "account")
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	f := setupTestFixture(t)

	f.do(t, http.MethodGet, server.RouteOAuthConnect, nil)
	rec := f.do(t, http.MethodGet, server.RouteOAuthCallback+"?code=auth-code&state=forged", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusWhenDisconnected(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteOAuthStatus, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, false, status["connected"])
}

func TestSyncCreatesRemoteResources(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, server.RouteFormsSync, map[string]any{
		"formId":       "form-1",
		"templateId":   "contact",
		"formAction":   "create_new",
		"groupAction":  "create_new_group",
		"newGroupName": "Newsletter",
		"newFormName":  "Contact",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp["status"])
	require.NotZero(t, resp["formId"])
	require.NotZero(t, resp["groupId"])

	state, err := f.syncStates.Get("form-1")
	require.NoError(t, err)
	require.True(t, state.Synced())
}

func TestSyncWithoutSelectionFails(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodPost, server.RouteFormsSync, map[string]any{
		"formId":     "form-1",
		"formAction": "use_existing",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncStatusEndpoint(t *testing.T) {
	f := setupTestFixture(t)

	rec := f.do(t, http.MethodGet, server.RouteFormsStatus+"?formId=form-1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	require.NoError(t, f.syncStates.Save("form-1", &formsync.State{
		Status:          formsync.StatusOk,
		ResolvedFormID:  5,
		ResolvedGroupID: 10,
	}))

	rec = f.do(t, http.MethodGet, server.RouteFormsStatus+"?formId=form-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state formsync.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Equal(t, formsync.StatusOk, state.Status)
	require.Equal(t, 10, state.ResolvedGroupID)
}

func TestGroupListingIsCached(t *testing.T) {
	f := setupTestFixture(t)
	f.remote.SeedGroup(10, "Newsletter")

	rec := f.do(t, http.MethodGet, server.RouteLookupGroups, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodGet, server.RouteLookupGroups, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, 1, f.remote.ListGroupsCalls)
}

func TestSyncInvalidatesLookupCache(t *testing.T) {
	f := setupTestFixture(t)
	f.remote.SeedGroup(10, "Newsletter")

	f.do(t, http.MethodGet, server.RouteLookupGroups, nil)
	require.Equal(t, 1, f.remote.ListGroupsCalls)

	rec := f.do(t, http.MethodPost, server.RouteFormsSync, map[string]any{
		"formId":       "form-1",
		"formAction":   "create_new",
		"groupAction":  "create_new_group",
		"newGroupName": "Second list",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	f.do(t, http.MethodGet, server.RouteLookupGroups, nil)
	require.Equal(t, 2, f.remote.ListGroupsCalls)
}

func TestSubmitEndpoint(t *testing.T) {
	f := setupTestFixture(t)
	f.configs.Set("form-1", &submission.FormConfig{
		HandlerType: submission.HandlerEmailOnly,
		Recipients:  []string{"office@example.com"},
	})

	rec := f.do(t, http.MethodPost, server.RouteSubmit, map[string]any{
		"formId": "form-1",
		"fields": map[string]string{"email": "visitor@example.com", "firstname": "Petra"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, true, resp["success"])
	require.Len(t, f.sender.Sent(), 1)
}

func TestSubmitFailureReturnsReference(t *testing.T) {
	f := setupTestFixture(t)
	f.configs.Set("form-1", &submission.FormConfig{HandlerType: submission.HandlerRemoteOnly})

	// Never synced: the remote channel fails without a remote call.
	rec := f.do(t, http.MethodPost, server.RouteSubmit, map[string]any{
		"formId": "form-1",
		"fields": map[string]string{"email": "visitor@example.com"},
	})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, false, resp["success"])
	require.NotEmpty(t, resp["reference"])
	require.Equal(t, 0, f.remote.InsertReceiverCalls)
}

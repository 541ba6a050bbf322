package cleverreach_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lexo-ch/lexo-forms-sub000/cleverreach"
	"github.com/lexo-ch/lexo-forms-sub000/internal/config"
	"github.com/stretchr/testify/require"
)

type staticTokens struct{ token string }

func (s staticTokens) ValidToken(ctx context.Context) (string, error) {
	return s.token, nil
}

type testConfig struct {
	config.OAuth
	url string
}

func (c testConfig) GetAPIBaseURL() string { return c.url }

func newTestClient(t *testing.T, handler http.Handler) (*cleverreach.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := cleverreach.NewClient(testConfig{url: server.URL}, staticTokens{token: "test-token"})
	return client, server
}

func TestGetGroupSendsBearerToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "/groups.json/42", r.URL.Path)
		json.NewEncoder(w).Encode(cleverreach.Group{ID: 42, Name: "Newsletter"})
	}))

	group, err := client.GetGroup(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, 42, group.ID)
	require.Equal(t, "Newsletter", group.Name)
}

func TestCreateAttributeSanitizesDescription(t *testing.T) {
	var received cleverreach.CreateAttributeParams
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/groups.json/7/attributes", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(cleverreach.Attribute{ID: 1, Name: received.Name, Type: received.Type})
	}))

	_, err := client.CreateAttribute(context.Background(), 7, cleverreach.CreateAttributeParams{
		Name:        "firstname",
		Type:        "text",
		Description: "Müller & Co. 2024!!",
	})
	require.NoError(t, err)
	require.Equal(t, "Mller_Co_2024", received.Description)
}

func TestGlobalAttributeUsesGlobalEndpoint(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/attributes.json", r.URL.Path)
		json.NewEncoder(w).Encode(cleverreach.Attribute{ID: 2, Name: "country"})
	}))

	_, err := client.CreateAttribute(context.Background(), 7, cleverreach.CreateAttributeParams{
		Name:   "country",
		Type:   "text",
		Global: true,
	})
	require.NoError(t, err)
}

func TestGetReceiverNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":404,"message":"Not Found"}}`, http.StatusNotFound)
	}))

	_, err := client.GetReceiver(context.Background(), 7, "nobody@example.com")
	require.Error(t, err)
	require.True(t, cleverreach.IsNotFound(err))

	apiErr, ok := err.(*cleverreach.APIError)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestGetGroupAttributesNullBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))

	attributes, err := client.GetGroupAttributes(context.Background(), 7)
	require.NoError(t, err)
	require.Nil(t, attributes)
}

func TestServerErrorSurfacesStatus(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusServiceUnavailable)
	}))

	_, err := client.CreateGroup(context.Background(), cleverreach.CreateGroupParams{Name: "g"})
	apiErr, ok := err.(*cleverreach.APIError)
	require.True(t, ok)
	require.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
}

func TestReceiverEmailIsPathEscaped(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/groups.json/7/receivers/a+b@example.com/activate", r.URL.Path)
		w.Write([]byte("true"))
	}))

	err := client.ActivateReceiver(context.Background(), 7, "a+b@example.com")
	require.NoError(t, err)
}

package cleverreach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/lexo-ch/lexo-forms-sub000/internal/config"
)

// TokenProvider hands out a usable bearer token for each call.
// auth.Manager satisfies it.
type TokenProvider interface {
	ValidToken(ctx context.Context) (string, error)
}

// Client is a thin typed wrapper over the remote REST API. It holds no state
// beyond the HTTP client and performs no retries and no caching.
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
}

func NewClient(cfg config.OAuthConfig, tokens TokenProvider) *Client {
	return &Client{
		baseURL:    cfg.GetAPIBaseURL(),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: cfg.GetRequestTimeout()},
	}
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Message: fmt.Sprintf("marshal request body: %v", err)}
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("create request: %v", err)}
	}

	accessToken, err := c.tokens.ValidToken(ctx)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("no valid token: %v", err)}
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("read response body: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: string(respBody)}
	}

	return respBody, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	body, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{Message: fmt.Sprintf("unmarshal response: %v", err)}
	}
	return nil
}

// GetGroup fetches a group by id.
func (c *Client) GetGroup(ctx context.Context, groupID int) (*Group, error) {
	var group Group
	if err := c.getJSON(ctx, fmt.Sprintf("/groups.json/%d", groupID), &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// CreateGroup creates a new group.
func (c *Client) CreateGroup(ctx context.Context, params CreateGroupParams) (*Group, error) {
	if params.Description != "" {
		params.Description = SanitizeDescription(params.Description)
	}
	body, err := c.makeRequest(ctx, http.MethodPost, "/groups.json", params)
	if err != nil {
		return nil, err
	}
	var group Group
	if err := json.Unmarshal(body, &group); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("unmarshal response: %v", err)}
	}
	return &group, nil
}

// UpdateGroup renames a group.
func (c *Client) UpdateGroup(ctx context.Context, groupID int, params UpdateGroupParams) (*Group, error) {
	body, err := c.makeRequest(ctx, http.MethodPut, fmt.Sprintf("/groups.json/%d", groupID), params)
	if err != nil {
		return nil, err
	}
	var group Group
	if err := json.Unmarshal(body, &group); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("unmarshal response: %v", err)}
	}
	return &group, nil
}

// DeleteGroup removes a group.
func (c *Client) DeleteGroup(ctx context.Context, groupID int) error {
	_, err := c.makeRequest(ctx, http.MethodDelete, fmt.Sprintf("/groups.json/%d", groupID), nil)
	return err
}

// ListGroups lists all groups.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if err := c.getJSON(ctx, "/groups.json", &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GetGroupAttributes fetches the attributes of a group. A JSON null body
// yields a nil slice with no error; callers treat that as an inaccessible
// (e.g. archived) group.
func (c *Client) GetGroupAttributes(ctx context.Context, groupID int) ([]Attribute, error) {
	var attributes []Attribute
	if err := c.getJSON(ctx, fmt.Sprintf("/groups.json/%d/attributes", groupID), &attributes); err != nil {
		return nil, err
	}
	return attributes, nil
}

// CreateAttribute provisions an attribute on a group, or globally when
// params.Global is set. The description is sanitized before sending.
func (c *Client) CreateAttribute(ctx context.Context, groupID int, params CreateAttributeParams) (*Attribute, error) {
	params.Description = SanitizeDescription(params.Description)

	endpoint := fmt.Sprintf("/groups.json/%d/attributes", groupID)
	if params.Global {
		endpoint = "/attributes.json"
	}

	body, err := c.makeRequest(ctx, http.MethodPost, endpoint, params)
	if err != nil {
		return nil, err
	}
	var attribute Attribute
	if err := json.Unmarshal(body, &attribute); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("unmarshal response: %v", err)}
	}
	return &attribute, nil
}

// GetForm fetches a form by id. Its CustomerTablesID is the authoritative
// group linkage.
func (c *Client) GetForm(ctx context.Context, formID int) (*Form, error) {
	var form Form
	if err := c.getJSON(ctx, fmt.Sprintf("/forms.json/%d", formID), &form); err != nil {
		return nil, err
	}
	return &form, nil
}

// ListForms lists all forms.
func (c *Client) ListForms(ctx context.Context) ([]Form, error) {
	var forms []Form
	if err := c.getJSON(ctx, "/forms.json", &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// CreateFormFromTemplate creates a new form attached to a group.
func (c *Client) CreateFormFromTemplate(ctx context.Context, params CreateFormParams) (*Form, error) {
	body, err := c.makeRequest(ctx, http.MethodPost, "/forms.json", params)
	if err != nil {
		return nil, err
	}
	var form Form
	if err := json.Unmarshal(body, &form); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("unmarshal response: %v", err)}
	}
	return &form, nil
}

// GetReceiver looks up a recipient by email within a group. A missing
// recipient surfaces as an APIError with status 404.
func (c *Client) GetReceiver(ctx context.Context, groupID int, email string) (*Receiver, error) {
	var receiver Receiver
	endpoint := fmt.Sprintf("/groups.json/%d/receivers/%s", groupID, url.PathEscape(email))
	if err := c.getJSON(ctx, endpoint, &receiver); err != nil {
		return nil, err
	}
	return &receiver, nil
}

// InsertReceiver adds a new recipient to a group.
func (c *Client) InsertReceiver(ctx context.Context, groupID int, params UpsertReceiverParams) (*Receiver, error) {
	body, err := c.makeRequest(ctx, http.MethodPost, fmt.Sprintf("/groups.json/%d/receivers", groupID), params)
	if err != nil {
		return nil, err
	}
	var receiver Receiver
	if err := json.Unmarshal(body, &receiver); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("unmarshal response: %v", err)}
	}
	return &receiver, nil
}

// UpdateReceiver updates an existing recipient's attributes.
func (c *Client) UpdateReceiver(ctx context.Context, groupID int, email string, params UpsertReceiverParams) (*Receiver, error) {
	endpoint := fmt.Sprintf("/groups.json/%d/receivers/%s", groupID, url.PathEscape(email))
	body, err := c.makeRequest(ctx, http.MethodPut, endpoint, params)
	if err != nil {
		return nil, err
	}
	var receiver Receiver
	if err := json.Unmarshal(body, &receiver); err != nil {
		return nil, &APIError{Message: fmt.Sprintf("unmarshal response: %v", err)}
	}
	return &receiver, nil
}

// ActivateReceiver reactivates a deactivated recipient.
func (c *Client) ActivateReceiver(ctx context.Context, groupID int, email string) error {
	endpoint := fmt.Sprintf("/groups.json/%d/receivers/%s/activate", groupID, url.PathEscape(email))
	_, err := c.makeRequest(ctx, http.MethodPut, endpoint, nil)
	return err
}

// DeactivateReceiver deactivates a recipient.
func (c *Client) DeactivateReceiver(ctx context.Context, groupID int, email string) error {
	endpoint := fmt.Sprintf("/groups.json/%d/receivers/%s/deactivate", groupID, url.PathEscape(email))
	_, err := c.makeRequest(ctx, http.MethodPut, endpoint, nil)
	return err
}

// SendActivationMail triggers the double-opt-in confirmation mail for a
// recipient through the given form.
func (c *Client) SendActivationMail(ctx context.Context, formID int, email string, doi DOIData) error {
	payload := struct {
		Email   string  `json:"email"`
		DOIData DOIData `json:"doidata"`
	}{Email: email, DOIData: doi}

	_, err := c.makeRequest(ctx, http.MethodPost, fmt.Sprintf("/forms.json/%d/send/activate", formID), payload)
	return err
}

// Whoami tests connectivity and token validity.
func (c *Client) Whoami(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	if err := c.getJSON(ctx, "/debug/whoami.json", &result); err != nil {
		return nil, err
	}
	return result, nil
}

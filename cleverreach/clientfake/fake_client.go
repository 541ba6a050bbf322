package clientfake

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/lexo-ch/lexo-forms-sub000/cleverreach"
)

// FakeClient is an in-memory stand-in for the remote API. Groups, forms and
// receivers live in maps; every write is counted so tests can assert on the
// exact calls issued.
type FakeClient struct {
	lock sync.Mutex

	groups     map[int]*cleverreach.Group
	attributes map[int][]cleverreach.Attribute
	forms      map[int]*cleverreach.Form
	receivers  map[int]map[string]*cleverreach.Receiver

	nextGroupID int
	nextFormID  int

	// Error injection per operation
	CreateGroupErr     error
	CreateFormErr      error
	CreateAttributeErr error
	GetFormErr         error
	GetGroupErr        error
	GetAttributesErr   error
	InsertReceiverErr  error
	UpdateReceiverErr  error
	ActivateErr        error
	ActivationMailErr  error

	// InaccessibleGroups return a nil attribute list without error
	InaccessibleGroups map[int]bool

	CreateGroupCalls     int
	CreateFormCalls      int
	CreateAttributeCalls []string
	InsertReceiverCalls  int
	UpdateReceiverCalls  int
	ActivateCalls        int
	ActivationMailCalls  int
	ListGroupsCalls      int
	ListFormsCalls       int
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		groups:             make(map[int]*cleverreach.Group),
		attributes:         make(map[int][]cleverreach.Attribute),
		forms:              make(map[int]*cleverreach.Form),
		receivers:          make(map[int]map[string]*cleverreach.Receiver),
		InaccessibleGroups: make(map[int]bool),
		nextGroupID:        100,
		nextFormID:         500,
	}
}

// SeedGroup registers an existing remote group with attributes.
func (c *FakeClient) SeedGroup(id int, name string, attributes ...cleverreach.Attribute) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.groups[id] = &cleverreach.Group{ID: id, Name: name}
	c.attributes[id] = attributes
}

// SeedForm registers an existing remote form linked to a group.
func (c *FakeClient) SeedForm(id, groupID int) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.forms[id] = &cleverreach.Form{ID: id, CustomerTablesID: groupID}
}

// SeedReceiver registers a recipient within a group.
func (c *FakeClient) SeedReceiver(groupID int, receiver *cleverreach.Receiver) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.receivers[groupID] == nil {
		c.receivers[groupID] = make(map[string]*cleverreach.Receiver)
	}
	c.receivers[groupID][strings.ToLower(receiver.Email)] = receiver
}

func (c *FakeClient) GetGroup(ctx context.Context, groupID int) (*cleverreach.Group, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.GetGroupErr != nil {
		return nil, c.GetGroupErr
	}
	group, ok := c.groups[groupID]
	if !ok {
		return nil, &cleverreach.APIError{Status: http.StatusNotFound, Message: "group not found"}
	}
	return group, nil
}

func (c *FakeClient) CreateGroup(ctx context.Context, params cleverreach.CreateGroupParams) (*cleverreach.Group, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.CreateGroupCalls++
	if c.CreateGroupErr != nil {
		return nil, c.CreateGroupErr
	}
	c.nextGroupID++
	group := &cleverreach.Group{ID: c.nextGroupID, Name: params.Name}
	c.groups[group.ID] = group
	c.attributes[group.ID] = []cleverreach.Attribute{}
	return group, nil
}

func (c *FakeClient) GetGroupAttributes(ctx context.Context, groupID int) ([]cleverreach.Attribute, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.GetAttributesErr != nil {
		return nil, c.GetAttributesErr
	}
	if c.InaccessibleGroups[groupID] {
		return nil, nil
	}
	attributes, ok := c.attributes[groupID]
	if !ok {
		return nil, &cleverreach.APIError{Status: http.StatusNotFound, Message: "group not found"}
	}
	if attributes == nil {
		attributes = []cleverreach.Attribute{}
	}
	return attributes, nil
}

func (c *FakeClient) CreateAttribute(ctx context.Context, groupID int, params cleverreach.CreateAttributeParams) (*cleverreach.Attribute, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.CreateAttributeCalls = append(c.CreateAttributeCalls, params.Name)
	if c.CreateAttributeErr != nil {
		return nil, c.CreateAttributeErr
	}
	attribute := cleverreach.Attribute{
		ID:          len(c.attributes[groupID]) + 1,
		Name:        strings.ToLower(params.Name),
		Type:        params.Type,
		Description: params.Description,
	}
	c.attributes[groupID] = append(c.attributes[groupID], attribute)
	return &attribute, nil
}

func (c *FakeClient) GetForm(ctx context.Context, formID int) (*cleverreach.Form, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.GetFormErr != nil {
		return nil, c.GetFormErr
	}
	form, ok := c.forms[formID]
	if !ok {
		return nil, &cleverreach.APIError{Status: http.StatusNotFound, Message: "form not found"}
	}
	return form, nil
}

func (c *FakeClient) CreateFormFromTemplate(ctx context.Context, params cleverreach.CreateFormParams) (*cleverreach.Form, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.CreateFormCalls++
	if c.CreateFormErr != nil {
		return nil, c.CreateFormErr
	}
	c.nextFormID++
	form := &cleverreach.Form{ID: c.nextFormID, Name: params.Name, CustomerTablesID: params.GroupID}
	c.forms[form.ID] = form
	return form, nil
}

func (c *FakeClient) GetReceiver(ctx context.Context, groupID int, email string) (*cleverreach.Receiver, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	receiver, ok := c.receivers[groupID][strings.ToLower(email)]
	if !ok {
		return nil, &cleverreach.APIError{Status: http.StatusNotFound, Message: "receiver not found"}
	}
	return receiver, nil
}

func (c *FakeClient) InsertReceiver(ctx context.Context, groupID int, params cleverreach.UpsertReceiverParams) (*cleverreach.Receiver, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.InsertReceiverCalls++
	if c.InsertReceiverErr != nil {
		return nil, c.InsertReceiverErr
	}
	receiver := &cleverreach.Receiver{ID: c.InsertReceiverCalls, Email: params.Email}
	if c.receivers[groupID] == nil {
		c.receivers[groupID] = make(map[string]*cleverreach.Receiver)
	}
	c.receivers[groupID][strings.ToLower(params.Email)] = receiver
	return receiver, nil
}

func (c *FakeClient) UpdateReceiver(ctx context.Context, groupID int, email string, params cleverreach.UpsertReceiverParams) (*cleverreach.Receiver, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.UpdateReceiverCalls++
	if c.UpdateReceiverErr != nil {
		return nil, c.UpdateReceiverErr
	}
	receiver, ok := c.receivers[groupID][strings.ToLower(email)]
	if !ok {
		return nil, &cleverreach.APIError{Status: http.StatusNotFound, Message: "receiver not found"}
	}
	return receiver, nil
}

func (c *FakeClient) ActivateReceiver(ctx context.Context, groupID int, email string) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.ActivateCalls++
	if c.ActivateErr != nil {
		return c.ActivateErr
	}
	if receiver, ok := c.receivers[groupID][strings.ToLower(email)]; ok {
		receiver.Active = true
	}
	return nil
}

func (c *FakeClient) SendActivationMail(ctx context.Context, formID int, email string, doi cleverreach.DOIData) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.ActivationMailCalls++
	if c.ActivationMailErr != nil {
		return c.ActivationMailErr
	}
	return nil
}

func (c *FakeClient) ListGroups(ctx context.Context) ([]cleverreach.Group, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.ListGroupsCalls++
	out := make([]cleverreach.Group, 0, len(c.groups))
	for _, group := range c.groups {
		out = append(out, *group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *FakeClient) ListForms(ctx context.Context) ([]cleverreach.Form, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.ListFormsCalls++
	out := make([]cleverreach.Form, 0, len(c.forms))
	for _, form := range c.forms {
		out = append(out, *form)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *FakeClient) Whoami(ctx context.Context) (map[string]any, error) {
	return map[string]any{"id": "42", "email": "account@example.com"}, nil
}

// Groups returns how many groups currently exist.
func (c *FakeClient) Groups() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.groups)
}

// Forms returns how many forms currently exist.
func (c *FakeClient) Forms() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.forms)
}

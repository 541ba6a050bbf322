package cleverreach

// Group is a remote mailing-list container.
type Group struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Stamp int64  `json:"stamp,omitempty"`
}

// Attribute is a named, typed custom field on a group.
type Attribute struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Form is a remote signup form. CustomerTablesID links it to exactly one
// group; the link is immutable on the remote side.
type Form struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	CustomerTablesID int    `json:"customer_tables_id"`
}

// Receiver is a recipient within a group.
type Receiver struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	Active      bool   `json:"active"`
	Activated   int64  `json:"activated"`
	Deactivated int64  `json:"deactivated"`
	Registered  int64  `json:"registered"`
}

type CreateGroupParams struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UpdateGroupParams struct {
	Name string `json:"name"`
}

type CreateAttributeParams struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Global      bool   `json:"-"`
}

type CreateFormParams struct {
	Name       string `json:"name"`
	GroupID    int    `json:"customer_tables_id"`
	TemplateID string `json:"template,omitempty"`
}

type UpsertReceiverParams struct {
	Email            string            `json:"email"`
	Attributes       map[string]string `json:"attributes,omitempty"`
	GlobalAttributes map[string]string `json:"global_attributes,omitempty"`
	Source           string            `json:"source,omitempty"`
}

// DOIData accompanies a double-opt-in activation mail.
type DOIData struct {
	UserIP    string `json:"user_ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Referer   string `json:"referer,omitempty"`
}

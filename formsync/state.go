package formsync

import "time"

type FormAction string

const (
	FormActionUseExisting FormAction = "use_existing"
	FormActionCreateNew   FormAction = "create_new"
)

type GroupAction string

const (
	GroupActionUseExisting GroupAction = "use_existing_group"
	GroupActionCreateNew   GroupAction = "create_new_group"
)

type Status string

const (
	StatusPending Status = "pending"
	StatusOk      Status = "ok"
	StatusError   Status = "error"
)

// State is the local record of a form's desired and resolved remote linkage
// and its last sync outcome. Created when the admin enables the remote
// integration on a form; mutated on every save attempt.
type State struct {
	FormAction  FormAction  `json:"formAction"`
	GroupAction GroupAction `json:"groupAction"`

	ExistingFormID  int `json:"existingFormId,omitempty"`
	ExistingGroupID int `json:"existingGroupId,omitempty"`

	// Names used when the sync creates new remote resources
	NewGroupName string `json:"newGroupName,omitempty"`
	NewFormName  string `json:"newFormName,omitempty"`

	ResolvedFormID  int `json:"resolvedFormId,omitempty"`
	ResolvedGroupID int `json:"resolvedGroupId,omitempty"`

	Status        Status    `json:"status"`
	StatusMessage string    `json:"statusMessage,omitempty"`
	LastSyncedAt  time.Time `json:"lastSyncedAt,omitempty"`
}

// Synced reports whether the last sync attempt reached a consistent remote
// state.
func (s *State) Synced() bool {
	return s != nil && s.Status == StatusOk && s.ResolvedGroupID != 0
}

func (s *State) clone() *State {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}

package formsync

import "errors"

var ErrStateNotFound = errors.New("form sync state not found")

// Repo persists sync state keyed by the local form id. Only the admin save
// path mutates it; concurrent saves of the same form are last-write-wins.
type Repo interface {
	Get(formID string) (*State, error)
	Save(formID string, state *State) error
}

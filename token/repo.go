package token

import "errors"

// ErrNoToken is returned by repos when nothing has been stored yet.
var ErrNoToken = errors.New("no token stored")

// Repo persists the single process-wide token record. Writes overwrite the
// previous record; concurrent refreshes are last-write-wins (both racing
// writers hold valid tokens, so either outcome is usable).
type Repo interface {
	Get() (*Record, error)
	Save(record *Record) error
}

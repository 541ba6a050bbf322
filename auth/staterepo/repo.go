package staterepo

import "time"

// PendingState is the anti-CSRF state value generated for a connect attempt.
// Only one attempt can be pending at a time; starting a new one replaces it.
type PendingState struct {
	Value     string
	CreatedAt time.Time
}

type Repo interface {
	Set(state *PendingState) error
	Get() (*PendingState, error)
	Clear() error
}

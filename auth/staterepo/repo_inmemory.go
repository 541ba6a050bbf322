package staterepo

import (
	"errors"
	"sync"
)

var ErrNoPendingState = errors.New("no pending state")

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu      sync.RWMutex
	pending *PendingState
}

// NewInMemoryRepo creates a new in-memory pending-state repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{}
}

// Set stores the pending state, replacing any previous one
func (r *InMemoryRepo) Set(state *PendingState) error {
	if state == nil || state.Value == "" {
		return errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy to prevent external modifications
	stored := *state
	r.pending = &stored
	return nil
}

// Get retrieves the pending state
func (r *InMemoryRepo) Get() (*PendingState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.pending == nil {
		return nil, ErrNoPendingState
	}
	state := *r.pending
	return &state, nil
}

// Clear removes the pending state
func (r *InMemoryRepo) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = nil
	return nil
}

package formsync

import (
	"errors"
	"sync"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu     sync.RWMutex
	states map[string]*State
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{states: make(map[string]*State)}
}

func (r *InMemoryRepo) Get(formID string) (*State, error) {
	if formID == "" {
		return nil, errors.New("formID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	state, exists := r.states[formID]
	if !exists {
		return nil, ErrStateNotFound
	}
	return state.clone(), nil
}

func (r *InMemoryRepo) Save(formID string, state *State) error {
	if formID == "" {
		return errors.New("formID cannot be empty")
	}
	if state == nil {
		return errors.New("state cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[formID] = state.clone()
	return nil
}

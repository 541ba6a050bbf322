package submission

import (
	"errors"
	"sync"
)

// HandlerType selects which delivery channels process a submission.
type HandlerType string

const (
	HandlerEmailOnly      HandlerType = "email_only"
	HandlerRemoteOnly     HandlerType = "cr_only"
	HandlerEmailAndRemote HandlerType = "email_and_cr"
)

// FormConfig is the per-form delivery configuration maintained by the admin
// surface. Empty strings fall back to the process-wide defaults.
type FormConfig struct {
	HandlerType         HandlerType
	Recipients          []string
	FromAddress         string
	Subject             string
	Source              string
	SendConfirmation    bool
	ConfirmationSubject string
}

var ErrConfigNotFound = errors.New("form submission config not found")

// ConfigSource resolves the delivery configuration for a local form id.
type ConfigSource interface {
	Get(formID string) (*FormConfig, error)
}

// InMemoryConfigSource keeps form configs in memory. Mirrors the in-memory
// repositories used elsewhere; a persistent source can replace it without
// touching the router.
type InMemoryConfigSource struct {
	configs map[string]*FormConfig
	lock    sync.RWMutex
}

var _ ConfigSource = (*InMemoryConfigSource)(nil)

func NewInMemoryConfigSource() *InMemoryConfigSource {
	return &InMemoryConfigSource{configs: make(map[string]*FormConfig)}
}

func (s *InMemoryConfigSource) Get(formID string) (*FormConfig, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	cfg, ok := s.configs[formID]
	if !ok {
		return nil, ErrConfigNotFound
	}
	clone := *cfg
	clone.Recipients = append([]string(nil), cfg.Recipients...)
	return &clone, nil
}

func (s *InMemoryConfigSource) Set(formID string, cfg *FormConfig) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.configs[formID] = cfg
}

package providerfake

import (
	"sync"

	"github.com/lexo-ch/lexo-forms-sub000/credentials"
)

var _ credentials.Provider = (*FakeProvider)(nil)

type FakeProvider struct {
	creds credentials.Credentials
	err   error
	lock  sync.RWMutex
}

func NewFakeProvider(creds credentials.Credentials) *FakeProvider {
	return &FakeProvider{creds: creds}
}

// NewEmptyProvider returns a provider that reports missing credentials.
func NewEmptyProvider() *FakeProvider {
	return &FakeProvider{err: credentials.ErrNoCredentials}
}

func (p *FakeProvider) Get() (credentials.Credentials, error) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	if p.err != nil {
		return credentials.Credentials{}, p.err
	}
	return p.creds, nil
}

func (p *FakeProvider) SetCredentials(creds credentials.Credentials) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.creds = creds
	p.err = nil
}

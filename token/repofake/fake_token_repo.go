package repofake

import (
	"sync"

	"github.com/lexo-ch/lexo-forms-sub000/token"
)

var _ token.Repo = (*FakeTokenRepo)(nil)

type FakeTokenRepo struct {
	record *token.Record
	saves  int
	lock   sync.RWMutex
}

func NewFakeTokenRepo() *FakeTokenRepo {
	return &FakeTokenRepo{}
}

func (tr *FakeTokenRepo) Get() (*token.Record, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	if tr.record == nil {
		return nil, token.ErrNoToken
	}
	record := *tr.record
	return &record, nil
}

func (tr *FakeTokenRepo) Save(record *token.Record) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()
	saved := *record
	tr.record = &saved
	tr.saves++
	return nil
}

// SaveCount reports how many times Save was called, for refresh assertions.
func (tr *FakeTokenRepo) SaveCount() int {
	tr.lock.RLock()
	defer tr.lock.RUnlock()
	return tr.saves
}

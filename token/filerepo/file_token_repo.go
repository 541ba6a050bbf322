package filerepo

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/lexo-ch/lexo-forms-sub000/token"
	"github.com/pkg/errors"
)

const tokenFileName = "cleverreach_token.json"

var _ token.Repo = (*FileTokenRepo)(nil)

// FileTokenRepo persists the token record as a JSON file under the data
// folder so a restart does not force the admin through the connect flow again.
type FileTokenRepo struct {
	path string
	lock sync.RWMutex
}

func NewFileTokenRepo(dataFolder string) *FileTokenRepo {
	return &FileTokenRepo{path: filepath.Join(dataFolder, tokenFileName)}
}

func (tr *FileTokenRepo) Get() (*token.Record, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	data, err := os.ReadFile(tr.path)
	if os.IsNotExist(err) {
		return nil, token.ErrNoToken
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileTokenRepo.Get] read token file")
	}

	var record token.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "[FileTokenRepo.Get] unmarshal token file")
	}
	if record.AccessToken == "" && record.RefreshToken == "" {
		return nil, token.ErrNoToken
	}
	return &record, nil
}

func (tr *FileTokenRepo) Save(record *token.Record) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return errors.Wrap(err, "[FileTokenRepo.Save] marshal token record")
	}
	if err := os.MkdirAll(filepath.Dir(tr.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileTokenRepo.Save] create data folder")
	}
	if err := os.WriteFile(tr.path, data, 0o600); err != nil {
		return errors.Wrap(err, "[FileTokenRepo.Save] write token file")
	}
	return nil
}

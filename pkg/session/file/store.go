package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/lazor-kit/wallet-client/pkg/session"
)

type store struct {
	mu   sync.Mutex
	path string
}

// New returns a session.Store persisting all records as one JSON object at
// path. The file is replaced atomically on every write.
func New(path string) session.Store {
	return &store{
		path: path,
	}
}

// Save implements session.Store.Save
func (s *store) Save(_ context.Context, key string, record *session.WalletInfo) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records[key] = record.Clone()
	return s.write(records)
}

// Get implements session.Store.Get
func (s *store) Get(_ context.Context, key string) (*session.WalletInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	record, ok := records[key]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return &record, nil
}

// Delete implements session.Store.Delete
func (s *store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := records[key]; !ok {
		return nil
	}

	delete(records, key)
	return s.write(records)
}

func (s *store) load() (map[string]session.WalletInfo, error) {
	records := make(map[string]session.WalletInfo)

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return records, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "error reading session file")
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "error decoding session file")
	}
	return records, nil
}

func (s *store) write(records map[string]session.WalletInfo) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "error encoding session file")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.Wrap(err, "error creating session directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return errors.Wrap(err, "error creating session file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "error writing session file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "error writing session file")
	}

	return os.Rename(tmp.Name(), s.path)
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = os.Remove(s.path)
}

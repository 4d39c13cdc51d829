package memory

import (
	"context"
	"sync"

	"github.com/lazor-kit/wallet-client/pkg/session"
)

type store struct {
	mu      sync.Mutex
	records map[string]session.WalletInfo
}

// New returns a new in memory session.Store
func New() session.Store {
	return &store{
		records: make(map[string]session.WalletInfo),
	}
}

// Save implements session.Store.Save
func (s *store) Save(_ context.Context, key string, record *session.WalletInfo) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = record.Clone()
	return nil
}

// Get implements session.Store.Get
func (s *store) Get(_ context.Context, key string) (*session.WalletInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.records[key]
	if !ok {
		return nil, session.ErrSessionNotFound
	}

	cloned := item.Clone()
	return &cloned, nil
}

// Delete implements session.Store.Delete
func (s *store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *store) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]session.WalletInfo)
}

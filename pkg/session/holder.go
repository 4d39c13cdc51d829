package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Holder keeps the current wallet in memory and writes every change through
// to the backing Store. Readers must tolerate an absent session.
type Holder struct {
	log   *logrus.Entry
	store Store

	mu      sync.RWMutex
	current *WalletInfo
}

func NewHolder(store Store) *Holder {
	return &Holder{
		log:   logrus.StandardLogger().WithField("type", "session/holder"),
		store: store,
	}
}

// Restore loads the persisted record, if any, into memory. An unreadable
// record is discarded rather than failing startup.
func (h *Holder) Restore(ctx context.Context) (*WalletInfo, error) {
	log := h.log.WithField("method", "Restore")

	record, err := h.store.Get(ctx, StorageKey)
	if err == ErrSessionNotFound {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "error loading session record")
	}

	if err := record.Validate(); err != nil {
		log.WithError(err).Warn("discarding invalid session record")
		if err := h.store.Delete(ctx, StorageKey); err != nil {
			return nil, errors.Wrap(err, "error deleting invalid session record")
		}
		return nil, nil
	}

	h.mu.Lock()
	cloned := record.Clone()
	h.current = &cloned
	h.mu.Unlock()

	log.WithField("credential_id", record.CredentialID).Debug("restored session")

	return record, nil
}

// Current returns a copy of the connected wallet, or nil when disconnected.
func (h *Holder) Current() *WalletInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.current == nil {
		return nil
	}

	cloned := h.current.Clone()
	return &cloned
}

// Set persists record and makes it the current wallet.
func (h *Holder) Set(ctx context.Context, record *WalletInfo) error {
	if err := record.Validate(); err != nil {
		return errors.Wrap(ErrInvalidRecord, err.Error())
	}

	if err := h.store.Save(ctx, StorageKey, record); err != nil {
		return errors.Wrap(err, "error saving session record")
	}

	h.mu.Lock()
	cloned := record.Clone()
	h.current = &cloned
	h.mu.Unlock()

	return nil
}

// Clear forgets the current wallet.
func (h *Holder) Clear(ctx context.Context) error {
	if err := h.store.Delete(ctx, StorageKey); err != nil {
		return errors.Wrap(err, "error deleting session record")
	}

	h.mu.Lock()
	h.current = nil
	h.mu.Unlock()

	return nil
}

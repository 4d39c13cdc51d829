package redis

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/lazor-kit/wallet-client/pkg/session"
)

const keyPrefix = "lazorkit:session:"

type store struct {
	client *redis.Client
}

// New returns a new redis backed session.Store. Records never expire.
func New(client *redis.Client) session.Store {
	return &store{
		client: client,
	}
}

// Save implements session.Store.Save
func (s *store) Save(ctx context.Context, key string, record *session.WalletInfo) error {
	if err := record.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "failed to marshal session record")
	}

	if err := s.client.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		return errors.Wrap(err, "failed to save session record")
	}
	return nil
}

// Get implements session.Store.Get
func (s *store) Get(ctx context.Context, key string) (*session.WalletInfo, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, session.ErrSessionNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get session record")
	}

	var record session.WalletInfo
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal session record")
	}
	return &record, nil
}

// Delete implements session.Store.Delete
func (s *store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return errors.Wrap(err, "failed to delete session record")
	}
	return nil
}

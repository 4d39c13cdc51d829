package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/lazor-kit/wallet-client/pkg/session"
)

type store struct {
	db *sqlx.DB
}

// New returns a new postgres backed session.Store
func New(db *sql.DB) session.Store {
	return &store{
		db: sqlx.NewDb(db, "pgx"),
	}
}

// Save implements session.Store.Save
func (s *store) Save(ctx context.Context, key string, record *session.WalletInfo) error {
	m, err := toModel(key, record)
	if err != nil {
		return err
	}

	return m.dbSave(ctx, s.db)
}

// Get implements session.Store.Get
func (s *store) Get(ctx context.Context, key string) (*session.WalletInfo, error) {
	m, err := dbGet(ctx, s.db, key)
	if err != nil {
		return nil, err
	}

	return fromModel(m)
}

// Delete implements session.Store.Delete
func (s *store) Delete(ctx context.Context, key string) error {
	return dbDelete(ctx, s.db, key)
}

package postgres

import (
	"context"
	"database/sql"
	"encoding/base64"
	"time"

	"github.com/jmoiron/sqlx"

	pgutil "github.com/lazor-kit/wallet-client/pkg/database/postgres"
	"github.com/lazor-kit/wallet-client/pkg/session"
)

const (
	tableName = "lazorkit__wallet_session"
)

type model struct {
	StorageKey               string         `db:"storage_key"`
	CredentialId             string         `db:"credential_id"`
	PasskeyPubkey            string         `db:"passkey_pubkey"`
	Platform                 string         `db:"platform"`
	Expo                     string         `db:"expo"`
	SmartWallet              sql.NullString `db:"smart_wallet"`
	SmartWalletAuthenticator sql.NullString `db:"smart_wallet_authenticator"`
	LastUpdatedAt            time.Time      `db:"last_updated_at"`
}

func toModel(key string, obj *session.WalletInfo) (*model, error) {
	if err := obj.Validate(); err != nil {
		return nil, err
	}

	return &model{
		StorageKey:    key,
		CredentialId:  obj.CredentialID,
		PasskeyPubkey: base64.StdEncoding.EncodeToString(obj.PasskeyPubkey),
		Platform:      obj.Platform,
		Expo:          obj.Expo,
		SmartWallet: sql.NullString{
			Valid:  len(obj.SmartWallet) > 0,
			String: obj.SmartWallet,
		},
		SmartWalletAuthenticator: sql.NullString{
			Valid:  len(obj.SmartWalletAuthenticator) > 0,
			String: obj.SmartWalletAuthenticator,
		},
	}, nil
}

func fromModel(obj *model) (*session.WalletInfo, error) {
	passkey, err := base64.StdEncoding.DecodeString(obj.PasskeyPubkey)
	if err != nil {
		return nil, err
	}

	return &session.WalletInfo{
		CredentialID:             obj.CredentialId,
		PasskeyPubkey:            passkey,
		Platform:                 obj.Platform,
		Expo:                     obj.Expo,
		SmartWallet:              obj.SmartWallet.String,
		SmartWalletAuthenticator: obj.SmartWalletAuthenticator.String,
	}, nil
}

func (m *model) dbSave(ctx context.Context, db *sqlx.DB) error {
	query := `INSERT INTO ` + tableName + `
		(storage_key, credential_id, passkey_pubkey, platform, expo, smart_wallet, smart_wallet_authenticator, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)

		ON CONFLICT (storage_key)
		DO UPDATE
			SET credential_id = $2, passkey_pubkey = $3, platform = $4, expo = $5, smart_wallet = $6, smart_wallet_authenticator = $7, last_updated_at = $8
			WHERE ` + tableName + `.storage_key = $1

		RETURNING storage_key, credential_id, passkey_pubkey, platform, expo, smart_wallet, smart_wallet_authenticator, last_updated_at
	`

	m.LastUpdatedAt = time.Now()

	return pgutil.ExecuteRetryable(ctx, func() error {
		return pgutil.ExecuteInTx(ctx, db, sql.LevelDefault, func(tx *sqlx.Tx) error {
			return tx.QueryRowxContext(
				ctx,
				query,
				m.StorageKey,
				m.CredentialId,
				m.PasskeyPubkey,
				m.Platform,
				m.Expo,
				m.SmartWallet,
				m.SmartWalletAuthenticator,
				m.LastUpdatedAt.UTC(),
			).StructScan(m)
		})
	})
}

func dbGet(ctx context.Context, db *sqlx.DB, key string) (*model, error) {
	res := &model{}

	query := `SELECT storage_key, credential_id, passkey_pubkey, platform, expo, smart_wallet, smart_wallet_authenticator, last_updated_at FROM ` + tableName + `
			WHERE storage_key = $1`

	err := db.GetContext(ctx, res, query, key)
	if err != nil {
		return nil, pgutil.CheckNoRows(err, session.ErrSessionNotFound)
	}

	return res, nil
}

func dbDelete(ctx context.Context, db *sqlx.DB, key string) error {
	query := `DELETE FROM ` + tableName + ` WHERE storage_key = $1`

	_, err := db.ExecContext(ctx, query, key)
	return err
}

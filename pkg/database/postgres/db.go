package pg

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/lazor-kit/wallet-client/pkg/retry"
	"github.com/lazor-kit/wallet-client/pkg/retry/backoff"
)

const (
	maxSerializationAttempts = 5
	serializationBackoff     = 10 * time.Millisecond
)

// ExecuteRetryable runs fn again while postgres reports a serialization
// failure, up to a bounded number of attempts.
func ExecuteRetryable(ctx context.Context, fn func() error) error {
	_, err := retry.Retry(
		ctx,
		fn,
		retry.RetriableWhen(IsSerializationFailure),
		retry.Limit(maxSerializationAttempts),
		retry.BackoffWithJitter(backoff.BinaryExponential(serializationBackoff), 100*time.Millisecond, 0.25),
	)
	return err
}

// ExecuteInTx runs fn in a new transaction, committing when fn succeeds and
// rolling back otherwise. sql.LevelDefault maps to read committed.
func ExecuteInTx(ctx context.Context, db *sqlx.DB, isolation sql.IsolationLevel, fn func(tx *sqlx.Tx) error) error {
	if isolation == sql.LevelDefault {
		isolation = sql.LevelReadCommitted
	}

	tx, err := db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: isolation,
	})
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return errors.Wrapf(err, "failed to rollback transaction (%s)", rollbackErr)
		}
		return err
	}
	return tx.Commit()
}

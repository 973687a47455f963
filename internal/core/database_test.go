// AngelaMos | 2026
// database_test.go

package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &Database{DB: sqlx.NewDb(db, "sqlmock")}, mock
}

func touch(ctx context.Context, tx DBTX) error {
	_, err := tx.ExecContext(ctx, "UPDATE slides SET updated_at = NOW() WHERE id = $1", 1)
	return err
}

func TestWithTxCommits(t *testing.T) {
	d, mock := newMockDatabase(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE slides").WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := d.WithTx(context.Background(), func(tx DBTX) error {
		return touch(context.Background(), tx)
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	d, mock := newMockDatabase(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := d.WithTx(context.Background(), func(DBTX) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRetriesSerializationFailure(t *testing.T) {
	d, mock := newMockDatabase(t)
	conflict := &pgconn.PgError{Code: pgSerializationFailure}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE slides").WillReturnError(conflict)
	mock.ExpectRollback()
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE slides").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	attempts := 0
	err := d.WithTx(context.Background(), func(tx DBTX) error {
		attempts++
		return touch(context.Background(), tx)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxGivesUpAfterAttempts(t *testing.T) {
	d, mock := newMockDatabase(t)
	deadlock := &pgconn.PgError{Code: pgDeadlockDetected}

	for range txAttempts {
		mock.ExpectBegin()
		mock.ExpectRollback()
	}

	err := d.WithTx(context.Background(), func(DBTX) error {
		return fmt.Errorf("reorder: %w", deadlock)
	})
	assert.ErrorAs(t, err, &deadlock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.True(t, IsDuplicateKeyError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsDuplicateKeyError(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsDuplicateKeyError(errors.New("23505")))
}

func TestSpread(t *testing.T) {
	base := time.Hour
	for range 50 {
		got := spread(base)
		assert.GreaterOrEqual(t, got, base)
		assert.LessOrEqual(t, got, base+base/7)
	}
	assert.Zero(t, spread(0))
}

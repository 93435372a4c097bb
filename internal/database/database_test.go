package database

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db := New(sqlx.NewDb(mockDB, "sqlmock"), logger)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, mock
}

func TestWithTransaction_CommitsOnSuccess(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE FS_CONSENT").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.WithTransaction(context.Background(), func(tx *Transaction) error {
		_, err := tx.ExecContext(context.Background(),
			"UPDATE FS_CONSENT SET CURRENT_STATUS = ? WHERE CONSENT_ID = ?", "revoked", "c1")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := db.WithTransaction(context.Background(), func(tx *Transaction) error {
		return boom
	})
	assert.Equal(t, boom, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = db.WithTransaction(context.Background(), func(tx *Transaction) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRollback_ToleratesCompletedTransaction(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := db.BeginTx(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db := New(sqlx.NewDb(mockDB, "sqlmock"), logger)
	t.Cleanup(func() {
		_ = db.Close()
	})

	mock.ExpectPing()
	assert.NoError(t, db.HealthCheck(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Error(t, (&DB{}).HealthCheck(context.Background()))
}

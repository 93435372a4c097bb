package dao

import (
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/wso2/financial-services-consent-core/internal/database"
)

const testOrgID = "org-123"

// newMockDB wraps a sqlmock connection in the database layer so DAO tests
// run without a real MySQL instance.
func newMockDB(t *testing.T) (*database.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db := database.New(sqlx.NewDb(mockDB, "sqlmock"), logger)
	t.Cleanup(func() {
		_ = db.Close()
	})

	return db, mock
}

func newMockConsentDAO(t *testing.T) (*ConsentDAO, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewConsentDAO(db, "DEFAULT_ORG", true), mock
}

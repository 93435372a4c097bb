package dao

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/financial-services-consent-core/internal/models"
)

func newMockFileDAO(t *testing.T) (*ConsentFileDAO, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewConsentFileDAO(db), mock
}

func TestFileDAO_Create(t *testing.T) {
	dao, mock := newMockFileDAO(t)

	payload := []byte("<Document>...</Document>")

	mock.ExpectExec("INSERT INTO FS_CONSENT_FILE").
		WithArgs("c1", payload, testOrgID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := dao.Create(context.Background(), &models.ConsentFile{
		ConsentID:   "c1",
		ConsentFile: payload,
		OrgID:       testOrgID,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileDAO_Get(t *testing.T) {
	dao, mock := newMockFileDAO(t)

	payload := []byte("<Document>...</Document>")
	rows := sqlmock.NewRows([]string{"CONSENT_ID", "CONSENT_FILE", "ORG_ID"}).
		AddRow("c1", payload, testOrgID)

	mock.ExpectQuery("FROM FS_CONSENT_FILE").
		WithArgs("c1", testOrgID).
		WillReturnRows(rows)

	file, err := dao.Get(context.Background(), "c1", testOrgID)
	require.NoError(t, err)
	assert.Equal(t, payload, file.ConsentFile)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFileDAO_Get_Missing(t *testing.T) {
	dao, mock := newMockFileDAO(t)

	mock.ExpectQuery("FROM FS_CONSENT_FILE").
		WithArgs("missing", testOrgID).
		WillReturnRows(sqlmock.NewRows([]string{"CONSENT_ID", "CONSENT_FILE", "ORG_ID"}))

	_, err := dao.Get(context.Background(), "missing", testOrgID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

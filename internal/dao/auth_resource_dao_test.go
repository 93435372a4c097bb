package dao

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/financial-services-consent-core/internal/models"
)

var authResourceColumns = []string{
	"AUTH_ID", "CONSENT_ID", "AUTH_TYPE", "USER_ID", "AUTH_STATUS",
	"UPDATED_TIME", "ORG_ID",
}

func newMockAuthResourceDAO(t *testing.T) (*AuthResourceDAO, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewAuthResourceDAO(db), mock
}

func TestAuthResourceDAO_Create_PopulatesDefaults(t *testing.T) {
	dao, mock := newMockAuthResourceDAO(t)

	mock.ExpectExec("INSERT INTO FS_CONSENT_AUTH_RESOURCE").
		WillReturnResult(sqlmock.NewResult(0, 1))

	authResource := &models.ConsentAuthResource{
		ConsentID:  "c1",
		AuthType:   "authorization",
		AuthStatus: "created",
		OrgID:      testOrgID,
	}

	err := dao.Create(context.Background(), authResource)
	require.NoError(t, err)

	assert.NotEmpty(t, authResource.AuthID)
	assert.NotZero(t, authResource.UpdatedTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthResourceDAO_GetByConsentID(t *testing.T) {
	dao, mock := newMockAuthResourceDAO(t)

	rows := sqlmock.NewRows(authResourceColumns).
		AddRow("a1", "c1", "authorization", "u1", "authorised", int64(1700000100), testOrgID).
		AddRow("a2", "c1", "authorization", "u2", "created", int64(1700000200), testOrgID)

	mock.ExpectQuery("FROM FS_CONSENT_AUTH_RESOURCE").
		WithArgs("c1", testOrgID).
		WillReturnRows(rows)

	authResources, err := dao.GetByConsentID(context.Background(), "c1", testOrgID)
	require.NoError(t, err)
	require.Len(t, authResources, 2)
	assert.Equal(t, "a1", authResources[0].AuthID)
	assert.Equal(t, "u2", authResources[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthResourceDAO_GetByID_Missing(t *testing.T) {
	dao, mock := newMockAuthResourceDAO(t)

	mock.ExpectQuery("FROM FS_CONSENT_AUTH_RESOURCE").
		WithArgs("missing", testOrgID).
		WillReturnRows(sqlmock.NewRows(authResourceColumns))

	_, err := dao.GetByID(context.Background(), "missing", testOrgID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthResourceDAO_UpdateUser(t *testing.T) {
	dao, mock := newMockAuthResourceDAO(t)

	mock.ExpectExec("UPDATE FS_CONSENT_AUTH_RESOURCE").
		WithArgs("u1", int64(1700000500), "a1", testOrgID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := dao.UpdateUser(context.Background(), "a1", testOrgID, "u1", 1700000500)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthResourceDAO_UpdateStatusBatch(t *testing.T) {
	dao, mock := newMockAuthResourceDAO(t)

	mock.ExpectExec("UPDATE FS_CONSENT_AUTH_RESOURCE").
		WithArgs("revoked", int64(1700000500), testOrgID, "a1", "a2").
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := dao.UpdateStatusBatch(context.Background(), []string{"a1", "a2"}, testOrgID, "revoked", 1700000500)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthResourceDAO_UpdateStatusBatch_PartialSuccessOK(t *testing.T) {
	dao, mock := newMockAuthResourceDAO(t)

	mock.ExpectExec("UPDATE FS_CONSENT_AUTH_RESOURCE").
		WithArgs("revoked", int64(1700000500), testOrgID, "a1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := dao.UpdateStatusBatch(context.Background(), []string{"a1", "missing"}, testOrgID, "revoked", 1700000500)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthResourceDAO_UpdateStatusBatch_ZeroRowsIsUpdation(t *testing.T) {
	dao, mock := newMockAuthResourceDAO(t)

	mock.ExpectExec("UPDATE FS_CONSENT_AUTH_RESOURCE").
		WithArgs("revoked", int64(1700000500), testOrgID, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := dao.UpdateStatusBatch(context.Background(), []string{"missing"}, testOrgID, "revoked", 1700000500)
	require.Error(t, err)
	assert.Equal(t, KindUpdation, KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthResourceDAO_UpdateStatusBatch_EmptyListIsNoOp(t *testing.T) {
	dao, mock := newMockAuthResourceDAO(t)

	err := dao.UpdateStatusBatch(context.Background(), nil, testOrgID, "revoked", 1700000500)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

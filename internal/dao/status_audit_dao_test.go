package dao

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/financial-services-consent-core/internal/models"
)

var statusAuditColumns = []string{
	"STATUS_AUDIT_ID", "CONSENT_ID", "CURRENT_STATUS", "ACTION_TIME",
	"REASON", "ACTION_BY", "PREVIOUS_STATUS", "ORG_ID",
}

func newMockStatusAuditDAO(t *testing.T) (*StatusAuditDAO, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	return NewStatusAuditDAO(db, "DEFAULT_ORG", true), mock
}

func TestStatusAuditDAO_Create_PopulatesDefaults(t *testing.T) {
	dao, mock := newMockStatusAuditDAO(t)

	mock.ExpectExec("INSERT INTO FS_CONSENT_STATUS_AUDIT").
		WillReturnResult(sqlmock.NewResult(0, 1))

	audit := &models.ConsentStatusAudit{
		ConsentID:      "c1",
		CurrentStatus:  "revoked",
		PreviousStatus: "authorised",
		Reason:         "revoked by account holder",
		ActionBy:       "u1",
		OrgID:          testOrgID,
	}

	err := dao.Create(context.Background(), audit)
	require.NoError(t, err)

	assert.NotEmpty(t, audit.StatusAuditID)
	assert.NotZero(t, audit.ActionTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusAuditDAO_GetByConsentID(t *testing.T) {
	dao, mock := newMockStatusAuditDAO(t)

	rows := sqlmock.NewRows(statusAuditColumns).
		AddRow("s2", "c1", "revoked", int64(1700000200), "revoked by account holder", "u1", "authorised", testOrgID).
		AddRow("s1", "c1", "authorised", int64(1700000100), "", "u1", "awaitingAuthorisation", testOrgID)

	mock.ExpectQuery("FROM FS_CONSENT_STATUS_AUDIT").
		WithArgs("c1", testOrgID).
		WillReturnRows(rows)

	audits, err := dao.GetByConsentID(context.Background(), "c1", testOrgID)
	require.NoError(t, err)
	require.Len(t, audits, 2)
	assert.Equal(t, "revoked", audits[0].CurrentStatus)
	assert.Equal(t, "authorised", audits[0].PreviousStatus)
	assert.Equal(t, "s1", audits[1].StatusAuditID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusAuditDAO_Search(t *testing.T) {
	dao, mock := newMockStatusAuditDAO(t)

	rows := sqlmock.NewRows(statusAuditColumns).
		AddRow("s1", "c1", "revoked", int64(1700000200), "", "u1", "authorised", testOrgID)

	mock.ExpectQuery("FROM FS_CONSENT_STATUS_AUDIT").
		WithArgs(testOrgID, "c1", "revoked", nil, nil).
		WillReturnRows(rows)

	audits, err := dao.Search(context.Background(), &models.StatusAuditSearchParams{
		OrgID:      testOrgID,
		ConsentIDs: []string{"c1"},
		Statuses:   []string{"revoked"},
	})
	require.NoError(t, err)
	require.Len(t, audits, 1)
	assert.Equal(t, "s1", audits[0].StatusAuditID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatusAuditDAO_Search_DefaultsOrgAndPaginates(t *testing.T) {
	dao, mock := newMockStatusAuditDAO(t)

	limit := 5
	mock.ExpectQuery("FROM FS_CONSENT_STATUS_AUDIT").
		WithArgs("DEFAULT_ORG", nil, nil, limit).
		WillReturnRows(sqlmock.NewRows(statusAuditColumns))

	audits, err := dao.Search(context.Background(), &models.StatusAuditSearchParams{Limit: &limit})
	require.NoError(t, err)
	assert.Empty(t, audits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

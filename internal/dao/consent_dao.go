package dao

import (
	"context"
	"database/sql"

	"github.com/wso2/financial-services-consent-core/internal/database"
	"github.com/wso2/financial-services-consent-core/internal/models"
	"github.com/wso2/financial-services-consent-core/pkg/utils"
)

// ConsentDAO handles database operations for consents. The default org
// and the pagination bind order are injected rather than read from a
// process-wide configuration so the DAO is testable without environment
// mutation.
type ConsentDAO struct {
	db                *database.DB
	defaultOrgID      string
	limitBeforeOffset bool
}

// NewConsentDAO creates a new ConsentDAO instance
func NewConsentDAO(db *database.DB, defaultOrgID string, limitBeforeOffset bool) *ConsentDAO {
	return &ConsentDAO{
		db:                db,
		defaultOrgID:      defaultOrgID,
		limitBeforeOffset: limitBeforeOffset,
	}
}

const consentInsertQuery = `
	INSERT INTO FS_CONSENT (
		CONSENT_ID, RECEIPT, CREATED_TIME, UPDATED_TIME, CLIENT_ID,
		CONSENT_TYPE, CURRENT_STATUS, CONSENT_FREQUENCY, VALIDITY_TIME,
		RECURRING_INDICATOR, ORG_ID
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const consentSelectColumns = `CONSENT_ID, RECEIPT, CREATED_TIME, UPDATED_TIME, CLIENT_ID,
	       CONSENT_TYPE, CURRENT_STATUS, CONSENT_FREQUENCY, VALIDITY_TIME,
	       RECURRING_INDICATOR, ORG_ID`

// populateConsentDefaults assigns an id and creation timestamps when the
// caller supplied none. CreatedTime equals UpdatedTime at creation.
func populateConsentDefaults(consent *models.Consent) {
	if consent.ConsentID == "" {
		consent.ConsentID = utils.GenerateID()
	}
	if consent.CreatedTime == 0 {
		consent.CreatedTime = utils.CurrentEpochSeconds()
	}
	if consent.UpdatedTime == 0 {
		consent.UpdatedTime = consent.CreatedTime
	}
}

// Create inserts a new consent into the database. The consent is mutated
// in place with the generated id and timestamps.
func (dao *ConsentDAO) Create(ctx context.Context, consent *models.Consent) error {
	populateConsentDefaults(consent)

	result, err := dao.db.ExecContext(
		ctx,
		consentInsertQuery,
		consent.ConsentID,
		consent.Receipt,
		consent.CreatedTime,
		consent.UpdatedTime,
		consent.ClientID,
		consent.ConsentType,
		consent.CurrentStatus,
		consent.ConsentFrequency,
		consent.ValidityTime,
		consent.RecurringIndicator,
		consent.OrgID,
	)

	if err != nil {
		return insertionError("create consent", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create consent", sql.ErrNoRows)
	}

	return nil
}

// CreateWithTx inserts a new consent using a caller-owned transaction
func (dao *ConsentDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, consent *models.Consent) error {
	populateConsentDefaults(consent)

	result, err := tx.ExecContext(
		ctx,
		consentInsertQuery,
		consent.ConsentID,
		consent.Receipt,
		consent.CreatedTime,
		consent.UpdatedTime,
		consent.ClientID,
		consent.ConsentType,
		consent.CurrentStatus,
		consent.ConsentFrequency,
		consent.ValidityTime,
		consent.RecurringIndicator,
		consent.OrgID,
	)

	if err != nil {
		return insertionError("create consent", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create consent", sql.ErrNoRows)
	}

	return nil
}

// GetByID retrieves a consent by ID and organization ID
func (dao *ConsentDAO) GetByID(ctx context.Context, consentID, orgID string) (*models.Consent, error) {
	query := `
		SELECT ` + consentSelectColumns + `
		FROM FS_CONSENT
		WHERE CONSENT_ID = ? AND ORG_ID = ?
	`

	var consent models.Consent
	err := dao.db.GetContext(ctx, &consent, query, consentID, orgID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFoundError("get consent", consentID)
		}
		return nil, retrievalError("get consent", err)
	}

	return &consent, nil
}

// GetWithAttributes retrieves a consent joined with its attributes in one
// round trip. A consent without attributes yields an empty map.
func (dao *ConsentDAO) GetWithAttributes(ctx context.Context, consentID, orgID string) (*models.ConsentWithAttributes, error) {
	query := `
		SELECT C.CONSENT_ID, C.RECEIPT, C.CREATED_TIME, C.UPDATED_TIME, C.CLIENT_ID,
		       C.CONSENT_TYPE, C.CURRENT_STATUS, C.CONSENT_FREQUENCY, C.VALIDITY_TIME,
		       C.RECURRING_INDICATOR, C.ORG_ID, CA.ATT_KEY, CA.ATT_VALUE
		FROM FS_CONSENT C
		LEFT JOIN FS_CONSENT_ATTRIBUTE CA ON C.CONSENT_ID = CA.CONSENT_ID AND C.ORG_ID = CA.ORG_ID
		WHERE C.CONSENT_ID = ? AND C.ORG_ID = ?
	`

	type consentAttributeRow struct {
		models.Consent
		AttKey   sql.NullString `db:"ATT_KEY"`
		AttValue sql.NullString `db:"ATT_VALUE"`
	}

	var rows []consentAttributeRow
	err := dao.db.SelectContext(ctx, &rows, query, consentID, orgID)
	if err != nil {
		return nil, retrievalError("get consent with attributes", err)
	}

	if len(rows) == 0 {
		return nil, notFoundError("get consent with attributes", consentID)
	}

	result := &models.ConsentWithAttributes{
		Consent:    rows[0].Consent,
		Attributes: make(map[string]string),
	}
	for _, row := range rows {
		if row.AttKey.Valid {
			result.Attributes[row.AttKey.String] = row.AttValue.String
		}
	}

	return result, nil
}

// UpdateStatus updates the status of a consent and bumps the updated time
func (dao *ConsentDAO) UpdateStatus(ctx context.Context, consentID, orgID, status string, updatedTime int64) error {
	query := `
		UPDATE FS_CONSENT
		SET CURRENT_STATUS = ?, UPDATED_TIME = ?
		WHERE CONSENT_ID = ? AND ORG_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, status, updatedTime, consentID, orgID)
	if err != nil {
		return updationError("update consent status", err)
	}

	return checkUpdated(result, "update consent status")
}

// UpdateStatusWithTx updates the status of a consent using a caller-owned transaction
func (dao *ConsentDAO) UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, consentID, orgID, status string, updatedTime int64) error {
	query := `
		UPDATE FS_CONSENT
		SET CURRENT_STATUS = ?, UPDATED_TIME = ?
		WHERE CONSENT_ID = ? AND ORG_ID = ?
	`

	result, err := tx.ExecContext(ctx, query, status, updatedTime, consentID, orgID)
	if err != nil {
		return updationError("update consent status", err)
	}

	return checkUpdated(result, "update consent status")
}

// UpdateReceipt replaces the receipt payload of a consent. The receipt is
// amendment data; it does not bump the updated time on its own.
func (dao *ConsentDAO) UpdateReceipt(ctx context.Context, consentID, orgID, receipt string) error {
	query := `
		UPDATE FS_CONSENT
		SET RECEIPT = ?
		WHERE CONSENT_ID = ? AND ORG_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, receipt, consentID, orgID)
	if err != nil {
		return updationError("update consent receipt", err)
	}

	return checkUpdated(result, "update consent receipt")
}

// UpdateValidityTime updates the validity period of a consent and bumps
// the updated time
func (dao *ConsentDAO) UpdateValidityTime(ctx context.Context, consentID, orgID string, validityTime, updatedTime int64) error {
	query := `
		UPDATE FS_CONSENT
		SET VALIDITY_TIME = ?, UPDATED_TIME = ?
		WHERE CONSENT_ID = ? AND ORG_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, validityTime, updatedTime, consentID, orgID)
	if err != nil {
		return updationError("update consent validity time", err)
	}

	return checkUpdated(result, "update consent validity time")
}

// checkUpdated turns a zero-rows-affected update into an updation error
func checkUpdated(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return updationError(op, err)
	}
	if rows == 0 {
		return updationError(op, sql.ErrNoRows)
	}
	return nil
}

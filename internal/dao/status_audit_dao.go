package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wso2/financial-services-consent-core/internal/database"
	"github.com/wso2/financial-services-consent-core/internal/models"
	"github.com/wso2/financial-services-consent-core/pkg/utils"
)

// StatusAuditDAO handles database operations for the append-only consent
// status audit trail
type StatusAuditDAO struct {
	db                *database.DB
	defaultOrgID      string
	limitBeforeOffset bool
}

// NewStatusAuditDAO creates a new StatusAuditDAO instance
func NewStatusAuditDAO(db *database.DB, defaultOrgID string, limitBeforeOffset bool) *StatusAuditDAO {
	return &StatusAuditDAO{
		db:                db,
		defaultOrgID:      defaultOrgID,
		limitBeforeOffset: limitBeforeOffset,
	}
}

const statusAuditInsertQuery = `
	INSERT INTO FS_CONSENT_STATUS_AUDIT (
		STATUS_AUDIT_ID, CONSENT_ID, CURRENT_STATUS, ACTION_TIME,
		REASON, ACTION_BY, PREVIOUS_STATUS, ORG_ID
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

const statusAuditSelectColumns = `STATUS_AUDIT_ID, CONSENT_ID, CURRENT_STATUS, ACTION_TIME,
	       REASON, ACTION_BY, PREVIOUS_STATUS, ORG_ID`

func populateStatusAuditDefaults(audit *models.ConsentStatusAudit) {
	if audit.StatusAuditID == "" {
		audit.StatusAuditID = utils.GenerateID()
	}
	if audit.ActionTime == 0 {
		audit.ActionTime = utils.CurrentEpochSeconds()
	}
}

// Create inserts a new status audit record
func (dao *StatusAuditDAO) Create(ctx context.Context, audit *models.ConsentStatusAudit) error {
	populateStatusAuditDefaults(audit)

	result, err := dao.db.ExecContext(
		ctx,
		statusAuditInsertQuery,
		audit.StatusAuditID,
		audit.ConsentID,
		audit.CurrentStatus,
		audit.ActionTime,
		audit.Reason,
		audit.ActionBy,
		audit.PreviousStatus,
		audit.OrgID,
	)

	if err != nil {
		return insertionError("create status audit", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create status audit", sql.ErrNoRows)
	}

	return nil
}

// CreateWithTx inserts a new status audit record using a caller-owned transaction
func (dao *StatusAuditDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, audit *models.ConsentStatusAudit) error {
	populateStatusAuditDefaults(audit)

	result, err := tx.ExecContext(
		ctx,
		statusAuditInsertQuery,
		audit.StatusAuditID,
		audit.ConsentID,
		audit.CurrentStatus,
		audit.ActionTime,
		audit.Reason,
		audit.ActionBy,
		audit.PreviousStatus,
		audit.OrgID,
	)

	if err != nil {
		return insertionError("create status audit", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create status audit", sql.ErrNoRows)
	}

	return nil
}

// GetByConsentID retrieves the full status audit trail of a consent,
// most recent action first
func (dao *StatusAuditDAO) GetByConsentID(ctx context.Context, consentID, orgID string) ([]models.ConsentStatusAudit, error) {
	query := `
		SELECT ` + statusAuditSelectColumns + `
		FROM FS_CONSENT_STATUS_AUDIT
		WHERE CONSENT_ID = ? AND ORG_ID = ?
		ORDER BY ACTION_TIME DESC
	`

	var audits []models.ConsentStatusAudit
	err := dao.db.SelectContext(ctx, &audits, query, consentID, orgID)
	if err != nil {
		return nil, retrievalError("get status audits by consent", err)
	}

	return audits, nil
}

// Search retrieves status audit records matching the given criteria,
// most recent action first
func (dao *StatusAuditDAO) Search(ctx context.Context, params *models.StatusAuditSearchParams) ([]models.ConsentStatusAudit, error) {
	if params.OrgID == "" {
		params.OrgID = dao.defaultOrgID
	}

	whereClause, args := renderConditions(buildStatusAuditSearchConditions(params))
	query := fmt.Sprintf(`
		SELECT `+statusAuditSelectColumns+`
		FROM FS_CONSENT_STATUS_AUDIT
		WHERE %s
		ORDER BY ACTION_TIME DESC`, whereClause)

	pagination, paginationArgs := paginationClause(params.Limit, params.Offset, dao.limitBeforeOffset)
	query += pagination
	args = append(args, paginationArgs...)

	var audits []models.ConsentStatusAudit
	err := dao.db.SelectContext(ctx, &audits, query, args...)
	if err != nil {
		return nil, retrievalError("search status audits", err)
	}

	return audits, nil
}

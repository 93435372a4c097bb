package dao

import (
	"context"
	"database/sql"

	"github.com/wso2/financial-services-consent-core/internal/database"
	"github.com/wso2/financial-services-consent-core/internal/models"
)

// ConsentFileDAO handles database operations for consent files
type ConsentFileDAO struct {
	db *database.DB
}

// NewConsentFileDAO creates a new ConsentFileDAO instance
func NewConsentFileDAO(db *database.DB) *ConsentFileDAO {
	return &ConsentFileDAO{db: db}
}

// Create inserts a consent file (BLOB data). One file per consent.
func (dao *ConsentFileDAO) Create(ctx context.Context, file *models.ConsentFile) error {
	query := `
		INSERT INTO FS_CONSENT_FILE (CONSENT_ID, CONSENT_FILE, ORG_ID)
		VALUES (?, ?, ?)
	`

	result, err := dao.db.ExecContext(
		ctx,
		query,
		file.ConsentID,
		file.ConsentFile,
		file.OrgID,
	)

	if err != nil {
		return insertionError("create consent file", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create consent file", sql.ErrNoRows)
	}

	return nil
}

// Get retrieves a consent file by consent ID
func (dao *ConsentFileDAO) Get(ctx context.Context, consentID, orgID string) (*models.ConsentFile, error) {
	query := `
		SELECT CONSENT_ID, CONSENT_FILE, ORG_ID
		FROM FS_CONSENT_FILE
		WHERE CONSENT_ID = ? AND ORG_ID = ?
	`

	var file models.ConsentFile
	err := dao.db.GetContext(ctx, &file, query, consentID, orgID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFoundError("get consent file", consentID)
		}
		return nil, retrievalError("get consent file", err)
	}

	return &file, nil
}

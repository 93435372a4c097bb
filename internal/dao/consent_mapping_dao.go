package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wso2/financial-services-consent-core/internal/database"
	"github.com/wso2/financial-services-consent-core/internal/models"
	"github.com/wso2/financial-services-consent-core/pkg/utils"
)

// ConsentMappingDAO handles database operations for consent mappings,
// the links between an authorization and the concrete resources it covers
type ConsentMappingDAO struct {
	db *database.DB
}

// NewConsentMappingDAO creates a new ConsentMappingDAO instance
func NewConsentMappingDAO(db *database.DB) *ConsentMappingDAO {
	return &ConsentMappingDAO{db: db}
}

const consentMappingInsertQuery = `
	INSERT INTO FS_CONSENT_MAPPING (
		MAPPING_ID, AUTH_ID, RESOURCE, MAPPING_STATUS, ORG_ID
	) VALUES (?, ?, ?, ?, ?)
`

// Create inserts a new consent mapping. The mapping is mutated in place
// with the generated id when none was supplied.
func (dao *ConsentMappingDAO) Create(ctx context.Context, mapping *models.ConsentMapping) error {
	if mapping.MappingID == "" {
		mapping.MappingID = utils.GenerateID()
	}

	result, err := dao.db.ExecContext(
		ctx,
		consentMappingInsertQuery,
		mapping.MappingID,
		mapping.AuthID,
		mapping.Resource,
		mapping.MappingStatus,
		mapping.OrgID,
	)

	if err != nil {
		return insertionError("create consent mapping", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create consent mapping", sql.ErrNoRows)
	}

	return nil
}

// CreateWithTx inserts a new consent mapping using a caller-owned transaction
func (dao *ConsentMappingDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, mapping *models.ConsentMapping) error {
	if mapping.MappingID == "" {
		mapping.MappingID = utils.GenerateID()
	}

	result, err := tx.ExecContext(
		ctx,
		consentMappingInsertQuery,
		mapping.MappingID,
		mapping.AuthID,
		mapping.Resource,
		mapping.MappingStatus,
		mapping.OrgID,
	)

	if err != nil {
		return insertionError("create consent mapping", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create consent mapping", sql.ErrNoRows)
	}

	return nil
}

// GetByID retrieves a consent mapping by ID
func (dao *ConsentMappingDAO) GetByID(ctx context.Context, mappingID, orgID string) (*models.ConsentMapping, error) {
	query := `
		SELECT MAPPING_ID, AUTH_ID, RESOURCE, MAPPING_STATUS, ORG_ID
		FROM FS_CONSENT_MAPPING
		WHERE MAPPING_ID = ? AND ORG_ID = ?
	`

	var mapping models.ConsentMapping
	err := dao.db.GetContext(ctx, &mapping, query, mappingID, orgID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFoundError("get consent mapping", mappingID)
		}
		return nil, retrievalError("get consent mapping", err)
	}

	return &mapping, nil
}

// GetByAuthID retrieves all mappings owned by an authorization resource
func (dao *ConsentMappingDAO) GetByAuthID(ctx context.Context, authID, orgID string) ([]models.ConsentMapping, error) {
	query := `
		SELECT MAPPING_ID, AUTH_ID, RESOURCE, MAPPING_STATUS, ORG_ID
		FROM FS_CONSENT_MAPPING
		WHERE AUTH_ID = ? AND ORG_ID = ?
		ORDER BY MAPPING_ID
	`

	var mappings []models.ConsentMapping
	err := dao.db.SelectContext(ctx, &mappings, query, authID, orgID)
	if err != nil {
		return nil, retrievalError("get consent mappings by auth", err)
	}

	return mappings, nil
}

// UpdateStatus updates the status of a single consent mapping
func (dao *ConsentMappingDAO) UpdateStatus(ctx context.Context, mappingID, orgID, status string) error {
	query := `
		UPDATE FS_CONSENT_MAPPING
		SET MAPPING_STATUS = ?
		WHERE MAPPING_ID = ? AND ORG_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, status, mappingID, orgID)
	if err != nil {
		return updationError("update consent mapping status", err)
	}

	return checkUpdated(result, "update consent mapping status")
}

// UpdateStatusBatch updates the status of every mapping in the id list as
// one statement. Partial success across the batch is tolerated; only a
// batch where no row was updated is an error.
func (dao *ConsentMappingDAO) UpdateStatusBatch(ctx context.Context, mappingIDs []string, orgID, status string) error {
	if len(mappingIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE FS_CONSENT_MAPPING
		SET MAPPING_STATUS = ?
		WHERE ORG_ID = ? AND MAPPING_ID IN (%s)
	`, inPlaceholders(len(mappingIDs)))

	args := append([]interface{}{status, orgID}, toArgs(mappingIDs)...)

	result, err := dao.db.ExecContext(ctx, query, args...)
	if err != nil {
		return updationError("update consent mapping statuses", err)
	}

	return checkUpdated(result, "update consent mapping statuses")
}

package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wso2/financial-services-consent-core/internal/database"
	"github.com/wso2/financial-services-consent-core/internal/models"
	"github.com/wso2/financial-services-consent-core/pkg/utils"
)

// AuthResourceDAO handles database operations for authorization resources
type AuthResourceDAO struct {
	db *database.DB
}

// NewAuthResourceDAO creates a new AuthResourceDAO instance
func NewAuthResourceDAO(db *database.DB) *AuthResourceDAO {
	return &AuthResourceDAO{db: db}
}

const authResourceInsertQuery = `
	INSERT INTO FS_CONSENT_AUTH_RESOURCE (
		AUTH_ID, CONSENT_ID, AUTH_TYPE, USER_ID, AUTH_STATUS,
		UPDATED_TIME, ORG_ID
	) VALUES (?, ?, ?, ?, ?, ?, ?)
`

func populateAuthResourceDefaults(authResource *models.ConsentAuthResource) {
	if authResource.AuthID == "" {
		authResource.AuthID = utils.GenerateID()
	}
	if authResource.UpdatedTime == 0 {
		authResource.UpdatedTime = utils.CurrentEpochSeconds()
	}
}

// Create inserts a new authorization resource into the database. The
// resource is mutated in place with the generated id and timestamp.
func (dao *AuthResourceDAO) Create(ctx context.Context, authResource *models.ConsentAuthResource) error {
	populateAuthResourceDefaults(authResource)

	result, err := dao.db.ExecContext(
		ctx,
		authResourceInsertQuery,
		authResource.AuthID,
		authResource.ConsentID,
		authResource.AuthType,
		authResource.UserID,
		authResource.AuthStatus,
		authResource.UpdatedTime,
		authResource.OrgID,
	)

	if err != nil {
		return insertionError("create auth resource", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create auth resource", sql.ErrNoRows)
	}

	return nil
}

// CreateWithTx inserts a new authorization resource using a caller-owned transaction
func (dao *AuthResourceDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, authResource *models.ConsentAuthResource) error {
	populateAuthResourceDefaults(authResource)

	result, err := tx.ExecContext(
		ctx,
		authResourceInsertQuery,
		authResource.AuthID,
		authResource.ConsentID,
		authResource.AuthType,
		authResource.UserID,
		authResource.AuthStatus,
		authResource.UpdatedTime,
		authResource.OrgID,
	)

	if err != nil {
		return insertionError("create auth resource", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create auth resource", sql.ErrNoRows)
	}

	return nil
}

// GetByID retrieves an authorization resource by ID
func (dao *AuthResourceDAO) GetByID(ctx context.Context, authID, orgID string) (*models.ConsentAuthResource, error) {
	query := `
		SELECT AUTH_ID, CONSENT_ID, AUTH_TYPE, USER_ID, AUTH_STATUS,
		       UPDATED_TIME, ORG_ID
		FROM FS_CONSENT_AUTH_RESOURCE
		WHERE AUTH_ID = ? AND ORG_ID = ?
	`

	var authResource models.ConsentAuthResource
	err := dao.db.GetContext(ctx, &authResource, query, authID, orgID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFoundError("get auth resource", authID)
		}
		return nil, retrievalError("get auth resource", err)
	}

	return &authResource, nil
}

// GetByConsentID retrieves all authorization resources for a specific consent
func (dao *AuthResourceDAO) GetByConsentID(ctx context.Context, consentID, orgID string) ([]models.ConsentAuthResource, error) {
	query := `
		SELECT AUTH_ID, CONSENT_ID, AUTH_TYPE, USER_ID, AUTH_STATUS,
		       UPDATED_TIME, ORG_ID
		FROM FS_CONSENT_AUTH_RESOURCE
		WHERE CONSENT_ID = ? AND ORG_ID = ?
		ORDER BY UPDATED_TIME
	`

	var authResources []models.ConsentAuthResource
	err := dao.db.SelectContext(ctx, &authResources, query, consentID, orgID)
	if err != nil {
		return nil, retrievalError("get auth resources by consent", err)
	}

	return authResources, nil
}

// UpdateStatus updates the status of a single authorization resource
func (dao *AuthResourceDAO) UpdateStatus(ctx context.Context, authID, orgID, status string, updatedTime int64) error {
	query := `
		UPDATE FS_CONSENT_AUTH_RESOURCE
		SET AUTH_STATUS = ?, UPDATED_TIME = ?
		WHERE AUTH_ID = ? AND ORG_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, status, updatedTime, authID, orgID)
	if err != nil {
		return updationError("update auth resource status", err)
	}

	return checkUpdated(result, "update auth resource status")
}

// UpdateUser assigns the approving user of an authorization resource
func (dao *AuthResourceDAO) UpdateUser(ctx context.Context, authID, orgID, userID string, updatedTime int64) error {
	query := `
		UPDATE FS_CONSENT_AUTH_RESOURCE
		SET USER_ID = ?, UPDATED_TIME = ?
		WHERE AUTH_ID = ? AND ORG_ID = ?
	`

	result, err := dao.db.ExecContext(ctx, query, userID, updatedTime, authID, orgID)
	if err != nil {
		return updationError("update auth resource user", err)
	}

	return checkUpdated(result, "update auth resource user")
}

// UpdateStatusBatch updates the status of every authorization resource in
// the id list as one statement. Partial success across the batch is
// tolerated; only a batch where no row was updated is an error.
func (dao *AuthResourceDAO) UpdateStatusBatch(ctx context.Context, authIDs []string, orgID, status string, updatedTime int64) error {
	if len(authIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE FS_CONSENT_AUTH_RESOURCE
		SET AUTH_STATUS = ?, UPDATED_TIME = ?
		WHERE ORG_ID = ? AND AUTH_ID IN (%s)
	`, inPlaceholders(len(authIDs)))

	args := append([]interface{}{status, updatedTime, orgID}, toArgs(authIDs)...)

	result, err := dao.db.ExecContext(ctx, query, args...)
	if err != nil {
		return updationError("update auth resource statuses", err)
	}

	return checkUpdated(result, "update auth resource statuses")
}

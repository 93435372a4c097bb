package dao

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/wso2/financial-services-consent-core/internal/database"
	"github.com/wso2/financial-services-consent-core/internal/models"
)

// ConsentAttributeDAO handles database operations for consent attributes
type ConsentAttributeDAO struct {
	db *database.DB
}

// NewConsentAttributeDAO creates a new ConsentAttributeDAO instance
func NewConsentAttributeDAO(db *database.DB) *ConsentAttributeDAO {
	return &ConsentAttributeDAO{db: db}
}

// sortedKeys gives the batch statements a deterministic traversal order
// over the attribute map.
func sortedKeys(attributes map[string]string) []string {
	keys := make([]string, 0, len(attributes))
	for key := range attributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Create inserts consent attributes as one batched statement across the
// provided key set. Success means at least one row was affected across
// the whole batch.
func (dao *ConsentAttributeDAO) Create(ctx context.Context, consentID, orgID string, attributes map[string]string) error {
	if len(attributes) == 0 {
		return nil
	}

	query, args := buildAttributeInsert(consentID, orgID, attributes, "")

	result, err := dao.db.ExecContext(ctx, query, args...)
	if err != nil {
		return insertionError("create consent attributes", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create consent attributes", sql.ErrNoRows)
	}

	return nil
}

// CreateWithTx inserts consent attributes using a caller-owned transaction
func (dao *ConsentAttributeDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, consentID, orgID string, attributes map[string]string) error {
	if len(attributes) == 0 {
		return nil
	}

	query, args := buildAttributeInsert(consentID, orgID, attributes, "")

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return insertionError("create consent attributes", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create consent attributes", sql.ErrNoRows)
	}

	return nil
}

// Update upserts the provided attributes by key as one batched statement,
// leaving keys outside the set untouched.
func (dao *ConsentAttributeDAO) Update(ctx context.Context, consentID, orgID string, attributes map[string]string) error {
	if len(attributes) == 0 {
		return nil
	}

	query, args := buildAttributeInsert(consentID, orgID, attributes,
		" ON DUPLICATE KEY UPDATE ATT_VALUE = VALUES(ATT_VALUE)")

	result, err := dao.db.ExecContext(ctx, query, args...)
	if err != nil {
		return updationError("update consent attributes", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return updationError("update consent attributes", sql.ErrNoRows)
	}

	return nil
}

// buildAttributeInsert renders one multi-row insert with values bound in
// sorted key order.
func buildAttributeInsert(consentID, orgID string, attributes map[string]string, suffix string) (string, []interface{}) {
	valuesClause := strings.TrimSuffix(strings.Repeat("(?, ?, ?, ?),", len(attributes)), ",")
	query := fmt.Sprintf(
		"INSERT INTO FS_CONSENT_ATTRIBUTE (CONSENT_ID, ATT_KEY, ATT_VALUE, ORG_ID) VALUES %s%s",
		valuesClause, suffix)

	args := make([]interface{}, 0, len(attributes)*4)
	for _, key := range sortedKeys(attributes) {
		args = append(args, consentID, key, attributes[key], orgID)
	}

	return query, args
}

// GetByConsentID retrieves all attributes for a specific consent. A
// consent without attributes yields an empty map, not an error.
func (dao *ConsentAttributeDAO) GetByConsentID(ctx context.Context, consentID, orgID string) (map[string]string, error) {
	query := `
		SELECT ATT_KEY, ATT_VALUE
		FROM FS_CONSENT_ATTRIBUTE
		WHERE CONSENT_ID = ? AND ORG_ID = ?
	`

	var attributes []models.ConsentAttribute
	err := dao.db.SelectContext(ctx, &attributes, query, consentID, orgID)
	if err != nil {
		return nil, retrievalError("get consent attributes", err)
	}

	result := make(map[string]string, len(attributes))
	for _, attr := range attributes {
		result[attr.AttKey] = attr.AttValue
	}

	return result, nil
}

// GetByKey retrieves a specific attribute value by key
func (dao *ConsentAttributeDAO) GetByKey(ctx context.Context, consentID, orgID, key string) (string, error) {
	query := `
		SELECT ATT_VALUE
		FROM FS_CONSENT_ATTRIBUTE
		WHERE CONSENT_ID = ? AND ORG_ID = ? AND ATT_KEY = ?
	`

	var value string
	err := dao.db.GetContext(ctx, &value, query, consentID, orgID, key)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", notFoundError("get consent attribute", key)
		}
		return "", retrievalError("get consent attribute", err)
	}

	return value, nil
}

// Delete removes the attributes named by the key set as one batched
// statement. Success means at least one row was affected.
func (dao *ConsentAttributeDAO) Delete(ctx context.Context, consentID, orgID string, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		"DELETE FROM FS_CONSENT_ATTRIBUTE WHERE CONSENT_ID = ? AND ORG_ID = ? AND ATT_KEY IN (%s)",
		inPlaceholders(len(keys)))

	args := append([]interface{}{consentID, orgID}, toArgs(keys)...)

	result, err := dao.db.ExecContext(ctx, query, args...)
	if err != nil {
		return deletionError("delete consent attributes", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return deletionError("delete consent attributes", err)
	}
	if rows == 0 {
		return deletionError("delete consent attributes", sql.ErrNoRows)
	}

	return nil
}

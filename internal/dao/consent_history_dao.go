package dao

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/wso2/financial-services-consent-core/internal/database"
	"github.com/wso2/financial-services-consent-core/internal/models"
	"github.com/wso2/financial-services-consent-core/pkg/utils"
)

// ConsentHistoryDAO handles database operations for the append-only
// amendment history of consent-related records
type ConsentHistoryDAO struct {
	db *database.DB
}

// NewConsentHistoryDAO creates a new ConsentHistoryDAO instance
func NewConsentHistoryDAO(db *database.DB) *ConsentHistoryDAO {
	return &ConsentHistoryDAO{db: db}
}

// Create inserts a new amendment history entry. The record-type tag is
// validated against the fixed tag set before anything is written; an
// unrecognized tag is an insertion error.
func (dao *ConsentHistoryDAO) Create(ctx context.Context, history *models.ConsentHistory) error {
	if !models.IsValidHistoryType(history.TableID) {
		return insertionError("create consent history",
			fmt.Errorf("unrecognized consent data type: %s", history.TableID))
	}

	if history.HistoryID == "" {
		history.HistoryID = utils.GenerateID()
	}
	if history.HistoryTime == 0 {
		history.HistoryTime = utils.CurrentEpochSeconds()
	}

	query := `
		INSERT INTO FS_CONSENT_HISTORY (
			HISTORY_ID, TABLE_ID, RECORD_ID, HISTORY_TIME, CHANGED_VALUES, REASON
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := dao.db.ExecContext(
		ctx,
		query,
		history.HistoryID,
		history.TableID,
		history.RecordID,
		history.HistoryTime,
		history.ChangedValues,
		history.Reason,
	)

	if err != nil {
		return insertionError("create consent history", err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return insertionError("create consent history", sql.ErrNoRows)
	}

	return nil
}

// GetByRecordIDs retrieves the amendment history of the given record ids,
// keyed by history id. When the record id list is empty the consent id
// itself is used as the only record id. Absence of rows yields an empty
// map, not an error.
func (dao *ConsentHistoryDAO) GetByRecordIDs(ctx context.Context, recordIDs []string, consentID string) (map[string]models.ConsentHistory, error) {
	if len(recordIDs) == 0 {
		recordIDs = []string{consentID}
	}

	query := fmt.Sprintf(`
		SELECT HISTORY_ID, TABLE_ID, RECORD_ID, HISTORY_TIME, CHANGED_VALUES, REASON
		FROM FS_CONSENT_HISTORY
		WHERE RECORD_ID IN (%s)
		ORDER BY HISTORY_TIME DESC
	`, inPlaceholders(len(recordIDs)))

	var entries []models.ConsentHistory
	err := dao.db.SelectContext(ctx, &entries, query, toArgs(recordIDs)...)
	if err != nil {
		return nil, retrievalError("get consent history", err)
	}

	result := make(map[string]models.ConsentHistory, len(entries))
	for _, entry := range entries {
		result[entry.HistoryID] = entry
	}

	return result, nil
}
